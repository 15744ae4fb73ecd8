package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gestaozabele/midia/internal/auth"
)

type contextKey string

const (
	claimsKey contextKey = "claims"
	tenantKey contextKey = "tenant"
)

// Auth exige um Bearer válido para a audiência administrativa e guarda as claims no contexto.
func Auth(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				w.Header().Set("WWW-Authenticate", `Bearer realm="midia-admin"`)
				writeError(w, http.StatusUnauthorized, "AUTH", "token ausente")
				return
			}

			claims, err := jwtManager.ParseAndValidate(raw)
			if err != nil {
				msg := "token inválido"
				if errors.Is(err, jwt.ErrTokenExpired) {
					msg = "token expirado"
				}
				w.Header().Set("WWW-Authenticate", `Bearer realm="midia-admin", error="invalid_token"`)
				writeError(w, http.StatusUnauthorized, "AUTH", msg)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
		})
	}
}

// GetClaims devolve as claims validadas por Auth, ou nil.
func GetClaims(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey).(*auth.Claims)
	return claims
}

// GetSubject devolve o subject do token autenticado.
func GetSubject(ctx context.Context) string {
	if claims := GetClaims(ctx); claims != nil {
		return claims.Subject
	}
	return ""
}

// RequireRoles libera quem tiver ao menos um dos papéis.
func RequireRoles(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if claims := GetClaims(r.Context()); claims != nil {
				for _, role := range roles {
					if claims.HasRole(role) {
						next.ServeHTTP(w, r)
						return
					}
				}
			}
			writeError(w, http.StatusForbidden, "FORBIDDEN", "acesso restrito a administradores de mídia")
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
