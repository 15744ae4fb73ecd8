package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// TenantScope valida o parâmetro de rota do tenant contra as claims do token.
func TenantScope(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tenantID, err := uuid.Parse(chi.URLParam(r, param))
			if err != nil {
				writeError(w, http.StatusBadRequest, "VALIDATION", "tenant inválido")
				return
			}

			claims := GetClaims(r.Context())
			if claims == nil || !claims.AllowsTenant(tenantID) {
				writeError(w, http.StatusForbidden, "FORBIDDEN", "tenant fora do escopo do token")
				return
			}

			ctx := context.WithValue(r.Context(), tenantKey, tenantID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetTenant retorna o tenant validado por TenantScope.
func GetTenant(ctx context.Context) uuid.UUID {
	val, _ := ctx.Value(tenantKey).(uuid.UUID)
	return val
}
