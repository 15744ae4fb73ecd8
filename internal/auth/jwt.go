package auth

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// Audience identifica tokens emitidos para a API administrativa.
	Audience = "midia-admin"
	// RoleMediaAdmin permite gerenciar configurações e arquivos.
	RoleMediaAdmin = "MEDIA_ADMIN"
	// AllTenants concede acesso a qualquer tenant.
	AllTenants = "*"
)

// Claims representa as informações presentes em um JWT de acesso.
type Claims struct {
	Roles   []string `json:"roles"`
	Tenants []string `json:"tenants,omitempty"`
	jwt.RegisteredClaims
}

// HasRole verifica o papel ignorando caixa.
func (c *Claims) HasRole(role string) bool {
	return slices.ContainsFunc(c.Roles, func(r string) bool {
		return strings.EqualFold(strings.TrimSpace(r), role)
	})
}

// AllowsTenant indica se o token cobre o tenant informado.
func (c *Claims) AllowsTenant(tenantID uuid.UUID) bool {
	for _, t := range c.Tenants {
		if t == AllTenants {
			return true
		}
		if id, err := uuid.Parse(t); err == nil && id == tenantID {
			return true
		}
	}
	return false
}

// JWTManager encapsula geração e validação de tokens.
type JWTManager struct {
	secret    []byte
	accessTTL time.Duration
}

// NewJWTManager cria o gerenciador com segredo e TTL configurados.
func NewJWTManager(secret string, accessTTL time.Duration) *JWTManager {
	return &JWTManager{secret: []byte(secret), accessTTL: accessTTL}
}

// GenerateAccessToken cria um JWT HS256 para a audiência administrativa.
func (m *JWTManager) GenerateAccessToken(subject string, roles, tenants []string) (string, string, error) {
	now := time.Now().UTC()
	jti := uuid.NewString()

	claims := Claims{
		Roles:   roles,
		Tenants: tenants,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Audience:  jwt.ClaimStrings{Audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        jti,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", "", err
	}

	return signed, jti, nil
}

// ParseAndValidate verifica assinatura, expiração e audiência.
func (m *JWTManager) ParseAndValidate(tokenString string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(Audience),
		jwt.WithExpirationRequired(),
	)

	token, err := parser.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("token inválido")
	}

	return claims, nil
}
