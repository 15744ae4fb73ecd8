package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123456789abcdef"

func TestGenerateAndParse(t *testing.T) {
	m := NewJWTManager(secret, time.Minute)
	tenantID := uuid.New()

	token, jti, err := m.GenerateAccessToken("ops", []string{"media_admin"}, []string{tenantID.String()})
	require.NoError(t, err)
	require.NotEmpty(t, jti)

	claims, err := m.ParseAndValidate(token)
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Subject)
	assert.Equal(t, jti, claims.ID)
	assert.True(t, claims.HasRole(RoleMediaAdmin))
	assert.True(t, claims.AllowsTenant(tenantID))
	assert.False(t, claims.AllowsTenant(uuid.New()))
}

func TestAllTenants(t *testing.T) {
	claims := &Claims{Tenants: []string{"lixo", AllTenants}}
	assert.True(t, claims.AllowsTenant(uuid.New()))
	assert.False(t, (&Claims{}).AllowsTenant(uuid.New()))
}

func TestParseRejects(t *testing.T) {
	m := NewJWTManager(secret, time.Minute)

	expired := NewJWTManager(secret, -time.Minute)
	token, _, err := expired.GenerateAccessToken("ops", []string{RoleMediaAdmin}, nil)
	require.NoError(t, err)
	_, err = m.ParseAndValidate(token)
	assert.Error(t, err)

	other := NewJWTManager("ffffffffffffffffffffffffffffffff", time.Minute)
	token, _, err = other.GenerateAccessToken("ops", []string{RoleMediaAdmin}, nil)
	require.NoError(t, err)
	_, err = m.ParseAndValidate(token)
	assert.Error(t, err)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{RegisteredClaims: jwt.RegisteredClaims{
		Audience:  jwt.ClaimStrings{"saas"},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}})
	signed, err := foreign.SignedString([]byte(secret))
	require.NoError(t, err)
	_, err = m.ParseAndValidate(signed)
	assert.Error(t, err)

	_, err = m.ParseAndValidate("nao.e.jwt")
	assert.Error(t, err)
}
