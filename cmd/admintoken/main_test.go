package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestaozabele/midia/internal/auth"
)

const secret = "0123456789abcdef0123456789abcdef"

func env(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestIssuesToken(t *testing.T) {
	tenantID := uuid.New()
	cmd := newRootCmd(env(map[string]string{"JWT_SECRET": secret}))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--tenant", tenantID.String(), "--subject", "ops"})

	require.NoError(t, cmd.Execute())

	claims, err := auth.NewJWTManager(secret, time.Minute).ParseAndValidate(strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Subject)
	assert.True(t, claims.HasRole(auth.RoleMediaAdmin))
	assert.True(t, claims.AllowsTenant(tenantID))
}

func TestRejectsMissingInputs(t *testing.T) {
	cmd := newRootCmd(env(map[string]string{"JWT_SECRET": "curto"}))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--tenant", "*"})
	assert.Error(t, cmd.Execute())

	cmd = newRootCmd(env(map[string]string{"JWT_SECRET": secret}))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{})
	assert.Error(t, cmd.Execute())
}
