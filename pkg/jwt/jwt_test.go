package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/kirana-admin-api/pkg/jwt"
)

const secret = "test-secret"

func TestGenerateAndParse(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "u1", "s1", "manager", "kirana-test", 10)
	require.NoError(t, err)

	userID, storeID, role, err := pkgjwt.Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
	assert.Equal(t, "s1", storeID)
	assert.Equal(t, "manager", role)
}

func TestParseClaims_JTIUnico(t *testing.T) {
	a, err := pkgjwt.Generate(secret, "u1", "s1", "owner", "kirana-test", 10)
	require.NoError(t, err)
	b, err := pkgjwt.Generate(secret, "u1", "s1", "owner", "kirana-test", 10)
	require.NoError(t, err)

	ca, err := pkgjwt.ParseClaims(secret, a)
	require.NoError(t, err)
	cb, err := pkgjwt.ParseClaims(secret, b)
	require.NoError(t, err)

	assert.NotEmpty(t, ca.ID)
	assert.NotEqual(t, ca.ID, cb.ID)
	assert.InDelta(t, (10 * time.Minute).Seconds(), ca.ExpiresIn(time.Now()).Seconds(), 5)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", "u1", "s1", "owner", "kirana-test", 10)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "u1", "s1", "owner", "kirana-test", -1)
	require.NoError(t, err)
	_, _, _, err = pkgjwt.Parse(secret, tok)
	assert.Error(t, err)
}
