package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordProducesVerifiableHash(t *testing.T) {
	hashed, err := HashPassword("s3cret")
	require.NoError(t, err)

	assert.True(t, IsHashed(hashed))
	assert.True(t, CheckPassword(hashed, "s3cret"))
	assert.False(t, CheckPassword(hashed, "wrong"))
}

func TestCheckPasswordLegacyPlainText(t *testing.T) {
	// Records imported before hashing was enforced store the raw password
	assert.False(t, IsHashed("plainpassword"))
	assert.True(t, CheckPassword("plainpassword", "plainpassword"))
	assert.False(t, CheckPassword("plainpassword", "other"))
}

func TestCheckPasswordDoesNotTreatHashAsPlainText(t *testing.T) {
	hashed, err := HashPassword("s3cret")
	require.NoError(t, err)

	// Supplying the stored hash itself must not authenticate
	assert.False(t, CheckPassword(hashed, hashed))
}
