package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHasher_HashAndCheck(t *testing.T) {
	h := NewPasswordHasher()

	hash, err := h.Hash("s3cret-pass")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotContains(t, hash, "s3cret-pass")

	assert.True(t, h.Check("s3cret-pass", hash))
	assert.False(t, h.Check("wrong-pass", hash))
}

func TestPasswordHasher_SaltedHashesDiffer(t *testing.T) {
	h := NewPasswordHasher()

	first, err := h.Hash("same-password")
	require.NoError(t, err)
	second, err := h.Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, h.Check("same-password", first))
	assert.True(t, h.Check("same-password", second))
}

func TestPasswordHasher_CheckGarbageHash(t *testing.T) {
	h := NewPasswordHasher()
	assert.False(t, h.Check("anything", "not-a-bcrypt-hash"))
}
