package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	first, err := h.Hash("correct horse")
	require.NoError(t, err)
	second, err := h.Hash("correct horse")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "hashes must be salted")
	assert.True(t, h.Verify("correct horse", first))
	assert.True(t, h.Verify("correct horse", second))
	assert.False(t, h.Verify("wrong horse", first))
	assert.False(t, h.Verify("correct horse", "not-a-hash"))
}

func TestNewHasherClampsCost(t *testing.T) {
	assert.Equal(t, DefaultCost, NewHasher(0).cost)
	assert.Equal(t, DefaultCost, NewHasher(99).cost)
	assert.Equal(t, 10, NewHasher(10).cost)
}
