package password_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creditline/internal/pkg/password"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := password.Hash("s3cret-pass")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, password.Verify("s3cret-pass", hash))
	assert.False(t, password.Verify("wrong-pass", hash))
	assert.False(t, password.Verify("s3cret-pass", "not-a-hash"))
}
