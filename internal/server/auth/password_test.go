package auth

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/rewear/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, []byte("correct horse"), hash)

	ok, err := CheckPassword(hash, "correct horse")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = CheckPassword(hash, "wrong horse")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = CheckPassword([]byte("not a hash"), "x")
	assert.Error(t, err)
}

func TestSessionContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, SessionFromContext(ctx))

	s := &Session{UserID: "u-1", Role: models.RoleAdmin}
	got := SessionFromContext(WithSession(ctx, s))
	require.NotNil(t, got)
	assert.True(t, got.IsAdmin())

	var none *Session
	assert.False(t, none.IsAdmin())
}
