package sqlite

import (
	"context"
	"strings"
	"testing"

	"github.com/rpggio/spectator/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestAPIKeyRepository(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewAPIKeyRepository(db)

	token, err := repo.Create(ctx, "laptop")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(token, "spk_"))

	var stored string
	require.NoError(t, db.QueryRowContext(ctx, `SELECT key_hash FROM api_keys`).Scan(&stored))
	require.Equal(t, HashToken(token), stored)
	require.NotContains(t, stored, token)

	name, err := repo.Resolve(ctx, token)
	require.NoError(t, err)
	require.Equal(t, "laptop", name)

	_, err = repo.Resolve(ctx, "spk_wrong")
	require.ErrorIs(t, err, repository.ErrNotFound)
}
