package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/addissongs/song-service/internal/identity"
	"github.com/addissongs/song-service/internal/song"
	"github.com/addissongs/song-service/internal/song/repository"
)

func TestRunSeedsCatalog(t *testing.T) {
	repo := repository.NewMemoryRepo()

	n, err := Run(context.Background(), repo)
	require.NoError(t, err)
	assert.Equal(t, len(catalog), n)

	total, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(len(catalog)), total)

	items, _, err := repo.List(context.Background(), song.ListQuery{Page: 1, Limit: len(catalog)})
	require.NoError(t, err)
	for _, s := range items {
		assert.NotEmpty(t, s.ID)
		assert.True(t, s.IsSeeded)
		assert.Equal(t, identity.SentinelOwner, s.OwnerID)
		require.NotNil(t, s.Year)
		assert.False(t, s.CreatedAt.IsZero())
	}
}

func TestRunSeedsInCatalogOrder(t *testing.T) {
	repo := repository.NewMemoryRepo()
	_, err := Run(context.Background(), repo)
	require.NoError(t, err)

	items, _, err := repo.List(context.Background(), song.ListQuery{Page: 1, Limit: 5})
	require.NoError(t, err)
	require.Len(t, items, 5)
	assert.Equal(t, "Tizita", items[0].Title)
	assert.Equal(t, "Mulatu Astatke", items[0].Artist)
}
