package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ewilliams-labs/remixense/internal/config"
	"github.com/ewilliams-labs/remixense/internal/core/domain"
)

func TestOpenSQLite(t *testing.T) {
	cfg := config.Config{StorageDriver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "mix.db")}

	store, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.SaveTrack(context.Background(), domain.Track{ID: "t1", Title: "T", Artist: "A"}))
	got, err := store.GetTrack(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, "T", got.Title)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.Config{StorageDriver: "postgres"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres")
}
