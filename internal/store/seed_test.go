package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/adminboard/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSeed(t *testing.T) {
	seed, err := DefaultSeed()
	require.NoError(t, err)

	assert.Len(t, seed.Orders, 3)
	assert.Len(t, seed.Tasks, 4)
	assert.Len(t, seed.Events, 2)
	require.Len(t, seed.Metrics, 1)
	assert.Equal(t, 124592.0, seed.Metrics[0].Revenue)
	assert.False(t, seed.Empty())

	assert.Equal(t, types.OrderStatusCompleted, seed.Orders[0].Status)
	assert.Equal(t, "Team Meeting", seed.Events[0].Title)
	require.NotNil(t, seed.Tasks[2].Progress)
	assert.Equal(t, 60, *seed.Tasks[2].Progress)
}

func TestParseSeedRejectsUnknownFields(t *testing.T) {
	_, err := ParseSeed([]byte("orders:\n  - customerName: x\n    discount: 5\n"))
	assert.Error(t, err)

	_, err = ParseSeed([]byte("customers: []\n"))
	assert.Error(t, err)
}

func TestSeedMarshalRoundTrip(t *testing.T) {
	seed, err := DefaultSeed()
	require.NoError(t, err)

	data, err := seed.Marshal()
	require.NoError(t, err)

	again, err := ParseSeed(data)
	require.NoError(t, err)
	assert.Equal(t, seed, again)
}

func TestLoadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	content := "users:\n  - username: admin\n    password: admin\ntasks:\n  - title: only task\n    status: todo\n    priority: low\n    category: docs\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	seed, err := LoadSeedFile(path)
	require.NoError(t, err)

	ctx := context.Background()
	s, err := NewMemStorage(WithSeed(seed))
	require.NoError(t, err)

	user, err := s.GetUserByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, 1, user.ID)

	tasks, err := s.GetTasks(ctx, TaskFilter{})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "only task", tasks[0].Title)

	total, err := s.GetOrdersCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, total)

	_, err = LoadSeedFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
