package runstore

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/ledgerclean/internal/application/clean"
)

func TestStore_SaveGet(t *testing.T) {
	store := NewStore()
	run := NewRun("ledger.csv", "utf-8", "csv", &clean.Result{})

	require.NoError(t, store.Save(run))

	got, err := store.Get(run.ID)
	require.NoError(t, err)
	assert.Same(t, run, got)
	assert.NotNil(t, got.Session)
	assert.Len(t, run.ID, 36)
}

func TestStore_GetMissing(t *testing.T) {
	_, err := NewStore().Get("nope")

	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestStore_SaveRequiresID(t *testing.T) {
	store := NewStore()

	assert.Error(t, store.Save(nil))
	assert.Error(t, store.Save(&Run{}))
	assert.Zero(t, store.Len())
}

func TestStore_List(t *testing.T) {
	store := NewStore()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		run := &Run{ID: fmt.Sprintf("run-%d", i), CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		require.NoError(t, store.Save(run))
	}

	all := store.List(0)
	require.Len(t, all, 3)
	assert.Equal(t, "run-2", all[0].ID, "newest first")
	assert.Equal(t, "run-0", all[2].ID)

	limited := store.List(2)
	assert.Len(t, limited, 2)
}

func TestStore_Concurrent(t *testing.T) {
	store := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			run := NewRun("f.csv", "utf-8", "csv", &clean.Result{})
			_ = store.Save(run)
			_ = store.List(5)
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, store.Len())
}
