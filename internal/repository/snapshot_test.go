package repository

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-timetravel/testing/suite"
)

var threeMoves = entity.Snapshot{
	History: entity.History{
		entity.EmptyBoard,
		{entity.PlayerX},
		{entity.PlayerX, entity.Empty, entity.Empty, entity.Empty, entity.PlayerO},
		{entity.PlayerX, entity.PlayerX, entity.Empty, entity.Empty, entity.PlayerO},
	},
	Step: 2,
}

func TestSnapshotRepository_SaveLoad(t *testing.T) {
	ctx := context.Background()
	repo := NewSnapshotRepository(storage.NewMemoryStorage(), "")

	// Given: a saved snapshot
	require.NoError(t, repo.Save(ctx, threeMoves))

	// When: loading it back
	loaded, err := repo.Load(ctx)

	// Then: the snapshot is unchanged
	require.NoError(t, err)
	if diff := cmp.Diff(threeMoves, loaded); diff != "" {
		t.Errorf("loaded snapshot (-want +got):\n%s", diff)
	}
}

func TestSnapshotRepository_Keys(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryStorage()
	repo := NewSnapshotRepository(kv, "")

	// When: saving a snapshot under the default namespace
	require.NoError(t, repo.Save(ctx, entity.Snapshot{History: threeMoves.History[:2], Step: 1}))

	// Then: history and step are stored under their own keys as JSON
	history, err := kv.Load(ctx, "tic-tac-toe:history")
	require.NoError(t, err)
	assert.JSONEq(t, `[
		[null,null,null,null,null,null,null,null,null],
		["X",null,null,null,null,null,null,null,null]
	]`, string(history))

	step, err := kv.Load(ctx, "tic-tac-toe:step")
	require.NoError(t, err)
	assert.Equal(t, "1", string(step))
}

func TestSnapshotRepository_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("Nothing stored", func(t *testing.T) {
		repo := NewSnapshotRepository(storage.NewMemoryStorage(), "")

		_, err := repo.Load(ctx)

		assert.ErrorIs(t, err, apperror.ErrSnapshotNotFound)
	})

	t.Run("Malformed history is removed", func(t *testing.T) {
		// Given: garbage under the history key
		kv := storage.NewMemoryStorage()
		require.NoError(t, kv.Save(ctx, "tic-tac-toe:history", []byte(`{not json`)))
		repo := NewSnapshotRepository(kv, "")

		// When: loading
		_, err := repo.Load(ctx)

		// Then: the snapshot is reported malformed and the key is gone
		require.ErrorIs(t, err, apperror.ErrMalformedSnapshot)
		_, err = kv.Load(ctx, "tic-tac-toe:history")
		assert.ErrorIs(t, err, storage.ErrKeyNotFound)
	})

	t.Run("Board of the wrong shape is malformed", func(t *testing.T) {
		kv := storage.NewMemoryStorage()
		require.NoError(t, kv.Save(ctx, "tic-tac-toe:history", []byte(`[[null,null]]`)))
		repo := NewSnapshotRepository(kv, "")

		_, err := repo.Load(ctx)

		assert.ErrorIs(t, err, apperror.ErrMalformedSnapshot)
	})

	t.Run("Unreachable history is malformed", func(t *testing.T) {
		// Given: a history where O moved first
		kv := storage.NewMemoryStorage()
		require.NoError(t, kv.Save(ctx, "tic-tac-toe:history", []byte(`[
			[null,null,null,null,null,null,null,null,null],
			["O",null,null,null,null,null,null,null,null]
		]`)))
		repo := NewSnapshotRepository(kv, "")

		// When: loading
		_, err := repo.Load(ctx)

		// Then: the history is rejected
		assert.ErrorIs(t, err, apperror.ErrMalformedSnapshot)
	})

	t.Run("Missing step starts from the game start", func(t *testing.T) {
		kv := storage.NewMemoryStorage()
		repo := NewSnapshotRepository(kv, "")
		require.NoError(t, repo.Save(ctx, threeMoves))
		require.NoError(t, kv.Remove(ctx, "tic-tac-toe:step"))

		loaded, err := repo.Load(ctx)

		require.NoError(t, err)
		assert.Equal(t, 0, loaded.Step)
		assert.Len(t, loaded.History, 4)
	})

	t.Run("Step beyond history is removed and reset", func(t *testing.T) {
		// Given: a valid history and a step pointing past its end
		kv := storage.NewMemoryStorage()
		repo := NewSnapshotRepository(kv, "")
		require.NoError(t, repo.Save(ctx, threeMoves))
		require.NoError(t, kv.Save(ctx, "tic-tac-toe:step", []byte("42")))

		// When: loading
		loaded, err := repo.Load(ctx)

		// Then: the history survives and the step falls back to 0
		require.NoError(t, err)
		assert.Equal(t, 0, loaded.Step)
		assert.Equal(t, threeMoves.History, loaded.History)

		_, err = kv.Load(ctx, "tic-tac-toe:step")
		assert.ErrorIs(t, err, storage.ErrKeyNotFound)
	})

	t.Run("Non-integer step is reset", func(t *testing.T) {
		kv := storage.NewMemoryStorage()
		repo := NewSnapshotRepository(kv, "")
		require.NoError(t, repo.Save(ctx, threeMoves))
		require.NoError(t, kv.Save(ctx, "tic-tac-toe:step", []byte(`"two"`)))

		loaded, err := repo.Load(ctx)

		require.NoError(t, err)
		assert.Equal(t, 0, loaded.Step)
	})
}

func TestSnapshotRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewSnapshotRepository(storage.NewMemoryStorage(), "")
	require.NoError(t, repo.Save(ctx, threeMoves))

	// When: deleting the snapshot
	require.NoError(t, repo.Delete(ctx))

	// Then: nothing is stored anymore
	_, err := repo.Load(ctx)
	assert.ErrorIs(t, err, apperror.ErrSnapshotNotFound)
}

var errDiskFull = errors.New("disk full")

// prefixFailStorage - rejects writes of keys under prefix.
type prefixFailStorage struct {
	*storage.MemoryStorage
	prefix string
}

func (that *prefixFailStorage) Save(ctx context.Context, key string, value []byte) error {
	if strings.HasPrefix(key, that.prefix) {
		return errDiskFull
	}
	return that.MemoryStorage.Save(ctx, key, value)
}

func TestSnapshotRepository_Rename(t *testing.T) {
	ctx := context.Background()

	t.Run("Moves the game to the new namespace", func(t *testing.T) {
		// Given: a snapshot saved under the default namespace
		kv := storage.NewMemoryStorage()
		repo := NewSnapshotRepository(kv, "")
		require.NoError(t, repo.Save(ctx, threeMoves))

		// When: renaming the namespace with the game in play
		require.NoError(t, repo.Rename(ctx, "game-2", threeMoves))

		// Then: the snapshot is under the new keys only
		assert.Equal(t, "game-2", repo.Namespace())

		loaded, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, threeMoves, loaded)

		_, err = kv.Load(ctx, "tic-tac-toe:history")
		assert.ErrorIs(t, err, storage.ErrKeyNotFound)
		_, err = kv.Load(ctx, "tic-tac-toe:step")
		assert.ErrorIs(t, err, storage.ErrKeyNotFound)
	})

	t.Run("Writes the given game even when nothing was stored", func(t *testing.T) {
		kv := storage.NewMemoryStorage()
		repo := NewSnapshotRepository(kv, "")

		require.NoError(t, repo.Rename(ctx, "game-2", threeMoves))

		loaded, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, threeMoves, loaded)
	})

	t.Run("Failed write keeps the old namespace", func(t *testing.T) {
		// Given: a game stored under "a" and a storage rejecting keys under "b"
		kv := &prefixFailStorage{MemoryStorage: storage.NewMemoryStorage(), prefix: "b:"}
		repo := NewSnapshotRepository(kv, "a")
		require.NoError(t, repo.Save(ctx, threeMoves))

		// When: renaming to "b"
		err := repo.Rename(ctx, "b", threeMoves)

		// Then: the rename fails and the game is still under "a"
		require.ErrorIs(t, err, errDiskFull)
		assert.Equal(t, "a", repo.Namespace())

		loaded, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, threeMoves, loaded)
	})

	t.Run("Half-written copy is cleaned up", func(t *testing.T) {
		// Given: a storage rejecting only the step key of the new namespace
		kv := &prefixFailStorage{MemoryStorage: storage.NewMemoryStorage(), prefix: "b:step"}
		repo := NewSnapshotRepository(kv, "a")

		// When: renaming fails halfway
		require.ErrorIs(t, repo.Rename(ctx, "b", threeMoves), errDiskFull)

		// Then: no history is left under the new namespace
		_, err := kv.Load(ctx, "b:history")
		assert.ErrorIs(t, err, storage.ErrKeyNotFound)
	})

	t.Run("Same namespace is a no-op", func(t *testing.T) {
		repo := NewSnapshotRepository(storage.NewMemoryStorage(), "game-1")
		require.NoError(t, repo.Save(ctx, threeMoves))

		require.NoError(t, repo.Rename(ctx, "game-1", entity.InitialSnapshot()))

		loaded, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, threeMoves, loaded)
	})
}

func TestSnapshotRepository_Redis(t *testing.T) {
	ctx, st := suite.New(t)
	repo := NewSnapshotRepository(st.Storage, "")

	t.Run("Round trip", func(t *testing.T) {
		// Given: a snapshot saved to redis
		require.NoError(t, repo.Save(ctx, threeMoves))

		// When: loading it back
		loaded, err := repo.Load(ctx)

		// Then: it is unchanged
		require.NoError(t, err)
		assert.Equal(t, threeMoves, loaded)
	})

	t.Run("Evicted out of band", func(t *testing.T) {
		// Given: a saved snapshot
		require.NoError(t, repo.Save(ctx, threeMoves))

		// When: the database is flushed behind the repository's back
		st.Flush(ctx)

		// Then: the snapshot is reported as not found
		_, err := repo.Load(ctx)
		assert.ErrorIs(t, err, apperror.ErrSnapshotNotFound)
	})
}
