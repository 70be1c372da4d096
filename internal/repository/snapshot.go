package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/repository/storage"
)

// DefaultNamespace - key prefix used when none is configured.
const DefaultNamespace = "tic-tac-toe"

const (
	historySuffix = ":history"
	stepSuffix    = ":step"
)

// KeyValue - storage of raw values by string key.
// Load must return storage.ErrKeyNotFound for keys that were never saved or were removed.
type KeyValue interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

type SnapshotRepository interface {
	Load(ctx context.Context) (entity.Snapshot, error)
	Save(ctx context.Context, snapshot entity.Snapshot) error
	Delete(ctx context.Context) error
	Rename(ctx context.Context, namespace string, snapshot entity.Snapshot) error
	Namespace() string
}

type snapshotRepository struct {
	kv        KeyValue
	namespace string
}

func NewSnapshotRepository(kv KeyValue, namespace string) SnapshotRepository {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	return &snapshotRepository{
		kv:        kv,
		namespace: namespace,
	}
}

func (that *snapshotRepository) Namespace() string {
	return that.namespace
}

// Load - history and step are stored under separate keys; a key holding garbage is removed.
// A valid history with a missing or broken step is shown from the game start.
func (that *snapshotRepository) Load(ctx context.Context) (entity.Snapshot, error) {
	var history entity.History
	if err := that.loadKey(ctx, that.historyKey(), &history, func() error {
		return entity.ValidateHistory(history)
	}); err != nil {
		return entity.Snapshot{}, err
	}

	var step int
	err := that.loadKey(ctx, that.stepKey(), &step, func() error {
		if step < 0 || step >= len(history) {
			return fmt.Errorf("%w: step %d, history length %d", apperror.ErrStepOutOfRange, step, len(history))
		}
		return nil
	})
	switch {
	case errors.Is(err, apperror.ErrSnapshotNotFound), errors.Is(err, apperror.ErrMalformedSnapshot):
		step = 0
	case err != nil:
		return entity.Snapshot{}, err
	}

	return entity.Snapshot{History: history, Step: step}, nil
}

func (that *snapshotRepository) loadKey(ctx context.Context, key string, value any, validate func() error) error {
	data, err := that.kv.Load(ctx, key)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return fmt.Errorf("%w: %s", apperror.ErrSnapshotNotFound, key)
	}

	if err != nil {
		return fmt.Errorf("failed to load %s: %w", key, err)
	}

	if err = json.Unmarshal(data, value); err == nil {
		err = validate()
	}

	if err != nil {
		if removeErr := that.kv.Remove(ctx, key); removeErr != nil {
			return fmt.Errorf("%w: %s: %w, failed to remove it: %w", apperror.ErrMalformedSnapshot, key, err, removeErr)
		}
		return fmt.Errorf("%w: %s: %w", apperror.ErrMalformedSnapshot, key, err)
	}

	return nil
}

func (that *snapshotRepository) Save(ctx context.Context, snapshot entity.Snapshot) error {
	historyJSON, err := json.Marshal(snapshot.History)
	if err != nil {
		return fmt.Errorf("could not marshal history: %w", err)
	}

	stepJSON, err := json.Marshal(snapshot.Step)
	if err != nil {
		return fmt.Errorf("could not marshal step: %w", err)
	}

	if err = that.kv.Save(ctx, that.historyKey(), historyJSON); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}

	if err = that.kv.Save(ctx, that.stepKey(), stepJSON); err != nil {
		return fmt.Errorf("failed to save step: %w", err)
	}

	return nil
}

func (that *snapshotRepository) Delete(ctx context.Context) error {
	for _, key := range []string{that.historyKey(), that.stepKey()} {
		if err := that.kv.Remove(ctx, key); err != nil {
			return fmt.Errorf("failed to delete %s: %w", key, err)
		}
	}

	return nil
}

// Rename - writes snapshot under namespace, then forgets the old keys.
// The repository switches to namespace only when both steps succeed.
func (that *snapshotRepository) Rename(ctx context.Context, namespace string, snapshot entity.Snapshot) error {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	if namespace == that.namespace {
		return nil
	}

	renamed := &snapshotRepository{kv: that.kv, namespace: namespace}
	if err := renamed.Save(ctx, snapshot); err != nil {
		// a half-written copy must not be picked up later
		_ = renamed.Delete(ctx)
		return fmt.Errorf("failed to save game under %s: %w", namespace, err)
	}

	if err := that.Delete(ctx); err != nil {
		return fmt.Errorf("failed to forget game under %s: %w", that.namespace, err)
	}

	that.namespace = namespace

	return nil
}

func (that *snapshotRepository) historyKey() string {
	return that.namespace + historySuffix
}

func (that *snapshotRepository) stepKey() string {
	return that.namespace + stepSuffix
}
