package tictactoe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
)

type snapshotRepo interface {
	Load(ctx context.Context) (entity.Snapshot, error)
	Save(ctx context.Context, snapshot entity.Snapshot) error
}

// Engine - a single game with move history and time travel.
// Calls are expected from one goroutine at a time.
type Engine struct {
	logger *slog.Logger
	repo   snapshotRepo

	state State
}

// NewEngine - restores the last saved game, or starts a new one when nothing usable is stored.
func NewEngine(ctx context.Context, logger *slog.Logger, repo snapshotRepo) *Engine {
	engine := &Engine{
		logger: logger.With("component", "engine"),
		repo:   repo,
		state:  InitialState(),
	}

	engine.restore(ctx)

	return engine
}

func (that *Engine) restore(ctx context.Context) {
	log := that.logger.With("method", "restore")

	snapshot, err := that.repo.Load(ctx)
	switch {
	case errors.Is(err, apperror.ErrSnapshotNotFound):
		log.Debug("no saved game, starting a new one")
		return
	case err != nil:
		log.Warn("could not restore saved game, starting a new one", "error", err)
		return
	}

	if err = snapshot.Validate(); err != nil {
		log.Warn("saved game is inconsistent, starting a new one", "error", err)
		return
	}

	that.state = State{History: snapshot.History, Step: snapshot.Step}
	log.Debug("saved game restored", "moves", len(snapshot.History)-1, "step", snapshot.Step)
}

// PlayMove - places the next player's mark on cell of the current board.
// Returns false without error when the cell is taken or the game is already won.
func (that *Engine) PlayMove(ctx context.Context, cell int) (bool, error) {
	return that.Dispatch(ctx, PlayIntent{Cell: cell})
}

// JumpTo - makes the board after move #step the current one.
func (that *Engine) JumpTo(ctx context.Context, step int) error {
	_, err := that.Dispatch(ctx, JumpIntent{Step: step})
	return err
}

// Restart - drops the whole history.
func (that *Engine) Restart(ctx context.Context) error {
	_, err := that.Dispatch(ctx, RestartIntent{})
	return err
}

// Dispatch - applies intent and saves the game unless the intent was a no-op move.
func (that *Engine) Dispatch(ctx context.Context, intent Intent) (bool, error) {
	next, save, err := Transition(that.state, intent)
	if err != nil {
		return false, fmt.Errorf("failed to apply %T: %w", intent, err)
	}

	if !save {
		return false, nil
	}

	that.state = next
	that.persist(ctx)

	return true, nil
}

// persist - storage failures never undo a move, the game goes on in memory.
func (that *Engine) persist(ctx context.Context) {
	if err := that.repo.Save(ctx, that.Snapshot()); err != nil {
		that.logger.Error("could not save game", "error", err)
	}
}

func (that *Engine) CurrentBoard() entity.Board {
	return that.state.CurrentBoard()
}

func (that *Engine) Status() entity.Status {
	return that.state.CurrentBoard().Status()
}

func (that *Engine) Moves() []Move {
	return MoveList(that.state)
}

// Snapshot - copy of the engine state safe to keep after further moves.
func (that *Engine) Snapshot() entity.Snapshot {
	return entity.Snapshot{History: that.state.History.Clone(), Step: that.state.Step}
}
