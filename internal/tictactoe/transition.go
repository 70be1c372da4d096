package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
)

// State - history of boards and the step currently shown.
type State struct {
	History entity.History
	Step    int
}

func InitialState() State {
	return State{History: entity.InitialHistory(), Step: 0}
}

func (that State) CurrentBoard() entity.Board {
	return that.History[that.Step]
}

// Intent - a user action on the game, one of PlayIntent, JumpIntent or RestartIntent.
type Intent interface {
	isIntent()
}

type PlayIntent struct {
	Cell int
}

type JumpIntent struct {
	Step int
}

type RestartIntent struct{}

func (PlayIntent) isIntent()    {}
func (JumpIntent) isIntent()    {}
func (RestartIntent) isIntent() {}

// Transition - applies intent to state and reports whether the result has to be saved.
// Jumps and restarts are always saved, a move only when it was played.
// The returned state never shares a backing array with the given one.
func Transition(state State, intent Intent) (State, bool, error) {
	switch in := intent.(type) {
	case PlayIntent:
		return play(state, in.Cell)
	case JumpIntent:
		return jump(state, in.Step)
	case RestartIntent:
		return InitialState(), true, nil
	default:
		return state, false, fmt.Errorf("%w: %T", apperror.ErrUnknownIntent, intent)
	}
}

func play(state State, cell int) (State, bool, error) {
	if cell < 0 || cell >= entity.BoardSize {
		return state, false, fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	board := state.CurrentBoard()
	if board.Winner() != entity.Empty || board[cell] != entity.Empty {
		return state, false, nil
	}

	next := board
	next[cell] = board.NextPlayer()

	// moves after the current step belong to an abandoned branch
	history := make(entity.History, state.Step+1, state.Step+2)
	copy(history, state.History[:state.Step+1])
	history = append(history, next)

	return State{History: history, Step: state.Step + 1}, true, nil
}

func jump(state State, step int) (State, bool, error) {
	if step < 0 || step >= len(state.History) {
		return state, false, fmt.Errorf("%w: step %d, history length %d", apperror.ErrStepOutOfRange, step, len(state.History))
	}

	return State{History: state.History.Clone(), Step: step}, true, nil
}
