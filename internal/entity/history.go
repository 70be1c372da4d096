package entity

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/apperror"
)

var (
	ErrEmptyHistory = errors.New("history is empty")
	ErrDirtyStart   = errors.New("history must start from an empty board")
	ErrIllegalStep  = errors.New("history step is not a single legal move")
)

// History - every board of the game, history[0] is always EmptyBoard.
type History []Board

func InitialHistory() History {
	return History{EmptyBoard}
}

// Clone - copy that shares no backing array with the receiver.
func (that History) Clone() History {
	return append(History(nil), that...)
}

// Snapshot - persisted state of a game with time travel.
type Snapshot struct {
	History History `json:"history" yaml:"history"`
	Step    int     `json:"step" yaml:"step"`
}

func InitialSnapshot() Snapshot {
	return Snapshot{History: InitialHistory(), Step: 0}
}

func (that Snapshot) Validate() error {
	if err := ValidateHistory(that.History); err != nil {
		return err
	}

	if that.Step < 0 || that.Step >= len(that.History) {
		return fmt.Errorf("%w: step %d, history length %d", apperror.ErrStepOutOfRange, that.Step, len(that.History))
	}

	return nil
}

// ValidateHistory - checks that history could be produced by playing legal moves one by one.
func ValidateHistory(history History) error {
	if len(history) == 0 {
		return ErrEmptyHistory
	}

	if history[0] != EmptyBoard {
		return ErrDirtyStart
	}

	for i := 1; i < len(history); i++ {
		if !isLegalStep(history[i-1], history[i]) {
			return fmt.Errorf("%w: move #%d", ErrIllegalStep, i)
		}
	}

	return nil
}

func isLegalStep(prev, next Board) bool {
	if prev.Winner() != Empty {
		return false
	}

	player := prev.NextPlayer()
	changed := 0

	for i := range prev {
		if prev[i] == next[i] {
			continue
		}

		if prev[i] != Empty || next[i] != player {
			return false
		}
		changed++
	}

	return changed == 1
}
