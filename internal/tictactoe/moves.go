package tictactoe

import "fmt"

const gameStartLabel = "Go to game start"

// Move - an entry of the move list shown next to the board.
type Move struct {
	Step    int
	Label   string
	Current bool
}

func MoveList(state State) []Move {
	moves := make([]Move, len(state.History))
	for step := range state.History {
		moves[step] = Move{
			Step:    step,
			Label:   moveLabel(step),
			Current: step == state.Step,
		}
	}
	return moves
}

func moveLabel(step int) string {
	if step == 0 {
		return gameStartLabel
	}
	return fmt.Sprintf("Go to move #%d", step)
}
