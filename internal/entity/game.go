package entity

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

const (
	StatusDraw       = "Draw"
	statusWinnerFmt  = "Winner: %s"
	statusNextPlayer = "Next player: %s"
)

// BoardSize - number of cells on a 3x3 board.
const BoardSize = 9

var (
	ErrUnknownMark  = errors.New("unknown mark")
	ErrInvalidBoard = errors.New("board must have exactly 9 cells")

	WinCombos = [][3]int{
		{0, 1, 2},
		{3, 4, 5},
		{6, 7, 8},
		{0, 3, 6},
		{1, 4, 7},
		{2, 5, 8},
		{0, 4, 8},
		{2, 4, 6},
	}
)

// Mark - the content of a single cell.
type Mark uint8

const (
	Empty Mark = iota
	PlayerX
	PlayerO
)

func (that Mark) String() string {
	switch that {
	case PlayerX:
		return "X"
	case PlayerO:
		return "O"
	default:
		return ""
	}
}

// MarshalJSON - empty cells are stored as null, like the board in browser storage.
func (that Mark) MarshalJSON() ([]byte, error) {
	switch that {
	case Empty:
		return []byte("null"), nil
	case PlayerX, PlayerO:
		return json.Marshal(that.String())
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownMark, uint8(that))
	}
}

// MarshalYAML - same shape as the JSON form, null for empty cells.
func (that Mark) MarshalYAML() (interface{}, error) {
	if that == Empty {
		return nil, nil
	}
	return that.String(), nil
}

func (that *Mark) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*that = Empty
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownMark, data)
	}

	switch raw {
	case "X":
		*that = PlayerX
	case "O":
		*that = PlayerO
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMark, raw)
	}

	return nil
}

// Board - 3x3 grid in row-major order.
type Board [BoardSize]Mark

// EmptyBoard - the board every game starts from.
var EmptyBoard = Board{}

func (that *Board) UnmarshalJSON(data []byte) error {
	var cells []Mark
	if err := json.Unmarshal(data, &cells); err != nil {
		return err
	}

	if len(cells) != BoardSize {
		return fmt.Errorf("%w: got %d", ErrInvalidBoard, len(cells))
	}

	copy(that[:], cells)

	return nil
}

// Count - number of cells holding the given mark.
func (that Board) Count(mark Mark) int {
	var n int
	for _, cell := range that {
		if cell == mark {
			n++
		}
	}
	return n
}

// NextPlayer - X moves whenever both players placed the same number of marks.
func (that Board) NextPlayer() Mark {
	if that.Count(PlayerX) == that.Count(PlayerO) {
		return PlayerX
	}
	return PlayerO
}

// Winner - mark of the first fully occupied combo in WinCombos order, Empty if none.
func (that Board) Winner() Mark {
	for _, combo := range WinCombos {
		a, b, c := that[combo[0]], that[combo[1]], that[combo[2]]
		if a != Empty && a == b && b == c {
			return a
		}
	}

	return Empty
}

func (that Board) IsFull() bool {
	return that.Count(Empty) == 0
}

// Outcome - derived game state of a board.
type Outcome struct {
	State  GameState
	Winner Mark
}

type GameState uint8

const (
	InProgress GameState = iota
	Won
	Draw
)

func (that Board) Outcome() Outcome {
	if winner := that.Winner(); winner != Empty {
		return Outcome{State: Won, Winner: winner}
	}

	if that.IsFull() {
		return Outcome{State: Draw}
	}

	return Outcome{State: InProgress}
}

// Status - the outcome together with the message shown to the players.
type Status struct {
	Outcome
	NextPlayer Mark
	Message    string
}

func (that Board) Status() Status {
	winner := that.Winner()
	next := that.NextPlayer()

	return Status{
		Outcome:    that.Outcome(),
		NextPlayer: next,
		Message:    StatusMessage(winner, that.IsFull(), next),
	}
}

func StatusMessage(winner Mark, boardFull bool, next Mark) string {
	switch {
	case winner != Empty:
		return fmt.Sprintf(statusWinnerFmt, winner)
	case boardFull:
		return StatusDraw
	default:
		return fmt.Sprintf(statusNextPlayer, next)
	}
}
