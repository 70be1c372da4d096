package terminal

import (
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/tictactoe"
)

const rowSeparator = "---+---+---\n"

func (that *Server) render() {
	var sb strings.Builder

	writeBoard(&sb, that.engine.CurrentBoard())
	sb.WriteString(that.engine.Status().Message)
	sb.WriteByte('\n')
	writeMoves(&sb, that.engine.Moves())

	that.printf("%s", sb.String())
}

// writeBoard - free cells show their index so they can be typed in.
func writeBoard(sb *strings.Builder, board entity.Board) {
	for row := 0; row < 3; row++ {
		if row > 0 {
			sb.WriteString(rowSeparator)
		}

		for col := 0; col < 3; col++ {
			cell := row*3 + col
			if col > 0 {
				sb.WriteByte('|')
			}

			sb.WriteByte(' ')
			if board[cell] == entity.Empty {
				sb.WriteString(strconv.Itoa(cell))
			} else {
				sb.WriteString(board[cell].String())
			}
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
}

func writeMoves(sb *strings.Builder, moves []tictactoe.Move) {
	for _, move := range moves {
		sb.WriteString(strconv.Itoa(move.Step))
		sb.WriteString(". ")
		sb.WriteString(move.Label)
		if move.Current {
			sb.WriteString(" (Current)")
		}
		sb.WriteByte('\n')
	}
}
