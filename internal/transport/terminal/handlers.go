package terminal

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

var (
	ErrMissingArgument = errors.New("missing argument")
	ErrNotANumber      = errors.New("argument is not a number")
)

const helpText = `commands:
  play N | N     put the next mark on cell N (0-8, row by row)
  jump N         show the board after move #N
  restart        start a new game
  show           redraw the board
  dump           print the saved game as YAML
  namespace NAME move the saved game under NAME
  help           this text
  quit           leave
`

func (that *Server) handlePlay(ctx context.Context, args []string) error {
	cell, err := intArg(args)
	if err != nil {
		return err
	}

	played, err := that.engine.PlayMove(ctx, cell)
	if err != nil {
		return fmt.Errorf("failed to play cell %d: %w", cell, err)
	}

	if !played {
		that.printf("cell %d can't be played\n", cell)
	}

	that.render()

	return nil
}

func (that *Server) handleJump(ctx context.Context, args []string) error {
	step, err := intArg(args)
	if err != nil {
		return err
	}

	if err = that.engine.JumpTo(ctx, step); err != nil {
		return fmt.Errorf("failed to jump to move #%d: %w", step, err)
	}

	that.render()

	return nil
}

func (that *Server) handleRestart(ctx context.Context, _ []string) error {
	if err := that.engine.Restart(ctx); err != nil {
		return fmt.Errorf("failed to restart: %w", err)
	}

	that.render()

	return nil
}

func (that *Server) handleShow(_ context.Context, _ []string) error {
	that.render()
	return nil
}

func (that *Server) handleDump(_ context.Context, _ []string) error {
	out, err := yaml.Marshal(that.engine.Snapshot())
	if err != nil {
		return fmt.Errorf("failed to marshal game: %w", err)
	}

	that.printf("%s", out)

	return nil
}

func (that *Server) handleNamespace(ctx context.Context, args []string) error {
	if len(args) == 0 {
		that.printf("namespace: %s\n", that.repo.Namespace())
		return nil
	}

	if err := that.repo.Rename(ctx, args[0], that.engine.Snapshot()); err != nil {
		return fmt.Errorf("failed to rename namespace: %w", err)
	}

	that.printf("namespace: %s\n", that.repo.Namespace())

	return nil
}

func (that *Server) handleHelp(_ context.Context, _ []string) error {
	that.printf("%s", helpText)
	return nil
}

func intArg(args []string) (int, error) {
	if len(args) == 0 {
		return 0, ErrMissingArgument
	}

	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotANumber, args[0])
	}

	return n, nil
}

func isNumber(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}
