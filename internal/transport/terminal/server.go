package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/tictactoe"
)

const prompt = "> "

type uEngine interface {
	PlayMove(ctx context.Context, cell int) (bool, error)
	JumpTo(ctx context.Context, step int) error
	Restart(ctx context.Context) error

	CurrentBoard() entity.Board
	Status() entity.Status
	Moves() []tictactoe.Move
	Snapshot() entity.Snapshot
}

type namespaceRepo interface {
	Rename(ctx context.Context, namespace string, snapshot entity.Snapshot) error
	Namespace() string
}

type handler func(ctx context.Context, args []string) error

// Server - line-oriented front end: reads commands, forwards them to the engine and redraws the game.
type Server struct {
	logger *slog.Logger
	engine uEngine
	repo   namespaceRepo

	out         io.Writer
	interactive bool

	handlers map[string]handler
}

func New(logger *slog.Logger, engine uEngine, repo namespaceRepo, out io.Writer, interactive bool) *Server {
	server := &Server{
		logger:      logger.With("component", "terminal"),
		engine:      engine,
		repo:        repo,
		out:         out,
		interactive: interactive,

		handlers: make(map[string]handler),
	}

	server.handlers["play"] = server.handlePlay
	server.handlers["jump"] = server.handleJump
	server.handlers["restart"] = server.handleRestart
	server.handlers["show"] = server.handleShow
	server.handlers["dump"] = server.handleDump
	server.handlers["namespace"] = server.handleNamespace
	server.handlers["help"] = server.handleHelp

	return server
}

// Start - serves commands from in until EOF, "quit" or ctx cancellation.
func (that *Server) Start(ctx context.Context, in io.Reader) error {
	log := that.logger.With("method", "Start")

	that.render()
	that.prompt()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			that.prompt()
			continue
		}

		action, args := fields[0], fields[1:]
		if action == "quit" || action == "exit" {
			return nil
		}

		// a bare cell number is a move
		if isNumber(action) {
			action, args = "play", fields
		}

		handle, ok := that.handlers[action]
		if !ok {
			that.printf("unknown command %q, type help\n", action)
			that.prompt()
			continue
		}

		if err := handle(ctx, args); err != nil {
			log.Debug("command rejected", "action", action, "error", err)
			that.printf("error: %v\n", err)
		}

		that.prompt()
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read commands: %w", err)
	}

	return nil
}

func (that *Server) prompt() {
	if that.interactive {
		that.printf("%s", prompt)
	}
}

func (that *Server) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(that.out, format, args...); err != nil {
		that.logger.Error("failed to write output", "error", err)
	}
}
