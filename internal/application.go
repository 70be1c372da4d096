package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/config"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/repository"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/transport/terminal"
)

var (
	ErrAddrNotFound  = errors.New("redis address string is empty")
	ErrUnknownDriver = errors.New("unknown storage driver")
)

// KeyValueStorage - persistence adapter the engine state is saved to.
type KeyValueStorage interface {
	repository.KeyValue
	io.Closer
}

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	kv, err := NewStorage(ctx, conf.Storage)
	if err != nil {
		return fmt.Errorf("could not open %s storage: %w", conf.Storage.Driver, err)
	}

	defer func() {
		if err = kv.Close(); err != nil {
			log.Error("could not close storage", "error", err)
		}
	}()

	log.Info("Storage opened", "driver", conf.Storage.Driver, "namespace", conf.Namespace)

	snapshotRepo := repository.NewSnapshotRepository(kv, conf.Namespace)
	engine := tictactoe.NewEngine(ctx, logger, snapshotRepo)

	interactive := isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	server := terminal.New(logger, engine, snapshotRepo, os.Stdout, interactive)

	// run terminal front end
	termErrCh := make(chan error, 1)
	go func() {
		termErrCh <- server.Start(ctx, os.Stdin)
	}()

	select {
	case err = <-termErrCh:
		if err != nil {
			return fmt.Errorf("terminal error: %w", err)
		}
		log.Info("Input closed, shutting down")
		return nil
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

// NewStorage - opens the key-value storage selected by conf.Driver.
func NewStorage(ctx context.Context, conf config.Storage) (KeyValueStorage, error) {
	switch conf.Driver {
	case storage.DriverMemory:
		return storage.NewMemoryStorage(), nil
	case storage.DriverRedis:
		redisAddrString := conf.Redis.GetRedisAddr()
		if conf.Redis.Host == "" {
			return nil, ErrAddrNotFound
		}
		return storage.NewRedisStorage(ctx, redisAddrString)
	case storage.DriverBolt:
		return storage.NewBoltStorage(conf.Bolt.Path, conf.Bolt.Bucket)
	case storage.DriverSQLite:
		st, err := storage.NewSQLiteStorage(conf.SQLite.Path)
		if err != nil {
			return nil, err
		}
		if err = st.Init(ctx); err != nil {
			_ = st.Close()
			return nil, err
		}
		return st, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, conf.Driver)
	}
}
