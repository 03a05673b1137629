// Package app wires configuration, logging, storage and the task store
// together and hands the remaining arguments to the CLI router.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/Makepad-fr/dailytask/internal/cli"
	"github.com/Makepad-fr/dailytask/internal/clock"
	"github.com/Makepad-fr/dailytask/internal/config"
	"github.com/Makepad-fr/dailytask/internal/logging"
	"github.com/Makepad-fr/dailytask/internal/store/jsonstore"
	"github.com/Makepad-fr/dailytask/internal/store/kv"
	"github.com/Makepad-fr/dailytask/internal/task"
	"github.com/Makepad-fr/dailytask/internal/ui"
)

// Main runs one invocation and returns its exit code.
func Main(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("dailytask", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { cli.PrintHelp(stderr) }

	cfg, rest, err := config.Load(fs, args)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		ui.Fail(stderr, "config: "+err.Error())
		return 2
	}
	ui.SetTheme(cfg.Theme)

	// The full-screen editor owns the terminal; keep stderr quiet.
	interactive := len(rest) > 0 && rest[0] == "ui"
	logger, closeLog, err := logging.New(logging.Options{
		Level: cfg.LogLevel,
		File:  cfg.LogFile,
		Quiet: interactive,
	}, stderr)
	if err != nil {
		ui.Fail(stderr, err.Error())
		return 1
	}
	defer closeLog()

	if !clock.KnownLocale(cfg.Locale) {
		logger.Warn("unknown locale, using ko", "locale", cfg.Locale)
	}

	slot, closeSlot, err := openSlot(cfg)
	if err != nil {
		ui.Fail(stderr, "storage: "+err.Error())
		return 1
	}
	defer closeSlot()
	logger.Debug("storage ready", "backend", cfg.Storage, "key", cfg.Key)

	js := jsonstore.New(slot,
		jsonstore.WithKey(cfg.Key),
		jsonstore.WithTimeout(cfg.StorageTimeout),
		jsonstore.WithLogger(logger),
	)
	store, err := task.New(js,
		task.WithLocale(cfg.Locale),
		task.WithLogger(logger),
	)
	if err != nil {
		ui.Fail(stderr, err.Error())
		return 1
	}

	return cli.Run(rest, cli.Env{
		Store:  store,
		Stdout: stdout,
		Stderr: stderr,
		Opt: cli.Options{
			Group:  cfg.Group,
			Locale: cfg.Locale,
		},
	})
}

func openSlot(cfg *config.Config) (kv.Slot, func(), error) {
	switch cfg.Storage {
	case config.StoragePostgres:
		ctx, cancel := context.WithTimeout(context.Background(), cfg.StorageTimeout)
		defer cancel()
		s, err := kv.OpenPgSlot(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case config.StorageFile:
		return kv.NewFileSlot(cfg.DataDir), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown storage %q", cfg.Storage)
}
