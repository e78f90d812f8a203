package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/iccolo/rmagui"
	"github.com/spf13/pflag"
	"go.uber.org/fx"
)

// ErrAbnormalShutdown is returned when the app was told to stop with a nonzero exit code.
var ErrAbnormalShutdown = errors.New("abnormal shutdown")

func run(args []string) error {
	cli, err := parseCommandLine(args)
	if errors.Is(err, pflag.ErrHelp) {
		return nil
	} else if err != nil {
		return err
	}

	v, err := newViper(cli)
	if err != nil {
		return err
	}

	lc, err := newLogConfig(v, cli)
	if err != nil {
		return rmagui.UseExitCode(err, rmagui.ConfigurationExitCode)
	}

	logger, err := lc.NewLogger()
	if err != nil {
		return rmagui.UseExitCode(err, rmagui.ConfigurationExitCode)
	}

	defer logger.Sync() //nolint:errcheck

	opts, err := options(v, logger)
	if err != nil {
		return err
	}

	app := fx.New(opts...)
	if err := app.Err(); err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(context.Background(), app.StartTimeout())
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return err
	}

	signal := <-app.Wait()

	stopCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		return err
	}

	if signal.ExitCode != 0 {
		return rmagui.UseExitCode(
			fmt.Errorf("%w: %v", ErrAbnormalShutdown, signal.Signal),
			signal.ExitCode,
		)
	}

	return nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(rmagui.ExitCodeFor(err, nil))
	}
}
