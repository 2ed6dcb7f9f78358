package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sandevgo/simdrive/internal/config"
	"github.com/sandevgo/simdrive/internal/console"
	"github.com/sandevgo/simdrive/internal/core"
	"github.com/sandevgo/simdrive/internal/service/bench"
	"github.com/sandevgo/simdrive/internal/service/runner"
	"github.com/sandevgo/simdrive/pkg/log"
	"github.com/sandevgo/simdrive/pkg/retry"
	"github.com/sandevgo/simdrive/pkg/srv"
	"github.com/spf13/cobra"
)

type configs struct {
	console   *config.ConsoleConfig
	toolchain *config.ToolchainConfig
}

type session struct {
	configs
	runner *runner.Runner
	bench  *bench.Bench
}

// loadConfigs reads the optional .env file, then the environment, then
// applies flag overrides.
func loadConfigs(ctx context.Context, cmd *cobra.Command) configs {
	logger := log.FromCtx(ctx)

	if err := initEnv(ctx, config.GetEnvFilePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	c := configs{
		console:   config.NewConsoleConfig(ctx),
		toolchain: config.NewToolchainConfig(ctx),
	}
	if f := cmd.Flag("exit"); f != nil && f.Changed {
		c.console.Exit = exitFlag
	}
	return c
}

// runWithConsole sets up logging and configuration, connects the console
// and hands a ready session to fn. The console is closed afterwards, except
// on a hard exit.
func runWithConsole(cmd *cobra.Command, fn func(ctx context.Context, s *session) error) error {
	ctx, flushLog := setupLogger(cmd.Context())
	defer flushLog()

	cfgs := loadConfigs(ctx, cmd)

	conn := &consoleService{cfg: cfgs.console}
	services := []srv.Service{conn}
	if err := srv.StartServices(ctx, services); err != nil {
		return err
	}
	defer func() {
		if err := srv.ShutdownServices(context.WithoutCancel(ctx), services); err != nil {
			log.FromCtx(ctx).Warn().Err(err).Msg("console shutdown")
		}
	}()

	r := runner.NewFromConfig(conn, cfgs.console)
	return fn(ctx, &session{
		configs: cfgs,
		runner:  r,
		bench:   bench.NewBench(r, cfgs.toolchain),
	})
}

// runLocal is runWithConsole without a console.
func runLocal(cmd *cobra.Command, fn func(ctx context.Context, cfgs configs) error) error {
	ctx, flushLog := setupLogger(cmd.Context())
	defer flushLog()

	return fn(ctx, loadConfigs(ctx, cmd))
}

// consoleService owns the console connection for the lifetime of a command.
type consoleService struct {
	core.Console
	cfg    *config.ConsoleConfig
	stream interface{ Close() error }
}

func (s *consoleService) Start(ctx context.Context) error {
	var opts []console.Option
	if echo {
		opts = append(opts, console.WithMirror(os.Stdout))
	}

	switch s.cfg.Mode {
	case config.ModePTY:
		sc, err := console.Spawn(ctx, s.cfg.Shell, opts...)
		if err != nil {
			return err
		}
		s.Console, s.stream = sc, sc
	case config.ModeTCP:
		retryCfg := retry.NewDefaultConfig()
		retryCfg.MaxRetries = s.cfg.DialRetries
		st, err := console.Dial(ctx, s.cfg.Addr, retry.NewRetrier(retryCfg), opts...)
		if err != nil {
			return err
		}
		s.Console, s.stream = st, st
	default:
		return fmt.Errorf("unknown console mode %q", s.cfg.Mode)
	}

	log.FromCtx(ctx).Debug().Str("mode", s.cfg.Mode).Msg("console ready")
	return nil
}

func (s *consoleService) Shutdown(ctx context.Context) error {
	if s.stream == nil {
		return nil
	}
	return s.stream.Close()
}

func initEnv(ctx context.Context, envFile string) error {
	logger := log.FromCtx(ctx)

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
