package config

import (
	"context"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/simdrive/pkg/log"
)

const (
	ModeTCP = "tcp"
	ModePTY = "pty"
)

type ConsoleConfig struct {
	Mode  string `env:"SIMDRIVE_CONSOLE_MODE" envDefault:"tcp"`
	Addr  string `env:"SIMDRIVE_CONSOLE_ADDR" envDefault:"localhost:4023"`
	Shell string `env:"SIMDRIVE_SHELL" envDefault:"/bin/sh"`

	// Exit terminates the whole process with code 2 when a console command
	// fails, instead of returning an error to the caller.
	Exit bool `env:"SIMDRIVE_EXIT" envDefault:"false"`

	DialRetries int `env:"SIMDRIVE_DIAL_RETRIES" envDefault:"5"`
}

func NewConsoleConfig(ctx context.Context) *ConsoleConfig {
	c, err := ParseConsoleConfig()
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Console config")
	}
	return c
}

func ParseConsoleConfig() (*ConsoleConfig, error) {
	c := &ConsoleConfig{}
	if err := env.Parse(c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c ConsoleConfig) Validate() error {
	switch c.Mode {
	case ModeTCP:
		if c.Addr == "" {
			return fmt.Errorf("console address is required in %s mode", ModeTCP)
		}
	case ModePTY:
		if c.Shell == "" {
			return fmt.Errorf("shell is required in %s mode", ModePTY)
		}
	default:
		return fmt.Errorf("unknown console mode %q (want %s or %s)", c.Mode, ModeTCP, ModePTY)
	}
	if c.DialRetries < 0 {
		return fmt.Errorf("dial retries must not be negative, got %d", c.DialRetries)
	}
	return nil
}

func (c ConsoleConfig) ExitOnFailure() bool {
	return c.Exit
}
