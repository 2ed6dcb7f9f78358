package config

import (
	"context"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/simdrive/pkg/log"
)

// ToolchainConfig holds the compiler invocations used by the bench helpers.
type ToolchainConfig struct {
	Compiler string   `env:"SIMDRIVE_CXX" envDefault:"g++"`
	Flags    []string `env:"SIMDRIVE_CXXFLAGS" envSeparator:" " envDefault:"-g -gdwarf -Werror -ldl -lm -lpthread -pthread -Iinclude"`

	LocalCompiler string `env:"SIMDRIVE_LOCAL_CXX" envDefault:"clang++"`
	BenchDir      string `env:"SIMDRIVE_BENCH_DIR" envDefault:"microbenchmarks"`

	Binary string `env:"SIMDRIVE_BINARY" envDefault:"a.out"`
	RunEnv string `env:"SIMDRIVE_RUN_ENV" envDefault:"CC_ENABLED=1"`
}

func NewToolchainConfig(ctx context.Context) *ToolchainConfig {
	c, err := ParseToolchainConfig()
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Toolchain config")
	}
	return c
}

func ParseToolchainConfig() (*ToolchainConfig, error) {
	c := &ToolchainConfig{}
	if err := env.Parse(c); err != nil {
		return nil, err
	}
	return c, nil
}

func DefaultToolchainConfig() *ToolchainConfig {
	c := &ToolchainConfig{}
	// Defaults only, no environment lookup.
	_ = env.ParseWithOptions(c, env.Options{Environment: map[string]string{}})
	return c
}

func (c ToolchainConfig) GetCompiler() string      { return c.Compiler }
func (c ToolchainConfig) GetFlags() []string       { return c.Flags }
func (c ToolchainConfig) GetLocalCompiler() string { return c.LocalCompiler }
func (c ToolchainConfig) GetBinary() string        { return c.Binary }
func (c ToolchainConfig) GetRunEnv() string        { return c.RunEnv }

// GetBenchSource returns the path of a benchmark source, relative to the
// working directory. The file name is not cleaned.
func (c ToolchainConfig) GetBenchSource(file string) string {
	if c.BenchDir == "" {
		return file
	}
	return strings.TrimSuffix(c.BenchDir, "/") + "/" + file
}
