package core

type RunnerConfig interface {
	ExitOnFailure() bool
}

type ToolchainConfig interface {
	GetCompiler() string
	GetFlags() []string
	GetLocalCompiler() string
	GetBenchSource(file string) string
	GetBinary() string
	GetRunEnv() string
}
