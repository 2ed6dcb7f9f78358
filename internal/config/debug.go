package config

import "os"

func IsDebug() bool {
	return os.Getenv("SIMDRIVE_DEBUG") == "1"
}
