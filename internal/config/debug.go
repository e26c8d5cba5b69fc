package config

import "os"

func IsDebug() bool {
	return os.Getenv("LINGBOT_DEBUG") == "1"
}
