package deps

import (
	"os"
	"strconv"
)

// Environment holds the settings taken from environment variables.
// Nothing else in the module reads the process environment.
type Environment struct {
	ConfigPath string
	LogLevel   string
	Debug      bool
	SSLVerify  string
}

func ProvideEnvironment() Environment {
	return environmentFrom(os.Getenv)
}

func environmentFrom(getenv func(string) string) Environment {
	debug, _ := strconv.ParseBool(getenv("DCOS_DEBUG"))

	return Environment{
		ConfigPath: getenv("DCOS_CONFIG"),
		LogLevel:   getenv("DCOS_LOG_LEVEL"),
		Debug:      debug,
		SSLVerify:  getenv("DCOS_SSL_VERIFY"),
	}
}
