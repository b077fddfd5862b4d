package deps

import (
	"net/http"
	"sync"

	"github.com/dcos/dcos-package/internal/config"
)

// ConfigLoader reads the configuration file once, on first use.
type ConfigLoader interface {
	Config() (*config.Config, error)
}

func ProvideConfigLoader(env Environment) ConfigLoader {
	return &fileConfigLoader{env: env}
}

type fileConfigLoader struct {
	env  Environment
	once sync.Once
	conf *config.Config
	err  error
}

func (l *fileConfigLoader) Config() (*config.Config, error) {
	l.once.Do(func() {
		l.conf, l.err = l.load()
	})
	return l.conf, l.err
}

func (l *fileConfigLoader) load() (*config.Config, error) {
	path := l.env.ConfigPath
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return nil, err
		}
	}

	conf, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if l.env.SSLVerify != "" {
		conf.Core.SSLVerify = l.env.SSLVerify
	}
	return conf, nil
}

// newHTTPClient applies core.ssl_verify and core.timeout.
func newHTTPClient(conf *config.Config) (*http.Client, error) {
	tlsConfig, err := conf.TLSConfig()
	if err != nil {
		return nil, err
	}

	client := &http.Client{Timeout: conf.Timeout()}
	if tlsConfig != nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.TLSClientConfig = tlsConfig
		client.Transport = transport
	}
	return client, nil
}
