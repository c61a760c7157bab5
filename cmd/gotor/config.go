package main

import (
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/pekkala/gotor/tracker"
)

// Config carries the tunables gotor needs beyond what a single
// invocation's positional arguments supply: tracker overrides, the
// peer-id prefix this client announces under, the requested peer-list
// size, and the per-request receive timeout. Only a -config file sets
// these fields; no command-line flag overrides them.
type Config struct {
	Trackers     []string      `yaml:"trackers"`
	PeerIDPrefix string        `yaml:"peer_id_prefix"`
	NumWant      int32         `yaml:"num_want"`
	Timeout      time.Duration `yaml:"timeout"`
}

// defaultConfig mirrors tracker.DefaultConfig's tunables so a gotor
// invocation with no -config file behaves exactly like the tracker
// package's own zero-config default.
func defaultConfig() Config {
	def := tracker.DefaultConfig()
	return Config{
		PeerIDPrefix: def.PeerIDPrefix,
		NumWant:      def.NumWant,
		Timeout:      def.ReceiveTimeout,
	}
}

// ParseConfigFile reads a YAML config file from path. An empty path
// is not an error: it yields defaultConfig unchanged, so -config is
// always optional.
func ParseConfigFile(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(os.ExpandEnv(path))
	if err != nil {
		return cfg, errors.Wrapf(err, "opening config file %q", path)
	}
	defer f.Close()

	contents, err := io.ReadAll(f)
	if err != nil {
		return cfg, errors.Wrapf(err, "reading config file %q", path)
	}

	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing config file %q", path)
	}
	return cfg, nil
}

// trackerConfig builds the tracker.Config this invocation should use,
// applying the loaded Config's overrides on top of tracker's own
// defaults.
func (c Config) trackerConfig() tracker.Config {
	cfg := tracker.DefaultConfig()
	if c.PeerIDPrefix != "" {
		cfg.PeerIDPrefix = c.PeerIDPrefix
	}
	if c.NumWant != 0 {
		cfg.NumWant = c.NumWant
	}
	if c.Timeout != 0 {
		cfg.ReceiveTimeout = c.Timeout
	}
	return cfg
}
