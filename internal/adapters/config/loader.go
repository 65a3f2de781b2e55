// Package config provides the configuration loader for bale.
package config

import (
	"os"
	"strings"

	"go.trai.ch/bale/internal/core/domain"
	"go.trai.ch/bale/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DefaultFilename is the conventional configuration file name.
const DefaultFilename = "balefile.yaml"

var _ ports.ConfigLoader = (*FileConfigLoader)(nil)

// FileConfigLoader implements ports.ConfigLoader using a YAML file.
type FileConfigLoader struct{}

// Load reads the configuration file at path.
func (l *FileConfigLoader) Load(path string) (*domain.BuildOptions, error) {
	return Load(path)
}

// Balefile represents the structure of the balefile.yaml configuration file.
type Balefile struct {
	Version       string            `yaml:"version"`
	Entries       []string          `yaml:"entries"`
	Target        string            `yaml:"target"`
	CacheDir      string            `yaml:"cacheDir"`
	OutDir        string            `yaml:"outDir"`
	ScopeHoist    bool              `yaml:"scopeHoist"`
	Env           map[string]string `yaml:"env"`
	IgnoreFSCalls *bool             `yaml:"ignoreFSCalls"`
}

// Load reads a configuration file from the given path and returns validated
// build options. Build-time env values from the file are merged over the
// process environment; the file wins.
func Load(path string) (*domain.BuildOptions, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read config file")
	}

	var bf Balefile
	if err := yaml.Unmarshal(data, &bf); err != nil {
		return nil, zerr.Wrap(err, "failed to parse config file")
	}

	target, err := parseTarget(bf.Target)
	if err != nil {
		return nil, err
	}

	opts := &domain.BuildOptions{
		Entries:    bf.Entries,
		Target:     target,
		CacheDir:   bf.CacheDir,
		OutDir:     bf.OutDir,
		ScopeHoist: bf.ScopeHoist,
		Env:        mergeEnv(bf.Env),
	}
	if opts.CacheDir == "" {
		opts.CacheDir = ".bale-cache"
	}
	if opts.OutDir == "" {
		opts.OutDir = "dist"
	}

	// File-read rewriting defaults on for non-server targets.
	if bf.IgnoreFSCalls != nil {
		opts.IgnoreFSCalls = *bf.IgnoreFSCalls
	} else {
		opts.IgnoreFSCalls = !target.IsServer()
	}

	return opts, nil
}

func parseTarget(s string) (domain.Environment, error) {
	switch s {
	case "", string(domain.EnvBrowser):
		return domain.EnvBrowser, nil
	case string(domain.EnvNode):
		return domain.EnvNode, nil
	case string(domain.EnvElectron):
		return domain.EnvElectron, nil
	default:
		return "", zerr.With(zerr.New("unknown target"), "target", s)
	}
}

func mergeEnv(fromFile map[string]string) map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	for k, v := range fromFile {
		env[k] = v
	}
	return env
}
