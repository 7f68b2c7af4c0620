// Copyright 2025 Kadir Pekel
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"fmt"
	"log"

	"github.com/fsnotify/fsnotify"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// LoaderOptions configures a Loader. Path is required; the file is parsed
// as YAML and merged with environment variable overrides.
type LoaderOptions struct {
	Path string

	// Watch reloads the config on file changes and invokes OnChange.
	Watch bool

	OnChange func(*Config) error
}

// Loader loads and optionally watches a YAML config file via koanf,
// expanding ${VAR} and ${VAR:-default} references against the process
// environment before unmarshaling into Config.
type Loader struct {
	koanf    *koanf.Koanf
	options  LoaderOptions
	parser   *yaml.YAML
	watcher  *fsnotify.Watcher
	stopChan chan struct{}
}

// NewLoader builds a Loader for the given options.
func NewLoader(opts LoaderOptions) (*Loader, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("config: path is required")
	}

	return &Loader{
		koanf:    koanf.New("."),
		options:  opts,
		parser:   yaml.Parser(),
		stopChan: make(chan struct{}),
	}, nil
}

// Load reads the config file, expands environment variable references,
// applies the canonical env var overrides, and unmarshals the result.
// If Watch is set, it starts a background watcher and returns immediately
// with the initial snapshot.
func (l *Loader) Load() (*Config, error) {
	provider := file.Provider(l.options.Path)

	if err := l.koanf.Load(provider, l.parser); err != nil {
		return nil, fmt.Errorf("config: failed to load %s: %w", l.options.Path, err)
	}

	if err := l.expandEnvVars(); err != nil {
		return nil, fmt.Errorf("config: failed to expand environment variables: %w", err)
	}

	cfg, err := l.unmarshal()
	if err != nil {
		return nil, err
	}

	if l.options.Watch {
		if err := l.startWatch(); err != nil {
			log.Printf("config: watch disabled for %s: %v", l.options.Path, err)
		}
	}

	return cfg, nil
}

func (l *Loader) startWatch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(l.options.Path); err != nil {
		watcher.Close()
		return err
	}
	l.watcher = watcher

	go l.watch()
	return nil
}

func (l *Loader) watch() {
	for {
		select {
		case <-l.stopChan:
			return
		case event, ok := <-l.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			l.reload()
		case err, ok := <-l.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("config: watcher error for %s: %v", l.options.Path, err)
		}
	}
}

func (l *Loader) reload() {
	newKoanf := koanf.New(".")
	if err := newKoanf.Load(file.Provider(l.options.Path), l.parser); err != nil {
		log.Printf("config: failed to reload %s: %v", l.options.Path, err)
		return
	}
	l.koanf = newKoanf

	if err := l.expandEnvVars(); err != nil {
		log.Printf("config: failed to expand env vars on reload: %v", err)
		return
	}

	cfg, err := l.unmarshal()
	if err != nil {
		log.Printf("config: reloaded config failed to unmarshal: %v", err)
		return
	}

	if l.options.OnChange != nil {
		if err := l.options.OnChange(cfg); err != nil {
			log.Printf("config: OnChange callback failed: %v", err)
		}
	}
}

// Stop ends a running watch. Safe to call even if Watch was never enabled.
func (l *Loader) Stop() {
	close(l.stopChan)
	if l.watcher != nil {
		l.watcher.Close()
	}
}

// SetOnChange replaces the reload callback.
func (l *Loader) SetOnChange(callback func(*Config) error) {
	l.options.OnChange = callback
}

func (l *Loader) unmarshal() (*Config, error) {
	cfg := DefaultConfig()
	if err := l.koanf.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "yaml"}); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal: %w", err)
	}
	ApplyEnvOverrides(cfg)
	return cfg, nil
}

func (l *Loader) expandEnvVars() error {
	expanded := ExpandEnvVarsInData(l.koanf.Raw())

	expandedMap, ok := expanded.(map[string]interface{})
	if !ok {
		return fmt.Errorf("unexpected type after env var expansion")
	}

	newKoanf := koanf.New(".")
	if err := newKoanf.Load(confmap.Provider(expandedMap, "."), nil); err != nil {
		return fmt.Errorf("failed to load expanded config: %w", err)
	}
	l.koanf = newKoanf
	return nil
}

// Load reads a config file once, without watching, applying environment
// variable overrides on top.
func Load(path string) (*Config, error) {
	loader, err := NewLoader(LoaderOptions{Path: path})
	if err != nil {
		return nil, err
	}
	return loader.Load()
}
