//
// Copyright 2024 The mmport Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//

// Package config loads process-wide defaults for the demo command from
// a TOML file, the way containerdUtils.GetDataRoot probes a list of
// well-known paths and decodes the first one found. The port core
// itself never reads configuration — everything it needs is passed in
// as constructor arguments — this is strictly an ambient concern of
// the surrounding process.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Default search path for the demo command's config file.
var searchPath = []string{
	"./mmport.toml",
	"/etc/mmport/mmport.toml",
}

// Config holds the defaults a component applies when it has no more
// specific buffer requirements of its own.
type Config struct {
	DefaultBufferNum  uint32 `toml:"default_buffer_num"`
	DefaultBufferSize uint32 `toml:"default_buffer_size"`
	LogLevel          string `toml:"log_level"`
}

// defaults are the built-in values Load falls back to when no config
// file is found on searchPath, so a missing config file is never fatal.
func defaults() Config {
	return Config{
		DefaultBufferNum:  2,
		DefaultBufferSize: 4096,
		LogLevel:          "info",
	}
}

// Load reads the first config file found on searchPath, falling back to
// built-in defaults if none exist.
func Load() (Config, error) {
	for _, path := range searchPath {
		cfg, err := parse(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return Config{}, fmt.Errorf("failed to read %s: %w", path, err)
		}
		return cfg, nil
	}
	return defaults(), nil
}

// LoadFrom reads a specific config file, for callers (and tests) that
// don't want the search-path probing.
func LoadFrom(path string) (Config, error) {
	return parse(path)
}

func parse(path string) (Config, error) {
	cfg := defaults()

	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	if _, err := toml.NewDecoder(f).Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("could not decode %s: %w", path, err)
	}
	return cfg, nil
}
