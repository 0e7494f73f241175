// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config. This file contains the hierarchical configuration loader:
// a base file is decoded first and an environment specific file is decoded on
// top of it, so the runtime file only needs the keys it overrides.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Loader constants.
const (
	ConfigFileBaseName  = ".env"               // The base name for configuration files (e.g., ".env.toml").
	ConfigFileExtension = ".toml"              // The file extension for configuration files.
	ConfigSeparator     = "."                  // The separator used in config file names (e.g., ".env.local.toml").
	EnvConfigFilePrefix = "QUIZ_CONFIG_PREFIX" // The environment variable naming the config directory.
	EnvConfigRuntime    = "QUIZ_RUNTIME"       // The environment variable naming the runtime ("local", "test", ...).
	DefaultRuntime      = "test"
)

// fileExists reports whether something exists at the given path.
func fileExists(in string) bool {
	_, err := os.Stat(in)
	return !errors.Is(err, os.ErrNotExist)
}

// ConfigFiles returns the base and runtime file names derived from the
// environment, in the order they are decoded.
func ConfigFiles() (base string, runtime string) {
	prefix := os.Getenv(EnvConfigFilePrefix)
	if len(prefix) > 0 && !strings.HasSuffix(prefix, string(os.PathSeparator)) {
		prefix = prefix + string(os.PathSeparator)
	}

	env := os.Getenv(EnvConfigRuntime)
	if env == "" {
		env = DefaultRuntime
	}

	base = prefix + ConfigFileBaseName + ConfigFileExtension
	runtime = prefix + ConfigFileBaseName + ConfigSeparator + env + ConfigFileExtension
	return base, runtime
}

// LoadConfig decodes the base configuration file and then the runtime
// specific file into target. Missing files are skipped; a file that exists
// but cannot be decoded, or holds keys target has no field for, is an error.
//
// Inputs:
//   - target: A pointer to the configuration struct to populate, usually
//     the result of NewConfig so that defaults survive absent keys.
func LoadConfig(target interface{}) error {
	base, runtime := ConfigFiles()
	for _, name := range []string{base, runtime} {
		if !fileExists(name) {
			slog.Debug("configuration file not found, skipping", "file", name)
			continue
		}
		meta, err := toml.DecodeFile(name, target)
		if err != nil {
			return fmt.Errorf("failed to decode configuration file %s: %w", name, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return fmt.Errorf("unknown keys in configuration file %s: %v", name, undecoded)
		}
		slog.Debug("configuration file loaded", "file", name)
	}
	return nil
}
