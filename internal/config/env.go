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

// Package config. This file holds the process bootstrap shared by the
// binaries: an optional .env file, the loader environment defaults and the
// configuration load itself.
package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Defaults applied by SetupEnv when the environment leaves them unset.
const (
	DefaultConfigDir = "configs"
	LocalRuntime     = "local"
)

// SetupEnv loads a .env file from the working directory, when present, and
// defaults the configuration directory to DefaultConfigDir and the runtime
// to LocalRuntime.
func SetupEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if os.Getenv(EnvConfigFilePrefix) == "" {
		if err := os.Setenv(EnvConfigFilePrefix, DefaultConfigDir); err != nil {
			return err
		}
	}
	if os.Getenv(EnvConfigRuntime) == "" {
		return os.Setenv(EnvConfigRuntime, LocalRuntime)
	}
	return nil
}

// Load runs SetupEnv and returns the defaults of NewConfig overlaid with the
// configuration files.
//
// Outputs:
//   - *Config: The loaded configuration.
//   - error: A .env, environment or decoding error.
func Load() (*Config, error) {
	if err := SetupEnv(); err != nil {
		return nil, err
	}
	cfg := NewConfig()
	if err := LoadConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
