// Copyright © 2024 Okami6997
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package analysis

import (
	"os"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Okami6997/ChessGamesAnalyzer/pkg/engine"
)

// Config is the run configuration for one analysis batch.
type Config struct {
	// The engine every worker launches its own process of.
	Engine engine.Config `yaml:"engine"`

	// Number of games that will be analyzed concurrently. Each worker
	// owns one engine process for its entire lifetime.
	Workers int `yaml:"workers"`

	// Search limits passed through to each evaluation.
	Depth      int `yaml:"depth"`
	MoveTimeMS int `yaml:"movetime"` // milliseconds, 0 to disable

	// Hard deadline in seconds on a single evaluation. Exceeding it is
	// an engine fault: the process is restarted and the position
	// retried.
	TimeoutSecs int `yaml:"timeout"`

	// How many times a faulted evaluation is retried after an engine
	// restart before the ply is degraded to a null record.
	Retries int `yaml:"retries"`

	Thresholds Thresholds `yaml:"thresholds"`
}

// DefaultConfig returns the configuration used when no file or flags
// override it.
func DefaultConfig() Config {
	return Config{
		Engine: engine.Config{
			Name:    "stockfish",
			Cmd:     "stockfish",
			Threads: 2,
			Hash:    128,
		},
		Workers:     runtime.NumCPU(),
		Depth:       15,
		TimeoutSecs: 30,
		Retries:     1,
		Thresholds:  DefaultThresholds(),
	}
}

// LoadConfig reads a YAML run configuration, layered over the defaults.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	file, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	if err := yaml.Unmarshal(file, &config); err != nil {
		return Config{}, err
	}

	return config, nil
}

// Limits renders the configured search bounds as engine limits.
func (config Config) Limits() engine.Limits {
	return engine.Limits{
		Depth:    config.Depth,
		MoveTime: time.Duration(config.MoveTimeMS) * time.Millisecond,
		Timeout:  time.Duration(config.TimeoutSecs) * time.Second,
	}
}
