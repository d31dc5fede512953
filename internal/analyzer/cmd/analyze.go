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

package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/briandowns/spinner"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Okami6997/ChessGamesAnalyzer/pkg/analysis"
	"github.com/Okami6997/ChessGamesAnalyzer/pkg/common"
)

// Spinner charset used while the batch is running.
const spin = 11

// analyzer analyze
func Analyze() *cobra.Command {
	command := &cobra.Command{
		Use:   "analyze games-file",
		Short: "Analyze a batch of chess games with a UCI engine",
		Args:  cobra.ExactArgs(1),
		Long: heredoc.Doc(`analyze evaluates every move of every game in the given
			batch with a UCI engine and writes one record per move:
			who played it, the evaluation before and after, the
			engine's preferred move, and a quality annotation
			(Blunder, Mistake, Dubious or Neutral) derived from the
			move's win-probability loss.

			The batch file is a JSON array of PGN strings. Games are
			distributed across --workers concurrent engine processes;
			the output table always preserves the input order. A game
			that cannot be parsed or replayed is skipped with a
			recorded reason instead of aborting the batch.`),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadRunConfig(cmd)
			if err != nil {
				return err
			}

			games, err := readBatch(args[0])
			if err != nil {
				return err
			}

			output, _ := cmd.Flags().GetString("output")
			if output == "" {
				output = filepath.Join(common.OutputDirectory, "chess_analysis.csv")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			logrus.Infof("Analyzing %d games with %d workers...", len(games), config.Workers)

			s := spinner.New(spinner.CharSets[spin], 100*time.Millisecond)
			s.Start()
			outcomes, runErr := analysis.NewPool(config).Run(ctx, games)
			s.Stop()

			if outcomes == nil {
				// No engine, no run: startup failures are fatal.
				return runErr
			}

			report := analysis.Aggregate(outcomes)

			file, err := os.Create(output)
			if err != nil {
				return err
			}
			defer file.Close()

			if err := report.WriteCSV(file); err != nil {
				return err
			}

			fmt.Print(report.Summary())
			logrus.Infof("Results saved to %s", output)

			return runErr
		},
	}

	command.Flags().StringP("output", "o", "", "File to write the output table to")
	command.Flags().String("config", "", "Run configuration file")
	command.Flags().String("engine", "", "Path to the UCI engine binary")
	command.Flags().String("weights", "", "Path to a network weights file for neural engines")
	command.Flags().Int("depth", 0, "Engine search depth per position")
	command.Flags().Int("movetime", 0, "Engine search time per position in milliseconds")
	command.Flags().Int("workers", 0, "Number of games analyzed concurrently")
	command.Flags().Int("timeout", 0, "Per-evaluation deadline in seconds")

	return command
}

// loadRunConfig layers the configuration: defaults, then the YAML file,
// then any explicitly set flags.
func loadRunConfig(cmd *cobra.Command) (analysis.Config, error) {
	config := analysis.DefaultConfig()

	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		if _, err := os.Stat(common.ConfigFile); err == nil {
			path = common.ConfigFile
		}
	}

	if path != "" {
		loaded, err := analysis.LoadConfig(path)
		if err != nil {
			return analysis.Config{}, err
		}
		config = loaded
	}

	if flag := cmd.Flags().Lookup("engine"); flag.Changed {
		config.Engine.Cmd = flag.Value.String()
		config.Engine.Name = filepath.Base(flag.Value.String())
	}
	if flag := cmd.Flags().Lookup("weights"); flag.Changed {
		config.Engine.Weights = flag.Value.String()
	}
	if depth, _ := cmd.Flags().GetInt("depth"); depth > 0 {
		config.Depth = depth
	}
	if movetime, _ := cmd.Flags().GetInt("movetime"); movetime > 0 {
		config.MoveTimeMS = movetime
	}
	if workers, _ := cmd.Flags().GetInt("workers"); workers > 0 {
		config.Workers = workers
	}
	if timeout, _ := cmd.Flags().GetInt("timeout"); timeout > 0 {
		config.TimeoutSecs = timeout
	}

	return config, nil
}

// readBatch loads the input file: a JSON array of PGN strings.
func readBatch(path string) ([]string, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var games []string
	if err := json.Unmarshal(file, &games); err != nil {
		return nil, fmt.Errorf("batch file %s: %w", path, err)
	}

	return games, nil
}
