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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Okami6997/ChessGamesAnalyzer/pkg/analysis"
)

// analyzer thresholds
func Thresholds() *cobra.Command {
	return &cobra.Command{
		Use:   "thresholds",
		Short: "Show the win% loss bands used to annotate moves",
		Args:  cobra.ExactArgs(0),

		RunE: func(cmd *cobra.Command, args []string) error {
			t := analysis.DefaultThresholds()

			fmt.Println("Win% loss bands (override in the run configuration):")
			fmt.Printf("  %-16s win%% loss >= %.0f\n", analysis.Blunder, t.Blunder)
			fmt.Printf("  %-16s win%% loss >= %.0f\n", analysis.Mistake, t.Mistake)
			fmt.Printf("  %-16s win%% loss >= %.0f\n", analysis.Dubious, t.Dubious)
			fmt.Printf("  %-16s otherwise\n", analysis.Neutral)

			return nil
		},
	}
}
