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
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Failure records one game that could not be fully analyzed.
type Failure struct {
	Index  int
	GameID string
	Reason string

	// Partial is true when plies before the failure were still emitted.
	Partial bool
}

// Report is the merged result of a whole batch: every successful
// record list concatenated in original batch order, plus the failure
// tally.
type Report struct {
	Records []MoveRecord

	Games     int
	Failed    int
	NullPlies int

	Failures []Failure
}

// Aggregate merges per-game outcomes into batch order. Workers finish
// jobs in any order; the output order always matches the input order.
func Aggregate(outcomes []Outcome) Report {
	sorted := append([]Outcome(nil), outcomes...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Index < sorted[j].Index })

	var report Report
	for _, outcome := range sorted {
		report.Games++
		report.NullPlies += outcome.NullPlies
		report.Records = append(report.Records, outcome.Records...)

		if outcome.Err != nil {
			report.Failed++
			report.Failures = append(report.Failures, Failure{
				Index:   outcome.Index,
				GameID:  outcome.GameID,
				Reason:  outcome.Err.Error(),
				Partial: len(outcome.Records) > 0,
			})
		}
	}

	return report
}

// Header is the column set of the output table.
var Header = []string{
	"GameID", "MoveNumber", "Player", "SAN", "UCI",
	"ScoreBefore", "ScoreAfter", "BestMove", "Classification",
}

// WriteCSV emits the aggregated table. Null evaluations and their
// classifications appear as empty cells.
func (report *Report) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(Header); err != nil {
		return err
	}

	for _, record := range report.Records {
		before, after := "", ""
		if record.ScoreBefore != nil {
			before = record.ScoreBefore.String()
		}
		if record.ScoreAfter != nil {
			after = record.ScoreAfter.String()
		}

		row := []string{
			record.GameID,
			strconv.Itoa(record.MoveNumber),
			record.Player.String(),
			record.SAN,
			record.UCI,
			before,
			after,
			record.BestMove,
			record.Classification.String(),
		}

		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// Summary renders the end-of-run tally.
func (report *Report) Summary() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Games processed: %d\n", report.Games)
	fmt.Fprintf(&sb, "Games failed:    %d\n", report.Failed)
	fmt.Fprintf(&sb, "Null-eval plies: %d\n", report.NullPlies)

	for _, failure := range report.Failures {
		state := "skipped"
		if failure.Partial {
			state = "partial"
		}
		fmt.Fprintf(&sb, "  #%d (%s) %s: %s\n", failure.Index+1, failure.GameID, state, failure.Reason)
	}

	return sb.String()
}
