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

import "github.com/Okami6997/ChessGamesAnalyzer/pkg/engine"

// Color identifies the side that played a move.
type Color uint8

const (
	White Color = iota
	Black
)

// String returns a string representation of the given Color.
func (color Color) String() string {
	if color == White {
		return "White"
	}
	return "Black"
}

// Other returns the opposing side.
func (color Color) Other() Color {
	return color ^ 1
}

// MoveRecord is the durable output unit: one row of the final table.
// Records are never mutated after creation and are ordered by ply
// within a game and by batch index across games. Nil scores mean the
// evaluation was degraded to null after the retry policy was exhausted.
type MoveRecord struct {
	GameID     string
	MoveNumber int
	Player     Color
	SAN        string
	UCI        string

	// White-perspective evaluations of the positions before and after
	// the move.
	ScoreBefore *engine.Eval
	ScoreAfter  *engine.Eval

	// BestMove is the engine's suggestion at the position before the
	// move, in UCI notation.
	BestMove string

	Classification Classification
}
