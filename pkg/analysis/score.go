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
	"math"

	"github.com/Okami6997/ChessGamesAnalyzer/pkg/engine"
)

// winScale is the centipawn coefficient of the logistic win% model
// (Lichess's accuracy model).
const winScale = 0.00368208

// WinProbability converts a White-perspective evaluation into a win
// probability for White in [0, 100]. It is monotonically non-decreasing
// in the centipawn score; mate scores saturate to the extremes.
func WinProbability(eval engine.Eval) float64 {
	if eval.Mate > 0 {
		return 100
	}
	if eval.Mate < 0 {
		return 0
	}

	return 50 + 50*(2/(1+math.Exp(-winScale*float64(eval.CP)))-1)
}

// Delta is the absolute win% change across a move from the mover's own
// perspective. Both evaluations must be White-perspective; Black's
// chances are the complement of White's.
func Delta(before, after engine.Eval, mover Color) float64 {
	wpBefore := WinProbability(before)
	wpAfter := WinProbability(after)

	if mover == Black {
		wpBefore = 100 - wpBefore
		wpAfter = 100 - wpAfter
	}

	return math.Abs(wpAfter - wpBefore)
}
