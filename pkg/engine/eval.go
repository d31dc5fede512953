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

package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// Eval is the engine's verdict on a single position, from the
// side-to-move's perspective. Exactly one of the two score forms is
// meaningful: Mate != 0 means a forced mate in Mate moves (negative
// when the side to move gets mated), otherwise CP holds a centipawn
// score.
type Eval struct {
	CP   int
	Mate int

	BestMove string
}

// String renders the score in pawn units ("+0.34") or as a mate
// distance ("#3", "#-2").
func (eval Eval) String() string {
	if eval.Mate != 0 {
		return fmt.Sprintf("#%d", eval.Mate)
	}

	s := fmt.Sprintf("%+.2f", float64(eval.CP)/100)
	if s == "+0.00" || s == "-0.00" {
		return "0.00"
	}
	return s
}

// POV flips the evaluation to White's perspective given whether White
// is the side to move.
func (eval Eval) POV(whiteToMove bool) Eval {
	if whiteToMove {
		return eval
	}
	return Eval{CP: -eval.CP, Mate: -eval.Mate, BestMove: eval.BestMove}
}

// parseInfo extracts the score from a UCI info line. Unknown tokens are
// skipped; the second return reports whether a score was present.
func parseInfo(line string) (Eval, bool) {
	parts := strings.Fields(line)

	var eval Eval
	found := false
	for i := 0; i < len(parts)-1; i++ {
		if parts[i] != "score" {
			continue
		}

		value := 0
		if i+2 < len(parts) {
			value, _ = strconv.Atoi(parts[i+2])
		}

		switch parts[i+1] {
		case "cp":
			eval.CP = value
			found = true
		case "mate":
			eval.Mate = value
			found = true
		}
		break
	}

	return eval, found
}
