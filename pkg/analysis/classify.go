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

// Classification is the discrete annotation attached to a move.
type Classification uint8

const (
	// Unclassified marks plies whose evaluation was degraded to null.
	Unclassified Classification = iota

	Neutral
	Dubious
	Mistake
	Blunder

	// Reserved labels. Detecting them needs multi-line search support;
	// moves that would qualify are emitted as Neutral instead.
	Brilliant
	Good
	Interesting
)

// String returns a string representation of the given Classification.
func (c Classification) String() string {
	switch c {
	case Neutral:
		return "Neutral"
	case Dubious:
		return "Dubious (?!)"
	case Mistake:
		return "Mistake (?)"
	case Blunder:
		return "Blunder (??)"
	case Brilliant:
		return "Brilliant (!!)"
	case Good:
		return "Good (!)"
	case Interesting:
		return "Interesting (!?)"
	default:
		return ""
	}
}

// Thresholds are the win% loss bands separating the annotation labels.
// They follow the Lichess-style convention but are configuration, not
// structure: tune them without touching Classify.
type Thresholds struct {
	Blunder float64 `yaml:"blunder"`
	Mistake float64 `yaml:"mistake"`
	Dubious float64 `yaml:"dubious"`
}

// DefaultThresholds returns the conventional 20/10/5 win% loss bands.
func DefaultThresholds() Thresholds {
	return Thresholds{Blunder: 20, Mistake: 10, Dubious: 5}
}

// Classify maps an absolute win% delta to a label. Bands are evaluated
// from most to least severe; each band is inclusive on its lower end.
func Classify(delta float64, t Thresholds) Classification {
	switch {
	case delta >= t.Blunder:
		return Blunder
	case delta >= t.Mistake:
		return Mistake
	case delta >= t.Dubious:
		return Dubious
	default:
		return Neutral
	}
}
