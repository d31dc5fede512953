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
	"testing"

	"github.com/Okami6997/ChessGamesAnalyzer/pkg/engine"
)

func TestClassifyBands(t *testing.T) {
	thresholds := DefaultThresholds()

	cases := []struct {
		delta float64
		want  Classification
	}{
		{55.0, Blunder},
		{20.0, Blunder}, // bands are inclusive on their lower end
		{19.999, Mistake},
		{10.0, Mistake},
		{9.999, Dubious},
		{5.0, Dubious},
		{4.999, Neutral},
		{0.0, Neutral},
	}

	for _, c := range cases {
		if got := Classify(c.delta, thresholds); got != c.want {
			t.Errorf("delta %v: want %v, got %v", c.delta, c.want, got)
		}
	}
}

func TestClassifyUnchangedEvaluation(t *testing.T) {
	before := engine.Eval{CP: 50}
	after := engine.Eval{CP: 50}

	got := Classify(Delta(before, after, White), DefaultThresholds())
	if got != Neutral {
		t.Errorf("want Neutral, got %v", got)
	}
}

func TestClassifyCustomThresholds(t *testing.T) {
	tight := Thresholds{Blunder: 10, Mistake: 5, Dubious: 2}

	if got := Classify(12, tight); got != Blunder {
		t.Errorf("want Blunder under tightened bands, got %v", got)
	}
	if got := Classify(3, tight); got != Dubious {
		t.Errorf("want Dubious under tightened bands, got %v", got)
	}
}

func TestClassificationStrings(t *testing.T) {
	cases := []struct {
		label Classification
		want  string
	}{
		{Blunder, "Blunder (??)"},
		{Mistake, "Mistake (?)"},
		{Dubious, "Dubious (?!)"},
		{Neutral, "Neutral"},
		{Brilliant, "Brilliant (!!)"},
		{Good, "Good (!)"},
		{Interesting, "Interesting (!?)"},
		{Unclassified, ""},
	}

	for _, c := range cases {
		if got := c.label.String(); got != c.want {
			t.Errorf("want %q, got %q", c.want, got)
		}
	}
}
