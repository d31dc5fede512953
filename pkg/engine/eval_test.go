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
	"testing"
	"time"
)

func TestParseInfo(t *testing.T) {
	cases := []struct {
		name  string
		line  string
		eval  Eval
		found bool
	}{
		{
			name:  "centipawns",
			line:  "info depth 15 seldepth 21 multipv 1 score cp 34 nodes 135789 nps 812000 pv e2e4 e7e5",
			eval:  Eval{CP: 34},
			found: true,
		},
		{
			name:  "negative centipawns",
			line:  "info depth 12 score cp -211 nodes 4000 pv d8h4",
			eval:  Eval{CP: -211},
			found: true,
		},
		{
			name:  "mate",
			line:  "info depth 10 score mate 3 pv f3f7",
			eval:  Eval{Mate: 3},
			found: true,
		},
		{
			name:  "getting mated",
			line:  "info depth 10 score mate -2 pv e8e7",
			eval:  Eval{Mate: -2},
			found: true,
		},
		{
			name:  "no score",
			line:  "info string NNUE evaluation using nn-5af11540bbfe.nnue",
			found: false,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			eval, found := parseInfo(c.line)
			if found != c.found {
				t.Fatalf("found: want %v, got %v", c.found, found)
			}
			if found && (eval.CP != c.eval.CP || eval.Mate != c.eval.Mate) {
				t.Errorf("want %+v, got %+v", c.eval, eval)
			}
		})
	}
}

func TestEvalString(t *testing.T) {
	cases := []struct {
		eval Eval
		want string
	}{
		{Eval{CP: 34}, "+0.34"},
		{Eval{CP: -120}, "-1.20"},
		{Eval{CP: 0}, "0.00"},
		{Eval{Mate: 3}, "#3"},
		{Eval{Mate: -2}, "#-2"},
	}

	for _, c := range cases {
		if got := c.eval.String(); got != c.want {
			t.Errorf("%+v: want %q, got %q", c.eval, c.want, got)
		}
	}
}

func TestEvalPOV(t *testing.T) {
	eval := Eval{CP: 30, BestMove: "g8f6"}

	if got := eval.POV(true); got != eval {
		t.Errorf("white to move must be identity, got %+v", got)
	}

	flipped := eval.POV(false)
	if flipped.CP != -30 || flipped.BestMove != "g8f6" {
		t.Errorf("black to move must flip the score only, got %+v", flipped)
	}

	mate := Eval{Mate: -2}.POV(false)
	if mate.Mate != 2 {
		t.Errorf("mate sign must flip, got %+v", mate)
	}
}

func TestLimitsGoCommand(t *testing.T) {
	cases := []struct {
		limits Limits
		want   string
	}{
		{Limits{Depth: 12}, "go depth 12"},
		{Limits{MoveTime: 2 * time.Second}, "go movetime 2000"},
		{Limits{Depth: 10, MoveTime: 30 * time.Millisecond}, "go depth 10 movetime 30"},
		{Limits{}, "go depth 15"},
	}

	for _, c := range cases {
		if got := c.limits.GoCommand(); got != c.want {
			t.Errorf("%+v: want %q, got %q", c.limits, c.want, got)
		}
	}
}
