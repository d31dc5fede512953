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

import "fmt"

// MalformedGameError reports PGN text whose headers or movetext could
// not be parsed. The game is skipped; the batch continues.
type MalformedGameError struct {
	Err error
}

func (e *MalformedGameError) Error() string {
	return fmt.Sprintf("malformed game: %v", e.Err)
}

func (e *MalformedGameError) Unwrap() error { return e.Err }

// IllegalMoveError reports a move that cannot be legally applied to its
// predecessor position. Plies before it are still emitted; the game is
// skipped from this ply onward.
type IllegalMoveError struct {
	Ply int
	SAN string
	Err error
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("illegal move %q at ply %d: %v", e.SAN, e.Ply, e.Err)
}

func (e *IllegalMoveError) Unwrap() error { return e.Err }

// PositionEvaluationError reports a single ply whose evaluation failed
// even after an engine restart and retry. The ply's record is emitted
// with a null evaluation; the game continues.
type PositionEvaluationError struct {
	Ply int
	Err error
}

func (e *PositionEvaluationError) Error() string {
	return fmt.Sprintf("evaluation failed at ply %d: %v", e.Ply, e.Err)
}

func (e *PositionEvaluationError) Unwrap() error { return e.Err }
