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
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/Okami6997/ChessGamesAnalyzer/pkg/engine"
)

// Job is one game's PGN text plus its original batch index. A job is
// consumed by exactly one worker.
type Job struct {
	Index int
	PGN   string
}

// Outcome is one job's result: an ordered record list, possibly a
// terminal error (malformed game, illegal move, cancellation), and the
// count of plies degraded to null evaluations. Records preceding an
// illegal move are retained.
type Outcome struct {
	Index  int
	GameID string

	Records   []MoveRecord
	NullPlies int

	Err error
}

// SessionFactory builds one engine session per worker. Swappable so any
// UCI-speaking engine, or a test double, binds to the same contract.
type SessionFactory func(engine.Config) engine.Session

// Pool partitions a game batch across workers, each driving its own
// engine process for its entire lifetime. Engine processes are never
// shared: their request semantics are one-at-a-time and sharing would
// serialize throughput anyway.
type Pool struct {
	Config  Config
	Factory SessionFactory
}

// NewPool returns a pool that launches real UCI engine processes.
func NewPool(config Config) *Pool {
	return &Pool{
		Config: config,
		Factory: func(c engine.Config) engine.Session {
			return engine.NewSession(c)
		},
	}
}

// Run analyzes the batch and returns one outcome per game, indexed by
// batch order. A session start failure aborts the whole run: no
// evaluation is possible without a full complement of engines. On
// cancellation every worker abandons its job at the next evaluation
// boundary and terminates its engine process before exiting.
func (pool *Pool) Run(ctx context.Context, games []string) ([]Outcome, error) {
	workers := pool.Config.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(games) {
		workers = len(games)
	}

	sessions := make([]engine.Session, 0, workers)
	for i := 0; i < workers; i++ {
		session := pool.Factory(pool.Config.Engine)
		if err := session.Start(); err != nil {
			for _, started := range sessions {
				_ = started.Stop()
			}
			return nil, err
		}
		sessions = append(sessions, session)
	}

	jobs := make(chan Job)
	outcomes := make([]Outcome, len(games))
	for i := range outcomes {
		outcomes[i].Index = i
	}

	var wg sync.WaitGroup
	for _, session := range sessions {
		wg.Add(1)
		go func(session engine.Session) {
			defer wg.Done()
			defer session.Stop()

			for job := range jobs {
				outcomes[job.Index] = pool.runJob(ctx, session, job)
			}
		}(session)
	}

	go func() {
		defer close(jobs)
		for i, pgn := range games {
			select {
			case jobs <- Job{Index: i, PGN: pgn}:
			case <-ctx.Done():
				return
			}
		}
	}()

	wg.Wait()

	if err := ctx.Err(); err != nil {
		for i := range outcomes {
			if outcomes[i].Records == nil && outcomes[i].Err == nil && outcomes[i].GameID == "" {
				outcomes[i].Err = err
			}
		}
		return outcomes, err
	}

	return outcomes, nil
}

// runJob replays one game, evaluating each position exactly once.
// Plies are strictly sequential: each position depends on the previous
// move, and the engine serializes requests regardless.
func (pool *Pool) runJob(ctx context.Context, session engine.Session, job Job) Outcome {
	outcome := Outcome{Index: job.Index, GameID: fmt.Sprintf("game-%d", job.Index+1)}

	replay, err := NewReplay(job.PGN)
	if err != nil {
		logrus.Errorf("game #%d: %v", job.Index+1, err)
		outcome.Err = err
		return outcome
	}

	if id := replay.GameID(); id != "" {
		outcome.GameID = id
	}

	players := ""
	if white, black := replay.Tag("White"), replay.Tag("Black"); white != "" && black != "" {
		players = fmt.Sprintf(": %s vs %s", white, black)
	}
	logrus.Infof("\x1b[33mAnalyzing\x1b[0m game #%d (%s)%s", job.Index+1, outcome.GameID, players)

	// White-perspective evaluation of the position the next ply starts
	// from. The very first ply's delta is computed against the
	// evaluated starting position, never skipped.
	var before *engine.Eval

	for {
		select {
		case <-ctx.Done():
			outcome.Err = ctx.Err()
			return outcome
		default:
		}

		ply, err := replay.Next()
		if err == io.EOF {
			return outcome
		}
		if err != nil {
			// Illegal move: prior plies stay in the output, the rest
			// of the game is skipped.
			logrus.Errorf("game #%d (%s): %v", job.Index+1, outcome.GameID, err)
			outcome.Err = err
			return outcome
		}

		if before == nil {
			before = pool.evaluate(session, ply.BeforeFEN, ply.Mover == White, ply.Index, &outcome)
		}
		after := pool.evaluate(session, ply.AfterFEN, ply.Mover.Other() == White, ply.Index, &outcome)

		record := MoveRecord{
			GameID:      outcome.GameID,
			MoveNumber:  ply.MoveNumber,
			Player:      ply.Mover,
			SAN:         ply.SAN,
			UCI:         ply.UCI,
			ScoreBefore: before,
			ScoreAfter:  after,
		}

		if before != nil {
			record.BestMove = before.BestMove
		}

		if before != nil && after != nil {
			record.Classification = Classify(Delta(*before, *after, ply.Mover), pool.Config.Thresholds)
		} else {
			outcome.NullPlies++
		}

		outcome.Records = append(outcome.Records, record)
		before = after
	}
}

// evaluate runs one evaluation with the restart-and-retry policy. A
// timeout or protocol fault restarts the engine and retries the same
// position; once retries are exhausted the ply degrades to nil rather
// than aborting the game.
func (pool *Pool) evaluate(session engine.Session, fen string, whiteToMove bool, ply int, outcome *Outcome) *engine.Eval {
	limits := pool.Config.Limits()

	for attempt := 0; ; attempt++ {
		raw, err := session.Evaluate(fen, limits)
		if err == nil {
			eval := raw.POV(whiteToMove)
			return &eval
		}

		// The faulted process may still be searching this position and
		// would answer the next request with this search's output, so
		// it is restarted even when the ply is about to degrade.
		if rerr := session.Restart(); rerr != nil {
			logrus.Errorf("game %s: restart failed: %v", outcome.GameID, rerr)
			return nil
		}

		if attempt >= pool.Config.Retries {
			logrus.Warnf("game %s: %v", outcome.GameID, &PositionEvaluationError{Ply: ply, Err: err})
			return nil
		}

		logrus.Warnf("game %s: engine fault at ply %d, retrying: %v", outcome.GameID, ply, err)
	}
}
