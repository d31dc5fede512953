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
	"bufio"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Config describes how to launch and configure a single engine process.
type Config struct {
	Name string `yaml:"name"`
	Cmd  string `yaml:"cmd"`
	Dir  string `yaml:"dir"`
	Arg  string `yaml:"arg"`

	// Weights is the path to a network file for neural engines (Lc0 and
	// friends). It is validated before launch and applied through the
	// WeightsFile option.
	Weights string `yaml:"weights"`

	Threads int `yaml:"threads"`
	Hash    int `yaml:"hash"`

	// Extra options applied verbatim with "setoption name <k> value <v>".
	Options map[string]string `yaml:"options"`
}

// Limits bounds a single evaluation request.
type Limits struct {
	Depth    int           `yaml:"depth"`
	MoveTime time.Duration `yaml:"movetime"`

	// Timeout is the hard deadline on the whole evaluate call. An
	// evaluation exceeding it is treated as an engine fault.
	Timeout time.Duration `yaml:"timeout"`
}

// GoCommand renders the limits as a UCI go command.
func (limits Limits) GoCommand() string {
	cmd := "go"
	if limits.Depth > 0 {
		cmd += fmt.Sprintf(" depth %d", limits.Depth)
	}
	if limits.MoveTime > 0 {
		cmd += fmt.Sprintf(" movetime %d", limits.MoveTime.Milliseconds())
	}
	if cmd == "go" {
		cmd = "go depth " + fmt.Sprint(DefaultDepth)
	}
	return cmd
}

// DefaultDepth is used when neither a depth nor a movetime limit is set.
const DefaultDepth = 15

// Session owns one external engine process end to end. Sessions are not
// safe for concurrent use: each worker must own exactly one Session.
// An Evaluate error leaves the process in an unknown state, possibly
// still searching the failed position; Restart before the next request.
type Session interface {
	Start() error
	Evaluate(fen string, limits Limits) (Eval, error)
	HealthCheck() bool
	Restart() error
	Stop() error
}

var (
	ErrReadTimeout = errors.New("engine: read i/o timeout")
	ErrEvalTimeout = errors.New("engine: evaluation timed out")
)

// StartError reports a failure to launch, handshake with, or configure
// an engine process. It is fatal to the whole run when it occurs during
// worker startup.
type StartError struct {
	Name string
	Err  error
}

func (e *StartError) Error() string {
	return fmt.Sprintf("engine %s: start: %v", e.Name, e.Err)
}

func (e *StartError) Unwrap() error { return e.Err }

// NewSession returns an unstarted UCI session for the given config.
func NewSession(config Config) *UCISession {
	return &UCISession{config: config}
}

// UCISession drives a UCI-speaking engine binary over stdin/stdout.
type UCISession struct {
	config Config

	cmd *exec.Cmd

	writer *bufio.Writer
	reader *bufio.Reader

	lines chan string
	done  chan struct{}

	mu  sync.Mutex
	err error

	started bool
}

func (session *UCISession) setErr(err error) {
	session.mu.Lock()
	session.err = err
	session.mu.Unlock()
}

func (session *UCISession) readErr() error {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.err
}

// Start launches the engine process, performs the UCI handshake and
// applies the configured options. It may be called again after Stop.
func (session *UCISession) Start() error {
	if session.started {
		return nil
	}

	if err := session.launch(); err != nil {
		return &StartError{Name: session.config.Name, Err: err}
	}

	if err := session.handshake(); err != nil {
		_ = session.Stop()
		return &StartError{Name: session.config.Name, Err: err}
	}

	return nil
}

func (session *UCISession) launch() error {
	if _, err := os.Stat(session.config.Cmd); err != nil {
		if _, lerr := exec.LookPath(session.config.Cmd); lerr != nil {
			return fmt.Errorf("binary not found: %w", err)
		}
	}

	if session.config.Weights != "" {
		if _, err := os.Stat(session.config.Weights); err != nil {
			return fmt.Errorf("weights file: %w", err)
		}
	}

	process := exec.Command(session.config.Cmd, strings.Fields(session.config.Arg)...)
	process.Dir = session.config.Dir

	stdin, _ := process.StdinPipe()
	stdout, _ := process.StdoutPipe()

	session.writer = bufio.NewWriter(stdin)
	session.reader = bufio.NewReader(stdout)
	session.lines = make(chan string)
	session.done = make(chan struct{})
	session.setErr(nil)

	session.cmd = process

	if err := session.cmd.Start(); err != nil {
		return err
	}

	session.started = true

	// done is per launch: it releases the goroutine when the session is
	// stopped with no reader on lines, and keeps a goroutine from a
	// previous process from touching the relaunched session's error.
	go func(reader *bufio.Reader, lines chan string, done chan struct{}) {
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				select {
				case <-done:
				default:
					session.setErr(err)
				}
				close(lines)
				return
			}

			line = strings.Trim(line, " \n\t\r")

			logrus.Debugf("info: ("+session.config.Name+")> %s\n", line)

			select {
			case lines <- line:
			case <-done:
				return
			}
		}
	}(session.reader, session.lines, session.done)

	return nil
}

func (session *UCISession) handshake() error {
	if err := session.Write("uci"); err != nil {
		return err
	}

	if _, err := session.Await("uciok", 5*time.Second); err != nil {
		return err
	}

	if session.config.Threads > 0 {
		if err := session.Write("setoption name Threads value %d", session.config.Threads); err != nil {
			return err
		}
	}

	if session.config.Hash > 0 {
		if err := session.Write("setoption name Hash value %d", session.config.Hash); err != nil {
			return err
		}
	}

	// One principal line only; the classifier has no use for multipv.
	if err := session.Write("setoption name MultiPV value 1"); err != nil {
		return err
	}

	if session.config.Weights != "" {
		if err := session.Write("setoption name WeightsFile value %s", session.config.Weights); err != nil {
			return err
		}
	}

	for name, value := range session.config.Options {
		if err := session.Write("setoption name %s value %s", name, value); err != nil {
			return err
		}
	}

	return session.Synchronize()
}

// Synchronize waits for the engine to complete some time consuming task
// and synchronizes the interface with it.
func (session *UCISession) Synchronize() error {
	if err := session.Write("isready"); err != nil {
		return err
	}

	_, err := session.Await("readyok", 5*time.Second)
	return err
}

// Evaluate sends the position and search limits and blocks until the
// engine reports a best line or the timeout expires. The returned Eval
// is from the side-to-move's perspective, as reported by the engine.
// On error the process may still be searching; it must be restarted
// before the next Evaluate or the stale search's output leaks into it.
func (session *UCISession) Evaluate(fen string, limits Limits) (Eval, error) {
	if err := session.Write("ucinewgame"); err != nil {
		return Eval{}, err
	}

	if fen == "" || fen == StartingFEN {
		if err := session.Write("position startpos"); err != nil {
			return Eval{}, err
		}
	} else if err := session.Write("position fen %s", fen); err != nil {
		return Eval{}, err
	}

	if err := session.Synchronize(); err != nil {
		return Eval{}, err
	}

	if err := session.Write(limits.GoCommand()); err != nil {
		return Eval{}, err
	}

	timeout := limits.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var eval Eval
	for {
		select {
		case <-timer.C:
			if err := session.readErr(); err != nil {
				return Eval{}, err
			}
			return Eval{}, ErrEvalTimeout

		case line, ok := <-session.lines:
			if !ok {
				if err := session.readErr(); err != nil {
					return Eval{}, err
				}
				return Eval{}, ErrEvalTimeout
			}

			switch {
			case strings.HasPrefix(line, "info "):
				if score, found := parseInfo(line); found {
					eval.CP, eval.Mate = score.CP, score.Mate
				}

			case strings.HasPrefix(line, "bestmove"):
				fields := strings.Fields(line)
				if len(fields) > 1 {
					eval.BestMove = fields[1]
				}
				return eval, nil
			}
		}
	}
}

// StartingFEN is the FEN of the standard starting position.
const StartingFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// HealthCheck is a cheap liveness probe.
func (session *UCISession) HealthCheck() bool {
	if !session.started || session.readErr() != nil {
		return false
	}

	return session.Synchronize() == nil
}

// Restart terminates the current process, forcibly if unresponsive, and
// starts a fresh one with the same configuration. Idempotent.
func (session *UCISession) Restart() error {
	_ = session.Stop()
	return session.Start()
}

// Stop shuts the engine process down. The process is guaranteed to be
// terminated on return, even if a prior Evaluate failed midway.
func (session *UCISession) Stop() error {
	if !session.started {
		return nil
	}
	session.started = false
	close(session.done)

	// A well-behaved engine exits on quit; the kill below covers the
	// ones that don't.
	_ = session.Write("quit")

	if session.cmd != nil && session.cmd.Process != nil {
		_ = session.cmd.Process.Kill()
		_ = session.cmd.Wait()
	}

	return nil
}

// Await is a utility function which waits for a particular string from
// the engine with a fixed timeout.
func (session *UCISession) Await(pattern string, timeout time.Duration) (string, error) {
	regex := regexp.MustCompile(pattern)
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
			// timer ran out: wait timeout

			if err := session.readErr(); err != nil {
				return "", err
			}

			return "", ErrReadTimeout

		case line, ok := <-session.lines:
			if !ok {
				if err := session.readErr(); err != nil {
					return "", err
				}
				return "", ErrReadTimeout
			}

			if regex.MatchString(line) {
				// line is the expected line
				return line, nil
			}
		}
	}
}

func (session *UCISession) Write(format string, a ...any) error {
	logrus.Debugf("info: ("+session.config.Name+")< "+format+"\n", a...)

	if _, err := fmt.Fprintf(session.writer, format+"\n", a...); err != nil {
		return err
	}

	return session.writer.Flush()
}
