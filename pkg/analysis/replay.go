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
	"errors"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/corentings/chess/v2"
)

// Ply is one half-move of a replayed game together with the positions
// on either side of it.
type Ply struct {
	Index      int // 1-based ply index
	MoveNumber int // 1-based full-move number
	Mover      Color

	SAN string
	UCI string

	BeforeFEN string
	AfterFEN  string
}

// Replay walks one game's movetext move by move over a board model.
// A Replay is finite and single-use; construct a fresh one to consume
// the game again.
type Replay struct {
	game *chess.Game
	sans []string
	tags map[string]string

	next int
}

var tagPairRegexp = regexp.MustCompile(`\[(\w+)\s+"(.*)"\]`)

// NewReplay parses the given PGN text. It returns *MalformedGameError
// if the headers or movetext cannot be parsed; illegal moves surface
// later, from Next.
func NewReplay(pgn string) (*Replay, error) {
	tags := parseTags(pgn)

	options := []func(*chess.Game){}
	if fen, ok := tags["FEN"]; ok && fen != "" {
		option, err := chess.FEN(fen)
		if err != nil {
			return nil, &MalformedGameError{Err: err}
		}
		options = append(options, option)
	}

	sans := tokenizeMovetext(pgn)
	if len(sans) == 0 {
		return nil, &MalformedGameError{Err: errors.New("no moves found")}
	}

	return &Replay{
		game: chess.NewGame(options...),
		sans: sans,
		tags: tags,
	}, nil
}

// Next yields the game's plies in play order and io.EOF after the last
// one. It returns *IllegalMoveError if the next move cannot be applied
// to its predecessor position; the replay is unusable afterwards.
func (replay *Replay) Next() (Ply, error) {
	if replay.next >= len(replay.sans) {
		return Ply{}, io.EOF
	}

	san := replay.sans[replay.next]
	replay.next++

	before := replay.game.FEN()
	mover, moveNumber := sideAndMoveNumber(before)

	move, err := chess.AlgebraicNotation{}.Decode(replay.game.Position(), san)
	if err != nil {
		return Ply{}, &IllegalMoveError{Ply: replay.next, SAN: san, Err: err}
	}

	if err := replay.game.Move(move, nil); err != nil {
		return Ply{}, &IllegalMoveError{Ply: replay.next, SAN: san, Err: err}
	}

	return Ply{
		Index:      replay.next,
		MoveNumber: moveNumber,
		Mover:      mover,
		SAN:        san,
		UCI:        move.String(),
		BeforeFEN:  before,
		AfterFEN:   replay.game.FEN(),
	}, nil
}

// Tag returns the value of a PGN header tag, or "" if absent.
func (replay *Replay) Tag(key string) string {
	return replay.tags[key]
}

// GameID derives a stable identifier from the game's Link or Site
// header when it points at chess.com or lichess.org. Returns "" when
// no identifier can be derived.
func (replay *Replay) GameID() string {
	for _, key := range []string{"Link", "Site"} {
		site := replay.tags[key]
		if strings.Contains(site, "chess.com") || strings.Contains(site, "lichess.org") {
			trimmed := strings.TrimRight(site, "/")
			return trimmed[strings.LastIndex(trimmed, "/")+1:]
		}
	}
	return ""
}

func parseTags(pgn string) map[string]string {
	tags := make(map[string]string)
	for _, match := range tagPairRegexp.FindAllStringSubmatch(pgn, -1) {
		tags[match[1]] = match[2]
	}
	return tags
}

var (
	commentRegexp    = regexp.MustCompile(`(?s)\{[^}]*\}`)
	lineCommentRegex = regexp.MustCompile(`(?m);.*$`)
	nagRegexp        = regexp.MustCompile(`\$\d+`)
	moveNumberRegexp = regexp.MustCompile(`^\d+\.*`)
)

// tokenizeMovetext reduces raw PGN to its bare SAN tokens: headers,
// comments, variations, NAGs, move numbers and the result are dropped.
func tokenizeMovetext(pgn string) []string {
	var movetext strings.Builder
	for _, line := range strings.Split(pgn, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "[") {
			continue
		}
		movetext.WriteString(line)
		movetext.WriteString(" ")
	}

	text := commentRegexp.ReplaceAllString(movetext.String(), " ")
	text = lineCommentRegex.ReplaceAllString(text, " ")
	text = nagRegexp.ReplaceAllString(text, " ")
	text = stripVariations(text)

	var sans []string
	for _, token := range strings.Fields(text) {
		switch token {
		case "1-0", "0-1", "1/2-1/2", "*":
			continue
		}

		// "12.e4" and "12...e5" come glued in some exports.
		token = moveNumberRegexp.ReplaceAllString(token, "")
		token = strings.TrimRight(token, "!?")
		if token == "" {
			continue
		}

		sans = append(sans, token)
	}

	return sans
}

func stripVariations(text string) string {
	var out strings.Builder
	depth := 0
	for _, r := range text {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 {
				out.WriteRune(r)
			}
		}
	}
	return out.String()
}

// sideAndMoveNumber reads the side to move and full-move number from
// the FEN's trailing fields.
func sideAndMoveNumber(fen string) (Color, int) {
	fields := strings.Fields(fen)

	mover := White
	if len(fields) > 1 && fields[1] == "b" {
		mover = Black
	}

	moveNumber := 1
	if len(fields) > 5 {
		if n, err := strconv.Atoi(fields[5]); err == nil {
			moveNumber = n
		}
	}

	return mover, moveNumber
}
