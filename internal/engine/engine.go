// Package engine defines the position engine the boards delegate chess rules to,
// and provides an implementation backed by github.com/corentings/chess/v2.
package engine

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// StartFEN is the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// StartSentinel is accepted anywhere a FEN is expected and means StartFEN.
const StartSentinel = "start"

var (
	// ErrIllegalMove is returned when the rules engine rejects a move.
	ErrIllegalMove = errors.New("illegal move")
	// ErrMalformedNotation is returned when a FEN, SAN or movetext cannot be parsed.
	ErrMalformedNotation = errors.New("malformed notation")
	// ErrNothingToUndo is returned by Undo on an engine with no applied moves.
	ErrNothingToUndo = errors.New("no move to undo")
)

// Color is the side to move.
type Color int

const (
	White Color = iota
	Black
)

func (c Color) String() string {
	if c == Black {
		return "Black"
	}
	return "White"
}

// Move is a single ply, either as SAN text or as a from/to/promotion triple.
type Move struct {
	SAN       string `json:"san,omitempty"`
	From      string `json:"from,omitempty"`
	To        string `json:"to,omitempty"`
	Promotion string `json:"promotion,omitempty"`
}

// Structured reports whether the move is expressed as squares rather than SAN.
func (m Move) Structured() bool {
	return m.From != "" || m.To != ""
}

// UCI returns the long algebraic form of a structured move, e.g. "e7e8q".
func (m Move) UCI() string {
	return strings.ToLower(m.From + m.To + m.Promotion)
}

func (m Move) String() string {
	if m.Structured() {
		return m.UCI()
	}
	return m.SAN
}

var (
	squareRe = regexp.MustCompile(`^[a-h][1-8]$`)
	uciRe    = regexp.MustCompile(`^([a-h][1-8])([a-h][1-8])([qrbn]?)$`)
	sanRe    = regexp.MustCompile(`^(?:[NBRQK]?[a-h]?[1-8]?x?[a-h][1-8](?:=?[NBRQ])?|O-O(?:-O)?)[+#]?$`)
)

// ParseMove interprets free text typed by a user. Long algebraic input such as
// "e2e4" becomes a structured move; anything else is treated as SAN.
func ParseMove(text string) Move {
	text = strings.TrimSpace(text)
	if m := uciRe.FindStringSubmatch(text); m != nil {
		return Move{From: m[1], To: m[2], Promotion: m[3]}
	}
	return Move{SAN: text}
}

// cleanSAN strips move annotations and normalizes zero-style castling.
func cleanSAN(san string) (string, error) {
	s := strings.TrimSpace(san)
	s = strings.TrimRight(s, "!?")
	s = strings.ReplaceAll(s, "0-0-0", "O-O-O")
	s = strings.ReplaceAll(s, "0-0", "O-O")
	if !sanRe.MatchString(s) {
		return "", fmt.Errorf("%w: %q is not a move", ErrMalformedNotation, san)
	}
	return s, nil
}

func validateStructured(m Move) error {
	if !squareRe.MatchString(strings.ToLower(m.From)) {
		return fmt.Errorf("%w: bad origin square %q", ErrMalformedNotation, m.From)
	}
	if !squareRe.MatchString(strings.ToLower(m.To)) {
		return fmt.Errorf("%w: bad destination square %q", ErrMalformedNotation, m.To)
	}
	switch strings.ToLower(m.Promotion) {
	case "", "q", "r", "b", "n":
		return nil
	}
	return fmt.Errorf("%w: bad promotion piece %q", ErrMalformedNotation, m.Promotion)
}

// NormalizeFEN maps the start sentinel to StartFEN and pads FENs that omit
// trailing fields ("... w KQkq" becomes "... w KQkq - 0 1").
func NormalizeFEN(fen string) (string, error) {
	fen = strings.TrimSpace(fen)
	if fen == "" || strings.EqualFold(fen, StartSentinel) {
		return StartFEN, nil
	}
	fields := strings.Fields(fen)
	if len(fields) > 6 {
		return "", fmt.Errorf("%w: FEN has %d fields", ErrMalformedNotation, len(fields))
	}
	defaults := []string{"", "w", "-", "-", "0", "1"}
	for len(fields) < 6 {
		fields = append(fields, defaults[len(fields)])
	}
	if strings.Count(fields[0], "/") != 7 {
		return "", fmt.Errorf("%w: FEN board %q must have 8 ranks", ErrMalformedNotation, fields[0])
	}
	return strings.Join(fields, " "), nil
}

// Engine is the capability set the boards need from a chess rules implementation.
// Apply and Undo mutate the receiver; callers that need to try a move without
// touching a live board work on a Clone.
type Engine interface {
	// FEN returns the current position.
	FEN() string
	// StartFEN returns the position the engine was constructed from.
	StartFEN() string
	Turn() Color
	// Apply plays a move and returns its canonical SAN.
	Apply(m Move) (string, error)
	// Undo takes back the last applied move.
	Undo() error
	// Moves returns the applied moves in SAN.
	Moves() []string
	// LastMove returns the squares of the last applied move, if any.
	LastMove() (Move, bool)
	// Movetext exports the applied moves as numbered move pairs.
	Movetext() string
	// Outcome describes a finished game ("1-0 by checkmate"), or "" while in progress.
	Outcome() string
	Clone() Engine
}

// Factory builds an engine seeded from a FEN or the start sentinel.
type Factory func(fen string) (Engine, error)

// FormatMovetext renders SAN plies as numbered pairs, continuing the numbering of
// the given starting FEN ("1. e4 e5 2. Nf3", or "12... Kg7 13. h4").
func FormatMovetext(startFEN string, plies []string) string {
	if len(plies) == 0 {
		return ""
	}
	number, black := 1, false
	if fields := strings.Fields(startFEN); len(fields) == 6 {
		black = fields[1] == "b"
		if _, err := fmt.Sscanf(fields[5], "%d", &number); err != nil || number < 1 {
			number = 1
		}
	}

	var sb strings.Builder
	for i, ply := range plies {
		if i > 0 {
			sb.WriteByte(' ')
		}
		switch {
		case !black:
			fmt.Fprintf(&sb, "%d. ", number)
		case i == 0:
			fmt.Fprintf(&sb, "%d... ", number)
		}
		sb.WriteString(ply)
		if black {
			number++
		}
		black = !black
	}
	return sb.String()
}
