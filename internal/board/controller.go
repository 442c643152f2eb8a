// Package board implements the move-cursor controller behind each chessboard:
// a position, the moves that led to it, and a cursor for stepping through them.
package board

import (
	"fmt"
	"strings"

	"github.com/vytor/chessfeed/internal/engine"
	"github.com/vytor/chessfeed/internal/models"
	"github.com/vytor/chessfeed/internal/pgn"
)

// Controller keeps a position, its move history and a cursor consistent.
//
// history[0..cursor] are the moves applied to the displayed position; moves past
// the cursor are kept as a redo buffer until a new move is applied. cursor is -1
// when no move is applied.
//
// A Controller is not safe for concurrent use.
type Controller struct {
	newEngine engine.Factory
	eng       engine.Engine
	history   []string
	cursor    int
}

// Option configures a Controller.
type Option func(*Controller)

// WithFactory replaces the engine constructor.
func WithFactory(f engine.Factory) Option {
	return func(c *Controller) {
		c.newEngine = f
	}
}

// NewController returns a controller at fen ("" or "start" for the initial position).
func NewController(fen string, opts ...Option) (*Controller, error) {
	c := &Controller{newEngine: engine.New, cursor: -1}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.SetStartingPosition(fen); err != nil {
		return nil, err
	}
	return c, nil
}

// ApplyMove plays m on the displayed position. Any redo tail past the cursor is
// discarded. On failure nothing changes.
func (c *Controller) ApplyMove(m engine.Move) (string, error) {
	next := c.eng.Clone()
	san, err := next.Apply(m)
	if err != nil {
		return "", err
	}

	history := make([]string, c.cursor+1, c.cursor+2)
	copy(history, c.history[:c.cursor+1])
	c.history = append(history, san)
	c.cursor++
	c.eng = next
	return san, nil
}

// StepForward replays the next move of the history. It reports false when the
// cursor is already at the tail.
func (c *Controller) StepForward() (bool, error) {
	if c.cursor >= len(c.history)-1 {
		return false, nil
	}
	next := c.eng.Clone()
	if _, err := next.Apply(engine.Move{SAN: c.history[c.cursor+1]}); err != nil {
		return false, fmt.Errorf("step forward to ply %d: %w", c.cursor+2, err)
	}
	c.eng = next
	c.cursor++
	return true, nil
}

// StepBackward takes back the last applied move, keeping it in the redo buffer.
// It reports false when no move is applied.
func (c *Controller) StepBackward() (bool, error) {
	if c.cursor < 0 {
		return false, nil
	}

	var prev engine.Engine
	if len(c.eng.Moves()) == c.cursor+1 {
		prev = c.eng.Clone()
		if err := prev.Undo(); err != nil {
			return false, err
		}
	} else {
		// The engine's own move list does not match the history; rebuild instead.
		var err error
		prev, err = c.replay(c.eng.StartFEN(), c.history[:c.cursor])
		if err != nil {
			return false, err
		}
	}

	c.eng = prev
	c.cursor--
	return true, nil
}

// LoadMovetext replaces the board with the game given as numbered move pairs,
// played from the initial position. The cursor ends on the last move so that
// the displayed position and the cursor agree. On failure nothing changes.
func (c *Controller) LoadMovetext(text string) error {
	plies, err := pgn.SplitMovetext(text)
	if err != nil {
		return fmt.Errorf("%w: %v", engine.ErrMalformedNotation, err)
	}
	if len(plies) == 0 {
		return fmt.Errorf("%w: movetext is empty", engine.ErrMalformedNotation)
	}

	eng, err := c.replay(engine.StartFEN, plies)
	if err != nil {
		return fmt.Errorf("%w: %v", engine.ErrMalformedNotation, err)
	}
	c.commit(eng, eng.Moves(), len(plies)-1)
	return nil
}

// LoadPGN replaces the board with a full PGN game, including tag pairs,
// comments and variations, using the engine's own parser. It returns the
// game's tag pairs.
func (c *Controller) LoadPGN(text string) (map[string]string, error) {
	eng, err := engine.FromPGN(strings.NewReader(text))
	if err != nil {
		return nil, err
	}
	moves := eng.Moves()
	if len(moves) == 0 {
		return nil, fmt.Errorf("%w: game has no moves", engine.ErrMalformedNotation)
	}
	c.commit(eng, moves, len(moves)-1)
	return pgn.ParsePGNHeaders(text), nil
}

// SetStartingPosition resets the board to fen with an empty history.
func (c *Controller) SetStartingPosition(fen string) error {
	eng, err := c.newEngine(fen)
	if err != nil {
		return err
	}
	c.commit(eng, nil, -1)
	return nil
}

// Bind shows a known game: the board is set to fen, moves become the history
// and the cursor is placed before the first move. Every move is checked first.
func (c *Controller) Bind(fen string, moves []string) error {
	eng, err := c.newEngine(fen)
	if err != nil {
		return err
	}
	check, err := c.replay(eng.StartFEN(), moves)
	if err != nil {
		return err
	}
	c.commit(eng, check.Moves(), -1)
	return nil
}

func (c *Controller) commit(eng engine.Engine, history []string, cursor int) {
	c.eng = eng
	c.history = history
	c.cursor = cursor
}

func (c *Controller) replay(start string, plies []string) (engine.Engine, error) {
	eng, err := c.newEngine(start)
	if err != nil {
		return nil, err
	}
	for i, ply := range plies {
		if _, err := eng.Apply(engine.Move{SAN: ply}); err != nil {
			return nil, fmt.Errorf("ply %d %q: %w", i+1, ply, err)
		}
	}
	return eng, nil
}

// Cursor returns the index of the last applied move, or -1.
func (c *Controller) Cursor() int { return c.cursor }

// History returns a copy of the full move history, including the redo buffer.
func (c *Controller) History() []string {
	out := make([]string, len(c.history))
	copy(out, c.history)
	return out
}

// FEN returns the displayed position.
func (c *Controller) FEN() string { return c.eng.FEN() }

// StartFEN returns the position the history starts from.
func (c *Controller) StartFEN() string { return c.eng.StartFEN() }

// Turn returns the side to move in the displayed position.
func (c *Controller) Turn() engine.Color { return c.eng.Turn() }

// State projects the controller for rendering.
func (c *Controller) State() models.BoardState {
	st := models.BoardState{
		FEN:      c.eng.FEN(),
		StartFEN: c.eng.StartFEN(),
		Turn:     c.eng.Turn().String(),
		History:  c.History(),
		Cursor:   c.cursor,
		Movetext: engine.FormatMovetext(c.eng.StartFEN(), c.history),
		Outcome:  c.eng.Outcome(),
	}
	if last, ok := c.eng.LastMove(); ok {
		st.LastMove = last.UCI()
	}
	return st
}
