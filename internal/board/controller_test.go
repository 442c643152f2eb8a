package board_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/chessfeed/internal/board"
	"github.com/vytor/chessfeed/internal/engine"
)

func newStartController(t *testing.T) *board.Controller {
	t.Helper()
	c, err := board.NewController("start")
	require.NoError(t, err)
	return c
}

func san(s string) engine.Move { return engine.Move{SAN: s} }

func TestNewController_StartPosition(t *testing.T) {
	c := newStartController(t)
	assert.Equal(t, engine.StartFEN, c.FEN())
	assert.Equal(t, -1, c.Cursor())
	assert.Empty(t, c.History())
	assert.Equal(t, engine.White, c.Turn())
}

func TestApplyMove_StepBackwardRestoresPosition(t *testing.T) {
	c := newStartController(t)
	for _, m := range []string{"e4", "e5", "Nf3", "Nc6", "Bb5", "a6", "O-O"} {
		before := c.FEN()

		_, err := c.ApplyMove(san(m))
		require.NoError(t, err, m)
		after := c.FEN()
		assert.NotEqual(t, before, after)

		moved, err := c.StepBackward()
		require.NoError(t, err)
		require.True(t, moved)
		assert.Equal(t, before, c.FEN(), "step back after %s", m)

		moved, err = c.StepForward()
		require.NoError(t, err)
		require.True(t, moved)
		assert.Equal(t, after, c.FEN())
	}
	assert.Equal(t, []string{"e4", "e5", "Nf3", "Nc6", "Bb5", "a6", "O-O"}, c.History())
	assert.Equal(t, 6, c.Cursor())
}

func TestApplyMove_IllegalLeavesStateUnchanged(t *testing.T) {
	tests := []struct {
		name string
		move engine.Move
		want error
	}{
		{name: "pawn too far", move: san("e5"), want: engine.ErrIllegalMove},
		{name: "wrong side", move: engine.Move{From: "e7", To: "e5"}, want: engine.ErrIllegalMove},
		{name: "empty square", move: engine.Move{From: "e4", To: "e5"}, want: engine.ErrIllegalMove},
		{name: "off board", move: san("e9"), want: engine.ErrMalformedNotation},
		{name: "bad square", move: engine.Move{From: "z2", To: "e4"}, want: engine.ErrMalformedNotation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newStartController(t)
			_, err := c.ApplyMove(san("d4"))
			require.NoError(t, err)
			_, err = c.StepBackward()
			require.NoError(t, err)

			fen, history, cursor := c.FEN(), c.History(), c.Cursor()

			_, err = c.ApplyMove(tt.move)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, fen, c.FEN())
			assert.Equal(t, history, c.History())
			assert.Equal(t, cursor, c.Cursor())
		})
	}
}

func TestStepForward_AtTailIsNoOp(t *testing.T) {
	c := newStartController(t)
	_, err := c.ApplyMove(san("e4"))
	require.NoError(t, err)
	fen := c.FEN()

	moved, err := c.StepForward()
	require.NoError(t, err)
	assert.False(t, moved)
	assert.Equal(t, fen, c.FEN())
	assert.Equal(t, 0, c.Cursor())
}

func TestStepBackward_AtStartIsNoOp(t *testing.T) {
	c := newStartController(t)
	for i := 0; i < 2; i++ {
		moved, err := c.StepBackward()
		require.NoError(t, err)
		assert.False(t, moved)
		assert.Equal(t, -1, c.Cursor())
		assert.Equal(t, engine.StartFEN, c.FEN())
	}
}

func TestApplyMove_FromMiddleDiscardsRedoTail(t *testing.T) {
	c := newStartController(t)
	for _, m := range []string{"e4", "e5", "Nf3", "Nc6"} {
		_, err := c.ApplyMove(san(m))
		require.NoError(t, err)
	}
	for i := 0; i < 3; i++ {
		_, err := c.StepBackward()
		require.NoError(t, err)
	}
	require.Equal(t, 0, c.Cursor())
	require.Len(t, c.History(), 4, "redo tail kept until a new move")

	cursor := c.Cursor()
	got, err := c.ApplyMove(san("c5"))
	require.NoError(t, err)
	assert.Equal(t, "c5", got)
	assert.Equal(t, []string{"e4", "c5"}, c.History())
	assert.Len(t, c.History(), cursor+2)
	assert.Equal(t, 1, c.Cursor())

	moved, err := c.StepForward()
	require.NoError(t, err)
	assert.False(t, moved)
}

func TestApplyMove_StructuredMoveReturnsSAN(t *testing.T) {
	c := newStartController(t)
	got, err := c.ApplyMove(engine.Move{From: "g1", To: "f3"})
	require.NoError(t, err)
	assert.Equal(t, "Nf3", got)
	assert.Equal(t, engine.Black, c.Turn())
	assert.Equal(t, "g1f3", c.State().LastMove)
}

func TestLoadMovetext(t *testing.T) {
	c := newStartController(t)
	require.NoError(t, c.LoadMovetext("1. e4 e5 2. Nf3"))

	assert.Equal(t, []string{"e4", "e5", "Nf3"}, c.History())
	assert.Equal(t, engine.Black, c.Turn())
	assert.Equal(t, 2, c.Cursor())
	assert.Equal(t, engine.StartFEN, c.StartFEN())

	moved, err := c.StepBackward()
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, engine.White, c.Turn())
	assert.Equal(t, 1, c.Cursor())
}

func TestLoadMovetext_ReplacesPriorGame(t *testing.T) {
	c, err := board.NewController("rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1")
	require.NoError(t, err)
	_, err = c.ApplyMove(san("c5"))
	require.NoError(t, err)

	require.NoError(t, c.LoadMovetext("1. d4 d5"))
	assert.Equal(t, []string{"d4", "d5"}, c.History())
	assert.Equal(t, engine.StartFEN, c.StartFEN())
}

func TestLoadMovetext_FailureKeepsBoard(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "off board square", text: "1. e4 e9"},
		{name: "illegal reply", text: "1. e4 e4"},
		{name: "empty", text: "   "},
		{name: "three plies in a pair", text: "1. e4 e5 Nf3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newStartController(t)
			_, err := c.ApplyMove(san("d4"))
			require.NoError(t, err)
			fen, history, cursor := c.FEN(), c.History(), c.Cursor()

			err = c.LoadMovetext(tt.text)
			require.Error(t, err)
			assert.ErrorIs(t, err, engine.ErrMalformedNotation)
			assert.Equal(t, fen, c.FEN())
			assert.Equal(t, history, c.History())
			assert.Equal(t, cursor, c.Cursor())
		})
	}
}

func TestLoadPGN(t *testing.T) {
	c := newStartController(t)
	headers, err := c.LoadPGN("[Event \"Casual\"]\n[White \"Anna\"]\n[Black \"Ben\"]\n\n1. e4 e5 2. Nf3 Nc6 *\n")
	require.NoError(t, err)
	assert.Equal(t, "Anna", headers["White"])
	assert.Equal(t, []string{"e4", "e5", "Nf3", "Nc6"}, c.History())
	assert.Equal(t, 3, c.Cursor())
}

func TestSetStartingPosition(t *testing.T) {
	c := newStartController(t)
	_, err := c.ApplyMove(san("e4"))
	require.NoError(t, err)

	require.NoError(t, c.SetStartingPosition("r1bqk2r/pppp1ppp/2n2n2/2b1p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - 0 1"))
	assert.Equal(t, -1, c.Cursor())
	assert.Empty(t, c.History())
	assert.Equal(t, engine.White, c.Turn())

	_, err = c.ApplyMove(san("O-O"))
	require.NoError(t, err)
}

func TestSetStartingPosition_MalformedKeepsBoard(t *testing.T) {
	c := newStartController(t)
	_, err := c.ApplyMove(san("e4"))
	require.NoError(t, err)
	fen := c.FEN()

	err = c.SetStartingPosition("not a fen")
	assert.ErrorIs(t, err, engine.ErrMalformedNotation)
	assert.Equal(t, fen, c.FEN())
	assert.Equal(t, []string{"e4"}, c.History())
}

func TestBind_StepsThroughKnownGame(t *testing.T) {
	c := newStartController(t)
	require.NoError(t, c.Bind("start", []string{"e4", "e5", "Nf3"}))
	assert.Equal(t, -1, c.Cursor())
	assert.Equal(t, engine.StartFEN, c.FEN())

	for i := 0; i < 3; i++ {
		moved, err := c.StepForward()
		require.NoError(t, err)
		assert.True(t, moved)
	}
	moved, err := c.StepForward()
	require.NoError(t, err)
	assert.False(t, moved)
	assert.Equal(t, engine.Black, c.Turn())
	assert.Equal(t, "1. e4 e5 2. Nf3", c.State().Movetext)
}

func TestBind_RejectsIllegalGame(t *testing.T) {
	c := newStartController(t)
	err := c.Bind("start", []string{"e4", "e4"})
	assert.ErrorIs(t, err, engine.ErrIllegalMove)
	assert.Equal(t, engine.StartFEN, c.FEN())
}

// noStackEngine hides the engine's applied moves, as an engine loaded in bulk
// without a usable undo stack would.
type noStackEngine struct {
	engine.Engine
	undos *int
}

func (e noStackEngine) Moves() []string { return nil }

func (e noStackEngine) Undo() error {
	*e.undos++
	return e.Engine.Undo()
}

func (e noStackEngine) Clone() engine.Engine {
	return noStackEngine{Engine: e.Engine.Clone(), undos: e.undos}
}

func TestStepBackward_ReplaysWhenEngineHasNoUndoStack(t *testing.T) {
	undos := 0
	factory := func(fen string) (engine.Engine, error) {
		eng, err := engine.New(fen)
		if err != nil {
			return nil, err
		}
		return noStackEngine{Engine: eng, undos: &undos}, nil
	}

	c, err := board.NewController("start", board.WithFactory(factory))
	require.NoError(t, err)
	for _, m := range []string{"e4", "e5", "Nf3"} {
		_, err := c.ApplyMove(san(m))
		require.NoError(t, err)
	}
	fen := c.FEN()
	_, err = c.ApplyMove(san("Nc6"))
	require.NoError(t, err)

	moved, err := c.StepBackward()
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, fen, c.FEN())
	assert.Equal(t, 0, undos, "history replay should be used instead of undo")
	assert.Equal(t, 2, c.Cursor())
}
