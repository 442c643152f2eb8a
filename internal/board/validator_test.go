package board_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/chessfeed/internal/board"
	"github.com/vytor/chessfeed/internal/engine"
)

func TestValidateMove_DoesNotTouchDisplayedBoard(t *testing.T) {
	c := newStartController(t)
	fen := c.FEN()

	got, err := board.ValidateMove(c.FEN(), engine.Move{SAN: "e4"})
	require.NoError(t, err)
	assert.Equal(t, "e4", got)
	assert.Equal(t, fen, c.FEN())
	assert.Equal(t, -1, c.Cursor())
}

func TestValidateMove_Illegal(t *testing.T) {
	_, err := board.ValidateMove("start", engine.Move{SAN: "Ke2"})
	assert.ErrorIs(t, err, engine.ErrIllegalMove)
}

func TestSuggestions(t *testing.T) {
	s := board.NewSuggestions()
	fen := "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1"

	got, err := s.Add(fen, "c5")
	require.NoError(t, err)
	assert.Equal(t, "c5", got)

	got, err = s.Add(fen, "g8f6")
	require.NoError(t, err)
	assert.Equal(t, "Nf6", got)

	_, err = s.Add(fen, "e4")
	assert.ErrorIs(t, err, engine.ErrIllegalMove)

	_, err = s.Add(fen, "e3e4")
	assert.ErrorIs(t, err, engine.ErrIllegalMove, "empty origin square")

	_, err = s.Add("garbage", "e4")
	assert.ErrorIs(t, err, engine.ErrMalformedNotation)

	assert.Equal(t, []string{"c5", "Nf6"}, s.List())

	s.Reset()
	assert.Empty(t, s.List())
}
