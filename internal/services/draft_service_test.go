package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/chessfeed/internal/engine"
	"github.com/vytor/chessfeed/internal/errors"
	"github.com/vytor/chessfeed/internal/models"
	"github.com/vytor/chessfeed/internal/services"
)

func newDraft(t *testing.T) (services.DraftService, services.PostService) {
	t.Helper()
	posts := newPostService(t, false)
	draft, err := services.NewDraftService(posts, nil)
	require.NoError(t, err)
	return draft, posts
}

func TestDraftService_InitialState(t *testing.T) {
	draft, _ := newDraft(t)

	view := draft.State(context.Background())
	assert.Equal(t, engine.StartFEN, view.FEN)
	assert.Equal(t, engine.StartFEN, view.Board.FEN)
	assert.Empty(t, view.Board.History)
	assert.Empty(t, view.SuggestedMoves)
}

func TestDraftService_MovesAndNavigation(t *testing.T) {
	ctx := context.Background()
	draft, _ := newDraft(t)

	for _, m := range []engine.Move{{From: "d2", To: "d4"}, {From: "d7", To: "d5"}, {SAN: "c4"}} {
		res, err := draft.ApplyMove(ctx, m)
		require.NoError(t, err)
		require.True(t, res.Accepted)
	}

	back, err := draft.StepBackward(ctx)
	require.NoError(t, err)
	assert.True(t, back.Moved)
	assert.Equal(t, 1, back.Board.Cursor)

	// A new move from the middle drops the redo tail.
	res, err := draft.ApplyMove(ctx, engine.Move{SAN: "Nf3"})
	require.NoError(t, err)
	assert.Equal(t, []string{"d4", "d5", "Nf3"}, res.Board.History)
	assert.Equal(t, 2, res.Board.Cursor)

	fwd, err := draft.StepForward(ctx)
	require.NoError(t, err)
	assert.False(t, fwd.Moved)
}

func TestDraftService_LoadMovetext(t *testing.T) {
	ctx := context.Background()
	draft, _ := newDraft(t)

	_, err := draft.SetPosition(ctx, "8/P7/8/8/8/8/8/2k4K w - - 0 1")
	require.NoError(t, err)

	view, err := draft.LoadMovetext(ctx, "1. e4 e5 2. Nf3")
	require.NoError(t, err)
	assert.Equal(t, []string{"e4", "e5", "Nf3"}, view.Board.History)
	assert.Equal(t, 2, view.Board.Cursor)
	assert.Equal(t, "Black", view.Board.Turn)
	assert.Equal(t, engine.StartFEN, view.FEN, "FEN field resets to the initial position")

	before := draft.State(ctx)
	_, err = draft.LoadMovetext(ctx, "1. e4 e9")
	assert.True(t, errors.IsCode(err, errors.ErrCodeMalformedInput))
	assert.Equal(t, before.Board, draft.State(ctx).Board)

	_, err = draft.LoadMovetext(ctx, "   ")
	assert.True(t, errors.IsCode(err, errors.ErrCodeMalformedInput))
}

func TestDraftService_ImportPGN(t *testing.T) {
	ctx := context.Background()
	draft, _ := newDraft(t)

	view, err := draft.ImportPGN(ctx, "[White \"Morphy\"]\n[Black \"Duke\"]\n\n1. e4 e5 2. Nf3 d6 {Philidor} *\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"e4", "e5", "Nf3", "d6"}, view.Board.History)
	assert.Equal(t, "Morphy", view.Headers["White"])

	view, err = draft.LoadMovetext(ctx, "1. d4")
	require.NoError(t, err)
	assert.Empty(t, view.Headers)
}

func TestDraftService_SetPosition(t *testing.T) {
	ctx := context.Background()
	draft, _ := newDraft(t)

	fen := "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1"
	view, err := draft.SetPosition(ctx, fen)
	require.NoError(t, err)
	assert.Equal(t, fen, view.FEN)
	assert.Equal(t, "Black", view.Board.Turn)

	_, err = draft.SetPosition(ctx, "8/8/8")
	assert.True(t, errors.IsCode(err, errors.ErrCodeMalformedInput))
	assert.Equal(t, fen, draft.State(ctx).FEN)
}

func TestDraftService_SuggestUsesFENField(t *testing.T) {
	ctx := context.Background()
	draft, _ := newDraft(t)

	// The board moves on but suggestions are checked against the FEN field.
	_, err := draft.ApplyMove(ctx, engine.Move{SAN: "e4"})
	require.NoError(t, err)

	res, err := draft.Suggest(ctx, "e2e4")
	require.NoError(t, err)
	assert.Equal(t, "e4", res.SAN)
	assert.Equal(t, []string{"e4"}, res.SuggestedMoves)

	res, err = draft.Suggest(ctx, "Nf3")
	require.NoError(t, err)
	assert.Equal(t, []string{"e4", "Nf3"}, res.SuggestedMoves)

	_, err = draft.Suggest(ctx, "e5")
	assert.True(t, errors.IsCode(err, errors.ErrCodeIllegalMove))

	view := draft.State(ctx)
	assert.Equal(t, []string{"e4", "Nf3"}, view.SuggestedMoves)
	assert.Equal(t, []string{"e4"}, view.Board.History)
}

func TestDraftService_Publish(t *testing.T) {
	ctx := context.Background()
	draft, posts := newDraft(t)

	_, err := draft.LoadMovetext(ctx, "1. e4 c5")
	require.NoError(t, err)
	_, err = draft.Suggest(ctx, "d4")
	require.NoError(t, err)

	_, err = draft.Publish(ctx, services.PublishRequest{Username: "sam", Content: "Sicilian"})
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
	assert.Equal(t, []string{"e4", "c5"}, draft.State(ctx).Board.History, "draft kept on failure")

	post, err := draft.Publish(ctx, services.PublishRequest{Username: "sam", Content: "Sicilian", Caption: "Open"})
	require.NoError(t, err)
	assert.Equal(t, "start", post.FEN)
	assert.Equal(t, []string{"e4", "c5"}, post.Moves)
	assert.Equal(t, []string{"d4"}, post.SuggestedMoves)

	stored, err := posts.ListPosts(ctx, models.PostFilter{})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "sam", stored[0].Username)

	view := draft.State(ctx)
	assert.Empty(t, view.Board.History)
	assert.Empty(t, view.SuggestedMoves)
	assert.Equal(t, engine.StartFEN, view.FEN)
}
