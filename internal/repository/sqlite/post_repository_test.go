package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/chessfeed/internal/models"
	"github.com/vytor/chessfeed/internal/repository"
	"github.com/vytor/chessfeed/internal/repository/sqlite"
	"github.com/vytor/chessfeed/internal/testutil"
)

type PostRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.PostRepository
}

func (s *PostRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewPostRepository(s.db)
}

func (s *PostRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func samplePost(username string) models.Post {
	return models.Post{
		Username:       username,
		Content:        "Opening trap",
		Caption:        "White to move",
		FEN:            "start",
		Moves:          []string{"e4", "e5", "Nf3"},
		SuggestedMoves: []string{"Nc6"},
	}
}

func (s *PostRepositorySuite) TestInsertAndGet() {
	ctx := context.Background()

	post := samplePost("magnus")
	post.Comments = []models.Comment{{Body: "nice"}}

	id, err := s.repo.Insert(ctx, post)
	s.Require().NoError(err)
	s.Assert().Greater(id, int64(0))

	got, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Assert().Equal("magnus", got.Username)
	s.Assert().Equal("start", got.FEN)
	s.Assert().Equal([]string{"e4", "e5", "Nf3"}, got.Moves)
	s.Assert().Equal([]string{"Nc6"}, got.SuggestedMoves)
	s.Require().Len(got.Comments, 1)
	s.Assert().Equal("nice", got.Comments[0].Body)
	s.Assert().Equal(id, got.Comments[0].PostID)
	s.Assert().False(got.CreatedAt.IsZero())
}

func (s *PostRepositorySuite) TestInsert_NoMoves() {
	ctx := context.Background()

	post := samplePost("hikaru")
	post.Moves = nil
	post.SuggestedMoves = nil

	id, err := s.repo.Insert(ctx, post)
	s.Require().NoError(err)

	got, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Assert().NotNil(got.Moves)
	s.Assert().Empty(got.Moves)
	s.Assert().Empty(got.SuggestedMoves)
	s.Assert().Empty(got.Comments)
}

func (s *PostRepositorySuite) TestGet_NotFound() {
	got, err := s.repo.Get(context.Background(), 99999)
	s.Assert().ErrorIs(err, sql.ErrNoRows)
	s.Assert().Nil(got)
}

func (s *PostRepositorySuite) TestInsertBatchAndList() {
	ctx := context.Background()

	first := samplePost("alice")
	first.Comments = []models.Comment{{Body: "one"}, {Body: "two"}}
	second := samplePost("bob")
	third := samplePost("alice")
	third.Comments = []models.Comment{{Body: "three"}}

	ids, err := s.repo.InsertBatch(ctx, []models.Post{first, second, third})
	s.Require().NoError(err)
	s.Require().Len(ids, 3)

	posts, err := s.repo.List(ctx, models.PostFilter{})
	s.Require().NoError(err)
	s.Require().Len(posts, 3)
	s.Assert().Equal(ids[0], posts[0].ID)
	s.Assert().Len(posts[0].Comments, 2)
	s.Assert().Empty(posts[1].Comments)
	s.Assert().Equal("three", posts[2].Comments[0].Body)

	alice, err := s.repo.List(ctx, models.PostFilter{Username: "alice"})
	s.Require().NoError(err)
	s.Assert().Len(alice, 2)

	page, err := s.repo.List(ctx, models.PostFilter{Limit: 1, Offset: 1})
	s.Require().NoError(err)
	s.Require().Len(page, 1)
	s.Assert().Equal("bob", page[0].Username)

	n, err := s.repo.Count(ctx, models.PostFilter{Username: "alice"})
	s.Require().NoError(err)
	s.Assert().Equal(2, n)
}

func (s *PostRepositorySuite) TestList_Empty() {
	posts, err := s.repo.List(context.Background(), models.PostFilter{})
	s.Require().NoError(err)
	s.Assert().Empty(posts)
}

func (s *PostRepositorySuite) TestInsertComment() {
	ctx := context.Background()

	id, err := s.repo.Insert(ctx, samplePost("carol"))
	s.Require().NoError(err)

	_, err = s.repo.InsertComment(ctx, models.Comment{PostID: id, Body: "first"})
	s.Require().NoError(err)
	_, err = s.repo.InsertComment(ctx, models.Comment{PostID: id, Body: "second"})
	s.Require().NoError(err)

	comments, err := s.repo.CommentsForPost(ctx, id)
	s.Require().NoError(err)
	s.Require().Len(comments, 2)
	s.Assert().Equal("first", comments[0].Body)
	s.Assert().Equal("second", comments[1].Body)
}

func (s *PostRepositorySuite) TestInsertComment_UnknownPost() {
	_, err := s.repo.InsertComment(context.Background(), models.Comment{PostID: 4242, Body: "orphan"})
	s.Assert().Error(err)
}

func TestPostRepositorySuite(t *testing.T) {
	suite.Run(t, new(PostRepositorySuite))
}
