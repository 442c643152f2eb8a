package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/chessfeed/internal/logger"
	"github.com/vytor/chessfeed/internal/models"
	"github.com/vytor/chessfeed/internal/repository"
)

var postColumns = []string{
	"id", "username", "content", "caption", "fen", "moves", "suggested_moves", "created_at",
}

type postRepository struct {
	db *sql.DB
}

// NewPostRepository creates a new PostRepository implementation
func NewPostRepository(db *sql.DB) repository.PostRepository {
	return &postRepository{db: db}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (models.Post, error) {
	var (
		p         models.Post
		moves     string
		suggested string
	)
	if err := row.Scan(&p.ID, &p.Username, &p.Content, &p.Caption, &p.FEN, &moves, &suggested, &p.CreatedAt); err != nil {
		return p, err
	}
	p.Moves = splitMoves(moves)
	p.SuggestedMoves = splitMoves(suggested)
	p.Comments = []models.Comment{}
	return p, nil
}

func (r *postRepository) Get(ctx context.Context, id int64) (*models.Post, error) {
	log := logger.FromContext(ctx).WithPrefix("post_repo")
	log.Debug("getting post: id=%d", id)

	query, args, err := sqlBuilder.Select(postColumns...).From("posts").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	p, err := scanPost(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("post not found: id=%d", id)
		} else {
			log.Error("failed to get post: %v", err)
		}
		return nil, err
	}

	comments, err := r.CommentsForPost(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Comments = comments
	return &p, nil
}

func applyPostFilter(q squirrel.SelectBuilder, filter models.PostFilter) squirrel.SelectBuilder {
	if filter.Username != "" {
		q = q.Where(squirrel.Eq{"username": filter.Username})
	}
	return q
}

func (r *postRepository) List(ctx context.Context, filter models.PostFilter) ([]models.Post, error) {
	log := logger.FromContext(ctx).WithPrefix("post_repo")
	log.Debug("listing posts with filter: username=%s, limit=%d, offset=%d", filter.Username, filter.Limit, filter.Offset)

	q := applyPostFilter(sqlBuilder.Select(postColumns...).From("posts"), filter).OrderBy("id ASC")

	limit := filter.Limit
	if limit <= 0 {
		limit = 200
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	q = q.Limit(uint64(limit)).Offset(uint64(offset))

	query, args, err := q.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list posts: %v", err)
		return nil, err
	}

	posts := []models.Post{}
	index := map[int64]int{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			rows.Close()
			log.Error("failed to scan post row: %v", err)
			return nil, err
		}
		index[p.ID] = len(posts)
		posts = append(posts, p)
	}
	// Close before the comment query: the pool holds a single connection.
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return posts, nil
	}

	ids := make([]int64, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	comments, err := r.comments(ctx, squirrel.Eq{"post_id": ids})
	if err != nil {
		return nil, err
	}
	for _, c := range comments {
		i := index[c.PostID]
		posts[i].Comments = append(posts[i].Comments, c)
	}

	log.Debug("found %d posts", len(posts))
	return posts, nil
}

func (r *postRepository) Count(ctx context.Context, filter models.PostFilter) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("post_repo")

	query, args, err := applyPostFilter(sqlBuilder.Select("COUNT(*)").From("posts"), filter).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return 0, err
	}

	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		log.Error("failed to count posts: %v", err)
		return 0, err
	}
	return n, nil
}

func insertPost(ctx context.Context, exec execer, p models.Post) (int64, error) {
	query, args, err := sqlBuilder.Insert("posts").
		Columns("username", "content", "caption", "fen", "moves", "suggested_moves").
		Values(p.Username, p.Content, p.Caption, p.FEN, joinMoves(p.Moves), joinMoves(p.SuggestedMoves)).
		ToSql()
	if err != nil {
		return 0, err
	}
	res, err := exec.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	for _, c := range p.Comments {
		c.PostID = id
		if _, err := insertComment(ctx, exec, c); err != nil {
			return 0, err
		}
	}
	return id, nil
}

func insertComment(ctx context.Context, exec execer, c models.Comment) (int64, error) {
	query, args, err := sqlBuilder.Insert("comments").
		Columns("post_id", "body").
		Values(c.PostID, c.Body).
		ToSql()
	if err != nil {
		return 0, err
	}
	res, err := exec.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *postRepository) Insert(ctx context.Context, post models.Post) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("post_repo")
	log.Debug("inserting post: username=%s, moves=%d", post.Username, len(post.Moves))

	var id int64
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		var err error
		id, err = insertPost(ctx, tx, post)
		return err
	})
	if err != nil {
		log.Error("failed to insert post: %v", err)
		return 0, err
	}
	log.Debug("post inserted: id=%d", id)
	return id, nil
}

func (r *postRepository) InsertBatch(ctx context.Context, posts []models.Post) ([]int64, error) {
	log := logger.FromContext(ctx).WithPrefix("post_repo")
	log.Debug("batch inserting %d posts", len(posts))

	if len(posts) == 0 {
		return nil, nil
	}

	ids := make([]int64, 0, len(posts))
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		for _, p := range posts {
			id, err := insertPost(ctx, tx, p)
			if err != nil {
				log.Error("failed to insert post by %s: %v", p.Username, err)
				return err
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Debug("batch insert completed, %d posts inserted", len(ids))
	return ids, nil
}

func (r *postRepository) InsertComment(ctx context.Context, comment models.Comment) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("post_repo")
	log.Debug("inserting comment: post_id=%d", comment.PostID)

	id, err := insertComment(ctx, r.db, comment)
	if err != nil {
		log.Error("failed to insert comment: %v", err)
		return 0, err
	}
	return id, nil
}

func (r *postRepository) CommentsForPost(ctx context.Context, postID int64) ([]models.Comment, error) {
	return r.comments(ctx, squirrel.Eq{"post_id": postID})
}

func (r *postRepository) comments(ctx context.Context, where squirrel.Sqlizer) ([]models.Comment, error) {
	log := logger.FromContext(ctx).WithPrefix("post_repo")

	query, args, err := sqlBuilder.Select("id", "post_id", "body", "created_at").
		From("comments").
		Where(where).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list comments: %v", err)
		return nil, err
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.Body, &c.CreatedAt); err != nil {
			log.Error("failed to scan comment row: %v", err)
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
