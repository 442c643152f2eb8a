package models

import "time"

// Post is a published feed entry. Once created only its comments change.
type Post struct {
	ID             int64     `json:"id" yaml:"-"`
	Username       string    `json:"username" yaml:"username"`
	Content        string    `json:"content" yaml:"content"`
	ContentHTML    string    `json:"content_html,omitempty" yaml:"-"`
	Caption        string    `json:"caption" yaml:"caption"`
	FEN            string    `json:"fen" yaml:"fen"`
	Moves          []string  `json:"moves" yaml:"moves"`
	SuggestedMoves []string  `json:"suggested_moves" yaml:"suggested_moves"`
	Comments       []Comment `json:"comments" yaml:"comments"`
	CreatedAt      time.Time `json:"created_at" yaml:"-"`
}

type Comment struct {
	ID        int64     `json:"id" yaml:"-"`
	PostID    int64     `json:"post_id" yaml:"-"`
	Body      string    `json:"body" yaml:"body"`
	CreatedAt time.Time `json:"created_at" yaml:"-"`
}

// PostFilter narrows a post listing. Zero values mean no constraint.
type PostFilter struct {
	Username string
	Limit    int
	Offset   int
}
