package models

// BoardState is what a client needs to draw one board and its move list.
type BoardState struct {
	FEN      string   `json:"fen"`
	StartFEN string   `json:"start_fen"`
	Turn     string   `json:"turn"`
	History  []string `json:"history"`
	Cursor   int      `json:"cursor"`
	Movetext string   `json:"movetext"`
	LastMove string   `json:"last_move,omitempty"`
	Outcome  string   `json:"outcome,omitempty"`
}

// FeedView is the post currently shown in the feed together with its board.
type FeedView struct {
	Post  Post       `json:"post"`
	Index int        `json:"index"`
	Total int        `json:"total"`
	Board BoardState `json:"board"`
}

// DraftView is the in-progress authoring form.
type DraftView struct {
	Board          BoardState        `json:"board"`
	FEN            string            `json:"fen"`
	SuggestedMoves []string          `json:"suggested_moves"`
	Headers        map[string]string `json:"headers,omitempty"`
}

// MoveResult answers a move submitted to a board. A rejected move leaves Board
// as it was so the client can snap the piece back.
type MoveResult struct {
	Accepted bool       `json:"accepted"`
	SAN      string     `json:"san,omitempty"`
	Board    BoardState `json:"board"`
}

// StepResult answers a forward or backward step. Moved is false at either end
// of the history.
type StepResult struct {
	Moved bool       `json:"moved"`
	Board BoardState `json:"board"`
}

// SuggestionResult answers an accepted suggested move with the list it joined.
type SuggestionResult struct {
	SAN            string   `json:"san"`
	SuggestedMoves []string `json:"suggested_moves"`
}
