package board

import (
	"github.com/vytor/chessfeed/internal/engine"
)

// ValidateMove checks m against fen on a throwaway engine and returns its SAN.
func ValidateMove(fen string, m engine.Move) (string, error) {
	return validateWith(engine.New, fen, m)
}

func validateWith(newEngine engine.Factory, fen string, m engine.Move) (string, error) {
	eng, err := newEngine(fen)
	if err != nil {
		return "", err
	}
	return eng.Apply(m)
}

// Suggestions collects alternative moves proposed for a post's starting position.
type Suggestions struct {
	newEngine engine.Factory
	moves     []string
}

// NewSuggestions returns an empty list validated with the default engine.
func NewSuggestions() *Suggestions {
	return &Suggestions{newEngine: engine.New}
}

// Add validates move text against fen and appends its SAN. Illegal moves are
// reported and not recorded.
func (s *Suggestions) Add(fen, text string) (string, error) {
	san, err := validateWith(s.newEngine, fen, engine.ParseMove(text))
	if err != nil {
		return "", err
	}
	s.moves = append(s.moves, san)
	return san, nil
}

// List returns a copy of the accepted suggestions.
func (s *Suggestions) List() []string {
	out := make([]string, len(s.moves))
	copy(out, s.moves)
	return out
}

func (s *Suggestions) Reset() {
	s.moves = nil
}
