package engine

import (
	"fmt"
	"io"

	"github.com/corentings/chess/v2"
)

// chessEngine adapts *chess.Game to Engine. plies mirrors game.Moves() in SAN so
// that the engine can be rebuilt from start at any time.
type chessEngine struct {
	start string
	game  *chess.Game
	plies []string
}

// New returns an engine at the given FEN; "" and "start" mean the initial position.
func New(fen string) (Engine, error) {
	start, err := NormalizeFEN(fen)
	if err != nil {
		return nil, err
	}
	opt, err := chess.FEN(start)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedNotation, err)
	}
	return &chessEngine{start: start, game: chess.NewGame(opt)}, nil
}

// FromPGN bulk-loads a PGN game (tag pairs, comments and variations allowed)
// and returns an engine positioned after its main line.
func FromPGN(r io.Reader) (Engine, error) {
	opt, err := chess.PGN(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedNotation, err)
	}
	game := chess.NewGame(opt)
	positions := game.Positions()
	moves := game.Moves()
	if len(positions) != len(moves)+1 {
		return nil, fmt.Errorf("%w: got %d positions for %d moves", ErrMalformedNotation, len(positions), len(moves))
	}

	e := &chessEngine{start: positions[0].String(), game: game}
	for i, m := range moves {
		e.plies = append(e.plies, chess.AlgebraicNotation{}.Encode(positions[i], m))
	}
	return e, nil
}

// replay builds a fresh engine from start and applies plies in order.
func replay(start string, plies []string) (*chessEngine, error) {
	eng, err := New(start)
	if err != nil {
		return nil, err
	}
	e := eng.(*chessEngine)
	for i, ply := range plies {
		if _, err := e.Apply(Move{SAN: ply}); err != nil {
			return nil, fmt.Errorf("replay ply %d: %w", i+1, err)
		}
	}
	return e, nil
}

func (e *chessEngine) FEN() string      { return e.game.Position().String() }
func (e *chessEngine) StartFEN() string { return e.start }

func (e *chessEngine) Turn() Color {
	if e.game.Position().Turn() == chess.Black {
		return Black
	}
	return White
}

func (e *chessEngine) Apply(m Move) (string, error) {
	if m.Structured() {
		if err := validateStructured(m); err != nil {
			return "", err
		}
		if err := e.playStructured(m); err != nil {
			return "", err
		}
	} else {
		san, err := cleanSAN(m.SAN)
		if err != nil {
			return "", err
		}
		mv, err := chess.AlgebraicNotation{}.Decode(e.game.Position(), san)
		if err != nil {
			return "", fmt.Errorf("%w: %s", ErrIllegalMove, san)
		}
		if err := e.game.Move(mv, nil); err != nil {
			return "", fmt.Errorf("%w: %s", ErrIllegalMove, san)
		}
	}

	san := e.lastSAN()
	e.plies = append(e.plies, san)
	return san, nil
}

// playStructured applies a from/to move picked from the position's legal moves,
// so an empty or wrong-colour origin square is just an illegal move. A pawn
// dropped on the last rank with no promotion piece is promoted to a queen.
func (e *chessEngine) playStructured(m Move) error {
	promo := m.Promotion
	for _, mv := range e.game.ValidMoves() {
		if squareToString(mv.S1()) != m.From || squareToString(mv.S2()) != m.To {
			continue
		}
		got := promotionLetter(mv.Promo())
		if got != promo && !(promo == "" && got == "q") {
			continue
		}
		if err := e.game.Move(&mv, nil); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrIllegalMove, m.UCI(), err)
		}
		return nil
	}
	return fmt.Errorf("%w: %s", ErrIllegalMove, m.UCI())
}

func (e *chessEngine) lastSAN() string {
	moves := e.game.Moves()
	positions := e.game.Positions()
	return chess.AlgebraicNotation{}.Encode(positions[len(positions)-2], moves[len(moves)-1])
}

// Undo rebuilds the game without its last ply. Game.GoBack only moves the
// cursor of the move tree: the outcome stays set and the next Move becomes a
// variation, so the main line would keep the undone ply.
func (e *chessEngine) Undo() error {
	if len(e.plies) == 0 {
		return ErrNothingToUndo
	}
	prev, err := replay(e.start, e.plies[:len(e.plies)-1])
	if err != nil {
		return err
	}
	*e = *prev
	return nil
}

func (e *chessEngine) Moves() []string {
	out := make([]string, len(e.plies))
	copy(out, e.plies)
	return out
}

func (e *chessEngine) LastMove() (Move, bool) {
	moves := e.game.Moves()
	if len(moves) == 0 {
		return Move{}, false
	}
	last := moves[len(moves)-1]
	return Move{
		From:      squareToString(last.S1()),
		To:        squareToString(last.S2()),
		Promotion: promotionLetter(last.Promo()),
	}, true
}

func (e *chessEngine) Movetext() string {
	return FormatMovetext(e.start, e.plies)
}

func (e *chessEngine) Outcome() string {
	if e.game.Outcome() == chess.NoOutcome {
		return ""
	}
	return fmt.Sprintf("%s by %s", e.game.Outcome(), e.game.Method())
}

// Clone deep-copies the game tree, so moves played on the copy never reach e.
func (e *chessEngine) Clone() Engine {
	plies := make([]string, len(e.plies))
	copy(plies, e.plies)
	return &chessEngine{start: e.start, game: e.game.Clone(), plies: plies}
}

// squareToString converts a Square to algebraic notation (e.g., "e2", "a8")
func squareToString(sq chess.Square) string {
	fileChar := 'a' + sq.File()
	rankChar := '1' + sq.Rank()
	return fmt.Sprintf("%c%c", fileChar, rankChar)
}

func promotionLetter(promo chess.PieceType) string {
	switch promo {
	case chess.Queen:
		return "q"
	case chess.Rook:
		return "r"
	case chess.Bishop:
		return "b"
	case chess.Knight:
		return "n"
	}
	return ""
}
