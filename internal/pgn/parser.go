package pgn

import (
	"fmt"
	"regexp"
	"strings"
)

var headerRe = regexp.MustCompile(`\[(\w+)\s+"([^"]+)"\]`)

// ParsePGNHeaders extracts PGN header tags into a map
func ParsePGNHeaders(pgn string) map[string]string {
	out := map[string]string{}
	for _, line := range strings.Split(pgn, "\n") {
		if !strings.HasPrefix(line, "[") {
			continue
		}
		m := headerRe.FindStringSubmatch(line)
		if len(m) == 3 {
			out[m[1]] = m[2]
		}
	}
	return out
}

// StripHeaders drops tag-pair lines and returns the remaining movetext.
func StripHeaders(pgn string) string {
	var body []string
	for _, line := range strings.Split(pgn, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "[") {
			continue
		}
		body = append(body, line)
	}
	return strings.Join(body, "\n")
}

var (
	moveNumberRe = regexp.MustCompile(`\d+\.+`)
	commentRe    = regexp.MustCompile(`\{[^}]*\}`)
)

var resultTokens = map[string]bool{
	"1-0":     true,
	"0-1":     true,
	"1/2-1/2": true,
	"*":       true,
}

// SplitMovetext turns numbered move pairs ("1. e4 e5 2. Nf3") into plies.
// The text is split on move-number markers and every chunk contributes a white
// ply and an optional black ply. Tag pairs, {comments} and a trailing game
// result are ignored. A chunk holding more than two plies is rejected.
func SplitMovetext(text string) ([]string, error) {
	body := commentRe.ReplaceAllString(StripHeaders(text), " ")

	var plies []string
	for _, chunk := range moveNumberRe.Split(body, -1) {
		fields := strings.Fields(chunk)
		if n := len(fields); n > 0 && resultTokens[fields[n-1]] {
			fields = fields[:n-1]
		}
		if len(fields) > 2 {
			return nil, fmt.Errorf("move pair %q holds %d plies", strings.TrimSpace(chunk), len(fields))
		}
		plies = append(plies, fields...)
	}
	return plies, nil
}
