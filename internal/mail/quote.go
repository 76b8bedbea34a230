package mail

import (
	"strings"
	"unicode"

	"github.com/lightmail/lightmail/internal/models"
)

// TagQuotedLines splits text into lines and marks the quoted ones for
// display styling. A line is quoted when its first non-whitespace rune is
// '>'. The text itself is untouched: joining the returned lines with "\n"
// reproduces the input byte for byte.
func TagQuotedLines(text string) []models.BodyLine {
	if text == "" {
		return nil
	}

	lines := strings.Split(text, "\n")
	tagged := make([]models.BodyLine, len(lines))
	for i, line := range lines {
		trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
		tagged[i] = models.BodyLine{
			Text:   line,
			Quoted: strings.HasPrefix(trimmed, ">"),
		}
	}
	return tagged
}
