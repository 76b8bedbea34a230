package mail

import (
	"log"
	"strings"

	"github.com/jaytaylor/html2text"
	"github.com/lightmail/lightmail/internal/models"
)

// ExtractBodyText selects the displayable plain text for a message. The
// text/plain parts win: the first fetched text part's value is used, with
// any further fetched text parts appended in order, byte for byte. A
// message with only HTML parts gets a best-effort plain-text conversion of
// the first one, since no rich rendering path exists.
func ExtractBodyText(detail *models.EmailDetail) string {
	var parts []string
	for _, partID := range detail.TextPartIDs {
		if value, ok := detail.BodyValues[partID]; ok {
			parts = append(parts, value)
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, "\n")
	}

	for _, partID := range detail.HTMLPartIDs {
		value, ok := detail.BodyValues[partID]
		if !ok {
			continue
		}
		text, err := html2text.FromString(value, html2text.Options{TextOnly: true})
		if err != nil {
			log.Printf("Mail: HTML-to-text conversion failed for part %s: %v", partID, err)
			continue
		}
		return text
	}

	return ""
}
