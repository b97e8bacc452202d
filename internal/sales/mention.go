package sales

import (
	"strings"

	"github.com/urban-fashion/sales-agent/internal/model"
)

// DetectMentions returns the ids of catalog products whose name occurs
// in text, case-insensitively, in catalog order. There is no length
// guard, so very short names match inside unrelated words.
func DetectMentions(text string, catalog []model.Product) []string {
	lower := strings.ToLower(text)
	mentioned := []string{}
	for _, p := range catalog {
		if strings.Contains(lower, strings.ToLower(p.Name)) {
			mentioned = append(mentioned, p.ID)
		}
	}
	return mentioned
}
