// Package sales holds the conversation selling logic: stage detection,
// product mention detection and reply generation.
package sales

import (
	"strings"

	"github.com/urban-fashion/sales-agent/internal/model"
)

// stageWindow is how many recent messages drive classification.
const stageWindow = 5

var (
	orderingKeywords    = []string{"order", "kinchu", "garchu", "linu", "buy"}
	negotiationKeywords = []string{"price", "kati", "discount", "mehenga"}
	completedKeywords   = []string{"completed", "ordered", "confirmed"}
)

// ClassifyStage maps a message history onto a conversation stage.
//
// It is recomputed from scratch every turn, so a conversation can move
// backwards (completed to browsing) once the keywords leave the window.
// Matching is plain substring containment: "ordered" also contains
// "order" and therefore classifies as ordering.
func ClassifyStage(messages []model.Message) model.Stage {
	if len(messages) <= 2 {
		return model.StageGreeting
	}

	recent := messages
	if len(recent) > stageWindow {
		recent = recent[len(recent)-stageWindow:]
	}

	texts := make([]string, len(recent))
	for i, m := range recent {
		texts[i] = strings.ToLower(m.Text)
	}
	joined := strings.Join(texts, " ")

	switch {
	case containsAny(joined, orderingKeywords):
		return model.StageOrdering
	case containsAny(joined, negotiationKeywords):
		return model.StageNegotiation
	case containsAny(joined, completedKeywords):
		return model.StageCompleted
	default:
		return model.StageBrowsing
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
