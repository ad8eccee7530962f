package reading

import (
	"fmt"
	"strings"

	"tarot-service/pkg/deck"
	"tarot-service/pkg/i18n"
	"tarot-service/pkg/storage"
)

// PromptInput is everything the prompt builder needs: the seeker's
// question, the spread configuration, and the ordered card picks.
type PromptInput struct {
	Question    string
	ReadingType deck.ReadingTypeConfig
	Cards       []storage.SelectedCard
	Language    i18n.Language
}

var celticCrossPositions = []string{
	"Present Situation",
	"The Challenge",
	"The Root Cause",
	"The Recent Past",
	"The Crown",
	"The Near Future",
	"Your Attitude",
	"External Influences",
	"Hopes and Fears",
	"The Outcome",
}

var months = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

var decisionPositions = []string{
	"The Heart of the Decision",
	"Option A - The Path",
	"Option A - The Outcome",
	"Option B - The Path",
	"Option B - The Outcome",
}

// positionLabel names the slot a card fills within its spread.
func positionLabel(readingType deck.ReadingType, position, total int) string {
	idx := position - 1
	switch readingType {
	case deck.TypeThreeCard:
		switch position {
		case 1:
			return "PAST"
		case 2:
			return "PRESENT"
		case 3:
			return "FUTURE"
		}
	case deck.TypeCelticCross:
		if idx < len(celticCrossPositions) {
			return strings.ToUpper(celticCrossPositions[idx])
		}
	case deck.TypeYear:
		if idx < len(months) {
			return strings.ToUpper(months[idx])
		}
	case deck.TypeDecision:
		if idx < len(decisionPositions) {
			return strings.ToUpper(decisionPositions[idx])
		}
	case deck.TypeDaily:
		return "THE CARD OF THE DAY"
	}
	return fmt.Sprintf("CARD %d OF %d", position, total)
}

// BuildPrompt assembles the generation prompt: question, spread framing,
// then each card with its position label, orientation-correct meaning,
// keywords, and symbolism.
func BuildPrompt(in PromptInput) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a wise and empathetic tarot reader. A seeker has drawn %d card(s) for a %q spread (%s) and asked: %q\n\n",
		len(in.Cards), in.ReadingType.Name, in.ReadingType.Description, in.Question)
	b.WriteString("The cards drawn are:\n\n")

	for _, sc := range in.Cards {
		card, ok := deck.CardByID(sc.CardID)
		if !ok {
			continue
		}

		meaning := card.Upright
		if sc.Orientation == storage.OrientationReversed {
			meaning = card.Reversed
		}

		fmt.Fprintf(&b, "%d. %s - %s (%s), %s\n", sc.Position,
			positionLabel(in.ReadingType.ID, sc.Position, len(in.Cards)), card.Name, card.Suit, sc.Orientation)
		fmt.Fprintf(&b, "   Meaning: %s\n", meaning)
		fmt.Fprintf(&b, "   Keywords: %s\n", strings.Join(card.Keywords, ", "))
		fmt.Fprintf(&b, "   Symbolism: %s\n\n", card.Symbolism)
	}

	b.WriteString(`Please provide a detailed, compassionate, and insightful reading that:
- Connects the cards to tell a cohesive story
- Addresses their specific question
- Offers guidance and empowerment
- Uses mystical but accessible language
- Is approximately 200-300 words
- Feels personal and meaningful

Begin with a brief acknowledgment of their question, then weave the cards together into a narrative that follows the order of the spread.`)

	if in.Language == i18n.LangTR {
		b.WriteString("\n\nWrite the entire reading in Turkish.")
	}

	return b.String()
}
