package sales

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/urban-fashion/sales-agent/internal/config"
	"github.com/urban-fashion/sales-agent/internal/model"
)

// historyWindow is how many past turns are rendered into the prompt.
const historyWindow = 10

var salesTechniques = []string{
	`Build rapport: "Tapai kaha bata ho?"`,
	`Social proof: "5 jana le aaja order garyo!"`,
	`Scarcity: "Only 3 left!"`,
	`Urgency: "Aaja order = bholi delivery!"`,
	`Empathy: "Ma bujhchu budget important chha"`,
	"Value: talk about fabric, fit and how it looks before talking about price",
}

var stageGuidance = map[model.Stage]string{
	model.StageGreeting:    "Welcome the customer warmly, build rapport and ask what they are looking for.",
	model.StageBrowsing:    "Recommend products from the catalog that match their interest and describe them.",
	model.StageNegotiation: "Handle price concerns with value and empathy, follow the pricing policy.",
	model.StageOrdering:    "Collect size, color, full name, phone number and delivery address, then confirm the order.",
	model.StageCompleted:   "Thank the customer, confirm delivery details and invite them back.",
}

// BuildPrompt renders the instruction text sent to the completion service
// for one customer turn.
func BuildPrompt(profile config.BusinessProfile, conv *model.Conversation, products []model.Product, customerText string) string {
	profile = profile.WithDefaults()

	var b strings.Builder

	fmt.Fprintf(&b, "You are %s, a friendly sales agent for %s, a clothing shop in %s, chatting with customers on Facebook Messenger.\n\n",
		profile.AgentName, profile.BusinessName, profile.Location)

	b.WriteString("LANGUAGE:\n")
	b.WriteString("- Reply in a natural mix of Romanized Nepali and English, the way young Nepalis chat.\n")
	b.WriteString("- Never use Devanagari script.\n")
	b.WriteString("- Keep it short, warm and casual.\n\n")

	b.WriteString("SALES PSYCHOLOGY:\n")
	for _, t := range salesTechniques {
		b.WriteString("- " + t + "\n")
	}
	b.WriteString("\n")

	b.WriteString("PRICING POLICY:\n")
	for _, r := range profile.PricingRules {
		b.WriteString("- " + r + "\n")
	}
	b.WriteString("\n")

	if len(profile.ExtraRules) > 0 {
		b.WriteString("RULES:\n")
		for _, r := range profile.ExtraRules {
			b.WriteString("- " + r + "\n")
		}
		b.WriteString("\n")
	}

	stage := model.StageGreeting
	if conv != nil && conv.Stage != "" {
		stage = conv.Stage
	}
	fmt.Fprintf(&b, "CURRENT STAGE: %s\n", stage)
	if g, ok := stageGuidance[stage]; ok {
		b.WriteString(g + "\n")
	}
	b.WriteString("\n")

	b.WriteString("AVAILABLE PRODUCTS:\n")
	if len(products) == 0 {
		b.WriteString("(no products available right now)\n")
	}
	for _, p := range products {
		b.WriteString(productLine(p) + "\n")
	}
	b.WriteString("When you recommend a product, write its exact name so the customer gets a photo.\n\n")

	b.WriteString("CONVERSATION SO FAR:\n")
	if conv != nil {
		for _, m := range conv.LastMessages(historyWindow) {
			fmt.Fprintf(&b, "%s: %s\n", m.Sender, m.Text)
		}
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Customer just said: \"%s\"\n\n", customerText)
	b.WriteString("Respond in 2-4 sentences in Nepali-English mix. Be helpful, persuasive and never pushy.")

	return b.String()
}

func productLine(p model.Product) string {
	line := fmt.Sprintf("%s - Rs.%s", p.Name, formatPrice(p.Price))
	if p.RegularPrice != nil && *p.RegularPrice > p.Price {
		line += fmt.Sprintf(" (regular Rs.%s)", formatPrice(*p.RegularPrice))
	}
	return fmt.Sprintf("%s, Colors: %s, Sizes: %s, Stock: %d",
		line, listOrNA(p.Colors), listOrNA(p.Sizes), p.Stock)
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func listOrNA(items []string) string {
	if len(items) == 0 {
		return "N/A"
	}
	return strings.Join(items, ", ")
}
