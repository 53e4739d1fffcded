package recommend

import (
	"fmt"
	"strings"
)

const recommendSystemPrompt = `You're a recommendation engine that creates hyper-personalized suggestions.`

func buildRecommendUserMessage(profileJSON, query, webContext string) string {
	var b strings.Builder

	b.WriteString("Task: Generate exactly 3 highly personalized recommendations based on:\n\n")

	b.WriteString("User Profile:\n")
	b.WriteString(profileJSON)
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("User Query:\n%q\n\n", query))

	b.WriteString("Web Context (for reference only):\n")
	b.WriteString(webContext)
	b.WriteString("\n\n")

	b.WriteString(`Requirements:
1. Each recommendation must directly reference profile details
2. Blend the user's core values and preferences
3. Only suggest what is asked for; no extra advice
4. Each item has a title and a reason explaining why it matches`)

	return b.String()
}
