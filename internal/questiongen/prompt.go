package questiongen

import (
	"fmt"
	"strings"
)

const questionSystemPrompt = `You are a friendly AI assistant helping users build their personalized digital twin for better recommendations. Your tone should be warm, encouraging, and respectful.`

func buildQuestionUserMessage(fieldPath, description string) string {
	var b strings.Builder

	b.WriteString(`You will be given a field from a JSON schema and a description explaining its intent.

Generate a conversational, open-ended question that:
- Feels like part of a friendly dialogue
- Offers light guidance or an example to help the user answer
- Is inclusive and privacy-aware (especially if the topic is sensitive)
- Does NOT include multiple-choice options or lists
- Sounds like something a thoughtful assistant would naturally ask

Use the field name and description to craft the question.

Example input:
Field Name: userContextAndLifestyle.lifeStageNotes
Description: Capture the user's current phase in life, such as studying, working, married, retired, etc.

Example output:
What stage of life are you currently in? Feel free to share if you're studying, working, raising a family, or going through any major change right now.

Now generate a similar conversational question for:

`)
	b.WriteString(fmt.Sprintf("Field Name: %s\n", fieldPath))
	b.WriteString(fmt.Sprintf("Description: %s\n", description))

	return b.String()
}

const rankSystemPrompt = `You are an expert in personalization. Score each question 0-100 on impact and bucket into three tiers.`

func buildRankUserMessage(questionsJSON string) string {
	var b strings.Builder

	b.WriteString("Here is a JSON array of questions. Respond with the same objects, each with added impactScore (0-100) and tier (Tier 1/2/3), sorted by descending score.\n")
	b.WriteString("```json\n")
	b.WriteString(questionsJSON)
	b.WriteString("\n```")

	return b.String()
}
