package rephrase

import (
	"fmt"
	"strings"
)

const rephraseSystemPrompt = `You are a friendly, engaging interviewer having a casual, supportive conversation. When provided with a user's previous response and a next question, create a natural, conversational transition. Acknowledge or positively reflect on the user's response, and then smoothly ask the next question. Keep the tone friendly, curious, and encouraging, and avoid robotic phrasing. Do not rigidly repeat the question; weave it naturally into your words.`

func buildRephraseUserMessage(nextQuestion, priorAnswer string) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Next question: %s\n", nextQuestion))
	if priorAnswer != "" {
		b.WriteString(fmt.Sprintf("User's previous response: %s\n", priorAnswer))
	}
	b.WriteString("Please write a natural, conversational transition that acknowledges the user's response and leads into the next question. Keep it warm, curious, and supportive.")

	return b.String()
}
