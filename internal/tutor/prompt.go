package tutor

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a patient industrial networking instructor. A student just finished a multiple-choice quiz on a fieldbus protocol and wants to understand a question they missed. Be accurate, concrete, and brief. Use plain ASCII text.`

func userMessage(req Request) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Topic: %s\n", req.Topic)
	fmt.Fprintf(&b, "Question: %s\n\nOptions:\n", req.Question)
	for i, opt := range req.Options {
		fmt.Fprintf(&b, "%c) %s\n", 'A'+i, opt)
	}

	b.WriteString("\n")
	if req.ChosenIndex >= 0 && req.ChosenIndex < len(req.Options) {
		fmt.Fprintf(&b, "Student chose: %c) %s\n", 'A'+req.ChosenIndex, req.Options[req.ChosenIndex])
	} else {
		b.WriteString("Student did not answer.\n")
	}
	fmt.Fprintf(&b, "Correct answer: %c) %s\n", 'A'+req.CorrectIndex, req.Options[req.CorrectIndex])
	if req.Reference != "" {
		fmt.Fprintf(&b, "Reference explanation: %s\n", req.Reference)
	}

	b.WriteString(`
Explain why the correct answer is right and, if the student answered, what misunderstanding likely led to their choice. Do not restate the question.`)
	return b.String()
}
