package telegram

import (
	"errors"
	"fmt"
	"html"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/abhisek/protoquiz/internal/quiz"
)

// Telegram rejects message text longer than 4096 characters.
const maxMessageLen = 4000

// Rendered is a message body plus its inline keyboard, sent with HTML
// parse mode.
type Rendered struct {
	Text     string
	Keyboard tgbotapi.InlineKeyboardMarkup
}

func bankMenu(banks []quiz.Bank) Rendered {
	var b strings.Builder
	b.WriteString("<b>Choose a quiz</b>\n")
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(banks))
	for _, bk := range banks {
		fmt.Fprintf(&b, "\n• %s (%d questions)", html.EscapeString(bk.Title), bk.Len())
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(bk.Title, bankData(bk.ID)),
		))
	}
	return Rendered{Text: b.String(), Keyboard: tgbotapi.NewInlineKeyboardMarkup(rows...)}
}

// renderView draws either the current question or the results.
func renderView(v quiz.View) Rendered {
	if v.Result != nil {
		return renderResult(*v.Result)
	}
	return renderQuestion(v.BankTitle, *v.Question)
}

func renderQuestion(title string, q quiz.QuestionView) Rendered {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b>\n%s %s\n\n", html.EscapeString(title), q.ProgressLabel(), progressBar(q.Progress, 10))
	fmt.Fprintf(&b, "%s\n", html.EscapeString(q.Text))

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, o := range q.Options {
		label := fmt.Sprintf("%c. %s", 'A'+o.Index, o.Text)
		switch o.Mark {
		case quiz.MarkCorrect:
			label = "✅ " + label
		case quiz.MarkIncorrect:
			label = "❌ " + label
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, selectData(o.Index)),
		))
	}

	if q.Answered {
		fmt.Fprintf(&b, "\n<b>%s</b>", q.Feedback())
		if q.CorrectText != "" {
			fmt.Fprintf(&b, " Correct answer: %s", html.EscapeString(q.CorrectText))
		}
		fmt.Fprintf(&b, "\n<i>%s</i>", html.EscapeString(q.Explanation))
	}

	var nav []tgbotapi.InlineKeyboardButton
	if q.Previous.Enabled() {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("« Previous", "prev"))
	}
	if q.Next.Enabled() {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("Next »", "next"))
	}
	if q.Submit.Enabled() {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("Submit Quiz", "submit"))
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}
	return Rendered{Text: b.String(), Keyboard: tgbotapi.NewInlineKeyboardMarkup(rows...)}
}

func renderResult(res quiz.Result) Rendered {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>Quiz Complete!</b>\n%s\n\n", html.EscapeString(res.BankTitle))
	fmt.Fprintf(&b, "Score: <b>%d/%d</b> (%d%%)\n%s\n\n<b>Review</b>\n",
		res.Score, res.Total, res.Percentage, html.EscapeString(res.Message))

	for _, it := range res.Review {
		mark := "✅"
		if !it.Correct {
			mark = "❌"
		}
		line := fmt.Sprintf("\n%s %d. %s\n   Your answer: %s\n", mark, it.Number,
			html.EscapeString(it.Question), html.EscapeString(it.ChosenText))
		if it.CorrectText != "" {
			line += fmt.Sprintf("   Correct answer: %s\n", html.EscapeString(it.CorrectText))
		}
		if it.Explanation != "" {
			line += fmt.Sprintf("   <i>%s</i>\n", html.EscapeString(it.Explanation))
		}
		if b.Len()+len(line) > maxMessageLen {
			b.WriteString("\n…")
			break
		}
		b.WriteString(line)
	}

	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Retake Quiz", "retake"),
			tgbotapi.NewInlineKeyboardButtonData("Other quizzes", "menu"),
		),
	)
	return Rendered{Text: b.String(), Keyboard: kb}
}

func progressBar(p float64, width int) string {
	filled := int(p*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	return strings.Repeat("▰", filled) + strings.Repeat("▱", width-filled)
}

// rejection is the toast shown when the engine refuses an action.
func rejection(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, quiz.ErrInvalidOptionIndex):
		return "That option does not exist."
	case errors.Is(err, quiz.ErrIllegalTransition):
		return "Not available right now."
	default:
		return "Something went wrong."
	}
}
