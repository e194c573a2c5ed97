package telegram

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abhisek/protoquiz/internal/quiz"
)

// Callback is the decoded data of an inline button.
type Callback struct {
	// Menu asks for the bank picker.
	Menu bool
	// BankID is set for bank-picker buttons.
	BankID string
	// Action is set for quiz buttons.
	Action quiz.Action
}

// ParseCallback decodes button data: "menu", "bank:<id>", "sel:<i>",
// "prev", "next", "submit" or "retake".
func ParseCallback(data string) (Callback, error) {
	switch {
	case strings.HasPrefix(data, "bank:"):
		id := strings.TrimPrefix(data, "bank:")
		if id == "" {
			return Callback{}, fmt.Errorf("empty bank id in %q", data)
		}
		return Callback{BankID: id}, nil
	case strings.HasPrefix(data, "sel:"):
		i, err := strconv.Atoi(strings.TrimPrefix(data, "sel:"))
		if err != nil {
			return Callback{}, fmt.Errorf("bad option in %q", data)
		}
		return Callback{Action: quiz.Action{Kind: quiz.ActionSelect, Option: i}}, nil
	case data == "menu":
		return Callback{Menu: true}, nil
	case data == "prev":
		return Callback{Action: quiz.Action{Kind: quiz.ActionPrevious}}, nil
	case data == "next":
		return Callback{Action: quiz.Action{Kind: quiz.ActionNext}}, nil
	case data == "submit":
		return Callback{Action: quiz.Action{Kind: quiz.ActionSubmit}}, nil
	case data == "retake":
		return Callback{Action: quiz.Action{Kind: quiz.ActionRetake}}, nil
	}
	return Callback{}, fmt.Errorf("unknown callback %q", data)
}

func selectData(i int) string   { return "sel:" + strconv.Itoa(i) }
func bankData(id string) string { return "bank:" + id }
