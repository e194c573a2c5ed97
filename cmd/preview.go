package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/protoquiz/internal/quiz"
	"github.com/abhisek/protoquiz/internal/tutor"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Run a bank as a plain-text quiz on stdin (no database)",
	Long: `Walk through a bank line by line without the full-screen UI.

Nothing is recorded. Useful for proof-reading a bank file or for checking
tutor explanations with --explain.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().StringP("bank", "b", "", "Bank id (required)")
	previewCmd.Flags().Bool("explain", false, "Ask the LLM tutor about every wrong answer")
	_ = previewCmd.MarkFlagRequired("bank")
}

func runPreview(cmd *cobra.Command, args []string) error {
	bankID, _ := cmd.Flags().GetString("bank")
	explain, _ := cmd.Flags().GetBool("explain")

	reg, err := loadBanks()
	if err != nil {
		return err
	}
	b, err := reg.Get(bankID)
	if err != nil {
		return err
	}
	engine, err := quiz.New(b)
	if err != nil {
		return err
	}

	var tut *tutor.Tutor
	if explain {
		tut = buildTutor(cmd.Context(), nil, consoleLogger())
		if !tut.Enabled() {
			fmt.Println("No LLM provider configured; --explain is ignored.")
		}
	}

	in := bufio.NewScanner(os.Stdin)
	fmt.Printf("%s (%d questions)\n\n", b.Title, b.Len())

	for engine.Phase() == quiz.PhaseInProgress {
		q := engine.View().Question
		fmt.Printf("── %s ──\n%s\n", q.ProgressLabel(), q.Text)
		for _, o := range q.Options {
			fmt.Printf("  %c) %s\n", 'A'+o.Index, o.Text)
		}

		for !engine.View().Question.Answered {
			fmt.Print("\nYour answer: ")
			if !in.Scan() {
				fmt.Println("\n(input closed)")
				return nil
			}
			idx, ok := parseChoice(in.Text())
			if !ok {
				fmt.Println("Type a letter (A, B, ...) or a number.")
				continue
			}
			if err := engine.Select(idx); err != nil {
				fmt.Println(err)
			}
		}

		q = engine.View().Question
		if q.Correct {
			fmt.Println("\033[32m✓ Correct!\033[0m")
		} else {
			fmt.Printf("\033[31m✗ Incorrect.\033[0m Answer: %s\n", q.CorrectText)
			if tut.Enabled() {
				previewExplain(cmd, tut, b, q)
			}
		}
		if q.Explanation != "" {
			fmt.Printf("Explanation: %s\n", q.Explanation)
		}
		fmt.Println()

		if q.Submit.Enabled() {
			if _, err := engine.Submit(); err != nil {
				return err
			}
		} else if err := engine.Next(); err != nil {
			return err
		}
	}

	res, _ := engine.Result()
	fmt.Printf("── Score: %d/%d (%d%%) ──\n%s\n", res.Score, res.Total, res.Percentage, res.Message)
	return nil
}

func previewExplain(cmd *cobra.Command, tut *tutor.Tutor, b quiz.Bank, q *quiz.QuestionView) {
	src := b.Questions[q.Number-1]
	exp, err := tut.Explain(cmd.Context(), tutor.Request{
		Topic:        b.Topic,
		Question:     src.Text,
		Options:      src.Options,
		ChosenIndex:  q.Selected,
		CorrectIndex: src.CorrectIndex,
		Reference:    src.Explanation,
	})
	if err != nil {
		fmt.Printf("Tutor unavailable: %v\n", err)
		return
	}
	fmt.Printf("Tutor: %s\n", exp.Summary)
	for _, p := range exp.KeyPoints {
		fmt.Printf("  • %s\n", p)
	}
	if exp.Misconception != "" {
		fmt.Printf("  (%s)\n", exp.Misconception)
	}
}

// parseChoice accepts "b", "B" or "2" for the second option.
func parseChoice(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n - 1, true
	}
	if len(s) == 1 {
		c := strings.ToUpper(s)[0]
		if c >= 'A' && c <= 'Z' {
			return int(c - 'A'), true
		}
	}
	return 0, false
}
