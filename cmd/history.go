package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/protoquiz/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent quiz attempts from every host",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		bankID, _ := cmd.Flags().GetString("bank")
		host, _ := cmd.Flags().GetString("host")
		attemptID, _ := cmd.Flags().GetString("answers")

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()
		repo := st.EventRepo()
		ctx := cmd.Context()

		if attemptID != "" {
			answers, err := repo.AttemptAnswers(ctx, attemptID)
			if err != nil {
				return fmt.Errorf("query answers: %w", err)
			}
			if len(answers) == 0 {
				return fmt.Errorf("attempt %s not found", attemptID)
			}
			for _, a := range answers {
				mark := "✓"
				if !a.Correct {
					mark = "✗"
				}
				chosen := a.ChosenText
				if a.ChosenIndex < 0 {
					chosen = "(not answered)"
				}
				fmt.Printf("%s Q%-2d %s\n      %s\n", mark, a.QuestionIndex+1, a.QuestionText, chosen)
			}
			return nil
		}

		attempts, err := repo.RecentAttempts(ctx, store.QueryOpts{Limit: limit, BankID: bankID, Host: host})
		if err != nil {
			return fmt.Errorf("query attempts: %w", err)
		}
		if len(attempts) == 0 {
			fmt.Println("No attempts recorded yet.")
			return nil
		}

		fmt.Printf("%-36s  %-16s  %-16s  %-8s  %6s  %4s  %-12s  %s\n",
			"Attempt", "Time", "Bank", "Host", "Score", "%", "Tier", "Took")
		fmt.Println(strings.Repeat("─", 120))
		for _, a := range attempts {
			fmt.Printf("%-36s  %-16s  %-16s  %-8s  %6s  %4d  %-12s  %s\n",
				a.AttemptID,
				a.Timestamp.Local().Format("2006-01-02 15:04"),
				truncate(a.BankID, 16),
				a.Host,
				fmt.Sprintf("%d/%d", a.Score, a.Total),
				a.Percentage,
				a.Tier,
				(time.Duration(a.DurationMs) * time.Millisecond).Round(time.Second),
			)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of attempts to show")
	historyCmd.Flags().String("bank", "", "Only attempts on this bank")
	historyCmd.Flags().String("host", "", "Only attempts from this host (tui, web, telegram)")
	historyCmd.Flags().String("answers", "", "Show the answers of one attempt id")
}
