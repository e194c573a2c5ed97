package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show per-bank attempt statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		stats, err := st.EventRepo().BankStats(cmd.Context())
		if err != nil {
			return fmt.Errorf("query stats: %w", err)
		}
		if len(stats) == 0 {
			fmt.Println("No attempts recorded yet.")
			return nil
		}

		fmt.Printf("%-16s  %8s  %8s  %6s  %10s\n", "Bank", "Attempts", "Avg %", "Best %", "Accuracy")
		fmt.Println(strings.Repeat("─", 56))
		var attempts, score, questions int
		for _, s := range stats {
			acc := 0.0
			if s.TotalQuestions > 0 {
				acc = float64(s.TotalScore) / float64(s.TotalQuestions) * 100
			}
			fmt.Printf("%-16s  %8d  %8.1f  %6d  %9.1f%%\n",
				truncate(s.BankID, 16), s.Attempts, s.AvgPercentage, s.BestPercentage, acc)
			attempts += s.Attempts
			score += s.TotalScore
			questions += s.TotalQuestions
		}
		fmt.Println(strings.Repeat("─", 56))
		if questions > 0 {
			fmt.Printf("%-16s  %8d  %8s  %6s  %9.1f%%\n", "TOTAL", attempts, "", "",
				float64(score)/float64(questions)*100)
		}
		return nil
	},
}
