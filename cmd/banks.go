package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/protoquiz/internal/bank"
)

var banksCmd = &cobra.Command{
	Use:   "banks",
	Short: "List and validate question banks",
}

var banksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the built-in banks and those in --bank-dir",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := loadBanks()
		if err != nil {
			return err
		}

		fmt.Printf("%-16s  %-24s  %-12s  %9s\n", "ID", "Title", "Topic", "Questions")
		fmt.Println(strings.Repeat("─", 68))
		for _, b := range reg.All() {
			fmt.Printf("%-16s  %-24s  %-12s  %9d\n",
				b.ID, truncate(b.Title, 24), truncate(b.Topic, 12), b.Len())
		}
		fmt.Printf("\n%d banks\n", reg.Len())
		return nil
	},
}

var banksValidateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Check bank documents against the schema and the engine rules",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		failed := 0
		for _, p := range args {
			b, err := bank.NewRegistry().LoadFile(p)
			if err != nil {
				failed++
				fmt.Printf("✗ %s\n    %v\n", p, err)
				continue
			}
			fmt.Printf("✓ %s  (%s, %d questions)\n", p, b.ID, b.Len())
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d files invalid", failed, len(args))
		}
		return nil
	},
}

func init() {
	banksCmd.AddCommand(banksListCmd)
	banksCmd.AddCommand(banksValidateCmd)
}
