package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/protoquiz/internal/app"
	"github.com/abhisek/protoquiz/internal/logging"
	"github.com/abhisek/protoquiz/internal/screens/play"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Open the terminal quiz, optionally straight into one bank",
	RunE: func(cmd *cobra.Command, args []string) error {
		bankID, _ := cmd.Flags().GetString("bank")
		return runTUI(cmd, bankID)
	},
}

func init() {
	playCmd.Flags().StringP("bank", "b", "", "Bank id to start (see `protoquiz banks list`)")
}

// runTUI opens the store, builds the tutor and launches the Bubble Tea app.
// Logs go to PROTOQUIZ_LOG_FILE because the TUI owns the terminal.
func runTUI(cmd *cobra.Command, bankID string) error {
	log, closer, err := logging.NewFile(cfg.LogFile, cfg.Env, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closer.Close()

	reg, err := loadBanks()
	if err != nil {
		return err
	}
	if bankID != "" {
		if _, err := reg.Get(bankID); err != nil {
			return fmt.Errorf("%w (available: %v)", err, reg.IDs())
		}
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	repo := st.EventRepo()

	deps := play.Deps{
		Repo:  repo,
		Tutor: buildTutor(cmd.Context(), repo, log),
		Log:   log,
	}
	return app.Run(reg, deps, bankID)
}
