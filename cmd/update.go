package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/protoquiz/internal/selfupdate"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update protoquiz to the latest release",
	RunE: func(cmd *cobra.Command, args []string) error {
		target, _ := cmd.Flags().GetString("version")
		checker := selfupdate.NewChecker(selfupdate.WithTimeout(2 * time.Minute))

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		err := checker.Update(ctx, &selfupdate.UpdateInput{
			CurrentVersion: version,
			TargetVersion:  target,
		}, func(p selfupdate.UpdateProgress) {
			fmt.Printf("[%s] %s\n", p.Stage, p.Message)
		})
		switch {
		case errors.Is(err, selfupdate.ErrDevBuild):
			fmt.Println("This is a development build; install a tagged release to enable updates.")
		case errors.Is(err, selfupdate.ErrAlreadyLatest):
			fmt.Printf("protoquiz %s is the latest release.\n", version)
		case os.IsPermission(err):
			return fmt.Errorf("%w (the binary is not writable; retry with sudo)", err)
		case err != nil:
			return err
		}
		return nil
	},
}

func init() {
	updateCmd.Flags().String("version", "", "Install this release tag instead of the latest")
}
