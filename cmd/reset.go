package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var resetForce bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete your profile, plans and focus history",
	Long: `Permanently deletes your profile, every saved plan and all focus sessions.
This cannot be undone. Use --force to skip the confirmation prompt.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetForce {
			confirmed, err := confirmReset(cmd)
			if err != nil {
				return err
			}
			if !confirmed {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
		}

		ctx := cmd.Context()
		if err := app.storage.Sessions().DeleteAll(ctx); err != nil {
			return err
		}
		if err := app.storage.Plans().DeleteAll(ctx); err != nil {
			return err
		}
		if err := app.storage.Profiles().Delete(ctx); err != nil {
			return err
		}

		app.logger.Info("all data deleted")
		fmt.Fprintln(cmd.OutOrStdout(), "Everything deleted. Fresh start.")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVarP(&resetForce, "force", "f", false, "Skip confirmation prompt")
}

func confirmReset(cmd *cobra.Command) (bool, error) {
	if isInteractive() {
		confirmed := false
		if err := confirmForm("Delete your profile, plans and history?", &confirmed).Run(); err != nil {
			return false, formError(err)
		}
		return confirmed, nil
	}

	fmt.Fprint(cmd.OutOrStdout(), "Are you sure? Type 'yes' to confirm: ")
	input, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	return strings.TrimSpace(strings.ToLower(input)) == "yes", nil
}
