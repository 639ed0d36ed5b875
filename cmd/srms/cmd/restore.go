package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/schoolbench/srms/pkg/session"
)

var restoreYes bool

// restoreCmd copies the backup over the student file.
var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore the student file from the backup",
	Long: `Overwrite the student record file with the backup copy. Restoring
replaces the file entirely, so it requires --yes.

Example:
  srms restore --user admin --password admin --yes`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := authenticate(cmd)
		if err != nil {
			return err
		}
		if err := sess.Require(session.CapReports); err != nil {
			return err
		}
		if !restoreYes {
			return fmt.Errorf("restore overwrites all current records; re-run with --yes to confirm")
		}
		if err := app.exporter.Restore(); err != nil {
			return err
		}
		fmt.Printf("Restore complete: %s\n", app.cfg.StudentPath())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(restoreCmd)
	authFlags(restoreCmd)
	restoreCmd.Flags().BoolVarP(&restoreYes, "yes", "y", false, "confirm overwriting the student file")
}
