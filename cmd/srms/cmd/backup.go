package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/schoolbench/srms/pkg/session"
)

// backupCmd copies the student file to the backup path.
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Copy the student file to the backup path",
	Long: `Write a byte-identical copy of the student record file to the
configured backup path.

Example:
  srms backup --user staff --password staff`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := authenticate(cmd)
		if err != nil {
			return err
		}
		if err := sess.Require(session.CapReports); err != nil {
			return err
		}
		if err := app.exporter.Backup(); err != nil {
			return err
		}
		fmt.Printf("Backup saved to %s\n", app.cfg.BackupPath())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backupCmd)
	authFlags(backupCmd)
}
