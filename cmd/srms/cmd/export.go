package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/schoolbench/srms/pkg/session"
)

// exportCmd runs the CSV+report export without entering the console.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the records to CSV and a plain-text report",
	Long: `Export the current student records to the configured CSV and report
files. The caller must authenticate and the role must carry the reports
capability, the same gate the interactive console applies.

Example:
  srms export --user admin --password admin`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := authenticate(cmd)
		if err != nil {
			return err
		}
		if err := sess.Require(session.CapReports); err != nil {
			return err
		}
		snapshot, err := app.students.ReadAll()
		if err != nil {
			return err
		}
		if len(snapshot) == 0 {
			return fmt.Errorf("no records to export")
		}
		if err := app.exporter.Export(snapshot); err != nil {
			return err
		}
		fmt.Printf("Exported %d records to %s and %s\n", len(snapshot), app.cfg.CSVPath(), app.cfg.ReportPath())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	authFlags(exportCmd)
}
