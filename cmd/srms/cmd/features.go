package cmd

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/schoolbench/srms/pkg/codec"
	"github.com/schoolbench/srms/pkg/console"
	"github.com/schoolbench/srms/pkg/export"
	"github.com/schoolbench/srms/pkg/query"
	"github.com/schoolbench/srms/pkg/session"
	"github.com/schoolbench/srms/pkg/store"
)

// renderTable prints records in aligned columns.
func renderTable(c *console.Console, students []codec.Student) {
	if len(students) == 0 {
		c.Printf("No student records.\n")
		return
	}
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Roll\tName")
	for _, subject := range codec.SubjectNames {
		fmt.Fprintf(w, "\t%s", subject)
	}
	fmt.Fprintln(w, "\tTotal\tPercent\tGrade")
	for _, s := range students {
		fmt.Fprintf(w, "%d\t%s", s.Roll, s.Name)
		for _, m := range s.Marks {
			fmt.Fprintf(w, "\t%.2f", m)
		}
		fmt.Fprintf(w, "\t%.2f\t%.2f\t%s\n", s.Total, s.Percentage, s.Grade)
	}
	w.Flush()
	c.Printf("\n%s", b.String())
}

func featureAddStudent(app *appContext, c *console.Console, sess *session.Session) {
	if err := sess.Require(session.CapAddStudent); denied(c, err) {
		return
	}

	roll, err := c.ReadInt("Enter Roll Number: ")
	if err != nil {
		c.Printf("Invalid roll.\n")
		return
	}
	exists, err := app.students.Exists(roll)
	if err != nil {
		reportErr(c, err)
		return
	}
	if exists {
		c.Printf("Roll number already exists!\n")
		return
	}

	name, err := c.ReadLine("Enter Name: ")
	if err != nil || !codec.ValidName(name) {
		c.Printf("Invalid name.\n")
		return
	}

	s := codec.Student{Roll: roll, Name: name}
	for i, subject := range codec.SubjectNames {
		mark, err := c.ReadFloat(fmt.Sprintf("Enter marks for %s (0-100): ", subject))
		if err != nil {
			c.Printf("Invalid marks input.\n")
			return
		}
		if !codec.ValidMark(mark) {
			c.Printf("Marks must be 0-100.\n")
			return
		}
		s.Marks[i] = mark
	}
	codec.Calculate(&s)

	if err := app.students.Append(s); err != nil {
		c.Printf("Error: could not append to file.\n")
		return
	}
	c.Printf("Student added successfully!\n")
}

func featureDisplayAll(app *appContext, c *console.Console, sess *session.Session) {
	if err := sess.Require(session.CapDisplay); denied(c, err) {
		return
	}
	students, err := app.students.ReadAll()
	if err != nil {
		reportErr(c, err)
		return
	}
	renderTable(c, students)
}

func featureSearch(app *appContext, c *console.Console, sess *session.Session) {
	if err := sess.Require(session.CapSearch); denied(c, err) {
		return
	}

	c.Printf("\nSearch by:\n1) Name (partial)\n2) Roll No\n3) Percentage Range\n4) Grade\n")
	choice, err := c.ReadInt("Enter choice: ")
	if err != nil {
		c.Printf("Invalid.\n")
		return
	}

	snapshot, err := app.students.ReadAll()
	if err != nil {
		reportErr(c, err)
		return
	}
	if len(snapshot) == 0 {
		c.Printf("No records.\n")
		return
	}
	engine := query.NewEngine(snapshot)

	var hits []codec.Student
	switch choice {
	case 1:
		q, err := c.ReadLine("Enter name or partial: ")
		if err != nil {
			c.Printf("Invalid.\n")
			return
		}
		hits = engine.SearchByName(q)
	case 2:
		roll, err := c.ReadInt("Enter roll: ")
		if err != nil {
			c.Printf("Invalid.\n")
			return
		}
		if s, ok := engine.SearchByRoll(roll); ok {
			hits = []codec.Student{s}
		}
	case 3:
		lo, err := c.ReadFloat("Enter lower bound of percentage: ")
		if err != nil {
			c.Printf("Invalid.\n")
			return
		}
		hi, err := c.ReadFloat("Enter upper bound of percentage: ")
		if err != nil {
			c.Printf("Invalid.\n")
			return
		}
		hits = engine.SearchByPercentage(lo, hi)
	case 4:
		grade, err := c.ReadLine("Enter grade to search (A+, A, B, C, D, F): ")
		if err != nil {
			c.Printf("Invalid.\n")
			return
		}
		hits = engine.SearchByGrade(grade)
	default:
		c.Printf("Invalid option.\n")
		return
	}

	if len(hits) == 0 {
		c.Printf("No matching records found.\n")
		return
	}
	renderTable(c, hits)
}

func featureUpdateStudent(app *appContext, c *console.Console, sess *session.Session) {
	if err := sess.Require(session.CapUpdateStudent); denied(c, err) {
		return
	}

	roll, err := c.ReadInt("Enter roll to update: ")
	if err != nil {
		c.Printf("Invalid.\n")
		return
	}
	snapshot, err := app.students.ReadAll()
	if err != nil {
		reportErr(c, err)
		return
	}

	idx := -1
	for i := range snapshot {
		if snapshot[i].Roll == roll {
			idx = i
			break
		}
	}
	if idx == -1 {
		c.Printf("Roll not found.\n")
		return
	}

	s := &snapshot[idx]
	c.Printf("Current name: %s\n", s.Name)
	name, err := c.ReadLine("New name (blank to keep): ")
	if err == nil && name != "" {
		if !codec.ValidName(name) {
			c.Printf("Invalid name.\n")
			return
		}
		s.Name = name
	}
	for i, subject := range codec.SubjectNames {
		c.Printf("Current %s: %.2f\n", subject, s.Marks[i])
		mark, err := c.ReadFloat(fmt.Sprintf("New %s (-1 to keep): ", subject))
		if err != nil {
			c.Printf("Invalid input. Skipping.\n")
			continue
		}
		if codec.ValidMark(mark) {
			s.Marks[i] = mark
		}
	}
	codec.Calculate(s)

	if err := app.students.Overwrite(snapshot); err != nil {
		c.Printf("Error saving updates.\n")
		return
	}
	c.Printf("Record updated.\n")
}

func featureDeleteStudent(app *appContext, c *console.Console, sess *session.Session) {
	if err := sess.Require(session.CapDeleteStudent); denied(c, err) {
		return
	}

	roll, err := c.ReadInt("Enter roll to delete: ")
	if err != nil {
		c.Printf("Invalid.\n")
		return
	}
	snapshot, err := app.students.ReadAll()
	if err != nil {
		reportErr(c, err)
		return
	}

	kept := snapshot[:0]
	found := false
	for _, s := range snapshot {
		if s.Roll == roll {
			found = true
			continue
		}
		kept = append(kept, s)
	}
	if !found {
		c.Printf("Roll not found.\n")
		return
	}
	if err := app.students.Overwrite(kept); err != nil {
		c.Printf("Error deleting.\n")
		return
	}
	c.Printf("Deleted successfully.\n")
}

func featureDeleteAll(app *appContext, c *console.Console, sess *session.Session) {
	if err := sess.Require(session.CapDeleteAll); denied(c, err) {
		return
	}
	if !c.YesNo("Are you sure you want to DELETE ALL STUDENT RECORDS?") {
		c.Printf("Operation cancelled.\n")
		return
	}
	if err := app.students.DeleteAll(); err != nil {
		c.Printf("Error clearing file.\n")
		return
	}
	c.Printf("All records deleted.\n")
}

func featureSorting(app *appContext, c *console.Console, sess *session.Session) {
	if err := sess.Require(session.CapSort); denied(c, err) {
		return
	}

	snapshot, err := app.students.ReadAll()
	if err != nil {
		reportErr(c, err)
		return
	}
	if len(snapshot) == 0 {
		c.Printf("No records to sort.\n")
		return
	}

	c.Printf("Sort by:\n1) Roll Asc\n2) Roll Desc\n3) Name\n4) Total Marks Desc\n")
	choice, err := c.ReadInt("Enter choice: ")
	if err != nil {
		c.Printf("Invalid.\n")
		return
	}
	orders := map[int]query.SortOrder{
		1: query.SortRollAsc,
		2: query.SortRollDesc,
		3: query.SortNameAsc,
		4: query.SortTotalDesc,
	}
	order, ok := orders[choice]
	if !ok {
		c.Printf("Invalid choice.\n")
		return
	}

	sorted, err := query.NewEngine(snapshot).Sort(order)
	if err != nil {
		reportErr(c, err)
		return
	}
	renderTable(c, sorted)

	// Persisting the new order is a separate, explicit step.
	if c.YesNo("Save sorted order to file?") {
		if err := app.students.Overwrite(sorted); err != nil {
			c.Printf("Error saving.\n")
			return
		}
		c.Printf("Saved.\n")
	}
}

func featureStatistics(app *appContext, c *console.Console, sess *session.Session) {
	if err := sess.Require(session.CapStatistics); denied(c, err) {
		return
	}

	snapshot, err := app.students.ReadAll()
	if err != nil {
		reportErr(c, err)
		return
	}
	stats, ok := query.NewEngine(snapshot).Statistics()
	if !ok {
		c.Printf("No records.\n")
		return
	}
	c.Printf("\nTotal Students: %d\n", stats.Count)
	c.Printf("Average Percentage: %.2f\n", stats.AveragePercentage)
	c.Printf("Highest: %.2f (%s, Roll %d)\n", stats.Max.Percentage, stats.Max.Name, stats.Max.Roll)
	c.Printf("Lowest: %.2f (%s, Roll %d)\n", stats.Min.Percentage, stats.Min.Name, stats.Min.Roll)
	c.Printf("Pass Count: %d\n", stats.PassCount)
	c.Printf("Fail Count: %d\n", stats.FailCount)
}

func featureViewOwn(app *appContext, c *console.Console, sess *session.Session) {
	if err := sess.Require(session.CapViewOwn); denied(c, err) {
		return
	}

	snapshot, err := app.students.ReadAll()
	if err != nil {
		reportErr(c, err)
		return
	}
	for _, s := range snapshot {
		if sess.OwnRecord(s) {
			renderTable(c, []codec.Student{s})
			return
		}
	}
	c.Printf("No record found for you.\n")
}

func featureManageCredentials(app *appContext, c *console.Console, sess *session.Session) {
	if err := sess.Require(session.CapManageCredentials); denied(c, err) {
		return
	}

	c.Printf("\nCredentials Manager:\n1) Add User\n2) Reset Password\n3) Remove User\n")
	choice, err := c.ReadInt("Enter choice: ")
	if err != nil {
		c.Printf("Invalid.\n")
		return
	}
	switch choice {
	case 1:
		user, err := c.ReadLine("Username: ")
		if err != nil {
			c.Printf("Invalid.\n")
			return
		}
		pass, err := c.ReadSecret("Password: ")
		if err != nil {
			c.Printf("Invalid.\n")
			return
		}
		roleToken, err := c.ReadLine("Role (ADMIN/STAFF/PRINCIPAL/STUDENT/GUEST): ")
		if err != nil {
			c.Printf("Invalid.\n")
			return
		}
		role, err := session.ParseRole(roleToken)
		if err != nil {
			c.Printf("Unknown role.\n")
			return
		}
		if err := app.creds.Add(user, pass, role.String()); err != nil {
			if errors.Is(err, store.ErrUserExists) {
				c.Printf("User already exists.\n")
			} else {
				reportErr(c, err)
			}
			return
		}
		c.Printf("User added.\n")
	case 2:
		user, err := c.ReadLine("Username to reset: ")
		if err != nil {
			c.Printf("Invalid.\n")
			return
		}
		pass, err := c.ReadSecret("New password: ")
		if err != nil {
			c.Printf("Invalid.\n")
			return
		}
		if err := app.creds.ResetPassword(user, pass); err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				c.Printf("User not found.\n")
			} else {
				reportErr(c, err)
			}
			return
		}
		c.Printf("Password reset.\n")
	case 3:
		user, err := c.ReadLine("Username to remove: ")
		if err != nil {
			c.Printf("Invalid.\n")
			return
		}
		if err := app.creds.Remove(user); err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				c.Printf("User not found.\n")
			} else {
				reportErr(c, err)
			}
			return
		}
		c.Printf("User removed.\n")
	default:
		c.Printf("Invalid.\n")
	}
}

func featureExport(app *appContext, c *console.Console, sess *session.Session) {
	if err := sess.Require(session.CapReports); denied(c, err) {
		return
	}
	snapshot, err := app.students.ReadAll()
	if err != nil {
		reportErr(c, err)
		return
	}
	if len(snapshot) == 0 {
		c.Printf("No records to export.\n")
		return
	}
	if err := app.exporter.Export(snapshot); err != nil {
		c.Printf("Error creating export files.\n")
		return
	}
	c.Printf("Exported to %s and %s\n", app.cfg.CSVPath(), app.cfg.ReportPath())
}

func featureBackup(app *appContext, c *console.Console, sess *session.Session) {
	if err := sess.Require(session.CapReports); denied(c, err) {
		return
	}
	if err := app.exporter.Backup(); err != nil {
		if errors.Is(err, export.ErrNoSource) {
			c.Printf("No data to backup.\n")
		} else {
			c.Printf("Error creating backup.\n")
		}
		return
	}
	c.Printf("Backup saved to %s\n", app.cfg.BackupPath())
}

func featureRestore(app *appContext, c *console.Console, sess *session.Session) {
	if err := sess.Require(session.CapReports); denied(c, err) {
		return
	}
	if !c.YesNo("Restore from backup? This will overwrite current records.") {
		c.Printf("Restore cancelled.\n")
		return
	}
	if err := app.exporter.Restore(); err != nil {
		if errors.Is(err, export.ErrNoBackup) {
			c.Printf("Backup file not found.\n")
		} else {
			c.Printf("Error restoring.\n")
		}
		return
	}
	c.Printf("Restore complete.\n")
}

func featureMaskToggle(app *appContext, c *console.Console, sess *session.Session) {
	if err := sess.Require(session.CapMaskToggle); denied(c, err) {
		return
	}
	if !c.YesNo("Toggle XOR masking for the student file? (applies XOR to the current file)") {
		c.Printf("Cancelled.\n")
		return
	}
	key, err := c.ReadLine("Enter single character key: ")
	if err != nil || len(key) != 1 {
		c.Printf("Key must be a single character.\n")
		return
	}
	if err := app.exporter.MaskToggle(key[0]); err != nil {
		reportErr(c, err)
		return
	}
	c.Printf("XOR applied with key %q. (Run again with the same key to unmask)\n", key)
}
