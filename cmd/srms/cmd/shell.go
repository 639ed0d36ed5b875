package cmd

import (
	"errors"
	"io"

	"github.com/schoolbench/srms/pkg/console"
	"github.com/schoolbench/srms/pkg/session"
)

// consolePrompter adapts the console to the login state machine.
type consolePrompter struct {
	c *console.Console
}

func (p *consolePrompter) Credentials() (string, string, error) {
	username, err := p.c.ReadLine("Username: ")
	if err != nil {
		return "", "", err
	}
	password, err := p.c.ReadSecret("Password: ")
	if err != nil {
		return "", "", err
	}
	return username, password, nil
}

func (p *consolePrompter) Failed(remaining int) {
	p.c.Printf("Invalid credentials. Attempts left: %d\n", remaining)
}

func banner(c *console.Console, sess *session.Session) {
	c.Printf("============================================\n")
	c.Printf("     STUDENT RECORD MANAGEMENT SYSTEM       \n")
	c.Printf("============================================\n")
	if sess != nil {
		c.Printf("Logged in as: %s [%s]\n", sess.Username, sess.Role)
	}
	c.Printf("--------------------------------------------\n")
}

// runShell drives the interactive console: login, the role's menu loop,
// and on logout back to the login prompt. Exhausted login attempts end
// the run gracefully.
func runShell(app *appContext, c *console.Console) error {
	for {
		banner(c, nil)
		sess, err := app.manager.Login(&consolePrompter{c})
		if err != nil {
			if errors.Is(err, session.ErrAttemptsExhausted) {
				c.Printf("Maximum attempts reached.\n")
				c.Printf("Goodbye.\n")
				return nil
			}
			if errors.Is(err, session.ErrLoginAborted) {
				c.Printf("Goodbye.\n")
				return nil
			}
			return err
		}
		c.Printf("Login successful. Welcome %s [%s]\n", sess.Username, sess.Role)
		app.logger.Info("login", "user", sess.Username, "role", sess.Role.String(), "session", sess.ID)

		menuLoop(app, c, sess)

		app.logger.Info("logout", "user", sess.Username, "session", sess.ID)
		c.Printf("Logging out...\n")
	}
}

// menuLoop runs the menu for the session's role until logout.
func menuLoop(app *appContext, c *console.Console, sess *session.Session) {
	menu := menuFor(sess.Role)
	for {
		banner(c, sess)
		c.Printf("%s MENU\n", sess.Role)
		for i, entry := range menu {
			c.Printf("%d) %s\n", i+1, entry.label)
		}
		choice, err := c.ReadInt("Choose: ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				// Input stream is gone; treat as logout.
				return
			}
			c.Printf("Invalid choice.\n")
			continue
		}
		if choice < 1 || choice > len(menu) {
			c.Printf("Invalid choice.\n")
			continue
		}
		entry := menu[choice-1]
		if entry.run == nil {
			return // logout
		}
		entry.run(app, c, sess)
	}
}

// menuEntry is one numbered menu line. A nil run means logout.
type menuEntry struct {
	label string
	run   func(app *appContext, c *console.Console, sess *session.Session)
}

// menuFor returns the role's menu, matching the operations the
// capability table grants that role.
func menuFor(role session.Role) []menuEntry {
	switch role {
	case session.RoleAdmin:
		return []menuEntry{
			{"Add Student", featureAddStudent},
			{"Display All", featureDisplayAll},
			{"Search", featureSearch},
			{"Update", featureUpdateStudent},
			{"Delete", featureDeleteStudent},
			{"Delete All (Reset)", featureDeleteAll},
			{"Sorting", featureSorting},
			{"Statistics", featureStatistics},
			{"Manage Credentials", featureManageCredentials},
			{"Reports/Backup", reportsMenu},
			{"Logout", nil},
		}
	case session.RoleStaff:
		return []menuEntry{
			{"Display All", featureDisplayAll},
			{"Search", featureSearch},
			{"Add Student", featureAddStudent},
			{"Update Student", featureUpdateStudent},
			{"Delete Student", featureDeleteStudent},
			{"Sorting", featureSorting},
			{"Statistics", featureStatistics},
			{"Reports/Backup", reportsMenu},
			{"Logout", nil},
		}
	case session.RolePrincipal:
		return []menuEntry{
			{"Display All", featureDisplayAll},
			{"Search", featureSearch},
			{"Statistics", featureStatistics},
			{"Reports/Backup", reportsMenu},
			{"Logout", nil},
		}
	case session.RoleStudent:
		return []menuEntry{
			{"View My Record", featureViewOwn},
			{"Logout", nil},
		}
	default: // guest
		return []menuEntry{
			{"Display All", featureDisplayAll},
			{"Search", featureSearch},
			{"Reports/Backup", reportsMenu},
			{"Logout", nil},
		}
	}
}

// reportsMenu is the shared reports/backup submenu.
func reportsMenu(app *appContext, c *console.Console, sess *session.Session) {
	c.Printf("\n1) Export (CSV & Report)\n2) Backup\n3) Restore\n4) Toggle Masking (ADMIN only)\n5) Back\n")
	choice, err := c.ReadInt("Enter choice: ")
	if err != nil {
		c.Printf("Invalid choice.\n")
		return
	}
	switch choice {
	case 1:
		featureExport(app, c, sess)
	case 2:
		featureBackup(app, c, sess)
	case 3:
		featureRestore(app, c, sess)
	case 4:
		featureMaskToggle(app, c, sess)
	default:
		// Back.
	}
}

func denied(c *console.Console, err error) bool {
	if errors.Is(err, session.ErrPermissionDenied) {
		c.Printf("Permission denied.\n")
		return true
	}
	return false
}

func reportErr(c *console.Console, err error) {
	c.Printf("Error: %v\n", err)
}
