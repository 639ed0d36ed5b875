package cmd

import (
	"bytes"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolbench/srms/pkg/codec"
	"github.com/schoolbench/srms/pkg/config"
	"github.com/schoolbench/srms/pkg/console"
	"github.com/schoolbench/srms/pkg/export"
	"github.com/schoolbench/srms/pkg/session"
	"github.com/schoolbench/srms/pkg/store"
)

func newTestApp(t *testing.T) *appContext {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	students := store.NewStudentStore(store.StudentStoreConfig{FilePath: cfg.StudentPath(), Logger: logger})
	creds := store.NewCredentialStore(store.CredentialStoreConfig{FilePath: cfg.CredentialPath(), Logger: logger})
	require.NoError(t, creds.Seed())

	exporter := export.New(export.Config{
		StudentFile:   cfg.StudentPath(),
		BackupFile:    cfg.BackupPath(),
		CSVFile:       cfg.CSVPath(),
		ReportFile:    cfg.ReportPath(),
		MaskChunkSize: cfg.Mask.ChunkSize,
	}, logger)

	return &appContext{
		cfg:      cfg,
		logger:   logger,
		students: students,
		creds:    creds,
		exporter: exporter,
		manager:  session.NewManager(creds, cfg.Login.MaxAttempts),
	}
}

// script runs the interactive shell against a fixed input sequence and
// returns everything printed.
func script(t *testing.T, app *appContext, lines ...string) string {
	t.Helper()
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	var out bytes.Buffer
	require.NoError(t, runShell(app, console.NewWith(in, &out)))
	return out.String()
}

func TestShell_AdminAddSearchDelete(t *testing.T) {
	app := newTestApp(t)

	out := script(t, app,
		"admin", "admin", // login
		"1",              // Add Student
		"1",              // roll
		"Alice",          // name
		"90", "85", "95", // marks
		"3", "4", "A+", // Search -> by grade -> A+
		"5", "1", // Delete -> roll 1
		"11", // Logout
	)

	assert.Contains(t, out, "Login successful. Welcome admin [ADMIN]")
	assert.Contains(t, out, "Student added successfully!")
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "A+")
	assert.Contains(t, out, "Deleted successfully.")

	students, err := app.students.ReadAll()
	require.NoError(t, err)
	assert.Empty(t, students, "store must be empty after the delete")
}

func TestShell_AddComputesDerivedFields(t *testing.T) {
	app := newTestApp(t)

	script(t, app,
		"admin", "admin",
		"1", "1", "Alice", "90", "85", "95",
		"11",
	)

	students, err := app.students.ReadAll()
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, 270.0, students[0].Total)
	assert.InDelta(t, 90.0, students[0].Percentage, 1e-9)
	assert.Equal(t, "A+", students[0].Grade)
}

func TestShell_DuplicateRollRejected(t *testing.T) {
	app := newTestApp(t)

	out := script(t, app,
		"admin", "admin",
		"1", "7", "Alice", "50", "50", "50",
		"1", "7", // second add, same roll
		"11",
	)

	assert.Contains(t, out, "Roll number already exists!")

	students, err := app.students.ReadAll()
	require.NoError(t, err)
	assert.Len(t, students, 1)
}

func TestShell_LoginAttemptsExhausted(t *testing.T) {
	app := newTestApp(t)

	out := script(t, app,
		"admin", "wrong",
		"admin", "worse",
		"admin", "worst",
	)

	assert.Contains(t, out, "Attempts left: 2")
	assert.Contains(t, out, "Attempts left: 1")
	assert.Contains(t, out, "Maximum attempts reached.")
	assert.Contains(t, out, "Goodbye.")
}

func TestShell_StudentViewsOwnRecordByRoll(t *testing.T) {
	app := newTestApp(t)
	alice := codec.Student{Roll: 1, Name: "Alice", Marks: [codec.Subjects]float64{90, 85, 95}}
	codec.Calculate(&alice)
	require.NoError(t, app.students.Append(alice))
	require.NoError(t, app.creds.Add("1", "pw", "STUDENT"))

	out := script(t, app,
		"1", "pw", // login as roll-numbered student
		"1", // View My Record
		"2", // Logout
	)

	assert.Contains(t, out, "Logged in as: 1 [STUDENT]")
	assert.Contains(t, out, "Alice")
}

func TestShell_StudentWithoutRecord(t *testing.T) {
	app := newTestApp(t)

	out := script(t, app,
		"student", "student",
		"1",
		"2",
	)

	assert.Contains(t, out, "No record found for you.")
}

func TestShell_GuestMenuHasNoMutations(t *testing.T) {
	// The guest menu never offers delete-all; the capability gate also
	// denies it if reached some other way.
	menu := menuFor(session.RoleGuest)
	for _, entry := range menu {
		assert.NotContains(t, entry.label, "Delete")
		assert.NotContains(t, entry.label, "Add")
	}

	app := newTestApp(t)
	require.NoError(t, app.students.Append(codec.Student{Roll: 1, Name: "Alice"}))

	var out bytes.Buffer
	c := console.NewWith(strings.NewReader("y\n"), &out)
	guest := &session.Session{Username: "guest", Role: session.RoleGuest}
	featureDeleteAll(app, c, guest)

	assert.Contains(t, out.String(), "Permission denied.")
	students, err := app.students.ReadAll()
	require.NoError(t, err)
	assert.Len(t, students, 1, "file untouched after denied delete-all")
}

func TestShell_InvalidMenuChoiceReprompts(t *testing.T) {
	app := newTestApp(t)

	out := script(t, app,
		"guest", "guest",
		"99",  // out of range
		"abc", // junk
		"4",   // Logout
	)

	assert.Equal(t, 2, strings.Count(out, "Invalid choice.\n"))
	assert.Contains(t, out, "Logging out...")
}

func TestShell_SortPersistIsExplicit(t *testing.T) {
	app := newTestApp(t)
	for _, s := range []codec.Student{
		{Roll: 2, Name: "Bob", Marks: [codec.Subjects]float64{50, 50, 50}},
		{Roll: 1, Name: "Alice", Marks: [codec.Subjects]float64{90, 90, 90}},
	} {
		codec.Calculate(&s)
		require.NoError(t, app.students.Append(s))
	}

	// Sort by roll asc but decline to save: file keeps its order.
	script(t, app,
		"staff", "staff",
		"6", "1", "n",
		"9",
	)
	students, err := app.students.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, 2, students[0].Roll, "declined save keeps file order")

	// Sort again and save.
	script(t, app,
		"staff", "staff",
		"6", "1", "y",
		"9",
	)
	students, err = app.students.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, 1, students[0].Roll, "saved sort rewrites the file order")
}

func TestMenuFor_MatchesCapabilityTable(t *testing.T) {
	// Every role gets a menu ending in Logout.
	for _, role := range []session.Role{
		session.RoleAdmin, session.RoleStaff, session.RolePrincipal,
		session.RoleStudent, session.RoleGuest,
	} {
		menu := menuFor(role)
		require.NotEmpty(t, menu, role.String())
		assert.Equal(t, "Logout", menu[len(menu)-1].label, role.String())
		assert.Nil(t, menu[len(menu)-1].run, role.String())
	}

	assert.Len(t, menuFor(session.RoleAdmin), 11)
	assert.Len(t, menuFor(session.RoleStaff), 9)
	assert.Len(t, menuFor(session.RolePrincipal), 5)
	assert.Len(t, menuFor(session.RoleGuest), 4)
	assert.Len(t, menuFor(session.RoleStudent), 2)
}
