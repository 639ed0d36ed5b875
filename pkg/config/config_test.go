package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "./data", config.DataDir)
	assert.Equal(t, "students.txt", config.Files.Students)
	assert.Equal(t, "credentials.txt", config.Files.Credentials)
	assert.Equal(t, "students_backup.txt", config.Files.Backup)
	assert.Equal(t, "students.csv", config.Files.CSV)
	assert.Equal(t, "report.txt", config.Files.Report)
	assert.Equal(t, 3, config.Login.MaxAttempts)
	assert.Equal(t, 4096, config.Mask.ChunkSize)
	assert.Equal(t, "info", config.Logging.Level)
}

func TestConfig_Paths(t *testing.T) {
	config := DefaultConfig()
	config.DataDir = "/srv/srms"

	assert.Equal(t, filepath.Join("/srv/srms", "students.txt"), config.StudentPath())
	assert.Equal(t, filepath.Join("/srv/srms", "credentials.txt"), config.CredentialPath())
	assert.Equal(t, filepath.Join("/srv/srms", "students_backup.txt"), config.BackupPath())
	assert.Equal(t, filepath.Join("/srv/srms", "students.csv"), config.CSVPath())
	assert.Equal(t, filepath.Join("/srv/srms", "report.txt"), config.ReportPath())
}

func TestSaveAndLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	original := DefaultConfig()
	original.DataDir = "/tmp/records"
	original.Login.MaxAttempts = 5

	require.NoError(t, SaveConfig(original, path))
	assert.True(t, ConfigExists(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_dir: /elsewhere\n"), 0600))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/elsewhere", loaded.DataDir)
	assert.Equal(t, "students.txt", loaded.Files.Students)
	assert.Equal(t, 3, loaded.Login.MaxAttempts)
}

func TestLoadConfig_RejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("login:\n  max_attempts: 0\n"), 0600))

	_, err := LoadConfig(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("mask:\n  chunk_size: -1\n"), 0600))
	_, err = LoadConfig(path)
	assert.Error(t, err)
}
