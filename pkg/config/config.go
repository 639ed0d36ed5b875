package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the SRMS configuration.
type Config struct {
	DataDir string  `yaml:"data_dir"`
	Files   Files   `yaml:"files"`
	Login   Login   `yaml:"login"`
	Mask    Mask    `yaml:"mask"`
	Logging Logging `yaml:"logging"`
}

// Files names the flat files inside the data directory.
type Files struct {
	Students    string `yaml:"students"`
	Credentials string `yaml:"credentials"`
	Backup      string `yaml:"backup"`
	CSV         string `yaml:"csv"`
	Report      string `yaml:"report"`
}

// Login contains login-related configuration.
type Login struct {
	MaxAttempts int `yaml:"max_attempts"`
}

// Mask contains configuration for the file mask toggle.
type Mask struct {
	ChunkSize int `yaml:"chunk_size"`
}

// Logging contains logging configuration.
type Logging struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a default configuration.
func DefaultConfig() *Config {
	return &Config{
		DataDir: "./data",
		Files: Files{
			Students:    "students.txt",
			Credentials: "credentials.txt",
			Backup:      "students_backup.txt",
			CSV:         "students.csv",
			Report:      "report.txt",
		},
		Login: Login{
			MaxAttempts: 3,
		},
		Mask: Mask{
			ChunkSize: 4096,
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

// StudentPath returns the full path of the student record file.
func (c *Config) StudentPath() string { return filepath.Join(c.DataDir, c.Files.Students) }

// CredentialPath returns the full path of the credential file.
func (c *Config) CredentialPath() string { return filepath.Join(c.DataDir, c.Files.Credentials) }

// BackupPath returns the full path of the backup file.
func (c *Config) BackupPath() string { return filepath.Join(c.DataDir, c.Files.Backup) }

// CSVPath returns the full path of the CSV export file.
func (c *Config) CSVPath() string { return filepath.Join(c.DataDir, c.Files.CSV) }

// ReportPath returns the full path of the report file.
func (c *Config) ReportPath() string { return filepath.Join(c.DataDir, c.Files.Report) }

// LoadConfig loads configuration from the specified path.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if config.Login.MaxAttempts < 1 {
		return nil, fmt.Errorf("login.max_attempts must be at least 1")
	}
	if config.Mask.ChunkSize < 1 {
		return nil, fmt.Errorf("mask.chunk_size must be at least 1")
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified path.
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ConfigExists checks if a configuration file exists.
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
