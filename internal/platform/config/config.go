package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

type Config struct {
	VaultPath  string
	DataDir    string
	DBPath     string
	LogPath    string
	LogLevel   string
	TuningPath string
	MotifsPath string
}

func New(vaultPath string) (Config, error) {
	if strings.TrimSpace(vaultPath) == "" {
		return Config{}, fmt.Errorf("vault path is required")
	}
	dataDir := filepath.Join(vaultPath, ".gazette")
	return Config{
		VaultPath:  vaultPath,
		DataDir:    dataDir,
		DBPath:     filepath.Join(dataDir, "gazette.db"),
		LogPath:    filepath.Join(dataDir, "gazette.log"),
		LogLevel:   "info",
		TuningPath: filepath.Join(dataDir, "tuning.yaml"),
		MotifsPath: filepath.Join(dataDir, "motifs.json"),
	}, nil
}

// WithLogLevel returns a copy of the config using the given level name.
func (c Config) WithLogLevel(level string) Config {
	if level = strings.TrimSpace(level); level != "" {
		c.LogLevel = strings.ToLower(level)
	}
	return c
}
