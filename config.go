/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package tablestore

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
	"github.com/suparena/tablestore/errors"
)

// Environment variable names read by FromEnv.
const (
	EnvDataDir = "TABLESTORE_DATA_DIR"
	EnvDBFile  = "TABLESTORE_DB_FILE"
)

// Config holds the location of the embedded database file. Both fields
// are settable exactly once, before the store is first opened; the
// combined path is handed to the engine at open time.
//
// Config does not create directories or validate that the path exists.
// A missing directory surfaces as the engine's open error.
type Config struct {
	mu       sync.Mutex
	dataDir  string
	fileName string
}

// NewConfig creates an empty Config.
func NewConfig() *Config {
	return &Config{}
}

// SetDataDir sets the folder the database file lives in. It may be
// called once; later calls return a ValidationError.
func (c *Config) SetDataDir(dir string) error {
	if dir == "" {
		return errors.NewValidationError("dataDir", "directory must not be empty")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.dataDir != "" {
		return errors.NewValidationError("dataDir", "directory already set")
	}
	c.dataDir = dir
	return nil
}

// SetFileName sets the database file name. It may be called once; later
// calls return a ValidationError.
func (c *Config) SetFileName(name string) error {
	if name == "" {
		return errors.NewValidationError("fileName", "file name must not be empty")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.fileName != "" {
		return errors.NewValidationError("fileName", "file name already set")
	}
	c.fileName = name
	return nil
}

// Path returns the full path of the embedded database file.
func (c *Config) Path() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.dataDir == "" {
		return "", errors.NewValidationError("dataDir", "directory not set")
	}
	if c.fileName == "" {
		return "", errors.NewValidationError("fileName", "file name not set")
	}
	return filepath.Join(c.dataDir, c.fileName), nil
}

// FromEnv builds a Config from TABLESTORE_DATA_DIR and
// TABLESTORE_DB_FILE. A .env file in the working directory is loaded
// first when present; real environment variables take precedence.
func FromEnv() (*Config, error) {
	// godotenv.Load is a no-op error when no .env file exists.
	_ = godotenv.Load()

	cfg := NewConfig()
	if err := cfg.SetDataDir(os.Getenv(EnvDataDir)); err != nil {
		return nil, err
	}
	if err := cfg.SetFileName(os.Getenv(EnvDBFile)); err != nil {
		return nil, err
	}
	return cfg, nil
}
