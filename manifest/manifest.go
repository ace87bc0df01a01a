/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package manifest

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/suparena/tablestore/errors"
	"github.com/suparena/tablestore/registry"
)

// Table is one declared table: a friendly name bound to a model type by
// its declared model name.
type Table struct {
	Name        string `yaml:"name"`
	Model       string `yaml:"model"`
	Description string `yaml:"description,omitempty"`
}

// Manifest is a declarative list of an application's tables, usually
// kept next to the model declarations and loaded at startup.
type Manifest struct {
	Tables []Table `yaml:"tables"`
}

var namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Parse decodes a manifest from r and validates it.
func Parse(r io.Reader) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Load reads and parses the manifest file at path.
func Load(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Validate checks that every table has a valid unique name and a model.
func (m *Manifest) Validate() error {
	if len(m.Tables) == 0 {
		return errors.NewValidationError("tables", "manifest declares no tables")
	}

	seen := make(map[string]bool, len(m.Tables))
	for _, table := range m.Tables {
		if table.Name == "" {
			return errors.NewValidationError("name", "table name must not be empty")
		}
		if !namePattern.MatchString(table.Name) {
			return errors.NewValidationError("name", fmt.Sprintf("%q is not a valid table name", table.Name))
		}
		if seen[table.Name] {
			return errors.NewAlreadyRegisteredError(table.Name)
		}
		seen[table.Name] = true
		if table.Model == "" {
			return errors.NewValidationError("model", fmt.Sprintf("table %q declares no model", table.Name))
		}
	}
	return nil
}

// ModelSet maps declared model names to type descriptors. The
// application builds one from its compiled model types; AddModel keeps
// the descriptor's table name out of it since the manifest supplies it.
type ModelSet map[string]registry.TypeDescriptor

// AddModel records the descriptor for a declared model name.
func AddModel[T any](models ModelSet, name string) {
	models[name] = registry.DescriptorFor[T](name)
}

// Apply registers every declared table into reg, resolving each model
// name through models. Unknown model names yield a NotFoundError.
func (m *Manifest) Apply(reg *registry.Registry, models ModelSet) error {
	for _, table := range m.Tables {
		desc, ok := models[table.Model]
		if !ok {
			return errors.NewNotFoundError("model", table.Model)
		}
		if err := reg.RegisterTable(table.Name, desc); err != nil {
			return err
		}
	}
	return nil
}

// MigrationSQL renders the CREATE TABLE statements for every declared
// table, suitable as the body of an initial *.up.sql migration.
func (m *Manifest) MigrationSQL() string {
	var sb strings.Builder
	for _, table := range m.Tables {
		if table.Description != "" {
			fmt.Fprintf(&sb, "-- %s: %s\n", table.Name, table.Description)
		}
		fmt.Fprintf(&sb, `CREATE TABLE IF NOT EXISTS %s (
	k          TEXT PRIMARY KEY,
	v          TEXT NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`, table.Name)
	}
	return sb.String()
}

// Run loads the manifest at path and writes either its migration SQL or
// a validation summary to w. It backs the tablemanifest command.
func Run(path string, emitSQL bool, w io.Writer) error {
	m, err := Load(path)
	if err != nil {
		return err
	}

	if emitSQL {
		_, err := io.WriteString(w, m.MigrationSQL())
		return err
	}

	fmt.Fprintf(w, "%s: %d tables\n", path, len(m.Tables))
	for _, table := range m.Tables {
		fmt.Fprintf(w, "  %s -> %s\n", table.Name, table.Model)
	}
	return nil
}
