// Package store loads the tier tables from YAML and keeps the SQLite ledger of
// frozen daily allocations.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"fjacquet/daily-budget/internal/config"
	"fjacquet/daily-budget/internal/fileutils"
	"fjacquet/daily-budget/internal/logging"

	"gopkg.in/yaml.v3"
)

// DefaultTablesFile is looked up when no tables file is configured.
const DefaultTablesFile = "tables.yaml"

// TableStore resolves and loads the tier, locality and category tables.
type TableStore struct {
	TablesFile string
	logger     logging.Logger
}

// NewTableStore creates a store for the given tables file. An empty name means
// DefaultTablesFile.
func NewTableStore(tablesFile string, logger logging.Logger) *TableStore {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &TableStore{TablesFile: tablesFile, logger: logger}
}

// FindConfigFile looks for a file in the standard locations.
func (s *TableStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if fileutils.FileExists(filename) {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
	}
	for _, location := range locations {
		if fileutils.FileExists(location) {
			return location, nil
		}
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		configPath := filepath.Join(homeDir, ".config", "daily-budget", filename)
		if fileutils.FileExists(configPath) {
			return configPath, nil
		}
	}

	return "", os.ErrNotExist
}

// LoadTables reads the tables file. A missing default file yields the built-in
// tables; a missing file that was named explicitly is an error. Sections left
// out of the file keep their built-in values.
func (s *TableStore) LoadTables() (*config.Tables, error) {
	filename := s.TablesFile
	explicit := filename != ""
	if !explicit {
		filename = DefaultTablesFile
	}

	path, err := s.FindConfigFile(filename)
	if err != nil {
		if explicit {
			return nil, fmt.Errorf("tables file not found: %s", filename)
		}
		s.logger.Debug("No tables file found, using built-in tables")
		return config.DefaultTables(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading tables file: %w", err)
	}

	var loaded config.Tables
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("error parsing tables file %s: %w", path, err)
	}

	tables := config.DefaultTables()
	if len(loaded.Tiers) > 0 {
		tables.Tiers = loaded.Tiers
	}
	if len(loaded.Localities) > 0 {
		tables.Localities = loaded.Localities
	}
	if len(loaded.CategoryWeights) > 0 {
		tables.CategoryWeights = loaded.CategoryWeights
	}

	if err := tables.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tables in %s: %w", path, err)
	}

	s.logger.Debug("Loaded tables",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, len(tables.Tiers)))
	return tables, nil
}

// SaveTables writes tables to path as YAML, creating parent directories.
func (s *TableStore) SaveTables(path string, tables *config.Tables) error {
	if err := tables.Validate(); err != nil {
		return fmt.Errorf("refusing to save invalid tables: %w", err)
	}
	data, err := yaml.Marshal(tables)
	if err != nil {
		return fmt.Errorf("error marshaling tables: %w", err)
	}
	if err := fileutils.WriteFileAtomic(path, data, 0600); err != nil {
		return fmt.Errorf("error writing tables: %w", err)
	}

	s.logger.Debug("Saved tables", logging.F(logging.FieldFile, path))
	return nil
}
