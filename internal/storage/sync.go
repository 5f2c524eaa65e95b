package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// dumpTables are exported and restored in this order so route points always
// follow the exercise they belong to.
var dumpTables = []string{"exercises", "route_points"}

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "toml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown export format %q (want toml or yaml)", s)
}

// FormatFromPath guesses the dump format from a file extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatTOML
}

// Export writes every row of every table to path as a map from table name to
// rows.
func (s *Storage) Export(ctx context.Context, outputPath string, format Format) error {
	dbDump := make(map[string][]map[string]any)

	for _, table := range dumpTables {
		tableRows, err := s.DB.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s;", table))
		if err != nil {
			return fmt.Errorf("querying table %s: %w", table, err)
		}

		cols, err := tableRows.Columns()
		if err != nil {
			tableRows.Close()
			return fmt.Errorf("getting columns for table %s: %w", table, err)
		}

		tableData := []map[string]any{}
		for tableRows.Next() {
			values := make([]any, len(cols))
			valuePtrs := make([]any, len(cols))
			for i := range values {
				valuePtrs[i] = &values[i]
			}

			if err := tableRows.Scan(valuePtrs...); err != nil {
				tableRows.Close()
				return fmt.Errorf("scanning row in table %s: %w", table, err)
			}

			rowMap := make(map[string]any)
			for i, col := range cols {
				switch v := values[i].(type) {
				case nil:
					// TOML has no null; absent keys are inserted as NULL on import.
				case []byte:
					rowMap[col] = string(v)
				default:
					rowMap[col] = v
				}
			}
			tableData = append(tableData, rowMap)
		}
		err = tableRows.Err()
		tableRows.Close()
		if err != nil {
			return fmt.Errorf("iterating table %s: %w", table, err)
		}

		dbDump[table] = tableData
	}

	var buf bytes.Buffer
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(dbDump); err != nil {
			return fmt.Errorf("encoding YAML: %w", err)
		}
		enc.Close()
	default:
		if err := toml.NewEncoder(&buf).Encode(dbDump); err != nil {
			return fmt.Errorf("encoding TOML: %w", err)
		}
	}

	outputPath, err := filepath.Abs(outputPath)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing export file: %w", err)
	}

	s.logger.Info("database exported", "path", outputPath, "format", format)
	return nil
}

// DefaultExportPath returns ~/.config/stride/db_dump.<ext>.
func DefaultExportPath(format Format) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".config", "stride")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "db_dump."+string(format)), nil
}

// Import rebuilds the database from a dump file, replacing the contents of
// every table it names in a single transaction.
func (s *Storage) Import(ctx context.Context, filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("Reading file %s: %w", filePath, err)
	}

	var dbDump map[string][]map[string]any
	switch FormatFromPath(filePath) {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &dbDump); err != nil {
			return fmt.Errorf("Decoding YAML: %w", err)
		}
	default:
		if _, err := toml.Decode(string(data), &dbDump); err != nil {
			return fmt.Errorf("Decoding TOML: %w", err)
		}
	}

	for table := range dbDump {
		if !knownTable(table) {
			return fmt.Errorf("Unknown table %q in dump", table)
		}
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %w", ErrWriteFailed, err)
	}
	defer tx.Rollback()

	// Children are cleared first, parents inserted first.
	for i := len(dumpTables) - 1; i >= 0; i-- {
		table := dumpTables[i]
		if _, ok := dbDump[table]; !ok {
			continue
		}
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s;", table)); err != nil {
			return fmt.Errorf("%w: clearing table %s: %w", ErrWriteFailed, table, err)
		}
	}

	rows := 0
	for _, table := range dumpTables {
		for _, row := range dbDump[table] {
			var columns []string
			var placeholders []string
			var values []any
			for col, val := range row {
				if !isIdent(col) {
					return fmt.Errorf("Invalid column name %q in table %s", col, table)
				}
				columns = append(columns, col)
				placeholders = append(placeholders, "?")
				values = append(values, val)
			}
			query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s);", table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))
			if _, err := tx.ExecContext(ctx, query, values...); err != nil {
				return fmt.Errorf("%w: inserting into table %s: %w", ErrWriteFailed, table, err)
			}
			rows++
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing transaction: %w", ErrWriteFailed, err)
	}

	s.logger.Info("database imported", "path", filePath, "rows", rows)
	return nil
}

func knownTable(name string) bool {
	for _, t := range dumpTables {
		if t == name {
			return true
		}
	}
	return false
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r != '_' && (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
