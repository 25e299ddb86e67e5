package store

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// aliasFile is the YAML layout for alias maps: canonical name to the list of
// variants that should resolve to it.
//
//	Yale Law School:
//	  - Yale
//	  - Yale Law
type aliasFile map[string][]string

// LoadSchoolAliases reads a YAML alias file into the schools table. Missing
// files are not an error; the resolver then falls back to identity.
func (s *Store) LoadSchoolAliases(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read school alias file: %w", err)
	}

	var aliases aliasFile
	if err := yaml.Unmarshal(data, &aliases); err != nil {
		return fmt.Errorf("failed to parse school alias file: %w", err)
	}

	for normalized, variants := range aliases {
		if _, err := s.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO schools (normalized_name, alias) VALUES (?, NULL)`,
			normalized); err != nil {
			return fmt.Errorf("failed to insert school %q: %w", normalized, err)
		}
		for _, alias := range variants {
			if alias == "" {
				continue
			}
			if _, err := s.db.ExecContext(ctx,
				`INSERT OR IGNORE INTO schools (normalized_name, alias) VALUES (?, ?)`,
				normalized, alias); err != nil {
				return fmt.Errorf("failed to insert school alias %q: %w", alias, err)
			}
		}
	}
	return nil
}

// NormalizeSchool resolves a school name through the alias table, returning
// the input unchanged when no mapping exists.
func (s *Store) NormalizeSchool(name string) string {
	var normalized string
	err := s.db.QueryRow(
		`SELECT normalized_name FROM schools WHERE normalized_name = ? OR alias = ? LIMIT 1`,
		name, name).Scan(&normalized)
	if err == nil {
		return normalized
	}

	err = s.db.QueryRow(
		`SELECT normalized_name FROM schools
		 WHERE LOWER(normalized_name) = LOWER(?) OR LOWER(alias) = LOWER(?) LIMIT 1`,
		name, name).Scan(&normalized)
	if err == nil {
		return normalized
	}

	return name
}

// LoadPracticeAliases reads a YAML alias file into an in-memory map from
// lowercased alias to canonical practice name. Missing files yield an empty
// map.
func LoadPracticeAliases(path string) (map[string]string, error) {
	practiceMap := make(map[string]string)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return practiceMap, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read practice alias file: %w", err)
	}

	var aliases aliasFile
	if err := yaml.Unmarshal(data, &aliases); err != nil {
		return nil, fmt.Errorf("failed to parse practice alias file: %w", err)
	}

	for normalized, variants := range aliases {
		practiceMap[strings.ToLower(normalized)] = normalized
		for _, alias := range variants {
			if alias != "" {
				practiceMap[strings.ToLower(alias)] = normalized
			}
		}
	}
	return practiceMap, nil
}
