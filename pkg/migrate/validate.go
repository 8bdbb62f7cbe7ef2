package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var (
	sqlFileRe = regexp.MustCompile(`^(\d{5,14})_[a-z0-9_]+\.sql$`)
)

// ValidateDir validates migration filenames + basic SQL headers.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}

	versions, err := collectVersions(dir)
	if err != nil {
		return err
	}
	_ = versions
	return nil
}

// ValidateDirs validates each dir and additionally requires both driver
// trees to carry the same migration versions.
func ValidateDirs(dirs ...string) error {
	if len(dirs) == 0 {
		return fmt.Errorf("at least one dir is required")
	}

	var reference []string
	for i, dir := range dirs {
		versions, err := collectVersions(dir)
		if err != nil {
			return err
		}
		if i == 0 {
			reference = versions
			continue
		}
		if strings.Join(versions, ",") != strings.Join(reference, ",") {
			return fmt.Errorf("migration versions diverge between %q (%v) and %q (%v)",
				dirs[0], reference, dir, versions)
		}
	}
	return nil
}

func collectVersions(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %q: %w", dir, err)
	}

	seen := map[string]string{} // version -> filename

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".sql") {
			continue
		}

		m := sqlFileRe.FindStringSubmatch(name)
		if m == nil {
			return nil, fmt.Errorf("invalid migration filename %q (expected <version>_name.sql)", name)
		}

		version := m[1]
		if prev, ok := seen[version]; ok {
			return nil, fmt.Errorf("duplicate migration version %s in %q and %q", version, prev, name)
		}
		seen[version] = name

		full := filepath.Join(dir, name)
		b, err := os.ReadFile(full)
		if err != nil {
			return nil, fmt.Errorf("read file %q: %w", full, err)
		}

		txt := string(b)
		if !strings.Contains(txt, "-- +goose Up") {
			return nil, fmt.Errorf("migration %q missing \"-- +goose Up\"", name)
		}
		if !strings.Contains(txt, "-- +goose Down") {
			return nil, fmt.Errorf("migration %q missing \"-- +goose Down\"", name)
		}
	}

	versions := make([]string, 0, len(seen))
	for v := range seen {
		versions = append(versions, v)
	}
	sort.Strings(versions)
	return versions, nil
}
