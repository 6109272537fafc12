package migrate

import (
	"embed"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strconv"
)

//go:embed migrations/*.sql
var embedded embed.FS

// Step is one versioned schema change with its reverse.
type Step struct {
	Version int64
	Name    string
	Up      string
	Down    string
}

var fileName = regexp.MustCompile(`^(\d+)_([a-z0-9_]+)\.(up|down)\.sql$`)

// Embedded returns the steps compiled into the binary.
func Embedded() ([]Step, error) {
	sub, err := fs.Sub(embedded, "migrations")
	if err != nil {
		return nil, err
	}
	return Load(sub)
}

// Load reads NNNN_name.up.sql / NNNN_name.down.sql pairs from the root of
// fsys. Versions must start at 1, be contiguous and be unique, and every
// step must have both directions.
func Load(fsys fs.FS) ([]Step, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	byVersion := make(map[int64]*Step)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := fileName.FindStringSubmatch(e.Name())
		if m == nil {
			return nil, fmt.Errorf("migration %q: name must match NNNN_name.(up|down).sql", e.Name())
		}
		version, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("migration %q: %w", e.Name(), err)
		}
		body, err := fs.ReadFile(fsys, e.Name())
		if err != nil {
			return nil, fmt.Errorf("migration %q: %w", e.Name(), err)
		}

		step, ok := byVersion[version]
		if !ok {
			step = &Step{Version: version, Name: m[2]}
			byVersion[version] = step
		}
		if step.Name != m[2] {
			return nil, fmt.Errorf("migration %d: conflicting names %q and %q", version, step.Name, m[2])
		}
		switch m[3] {
		case "up":
			if step.Up != "" {
				return nil, fmt.Errorf("migration %d: duplicate up step", version)
			}
			step.Up = string(body)
		case "down":
			if step.Down != "" {
				return nil, fmt.Errorf("migration %d: duplicate down step", version)
			}
			step.Down = string(body)
		}
	}

	steps := make([]Step, 0, len(byVersion))
	for _, s := range byVersion {
		steps = append(steps, *s)
	}
	sort.Slice(steps, func(i, j int) bool { return steps[i].Version < steps[j].Version })

	for i, s := range steps {
		if s.Version != int64(i+1) {
			return nil, fmt.Errorf("migration versions must be contiguous from 1: found %d at position %d", s.Version, i+1)
		}
		if s.Up == "" {
			return nil, fmt.Errorf("migration %d_%s: missing up step", s.Version, s.Name)
		}
		if s.Down == "" {
			return nil, fmt.Errorf("migration %d_%s: missing down step", s.Version, s.Name)
		}
	}
	return steps, nil
}
