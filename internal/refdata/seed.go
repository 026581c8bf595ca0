package refdata

import (
	"context"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Seed is a reference data file: kind → subject → payload.
type Seed map[string]map[string]any

// LoadSeed reads a YAML seed file.
func LoadSeed(path string) (Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("refdata: read seed %s: %w", path, err)
	}
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("refdata: parse seed %s: %w", path, err)
	}
	return seed, nil
}

// Apply writes every seed entry to the source, in kind then subject order.
// It returns the number of entries written.
func (seed Seed) Apply(ctx context.Context, src *SQLiteSource) (int, error) {
	kinds := make([]string, 0, len(seed))
	for k := range seed {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)

	n := 0
	for _, kind := range kinds {
		subjects := make([]string, 0, len(seed[kind]))
		for s := range seed[kind] {
			subjects = append(subjects, s)
		}
		sort.Strings(subjects)
		for _, subject := range subjects {
			if err := src.Put(ctx, kind, subject, seed[kind][subject]); err != nil {
				return n, err
			}
			n++
		}
	}
	return n, nil
}
