package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed data/cards.yaml
var defaultCatalog []byte

// Default returns the built-in catalog shipped with the binary.
func Default() (*Catalog, error) {
	raw, err := Parse(defaultCatalog)
	if err != nil {
		return nil, fmt.Errorf("parse embedded catalog: %w", err)
	}
	return New(raw)
}

// Load reads the base catalog file and merges overlays on top of it, in order.
// An empty base path means the embedded catalog. Missing overlay files are skipped.
func Load(base string, overlays ...string) (*Catalog, error) {
	var merged RawCatalog
	var err error
	if base == "" {
		merged, err = Parse(defaultCatalog)
	} else {
		merged, err = readYAML(base, false)
	}
	if err != nil {
		return nil, fmt.Errorf("read base catalog: %w", err)
	}
	for _, p := range overlays {
		ov, err := readYAML(p, true)
		if err != nil {
			return nil, fmt.Errorf("read overlay %s: %w", p, err)
		}
		merged = Merge(merged, ov)
	}
	return New(merged)
}

// Parse decodes catalog YAML without validating it.
func Parse(b []byte) (RawCatalog, error) {
	var raw RawCatalog
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return RawCatalog{}, err
	}
	return raw, nil
}

// readYAML loads a YAML file into RawCatalog. With optional set, a missing file is an empty catalog.
func readYAML(path string, optional bool) (RawCatalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return RawCatalog{}, nil
		}
		return RawCatalog{}, err
	}
	return Parse(b)
}

// Merge overlays 'b' onto 'a': cards with the same id are replaced in place,
// new cards are appended, and quizzes from 'b' replace those in 'a'.
func Merge(a, b RawCatalog) RawCatalog {
	out := RawCatalog{
		Version: a.Version,
		Notes:   a.Notes,
		Cards:   append([]RawCard(nil), a.Cards...),
		Quizzes: make(map[string]RawQuiz, len(a.Quizzes)+len(b.Quizzes)),
	}
	if b.Version != "" {
		out.Version = b.Version
	}
	if b.Notes != "" {
		out.Notes = b.Notes
	}

	idx := make(map[string]int, len(out.Cards))
	for i, c := range out.Cards {
		idx[c.ID] = i
	}
	for _, c := range b.Cards {
		if i, ok := idx[c.ID]; ok {
			out.Cards[i] = c
			continue
		}
		idx[c.ID] = len(out.Cards)
		out.Cards = append(out.Cards, c)
	}

	for id, q := range a.Quizzes {
		out.Quizzes[id] = q
	}
	for id, q := range b.Quizzes {
		out.Quizzes[id] = q
	}
	return out
}
