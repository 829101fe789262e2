package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/kairoplan/kairoplan/pkg/calendar"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

//go:embed data/events.json
var defaultCatalog []byte

var ErrInvalidCatalog = errors.New("invalid catalog")

// record mirrors one catalog entry as written by hand. Ids and durations are
// sometimes written as bare numbers, so both are decoded loosely.
type record struct {
	ID       any    `yaml:"id"`
	Title    string `yaml:"title"`
	Type     string `yaml:"type"`
	Date     string `yaml:"date"`
	Time     string `yaml:"time"`
	Duration any    `yaml:"duration"`
}

// Default returns the catalog bundled with the binary.
func Default() []calendar.CatalogEntry {
	entries, err := Parse(defaultCatalog)
	if err != nil {
		// embedded at build time, covered by tests
		panic(fmt.Sprintf("bundled catalog: %v", err))
	}
	return entries
}

// Load reads a catalog file. An empty path returns the bundled catalog.
func Load(path string) ([]calendar.CatalogEntry, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	entries, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	log.Infof("loaded %d catalog entries from %s", len(entries), path)
	return entries, nil
}

// Parse decodes a YAML or JSON list of catalog records. Field validation is
// left to the normalizer so that one bad entry does not reject the file.
func Parse(data []byte) ([]calendar.CatalogEntry, error) {
	var records []record
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}

	entries := make([]calendar.CatalogEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, calendar.CatalogEntry{
			ID:       scalar(r.ID),
			Title:    strings.TrimSpace(r.Title),
			Type:     strings.TrimSpace(r.Type),
			Date:     strings.TrimSpace(r.Date),
			Time:     strings.TrimSpace(r.Time),
			Duration: scalar(r.Duration),
		})
	}
	return entries, nil
}

func scalar(v any) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}
