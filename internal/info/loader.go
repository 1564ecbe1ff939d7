package info

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Sources maps each category to the CSV file that holds it. An empty path
// leaves the category empty.
type Sources map[Category]string

var defaultFiles = map[Category]string{
	Medications: "medications.csv",
	Diets:       "diets.csv",
	Precautions: "precautions_df.csv",
	Workout:     "workout_df.csv",
}

func DefaultSources(dir string) Sources {
	src := make(Sources, len(defaultFiles))
	for cat, name := range defaultFiles {
		src[cat] = filepath.Join(dir, name)
	}
	return src
}

// LoadCatalog reads every source concurrently. A missing file yields an empty
// table and a warning; a malformed file is an error.
func LoadCatalog(ctx context.Context, src Sources, logger *slog.Logger) (*Catalog, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var (
		mu     sync.Mutex
		tables = make(map[Category]Table, len(Categories))
	)
	g, ctx := errgroup.WithContext(ctx)
	for _, cat := range Categories {
		cat := cat
		path := src[cat]
		if path == "" {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t, err := LoadTable(path)
			if errors.Is(err, fs.ErrNotExist) {
				logger.Warn("info table missing, using empty table", "category", cat, "path", path)
				return nil
			}
			if err != nil {
				return fmt.Errorf("load %s table: %w", cat, err)
			}
			mu.Lock()
			tables[cat] = t
			mu.Unlock()
			logger.Debug("info table loaded", "category", cat, "rows", len(t))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return NewCatalog(tables), nil
}

func LoadTable(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := ReadTable(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// ReadTable parses a CSV with a Disease column. Every other named column is a
// value column; rows repeating a disease are merged.
func ReadTable(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return Table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	diseaseCol := -1
	var valueCols []int
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		switch {
		case name == "disease" && diseaseCol < 0:
			diseaseCol = i
		case isIndexColumn(name):
		default:
			valueCols = append(valueCols, i)
		}
	}
	if diseaseCol < 0 {
		return nil, errors.New("no Disease column")
	}

	cells := make(map[string][]string)
	var order []string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if diseaseCol >= len(rec) {
			continue
		}
		disease := strings.TrimSpace(rec[diseaseCol])
		if disease == "" {
			continue
		}
		if _, ok := cells[disease]; !ok {
			order = append(order, disease)
		}
		for _, c := range valueCols {
			if c < len(rec) && strings.TrimSpace(rec[c]) != "" {
				cells[disease] = append(cells[disease], strings.TrimSpace(rec[c]))
			}
		}
	}

	t := make(Table, len(order))
	for _, disease := range order {
		t[disease] = mergeCells(cells[disease])
	}
	return t, nil
}

func isIndexColumn(name string) bool {
	return name == "" || name == "index" || name == "id" ||
		strings.HasPrefix(name, "unnamed") || strings.HasSuffix(name, "_code")
}

func mergeCells(cells []string) string {
	switch len(cells) {
	case 0:
		return ""
	case 1:
		return cells[0]
	}

	seen := make(map[string]struct{})
	var quoted []string
	for _, c := range cells {
		for _, item := range ParseItems(c) {
			if _, ok := seen[item]; ok {
				continue
			}
			seen[item] = struct{}{}
			quoted = append(quoted, "'"+strings.ReplaceAll(item, "'", "")+"'")
		}
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
