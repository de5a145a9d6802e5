package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"FinCrawl/internal/domain/models"
	"FinCrawl/internal/domain/repository"
)

// CSVSink writes one <prefix>_<date>.csv file per dataset and trading day.
// Rows already in the file are replaced when their key repeats.
type CSVSink struct {
	dir string
}

func NewCSVSink(dir string) (repository.Sink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("csv dir: %w", err)
	}
	return &CSVSink{dir: dir}, nil
}

// Path returns the file a dataset's rows for date land in.
func (s *CSVSink) Path(dataset, date string) (string, error) {
	t, err := lookupTable(dataset)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.dir, fmt.Sprintf("%s_%s.csv", t.prefix, date)), nil
}

func (s *CSVSink) StoreBatch(ctx context.Context, dataset string, records []models.Record) error {
	if len(records) == 0 {
		return nil
	}
	t, err := lookupTable(dataset)
	if err != nil {
		return err
	}

	byDate := make(map[string][][]string)
	var dates []string
	for _, rec := range records {
		values, err := t.values(rec)
		if err != nil {
			return err
		}
		date, _ := rec.Key()
		if _, ok := byDate[date]; !ok {
			dates = append(dates, date)
		}
		byDate[date] = append(byDate[date], formatRow(values))
	}

	for _, date := range dates {
		if err := ctx.Err(); err != nil {
			return err
		}
		path, _ := s.Path(dataset, date)
		if err := s.upsertFile(t, path, byDate[date]); err != nil {
			return fmt.Errorf("csv %s: %w", filepath.Base(path), err)
		}
	}
	return nil
}

func (s *CSVSink) upsertFile(t table, path string, rows [][]string) error {
	existing, err := readRows(path)
	if err != nil {
		return err
	}

	index := make(map[string]int, len(existing)+len(rows))
	merged := make([][]string, 0, len(existing)+len(rows))
	for _, r := range append(existing, rows...) {
		k := t.keyOf(r)
		if i, ok := index[k]; ok {
			merged[i] = r
			continue
		}
		index[k] = len(merged)
		merged = append(merged, r)
	}

	tmp, err := os.CreateTemp(s.dir, ".fincrawl-*.csv")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(t.columns); err != nil {
		tmp.Close()
		return err
	}
	if err := w.WriteAll(merged); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// readRows returns the data rows of an existing file, without its header.
func readRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	if _, err := r.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	return r.ReadAll()
}

func (s *CSVSink) Health(context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", s.dir)
	}
	return nil
}

func (s *CSVSink) Close() error { return nil }
