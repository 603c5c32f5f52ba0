// Package filesource reads record field maps from JSON, JSON lines or YAML
// streams, and loads them into a [memory.Adapter].
//
// JSON lines are read as an append-only log: a later line with the same
// identifier replaces the earlier one, and a line holding "$$deleted": true
// removes it.
package filesource

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dolmen-go/contextio"
	"github.com/vinicius-lino-figueiredo/synthscope/adapter/comparer"
	"github.com/vinicius-lino-figueiredo/synthscope/adapter/hasher"
	"github.com/vinicius-lino-figueiredo/synthscope/adapter/memory"
	"github.com/vinicius-lino-figueiredo/synthscope/adapter/record"
	"github.com/vinicius-lino-figueiredo/synthscope/domain"
	"gopkg.in/yaml.v3"
)

// DeletedField marks a JSON line as a deletion.
const DeletedField = "$$deleted"

// Format is a record file format.
type Format string

// Supported formats.
const (
	JSON      Format = "json"
	JSONLines Format = "jsonl"
	YAML      Format = "yaml"
)

// ErrUnknownFormat is returned when a format cannot be told from a path.
type ErrUnknownFormat struct {
	Path string
}

// Error implements [error].
func (e ErrUnknownFormat) Error() string {
	return fmt.Sprintf("unknown record file format for %q", e.Path)
}

// ErrCorruptFile is returned when too many JSON lines cannot be read.
type ErrCorruptFile struct {
	CorruptionRate        float64
	CorruptItems          int
	DataLength            int
	CorruptAlertThreshold float64
}

// Error implements [error].
func (e ErrCorruptFile) Error() string {
	return fmt.Sprintf("%.1f%% of the data is corrupt (%d of %d lines), above the %.1f%% threshold",
		e.CorruptionRate*100, e.CorruptItems, e.DataLength, e.CorruptAlertThreshold*100)
}

// FormatFor tells the format of a file by its extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, nil
	case ".jsonl", ".ndjson":
		return JSONLines, nil
	case ".yaml", ".yml":
		return YAML, nil
	}
	return "", ErrUnknownFormat{Path: path}
}

// Source reads record files.
type Source struct {
	threshold float64
	comparer  domain.Comparer
	hasher    domain.Hasher
	log       *slog.Logger
}

// New returns a new [Source].
func New(opts ...Option) *Source {
	s := &Source{
		threshold: 0.1,
		comparer:  comparer.NewComparer(),
		hasher:    hasher.NewHasher(),
		log:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open reads the file at path and returns a memory adapter holding its
// records.
func (s *Source) Open(ctx context.Context, path string, def *record.Definition, opts ...memory.Option) (*memory.Adapter, error) {
	values, err := s.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	a := memory.New(def, opts...)
	items := make([]any, len(values))
	for n, v := range values {
		items[n] = v
	}
	if _, err := a.Insert(items...); err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	s.log.DebugContext(ctx, "loaded record file", "path", path, "records", len(values))
	return a, nil
}

// ReadFile reads the field maps stored at path.
func (s *Source) ReadFile(ctx context.Context, path string) ([]map[string]any, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return s.Read(ctx, f, format)
}

// Read reads field maps from r. Reading stops when ctx is done.
func (s *Source) Read(ctx context.Context, r io.Reader, format Format) ([]map[string]any, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	r = contextio.NewReader(ctx, r)
	switch format {
	case JSON:
		return s.readJSON(r)
	case JSONLines:
		return s.readJSONLines(r)
	case YAML:
		return s.readYAML(r)
	}
	return nil, ErrUnknownFormat{Path: string(format)}
}

func (s *Source) readJSON(r io.Reader) ([]map[string]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var items []map[string]any
	if err := dec.Decode(&items); err != nil {
		return nil, err
	}
	for n, item := range items {
		items[n] = numbers(item).(map[string]any)
	}
	return items, nil
}

func (s *Source) readJSONLines(r io.Reader) ([]map[string]any, error) {
	log := newLog(s.hasher, s.comparer)
	corruptItems, dataLength := 0, 0

	lineStream := bufio.NewScanner(r)
	lineStream.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for lineStream.Scan() {
		line := lineStream.Bytes()
		if len(line) == 0 {
			continue
		}
		dataLength++

		dec := json.NewDecoder(strings.NewReader(string(line)))
		dec.UseNumber()
		var m map[string]any
		if err := dec.Decode(&m); err != nil || m == nil || m[domain.IDField] == nil {
			corruptItems++
			continue
		}
		m = numbers(m).(map[string]any)

		deleted, _ := m[DeletedField].(bool)
		delete(m, DeletedField)

		var err error
		if deleted {
			err = log.remove(m[domain.IDField])
		} else {
			err = log.set(m)
		}
		if err != nil {
			corruptItems++
		}
	}
	if err := lineStream.Err(); err != nil {
		return nil, err
	}
	if dataLength > 0 {
		corruptionRate := float64(corruptItems) / float64(dataLength)
		if corruptionRate > s.threshold {
			return nil, ErrCorruptFile{
				CorruptionRate:        corruptionRate,
				CorruptItems:          corruptItems,
				DataLength:            dataLength,
				CorruptAlertThreshold: s.threshold,
			}
		}
	}
	return log.values(), nil
}

func (s *Source) readYAML(r io.Reader) ([]map[string]any, error) {
	dec := yaml.NewDecoder(r)
	var items []map[string]any
	for {
		var doc any
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			return items, nil
		}
		if err != nil {
			return nil, err
		}
		switch t := doc.(type) {
		case nil:
		case map[string]any:
			items = append(items, t)
		case []any:
			for n, v := range t {
				m, ok := v.(map[string]any)
				if !ok {
					return nil, fmt.Errorf("yaml item %d is %T, not a mapping", n, v)
				}
				items = append(items, m)
			}
		default:
			return nil, fmt.Errorf("yaml document is %T, not a mapping or a sequence", doc)
		}
	}
}

// numbers replaces json.Number values by int64 when they are integral and by
// float64 otherwise.
func numbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		f, _ := t.Float64()
		return f
	case map[string]any:
		for k, item := range t {
			t[k] = numbers(item)
		}
		return t
	case []any:
		for n, item := range t {
			t[n] = numbers(item)
		}
		return t
	}
	return v
}
