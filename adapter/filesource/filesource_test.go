package filesource

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/vinicius-lino-figueiredo/synthscope/adapter/record"
	"github.com/vinicius-lino-figueiredo/synthscope/domain"
)

type FileSourceTestSuite struct {
	suite.Suite
	ctx context.Context
	src *Source
}

func (s *FileSourceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.src = New()
}

func (s *FileSourceTestSuite) TestFormatFor() {
	for path, want := range map[string]Format{
		"a.json":   JSON,
		"a.JSONL":  JSONLines,
		"a.ndjson": JSONLines,
		"a.yml":    YAML,
		"a.yaml":   YAML,
	} {
		got, err := FormatFor(path)
		s.NoError(err)
		s.Equal(want, got, path)
	}
	_, err := FormatFor("a.csv")
	s.ErrorIs(err, ErrUnknownFormat{Path: "a.csv"})
}

func (s *FileSourceTestSuite) TestJSON() {
	items, err := s.src.Read(s.ctx, strings.NewReader(`[{"id":1,"name":"red","ratio":0.5}]`), JSON)
	s.NoError(err)
	s.Equal([]map[string]any{{"id": int64(1), "name": "red", "ratio": 0.5}}, items)
}

func (s *FileSourceTestSuite) TestJSONLinesLog() {
	data := strings.Join([]string{
		`{"id":1,"name":"red"}`,
		`{"id":2,"name":"orange"}`,
		``,
		`{"id":1,"name":"crimson"}`,
		`{"id":3,"name":"yellow"}`,
		`{"id":2,"$$deleted":true}`,
	}, "\n")
	items, err := s.src.Read(s.ctx, strings.NewReader(data), JSONLines)
	s.NoError(err)
	s.Equal([]map[string]any{
		{"id": int64(1), "name": "crimson"},
		{"id": int64(3), "name": "yellow"},
	}, items)
}

func (s *FileSourceTestSuite) TestJSONLinesCorruption() {
	data := "{\"id\":1}\nnot json\n{\"id\":2}\n"
	_, err := s.src.Read(s.ctx, strings.NewReader(data), JSONLines)
	var target ErrCorruptFile
	s.Require().ErrorAs(err, &target)
	s.Equal(1, target.CorruptItems)
	s.Equal(3, target.DataLength)

	items, err := New(WithCorruptAlertThreshold(0.5)).Read(s.ctx, strings.NewReader(data), JSONLines)
	s.NoError(err)
	s.Len(items, 2)
}

func (s *FileSourceTestSuite) TestYAML() {
	data := `
- id: 1
  name: red
- id: 2
  name: orange
---
id: 3
name: yellow
`
	items, err := s.src.Read(s.ctx, strings.NewReader(data), YAML)
	s.NoError(err)
	s.Equal([]map[string]any{
		{"id": 1, "name": "red"},
		{"id": 2, "name": "orange"},
		{"id": 3, "name": "yellow"},
	}, items)

	_, err = s.src.Read(s.ctx, strings.NewReader("- 1\n- 2\n"), YAML)
	s.Error(err)
}

func (s *FileSourceTestSuite) TestCanceledContext() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()
	_, err := s.src.Read(ctx, strings.NewReader(`[]`), JSON)
	s.ErrorIs(err, context.Canceled)
}

func (s *FileSourceTestSuite) TestOpen() {
	path := filepath.Join(s.T().TempDir(), "colors.jsonl")
	s.Require().NoError(os.WriteFile(path, []byte("{\"id\":2,\"name\":\"yellow\"}\n{\"id\":0,\"name\":\"red\"}\n"), 0o600))

	a, err := s.src.Open(s.ctx, path, record.NewDefinition("Color", "name"))
	s.Require().NoError(err)

	ids, err := a.AllIDs(s.ctx, domain.Context{})
	s.NoError(err)
	s.Equal([]any{int64(0), int64(2)}, ids)

	_, err = s.src.Open(s.ctx, path, record.NewDefinition("Color"))
	s.ErrorAs(err, &domain.ErrUnknownField{})

	_, err = s.src.Open(s.ctx, filepath.Join(s.T().TempDir(), "missing.yaml"), record.NewDefinition("Color"))
	s.ErrorIs(err, os.ErrNotExist)
}

func TestFileSourceTestSuite(t *testing.T) {
	suite.Run(t, new(FileSourceTestSuite))
}
