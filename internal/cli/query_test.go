package cli

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const colorLines = `{"id":1,"name":"red","hex":"#ff0000","warm":true,"tenant":"a"}
{"id":2,"name":"green","hex":"#00ff00","warm":false,"tenant":"a"}
{"id":3,"name":"blue","hex":"#0000ff","warm":false,"tenant":"b"}
{"id":4,"name":"orange","hex":"#ffa500","warm":true,"tenant":"b"}
`

func writeColors(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "colors.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(colorLines), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	root := NewRootCmd()
	root.SetOut(buf)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

func decodeJSON(t *testing.T, out string) []map[string]any {
	t.Helper()
	var res []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	return res
}

func names(rows []map[string]any) []any {
	res := make([]any, len(rows))
	for n, r := range rows {
		res[n] = r["name"]
	}
	return res
}

func TestQueryCommand_All(t *testing.T) {
	path := writeColors(t)

	out, err := execute(t, "query", "--path", path, "--format", "json")
	require.NoError(t, err)
	assert.Equal(t, []any{"red", "green", "blue", "orange"}, names(decodeJSON(t, out)))
}

func TestQueryCommand_WhereOrderLimit(t *testing.T) {
	path := writeColors(t)

	out, err := execute(t, "query", "--path", path, "--format", "json",
		"--where", "warm=false",
		"--order", "name:desc",
	)
	require.NoError(t, err)
	assert.Equal(t, []any{"green", "blue"}, names(decodeJSON(t, out)))

	out, err = execute(t, "query", "--path", path, "--format", "json",
		"--where", "id=1,3,4",
		"--order", "name",
		"--limit", "2",
		"--offset", "1",
	)
	require.NoError(t, err)
	assert.Equal(t, []any{"orange", "red"}, names(decodeJSON(t, out)))
}

func TestQueryCommand_Pluck(t *testing.T) {
	path := writeColors(t)

	out, err := execute(t, "query", "--path", path, "--format", "json",
		"--where", "name=red,blue", "--pluck", "id,hex")
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{
		{"id": 1.0, "hex": "#ff0000"},
		{"id": 3.0, "hex": "#0000ff"},
	}, decodeJSON(t, out))

	_, err = execute(t, "query", "--path", path, "--pluck", "shade")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shade")
}

func TestQueryCommand_Find(t *testing.T) {
	path := writeColors(t)

	out, err := execute(t, "query", "--path", path, "--format", "yaml", "--find", "2")
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "green", rows[0]["name"])

	_, err = execute(t, "query", "--path", path, "--find", "9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestQueryCommand_Terminals(t *testing.T) {
	path := writeColors(t)

	out, err := execute(t, "query", "--path", path, "--count", "--where", "warm=true")
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)

	out, err = execute(t, "query", "--path", path, "--empty", "--where", "name=purple")
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)

	out, err = execute(t, "query", "--path", path, "--ids", "--format", "json")
	require.NoError(t, err)
	assert.Len(t, decodeJSON(t, out), 4)

	_, err = execute(t, "query", "--path", path, "--ids", "--count")
	require.Error(t, err)
}

func TestQueryCommand_Context(t *testing.T) {
	path := filepath.Join(t.TempDir(), "synthscope.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
source:
  path: `+writeColors(t)+`
  context_columns:
    tenant: tenant
format: json
`), 0o600))

	out, err := execute(t, "query", "--config", path, "--context", "tenant=b")
	require.NoError(t, err)
	assert.Equal(t, []any{"blue", "orange"}, names(decodeJSON(t, out)))

	_, err = execute(t, "query", "--config", path, "--context", "region=eu")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "region")
}

func TestQueryCommand_Table(t *testing.T) {
	path := writeColors(t)

	out, err := execute(t, "query", "--path", path, "--where", "id=1")
	require.NoError(t, err)
	assert.Contains(t, out, "red")
	assert.Contains(t, out, "#ff0000")
	assert.Contains(t, out, "(1 rows)")

	out, err = execute(t, "query", "--path", path, "--where", "id=7")
	require.NoError(t, err)
	assert.Equal(t, "(0 rows)\n", out)
}

func TestQueryCommand_SQL(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "colors.db")
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	_, err = db.Exec(`
		CREATE TABLE colors (id INTEGER PRIMARY KEY, name TEXT, hex TEXT);
		INSERT INTO colors (id, name, hex) VALUES
		(1, 'red', '#ff0000'), (2, 'green', '#00ff00'), (3, 'blue', '#0000ff');
	`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	args := []string{"query", "--source", "sql", "--dsn", dsn, "--table", "colors",
		"--columns", "name,hex", "--format", "json"}

	out, err := execute(t, append(args, "--order", "name")...)
	require.NoError(t, err)
	assert.Equal(t, []any{"blue", "green", "red"}, names(decodeJSON(t, out)))

	out, err = execute(t, append(args, "--where", "hex=#00ff00", "--pluck", "name")...)
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{{"name": "green"}}, decodeJSON(t, out))
}

func TestColumnsCommand(t *testing.T) {
	out, err := execute(t, "columns", "--path", writeColors(t), "--format", "json")
	require.NoError(t, err)

	var got []string
	for _, r := range decodeJSON(t, out) {
		got = append(got, r["name"].(string))
	}
	assert.Equal(t, []string{"id", "hex", "name", "tenant", "warm"}, got)
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"1", 1},
		{"1.5", 1.5},
		{"true", true},
		{"red", "red"},
		{`"1"`, "1"},
		{"", ""},
		{"null", nil},
		{"[1, 2]", "[1, 2]"},
		{"a: b", "a: b"},
		{"#00ff00", "#00ff00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseValue(tt.in), tt.in)
	}
	assert.True(t, strings.HasPrefix(formatValue(nil), "NULL"))
}
