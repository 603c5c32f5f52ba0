package sqlsource

import (
	"regexp"
	"strconv"
	"strings"
)

var identifierRegexp = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Dialect describes how statements are written for a database.
type Dialect struct {
	Name        string
	Quote       func(ident string) string
	Placeholder func(n int) string
}

// Dialects for the drivers wired in this module.
var (
	SQLite = Dialect{
		Name:        "sqlite",
		Quote:       doubleQuote,
		Placeholder: questionMark,
	}
	Postgres = Dialect{
		Name:        "postgres",
		Quote:       doubleQuote,
		Placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
	}
	MySQL = Dialect{
		Name:        "mysql",
		Quote:       func(ident string) string { return "`" + ident + "`" },
		Placeholder: questionMark,
	}
)

// DialectFor returns the dialect matching a database/sql driver name.
func DialectFor(driver string) (Dialect, bool) {
	switch strings.ToLower(driver) {
	case "sqlite", "sqlite3":
		return SQLite, true
	case "pgx", "postgres", "postgresql":
		return Postgres, true
	case "mysql":
		return MySQL, true
	}
	return Dialect{}, false
}

func doubleQuote(ident string) string {
	return `"` + ident + `"`
}

func questionMark(int) string {
	return "?"
}

// validIdentifier reports whether s can be quoted safely as a table or
// column name.
func validIdentifier(s string) bool {
	return identifierRegexp.MatchString(s)
}
