package warehouse

import (
	"strconv"
	"strings"
)

// Dialect captures the SQL differences between supported warehouses. All
// statements in this module are written with `?` placeholders and rebound.
type Dialect struct {
	Name string
	// JSONType is the column type used for JSON documents.
	JSONType string
	// TimestampType is the column type used for instants.
	TimestampType string
	// FloatType is the column type used for measurements.
	FloatType string
	// dollarPlaceholders rebinds `?` to `$1, $2, ...`.
	dollarPlaceholders bool
	// jsonCast wraps a placeholder bound to JSON text.
	jsonCast func(placeholder string) string
	// insertSelect writes inserts as INSERT ... SELECT, which Snowflake needs
	// for PARSE_JSON on bound values.
	insertSelect bool
}

var (
	Snowflake = Dialect{
		Name:          "snowflake",
		JSONType:      "VARIANT",
		TimestampType: "TIMESTAMP_NTZ",
		FloatType:     "FLOAT",
		jsonCast:      func(p string) string { return "PARSE_JSON(" + p + ")" },
		insertSelect:  true,
	}
	DuckDB = Dialect{
		Name:          "duckdb",
		JSONType:      "VARCHAR",
		TimestampType: "TIMESTAMP",
		FloatType:     "DOUBLE",
		jsonCast:      func(p string) string { return p },
	}
	Postgres = Dialect{
		Name:               "postgres",
		JSONType:           "JSONB",
		TimestampType:      "TIMESTAMPTZ",
		FloatType:          "DOUBLE PRECISION",
		dollarPlaceholders: true,
		jsonCast:           func(p string) string { return "CAST(" + p + " AS JSONB)" },
	}
)

// Rebind rewrites `?` placeholders for the dialect. Question marks inside
// single-quoted literals are left alone.
func (d Dialect) Rebind(query string) string {
	if !d.dollarPlaceholders {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for i := 0; i < len(query); i++ {
		ch := query[i]
		switch {
		case ch == '\'':
			inQuote = !inQuote
			b.WriteByte(ch)
		case ch == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}

// JSONParam returns the bind expression for a JSON text parameter.
func (d Dialect) JSONParam() string {
	return d.jsonCast("?")
}

// Column names one column of an insert and whether its value is JSON text.
type Column struct {
	Name string
	JSON bool
}

// Cols is shorthand for a list of plain columns.
func Cols(names ...string) []Column {
	cols := make([]Column, len(names))
	for i, n := range names {
		cols[i] = Column{Name: n}
	}
	return cols
}

// JSONCol marks a column as carrying JSON text.
func JSONCol(name string) Column {
	return Column{Name: name, JSON: true}
}

// InsertSQL builds a parameterized single-row insert in `?` form. Callers
// pass the result through Rebind (DB.Exec does this).
func (d Dialect) InsertSQL(table string, cols []Column) string {
	names := make([]string, len(cols))
	params := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
		params[i] = "?"
		if c.JSON {
			params[i] = d.JSONParam()
		}
	}
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(table)
	b.WriteString(" (")
	b.WriteString(strings.Join(names, ", "))
	if d.insertSelect {
		b.WriteString(") SELECT ")
		b.WriteString(strings.Join(params, ", "))
	} else {
		b.WriteString(") VALUES (")
		b.WriteString(strings.Join(params, ", "))
		b.WriteString(")")
	}
	return b.String()
}
