package database

import (
	"fmt"
	"strconv"
	"strings"
)

// Supported dialect names.
const (
	DialectPostgres = "postgres"
	DialectMySQL    = "mysql"
	DialectSQLite   = "sqlite"
)

var ErrUnsupportedDriver = fmt.Errorf("unsupported database driver")

// Dialect captures the SQL syntax differences between the supported drivers.
type Dialect struct {
	Name       string
	DriverName string // name registered with database/sql
	identQuote string
	numbered   bool // $1, $2 ... instead of ?
}

// DialectFor returns the dialect for a configured driver name.
func DialectFor(driver string) (Dialect, error) {
	switch strings.ToLower(driver) {
	case DialectPostgres, "postgresql":
		return Dialect{Name: DialectPostgres, DriverName: "postgres", identQuote: `"`, numbered: true}, nil
	case DialectMySQL:
		return Dialect{Name: DialectMySQL, DriverName: "mysql", identQuote: "`"}, nil
	case DialectSQLite, "sqlite3":
		return Dialect{Name: DialectSQLite, DriverName: "sqlite", identQuote: `"`, numbered: true}, nil
	}
	return Dialect{}, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
}

// Placeholder returns the bind marker for the n-th (1-based) argument.
func (d Dialect) Placeholder(n int) string {
	if d.numbered {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// QuoteIdent quotes an identifier that already passed ValidateIdentifier.
func (d Dialect) QuoteIdent(name string) string {
	return d.identQuote + name + d.identQuote
}
