//go:build blackbox

package blackbox

import (
	"database/sql"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func contains(s, sub string) bool { return strings.Contains(s, sub) }

func countRows(t *testing.T, dbPath, where string) int {
	t.Helper()

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM entries WHERE ` + where).Scan(&n); err != nil {
		t.Fatal(err)
	}
	return n
}
