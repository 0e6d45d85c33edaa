//go:build blackbox

package blackbox

import (
	"path/filepath"
	"testing"
)

func TestJournalRoundTrip(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "sltp.db")

	// the default config keeps the journal at ./sltp.db
	run(t, dir, "config", "init", "-o", "sltp.yaml")

	out := run(t, dir, "add", "--pair", "BTC/USD", "--pnl", "150", "--fee", "2.5", "--date", "2025-12-02")
	if !contains(out, "Day 2025-12-02") {
		t.Fatalf("expected day summary, got:\n%s", out)
	}
	run(t, dir, "add", "--pair", "ETH/USD", "--direction", "short", "--pnl", "-45", "--fee", "1", "--date", "2025-12-03")
	run(t, dir, "withdraw", "200", "--date", "2025-12-04")

	if n := countRows(t, dbPath, "1=1"); n != 3 {
		t.Fatalf("expected 3 entries, got %d", n)
	}
	if n := countRows(t, dbPath, "pair = 'WITHDRAWAL' AND pnl = '-200'"); n != 1 {
		t.Fatalf("expected the withdrawal stored as -200, got %d rows", n)
	}

	out = run(t, dir, "stats")
	if !contains(out, "Trades:        2") {
		t.Fatalf("withdrawal leaked into stats:\n%s", out)
	}

	csvPath := filepath.Join(dir, "export.csv")
	run(t, dir, "export", "-o", csvPath)

	other := t.TempDir()
	run(t, other, "config", "init", "-o", "sltp.yaml")
	out = run(t, other, "import", csvPath)
	if !contains(out, "Imported 3 entries") {
		t.Fatalf("unexpected import output:\n%s", out)
	}
}
