package journal

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/rustyeddy/sltp/ledger"
	"github.com/shopspring/decimal"
)

var csvHeader = []string{"id", "pair", "direction", "pnl", "fee", "date", "notes"}

// WriteCSV writes entries with a header row. Amounts keep their full decimal
// precision.
func WriteCSV(w io.Writer, entries []ledger.Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, e := range entries {
		err := cw.Write([]string{
			e.ID,
			e.Pair,
			string(e.Direction),
			e.PnL.String(),
			e.Fee.String(),
			e.Date,
			e.Notes,
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses what WriteCSV writes. Columns are matched by header name so
// their order does not matter; id and notes may be missing. Every row is
// validated.
func ReadCSV(r io.Reader) ([]ledger.Entry, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []ledger.Entry{}, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[h] = i
	}
	for _, req := range []string{"pair", "direction", "pnl", "fee", "date"} {
		if _, ok := col[req]; !ok {
			return nil, fmt.Errorf("csv header missing %q column", req)
		}
	}
	field := func(rec []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	out := []ledger.Entry{}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		pnl, err := decimal.NewFromString(field(rec, "pnl"))
		if err != nil {
			return nil, fmt.Errorf("line %d: pnl: %w", line, err)
		}
		fee, err := decimal.NewFromString(field(rec, "fee"))
		if err != nil {
			return nil, fmt.Errorf("line %d: fee: %w", line, err)
		}
		e := ledger.Entry{
			ID:        field(rec, "id"),
			Pair:      field(rec, "pair"),
			Direction: ledger.Direction(field(rec, "direction")),
			PnL:       pnl,
			Fee:       fee,
			Date:      field(rec, "date"),
			Notes:     field(rec, "notes"),
		}
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, e)
	}
	return out, nil
}
