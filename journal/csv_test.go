package journal

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rustyeddy/sltp/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	e := entry("BTC/USD", "150.125", "2.50", "2025-12-02")
	e.ID = "01JF"
	e.Notes = "breakout, then scaled out"

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []ledger.Entry{e}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "id,pair,direction,pnl,fee,date,notes", lines[0])
	assert.Equal(t, `01JF,BTC/USD,long,150.125,2.5,2025-12-02,"breakout, then scaled out"`, lines[1])
}

func TestCSVReadBack(t *testing.T) {
	t.Parallel()

	in := []ledger.Entry{
		entry("BTC/USD", "150", "2.5", "2025-12-02"),
		ledger.NewWithdrawal(d("500"), "2025-12-03", ""),
	}
	in[0].ID = "A"
	in[1].ID = "B"

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, in))

	out, err := ReadCSV(&buf)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "A", out[0].ID)
	assert.True(t, out[0].PnL.Equal(d("150")))
	assert.True(t, out[1].IsWithdrawal())
	assert.True(t, out[1].PnL.Equal(d("-500")))
}

func TestReadCSVColumnOrderAndOptionalFields(t *testing.T) {
	t.Parallel()

	src := "date,pair,pnl,fee,direction\n2025-12-05, ETH/USD, 85, 1.5, short\n"
	out, err := ReadCSV(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "", out[0].ID)
	assert.Equal(t, "ETH/USD", out[0].Pair)
	assert.Equal(t, ledger.Short, out[0].Direction)
}

func TestReadCSVErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{"missing column", "pair,pnl,fee,date\nBTC/USD,1,0,2025-12-01\n", `missing "direction"`},
		{"bad pnl", "pair,direction,pnl,fee,date\nBTC/USD,long,abc,0,2025-12-01\n", "line 2: pnl"},
		{"bad date", "pair,direction,pnl,fee,date\nBTC/USD,long,1,0,yesterday\n", "line 2"},
		{"bad direction", "pair,direction,pnl,fee,date\nBTC/USD,sideways,1,0,2025-12-01\n", "direction"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ReadCSV(strings.NewReader(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}

	out, err := ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, out)
}
