package journal

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/sltp/ledger"
	"github.com/rustyeddy/sltp/pkg/id"
)

// FormatEntryOrg renders an entry as an Org-mode block suitable for pasting
// into a journal. Structured facts go in a PROPERTIES drawer; trades get
// narrative placeholders for the write-up.
func FormatEntryOrg(e ledger.Entry) string {
	var b strings.Builder
	if e.IsWithdrawal() {
		fmt.Fprintf(&b, "** Withdrawal: %s (%s)\n", e.PnL.Abs().StringFixed(2), shortID(e.ID))
	} else {
		fmt.Fprintf(&b, "** Trade: %s %s (%s)\n", e.Pair, e.Direction, shortID(e.ID))
	}
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":ID: %s\n", e.ID)
	fmt.Fprintf(&b, ":DATE: %s\n", e.Date)
	fmt.Fprintf(&b, ":PAIR: %s\n", e.Pair)
	fmt.Fprintf(&b, ":DIRECTION: %s\n", e.Direction)
	fmt.Fprintf(&b, ":PNL: %s\n", e.PnL.StringFixed(2))
	fmt.Fprintf(&b, ":FEE: %s\n", e.Fee.Abs().StringFixed(2))
	fmt.Fprintf(&b, ":NET_PNL: %s\n", e.NetPnL().StringFixed(2))
	if created, err := id.Time(e.ID); err == nil {
		fmt.Fprintf(&b, ":CREATED: [%s]\n", created.Format("2006-01-02 Mon 15:04"))
	}
	b.WriteString(":END:\n")

	if e.Notes != "" {
		b.WriteString("\n")
		b.WriteString(e.Notes)
		b.WriteString("\n")
	}
	if e.IsWithdrawal() {
		return b.String()
	}

	b.WriteString("\n")
	b.WriteString("*** Thesis\n- \n\n")
	b.WriteString("*** Execution\n- \n\n")
	b.WriteString("*** Review\n- \n")
	return b.String()
}

// FormatEntriesOrg renders multiple entries separated by blank lines.
func FormatEntriesOrg(entries []ledger.Entry) string {
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatEntryOrg(e))
	}
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}
