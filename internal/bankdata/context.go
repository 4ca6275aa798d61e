package bankdata

import (
	"fmt"
	"strings"
)

// CaseContext renders an account record and its recent transactions into
// the evidence text an analysis prompt carries. The output is plain text
// a model reads directly; nothing downstream parses it back.
func CaseContext(acct *Account, txns []Transaction) string {
	var b strings.Builder

	if acct != nil {
		fmt.Fprintf(&b, "Account %s: holder %s, status %s, balance %s, opened %s.\n",
			acct.ID, acct.Holder, acct.Status,
			money(acct.Balance, acct.Currency),
			acct.OpenedAt.Format("2006-01-02"))
	}

	if len(txns) == 0 {
		b.WriteString("No recent transactions on record.")
		return b.String()
	}

	b.WriteString("Recent transactions (newest first):\n")
	for _, t := range txns {
		fmt.Fprintf(&b, "  %s  %s  %s", t.BookedAt.Format("2006-01-02"), money(t.Amount, t.Currency), t.Counterparty)
		if t.Reference != "" {
			fmt.Fprintf(&b, "  (ref %s)", t.Reference)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// money renders a minor-unit amount as a decimal with the currency code.
// Two decimal places cover the currencies the records API serves.
func money(minor int64, currency string) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d %s", sign, minor/100, minor%100, currency)
}
