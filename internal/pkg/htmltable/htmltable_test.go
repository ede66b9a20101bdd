// Copyright 2026 Peter Edge
//
// All rights reserved.

package htmltable

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLines(t *testing.T) {
	t.Parallel()
	html := `<html><body>
<table>
  <caption>Equities</caption>
  <tr><th>Symbol</th><th>Name</th><th>Quantity</th><th>Price</th></tr>
  <tr><td>NESN</td><td>Nestlé
    SA</td><td>100</td><td>98.50</td></tr>
  <tr><td colspan="2">Total</td><td></td><td>9'850.00</td></tr>
</table>
</body></html>`
	require.True(t, Contains(html))
	lines, err := Lines(html)
	require.NoError(t, err)
	require.Equal(
		t,
		[]string{
			"Equities",
			"Symbol\tName\tQuantity\tPrice",
			"NESN\tNestlé SA\t100\t98.50",
			"Total\t\t\t9'850.00",
		},
		lines,
	)
}

func TestLinesNoTable(t *testing.T) {
	t.Parallel()
	require.False(t, Contains("Symbol;Name"))
	lines, err := Lines("<p>nothing</p>")
	require.NoError(t, err)
	require.Empty(t, lines)
}
