// Copyright 2026 Peter Edge
//
// All rights reserved.

package foliostatement

import (
	"errors"
	"testing"

	"github.com/bufdev/folioctl/internal/folio/foliofx"
	"github.com/bufdev/folioctl/internal/folio/folioportfolio"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const swissStatement = `Depotauszug per 31.12.2024
Valor;Bezeichnung;Anzahl;Kurs;Währung;Kurswert CHF;Anteil %
Aktien
NESN;Nestlé SA;100;98.50;CHF;9'850.00;49.25%
ROG;Roche Holding AG;20;250,00;CHF;5.000,00;25%
Fonds
CSSPX;iShares Core S&P 500;10;610.00;USD;5'368.00;26.84%
Total;;;;;20'000.00;
`

const englishStatement = `Symbol,Name,Quantity,Price,Currency,Market Value
AAPL,Apple Inc.,10,190.00,USD,"1,672.00"
MSFT,Microsoft Corp.,5,400.00,USD,"1,760.00"
Cash,,,,CHF,"2,500.00"
Total Portfolio Value,,,,,"10,000.00"
`

const summaryStatement = `Portfolio Statement
Equities
NESN Nestle SA 100 98.50 CHF 9'850.00
AAPL Apple Inc 10 190.00 USD 1'900.00
Cash balance: CHF 1'000.00
Total value: CHF 15'000.00
`

const htmlStatement = `<html><body><table>
<tr><th>Symbol</th><th>Name</th><th>Quantity</th><th>Price</th><th>Currency</th><th>Value</th></tr>
<tr><td>NESN</td><td>Nestlé SA</td><td>100</td><td>98.50</td><td>CHF</td><td>9'850.00</td></tr>
<tr><td>NOVN</td><td>Novartis AG</td><td>50</td><td>90.00</td><td>CHF</td><td>4'500.00</td></tr>
<tr><td colspan="5">Total</td><td>20'000.00</td></tr>
</table></body></html>`

const activityStatement = `Statement,Header,Field Name,Field Value
Statement,Data,Title,Activity Statement
Net Asset Value,Header,Asset Class,Prior Total,Current Long,Current Short,Current Total,Change
Net Asset Value,Data,Total,21000.00,28612.40,0,"28,612.40",7612.40
Cash Report,Header,Currency Summary,Currency,Total,Securities,Futures,Month to Date,Year to Date
Cash Report,Data,Ending Cash,Base Currency Summary,"2,500.00","2,500.00",0,,
Open Positions,Header,DataDiscriminator,Asset Category,Currency,Symbol,Quantity,Mult,Cost Price,Cost Basis,Close Price,Value,Unrealized P/L,Code
Open Positions,Data,Summary,Stocks,CHF,NESN,"1,000",1,95.10,95100,87.40,"87,400",-7700,
Open Positions,Data,Summary,Stocks,USD,CSSPX,10,1,480.00,4800,610.00,6100,1300,
Financial Instrument Information,Header,Asset Category,Symbol,Description,Conid,Security ID,Underlying,Listing Exch,Multiplier,Type,Code
Financial Instrument Information,Data,Stocks,NESN,NESTLE SA-REG,3205,CH0038863350,NESN,EBS,1,COMMON,
Financial Instrument Information,Data,Stocks,CSSPX,ISHARES CORE S&P 500,75961307,IE00B5BMR087,CSSPX,EBS,1,ETF,
`

func TestParseSwissStatement(t *testing.T) {
	t.Parallel()
	portfolio := parse(t, swissStatement)

	require.Len(t, portfolio.Positions, 3)
	nestle := portfolio.Positions[0]
	require.Equal(t, "NESN", nestle.Symbol)
	require.Equal(t, "Nestlé SA", nestle.Name)
	require.Equal(t, 100.0, nestle.Quantity)
	require.Equal(t, 98.5, nestle.Price)
	require.Equal(t, "CHF", nestle.Currency)
	require.Equal(t, 9850.0, nestle.TotalValueHome)
	require.Equal(t, 49.25, nestle.PositionPercent)
	require.Equal(t, "Aktien", nestle.Category)

	roche := portfolio.Positions[1]
	require.Equal(t, 250.0, roche.Price)
	require.Equal(t, 5000.0, roche.TotalValueHome)

	fund := portfolio.Positions[2]
	require.Equal(t, "Fonds", fund.Category)
	require.Equal(t, "USD", fund.Currency)

	// The explicit total is smaller than the sum of the rows.
	require.Equal(t, 20218.0, portfolio.AccountOverview.TotalValue)
	require.Equal(t, 20218.0, portfolio.AccountOverview.SecuritiesValue)
	require.Zero(t, portfolio.AccountOverview.CashBalance)
	require.Equal(t, "Aktien", portfolio.AssetAllocation[0].Name)
	require.Equal(t, 14850.0, portfolio.AssetAllocation[0].Value)
}

func TestParseEnglishStatementExplicitTotalWins(t *testing.T) {
	t.Parallel()
	portfolio := parse(t, englishStatement)

	require.Len(t, portfolio.Positions, 2)
	require.Equal(t, "AAPL", portfolio.Positions[0].Symbol)
	require.Equal(t, 1672.0, portfolio.Positions[0].TotalValueHome)
	require.Equal(t, folioportfolio.Unknown, portfolio.Positions[0].Category)
	require.Equal(t, 2500.0, portfolio.AccountOverview.CashBalance)
	require.Equal(t, 3432.0, portfolio.AccountOverview.SecuritiesValue)
	require.Equal(t, 10000.0, portfolio.AccountOverview.TotalValue)
}

func TestParseTotalIsSumWithoutExplicitTotal(t *testing.T) {
	t.Parallel()
	portfolio := parse(t, `Symbol;Name;Quantity;Price;Value
NOVN;Novartis AG;10;90.00;900.00
UBSG;UBS Group AG;100;25.00;2'500.00
`)
	require.Len(t, portfolio.Positions, 2)
	require.InDelta(t, 3400.0, portfolio.AccountOverview.TotalValue, 1e-9)
}

func TestParseSummaryText(t *testing.T) {
	t.Parallel()
	portfolio := parse(t, summaryStatement)

	require.Len(t, portfolio.Positions, 2)
	require.Equal(t, "NESN", portfolio.Positions[0].Symbol)
	require.Equal(t, "Nestle SA", portfolio.Positions[0].Name)
	require.Equal(t, "Equities", portfolio.Positions[0].Category)
	require.Equal(t, 9850.0, portfolio.Positions[0].TotalValueHome)
	require.Equal(t, "USD", portfolio.Positions[1].Currency)
	require.InDelta(t, 1672.0, portfolio.Positions[1].TotalValueHome, 1e-6)
	require.Equal(t, 1000.0, portfolio.AccountOverview.CashBalance)
	require.Equal(t, 15000.0, portfolio.AccountOverview.TotalValue)
}

func TestParseHTML(t *testing.T) {
	t.Parallel()
	portfolio := parse(t, htmlStatement)

	require.Len(t, portfolio.Positions, 2)
	require.Equal(t, "Novartis AG", portfolio.Positions[1].Name)
	require.Equal(t, 14350.0, portfolio.AccountOverview.SecuritiesValue)
	require.Equal(t, 20000.0, portfolio.AccountOverview.TotalValue)
}

func TestParseActivityStatement(t *testing.T) {
	t.Parallel()
	portfolio := parse(t, activityStatement)

	require.Len(t, portfolio.Positions, 2)
	nestle := portfolio.Positions[0]
	require.Equal(t, "NESN", nestle.Symbol)
	require.Equal(t, "NESTLE SA-REG", nestle.Name)
	require.Equal(t, "CH0038863350", nestle.ISIN)
	require.Equal(t, 1000.0, nestle.Quantity)
	require.Equal(t, 95.1, nestle.UnitCost)
	require.Equal(t, 87400.0, nestle.TotalValueHome)
	require.Equal(t, -7700.0, *nestle.UnrealizedGainLoss)

	fund := portfolio.Positions[1]
	require.Equal(t, "ETF", fund.Category)
	require.InDelta(t, 6100*0.88, fund.TotalValueHome, 1e-6)

	require.Equal(t, 2500.0, portfolio.AccountOverview.CashBalance)
	require.InDelta(t, 87400+6100*0.88+2500, portfolio.AccountOverview.TotalValue, 1e-6)
}

func TestParsePositionalColumns(t *testing.T) {
	t.Parallel()
	portfolio := parse(t, "NESN\tNestle SA\t100\t98.50\tCHF\t9850.00\nNOVN\tNovartis AG\t50\t90.00\tCHF\t4500.00\n")

	require.Len(t, portfolio.Positions, 2)
	require.Equal(t, "Nestle SA", portfolio.Positions[0].Name)
	require.Equal(t, 100.0, portfolio.Positions[0].Quantity)
	require.Equal(t, 98.5, portfolio.Positions[0].Price)
	require.Equal(t, 4500.0, portfolio.Positions[1].TotalValueHome)
}

func TestParseNameFirstColumnsKeepsLabelLikeNames(t *testing.T) {
	t.Parallel()
	portfolio := parse(t, `Name;Symbol;Quantity;Price;Currency;Value
Total SA;TTE;10;50.00;EUR;500.00
Securities Trust of Scotland;STS;100;2.00;GBP;200.00
Cash Management Fund;CMF;10;10.00;USD;100.00
Nestle;NESN;1;100.00;CHF;100.00
Cash;;;;CHF;50.00
Total;;;;;950.00
`)
	symbols := make([]string, 0, len(portfolio.Positions))
	for _, position := range portfolio.Positions {
		symbols = append(symbols, position.Symbol)
	}
	require.Equal(t, []string{"TTE", "STS", "CMF", "NESN"}, symbols)
	require.Equal(t, "Total SA", portfolio.Positions[0].Name)
	require.Equal(t, 900.0, portfolio.AccountOverview.SecuritiesValue)
	require.Equal(t, 50.0, portfolio.AccountOverview.CashBalance)
	require.Equal(t, 950.0, portfolio.AccountOverview.TotalValue)
	for _, bucket := range portfolio.AssetAllocation {
		require.NotEqual(t, "Unallocated", bucket.Name)
	}
}

func TestParseShortPositionIsNotInSecuritiesValue(t *testing.T) {
	t.Parallel()
	portfolio := parse(t, `Symbol;Quantity;Price;Currency;Value
AAPL;-10;200.00;CHF;-2'000.00
MSFT;5;400.00;CHF;2'000.00
`)
	require.Len(t, portfolio.Positions, 2)
	require.Equal(t, -2000.0, portfolio.Positions[0].TotalValueHome)
	require.Equal(t, 2000.0, portfolio.AccountOverview.SecuritiesValue)
	require.Equal(t, 2000.0, portfolio.AccountOverview.TotalValue)
	require.Len(t, portfolio.AssetAllocation, 1)
	require.Equal(t, 100.0, portfolio.AssetAllocation[0].Percentage)
}

func TestParseDerivesMissingPrice(t *testing.T) {
	t.Parallel()
	portfolio := parse(t, `Symbol;Quantity;Value
UBSG;100;2'500.00
`)
	require.Len(t, portfolio.Positions, 1)
	require.Equal(t, 25.0, portfolio.Positions[0].Price)
	require.Equal(t, "CHF", portfolio.Positions[0].Currency)
}

func TestParseInfersCurrency(t *testing.T) {
	t.Parallel()
	portfolio := parse(t, `Symbol;Quantity;Price
NESN.SW;10;98.50
US0378331005;10;190.00
XYZ;0;0
`)
	require.Len(t, portfolio.Positions, 2)
	require.Equal(t, "CHF", portfolio.Positions[0].Currency)
	require.Equal(t, "USD", portfolio.Positions[1].Currency)
	require.Equal(t, "US0378331005", portfolio.Positions[1].ISIN)
	require.InDelta(t, 10*190*0.88, portfolio.Positions[1].TotalValueHome, 1e-6)
}

func TestParseNoPositions(t *testing.T) {
	t.Parallel()
	parser, err := NewParser()
	require.NoError(t, err)
	for _, text := range []string{
		"",
		"  \n\n",
		"Symbol;Name;Quantity;Price\n",
		"nothing to see here",
	} {
		_, err := parser.Parse(text)
		require.True(t, errors.Is(err, ErrNoPositionsFound), text)
	}
}

func TestParseDeterministic(t *testing.T) {
	t.Parallel()
	for _, text := range []string{swissStatement, englishStatement, summaryStatement, htmlStatement, activityStatement} {
		first := parse(t, text)
		second := parse(t, text)
		require.Empty(t, cmp.Diff(first, second))
	}
}

func TestNewParserHomeCurrency(t *testing.T) {
	t.Parallel()
	fxTable, err := foliofx.NewDefaultTable("EUR")
	require.NoError(t, err)
	_, err = NewParser(ParserWithFXTable(fxTable), ParserWithHomeCurrency("CHF"))
	require.Error(t, err)

	parser, err := NewParser(ParserWithHomeCurrency("eur"))
	require.NoError(t, err)
	portfolio, err := parser.Parse("Symbol;Quantity;Price;Currency\nSAP.DE;10;100.00;EUR\n")
	require.NoError(t, err)
	require.Equal(t, 1000.0, portfolio.Positions[0].TotalValueHome)
}

func parse(t *testing.T, text string) *folioportfolio.Portfolio {
	t.Helper()
	parser, err := NewParser()
	require.NoError(t, err)
	portfolio, err := parser.Parse(text)
	require.NoError(t, err)
	return portfolio
}
