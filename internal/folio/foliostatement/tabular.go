// Copyright 2026 Peter Edge
//
// All rights reserved.

package foliostatement

import (
	"math"
	"strings"

	"github.com/bufdev/folioctl/internal/folio/foliodata"
	"github.com/bufdev/folioctl/internal/folio/folioportfolio"
	"github.com/bufdev/folioctl/internal/pkg/htmltable"
	"github.com/bufdev/folioctl/internal/pkg/localenumber"
	"github.com/bufdev/folioctl/internal/pkg/tabular"
)

// parseHTML converts HTML tables to tab-separated lines and parses them as a table.
func (p *parser) parseHTML(text string, _ []string) (*statement, error) {
	if !htmltable.Contains(text) {
		return nil, nil
	}
	lines, err := htmltable.Lines(text)
	if err != nil {
		return nil, err
	}
	return p.parseTabular(text, lines)
}

// parseTabular parses delimited lines.
//
// Lines outside the table are searched for labelled totals.
func (p *parser) parseTabular(_ string, lines []string) (*statement, error) {
	structure := tabular.DetectStructure(lines)
	if !structure.HasDelimiter() {
		return nil, nil
	}
	extraction := tabular.Extract(lines, structure)
	statement := &statement{}
	for _, row := range extraction.Rows {
		if position, ok := p.rowToPosition(row, structure, &statement.totals); ok {
			statement.positions = append(statement.positions, position)
		}
	}
	for _, line := range extraction.LooseLines {
		if labelled, ok := p.parseLabelledLine(line); ok {
			statement.totals.merge(labelled)
		}
	}
	return statement, nil
}

// rowToPosition converts a raw row into a position.
//
// Total, subtotal, and cash rows are not positions. Their amounts are recorded in rowTotals.
// A row is only read as such a label row if it is not a position, see isLabelRow.
func (p *parser) rowToPosition(row tabular.RawRow, structure *tabular.Structure, rowTotals *totals) (*folioportfolio.Position, bool) {
	cell := func(field tabular.Field) string {
		return structure.Cell(row.Cells, field)
	}
	quantity, hasQuantity := localenumber.Parse(cell(tabular.FieldQuantity))
	price, hasPrice := localenumber.Parse(cell(tabular.FieldPrice))
	total, hasTotal := localenumber.Parse(cell(tabular.FieldTotalValue))
	currency := p.rowCurrency(cell)
	symbol, isin := p.rowSymbol(row.Cells, structure)

	if label := rowLabel(row.Cells); label != "" && isLabelRow(label, symbol, hasQuantity, hasPrice) {
		if kind := p.labelKind(label); kind != labelKindNone {
			amount := total
			if !hasTotal {
				amount = lastNumber(row.Cells)
			}
			p.recordLabel(rowTotals, kind, p.fxTable.ToHome(amount, currencyOrHome(currency, p.fxTable.HomeCurrency())))
			return nil, false
		}
	}
	category := row.Category
	if category == "" {
		category = cell(tabular.FieldCategory)
	}
	if p.tables.IsCashCategory(category) && !hasQuantity && !hasPrice {
		if hasTotal && total > 0 {
			rowTotals.cashBalance += p.fxTable.ToHome(total, currencyOrHome(currency, p.fxTable.HomeCurrency()))
		}
		return nil, false
	}

	if symbol == "" {
		p.logger.Debug("dropping row without symbol", "line", row.LineIndex+1)
		return nil, false
	}
	if currency == "" {
		currency = p.inferCurrency(symbol, isin)
	}
	rate := p.fxTable.RateOrOne(currency)
	if !hasPrice && hasQuantity && hasTotal && quantity != 0 && rate != 0 {
		price = total / (quantity * rate)
		hasPrice = true
	}
	if !hasQuantity || !hasPrice {
		p.logger.Debug("dropping row without quantity or price", "line", row.LineIndex+1, "symbol", symbol)
		return nil, false
	}
	if quantity <= 0 && price <= 0 && (!hasTotal || total <= 0) {
		p.logger.Debug("dropping placeholder row", "line", row.LineIndex+1, "symbol", symbol)
		return nil, false
	}
	totalValueHome := total
	if !hasTotal || total <= 0 {
		totalValueHome = quantity * price * rate
	}
	if !isFinite(quantity) || !isFinite(price) || !isFinite(totalValueHome) {
		p.logger.Debug("dropping row with non-finite values", "line", row.LineIndex+1, "symbol", symbol)
		return nil, false
	}

	position := &folioportfolio.Position{
		Symbol:         symbol,
		Name:           cell(tabular.FieldName),
		Quantity:       quantity,
		Price:          price,
		UnitCost:       localenumber.ParseLocaleNumber(cell(tabular.FieldUnitCost)),
		Currency:       currency,
		TotalValueHome: totalValueHome,
		Category:       folioportfolio.ValueOrUnknown(category),
		Domicile:       normalizeDomicile(cell(tabular.FieldDomicile)),
		ISIN:           isin,
		Sector:         cell(tabular.FieldSector),
	}
	if percent, ok := localenumber.ParsePercent(cell(tabular.FieldPositionPercent)); ok {
		position.PositionPercent = percent
	}
	if percent, ok := localenumber.ParsePercent(cell(tabular.FieldDailyChangePercent)); ok {
		position.DailyChangePercent = percent
	}
	if gainLoss, ok := localenumber.Parse(cell(tabular.FieldUnrealizedGainLoss)); ok {
		position.UnrealizedGainLoss = &gainLoss
	}
	return position, true
}

// rowSymbol returns the symbol and ISIN of the row.
//
// The ISIN is used as symbol when the symbol is empty. Without a symbol or ISIN
// column, the first cell is the symbol.
func (p *parser) rowSymbol(cells []string, structure *tabular.Structure) (string, string) {
	symbol := structure.Cell(cells, tabular.FieldSymbol)
	isin := structure.Cell(cells, tabular.FieldISIN)
	_, hasSymbolColumn := structure.Column(tabular.FieldSymbol)
	_, hasISINColumn := structure.Column(tabular.FieldISIN)
	if !hasSymbolColumn && !hasISINColumn && len(cells) > 0 {
		symbol = cells[0]
	}
	if !foliodata.IsISIN(isin) {
		isin = ""
	}
	if isin == "" {
		for _, cell := range cells {
			if foliodata.IsISIN(cell) {
				isin = strings.ToUpper(cell)
				break
			}
		}
	}
	if symbol == "" {
		symbol = isin
	}
	symbol = strings.TrimSpace(symbol)
	if localenumber.IsNumeric(symbol) && !isValor(symbol) {
		return "", isin
	}
	return symbol, isin
}

// rowCurrency returns the currency of the currency column, or the currency
// embedded in the price or total cell, or "" if none.
func (p *parser) rowCurrency(cell func(tabular.Field) string) string {
	if code, ok := localenumber.CurrencyCode(cell(tabular.FieldCurrency)); ok {
		return code
	}
	for _, field := range []tabular.Field{tabular.FieldPrice, tabular.FieldTotalValue} {
		if code, ok := localenumber.CurrencyCodeIn(cell(field)); ok {
			return code
		}
	}
	return ""
}

// inferCurrency infers the currency from the symbol or ISIN, defaulting to the home currency.
func (p *parser) inferCurrency(symbol string, isin string) string {
	if currency, ok := p.tables.InferCurrency(symbol, isin); ok {
		return currency
	}
	return p.fxTable.HomeCurrency()
}

// rowLabel returns the first non-empty, non-numeric cell.
func rowLabel(cells []string) string {
	for _, cell := range cells {
		if cell != "" && !localenumber.IsNumeric(cell) && !localenumber.IsPercent(cell) {
			return cell
		}
	}
	return ""
}

// isLabelRow returns true if the row can be a total or cash row.
//
// A row with its own symbol and a quantity or price is a position, even if its
// name reads like a label.
func isLabelRow(label string, symbol string, hasQuantity bool, hasPrice bool) bool {
	if symbol == "" || strings.EqualFold(symbol, label) {
		return true
	}
	return !hasQuantity && !hasPrice
}

// lastNumber returns the last numeric cell of the row, or 0.
func lastNumber(cells []string) float64 {
	for i := len(cells) - 1; i >= 0; i-- {
		if localenumber.IsNumeric(cells[i]) {
			return localenumber.ParseLocaleNumber(cells[i])
		}
	}
	return 0
}

// isValor returns true for Swiss valor numbers, which are numeric security identifiers.
func isValor(symbol string) bool {
	if len(symbol) < 5 || len(symbol) > 9 {
		return false
	}
	for _, r := range symbol {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func normalizeDomicile(domicile string) string {
	domicile = strings.TrimSpace(domicile)
	if len(domicile) == 2 {
		return strings.ToUpper(domicile)
	}
	return domicile
}

func currencyOrHome(currency string, homeCurrency string) string {
	if currency == "" {
		return homeCurrency
	}
	return currency
}

func isFinite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}
