// Copyright 2026 Peter Edge
//
// All rights reserved.

package foliostatement

import (
	"regexp"
	"strings"

	"github.com/bufdev/folioctl/internal/folio/foliodata"
	"github.com/bufdev/folioctl/internal/folio/folioportfolio"
	"github.com/bufdev/folioctl/internal/pkg/localenumber"
	"github.com/bufdev/folioctl/internal/pkg/tabular"
)

type labelKind int

const (
	labelKindNone labelKind = iota
	labelKindSecurities
	labelKindCash
	labelKindGrandTotal
	labelKindSubtotal
)

var (
	// numberPattern matches the first number of a line, including accounting
	// negatives and apostrophe grouping.
	numberPattern = regexp.MustCompile(`\(?[-−]?\d[\d'’ʼ.,]*\)?-?`)
	// loosePositionPattern matches "SYMBOL NAME... QUANTITY PRICE CURRENCY TOTAL".
	loosePositionPattern = regexp.MustCompile(
		`^([A-Za-z0-9][A-Za-z0-9.\-]{0,13})\s+(.+?)\s+(-?[\d'’.,]+)\s+(-?[\d'’.,]+)\s+([A-Za-z]{3})\s+(-?[\d'’.,]+)$`,
	)
)

// parseSummaryText parses labelled totals and loose position lines.
//
// Lines with a single heading such as "Equities" set the category of the
// following position lines.
func (p *parser) parseSummaryText(_ string, lines []string) (*statement, error) {
	statement := &statement{}
	category := ""
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if position, ok := p.parseLoosePosition(line, category); ok {
			statement.positions = append(statement.positions, position)
			continue
		}
		if labelled, ok := p.parseLabelledLine(line); ok {
			statement.totals.merge(labelled)
			continue
		}
		if tabular.IsCategoryLine(line) && p.labelKind(line) == labelKindNone {
			category = line
			continue
		}
		p.logger.Debug("ignoring summary line", "line", i+1)
	}
	return statement, nil
}

// parseLoosePosition parses a "SYMBOL NAME... QUANTITY PRICE CURRENCY TOTAL" line.
//
// The total is in the stated currency.
func (p *parser) parseLoosePosition(line string, category string) (*folioportfolio.Position, bool) {
	match := loosePositionPattern.FindStringSubmatch(line)
	if match == nil {
		return nil, false
	}
	symbol, name := match[1], strings.TrimSpace(match[2])
	currency, ok := localenumber.CurrencyCode(match[5])
	if !ok || p.labelKind(symbol+" "+name) != labelKindNone {
		return nil, false
	}
	quantity, hasQuantity := localenumber.Parse(match[3])
	price, hasPrice := localenumber.Parse(match[4])
	total, hasTotal := localenumber.Parse(match[6])
	if !hasQuantity || !hasPrice || (quantity <= 0 && price <= 0 && total <= 0) {
		return nil, false
	}
	totalValueHome := p.fxTable.ToHome(total, currency)
	if !hasTotal || total <= 0 {
		totalValueHome = p.fxTable.ToHome(quantity*price, currency)
	}
	if !isFinite(totalValueHome) {
		return nil, false
	}
	position := &folioportfolio.Position{
		Symbol:         symbol,
		Name:           name,
		Quantity:       quantity,
		Price:          price,
		Currency:       currency,
		TotalValueHome: totalValueHome,
		Category:       folioportfolio.ValueOrUnknown(category),
	}
	if foliodata.IsISIN(symbol) {
		position.ISIN = strings.ToUpper(symbol)
	}
	return position, true
}

// parseLabelledLine parses a line such as "Total value: CHF 12'345.00".
//
// The label is the text before the first number. A currency named in the
// label or after the number converts the amount into the home currency.
func (p *parser) parseLabelledLine(line string) (totals, bool) {
	location := numberPattern.FindStringIndex(line)
	if location == nil {
		return totals{}, false
	}
	label := line[:location[0]]
	kind := p.labelKind(label)
	if kind == labelKindNone || kind == labelKindSubtotal {
		return totals{}, false
	}
	amount, ok := localenumber.Parse(line[location[0]:location[1]])
	if !ok {
		return totals{}, false
	}
	currency := p.fxTable.HomeCurrency()
	if code, ok := localenumber.CurrencyCodeIn(label); ok {
		currency = code
	} else if code, ok := localenumber.CurrencyCodeIn(line[location[1]:]); ok {
		currency = code
	}
	var labelled totals
	p.recordLabel(&labelled, kind, p.fxTable.ToHome(amount, currency))
	return labelled, true
}

// labelKind classifies a row or line label.
//
// Securities labels are checked first since "Total Securities" also starts with a total keyword.
func (p *parser) labelKind(label string) labelKind {
	normalized := stripCurrencyWords(tabular.NormalizeLabel(label))
	if normalized == "" {
		return labelKindNone
	}
	switch {
	case p.tables.IsSecuritiesLabel(normalized):
		return labelKindSecurities
	case p.tables.IsCashLabel(normalized):
		return labelKindCash
	case p.tables.IsGrandTotalLabel(normalized):
		return labelKindGrandTotal
	case p.tables.IsSubtotalLabel(normalized):
		return labelKindSubtotal
	default:
		return labelKindNone
	}
}

// recordLabel records an amount in the home currency under the label kind.
func (p *parser) recordLabel(t *totals, kind labelKind, amount float64) {
	if !isFinite(amount) || amount <= 0 {
		return
	}
	switch kind {
	case labelKindSecurities:
		t.securitiesValue = max(t.securitiesValue, amount)
	case labelKindCash:
		t.cashBalance += amount
	case labelKindGrandTotal:
		t.grandTotal = max(t.grandTotal, amount)
	}
}

// stripCurrencyWords removes leading and trailing currency codes from a normalized label.
//
// "total chf" becomes "total".
func stripCurrencyWords(normalized string) string {
	words := strings.Fields(normalized)
	for len(words) > 0 {
		if _, ok := localenumber.CurrencyCode(words[len(words)-1]); !ok {
			break
		}
		words = words[:len(words)-1]
	}
	for len(words) > 0 {
		if _, ok := localenumber.CurrencyCode(words[0]); !ok {
			break
		}
		words = words[1:]
	}
	return strings.Join(words, " ")
}
