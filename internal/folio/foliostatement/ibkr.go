// Copyright 2026 Peter Edge
//
// All rights reserved.

package foliostatement

import (
	"strings"

	"github.com/bufdev/folioctl/internal/folio/foliodata"
	"github.com/bufdev/folioctl/internal/folio/folioportfolio"
	"github.com/bufdev/folioctl/internal/pkg/ibkractivitycsv"
	"github.com/bufdev/folioctl/internal/pkg/localenumber"
)

// parseIBKRActivity parses an IBKR Activity Statement CSV.
//
// Position values are in the position currency. The ending cash and net asset
// value are taken to be in the home currency.
func (p *parser) parseIBKRActivity(text string, _ []string) (*statement, error) {
	if !ibkractivitycsv.IsActivityStatement(text) {
		return nil, nil
	}
	activityStatement, err := ibkractivitycsv.Parse(strings.NewReader(text))
	if err != nil {
		return nil, err
	}
	infos := activityStatement.InstrumentInfoBySymbol()
	statement := &statement{}
	for _, ibkrPosition := range activityStatement.Positions {
		quantity, hasQuantity := localenumber.Parse(ibkrPosition.Quantity)
		price, hasPrice := localenumber.Parse(ibkrPosition.ClosePrice)
		if !hasQuantity || !hasPrice || (quantity == 0 && price == 0) {
			p.logger.Debug("dropping activity statement position", "symbol", ibkrPosition.Symbol)
			continue
		}
		currency := strings.ToUpper(ibkrPosition.CurrencyCode)
		if currency == "" {
			currency = p.inferCurrency(ibkrPosition.Symbol, "")
		}
		value, hasValue := localenumber.Parse(ibkrPosition.Value)
		if !hasValue || value <= 0 {
			value = quantity * price
		}
		info := infos[ibkrPosition.Symbol]
		position := &folioportfolio.Position{
			Symbol:         ibkrPosition.Symbol,
			Name:           info.Description,
			Quantity:       quantity,
			Price:          price,
			UnitCost:       localenumber.ParseLocaleNumber(ibkrPosition.CostPrice),
			Currency:       currency,
			TotalValueHome: p.fxTable.ToHome(value, currency),
			Category:       folioportfolio.ValueOrUnknown(ibkrPosition.AssetCategory),
		}
		if p.tables.IsFundInstrumentType(info.InstrumentType) {
			position.Category = info.InstrumentType
			position.InstrumentType = info.InstrumentType
		}
		if foliodata.IsISIN(info.SecurityID) {
			position.ISIN = strings.ToUpper(info.SecurityID)
		}
		if gainLoss, ok := localenumber.Parse(ibkrPosition.UnrealizedPL); ok {
			position.UnrealizedGainLoss = &gainLoss
		}
		statement.positions = append(statement.positions, position)
	}
	if cash, ok := localenumber.Parse(activityStatement.EndingCash); ok && cash > 0 {
		statement.totals.cashBalance = cash
	}
	if total, ok := localenumber.Parse(activityStatement.NetAssetValueTotal); ok && total > 0 {
		statement.totals.grandTotal = total
	}
	return statement, nil
}
