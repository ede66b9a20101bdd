// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package ibkractivitycsv parses IBKR Activity Statement CSV files.
//
// Activity Statement CSVs are multi-section files where each row starts with
// a section name and row type (Header, Data, SubTotal, Total). Different sections
// have different column layouts, so columns are looked up by header name. This
// parser extracts open positions, financial instrument information, the ending
// cash balance, and the net asset value total.
//
// Account Information sections are intentionally skipped to avoid reading
// identifying information like account numbers.
package ibkractivitycsv

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

const (
	sectionOpenPositions       = "Open Positions"
	sectionInstrumentInfo      = "Financial Instrument Information"
	sectionNetAssetValue       = "Net Asset Value"
	sectionCashReport          = "Cash Report"
	sectionAccountInformation  = "Account Information"
	sectionStatement           = "Statement"
	rowTypeHeader              = "Header"
	rowTypeData                = "Data"
	dataDiscriminatorSummary   = "Summary"
	cashReportEndingCash       = "Ending Cash"
	cashReportBaseCurrencyName = "Base Currency Summary"
)

// ActivityStatement contains the parsed sections of an Activity Statement CSV.
type ActivityStatement struct {
	// Positions contains open position summaries.
	Positions []Position
	// InstrumentInfos contains financial instrument metadata.
	InstrumentInfos []InstrumentInfo
	// NetAssetValueTotal is the current total net asset value in the base currency, "" if absent.
	NetAssetValueTotal string
	// EndingCash is the ending cash balance in the base currency, "" if absent.
	EndingCash string
}

// Position represents an open position summary.
type Position struct {
	Symbol        string
	AssetCategory string
	CurrencyCode  string
	Quantity      string
	CostPrice     string
	ClosePrice    string
	Value         string
	UnrealizedPL  string
}

// InstrumentInfo contains financial instrument metadata.
type InstrumentInfo struct {
	AssetCategory   string
	Symbol          string
	Description     string
	Conid           string
	SecurityID      string
	ListingExchange string
	InstrumentType  string
}

// InstrumentInfoBySymbol returns the instrument information keyed by symbol.
func (s *ActivityStatement) InstrumentInfoBySymbol() map[string]InstrumentInfo {
	infos := make(map[string]InstrumentInfo, len(s.InstrumentInfos))
	for _, info := range s.InstrumentInfos {
		infos[info.Symbol] = info
	}
	return infos
}

// IsActivityStatement returns true if the text looks like an Activity Statement CSV.
func IsActivityStatement(text string) bool {
	scanner := bufio.NewScanner(strings.NewReader(text))
	for i := 0; i < 50 && scanner.Scan(); i++ {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, sectionStatement+","+rowTypeHeader) ||
			strings.HasPrefix(line, sectionOpenPositions+","+rowTypeHeader) {
			return true
		}
	}
	return false
}

// Parse parses an Activity Statement CSV.
func Parse(reader io.Reader) (*ActivityStatement, error) {
	csvReader := csv.NewReader(reader)
	// Allow variable number of fields per record (sections have different column counts).
	csvReader.FieldsPerRecord = -1
	// Don't treat leading spaces as significant.
	csvReader.TrimLeadingSpace = true
	csvReader.LazyQuotes = true

	statement := &ActivityStatement{}
	// Track the current header for each section to map column names.
	sectionHeaders := make(map[string]header)

	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV: %w", err)
		}
		if len(record) < 2 {
			continue
		}
		sectionName := strings.TrimPrefix(record[0], "\ufeff")
		rowType := record[1]

		// Skip Account Information entirely — contains identifying info.
		if sectionName == sectionAccountInformation {
			continue
		}

		// Track headers for each section.
		if rowType == rowTypeHeader {
			sectionHeaders[sectionName] = newHeader(record)
			continue
		}

		// Only process Data rows (skip SubTotal, Total, Notes).
		if rowType != rowTypeData {
			continue
		}

		header := sectionHeaders[sectionName]
		switch sectionName {
		case sectionOpenPositions:
			parsePosition(record, header, statement)
		case sectionInstrumentInfo:
			parseInstrumentInfo(record, header, statement)
		case sectionNetAssetValue:
			parseNetAssetValue(record, header, statement)
		case sectionCashReport:
			parseCashReport(record, header, statement)
		}
	}
	return statement, nil
}

// *** PRIVATE ***

// header maps column names to indexes within a section.
type header map[string]int

func newHeader(record []string) header {
	h := make(header, len(record))
	for i, name := range record {
		if _, ok := h[name]; !ok {
			h[name] = i
		}
	}
	return h
}

// get returns the value of the named column, or "" if absent.
func (h header) get(record []string, name string) string {
	index, ok := h[name]
	if !ok || index >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[index])
}

// parsePosition parses an Open Positions,Data row. Only processes Summary rows.
func parsePosition(record []string, h header, statement *ActivityStatement) {
	if discriminator := h.get(record, "DataDiscriminator"); discriminator != "" && discriminator != dataDiscriminatorSummary {
		return
	}
	symbol := h.get(record, "Symbol")
	if symbol == "" {
		return
	}
	statement.Positions = append(statement.Positions, Position{
		Symbol:        symbol,
		AssetCategory: h.get(record, "Asset Category"),
		CurrencyCode:  h.get(record, "Currency"),
		Quantity:      cleanNumber(h.get(record, "Quantity")),
		CostPrice:     cleanNumber(h.get(record, "Cost Price")),
		ClosePrice:    cleanNumber(h.get(record, "Close Price")),
		Value:         cleanNumber(h.get(record, "Value")),
		UnrealizedPL:  cleanNumber(h.get(record, "Unrealized P/L")),
	})
}

// parseInstrumentInfo parses a Financial Instrument Information,Data row.
func parseInstrumentInfo(record []string, h header, statement *ActivityStatement) {
	symbol := h.get(record, "Symbol")
	if symbol == "" {
		return
	}
	statement.InstrumentInfos = append(statement.InstrumentInfos, InstrumentInfo{
		AssetCategory:   h.get(record, "Asset Category"),
		Symbol:          symbol,
		Description:     h.get(record, "Description"),
		Conid:           h.get(record, "Conid"),
		SecurityID:      h.get(record, "Security ID"),
		ListingExchange: h.get(record, "Listing Exch"),
		InstrumentType:  h.get(record, "Type"),
	})
}

// parseNetAssetValue parses the Total row of the Net Asset Value section.
func parseNetAssetValue(record []string, h header, statement *ActivityStatement) {
	if h.get(record, "Asset Class") != "Total" {
		return
	}
	statement.NetAssetValueTotal = cleanNumber(h.get(record, "Current Total"))
}

// parseCashReport parses the base currency ending cash row of the Cash Report section.
func parseCashReport(record []string, h header, statement *ActivityStatement) {
	if h.get(record, "Currency Summary") != cashReportEndingCash || h.get(record, "Currency") != cashReportBaseCurrencyName {
		return
	}
	statement.EndingCash = cleanNumber(h.get(record, "Total"))
}

// cleanNumber strips commas from numeric strings (e.g., "-2,290" → "-2290").
func cleanNumber(s string) string {
	return strings.ReplaceAll(s, ",", "")
}
