// Copyright 2026 Peter Edge
//
// All rights reserved.

package foliocmd

import (
	"fmt"
	"io"
	"strings"

	"buf.build/go/app/appcmd"
	"github.com/bufdev/folioctl/internal/folio/folioallocation"
	"github.com/bufdev/folioctl/internal/folio/folioportfolio"
	"github.com/bufdev/folioctl/internal/pkg/cliio"
	"github.com/spf13/pflag"
)

// FormatFlagName is the flag name for the output format.
const FormatFlagName = "format"

// BindFormatFlag binds the --format flag.
func BindFormatFlag(flagSet *pflag.FlagSet, format *string) {
	flagSet.StringVar(format, FormatFlagName, "table", "Output format (table, csv, json)")
}

// ParseFormat parses the --format flag value, returning an invalid argument error if unknown.
func ParseFormat(value string) (cliio.Format, error) {
	format, err := cliio.ParseFormat(value)
	if err != nil {
		return "", appcmd.NewInvalidArgumentError(err.Error())
	}
	return format, nil
}

// WritePortfolio writes the portfolio in the format.
//
// Tables list the positions with a total row, followed by one table per
// allocation dimension if the portfolio has allocations. CSV has one record
// per position. JSON is the whole portfolio.
func WritePortfolio(writer io.Writer, format cliio.Format, portfolio *folioportfolio.Portfolio, homeCurrency string) error {
	switch format {
	case cliio.FormatTable:
		return writePortfolioTable(writer, portfolio, homeCurrency)
	case cliio.FormatCSV:
		records := make([]*folioportfolio.PositionRecord, 0, len(portfolio.Positions))
		for _, position := range portfolio.Positions {
			records = append(records, folioportfolio.PositionToRecord(position))
		}
		return cliio.WriteCSVStructs(writer, records)
	case cliio.FormatJSON:
		return cliio.WriteJSON(writer, portfolio)
	default:
		return appcmd.NewInvalidArgumentErrorf("unsupported format: %s", format)
	}
}

// *** PRIVATE ***

func writePortfolioTable(writer io.Writer, portfolio *folioportfolio.Portfolio, homeCurrency string) error {
	headers := folioportfolio.PositionHeaders()
	rows := make([][]string, 0, len(portfolio.Positions)+1)
	for _, position := range portfolio.Positions {
		rows = append(rows, folioportfolio.PositionToRow(position, homeCurrency))
	}
	overview := portfolio.AccountOverview
	if overview.CashBalance > 0 {
		cashRow := make([]string, len(headers))
		cashRow[0] = folioallocation.Cash
		cashRow[3] = strings.ToUpper(homeCurrency)
		cashRow[6] = folioportfolio.FormatAmount(overview.CashBalance, homeCurrency)
		rows = append(rows, make([]string, len(headers)), cashRow)
	}
	totalsRow := make([]string, len(headers))
	totalsRow[0] = "TOTAL"
	totalsRow[6] = folioportfolio.FormatAmount(overview.TotalValue, homeCurrency)
	if err := cliio.WriteTableWithTotals(writer, headers, rows, totalsRow); err != nil {
		return err
	}
	if portfolio.Allocations == nil {
		return nil
	}
	for _, dimension := range folioallocation.AllDimensions() {
		buckets := folioallocation.Buckets(portfolio.Allocations, dimension)
		if len(buckets) == 0 {
			continue
		}
		bucketRows := make([][]string, 0, len(buckets))
		for _, bucket := range buckets {
			bucketRows = append(bucketRows, folioportfolio.BucketToRow(bucket, homeCurrency))
		}
		if _, err := fmt.Fprintln(writer); err != nil {
			return err
		}
		if err := cliio.WriteTable(writer, folioportfolio.BucketHeaders(strings.ToUpper(string(dimension))), bucketRows); err != nil {
			return err
		}
	}
	return nil
}
