// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package htmltable converts HTML tables into tab-separated lines.
//
// Some banks export statements as HTML pages. Each table row becomes one line
// with cells joined by tabs, table captions become single-cell lines, and cells
// spanning several columns are padded so columns stay aligned.
package htmltable

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Contains returns true if the text contains an HTML table.
func Contains(text string) bool {
	return strings.Contains(strings.ToLower(text), "<table")
}

// Lines converts every table in the HTML document into tab-separated lines.
func Lines(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	var lines []string
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		if caption := cleanText(table.ChildrenFiltered("caption").Text()); caption != "" {
			lines = append(lines, caption)
		}
		table.Find("tr").Each(func(_ int, row *goquery.Selection) {
			var cells []string
			row.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, cleanText(cell.Text()))
				colspan, _ := strconv.Atoi(cell.AttrOr("colspan", "1"))
				for i := 1; i < colspan; i++ {
					cells = append(cells, "")
				}
			})
			if line := strings.Join(cells, "\t"); strings.TrimSpace(line) != "" {
				lines = append(lines, line)
			}
		})
	})
	return lines, nil
}

// *** PRIVATE ***

// cleanText collapses whitespace, including tabs and non-breaking spaces, to single spaces.
func cleanText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
