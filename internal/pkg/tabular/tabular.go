// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package tabular detects the delimiter, header row, and column semantics of
// free-form statement exports and splits them into raw rows.
//
// Exports come from many banks and brokers with no shared schema. Detection is
// heuristic: the delimiter is the candidate producing the most uniform column
// counts, the header is the early row matching the most field synonyms, and
// when no header exists columns are inferred from the shape of the first data row.
package tabular

import (
	"encoding/csv"
	"sort"
	"strings"
	"unicode"

	"github.com/bufdev/folioctl/internal/pkg/localenumber"
	"github.com/montanaflynn/stats"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// delimiterSampleSize is the number of non-blank lines sampled for delimiter detection.
	delimiterSampleSize = 25
	// headerScanSize is the number of non-blank lines scanned for a header row.
	headerScanSize = 15
	// minHeaderMatches is the minimum number of matched fields for a header row.
	minHeaderMatches = 2
	// maxCategoryLength is the maximum length of a category line.
	maxCategoryLength = 60
	// exactMatchBonus ranks exact synonym matches above contained matches.
	exactMatchBonus = 1000
)

// candidateDelimiters are tried in order, earlier candidates win ties.
var candidateDelimiters = []rune{',', ';', '\t', '|'}

// Structure is the detected layout of a statement table.
type Structure struct {
	// Delimiter is the column delimiter, or 0 if no delimiter yields usable columns.
	Delimiter rune
	// HeaderRowIndex is the index of the header line, or -1 if columns were inferred positionally.
	HeaderRowIndex int
	// ColumnMap maps fields to column indexes.
	ColumnMap map[Field]int
}

// HasDelimiter returns true if a usable delimiter was detected.
func (s *Structure) HasDelimiter() bool {
	return s.Delimiter != 0
}

// Column returns the column index for the field.
func (s *Structure) Column(field Field) (int, bool) {
	index, ok := s.ColumnMap[field]
	return index, ok
}

// Cell returns the trimmed cell for the field, or "" if the field is not mapped
// or the row is too short.
func (s *Structure) Cell(cells []string, field Field) string {
	index, ok := s.ColumnMap[field]
	if !ok || index < 0 || index >= len(cells) {
		return ""
	}
	return cells[index]
}

// RawRow is a split data line.
type RawRow struct {
	// Cells are the trimmed cells of the line.
	Cells []string
	// Category is the active category line preceding the row, or "" if none.
	Category string
	// LineIndex is the index of the line in the input.
	LineIndex int
}

// Extraction is the result of splitting lines with a detected structure.
type Extraction struct {
	// Rows are the data rows.
	Rows []RawRow
	// LooseLines are lines that are neither data rows, category lines, nor the header.
	//
	// Summary lines such as "Total: 12'345.00" end up here.
	LooseLines []string
}

// DetectStructure detects the delimiter, header row, and column map of the lines.
func DetectStructure(lines []string) *Structure {
	structure := &Structure{
		HeaderRowIndex: -1,
		ColumnMap:      make(map[Field]int),
	}
	indexes := nonBlankIndexes(lines)
	if len(indexes) == 0 {
		return structure
	}
	sample := make([]string, 0, delimiterSampleSize)
	for _, index := range indexes {
		if len(sample) == delimiterSampleSize {
			break
		}
		sample = append(sample, lines[index])
	}
	structure.Delimiter = detectDelimiter(sample)
	if structure.Delimiter == 0 {
		return structure
	}
	if headerRowIndex, columnMap, ok := detectHeader(lines, indexes, structure.Delimiter); ok {
		structure.HeaderRowIndex = headerRowIndex
		structure.ColumnMap = columnMap
		return structure
	}
	structure.ColumnMap = inferPositional(lines, indexes, structure.Delimiter)
	return structure
}

// Rows splits the data lines of the structure into raw rows.
func Rows(lines []string, structure *Structure) []RawRow {
	return Extract(lines, structure).Rows
}

// Extract splits the lines into data rows and loose lines.
//
// A line with a single non-empty cell, no digits, and at most 60 characters is a
// category line: it becomes the active category for the following rows until
// the next category line. Lines before the header row are loose.
func Extract(lines []string, structure *Structure) *Extraction {
	extraction := &Extraction{}
	if !structure.HasDelimiter() {
		for _, line := range lines {
			if strings.TrimSpace(line) != "" {
				extraction.LooseLines = append(extraction.LooseLines, strings.TrimSpace(line))
			}
		}
		return extraction
	}
	category := ""
	for i, line := range lines {
		if strings.TrimSpace(line) == "" || i == structure.HeaderRowIndex {
			continue
		}
		if i < structure.HeaderRowIndex {
			extraction.LooseLines = append(extraction.LooseLines, strings.TrimSpace(line))
			continue
		}
		cells := Split(line, structure.Delimiter)
		nonEmpty := nonEmptyCells(cells)
		switch {
		case len(nonEmpty) >= 2:
			extraction.Rows = append(extraction.Rows, RawRow{
				Cells:     cells,
				Category:  category,
				LineIndex: i,
			})
		case len(nonEmpty) == 1 && IsCategoryLine(nonEmpty[0]):
			category = nonEmpty[0]
		default:
			extraction.LooseLines = append(extraction.LooseLines, strings.TrimSpace(line))
		}
	}
	return extraction
}

// Split splits a line on the delimiter, honoring double quotes, and trims each cell.
func Split(line string, delimiter rune) []string {
	reader := csv.NewReader(strings.NewReader(line))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	record, err := reader.Read()
	if err != nil {
		record = strings.Split(line, string(delimiter))
	}
	cells := make([]string, len(record))
	for i, cell := range record {
		cells[i] = strings.Trim(strings.TrimSpace(cell), `"`)
	}
	return cells
}

// IsCategoryLine returns true if the cell looks like a section heading such as "Equities".
func IsCategoryLine(cell string) bool {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" || len([]rune(trimmed)) > maxCategoryLength {
		return false
	}
	return !strings.ContainsFunc(trimmed, unicode.IsDigit)
}

// NormalizeLabel lower-cases the label, removes accents, and collapses
// punctuation other than "%" and "+" to single spaces.
//
// "Währung" becomes "wahrung" and "Gewinn/Verlust" becomes "gewinn verlust".
func NormalizeLabel(label string) string {
	// Transformers are stateful, a new chain is needed per call.
	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		label,
	)
	if err != nil {
		folded = label
	}
	folded = strings.ToLower(folded)
	var builder strings.Builder
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '%' || r == '+' {
			builder.WriteRune(r)
		} else {
			builder.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(builder.String()), " ")
}

// MatchField returns the field whose synonym best matches the header label.
//
// An exact synonym match beats a whole-word contained match, and a longer
// synonym beats a shorter one.
func MatchField(label string) (Field, bool) {
	field, score := matchField(NormalizeLabel(label))
	return field, score > 0
}

// *** PRIVATE ***

type delimiterScore struct {
	delimiter rune
	score     float64
	mean      float64
}

// detectDelimiter returns the candidate delimiter with the most uniform
// multi-column split, or 0 if no candidate is usable.
func detectDelimiter(sample []string) rune {
	var best *delimiterScore
	for _, delimiter := range candidateDelimiters {
		var counts stats.Float64Data
		for _, line := range sample {
			if count := len(Split(line, delimiter)); count >= 2 {
				counts = append(counts, float64(count))
			}
		}
		// Usable when at least two sample lines split, or the only line does.
		if len(counts) < min(2, len(sample)) || len(counts) == 0 {
			continue
		}
		standardDeviation, err := stats.StandardDeviationPopulation(counts)
		if err != nil {
			continue
		}
		mean, err := stats.Mean(counts)
		if err != nil {
			continue
		}
		current := &delimiterScore{
			delimiter: delimiter,
			score:     float64(len(counts)) / float64(len(sample)) / (1 + standardDeviation),
			mean:      mean,
		}
		if best == nil || current.score > best.score+1e-9 ||
			(current.score > best.score-1e-9 && current.mean > best.mean) {
			best = current
		}
	}
	if best == nil {
		return 0
	}
	return best.delimiter
}

// detectHeader scans the first non-blank lines for the row matching the most fields.
func detectHeader(lines []string, indexes []int, delimiter rune) (int, map[Field]int, bool) {
	bestIndex := -1
	var bestColumnMap map[Field]int
	for i, index := range indexes {
		if i == headerScanSize {
			break
		}
		cells := Split(lines[index], delimiter)
		if numericCount(cells) >= 2 {
			continue
		}
		columnMap := matchHeaderCells(cells)
		if len(columnMap) >= minHeaderMatches && len(columnMap) > len(bestColumnMap) {
			bestIndex = index
			bestColumnMap = columnMap
		}
	}
	if bestIndex < 0 {
		return -1, nil, false
	}
	return bestIndex, bestColumnMap, true
}

type cellMatch struct {
	column int
	field  Field
	score  int
}

// matchHeaderCells assigns fields to header cells, strongest matches first.
// Each field and each column is assigned at most once.
func matchHeaderCells(cells []string) map[Field]int {
	var matches []cellMatch
	for column, cell := range cells {
		if field, score := matchField(NormalizeLabel(cell)); score > 0 {
			matches = append(matches, cellMatch{column: column, field: field, score: score})
		}
	}
	sort.SliceStable(matches, func(i int, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].column < matches[j].column
	})
	columnMap := make(map[Field]int)
	assignedColumns := make(map[int]struct{})
	for _, match := range matches {
		if _, ok := columnMap[match.field]; ok {
			continue
		}
		if _, ok := assignedColumns[match.column]; ok {
			continue
		}
		columnMap[match.field] = match.column
		assignedColumns[match.column] = struct{}{}
	}
	return columnMap
}

// matchField returns the best field for a normalized label and its score, 0 if none.
func matchField(normalized string) (Field, int) {
	if normalized == "" {
		return "", 0
	}
	padded := " " + normalized + " "
	var bestField Field
	bestScore := 0
	for _, field := range AllFields() {
		for _, synonym := range fieldSynonyms[field] {
			score := 0
			switch {
			case normalized == synonym:
				score = exactMatchBonus + len(synonym)
			case strings.Contains(padded, " "+synonym+" "):
				score = len(synonym)
			}
			if score > bestScore {
				bestField = field
				bestScore = score
			}
		}
	}
	return bestField, bestScore
}

// inferPositional infers the column map from the first row shaped like a position:
// a non-numeric first cell followed by at least two numeric cells.
func inferPositional(lines []string, indexes []int, delimiter rune) map[Field]int {
	columnMap := make(map[Field]int)
	for _, index := range indexes {
		cells := Split(lines[index], delimiter)
		if len(cells) < 3 || cells[0] == "" || localenumber.IsNumeric(cells[0]) || numericCount(cells) < 2 {
			continue
		}
		columnMap[FieldSymbol] = 0
		var unassignedNumeric []int
		for column := 1; column < len(cells); column++ {
			cell := cells[column]
			switch {
			case cell == "":
			case localenumber.IsPercent(cell):
				if !assignOnce(columnMap, FieldPositionPercent, column) {
					assignOnce(columnMap, FieldDailyChangePercent, column)
				}
			case localenumber.IsNumeric(cell):
				switch {
				case localenumber.IsIntegerLike(cell) && assignOnce(columnMap, FieldQuantity, column):
				case localenumber.IsDecimalLike(cell) && assignOnce(columnMap, FieldPrice, column):
				default:
					unassignedNumeric = append(unassignedNumeric, column)
				}
			default:
				if _, ok := localenumber.CurrencyCode(cell); ok && assignOnce(columnMap, FieldCurrency, column) {
					continue
				}
				assignOnce(columnMap, FieldName, column)
			}
		}
		if _, ok := columnMap[FieldQuantity]; !ok && len(unassignedNumeric) > 0 {
			columnMap[FieldQuantity] = unassignedNumeric[0]
			unassignedNumeric = unassignedNumeric[1:]
		}
		if _, ok := columnMap[FieldPrice]; !ok && len(unassignedNumeric) > 0 {
			columnMap[FieldPrice] = unassignedNumeric[0]
			unassignedNumeric = unassignedNumeric[1:]
		}
		if len(unassignedNumeric) > 0 {
			columnMap[FieldTotalValue] = unassignedNumeric[len(unassignedNumeric)-1]
		}
		return columnMap
	}
	return columnMap
}

// assignOnce assigns the column to the field if the field is not yet assigned.
func assignOnce(columnMap map[Field]int, field Field, column int) bool {
	if _, ok := columnMap[field]; ok {
		return false
	}
	columnMap[field] = column
	return true
}

func numericCount(cells []string) int {
	count := 0
	for _, cell := range cells {
		if localenumber.IsNumeric(cell) {
			count++
		}
	}
	return count
}

func nonEmptyCells(cells []string) []string {
	var nonEmpty []string
	for _, cell := range cells {
		if cell != "" {
			nonEmpty = append(nonEmpty, cell)
		}
	}
	return nonEmpty
}

func nonBlankIndexes(lines []string) []int {
	var indexes []int
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			indexes = append(indexes, i)
		}
	}
	return indexes
}
