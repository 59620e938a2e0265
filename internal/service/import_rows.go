package service

// Row normalization and deduplication for the bulk import pipeline.
// Input rows come straight out of a spreadsheet: blank trailing rows, mixed
// casing in product numbers, and multi-value cells packed into single
// delimited strings are all expected here, not errors.

import (
	"fmt"
	"strings"

	"github.com/wbtomas-png/ordreflyt-sub001/internal/dto"

	"github.com/shopspring/decimal"
)

// importRow is the normalized, strongly-typed form of one dto.ImportRow after
// trimming, splitting and price parsing.
type importRow struct {
	productNo string // display casing of the last occurrence
	norm      string // upper-cased match key
	name      *string
	listPrice *decimal.Decimal
	active    bool
	thumbnail *string // nil when absent or blank

	documents   []string
	images      []string
	accessories []string
	spareParts  []string
}

// RowValidationError aborts the whole batch before any upsert. Row is the
// 1-based position in the original spreadsheet with the header row counted,
// so the first data row reports as row 2.
type RowValidationError struct {
	Row       int
	ProductNo string
	Field     string
	Value     string
}

func (e *RowValidationError) Error() string {
	return fmt.Sprintf("row %d (product %q): field %s has invalid value %q", e.Row, e.ProductNo, e.Field, e.Value)
}

// normalizeRows trims, validates and deduplicates the raw batch.
// Rows with an empty product number are silently dropped. Duplicate product
// numbers (case-insensitive) collapse to the LAST occurrence in input order,
// keeping that occurrence's casing.
func normalizeRows(rows []dto.ImportRow) ([]importRow, error) {
	byNorm := make(map[string]int, len(rows)) // norm → index into out
	out := make([]importRow, 0, len(rows))

	for i, raw := range rows {
		no := strings.TrimSpace(raw.ProductNo)
		if no == "" {
			continue
		}

		row := importRow{
			productNo: no,
			norm:      normKey(no),
			active:    true,
		}
		if raw.Active != nil {
			row.active = *raw.Active
		}
		if raw.Name != nil {
			if name := strings.TrimSpace(*raw.Name); name != "" {
				row.name = &name
			}
		}
		if raw.ListPrice != nil {
			if s := strings.TrimSpace(*raw.ListPrice); s != "" {
				price, err := decimal.NewFromString(s)
				if err != nil {
					return nil, &RowValidationError{Row: i + 2, ProductNo: no, Field: "list_price", Value: s}
				}
				row.listPrice = &price
			}
		}
		if raw.ThumbnailPath != nil {
			if t := strings.TrimSpace(*raw.ThumbnailPath); t != "" {
				row.thumbnail = &t
			}
		}
		row.documents = splitPaths(strDeref(raw.Documents))
		row.images = splitPaths(strDeref(raw.Images))
		row.accessories = splitList(strDeref(raw.Accessories))
		row.spareParts = splitList(strDeref(raw.SpareParts))

		if j, seen := byNorm[row.norm]; seen {
			out[j] = row
		} else {
			byNorm[row.norm] = len(out)
			out = append(out, row)
		}
	}
	return out, nil
}

// splitList splits a spreadsheet cell on comma or semicolon, trimming each
// token and discarding empties. Repeated product numbers within one cell
// collapse to the first occurrence, compared case-insensitively.
func splitList(s string) []string {
	return dedupTokens(splitOn(s, func(r rune) bool { return r == ',' || r == ';' }), normKey)
}

// splitPaths additionally splits on line breaks since path cells are often
// newline-separated when exported. Exact duplicate paths collapse to one.
func splitPaths(s string) []string {
	tokens := splitOn(s, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n' || r == '\r'
	})
	return dedupTokens(tokens, func(p string) string { return p })
}

// dedupTokens keeps the first occurrence per key. Duplicate tokens must not
// reach the bulk upserts: two rows hitting the same conflict target in one
// INSERT ... ON CONFLICT statement is a Postgres error, not an idempotent
// update.
func dedupTokens(tokens []string, key func(string) string) []string {
	if len(tokens) < 2 {
		return tokens
	}
	seen := make(map[string]bool, len(tokens))
	out := tokens[:0]
	for _, tok := range tokens {
		k := key(tok)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, tok)
	}
	return out
}

func splitOn(s string, isSep func(rune) bool) []string {
	if s == "" {
		return nil
	}
	var tokens []string
	for _, tok := range strings.FieldsFunc(s, isSep) {
		if trimmed := strings.TrimSpace(tok); trimmed != "" {
			tokens = append(tokens, trimmed)
		}
	}
	return tokens
}

// fileTitle derives a document title from the final path segment.
// Returns nil for paths ending in a separator.
func fileTitle(path string) *string {
	seg := path
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		seg = path[idx+1:]
	}
	if seg == "" {
		return nil
	}
	return &seg
}

// normKey is the case-insensitive match key for a product number.
func normKey(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func strDeref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
