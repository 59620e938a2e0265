package dto

// ─── Import (bulk product reconciliation) ────────────────────────────────────

// ImportRow is one spreadsheet-derived record. Everything except ProductNo is
// optional. List fields arrive as delimited strings (comma or semicolon;
// Documents and Images additionally split on line breaks) because they are
// pasted straight out of spreadsheet cells.
type ImportRow struct {
	ProductNo     string  `json:"product_no"`
	Name          *string `json:"name"`
	ListPrice     *string `json:"list_price"`
	Active        *bool   `json:"active"`
	ThumbnailPath *string `json:"thumbnail_path"`
	Documents     *string `json:"documents"`
	Images        *string `json:"images"`
	Accessories   *string `json:"accessories"`
	SpareParts    *string `json:"spare_parts"`
}

type ImportRequest struct {
	Rows []ImportRow `json:"rows"`
}

// ImportSummary reports what one import run processed. Purely observational;
// counts of rows handed to each bulk upsert, not of rows changed.
type ImportSummary struct {
	RowsReceived int `json:"rows_received"`
	RowsImported int `json:"rows_imported"`
	Products     int `json:"products_upserted"`
	Files        int `json:"files_upserted"`
	Images       int `json:"images_upserted"`
	Relations    int `json:"relations_upserted"`
}
