package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"datamart-service/internal/decode"
	"datamart-service/internal/models"
)

// Defaulting policy for rows missing or failing to parse a field. A row is
// never rejected: every field falls back independently.
const (
	DefaultPrice       = 0.001
	DefaultDescription = "No description provided"
	DefaultCategory    = "General"
	DefaultSize        = "Unknown"
	DefaultFormat      = "CSV"
)

// Normalize turns decoded rows into catalog entries, one per row, in input
// order. Rows are independent; unparseable fields are silently defaulted,
// so the result length always equals the input length.
func Normalize(rows []decode.RawRow) []models.CatalogEntry {
	batch := time.Now().UnixMilli()

	entries := make([]models.CatalogEntry, 0, len(rows))
	for i, row := range rows {
		entries = append(entries, normalizeRow(row, i, batch))
	}
	return entries
}

func normalizeRow(row decode.RawRow, index int, batch int64) models.CatalogEntry {
	entry := models.CatalogEntry{
		ID:          field(row, "id"),
		Name:        field(row, "name", "title"),
		Description: field(row, "description", "desc"),
		Category:    field(row, "category"),
		Size:        field(row, "size"),
		Format:      field(row, "format"),
	}

	if entry.ID == "" {
		// Unique within the batch: one timestamp, per-row index.
		entry.ID = fmt.Sprintf("uploaded-%d-%d", batch, index)
	}
	if entry.Name == "" {
		entry.Name = fmt.Sprintf("Database %d", index+1)
	}
	if entry.Description == "" {
		entry.Description = DefaultDescription
	}
	if entry.Category == "" {
		entry.Category = DefaultCategory
	}
	if entry.Size == "" {
		entry.Size = DefaultSize
	}
	if entry.Format == "" {
		entry.Format = DefaultFormat
	}

	entry.Price = parsePrice(field(row, "price"))
	entry.Records = parseRecords(field(row, "records"))

	return entry
}

// field returns the first non-empty value among the named columns
func field(row decode.RawRow, names ...string) string {
	for _, name := range names {
		if v := strings.TrimSpace(row[name]); v != "" {
			return v
		}
	}
	return ""
}

func parsePrice(raw string) float64 {
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil || price <= 0 {
		return DefaultPrice
	}
	return price
}

func parseRecords(raw string) int {
	records, err := strconv.Atoi(raw)
	if err != nil || records < 0 {
		return 0
	}
	return records
}
