package ingest

import (
	"fmt"
	"testing"

	"datamart-service/internal/decode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFullRow(t *testing.T) {
	rows := []decode.RawRow{
		{
			"id":          "db-42",
			"name":        "Retail Transactions",
			"description": "POS data",
			"price":       "129.50",
			"category":    "Retail",
			"size":        "1.1 GB",
			"format":      "JSON",
			"records":     "50000",
		},
	}

	entries := Normalize(rows)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, "db-42", entry.ID)
	assert.Equal(t, "Retail Transactions", entry.Name)
	assert.Equal(t, "POS data", entry.Description)
	assert.Equal(t, 129.50, entry.Price)
	assert.Equal(t, "Retail", entry.Category)
	assert.Equal(t, "1.1 GB", entry.Size)
	assert.Equal(t, "JSON", entry.Format)
	assert.Equal(t, 50000, entry.Records)
}

func TestNormalizeDefaultsEmptyRow(t *testing.T) {
	entries := Normalize([]decode.RawRow{{}})
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "Database 1", entry.Name)
	assert.Equal(t, DefaultDescription, entry.Description)
	assert.Equal(t, DefaultPrice, entry.Price)
	assert.Equal(t, DefaultCategory, entry.Category)
	assert.Equal(t, DefaultSize, entry.Size)
	assert.Equal(t, DefaultFormat, entry.Format)
	assert.Equal(t, 0, entry.Records)
}

func TestNormalizeOneEntryPerRowInOrder(t *testing.T) {
	rows := make([]decode.RawRow, 25)
	for i := range rows {
		rows[i] = decode.RawRow{"name": fmt.Sprintf("Set %d", i)}
	}

	entries := Normalize(rows)
	require.Len(t, entries, len(rows))

	for i, entry := range entries {
		assert.Equal(t, fmt.Sprintf("Set %d", i), entry.Name)
		assert.GreaterOrEqual(t, entry.Price, 0.0)
		assert.GreaterOrEqual(t, entry.Records, 0)
	}
}

func TestNormalizeTitleFallback(t *testing.T) {
	entries := Normalize([]decode.RawRow{
		{"title": "Only A Title"},
		{"name": "A Name", "title": "Ignored Title"},
	})
	require.Len(t, entries, 2)

	assert.Equal(t, "Only A Title", entries[0].Name)
	assert.Equal(t, "A Name", entries[1].Name)
}

func TestNormalizeDescFallback(t *testing.T) {
	entries := Normalize([]decode.RawRow{{"desc": "short form"}})
	require.Len(t, entries, 1)
	assert.Equal(t, "short form", entries[0].Description)
}

func TestNormalizePriceDefaulting(t *testing.T) {
	entries := Normalize([]decode.RawRow{
		{"price": ""},
		{"price": "not-a-number"},
		{"price": "-5"},
		{"price": "0"},
		{"price": "2.5"},
	})
	require.Len(t, entries, 5)

	assert.Equal(t, DefaultPrice, entries[0].Price)
	assert.Equal(t, DefaultPrice, entries[1].Price)
	assert.Equal(t, DefaultPrice, entries[2].Price, "negative price must never survive")
	assert.Equal(t, DefaultPrice, entries[3].Price)
	assert.Equal(t, 2.5, entries[4].Price)
}

func TestNormalizeRecordsDefaulting(t *testing.T) {
	entries := Normalize([]decode.RawRow{
		{"records": "abc"},
		{"records": "-10"},
		{"records": "12345"},
	})
	require.Len(t, entries, 3)

	assert.Equal(t, 0, entries[0].Records)
	assert.Equal(t, 0, entries[1].Records)
	assert.Equal(t, 12345, entries[2].Records)
}

func TestNormalizeSynthesizedIDsUniqueWithinBatch(t *testing.T) {
	rows := make([]decode.RawRow, 50)
	for i := range rows {
		rows[i] = decode.RawRow{}
	}

	entries := Normalize(rows)
	require.Len(t, entries, 50)

	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		require.NotEmpty(t, entry.ID)
		_, dup := seen[entry.ID]
		require.False(t, dup, "synthesized id collided: %s", entry.ID)
		seen[entry.ID] = struct{}{}
	}
}

func TestNormalizeKeepsDuplicateExplicitIDs(t *testing.T) {
	entries := Normalize([]decode.RawRow{
		{"id": "dup", "name": "first"},
		{"id": "dup", "name": "second"},
	})
	require.Len(t, entries, 2)

	// Dedup is the catalog store's concern, not the normalizer's.
	assert.Equal(t, "dup", entries[0].ID)
	assert.Equal(t, "dup", entries[1].ID)
}
