package catalog

import "datamart-service/internal/models"

// SeedEntries returns the demo listings the storefront launches with
func SeedEntries() []models.CatalogEntry {
	return []models.CatalogEntry{
		{
			ID:          "1",
			Name:        "E-commerce Customer Database",
			Description: "Comprehensive customer data with purchase history, demographics, and behavior patterns",
			Price:       199.99,
			Category:    "E-commerce",
			Size:        "2.4 GB",
			Format:      "CSV",
			Records:     1250000,
		},
		{
			ID:          "2",
			Name:        "Financial Markets Dataset",
			Description: "Historical stock prices, trading volumes, and market indicators from 2010-2024",
			Price:       599.99,
			Category:    "Finance",
			Size:        "8.1 GB",
			Format:      "JSON",
			Records:     3400000,
		},
		{
			ID:          "3",
			Name:        "Social Media Analytics",
			Description: "Anonymized social media posts, engagement metrics, and sentiment analysis data",
			Price:       149.99,
			Category:    "Social Media",
			Size:        "1.7 GB",
			Format:      "CSV",
			Records:     890000,
		},
		{
			ID:          "4",
			Name:        "Real Estate Listings Database",
			Description: "Property listings with prices, locations, features, and market trends",
			Price:       249.99,
			Category:    "Real Estate",
			Size:        "3.2 GB",
			Format:      "XLSX",
			Records:     750000,
		},
		{
			ID:          "5",
			Name:        "Healthcare Research Data",
			Description: "Clinical trial data, patient outcomes, and medical device performance metrics",
			Price:       349.99,
			Category:    "Healthcare",
			Size:        "5.6 GB",
			Format:      "JSON",
			Records:     2100000,
		},
		{
			ID:          "6",
			Name:        "Cryptocurrency Trading Data",
			Description: "Bitcoin, Ethereum, and altcoin trading data with order books and price movements",
			Price:       179.99,
			Category:    "Cryptocurrency",
			Size:        "4.3 GB",
			Format:      "CSV",
			Records:     1890000,
		},
	}
}
