// Package domain models reported aerial observation (UAP) data and the
// per-row features the dashboard derives from it.
//
// # Data Source
//
// Observations arrive as a flat table (CSV, gzip-compressed CSV, or Parquet)
// with one report per row. Required columns:
//
//	latitude, longitude, country, Year, description
//
// The optional city column is only used as the hover label of the geographic
// chart. Column names match case-insensitively; a leading UTF-8 BOM and
// surrounding spaces are ignored.
//
// # Validation
//
// Every row is parsed into typed fields by [ParseRawRecord]. A row with any
// required field empty or unparsable is rejected and reported as one
// [RowError] per offending field; rejected rows are never repaired.
//
//	latitude   float in [-90, 90]
//	longitude  float in [-180, 180]
//	country    non-empty text
//	Year       number with no fractional part ("1995" and "1995.0" both parse)
//	description non-empty text
//
// # Derived Features
//
// Given the analyzer's (polarity, subjectivity) pair for the description:
//
//	mentions          = number of whitespace-separated words
//	impact            = ln(mentions + 1)
//	veracity          = impact × |polarity|
//	image_score       = (|polarity| + subjectivity) × veracity
//	category          = "Scientific" if subjectivity < 0.5, else "Emotional"
//	short_description = first 100 characters + "..."
//
// Keyword flags (kw_craft … kw_entity) are true when the term occurs anywhere
// in the lowercased description, so "hovering" sets kw_hover. See [Keywords]
// for the fixed vocabulary and its column order.
package domain
