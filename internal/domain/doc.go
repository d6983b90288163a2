// Package domain models monthly rainfall spreadsheets and the views derived
// from them.
//
// # Input Layout
//
// A rainfall workbook is "wide": one row per year and one column per month,
// plus a mandatory "Year" column.
//
//	Year | January | February | ... | December
//	2011 |     0.0 |      0.4 | ... |      0.0
//	2012 |     1.2 |      0.0 | ... |      3.5
//
// Cells hold millimetres of rainfall and may be fractional or missing.
// Month columns use either full English names ("January") or three-letter
// abbreviations ("Jan"), consistently across the whole table.
//
// # Long Format
//
// [Reshape] unpivots the table into one [Record] per (year, month) cell and
// attaches the first day of that month as the record date. Dates are parsed
// for the whole batch under the full-name layout first; if any cell fails,
// the whole batch is parsed again under the abbreviated layout. A table that
// mixes both conventions fails under both layouts and is rejected with a
// [DateFormatError]. There is no per-record fallback.
//
// # Derived Views
//
//	AnnualTotals     one row per year, missing cells contribute zero
//	MonthlyAverages  always twelve rows in calendar order, nil when no data
//	VariabilityView  the long records plus the calendar month order
//
// Both [MissingColumnError] and [DateFormatError] are raised before any view
// is computed, so callers never see partial results.
package domain
