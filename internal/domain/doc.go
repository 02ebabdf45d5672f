// Package domain models daily reservoir-level readings for a network of
// small dams, as published through a Google Sheets CSV export.
//
// # Data Source
//
// Readings are keyed in by the irrigation authority's field staff, one row
// per dam per day, and reach this service through Google's
// "export?format=csv" endpoint. Column labels follow the clerks' original
// layout and are renamed to canonical snake_case identifiers by
// [NormalizeTable] before any typed access.
//
// # Sheet Conventions
//
// Date format:
//
//	Day-first numeric dates, e.g. "05/01/24" = 5 January 2024.
//	Separators vary between "/", "-" and "."; years appear both two- and
//	four-digit. An unparseable date leaves the reading dateless rather
//	than failing the batch.
//
// Status format:
//
//	Free text, but numeric live depth is embedded as "<n> Ft", e.g.
//	"9.80 Ft Live" or "-0.40 Ft Below DSL". Dams with no live water
//	usually read "Dead". [ExtractLiveDepth] pulls the first "<n> Ft"
//	occurrence; text without one means no measurable live depth.
//
// Spill margin:
//
//	Spill_Diff is the current level relative to the spillway crest, in
//	feet. A strictly negative value means water stands above the
//	spillway, i.e. the dam is overflowing. Zero and positive values are
//	not overflow, and a missing or non-numeric cell never flags one.
//
// Reference levels (all in feet):
//
//	Top of Dam FT  crest of the embankment
//	H.F.L Ft       highest flood level on record
//	D.S.L Ft       dead storage level
//	N.P.L Ft       normal pond level
//	P.P.L Ft       present pond level
//
// Missing cells stay missing: derivation never substitutes zeros for
// absent measurements, so a dam that did not report a level is
// distinguishable from one that reported zero.
package domain
