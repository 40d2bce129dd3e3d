// Package templates renders print documents from html/template sources.
//
// Templates execute against a View: the caller's Data, untouched, and the
// resolved print Options. Data is typically a map decoded from JSON or
// YAML, or a Go struct; the field helper reads both, and every helper
// tolerates missing values so a sparse payload still renders.
//
// Helpers available to every template:
//
//	field OBJ KEY            map key or struct field (json/yaml tag aware)
//	default DEF VALUE        VALUE unless empty, else DEF
//	count VALUE              length of a slice, map or string; 0 for nil
//	formatMoney V CURRENCY   "EUR 1,234.50", rounded to the currency's scale
//	formatNumber V PLACES    grouped decimal with fixed places
//	formatPercent V          0.2 -> "20%"
//	formatDate V FORMAT      token format (YYYY-MM-DD) or preset (long, iso)
//	formatCell V FORMAT      money[:CUR], number[:N], percent, date[:FMT]
//	alignClass ALIGN         left/center/right -> align-start/center/end
//	lineTotal QTY PRICE      exact decimal product
//	sumLines ITEMS QK PK     sum of QTY*PRICE across ITEMS
//	add A B, mul A B         exact decimal arithmetic
//	markdown TEXT            GFM Markdown rendered to HTML
package templates
