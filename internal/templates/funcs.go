package templates

import (
	"encoding/json"
	"fmt"
	"html/template"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"github.com/alnah/go-printview/internal/dateutil"
)

// defaultCurrency is used by formatMoney when no currency is given.
const defaultCurrency = "USD"

// helpers holds the template helper set. now is injectable for tests.
type helpers struct {
	now func() time.Time
}

func (h helpers) funcMap() template.FuncMap {
	return template.FuncMap{
		"field":         field,
		"default":       defaultValue,
		"count":         count,
		"formatMoney":   formatMoney,
		"formatNumber":  formatNumber,
		"formatPercent": formatPercent,
		"formatDate":    h.formatDate,
		"formatCell":    h.formatCell,
		"alignClass":    alignClass,
		"lineTotal":     lineTotal,
		"sumLines":      sumLines,
		"add":           add,
		"mul":           mul,
		// Rebound per render with the render context.
		"markdown": func(any) (template.HTML, error) { return "", nil },
	}
}

// field returns obj[key] for maps and the matching field for structs.
// Struct fields match by json or yaml tag, then case-insensitively by name.
// Anything missing yields nil.
func field(obj any, key any) any {
	name := fmt.Sprint(key)
	v := reflect.ValueOf(obj)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Map:
		return mapField(v, name)
	case reflect.Struct:
		return structField(v, name)
	default:
		return nil
	}
}

func mapField(m reflect.Value, name string) any {
	kt := m.Type().Key()
	switch {
	case kt.Kind() == reflect.String:
		val := m.MapIndex(reflect.ValueOf(name).Convert(kt))
		if val.IsValid() {
			return val.Interface()
		}
	case kt.Kind() == reflect.Interface:
		for _, k := range m.MapKeys() {
			if fmt.Sprint(k.Interface()) == name {
				return m.MapIndex(k).Interface()
			}
		}
	}
	return nil
}

func structField(s reflect.Value, name string) any {
	t := s.Type()
	fallback := -1
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if tagName(f.Tag.Get("json")) == name || tagName(f.Tag.Get("yaml")) == name {
			return s.Field(i).Interface()
		}
		if fallback == -1 && strings.EqualFold(f.Name, name) {
			fallback = i
		}
	}
	if fallback >= 0 {
		return s.Field(fallback).Interface()
	}
	return nil
}

func tagName(tag string) string {
	name, _, _ := strings.Cut(tag, ",")
	return name
}

// defaultValue returns value unless it is empty, else def.
func defaultValue(def, value any) any {
	if isEmpty(value) {
		return def
	}
	return value
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

// count returns the length of a collection or string, 0 for anything else.
func count(v any) int {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array, reflect.String:
		return rv.Len()
	default:
		return 0
	}
}

// toDecimal converts numbers found in decoded data. Strings must parse as
// decimals; nil and non-numeric values report false.
func toDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case nil:
		return decimal.Zero, false
	case decimal.Decimal:
		return n, true
	case *decimal.Decimal:
		if n == nil {
			return decimal.Zero, false
		}
		return *n, true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int32:
		return decimal.NewFromInt32(n), true
	case int64:
		return decimal.NewFromInt(n), true
	case uint:
		return decimal.NewFromUint64(uint64(n)), true
	case uint32:
		return decimal.NewFromUint64(uint64(n)), true
	case uint64:
		return decimal.NewFromUint64(n), true
	case float32:
		return decimal.NewFromFloat32(n), true
	case float64:
		return decimal.NewFromFloat(n), true
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		return d, err == nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(n))
		return d, err == nil
	default:
		return decimal.Zero, false
	}
}

// add returns a+b; missing operands count as zero.
func add(a, b any) decimal.Decimal {
	x, _ := toDecimal(a)
	y, _ := toDecimal(b)
	return x.Add(y)
}

// mul returns a*b; missing operands count as zero.
func mul(a, b any) decimal.Decimal {
	x, _ := toDecimal(a)
	y, _ := toDecimal(b)
	return x.Mul(y)
}

// lineTotal returns qty*price.
func lineTotal(qty, price any) decimal.Decimal {
	return mul(qty, price)
}

// sumLines sums qty*price over every element of items.
func sumLines(items any, qtyKey, priceKey string) decimal.Decimal {
	total := decimal.Zero
	rv := reflect.ValueOf(items)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return total
	}
	for i := 0; i < rv.Len(); i++ {
		item := rv.Index(i).Interface()
		total = total.Add(lineTotal(field(item, qtyKey), field(item, priceKey)))
	}
	return total
}

// formatMoney renders v rounded to the currency's standard scale with
// grouped digits, prefixed by the ISO code: "EUR 1,234.50". Unknown
// codes use two decimals. Non-numeric values render as-is.
func formatMoney(v any, code any) string {
	d, ok := toDecimal(v)
	if !ok {
		return display(v)
	}

	iso := strings.ToUpper(strings.TrimSpace(display(code)))
	if iso == "" {
		iso = defaultCurrency
	}

	scale := 2
	if unit, err := currency.ParseISO(iso); err == nil {
		scale, _ = currency.Standard.Rounding(unit)
		iso = unit.String()
	}

	return iso + " " + groupDecimal(d, scale)
}

// formatNumber renders v with places decimals and grouped digits.
func formatNumber(v any, places int) string {
	d, ok := toDecimal(v)
	if !ok {
		return display(v)
	}
	if places < 0 {
		places = 0
	}
	return groupDecimal(d, places)
}

// formatPercent renders a ratio as a percentage: 0.075 -> "7.5%".
func formatPercent(v any) string {
	d, ok := toDecimal(v)
	if !ok {
		return display(v)
	}
	return groupDigits(d.Mul(decimal.NewFromInt(100)).Round(2).String()) + "%"
}

func groupDecimal(d decimal.Decimal, places int) string {
	return groupDigits(d.StringFixed(int32(places)))
}

// groupDigits inserts thousands separators into the integer part of a
// plain decimal string such as "-1234567.50".
func groupDigits(s string) string {
	sign := ""
	if rest, ok := strings.CutPrefix(s, "-"); ok {
		sign, s = "-", rest
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	b.WriteString(sign)
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

// formatDate renders time.Time values and date strings with a token format
// or preset. Unparseable strings render unchanged.
func (h helpers) formatDate(v any, format string) string {
	var t time.Time
	switch d := v.(type) {
	case nil:
		return ""
	case time.Time:
		t = d
	case *time.Time:
		if d == nil {
			return ""
		}
		t = *d
	case string:
		parsed, err := dateutil.Parse(d, h.now())
		if err != nil {
			return d
		}
		t = parsed
	default:
		return display(v)
	}

	out, err := dateutil.Format(t, format)
	if err != nil {
		return display(v)
	}
	return out
}

// formatCell renders a table cell. FORMAT is "money[:CUR]",
// "number[:PLACES]", "percent", "date[:FORMAT]", or empty for plain text.
func (h helpers) formatCell(v any, format any) string {
	kind, arg, _ := strings.Cut(display(format), ":")
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "money", "currency":
		return formatMoney(v, arg)
	case "number":
		places := 0
		if arg != "" {
			if p, err := strconv.Atoi(arg); err == nil {
				places = p
			}
		}
		return formatNumber(v, places)
	case "percent":
		return formatPercent(v)
	case "date":
		return h.formatDate(v, arg)
	default:
		return display(v)
	}
}

// alignClass maps a column alignment to its CSS class. Logical classes
// keep right-to-left documents aligned.
func alignClass(align any) string {
	switch strings.ToLower(display(align)) {
	case "center", "centre":
		return "align-center"
	case "right", "end":
		return "align-end"
	default:
		return "align-start"
	}
}

// display renders v as text, with nil as the empty string.
func display(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
