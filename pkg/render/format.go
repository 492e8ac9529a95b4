package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/ncruces/go-strftime"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/thegaffer/tal-web-sub003/internal/introspect"
	"github.com/thegaffer/tal-web-sub003/pkg/expr"
	"github.com/thegaffer/tal-web-sub003/pkg/template"
)

// ValueFormat turns a property value into display text. It is built once
// per element at compile time and applied at render time.
type ValueFormat struct {
	Traits template.Capability
	Number *template.NumberSpec
	Date   *template.DateSpec
	Coded  *template.CodedSpec
}

// FormatFor derives the display format of an element.
func FormatFor(e *template.Element) ValueFormat {
	if e == nil {
		return ValueFormat{}
	}
	return ValueFormat{Traits: e.Traits, Number: e.Number, Date: e.Date, Coded: e.Coded}
}

// Format renders value for display. Nil and the zero time render as "".
// Values a formatter cannot interpret fall back to their default text form.
func (f ValueFormat) Format(m *Model, value any) string {
	if introspect.IsNil(value) || isZeroTime(value) {
		return ""
	}
	switch {
	case f.Traits.Has(template.CapChecked):
		b, ok := expr.ToBool(value)
		if !ok {
			return f.raw(m, value, "checked")
		}
		if b {
			return "true"
		}
		return "false"
	case f.Traits.Has(template.CapNumber):
		out, ok := FormatNumber(m.Locale(), value, f.Number)
		if !ok {
			return f.raw(m, value, "number")
		}
		return out
	case f.Traits.Has(template.CapDate):
		out, ok := FormatDate(m.Locale(), value, f.Date)
		if !ok {
			return f.raw(m, value, "date")
		}
		return out
	case f.Traits.Has(template.CapCoded):
		return f.describe(m, expr.ToString(value))
	case f.Traits.Has(template.CapResource):
		key := expr.ToString(value)
		return m.Message(key, key)
	}
	return expr.ToString(value)
}

func (f ValueFormat) describe(m *Model, code string) string {
	if label, ok := f.Coded.Describe(code); ok {
		return m.Message(label, label)
	}
	if f.Coded != nil && f.Coded.CodeType != "" {
		return m.Message("code."+f.Coded.CodeType+"."+code, code)
	}
	return code
}

func (f ValueFormat) raw(m *Model, value any, kind string) string {
	m.Logger().Debug("render: value format fallback", "kind", kind, "type", fmt.Sprintf("%T", value))
	return fmt.Sprint(value)
}

// FormatNumber formats value with locale grouping and the configured
// number of decimal places.
func FormatNumber(tag language.Tag, value any, spec *template.NumberSpec) (string, bool) {
	n, ok := expr.ToNumber(value)
	if !ok {
		return "", false
	}
	var opts []number.Option
	if spec != nil && spec.DecimalPlaces >= 0 {
		opts = append(opts,
			number.MinFractionDigits(spec.DecimalPlaces),
			number.MaxFractionDigits(spec.DecimalPlaces),
		)
	}
	return message.NewPrinter(tag).Sprint(number.Decimal(n, opts...)), true
}

var dateLayouts = map[template.DateStyle]string{
	template.DateStyleShort:  "%d/%m/%Y",
	template.DateStyleMedium: "%d %b %Y",
	template.DateStyleLong:   "%d %B %Y",
	template.DateStyleFull:   "%A, %d %B %Y",
}

var timeLayouts = map[template.DateStyle]string{
	template.DateStyleShort:  "%H:%M",
	template.DateStyleMedium: "%H:%M:%S",
	template.DateStyleLong:   "%H:%M:%S %Z",
	template.DateStyleFull:   "%H:%M:%S %Z",
}

// FormatDate formats a time value using the spec's patterns or styles. US
// English swaps the short date order.
func FormatDate(tag language.Tag, value any, spec *template.DateSpec) (string, bool) {
	t, ok := toTime(value)
	if !ok {
		return "", false
	}
	if spec == nil {
		spec = &template.DateSpec{DateStyle: template.DateStyleMedium}
	}
	var parts []string
	if layout := dateLayout(tag, spec); layout != "" {
		parts = append(parts, strftime.Format(layout, t))
	}
	if layout := firstLayout(spec.TimePattern, timeLayouts[spec.TimeStyle]); layout != "" {
		parts = append(parts, strftime.Format(layout, t))
	}
	if len(parts) == 0 {
		return strftime.Format(dateLayouts[template.DateStyleMedium], t), true
	}
	return strings.Join(parts, " "), true
}

func dateLayout(tag language.Tag, spec *template.DateSpec) string {
	if spec.DatePattern != "" {
		return spec.DatePattern
	}
	if spec.DateStyle == template.DateStyleShort && tag == language.AmericanEnglish {
		return "%m/%d/%y"
	}
	return dateLayouts[spec.DateStyle]
}

func firstLayout(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func isZeroTime(value any) bool {
	switch v := value.(type) {
	case time.Time:
		return v.IsZero()
	case *time.Time:
		return v != nil && v.IsZero()
	}
	return false
}

func toTime(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, !v.IsZero()
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return *v, !v.IsZero()
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.DateTime, time.DateOnly} {
			if t, err := time.Parse(layout, strings.TrimSpace(v)); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// FormatValue formats value with the display format of e.
func FormatValue(m *Model, e *template.Element, value any) string {
	return FormatFor(e).Format(m, value)
}
