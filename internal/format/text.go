package format

import (
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"
)

// TextFormatter prints one record per line, fields separated by two spaces.
// It suits grep and awk better than the aligned table.
type TextFormatter struct {
	w io.Writer
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{w: w}
}

// Format formats data as simple text
func (f *TextFormatter) Format(data interface{}) error {
	if data == nil {
		fmt.Fprintln(f.w, "No data")
		return nil
	}

	switch v := data.(type) {
	case Tabular:
		return f.formatTable(v.Table())
	case map[string]interface{}:
		return f.formatSingleMap(v)
	case string:
		fmt.Fprintln(f.w, v)
		return nil
	default:
		return f.formatReflection(data)
	}
}

func (f *TextFormatter) formatTable(t Table) error {
	if len(t.Rows) == 0 {
		fmt.Fprintln(f.w, "No data")
		return nil
	}
	for _, row := range t.Rows {
		fmt.Fprintln(f.w, strings.Join(row, "  "))
	}
	if len(t.Footer) > 0 {
		fmt.Fprintln(f.w, strings.TrimSpace(strings.Join(t.Footer, "  ")))
	}
	return nil
}

// formatSingleMap formats a single map as text, keys sorted
func (f *TextFormatter) formatSingleMap(data map[string]interface{}) error {
	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(f.w, "%s: %v\n", formatHeader(key), f.formatValue(data[key]))
	}
	return nil
}

// formatReflection uses reflection to format unknown types
func (f *TextFormatter) formatReflection(data interface{}) error {
	v := reflect.ValueOf(data)
	t := reflect.TypeOf(data)

	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			fmt.Fprintln(f.w, "No data")
			return nil
		}
		v = v.Elem()
		t = t.Elem()
	}

	if v.Kind() != reflect.Struct {
		fmt.Fprintf(f.w, "%v\n", data)
		return nil
	}
	for i := 0; i < v.NumField(); i++ {
		if field := t.Field(i); field.IsExported() {
			fmt.Fprintf(f.w, "%s: %v\n", formatHeader(field.Name), f.formatValue(v.Field(i).Interface()))
		}
	}
	return nil
}

// formatValue formats a value for display
func (f *TextFormatter) formatValue(value interface{}) interface{} {
	if value == nil {
		return "N/A"
	}
	return value
}
