package format

import (
	"fmt"
	"io"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"
)

// TableFormatter handles table output formatting
type TableFormatter struct {
	w         io.Writer
	useColors bool
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(w io.Writer, useColors bool) *TableFormatter {
	return &TableFormatter{
		w:         w,
		useColors: useColors,
	}
}

// Format formats data as a table
func (f *TableFormatter) Format(data interface{}) error {
	if data == nil {
		fmt.Fprintln(f.w, "No data to display")
		return nil
	}

	switch v := data.(type) {
	case Tabular:
		return f.render(v.Table())
	case map[string]interface{}:
		return f.formatSingleMap(v)
	default:
		return f.formatReflection(data)
	}
}

func (f *TableFormatter) render(t Table) error {
	if len(t.Rows) == 0 {
		fmt.Fprintln(f.w, "No data to display")
		return nil
	}

	table := tablewriter.NewWriter(f.w)
	table.SetHeader(t.Headers)
	f.configureTable(table)
	if f.useColors {
		colors := make([]tablewriter.Colors, len(t.Headers))
		for i := range colors {
			colors[i] = tablewriter.Colors{tablewriter.Bold, tablewriter.FgHiBlueColor}
		}
		table.SetHeaderColor(colors...)
	}
	table.AppendBulk(t.Rows)
	if len(t.Footer) > 0 {
		footer := make([]string, len(t.Headers))
		copy(footer, t.Footer)
		table.SetFooter(footer)
		table.SetFooterAlignment(tablewriter.ALIGN_LEFT)
	}

	table.Render()
	return nil
}

// formatSingleMap formats a single map as a vertical table, keys sorted
func (f *TableFormatter) formatSingleMap(data map[string]interface{}) error {
	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	t := Table{Headers: []string{"Property", "Value"}}
	for _, key := range keys {
		t.Rows = append(t.Rows, []string{formatHeader(key), f.formatValue(data[key])})
	}
	return f.render(t)
}

// formatReflection uses reflection to format unknown types
func (f *TableFormatter) formatReflection(data interface{}) error {
	v := reflect.ValueOf(data)
	t := reflect.TypeOf(data)

	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			fmt.Fprintln(f.w, "No data to display")
			return nil
		}
		v = v.Elem()
		t = t.Elem()
	}

	if v.Kind() != reflect.Struct {
		fmt.Fprintf(f.w, "%v\n", data)
		return nil
	}

	table := Table{Headers: []string{"Field", "Value"}}
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		if field.IsExported() {
			table.Rows = append(table.Rows, []string{
				formatHeader(field.Name),
				f.formatValue(v.Field(i).Interface()),
			})
		}
	}
	return f.render(table)
}

// configureTable sets up table appearance
func (f *TableFormatter) configureTable(table *tablewriter.Table) {
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)
}

// formatValue formats a value for display
func (f *TableFormatter) formatValue(value interface{}) string {
	if value == nil {
		return ""
	}

	switch v := value.(type) {
	case string:
		return v
	case decimal.Decimal:
		return Money(v)
	case int, int8, int16, int32, int64:
		return fmt.Sprintf("%d", v)
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case float32, float64:
		return fmt.Sprintf("%.2f", v)
	case bool:
		if f.useColors {
			if v {
				return color.GreenString("true")
			}
			return color.RedString("false")
		}
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// formatHeader converts snake_case and camelCase keys to Title Case
func formatHeader(header string) string {
	var b strings.Builder
	var prev rune
	for _, r := range header {
		if unicode.IsUpper(r) && unicode.IsLower(prev) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
		prev = r
	}
	words := strings.Fields(strings.ReplaceAll(b.String(), "_", " "))
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
