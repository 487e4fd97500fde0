package output

import (
	"fmt"
	"io"
	"math"
	"reflect"
	"strconv"
	"strings"
	"text/tabwriter"
)

// TableFormatter renders a slice of structs as aligned columns, one row per
// element. Fields tagged `table:"wide"` only appear when Wide is set and
// fields tagged `table:"-"` never do. Other values are written as JSON.
type TableFormatter struct {
	Wide bool
}

// Format writes data to w.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	if data == nil {
		return nil
	}
	v := reflect.Indirect(reflect.ValueOf(data))
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return (&JSONFormatter{}).Format(w, data)
	}
	elem := v.Type().Elem()
	for elem.Kind() == reflect.Pointer {
		elem = elem.Elem()
	}
	if elem.Kind() != reflect.Struct {
		return (&JSONFormatter{}).Format(w, data)
	}

	var (
		headers []string
		fields  []int
	)
	for i := range elem.NumField() {
		name, ok := column(elem.Field(i), f.Wide)
		if !ok {
			continue
		}
		headers = append(headers, strings.ToUpper(name))
		fields = append(fields, i)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	row := make([]string, len(fields))
	for i := range v.Len() {
		rv := reflect.Indirect(v.Index(i))
		if !rv.IsValid() {
			continue
		}
		for j, idx := range fields {
			row[j] = formatValue(rv.Field(idx))
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// column returns the header of a struct field and whether it is shown.
func column(field reflect.StructField, wide bool) (string, bool) {
	if !field.IsExported() {
		return "", false
	}
	tag := field.Tag.Get("table")
	if tag == "-" || (tag == "wide" && !wide) {
		return "", false
	}
	if name, _, _ := strings.Cut(field.Tag.Get("json"), ","); name != "" && name != "-" {
		return name, true
	}
	return field.Name, true
}

var stringerType = reflect.TypeFor[fmt.Stringer]()

// formatValue renders one cell. Values implementing fmt.Stringer, such as
// 128-bit counters and durations, use their String method. Empty strings
// and NaN render as "-", nil pointers as an empty cell.
func formatValue(v reflect.Value) string {
	if !v.IsValid() {
		return ""
	}
	if v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}
	if v.Type().Implements(stringerType) && v.CanInterface() {
		return v.Interface().(fmt.Stringer).String()
	}

	switch v.Kind() {
	case reflect.String:
		if v.Len() == 0 {
			return "-"
		}
		return v.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		if f := v.Float(); !math.IsNaN(f) {
			return strconv.FormatFloat(f, 'f', 2, 64)
		}
		return "-"
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	}
	return fmt.Sprintf("%v", v.Interface())
}
