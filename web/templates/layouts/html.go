package layouts

import (
	"fmt"
	"io"
	"reflect"

	"github.com/a-h/templ"
)

// HTML accumulates markup and keeps the first write error.
type HTML struct {
	w   io.Writer
	err error
}

// NewHTML wraps w.
func NewHTML(w io.Writer) *HTML {
	return &HTML{w: w}
}

// Raw writes trusted markup.
func (h *HTML) Raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

// Text writes s escaped for an HTML text node or quoted attribute.
func (h *HTML) Text(s string) {
	h.Raw(templ.EscapeString(s))
}

// Rawf writes formatted markup. Numbers and booleans are formatted as is; every
// other argument is rendered with fmt.Sprint and escaped.
func (h *HTML) Rawf(format string, args ...any) {
	escaped := make([]any, len(args))
	for i, a := range args {
		if plain(a) {
			escaped[i] = a
			continue
		}
		escaped[i] = templ.EscapeString(fmt.Sprint(a))
	}
	h.Raw(fmt.Sprintf(format, escaped...))
}

// plain reports whether a formats without markup-significant characters.
func plain(a any) bool {
	if a == nil {
		return false
	}
	switch reflect.TypeOf(a).Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		// A number type with its own String method could still emit markup.
		_, ok := a.(fmt.Stringer)
		return !ok
	}
	return false
}

// Err returns the first write error.
func (h *HTML) Err() error {
	return h.err
}
