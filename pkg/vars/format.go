package vars

import (
	"errors"
	"strings"
)

// ErrTooManyFormatArgs is returned when a formatter carries more values than
// its format string has {} placeholders for.
var ErrTooManyFormatArgs = errors.New("more args than placeholders")

// Formatter fills {} placeholders in a format string positionally, resolving
// late-bound values on demand. Fewer values than placeholders leaves the
// trailing placeholders unfilled.
type Formatter struct {
	format string
	values []LateBound
}

// NewFormatter builds a formatter over the given format string and values.
func NewFormatter(format string, values []LateBound) *Formatter {
	return &Formatter{format: format, values: values}
}

// Format resolves every value and substitutes it into the next {}
// placeholder in order.
func (f *Formatter) Format(r Resolver) (string, error) {
	out := f.format
	for _, v := range f.values {
		val, err := v.Value(r)
		if err != nil {
			return "", err
		}
		replaced := strings.Replace(out, "{}", val, 1)
		if replaced == out {
			return "", ErrTooManyFormatArgs
		}
		out = replaced
	}
	return out, nil
}

// String returns the raw format string.
func (f *Formatter) String() string { return f.format }
