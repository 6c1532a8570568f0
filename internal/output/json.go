package output

import (
	"encoding/json"
	"io"

	"github.com/hal/contrib/internal/aggregate"
)

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format outputs author aggregates as JSON
func (f *JSONFormatter) Format(aggs []*aggregate.AuthorAggregate, w io.Writer) error {
	encoder := json.NewEncoder(w)
	if f.Pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(aggs)
}
