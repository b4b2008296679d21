package convert

import (
	"encoding/json"
	"fmt"
	"os"
)

// JSONConverter validates a JSON document and re-emits it as parsed.
type JSONConverter struct {
	opts Options
}

func NewJSON(opts Options) Converter {
	return &JSONConverter{opts: opts.withDefaults()}
}

func (c *JSONConverter) ExtractData(path string) (any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return data, nil
}
