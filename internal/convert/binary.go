package convert

import (
	"encoding/base64"
	"os"
)

// BinaryConverter is the fallback for unrecognized formats: size plus
// an optional base64 preview for small files.
type BinaryConverter struct {
	opts Options
}

func NewBinary(opts Options) Converter {
	return &BinaryConverter{opts: opts.withDefaults()}
}

func (c *BinaryConverter) ExtractData(path string) (any, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	data := map[string]any{
		"binary_type": "unknown",
		"size":        fi.Size(),
		"has_preview": false,
	}

	if c.opts.IncludeBase64 && fi.Size() <= c.opts.Base64Limit {
		raw, err := os.ReadFile(path)
		if err != nil {
			c.opts.Logger.Warn("error reading file for base64 preview", "file", path, "error", err)
		} else {
			data["base64_preview"] = base64.StdEncoding.EncodeToString(raw)
			data["has_preview"] = true
		}
	}

	return data, nil
}
