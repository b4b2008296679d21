package convert

import (
	"encoding/json"
	"fmt"
	"os"

	"www.velocidex.com/golang/evtx"
)

// EvtxConverter extracts records from Windows event logs. A single
// malformed chunk or record is logged and skipped.
type EvtxConverter struct {
	opts Options
}

func NewEvtx(opts Options) Converter {
	return &EvtxConverter{opts: opts.withDefaults()}
}

func (c *EvtxConverter) ExtractData(path string) (any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	chunks, err := evtx.GetChunks(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	records := []map[string]any{}
	for _, chunk := range chunks {
		recs, err := chunk.Parse(0)
		if err != nil {
			c.opts.Logger.Warn("error parsing evtx chunk", "file", path, "error", err)
			continue
		}
		for _, rec := range recs {
			event, err := normalizeEvent(rec.Event)
			if err != nil {
				c.opts.Logger.Warn("error parsing evtx record", "file", path, "error", err)
				continue
			}
			records = append(records, summarizeEvent(event))
		}
	}

	return map[string]any{
		"record_count": len(records),
		"records":      records,
	}, nil
}

// normalizeEvent round-trips the parsed event through JSON to get a
// plain map, independent of the reader's internal dict type.
func normalizeEvent(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// summarizeEvent pulls the key System fields and named EventData
// values out of one event, keeping the full event alongside.
func summarizeEvent(event map[string]any) map[string]any {
	system := mapAt(event, "Event", "System")

	data := mapAt(event, "Event", "EventData")
	if data == nil {
		data = map[string]any{}
	}

	return map[string]any{
		"EventID":       scalarField(system, "EventID"),
		"TimeCreated":   scalarField(mapAt(system, "TimeCreated"), "SystemTime"),
		"EventRecordID": scalarField(system, "EventRecordID"),
		"data":          data,
		"event":         event,
	}
}

// mapAt walks nested maps by key, returning nil on any miss.
func mapAt(m map[string]any, keys ...string) map[string]any {
	cur := m
	for _, k := range keys {
		if cur == nil {
			return nil
		}
		next, ok := cur[k].(map[string]any)
		if !ok {
			return nil
		}
		cur = next
	}
	return cur
}

// scalarField returns m[key], unwrapping the {"Value": ...} shape
// some readers use for qualified fields.
func scalarField(m map[string]any, key string) any {
	if m == nil {
		return nil
	}
	v, ok := m[key]
	if !ok {
		return nil
	}
	if wrapped, ok := v.(map[string]any); ok {
		if inner, ok := wrapped["Value"]; ok {
			return inner
		}
	}
	return v
}
