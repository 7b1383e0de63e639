package catalog

import (
	"bytes"
	"encoding/json"
)

// decodeObject splits a JSON object into raw fields. null decodes to an empty map.
func decodeObject(data []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]json.RawMessage{}
	}
	return fields, nil
}

// take removes key from fields and decodes it into dst unless it is absent or null.
func take(fields map[string]json.RawMessage, key string, dst any) error {
	raw, ok := fields[key]
	if !ok {
		return nil
	}
	delete(fields, key)
	if isNull(raw) {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// encodeObject merges known values over the opaque fields.
func encodeObject(opaque map[string]json.RawMessage, known map[string]any) ([]byte, error) {
	out := make(map[string]any, len(opaque)+len(known))
	for k, v := range opaque {
		out[k] = v
	}
	for k, v := range known {
		if v == nil {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	return json.Marshal(out)
}

func cloneRaw(fields map[string]json.RawMessage) map[string]json.RawMessage {
	if len(fields) == 0 {
		return nil
	}
	out := make(map[string]json.RawMessage, len(fields))
	for k, v := range fields {
		out[k] = append(json.RawMessage(nil), v...)
	}
	return out
}
