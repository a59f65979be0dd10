package detect

import (
	"bytes"
	"encoding/json"
	"errors"
)

// jsonField is one key of a JSON object, in declaration order.
type jsonField struct {
	key   string
	value json.RawMessage
}

// parseOrderedObject decodes a JSON object while preserving key order,
// which encoding/json's map decoding discards. Dependency lists are
// reported in the order the manifest declares them, so the order has to
// survive parsing.
func parseOrderedObject(raw []byte) ([]jsonField, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("not a JSON object")
	}
	var fields []jsonField
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, errors.New("malformed object key")
		}
		var val json.RawMessage
		if err := dec.Decode(&val); err != nil {
			return nil, err
		}
		fields = append(fields, jsonField{key: key, value: val})
	}
	return fields, nil
}

// fieldByKey returns the raw value for key, nil when absent.
func fieldByKey(fields []jsonField, key string) json.RawMessage {
	for _, f := range fields {
		if f.key == key {
			return f.value
		}
	}
	return nil
}

// jsonString unquotes raw when it is a JSON string, "" otherwise.
func jsonString(raw json.RawMessage) string {
	var s string
	if raw == nil || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}
