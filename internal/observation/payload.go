package observation

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Payload is one raw observation as decoded from a data source.
type Payload map[string]any

// ParsePayload decodes a JSON object.
func ParsePayload(data []byte) (Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse payload: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("parse payload: expected a JSON object")
	}
	return p, nil
}

// Lookup returns the value under key. A key that is not present verbatim is
// treated as a dotted path into nested objects, so "values.temperature"
// reaches {"values": {"temperature": 21}}.
func (p Payload) Lookup(key string) (any, bool) {
	if v, ok := p[key]; ok {
		return v, true
	}
	var cur any = map[string]any(p)
	for _, part := range strings.Split(key, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[part]; !ok {
			return nil, false
		}
	}
	return cur, true
}
