package upstream

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// decodeList accepts a bare JSON array or an object carrying the array under one of keys
func decodeList[T any](body []byte, keys ...string) ([]T, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []T{}, nil
	}
	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("decoding list: %w", err)
		}
		return items, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("decoding list envelope: %w", err)
	}
	for _, k := range append(keys, "data", "items") {
		raw, ok := envelope[k]
		if !ok {
			continue
		}
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || raw[0] != '[' {
			continue
		}
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("decoding %q: %w", k, err)
		}
		return items, nil
	}
	return nil, fmt.Errorf("response carries no list under %v", keys)
}

// decodeOne accepts a bare JSON object or one wrapped under one of keys
func decodeOne[T any](body []byte, keys ...string) (*T, error) {
	trimmed := bytes.TrimSpace(body)
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("decoding object: %w", err)
	}
	for _, k := range append(keys, "data") {
		raw, ok := envelope[k]
		if !ok {
			continue
		}
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || raw[0] != '{' {
			continue
		}
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("decoding %q: %w", k, err)
		}
		return &v, nil
	}
	var v T
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return nil, fmt.Errorf("decoding object: %w", err)
	}
	return &v, nil
}
