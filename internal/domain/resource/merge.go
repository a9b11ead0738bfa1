package resource

import (
	"fmt"

	sonic "github.com/bytedance/sonic"
)

// Accumulate merges the array at path of fresh into the one held by stored.
// Entries are matched by their "id" field; fresh entries win and keep their
// order, stored entries absent from fresh are appended after them.
func Accumulate(path string, stored, fresh []byte) ([]byte, error) {
	if path == "" || len(stored) == 0 {
		return fresh, nil
	}

	var freshDoc map[string]any
	if err := sonic.Unmarshal(fresh, &freshDoc); err != nil {
		return nil, fmt.Errorf("decode fresh payload: %w", err)
	}
	var storedDoc map[string]any
	if err := sonic.Unmarshal(stored, &storedDoc); err != nil {
		// A corrupt stored copy is replaced rather than blocking the refresh.
		return fresh, nil
	}

	freshItems, _ := freshDoc[path].([]any)
	storedItems, _ := storedDoc[path].([]any)
	if len(storedItems) == 0 {
		return fresh, nil
	}

	seen := make(map[string]struct{}, len(freshItems))
	merged := make([]any, 0, len(freshItems)+len(storedItems))
	for _, item := range freshItems {
		if key, ok := itemKey(item); ok {
			seen[key] = struct{}{}
		}
		merged = append(merged, item)
	}
	for _, item := range storedItems {
		key, ok := itemKey(item)
		if !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		merged = append(merged, item)
	}

	freshDoc[path] = merged
	out, err := sonic.Marshal(freshDoc)
	if err != nil {
		return nil, fmt.Errorf("encode merged payload: %w", err)
	}
	return out, nil
}

func itemKey(item any) (string, bool) {
	obj, ok := item.(map[string]any)
	if !ok {
		return "", false
	}
	switch v := obj["id"].(type) {
	case string:
		return v, v != ""
	case float64:
		return fmt.Sprintf("%.0f", v), true
	case int64:
		return fmt.Sprintf("%d", v), true
	case nil:
		return "", false
	default:
		return fmt.Sprint(v), true
	}
}
