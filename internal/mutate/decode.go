package mutate

import (
	"encoding/json"
	"fmt"

	"github.com/jonathan/resume-studio/internal/types"
)

// decodeValue decodes a raw operation value into dst, rejecting absent values.
func decodeValue(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		return fmt.Errorf("missing value")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("invalid value shape: %w", err)
	}
	return nil
}

// decodeString decodes a raw operation value that must be a JSON string.
func decodeString(raw json.RawMessage) (string, error) {
	var s string
	if err := decodeValue(raw, &s); err != nil {
		return "", err
	}
	return s, nil
}

// decodeStringList decodes a raw operation value that must be an array of
// JSON strings (the personalInfo multi-field delete shape).
func decodeStringList(raw json.RawMessage) ([]string, error) {
	var list []string
	if err := decodeValue(raw, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// decodeBullets decodes a bullets value, normalizing each entry: plain
// strings pass through, `{"text": ...}` wrappers are unwrapped, anything
// else is coerced to its string form. The value must be an array.
func decodeBullets(raw json.RawMessage) (types.BulletList, error) {
	var entries []any
	if err := decodeValue(raw, &entries); err != nil {
		return nil, err
	}

	bullets := make(types.BulletList, 0, len(entries))
	for _, entry := range entries {
		bullets = append(bullets, types.NormalizeBullet(entry))
	}
	return bullets, nil
}

// decodeBullet decodes a single bullet value with the same normalization.
func decodeBullet(raw json.RawMessage) (string, error) {
	var v any
	if err := decodeValue(raw, &v); err != nil {
		return "", err
	}
	return types.NormalizeBullet(v), nil
}
