package yt_dlp_api

import "strconv"

// RawInfo is a loosely-shaped descriptor as produced by an extractor client: a plain
// decoded JSON object with no guarantee that any key exists or has a sensible type.
// The accessors degrade to zero/nil on missing or wrong-shaped values, never panic.
type RawInfo map[string]any

// String returns the string value for key, or "" if the key is absent or not a string.
func (r RawInfo) String(key string) string {
	s, _ := r[key].(string)
	return s
}

// StringPtr is like String but returns nil for absent/empty values, for optional
// response fields.
func (r RawInfo) StringPtr(key string) *string {
	if s := r.String(key); s != "" {
		return &s
	}
	return nil
}

// Int returns the integer value for key. Native numbers are truncated, numeric strings
// are parsed; anything else is nil.
func (r RawInfo) Int(key string) *int64 {
	switch v := r[key].(type) {
	case int:
		n := int64(v)
		return &n
	case int64:
		return &v
	case float64:
		n := int64(v)
		return &n
	case string:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return &n
		}
	}
	return nil
}

// Float returns the floating-point value for key, or nil.
func (r RawInfo) Float(key string) *float64 {
	switch v := r[key].(type) {
	case float64:
		return &v
	case int:
		f := float64(v)
		return &f
	case int64:
		f := float64(v)
		return &f
	}
	return nil
}

// Entries returns the list of child objects under key, skipping elements that are not
// objects. A missing or wrong-shaped value yields nil.
func (r RawInfo) Entries(key string) []RawInfo {
	list, ok := r[key].([]any)
	if !ok {
		return nil
	}
	entries := make([]RawInfo, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			entries = append(entries, RawInfo(m))
		}
	}
	return entries
}
