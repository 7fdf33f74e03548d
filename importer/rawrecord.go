// importer/rawrecord.go
package importer

import "encoding/json"

// RawRecord is one loosely-typed record as published by a root server: a flat
// string-keyed map of string fields. Raw records only ever cross the
// validation boundary through the coercion helpers in this package; everything
// downstream works on typed candidates.
type RawRecord map[string]string

// Get returns the value for key and whether the key was present at all.
// Presence with an empty value is distinct from absence.
func (r RawRecord) Get(key string) (string, bool) {
	v, ok := r[key]
	return v, ok
}

// GetDefault returns the value for key, or def when the key is absent.
func (r RawRecord) GetDefault(key, def string) string {
	if v, ok := r[key]; ok {
		return v
	}
	return def
}

// String serializes the record deterministically (JSON with sorted keys) so
// problem-log entries are stable and diffable across runs.
func (r RawRecord) String() string {
	b, err := json.Marshal(r)
	if err != nil {
		// A map[string]string cannot fail to marshal; keep the log entry
		// non-empty anyway.
		return "{}"
	}
	return string(b)
}
