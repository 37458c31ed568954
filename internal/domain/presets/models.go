package presets

import (
	"bytes"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"hrconsole/internal/domain/matrix"
)

var (
	ErrNameRequired    = errors.New("filter name is required")
	ErrContextRequired = errors.New("page context is required")
	ErrNoFilters       = errors.New("no active filters to save")
	ErrInvalidFilters  = errors.New("filter values do not match the filter fields")
	ErrDuplicate       = errors.New("a filter with this name already exists")
	ErrNotFound        = errors.New("saved filter not found")
)

type Value struct {
	Key   string          `json:"filter_key"`
	Value json.RawMessage `json:"filter_value"`
}

// Preset is a named, per-user snapshot of filter values for one page.
type Preset struct {
	ID          string    `json:"id"`
	UserID      string    `json:"-"`
	Name        string    `json:"filter_name"`
	PageContext string    `json:"page_context"`
	Values      []Value   `json:"filter_values"`
	CreatedAt   time.Time `json:"created_at"`
}

// Apply returns the preset as a filter map keyed by filter name.
func (p Preset) Apply() map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(p.Values))
	for _, v := range p.Values {
		out[v.Key] = v.Value
	}
	return out
}

// Cleared returns the same keys reset to their empty form: lists become [],
// objects become {} and scalars become null.
func (p Preset) Cleared() map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(p.Values))
	for _, v := range p.Values {
		switch firstByte(v.Value) {
		case '[':
			out[v.Key] = json.RawMessage("[]")
		case '{':
			out[v.Key] = json.RawMessage("{}")
		default:
			out[v.Key] = json.RawMessage("null")
		}
	}
	return out
}

// ValuesFrom keeps the non-empty entries of a filter map in key order.
func ValuesFrom(filters map[string]json.RawMessage) []Value {
	keys := make([]string, 0, len(filters))
	for key, raw := range filters {
		if !isEmptyValue(raw) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	out := make([]Value, 0, len(keys))
	for _, key := range keys {
		out = append(out, Value{Key: key, Value: filters[key]})
	}
	return out
}

// ToFilterState decodes a filter map into matrix filter inputs. Keys that
// are not filter fields are ignored.
func ToFilterState(filters map[string]json.RawMessage) (matrix.FilterState, error) {
	var state matrix.FilterState
	payload, err := json.Marshal(filters)
	if err != nil {
		return state, err
	}
	if err := json.Unmarshal(payload, &state); err != nil {
		return matrix.FilterState{}, err
	}
	return state, nil
}

func isEmptyValue(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	switch string(trimmed) {
	case "", "null", `""`, "[]", "{}":
		return true
	}
	return false
}

func firstByte(raw json.RawMessage) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}
