package domain

import (
	"encoding/json"
	"maps"
	"strconv"
)

// Collection names of the per-session cached collections.
const (
	CollectionOrders       = "orders"
	CollectionReturnOrders = "return-orders"
)

// Collections lists every cached collection.
var Collections = []string{CollectionOrders, CollectionReturnOrders}

// Record is one entry of a cached collection. Fields stay in their raw JSON
// form so anything the gateway does not interpret is returned to the browser
// exactly as the backend sent it.
type Record map[string]json.RawMessage

// ID returns the numeric "id" field, or false when it is missing or not an
// integer. String ids holding digits are accepted.
func (r Record) ID() (int64, bool) {
	raw, ok := r["id"]
	if !ok {
		return 0, false
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if id, err := n.Int64(); err == nil {
			return id, true
		}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if id, err := strconv.ParseInt(s, 10, 64); err == nil {
			return id, true
		}
	}
	return 0, false
}

// WithField returns a copy of r with field set to the JSON encoding of v.
// r itself is not modified.
func (r Record) WithField(field string, v any) (Record, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := maps.Clone(r)
	if out == nil {
		out = Record{}
	}
	out[field] = raw
	return out, nil
}

// Status returns the decoded "status" field, or "" when absent.
func (r Record) Status() string {
	var s string
	_ = json.Unmarshal(r["status"], &s)
	return s
}
