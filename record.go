package workshop

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Record is one submitted form instance: a field map plus the identity the
// Writer assigns at creation. ID and TS are immutable once assigned.
type Record struct {
	// ID is unique within the collection, assigned at creation.
	ID string
	// TS is the creation timestamp in unix milliseconds.
	TS int64
	// Collection is the logical category the record belongs to.
	Collection string
	// Fields holds the domain field values. Empty values carry no weight in
	// aggregation: they never overwrite an earlier non-empty value.
	Fields map[string]string
}

// Key returns the record's business key value, or "" when the collection is
// unknown or the key field is unset.
func (r Record) Key() string {
	return r.Fields[KeyField(r.Collection)]
}

// MarshalJSON encodes the record in the flat wire form: domain fields beside
// id and ts in a single object. This is the shape stored rows and sync batch
// payloads use.
func (r Record) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Fields)+2)
	for name, value := range r.Fields {
		if name == "id" || name == "ts" {
			continue
		}
		out[name] = value
	}
	out["id"] = r.ID
	out["ts"] = r.TS

	return json.Marshal(out)
}

// UnmarshalJSON decodes the flat wire form. Non-string scalars are coerced
// to their textual form so rows written by older clients (numeric
// quantities, booleans) survive the round trip.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("workshop: decode record: %w", err)
	}

	rec := Record{Fields: make(map[string]string, len(raw))}
	for name, value := range raw {
		switch name {
		case "id":
			s, ok := value.(string)
			if !ok {
				return fmt.Errorf("workshop: decode record: id must be a string, got %T", value)
			}
			rec.ID = s
		case "ts":
			n, ok := value.(json.Number)
			if !ok {
				return fmt.Errorf("workshop: decode record: ts must be a number, got %T", value)
			}
			ts, err := n.Int64()
			if err != nil {
				return fmt.Errorf("workshop: decode record: ts: %w", err)
			}
			rec.TS = ts
		default:
			rec.Fields[name] = scalarString(value)
		}
	}

	rec.Collection = r.Collection
	*r = rec

	return nil
}

func scalarString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		if v {
			return "true"
		}

		return "false"
	default:
		// Nested structures do not occur in form submissions; keep whatever
		// JSON text they carry rather than dropping the field.
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}

		return string(b)
	}
}
