package extract

import "maps"

// Request is the value a dispatch pass hands to every unit's extractors.
//
// Payload is the raw body. Fields carries optional named values (path
// segments, headers, attributes) for extractors that need a richer shape
// than a single payload. The dispatcher never mutates a Request.
type Request struct {
	Payload string
	Fields  Fields
}

// Fields is a set of named request values. Declaring a Fields parameter
// gives the handler its own copy.
type Fields map[string]string

// NewRequest returns a request carrying only a payload.
func NewRequest(payload string) *Request {
	return &Request{Payload: payload}
}

// WithField returns a copy of r with key set to value.
func (r *Request) WithField(key, value string) *Request {
	fields := make(Fields, len(r.Fields)+1)
	maps.Copy(fields, r.Fields)
	fields[key] = value
	return &Request{Payload: r.Payload, Fields: fields}
}

// Field returns the named value and whether it was present.
func (r *Request) Field(key string) (string, bool) {
	v, ok := r.Fields[key]
	return v, ok
}

// View inspects the payload as JSON.
func (r *Request) View() (View, error) {
	return JSONInspector().Inspect([]byte(r.Payload))
}
