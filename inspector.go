package extract

import (
	"github.com/tidwall/gjson"
)

// Inspector examines raw bytes and returns a View for field queries.
type Inspector interface {
	Inspect(raw []byte) (View, error)
}

// View provides path-based field access over a request payload. Declaring
// a View parameter gives a handler the payload already validated as JSON;
// guards added with When evaluate against the same view.
//
// Paths use gjson syntax: "detail.userId", "items.0.sku", "items.#".
type View interface {
	// HasField returns true if the path exists in the payload.
	HasField(path string) bool

	// GetString returns the string value at path, or false if not found
	// or not a string.
	GetString(path string) (string, bool)

	// GetInt returns the numeric value at path as an int64, or false if
	// not found or not a number.
	GetInt(path string) (int64, bool)

	// GetFloat returns the numeric value at path as a float64.
	GetFloat(path string) (float64, bool)

	// GetBool returns the boolean at path, or false if not found or not
	// true/false.
	GetBool(path string) (bool, bool)

	// GetBytes returns the raw JSON at path (including quotes for strings),
	// or false if not found.
	GetBytes(path string) ([]byte, bool)
}

// JSONInspector returns an Inspector that uses gjson for field access.
func JSONInspector() Inspector {
	return jsonInspector{}
}

type jsonInspector struct{}

func (jsonInspector) Inspect(raw []byte) (View, error) {
	if !gjson.ValidBytes(raw) {
		return nil, ErrInvalidJSON
	}
	return jsonView{raw: raw}, nil
}

type jsonView struct {
	raw []byte
}

func (v jsonView) get(path string) (gjson.Result, bool) {
	r := gjson.GetBytes(v.raw, path)
	return r, r.Exists()
}

func (v jsonView) HasField(path string) bool {
	_, ok := v.get(path)
	return ok
}

func (v jsonView) GetString(path string) (string, bool) {
	r, ok := v.get(path)
	if !ok || r.Type != gjson.String {
		return "", false
	}
	return r.String(), true
}

func (v jsonView) GetInt(path string) (int64, bool) {
	r, ok := v.get(path)
	if !ok || r.Type != gjson.Number {
		return 0, false
	}
	return r.Int(), true
}

func (v jsonView) GetFloat(path string) (float64, bool) {
	r, ok := v.get(path)
	if !ok || r.Type != gjson.Number {
		return 0, false
	}
	return r.Float(), true
}

func (v jsonView) GetBool(path string) (bool, bool) {
	r, ok := v.get(path)
	if !ok || !r.IsBool() {
		return false, false
	}
	return r.Bool(), true
}

func (v jsonView) GetBytes(path string) ([]byte, bool) {
	r, ok := v.get(path)
	if !ok {
		return nil, false
	}
	return []byte(r.Raw), true
}
