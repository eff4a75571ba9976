package extract

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// validatable is the interface for payload validation.
// Compatible with github.com/go-ozzo/ozzo-validation/v4.
type validatable interface {
	Validate() error
}

// JSON decodes the payload into T. Declare it as a handler parameter:
//
//	func onOrder(o extract.JSON[Order]) error {
//	    return process(o.Value)
//	}
//
// If T (or *T) implements Validate() error, the decoded value is validated
// and a failure rejects the request like any other extraction error.
type JSON[T any] struct {
	Value T
}

// FromRequest implements Extractable.
func (j *JSON[T]) FromRequest(_ context.Context, req *Request) error {
	if !gjson.Valid(req.Payload) {
		return ErrInvalidJSON
	}
	if err := json.Unmarshal([]byte(req.Payload), &j.Value); err != nil {
		return fmt.Errorf("decode %s: %w", typeName[T](), err)
	}

	if v, ok := any(j.Value).(validatable); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("validate %s: %w", typeName[T](), err)
		}
	} else if v, ok := any(&j.Value).(validatable); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("validate %s: %w", typeName[T](), err)
		}
	}
	return nil
}
