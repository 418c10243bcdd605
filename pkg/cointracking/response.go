package cointracking

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	UnknownErrorCode    = "UNKNOWN_ERR"
	UnknownErrorMessage = "Unknown error: No error message was provided by the server."
)

// envelopeFields are the keys every response carries next to its entities.
var envelopeFields = map[string]struct{}{
	"success":   {},
	"error":     {},
	"error_msg": {},
	"method":    {},
}

func isEnvelopeField(key string) bool {
	_, ok := envelopeFields[key]
	return ok
}

// Envelope is the fixed status part of every response.
type Envelope struct {
	Success  int    `json:"success"`
	Error    string `json:"error,omitempty"`
	ErrorMsg string `json:"error_msg,omitempty"`
	Method   string `json:"method,omitempty"`
}

// serverError returns nil for a successful envelope. Blank code or message
// are replaced by UnknownErrorCode and UnknownErrorMessage.
func (e *Envelope) serverError(method Method) *ServerError {
	if e.Success != 0 {
		return nil
	}
	code := strings.TrimSpace(e.Error)
	if code == "" {
		code = UnknownErrorCode
	}
	msg := strings.TrimSpace(e.ErrorMsg)
	if msg == "" {
		msg = UnknownErrorMessage
	}
	return &ServerError{Method: method, Code: code, Message: msg}
}

// ServerError is a logical failure reported by the API with success=0.
type ServerError struct {
	Method  Method
	Code    string
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("cointracking: %s: %s: %s", e.Method, e.Code, e.Message)
}

// DecodeError means the response could not be mapped onto the requested
// shape. Key is empty when the document as a whole was unusable.
type DecodeError struct {
	Method Method
	Key    string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("cointracking: decode %s response: %v", e.Method, e.Err)
	}
	return fmt.Sprintf("cointracking: decode %s entity %q: %v", e.Method, e.Key, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// decodeEnvelope is the first pass over a response body.
func decodeEnvelope(method Method, body []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &DecodeError{Method: method, Err: err}
	}
	return &env, nil
}

// decodeEntities is the second pass: every non-envelope member of the
// top-level object is unmarshalled into T. One bad member fails the whole
// call and no partial map is returned.
func decodeEntities[T any](method Method, body []byte) (map[string]T, error) {
	if !gjson.ValidBytes(body) {
		return nil, &DecodeError{Method: method, Err: fmt.Errorf("invalid json")}
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, &DecodeError{Method: method, Err: fmt.Errorf("expected a json object, got %s", root.Type)}
	}

	result := make(map[string]T)
	var decodeErr error
	root.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if isEnvelopeField(name) {
			return true
		}
		var entity T
		if err := json.Unmarshal([]byte(value.Raw), &entity); err != nil {
			decodeErr = &DecodeError{Method: method, Key: name, Err: err}
			return false
		}
		result[name] = entity
		return true
	})
	if decodeErr != nil {
		return nil, decodeErr
	}
	return result, nil
}
