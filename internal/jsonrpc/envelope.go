package jsonrpc

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Version is the only protocol tag this codec accepts or emits.
const Version = "2.0"

// Reserved JSON-RPC error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// ErrMissingProtocolTag and ErrAmbiguousEnvelope are returned by Decode when
// an envelope fails the shape checks from the wire codec's invariants.
var (
	ErrMissingProtocolTag = errors.New("jsonrpc: envelope missing protocol tag")
	ErrAmbiguousEnvelope  = errors.New("jsonrpc: envelope carries both result and error")
)

// ID identifies a request/response pair. It may hold an integer, a string,
// or be unset (notifications carry no id). Using a dedicated type instead
// of a bare interface{} keeps round-tripping exact: a numeric id sent as
// `7` is never silently promoted to float64 text on re-encode.
type ID struct {
	str   string
	num   int64
	isStr bool
	isSet bool
}

// NewIntID builds a numeric request id.
func NewIntID(n int64) ID { return ID{num: n, isSet: true} }

// NewStringID builds a string request id.
func NewStringID(s string) ID { return ID{str: s, isStr: true, isSet: true} }

// IsSet reports whether the id was present on the wire.
func (i ID) IsSet() bool { return i.isSet }

// String renders the id for logs and map keys regardless of its underlying kind.
func (i ID) String() string {
	if !i.isSet {
		return ""
	}
	if i.isStr {
		return i.str
	}
	return fmt.Sprintf("%d", i.num)
}

func (i ID) MarshalJSON() ([]byte, error) {
	if !i.isSet {
		return []byte("null"), nil
	}
	if i.isStr {
		return json.Marshal(i.str)
	}
	return json.Marshal(i.num)
}

func (i *ID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" || len(data) == 0 {
		*i = ID{}
		return nil
	}
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		*i = ID{str: asString, isStr: true, isSet: true}
		return nil
	}
	var asNum int64
	if err := json.Unmarshal(data, &asNum); err == nil {
		*i = ID{num: asNum, isSet: true}
		return nil
	}
	return fmt.Errorf("jsonrpc: id must be a string or integer, got %s", data)
}

// Error is the optional error object carried by a response envelope.
type Error struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

// Envelope is the single JSON-RPC 2.0 message shape: request, notification,
// or response. Unknown fields in incoming JSON are ignored by
// encoding/json's default behavior, which satisfies the forward-compatible
// extension requirement without extra bookkeeping.
type Envelope struct {
	Protocol string          `json:"jsonrpc"`
	ID       *ID             `json:"id,omitempty"`
	Method   string          `json:"method,omitempty"`
	Params   json.RawMessage `json:"params,omitempty"`
	Result   json.RawMessage `json:"result,omitempty"`
	Error    *Error          `json:"error,omitempty"`
}

// NewRequest builds a request envelope carrying a method and optional params.
func NewRequest(id ID, method string, params interface{}) (Envelope, error) {
	raw, err := marshalParams(params)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Protocol: Version, ID: &id, Method: method, Params: raw}, nil
}

// NewNotification builds a request envelope with no id: the server must not
// reply to it.
func NewNotification(method string, params interface{}) (Envelope, error) {
	raw, err := marshalParams(params)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Protocol: Version, Method: method, Params: raw}, nil
}

// NewResponse builds a successful response envelope correlated to id.
func NewResponse(id ID, result interface{}) (Envelope, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return Envelope{}, fmt.Errorf("jsonrpc: marshal result: %w", err)
	}
	return Envelope{Protocol: Version, ID: &id, Result: raw}, nil
}

// NewErrorResponse builds a failed response envelope correlated to id.
func NewErrorResponse(id ID, code int, message string, data interface{}) (Envelope, error) {
	e := &Error{Code: code, Message: message}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return Envelope{}, fmt.Errorf("jsonrpc: marshal error data: %w", err)
		}
		e.Data = raw
	}
	return Envelope{Protocol: Version, ID: &id, Error: e}, nil
}

func marshalParams(params interface{}) (json.RawMessage, error) {
	if params == nil {
		return nil, nil
	}
	raw, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("jsonrpc: marshal params: %w", err)
	}
	return raw, nil
}

// IsRequest reports whether the envelope is a request or notification (it
// carries a method).
func (e Envelope) IsRequest() bool { return e.Method != "" }

// IsNotification reports whether the envelope is a request with no id.
func (e Envelope) IsNotification() bool { return e.IsRequest() && (e.ID == nil || !e.ID.IsSet()) }

// IsResponse reports whether the envelope carries a result or an error.
func (e Envelope) IsResponse() bool { return !e.IsRequest() && (e.Result != nil || e.Error != nil) }

// Validate checks the envelope's shape invariants: the protocol tag
// must be present, and result/error are mutually exclusive.
func (e Envelope) Validate() error {
	if e.Protocol != Version {
		return ErrMissingProtocolTag
	}
	if e.Result != nil && e.Error != nil {
		return ErrAmbiguousEnvelope
	}
	return nil
}

// Encode serializes the envelope to a single line of JSON with no trailing
// newline; callers that frame messages (e.g. the stdio transport) append
// their own line terminator.
func Encode(e Envelope) ([]byte, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(e)
}

// Decode parses a single JSON-RPC envelope and validates its shape.
func Decode(data []byte) (Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return Envelope{}, fmt.Errorf("jsonrpc: decode: %w", err)
	}
	if err := e.Validate(); err != nil {
		return Envelope{}, err
	}
	return e, nil
}
