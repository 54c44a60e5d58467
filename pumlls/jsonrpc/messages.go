package jsonrpc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
)

const validJSONRPC = "2.0"

type message interface {
	isMessage()
}

// request is sent by either side and must be answered with a response carrying the same id.
//
// https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification/#requestMessage
type request struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      ID               `json:"id"`
	Method  string           `json:"method"`
	Params  *json.RawMessage `json:"params,omitempty"`
}

func (r *request) isMessage() {}

// notification is a request without an id. It's never answered.
//
// https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification/#notificationMessage
type notification struct {
	JSONRPC string           `json:"jsonrpc"`
	Method  string           `json:"method"`
	Params  *json.RawMessage `json:"params,omitempty"`
}

func (n *notification) isMessage() {}

// response answers a request. Exactly one of Result and Error is set. Result is the JSON null value for requests which
// succeed without a result.
//
// https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification/#responseMessage
type response struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *ID              `json:"id"`
	Result  *json.RawMessage `json:"result,omitempty"`
	Error   *responseError   `json:"error,omitempty"`
}

func (r *response) isMessage() {}

// responseError is the error object of a failed request.
//
// https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification/#responseError
type responseError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Data    any       `json:"data,omitempty"`
}

func (e *responseError) Error() string {
	return fmt.Sprintf("jsonrpc error: code = %d message = %q data = %v", e.Code, e.Message, e.Data)
}

// combinedMessage has every field that any message can have so that the kind of message can be worked out from which
// fields are present.
type combinedMessage struct {
	JSONRPC optional[string]              `json:"jsonrpc"`
	ID      nullOptional[*ID]             `json:"id"`
	Method  optional[string]              `json:"method"`
	Params  optional[*json.RawMessage]    `json:"params"`
	Result  nullOptional[json.RawMessage] `json:"result"`
	Error   optional[*responseError]      `json:"error"`
}

func unmarshalMessage(content []byte) (message, error) {
	var msg combinedMessage
	if err := json.Unmarshal(content, &msg); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, newParseError(err.Error())
		}
		return nil, NewInvalidRequestError(err.Error())
	}

	if !msg.JSONRPC.IsPresent() {
		return nil, NewInvalidRequestError("jsonrpc is required")
	}
	if v := msg.JSONRPC.Get(); v != validJSONRPC {
		return nil, NewInvalidRequestError(fmt.Sprintf("invalid jsonrpc value %q, must be %q", v, validJSONRPC))
	}

	// Requests and responses arrive on the same stream. Anything which doesn't look like a response is treated as a
	// request since that's much more common.
	if msg.ID.IsPresent() && !msg.Method.IsPresent() && !msg.Params.IsPresent() &&
		(msg.Result.IsPresent() || msg.Error.IsPresent()) {
		return unmarshalResponse(&msg)
	}

	if !msg.Method.IsPresent() {
		return nil, NewInvalidRequestError("method is required")
	}
	if msg.Result.IsPresent() {
		return nil, NewInvalidRequestError("result is not a valid request field")
	}
	if msg.Error.IsPresent() {
		return nil, NewInvalidRequestError("error is not a valid request field")
	}

	var params *json.RawMessage
	if msg.Params.IsPresent() {
		params = msg.Params.Get()
	}
	if !msg.ID.IsPresent() {
		return &notification{JSONRPC: validJSONRPC, Method: msg.Method.Get(), Params: params}, nil
	}
	if msg.ID.IsNull() {
		return nil, NewInvalidRequestError("id cannot be null")
	}
	return &request{JSONRPC: validJSONRPC, ID: *msg.ID.Get(), Method: msg.Method.Get(), Params: params}, nil
}

func unmarshalResponse(msg *combinedMessage) (*response, error) {
	if msg.Result.IsPresent() && msg.Error.IsPresent() {
		return nil, errors.New("unmarshalling response: result and error are mutually exclusive")
	}
	resp := &response{JSONRPC: validJSONRPC}
	if !msg.ID.IsNull() {
		resp.ID = msg.ID.Get()
	}
	if msg.Result.IsPresent() {
		result := json.RawMessage("null")
		if !msg.Result.IsNull() {
			result = msg.Result.Get()
		}
		resp.Result = &result
	} else {
		resp.Error = msg.Error.Get()
	}
	return resp, nil
}

// ID identifies a request. It's either an integer or a string.
type ID struct {
	num   int
	str   string
	isNum bool
}

// NewIntID returns an integer [ID].
func NewIntID(n int) ID {
	return ID{num: n, isNum: true}
}

// NewStringID returns a string [ID].
func NewStringID(s string) ID {
	return ID{str: s}
}

// UnmarshalJSON implements [json.Unmarshaler].
func (id *ID) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch v := v.(type) {
	case string:
		*id = NewStringID(v)
	case float64:
		if math.Trunc(v) != v {
			return &json.UnmarshalTypeError{Value: fmt.Sprint(v), Type: reflect.TypeOf(ID{})}
		}
		*id = NewIntID(int(v))
	default:
		return &json.UnmarshalTypeError{Value: fmt.Sprint(v), Type: reflect.TypeOf(ID{})}
	}
	return nil
}

// MarshalJSON implements [json.Marshaler].
func (id ID) MarshalJSON() ([]byte, error) {
	if id.isNum {
		return json.Marshal(id.num)
	}
	return json.Marshal(id.str)
}

func (id ID) String() string {
	if id.isNum {
		return strconv.Itoa(id.num)
	}
	return strconv.Quote(id.str)
}

// optional is a JSON value which is either absent or present and non-null.
type optional[T any] []T

func (o optional[T]) IsPresent() bool {
	return o != nil
}

func (o optional[T]) Get() T {
	if !o.IsPresent() {
		panic("get of an absent value")
	}
	return o[0]
}

func (o *optional[T]) UnmarshalJSON(data []byte) error {
	*o = optional[T]{}
	if bytes.Equal(data, []byte("null")) {
		return &json.UnmarshalTypeError{Value: "null", Type: reflect.TypeOf(new(T)).Elem()}
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = append(*o, v)
	return nil
}

// nullOptional is a JSON value which is absent, present and null, or present and non-null.
type nullOptional[T any] []*T

func (o nullOptional[T]) IsPresent() bool {
	return o != nil
}

func (o nullOptional[T]) IsNull() bool {
	return o.IsPresent() && o[0] == nil
}

func (o nullOptional[T]) Get() T {
	if !o.IsPresent() {
		panic("get of an absent value")
	}
	if o.IsNull() {
		panic("get of a null value")
	}
	return *o[0]
}

func (o *nullOptional[T]) UnmarshalJSON(data []byte) error {
	*o = nullOptional[T]{}
	if bytes.Equal(data, []byte("null")) {
		*o = append(*o, nil)
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = append(*o, &v)
	return nil
}
