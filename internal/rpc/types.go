package rpc

import (
	stdjson "encoding/json"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// JSON-RPC 2.0 error codes
const (
	ParseErrorCode     = -32700
	InvalidRequestCode = -32600
	MethodNotFoundCode = -32601
	InvalidParamsCode  = -32602
)

const version = "2.0"

// Request is a JSON-RPC request
type Request struct {
	JSONRPC string             `json:"jsonrpc"`
	ID      stdjson.RawMessage `json:"id,omitempty"`
	Method  string             `json:"method"`
	Params  stdjson.RawMessage `json:"params,omitempty"`
}

// Response is a JSON-RPC response. Exactly one of Result and Error is set.
type Response struct {
	JSONRPC string             `json:"jsonrpc"`
	ID      stdjson.RawMessage `json:"id"`
	Result  any                `json:"result,omitempty"`
	Error   *ErrorObject       `json:"error,omitempty"`
}

// ErrorObject is a JSON-RPC error
type ErrorObject struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error is an error carrying a JSON-RPC code
type Error struct {
	Code int
	Msg  string
}

// NewRPCError creates an Error
func NewRPCError(code int, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

func (e *Error) Error() string {
	return e.Msg
}

func newResponse(id stdjson.RawMessage, result any) Response {
	if len(id) == 0 {
		id = stdjson.RawMessage("null")
	}
	return Response{JSONRPC: version, ID: id, Result: result}
}

func newErrorResponse(id stdjson.RawMessage, err *Error) Response {
	if len(id) == 0 {
		id = stdjson.RawMessage("null")
	}
	return Response{JSONRPC: version, ID: id, Error: &ErrorObject{Code: err.Code, Message: err.Msg}}
}
