package response

import "reflect"

// Response is the envelope every endpoint writes. Exactly one of Data or
// Error is set: Data when Success is true, Error when it is false.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

type Message struct {
	Message string `json:"message"`
}

// OK wraps data in a success envelope. A nil payload, including a typed nil
// pointer, slice or map, becomes Message{"ok"} so data never encodes as null.
func OK(data any) Response {
	if isNil(data) {
		data = Message{Message: "ok"}
	}
	return Response{
		Success: true,
		Data:    data,
	}
}

func Fail(message string) Response {
	return Response{
		Success: false,
		Error:   message,
	}
}

// Valid reports whether r holds a payload on success or a message on failure, never both.
func (r Response) Valid() bool {
	if r.Success {
		return r.Data != nil && r.Error == ""
	}
	return r.Data == nil && r.Error != ""
}

func isNil(data any) bool {
	if data == nil {
		return true
	}
	v := reflect.ValueOf(data)
	switch v.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface, reflect.Chan, reflect.Func:
		return v.IsNil()
	}
	return false
}
