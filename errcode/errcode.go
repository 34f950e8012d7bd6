package errcode

import (
	"errors"

	"envsense-go/drivers/dht"
)

// Code is a stable, publish-facing error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK            Code = "ok"
	Busy          Code = "busy"
	Unsupported   Code = "unsupported"
	InvalidParams Code = "invalid_params"

	UnknownPin Code = "unknown_pin"
	PinInUse   Code = "pin_in_use"
	PinFault   Code = "pin_fault"
	Timeout    Code = "timeout"
	Checksum   Code = "checksum"

	Error Code = "error" // generic fallback
)

// Optional wrapper when we want to keep context and a cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	if e.Msg != "" {
		return string(e.C) + ": " + e.Msg
	}
	return string(e.C)
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	return Error
}

// MapDriverErr maps low-level driver errors to a Code.
func MapDriverErr(err error) Code {
	var pe *dht.PinError
	switch {
	case err == nil:
		return OK
	case errors.Is(err, dht.ErrTimeout):
		return Timeout
	case errors.Is(err, dht.ErrChecksum):
		return Checksum
	case errors.As(err, &pe):
		return PinFault
	}
	return Of(err)
}
