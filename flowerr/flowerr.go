// Package flowerr is the flow-graph's error taxonomy (spec.md §7):
// graph errors surfaced from validation, initialization errors surfaced
// from start(), and runtime errors surfaced from a worker's process
// call. Errors are identified by stable Code, not by matching strings.
//
// Grounded on the teacher codebase's errcode package: a comparable
// string newtype implementing error, plus an E wrapper that keeps an
// operation name, a human message, and a wrapped cause.
package flowerr

// Code is a stable, comparable error identifier.
type Code string

func (c Code) Error() string { return string(c) }

// Graph errors — surfaced from Flowgraph.Start's validation phase,
// before any worker is spawned.
const (
	TypeMismatch           Code = "type_mismatch"
	PortNotFound           Code = "port_not_found"
	UnconnectedInput       Code = "unconnected_input"
	MultiplyConnectedInput Code = "multiply_connected_input"
	GraphCycle             Code = "graph_cycle"
	UndefinedRate          Code = "undefined_rate"
)

// Initialization errors — abort Start after validation passes.
const (
	InvalidHeader            Code = "invalid_header"
	UnsupportedAudioFormat   Code = "unsupported_audio_format"
	UnsupportedBitsPerSample Code = "unsupported_bits_per_sample"
	NumChannelsMismatch      Code = "num_channels_mismatch"
	ResourceUnavailable      Code = "resource_unavailable"
	DeviceUnavailable        Code = "device_unavailable"
	AllocationFailure        Code = "allocation_failure"
)

// Runtime errors — surfaced from a worker's process call or from CLI
// argument parsing.
const (
	IOError        Code = "io_error"
	InvalidArgument Code = "invalid_argument"
)

// Error is the generic fallback for a cause with no dedicated Code.
const Error Code = "error"

// E wraps a Code with an operation name, a message, and an optional
// cause, for errors that need more than a bare identifier.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := e.Op
	if s != "" {
		s += ": "
	}
	s += string(e.C)
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	return s
}

func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// New builds an *E with the given code, operation, and message.
func New(c Code, op, msg string) *E {
	return &E{C: c, Op: op, Msg: msg}
}

// Wrap builds an *E that carries cause as its Unwrap target.
func Wrap(c Code, op string, cause error) *E {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return &E{C: c, Op: op, Msg: msg, Err: cause}
}

// Of extracts a Code from an error, defaulting to Error. nil maps to
// the empty Code (no error).
func Of(err error) Code {
	if err == nil {
		return ""
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
