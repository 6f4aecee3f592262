package codec

import "fmt"

// CodecError reports a value whose runtime shape disagrees with its field
// kind, or a wire property missing the key its kind requires.
type CodecError struct {
	Op       string `json:"op"` // "encode" or "decode"
	Property string `json:"property"`
	Reason   string `json:"reason"`
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Op, e.Property, e.Reason)
}

func encodeError(property, format string, args ...any) *CodecError {
	return &CodecError{Op: "encode", Property: property, Reason: fmt.Sprintf(format, args...)}
}

func decodeError(property, format string, args ...any) *CodecError {
	return &CodecError{Op: "decode", Property: property, Reason: fmt.Sprintf(format, args...)}
}
