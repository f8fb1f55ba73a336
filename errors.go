package remotepkg

import "fmt"

// SniffError reports an I/O failure while reading the peek window. The
// stream was never inspected; nothing can be said about its format.
type SniffError struct {
	Err error
}

func (e *SniffError) Error() string {
	return fmt.Sprintf("sniffing package stream: %v", e.Err)
}

func (e *SniffError) Unwrap() error { return e.Err }

// UnknownTypeError reports that the peek window matched no enabled format.
// Hint carries a best-effort description of what the stream looked like
// ("gzip compressed data", an HTML error page, or the detected-but-disabled
// format tag); it is empty when nothing recognizable was seen.
type UnknownTypeError struct {
	Hint string
}

func (e *UnknownTypeError) Error() string {
	if e.Hint == "" {
		return "unknown package type"
	}
	return fmt.Sprintf("unknown package type (looks like %s)", e.Hint)
}

// ParseError reports that the format-specific parser rejected the stream
// after sniffing had already committed to Format. The parser's own error is
// preserved as the cause.
type ParseError struct {
	Format Type
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s package: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// FieldNotFoundError reports that a required metadata field was absent from
// successfully parsed control or header data. Err holds the underlying
// lookup error when the parser produced one.
type FieldNotFoundError struct {
	Field string
	Err   error
}

func (e *FieldNotFoundError) Error() string {
	return fmt.Sprintf("package metadata field %q not found", e.Field)
}

func (e *FieldNotFoundError) Unwrap() error { return e.Err }
