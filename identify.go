package remotepkg

import (
	"io"
	"slices"
)

// Identify sniffs the format of src and returns the matching package adapter.
// With no explicit formats, every supported format is enabled.
//
// Identify reads src exactly once: a bounded prefix is taken for signature
// matching and then replayed ahead of the remainder for the format parser, so
// src needs no Seek support. Sniffing is authoritative; if the chosen
// format's parser rejects the stream, that failure is returned as a
// *ParseError and no other format is tried.
//
// Failures are typed: *SniffError when the prefix could not be read,
// *UnknownTypeError when no enabled format matched, *ParseError when the
// format parser failed, *FieldNotFoundError later from the accessors.
func Identify(src io.Reader, enabled ...Type) (RemotePackage, error) {
	if len(enabled) == 0 {
		enabled = Supported()
	}

	pr, err := newPeekReader(src, peekWindow)
	if err != nil {
		return nil, &SniffError{Err: err}
	}

	detected, hint := classify(pr.prefix)
	if detected == TypeUnknown {
		return nil, &UnknownTypeError{Hint: hint}
	}
	if !slices.Contains(enabled, detected) {
		// Detected but disabled: the tag itself is the most useful hint.
		return nil, &UnknownTypeError{Hint: string(detected)}
	}

	switch detected {
	case TypeDeb:
		return NewDebianPackageFromReader(pr)
	case TypeRPM:
		return NewRPMPackageFromReader(pr)
	}
	return nil, &UnknownTypeError{Hint: hint}
}
