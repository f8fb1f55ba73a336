package remotepkg

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"testing/iotest"
)

func TestIdentifyDeb(t *testing.T) {
	pkg, err := Identify(bytes.NewReader(buildDeb(t, debianFAQControl)))
	if err != nil {
		t.Fatalf("Identify failed: %v", err)
	}
	if pkg.Type() != TypeDeb {
		t.Fatalf("Type() = %s, want %s", pkg.Type(), TypeDeb)
	}
	if name, err := pkg.Name(); err != nil || name != "debian-faq" {
		t.Errorf("Name() = %q, %v; want debian-faq", name, err)
	}
	if version, err := pkg.Version(); err != nil || version != "10.1" {
		t.Errorf("Version() = %q, %v; want 10.1", version, err)
	}
	if arch, err := pkg.Arch(); err != nil || arch != "all" {
		t.Errorf("Arch() = %q, %v; want all", arch, err)
	}
	if it, ok := pkg.Iteration(); ok {
		t.Errorf("Iteration() = %q, true; want absence", it)
	}
}

func TestIdentifyUnknownSignature(t *testing.T) {
	_, err := Identify(bytes.NewReader([]byte{0x1f, 0x8b, 0x08, 0x00}))
	var unknown *UnknownTypeError
	if !errors.As(err, &unknown) {
		t.Fatalf("error = %v, want *UnknownTypeError", err)
	}
	if unknown.Hint != "gzip compressed data" {
		t.Errorf("Hint = %q, want gzip compressed data", unknown.Hint)
	}
}

func TestIdentifyUnknownWithoutHint(t *testing.T) {
	_, err := Identify(bytes.NewReader([]byte("just some text")))
	var unknown *UnknownTypeError
	if !errors.As(err, &unknown) {
		t.Fatalf("error = %v, want *UnknownTypeError", err)
	}
	if unknown.Hint != "" {
		t.Errorf("Hint = %q, want empty", unknown.Hint)
	}
}

func TestIdentifyDisabledFormat(t *testing.T) {
	// A perfectly valid deb with only rpm enabled is an unknown type, with
	// the detected tag as the hint.
	_, err := Identify(bytes.NewReader(buildDeb(t, debianFAQControl)), TypeRPM)
	var unknown *UnknownTypeError
	if !errors.As(err, &unknown) {
		t.Fatalf("error = %v, want *UnknownTypeError", err)
	}
	if unknown.Hint != string(TypeDeb) {
		t.Errorf("Hint = %q, want %q", unknown.Hint, TypeDeb)
	}
}

func TestIdentifySniffFailure(t *testing.T) {
	readErr := errors.New("connection reset")
	_, err := Identify(iotest.ErrReader(readErr))
	var sniff *SniffError
	if !errors.As(err, &sniff) {
		t.Fatalf("error = %v, want *SniffError", err)
	}
	if !errors.Is(err, readErr) {
		t.Error("underlying read error not preserved")
	}
}

func TestIdentifyDebParseFailurePropagates(t *testing.T) {
	// Valid deb signature, truncated right after the peek window would have
	// committed to the deb parser. The parser failure must surface as a
	// *ParseError; no other format is tried.
	deb := buildDeb(t, debianFAQControl)
	_, err := Identify(bytes.NewReader(deb[:80]))
	var parse *ParseError
	if !errors.As(err, &parse) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if parse.Format != TypeDeb {
		t.Errorf("Format = %s, want %s", parse.Format, TypeDeb)
	}
	if parse.Err == nil {
		t.Error("cause not preserved")
	}
}

func TestIdentifyRPMDispatch(t *testing.T) {
	// A valid rpm lead magic followed by garbage must reach the rpm parser
	// and come back as its failure, proving dispatch chose rpm.
	stream := append([]byte{0xed, 0xab, 0xee, 0xdb, 0x03, 0x00, 0x00, 0x00}, bytes.Repeat([]byte{0x00}, 200)...)
	_, err := Identify(bytes.NewReader(stream))
	var parse *ParseError
	if !errors.As(err, &parse) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if parse.Format != TypeRPM {
		t.Errorf("Format = %s, want %s", parse.Format, TypeRPM)
	}
}

func TestIdentifyConsumesSourceOnce(t *testing.T) {
	// The source must be read exactly once with no seeking: identifying
	// through a reader that cannot rewind and yields one byte at a time
	// still works.
	deb := buildDeb(t, debianFAQControl)
	pkg, err := Identify(iotest.OneByteReader(bytes.NewReader(deb)))
	if err != nil {
		t.Fatalf("Identify failed: %v", err)
	}
	if name, err := pkg.Name(); err != nil || name != "debian-faq" {
		t.Errorf("Name() = %q, %v; want debian-faq", name, err)
	}
}

func TestAccessorsAreStable(t *testing.T) {
	// Repeated accessor calls answer from captured metadata; the exhausted
	// source is never touched again.
	src := newCountingReader(buildDeb(t, debianFAQControl))
	pkg, err := Identify(src)
	if err != nil {
		t.Fatalf("Identify failed: %v", err)
	}
	reads := src.reads

	first, _ := pkg.Name()
	for i := 0; i < 3; i++ {
		name, err := pkg.Name()
		if err != nil || name != first {
			t.Fatalf("Name() call %d = %q, %v; want stable %q", i, name, err, first)
		}
		if _, err := pkg.Version(); err != nil {
			t.Fatalf("Version() call %d failed: %v", i, err)
		}
	}
	if src.reads != reads {
		t.Errorf("accessors performed %d extra reads on the source", src.reads-reads)
	}
}

type countingReader struct {
	r     io.Reader
	reads int
}

func newCountingReader(b []byte) *countingReader {
	return &countingReader{r: bytes.NewReader(b)}
}

func (c *countingReader) Read(p []byte) (int, error) {
	c.reads++
	return c.r.Read(p)
}

func TestParseType(t *testing.T) {
	for _, want := range Supported() {
		got, err := ParseType(string(want))
		if err != nil || got != want {
			t.Errorf("ParseType(%q) = %s, %v", want, got, err)
		}
	}
	if _, err := ParseType("msi"); err == nil {
		t.Error("ParseType(msi) succeeded, want error")
	}
}
