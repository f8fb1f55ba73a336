// Package debfile reads the control metadata out of a Debian binary package
// stream. It walks the outer ar container far enough to reach the control
// archive and stops there; the data archive is never touched, so callers can
// hand it a streaming source and pay only for the metadata prefix.
package debfile

import (
	"archive/tar"
	"bufio"
	"fmt"
	"io"
	"net/textproto"
	"sort"
	"strings"

	"github.com/blakesmith/ar"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Control is the parsed control paragraph of a Debian package. Field names
// are canonicalized on the way in, so lookups are case-insensitive.
type Control struct {
	fields map[string]string
}

// NewControl builds a Control from already-extracted fields. It performs no
// validation; it exists so adapters can be composed and tested without a
// package stream. Parse is the path real streams take.
func NewControl(fields map[string]string) *Control {
	c := &Control{fields: make(map[string]string, len(fields))}
	for k, v := range fields {
		c.fields[canonical(k)] = v
	}
	return c
}

// Parse reads a Debian package from r and returns its control paragraph.
// The stream must start at the first byte of the package (the ar global
// header). Parse fails if the package format version is not 2.x, if no
// control archive is present, or if the control file lacks the required
// Package or Version fields.
func Parse(r io.Reader) (*Control, error) {
	rd := ar.NewReader(r)

	hdr, err := rd.Next()
	if err != nil {
		return nil, fmt.Errorf("reading package member: %w", err)
	}
	if memberName(hdr.Name) != "debian-binary" {
		return nil, fmt.Errorf("first package member is %q, want debian-binary", hdr.Name)
	}
	ver, err := io.ReadAll(io.LimitReader(rd, 32))
	if err != nil {
		return nil, fmt.Errorf("reading debian-binary member: %w", err)
	}
	if v := strings.TrimSpace(string(ver)); !strings.HasPrefix(v, "2.") {
		return nil, fmt.Errorf("unsupported package format version %q", v)
	}

	for {
		hdr, err = rd.Next()
		if err == io.EOF {
			return nil, fmt.Errorf("package has no control archive")
		}
		if err != nil {
			return nil, fmt.Errorf("reading package member: %w", err)
		}
		name := memberName(hdr.Name)
		if !strings.HasPrefix(name, "control.tar") {
			continue
		}
		content, cleanup, err := newDecompressor(name, rd)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", name, err)
		}
		defer cleanup()
		return parseControlTar(content)
	}
}

// memberName strips the padding some ar writers leave on member names:
// trailing spaces in the traditional format, a trailing slash in the GNU
// variant.
func memberName(s string) string {
	return strings.TrimSuffix(strings.TrimSpace(s), "/")
}

// newDecompressor wraps r in the decoder matching the control archive's
// extension. The returned cleanup releases decoder resources and is safe to
// call even when the content was not fully consumed.
func newDecompressor(name string, r io.Reader) (io.Reader, func(), error) {
	switch {
	case name == "control.tar":
		return r, func() {}, nil
	case strings.HasSuffix(name, ".gz"):
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return zr, func() { zr.Close() }, nil
	case strings.HasSuffix(name, ".xz"):
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return xr, func() {}, nil
	case strings.HasSuffix(name, ".zst"):
		zr, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, nil, err
		}
		return zr, func() { zr.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported control archive compression %q", name)
	}
}

func parseControlTar(r io.Reader) (*Control, error) {
	tr := tar.NewReader(r)
	for {
		th, err := tr.Next()
		if err == io.EOF {
			return nil, fmt.Errorf("control archive has no control file")
		}
		if err != nil {
			return nil, fmt.Errorf("reading control archive: %w", err)
		}
		if th.Typeflag == tar.TypeDir {
			continue
		}
		if strings.TrimPrefix(th.Name, "./") == "control" {
			return parseParagraph(tr)
		}
	}
}

// parseParagraph parses the first paragraph of a control file: "Field: value"
// lines, with lines starting in whitespace folded into the previous field.
func parseParagraph(r io.Reader) (*Control, error) {
	fields := make(map[string]string)
	last := ""

	s := bufio.NewScanner(r)
	for s.Scan() {
		line := s.Text()
		if strings.TrimSpace(line) == "" {
			if len(fields) > 0 {
				break
			}
			continue
		}
		if line[0] == ' ' || line[0] == '\t' {
			if last == "" {
				return nil, fmt.Errorf("control file starts with a continuation line")
			}
			fields[last] += "\n" + strings.TrimSpace(line)
			continue
		}
		key, val, ok := strings.Cut(line, ":")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("malformed control line %q", line)
		}
		name := canonical(key)
		if _, dup := fields[name]; dup {
			return nil, fmt.Errorf("duplicate control field %q", strings.TrimSpace(key))
		}
		fields[name] = strings.TrimSpace(val)
		last = name
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("reading control file: %w", err)
	}

	if fields["Package"] == "" {
		return nil, fmt.Errorf("control file missing Package field")
	}
	if fields["Version"] == "" {
		return nil, fmt.Errorf("control file missing Version field")
	}
	return &Control{fields: fields}, nil
}

func canonical(s string) string {
	return textproto.CanonicalMIMEHeaderKey(strings.TrimSpace(s))
}

// Name returns the Package field. Non-empty for any Control built by Parse.
func (c *Control) Name() string { return c.fields["Package"] }

// Version returns the Version field. Non-empty for any Control built by Parse.
func (c *Control) Version() string { return c.fields["Version"] }

// Get looks up a control field by name, case-insensitively.
func (c *Control) Get(field string) (string, bool) {
	v, ok := c.fields[canonical(field)]
	return v, ok
}

// Fields lists the control field names in sorted order.
func (c *Control) Fields() []string {
	names := make([]string, 0, len(c.fields))
	for name := range c.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
