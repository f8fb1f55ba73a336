package remotepkg

import (
	"io"
	"strings"

	"github.com/cmeister2/remote-package/internal/debfile"
)

// DebianPackage answers metadata queries from a Debian package's control
// paragraph.
type DebianPackage struct {
	control *debfile.Control
}

// NewDebianPackage wraps an already-parsed control paragraph. Useful for
// composing with a caller that ran the parser itself.
func NewDebianPackage(control *debfile.Control) *DebianPackage {
	return &DebianPackage{control: control}
}

// NewDebianPackageFromReader parses a Debian package stream and wraps its
// control paragraph. The stream must start at the package's first byte. A
// parser rejection comes back as a *ParseError with the cause preserved.
func NewDebianPackageFromReader(r io.Reader) (*DebianPackage, error) {
	control, err := debfile.Parse(r)
	if err != nil {
		return nil, &ParseError{Format: TypeDeb, Err: err}
	}
	return NewDebianPackage(control), nil
}

func (p *DebianPackage) remotePackage() {}

// Type reports TypeDeb.
func (p *DebianPackage) Type() Type { return TypeDeb }

// Name reports the control Package field.
func (p *DebianPackage) Name() (string, error) {
	if name := p.control.Name(); name != "" {
		return name, nil
	}
	return "", &FieldNotFoundError{Field: "Package"}
}

// Version reports the control Version field.
func (p *DebianPackage) Version() (string, error) {
	if version := p.control.Version(); version != "" {
		return version, nil
	}
	return "", &FieldNotFoundError{Field: "Version"}
}

// Arch reports the control Architecture field.
func (p *DebianPackage) Arch() (string, error) {
	if arch, ok := p.control.Get("Architecture"); ok {
		return arch, nil
	}
	return "", &FieldNotFoundError{Field: "Architecture"}
}

// Iteration derives the Debian revision from the version string. The
// convention is upstream_version-debian_revision, so everything after the
// last hyphen is the revision; a version with no hyphen has none. An
// upstream version containing its own hyphen is ambiguous under this rule
// and splits at the last hyphen regardless.
func (p *DebianPackage) Iteration() (string, bool) {
	version := p.control.Version()
	idx := strings.LastIndex(version, "-")
	if idx < 0 {
		return "", false
	}
	return version[idx+1:], true
}
