package remotepkg

import (
	"io"

	"github.com/sassoftware/go-rpmutils"
)

// RPMHeader is the slice of the RPM header surface the adapter needs.
// *rpmutils.RpmHeader satisfies it; tests substitute a fixed map.
type RPMHeader interface {
	GetString(tag int) (string, error)
}

// RPMPackage answers metadata queries from an RPM package's header.
type RPMPackage struct {
	header RPMHeader
}

// NewRPMPackage wraps an already-parsed RPM header.
func NewRPMPackage(header RPMHeader) *RPMPackage {
	return &RPMPackage{header: header}
}

// NewRPMPackageFromReader parses the lead, signature and header sections of
// an RPM stream and wraps the header. The package payload past the header is
// left unread. A parser rejection comes back as a *ParseError with the cause
// preserved.
func NewRPMPackageFromReader(r io.Reader) (*RPMPackage, error) {
	header, err := rpmutils.ReadHeader(r)
	if err != nil {
		return nil, &ParseError{Format: TypeRPM, Err: err}
	}
	return NewRPMPackage(header), nil
}

func (p *RPMPackage) remotePackage() {}

// Type reports TypeRPM.
func (p *RPMPackage) Type() Type { return TypeRPM }

// Name reports the header name field.
func (p *RPMPackage) Name() (string, error) {
	return p.requiredField("name", rpmutils.NAME)
}

// Version reports the header version field.
func (p *RPMPackage) Version() (string, error) {
	return p.requiredField("version", rpmutils.VERSION)
}

// Arch reports the header arch field.
func (p *RPMPackage) Arch() (string, error) {
	return p.requiredField("arch", rpmutils.ARCH)
}

// Iteration reports the header release field. A failed lookup means the
// package has no release, which is absence rather than an error.
func (p *RPMPackage) Iteration() (string, bool) {
	release, err := p.header.GetString(rpmutils.RELEASE)
	if err != nil || release == "" {
		return "", false
	}
	return release, true
}

func (p *RPMPackage) requiredField(name string, tag int) (string, error) {
	value, err := p.header.GetString(tag)
	if err != nil {
		return "", &FieldNotFoundError{Field: name, Err: err}
	}
	return value, nil
}
