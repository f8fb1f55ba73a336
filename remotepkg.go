// Package remotepkg identifies the packaging format of a byte stream and
// answers basic metadata questions (name, version, architecture, iteration)
// through one interface, whatever the format turns out to be.
//
// The stream is sniffed from a bounded prefix, so a network response body can
// be classified without downloading the whole package. The prefix is replayed
// in front of the remainder before the format parser sees the stream, so no
// seeking is ever required of the source.
package remotepkg

import "fmt"

// Type tags a supported package format.
type Type string

const (
	// TypeDeb is the Debian binary package family (.deb).
	TypeDeb Type = "deb"
	// TypeRPM is the RPM package family (.rpm).
	TypeRPM Type = "rpm"
	// TypeUnknown is reported when sniffing matched no supported format.
	TypeUnknown Type = "unknown"
)

// Supported returns the closed set of formats this package can identify.
func Supported() []Type {
	return []Type{TypeDeb, TypeRPM}
}

// ParseType maps user input such as a config value or CLI flag to a format
// tag.
func ParseType(s string) (Type, error) {
	for _, t := range Supported() {
		if s == string(t) {
			return t, nil
		}
	}
	return TypeUnknown, fmt.Errorf("unsupported package format %q", s)
}

// RemotePackage is the uniform read-only view of an identified package. All
// values are captured from the parsed metadata at construction time; no
// method goes back to the source stream.
//
// The implementation set is closed: DebianPackage and RPMPackage are the only
// variants.
type RemotePackage interface {
	// Type reports the package format.
	Type() Type
	// Name reports the package name as recorded by the package itself.
	Name() (string, error)
	// Version reports the package version string.
	Version() (string, error)
	// Arch reports the package architecture.
	Arch() (string, error)
	// Iteration reports the packaging revision if the package has one.
	// Absence is not an error: iteration is optional metadata.
	Iteration() (string, bool)

	remotePackage()
}
