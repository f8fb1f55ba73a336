package remotepkg

import (
	"bytes"
	"io"
)

// peekWindow is how many bytes are read before the format decision is made.
// 1 KiB comfortably covers every supported signature, including the
// debian-binary member name inside a .deb's leading ar header, while keeping
// the decision latency bounded on slow sources.
const peekWindow = 1024

// peekReader retains the first bytes of a non-seekable source and replays
// them ahead of the remainder, so downstream parsers see the original stream
// byte for byte.
type peekReader struct {
	prefix []byte
	off    int
	src    io.Reader
}

// newPeekReader reads up to window bytes from r. A short stream is not an
// error; whatever was read is retained. Any other read failure means the
// stream was never inspected, which the caller reports as a sniff failure.
func newPeekReader(r io.Reader, window int) (*peekReader, error) {
	buf := make([]byte, window)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, err
	}
	return &peekReader{prefix: buf[:n], src: r}, nil
}

func (p *peekReader) Read(b []byte) (int, error) {
	if p.off < len(p.prefix) {
		n := copy(b, p.prefix[p.off:])
		p.off += n
		return n, nil
	}
	return p.src.Read(b)
}

var (
	arMagic   = []byte("!<arch>\n")
	rpmMagic  = []byte{0xed, 0xab, 0xee, 0xdb}
	gzipMagic = []byte{0x1f, 0x8b}
	xzMagic   = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	bz2Magic  = []byte("BZh")
	zipMagic  = []byte("PK\x03\x04")
	sevenZip  = []byte{'7', 'z', 0xbc, 0xaf, 0x27, 0x1c}
	elfMagic  = []byte{0x7f, 'E', 'L', 'F'}
	tarMagic  = []byte("ustar") // at offset 257
)

// classify matches the retained prefix against the supported format
// signatures. For unrecognized prefixes it returns TypeUnknown with a
// best-effort hint describing what the bytes look like, so "you pointed me at
// a mirror's 404 page" errors read sensibly.
func classify(prefix []byte) (Type, string) {
	if isDeb(prefix) {
		return TypeDeb, ""
	}
	if bytes.HasPrefix(prefix, rpmMagic) {
		return TypeRPM, ""
	}

	switch {
	case bytes.HasPrefix(prefix, arMagic):
		return TypeUnknown, "ar archive without a debian-binary member"
	case bytes.HasPrefix(prefix, gzipMagic):
		return TypeUnknown, "gzip compressed data"
	case bytes.HasPrefix(prefix, xzMagic):
		return TypeUnknown, "xz compressed data"
	case bytes.HasPrefix(prefix, zstdMagic):
		return TypeUnknown, "zstandard compressed data"
	case bytes.HasPrefix(prefix, bz2Magic):
		return TypeUnknown, "bzip2 compressed data"
	case bytes.HasPrefix(prefix, zipMagic):
		return TypeUnknown, "zip archive"
	case bytes.HasPrefix(prefix, sevenZip):
		return TypeUnknown, "7-zip archive"
	case bytes.HasPrefix(prefix, elfMagic):
		return TypeUnknown, "ELF binary"
	case len(prefix) >= 257+len(tarMagic) && bytes.Equal(prefix[257:257+len(tarMagic)], tarMagic):
		return TypeUnknown, "tar archive"
	case isHTML(prefix):
		return TypeUnknown, "HTML document"
	}
	return TypeUnknown, ""
}

// isDeb requires both the ar magic and debian-binary as the first member
// name (at offset 8 in the first ar member header). A bare ar archive is not
// enough; static libraries share the same container.
func isDeb(prefix []byte) bool {
	if !bytes.HasPrefix(prefix, arMagic) {
		return false
	}
	const nameOff = len("!<arch>\n")
	name := []byte("debian-binary")
	if len(prefix) < nameOff+len(name) {
		return false
	}
	return bytes.Equal(prefix[nameOff:nameOff+len(name)], name)
}

// isHTML spots the usual start of an error page a mirror serves in place of
// a package.
func isHTML(prefix []byte) bool {
	trimmed := bytes.TrimLeft(prefix, " \t\r\n")
	lower := bytes.ToLower(trimmed)
	return bytes.HasPrefix(lower, []byte("<!doctype html")) ||
		bytes.HasPrefix(lower, []byte("<html"))
}
