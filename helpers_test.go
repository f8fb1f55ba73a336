package remotepkg

import (
	"archive/tar"
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/blakesmith/ar"
	"github.com/klauspost/compress/gzip"
)

// buildDeb assembles a minimal but well-formed Debian package: debian-binary,
// a gzipped control archive holding the given control paragraph, and a stub
// data archive.
func buildDeb(t *testing.T, control string) []byte {
	t.Helper()

	var ctrlTar bytes.Buffer
	tw := tar.NewWriter(&ctrlTar)
	if err := tw.WriteHeader(&tar.Header{
		Name:     "./control",
		Mode:     0644,
		Size:     int64(len(control)),
		Typeflag: tar.TypeReg,
	}); err != nil {
		t.Fatalf("writing control tar header: %v", err)
	}
	if _, err := tw.Write([]byte(control)); err != nil {
		t.Fatalf("writing control entry: %v", err)
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("closing control tar: %v", err)
	}

	var ctrlGz bytes.Buffer
	zw := gzip.NewWriter(&ctrlGz)
	if _, err := zw.Write(ctrlTar.Bytes()); err != nil {
		t.Fatalf("compressing control tar: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing gzip: %v", err)
	}

	var pkg bytes.Buffer
	w := ar.NewWriter(&pkg)
	if err := w.WriteGlobalHeader(); err != nil {
		t.Fatalf("writing ar global header: %v", err)
	}
	members := []struct {
		name string
		data []byte
	}{
		{"debian-binary", []byte("2.0\n")},
		{"control.tar.gz", ctrlGz.Bytes()},
		{"data.tar.gz", []byte("stub payload")},
	}
	for _, m := range members {
		hdr := &ar.Header{
			Name:    m.name,
			ModTime: time.Unix(1136239445, 0),
			Mode:    0644,
			Size:    int64(len(m.data)),
		}
		if err := w.WriteHeader(hdr); err != nil {
			t.Fatalf("writing ar header %s: %v", m.name, err)
		}
		if _, err := w.Write(m.data); err != nil {
			t.Fatalf("writing ar member %s: %v", m.name, err)
		}
	}
	return pkg.Bytes()
}

const debianFAQControl = `Package: debian-faq
Version: 10.1
Architecture: all
Maintainer: Example Maintainer <maint@example.org>
Description: The Debian FAQ
`

// fakeRPMHeader serves GetString lookups from a fixed map, standing in for a
// parsed rpm header. Missing tags fail the way the real header does.
type fakeRPMHeader struct {
	tags map[int]string
}

func (h *fakeRPMHeader) GetString(tag int) (string, error) {
	if v, ok := h.tags[tag]; ok {
		return v, nil
	}
	return "", fmt.Errorf("no such tag %d", tag)
}
