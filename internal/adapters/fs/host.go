package fs

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"go.pbuild.dev/pbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var _ ports.Host = (*Host)(nil)

// Host implements ports.Host against the real operating system
// filesystem.
type Host struct {
	caseSensitive bool
}

// NewHost creates a Host. Case sensitivity defaults to the conventional
// assumption for the running platform; callers on an exotic filesystem can
// override via NewHostWithCaseSensitivity.
func NewHost() *Host {
	return &Host{caseSensitive: runtime.GOOS != "windows" && runtime.GOOS != "darwin"}
}

// NewHostWithCaseSensitivity creates a Host with an explicit case
// sensitivity flag.
func NewHostWithCaseSensitivity(caseSensitive bool) *Host {
	return &Host{caseSensitive: caseSensitive}
}

func (h *Host) FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (h *Host) ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path supplied by trusted project config
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read file"), "path", path)
	}
	return bytes.TrimPrefix(data, utf8BOM), nil
}

func (h *Host) ModTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, zerr.With(zerr.Wrap(err, "failed to stat file"), "path", path)
	}
	return info.ModTime(), nil
}

func (h *Host) SetModTime(path string, t time.Time) error {
	if err := os.Chtimes(path, t, t); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to set modification time"), "path", path)
	}
	return nil
}

func (h *Host) DeleteFile(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return zerr.With(zerr.Wrap(err, "failed to delete file"), "path", path)
	}
	return nil
}

func (h *Host) WriteFile(path string, content []byte, writeBOM bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create output directory"), "path", path)
	}

	payload := content
	if writeBOM {
		payload = append(append([]byte{}, utf8BOM...), content...)
	}

	if err := os.WriteFile(path, payload, 0o644); err != nil { //nolint:gosec // output files are not secrets
		return zerr.With(zerr.Wrap(err, "failed to write output file"), "path", path)
	}
	return nil
}

func (h *Host) UseCaseSensitiveFileNames() bool {
	return h.caseSensitive
}

func (h *Host) GetCurrentDirectory() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

func (h *Host) CanonicalFileName(path string) string {
	clean := filepath.Clean(path)
	if h.caseSensitive {
		return clean
	}
	return strings.ToLower(clean)
}
