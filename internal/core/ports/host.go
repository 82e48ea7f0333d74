package ports

import "time"

// Host is the filesystem and environment capability set the engine is
// driven through. It exists so the classifier and build driver never call
// os.* directly, matching the external-interfaces boundary the project
// reference graph and classifier are specified against.
//
//go:generate go run go.uber.org/mock/mockgen -source=host.go -destination=mocks/mock_host.go -package=mocks
type Host interface {
	// FileExists reports whether a regular file exists at path.
	FileExists(path string) bool
	// ReadFile returns the full contents of path.
	ReadFile(path string) ([]byte, error)
	// ModTime returns the modification time of path. Callers must check
	// FileExists first; a missing file's ModTime is unspecified.
	ModTime(path string) (time.Time, error)
	// SetModTime updates the modification time of path to t, used for the
	// declaration-stability fast rebuild's timestamp touch.
	SetModTime(path string, t time.Time) error
	// DeleteFile removes path. It is not an error if path does not exist.
	DeleteFile(path string) error
	// WriteFile writes content to path, optionally prefixed with a UTF-8
	// byte-order mark, creating parent directories as needed.
	WriteFile(path string, content []byte, writeBOM bool) error

	// UseCaseSensitiveFileNames reports whether the host filesystem
	// distinguishes file names by case.
	UseCaseSensitiveFileNames() bool
	// GetCurrentDirectory returns the process working directory.
	GetCurrentDirectory() string
	// CanonicalFileName normalizes path for use as a map key, applying
	// case folding when the host filesystem is case-insensitive.
	CanonicalFileName(path string) string
}
