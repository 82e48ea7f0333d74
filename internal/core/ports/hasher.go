package ports

// Hasher fingerprints declaration output content. Neither the classifier
// nor the build driver calls it; the driver detects a byte-identical
// freshly emitted .d.ts by comparing bytes directly.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// FingerprintDeclaration returns a content fingerprint for a
	// declaration file's bytes.
	FingerprintDeclaration(content []byte) uint64
}
