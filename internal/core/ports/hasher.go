package ports

// Hasher computes the content hashes used as cache keys.
//
//go:generate mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// HashString hashes in-memory content together with the given
	// discriminator strings (asset path, target, option fingerprint).
	HashString(content string, extra ...string) string

	// HashFile hashes a file's content from disk.
	HashFile(path string) (string, error)
}
