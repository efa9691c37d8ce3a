package scanner

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
	"sort"
	"strings"
)

// HashChunkSize is the read size used when streaming a file into a digest
const HashChunkSize = 4096

// DefaultAlgorithm is used when no algorithm is configured
const DefaultAlgorithm = "md5"

// ErrUnknownAlgorithm is returned for hash algorithm names we don't support
var ErrUnknownAlgorithm = errors.New("unknown hash algorithm")

var algorithms = map[string]func() hash.Hash{
	"md5":    md5.New,
	"sha1":   sha1.New,
	"sha256": sha256.New,
	"sha512": sha512.New,
}

// Algorithms returns the supported algorithm names, sorted
func Algorithms() []string {
	names := make([]string, 0, len(algorithms))
	for name := range algorithms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Hasher computes content digests for duplicate detection
type Hasher struct {
	algorithm string
	newHash   func() hash.Hash
}

// NewHasher validates the algorithm name up front so a bad config surfaces
// as an error instead of as every file being silently skipped.
func NewHasher(algorithm string) (*Hasher, error) {
	name := strings.ToLower(strings.TrimSpace(algorithm))
	if name == "" {
		name = DefaultAlgorithm
	}

	newHash, ok := algorithms[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s (supported: %s)", ErrUnknownAlgorithm, algorithm, strings.Join(Algorithms(), ", "))
	}

	return &Hasher{algorithm: name, newHash: newHash}, nil
}

// Algorithm returns the normalized algorithm name
func (h *Hasher) Algorithm() string {
	return h.algorithm
}

// Sum streams the file at path through the digest and returns its hex
// encoding. ok is false when the file could not be opened or read.
func (h *Hasher) Sum(path string) (digest string, ok bool) {
	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()

	hh := h.newHash()
	buf := make([]byte, HashChunkSize)
	if _, err := io.CopyBuffer(hh, onlyReader{f}, buf); err != nil {
		return "", false
	}

	return hex.EncodeToString(hh.Sum(nil)), true
}

// onlyReader hides *os.File's WriterTo so CopyBuffer really uses buf
type onlyReader struct {
	r io.Reader
}

func (o onlyReader) Read(p []byte) (int, error) {
	return o.r.Read(p)
}
