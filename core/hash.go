package core

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/go-crypt/x/blake2b"
)

// hashBlockSize is the read block size used when hashing file contents.
const hashBlockSize = 4096

// HashReader computes the hex-encoded BLAKE2b-256 digest of everything in r,
// reading in fixed-size blocks so large files hash in constant memory.
func HashReader(r io.Reader) (string, error) {
	h, err := blake2b.New(32, nil) // 32 bytes = 256 bits
	if err != nil {
		return "", err
	}
	buf := make([]byte, hashBlockSize)
	if _, err := io.CopyBuffer(h, r, buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// HashFile computes the content hash of the file at path.
// Identical content always produces an identical hash, which is what makes
// cached results content-addressed.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	defer f.Close()
	return HashReader(f)
}

// HashBytes computes the content hash of an in-memory byte slice.
func HashBytes(data []byte) string {
	h, _ := blake2b.New(32, nil)
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// IndexRef returns the deterministic vector index reference for a document
// at a given content hash. The same document and content always map to the
// same ref.
func IndexRef(id DocumentID, contentHash string) string {
	short := contentHash
	if len(short) > 12 {
		short = short[:12]
	}
	return fmt.Sprintf("vector_store/%d/%s", id, short)
}
