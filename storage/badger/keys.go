package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/finsift/core"
)

// Key prefixes for different data types
const (
	documentPrefix    = "docrec"
	documentIDSeq     = "docrecseq"
	analysisPrefix    = "anlrec"
	cachePrefix       = "cacrec"
	parentPrefix      = "parent"
	vectorMetaPrefix  = "vmeta"
	vectorChunkPrefix = "vchunk"

	queuePendingPrefix  = "qpend"
	queueInflightPrefix = "qinfl"
	queueIDSeq          = "qseq"
)

// makeDocumentKey generates a key for a document by ID.
func makeDocumentKey(id core.DocumentID) []byte {
	return []byte(fmt.Sprintf("%s:%d", documentPrefix, id))
}

// makeAnalysisKey generates a key for a document's analysis result.
func makeAnalysisKey(id core.DocumentID) []byte {
	return []byte(fmt.Sprintf("%s:%d", analysisPrefix, id))
}

// makeCacheKey generates a key for a document's cached results.
func makeCacheKey(id core.DocumentID) []byte {
	return []byte(fmt.Sprintf("%s:%d", cachePrefix, id))
}

// makeParentKey generates a key for a parent block by its uuid.
func makeParentKey(id string) []byte {
	return []byte(fmt.Sprintf("%s:%s", parentPrefix, id))
}

// makeVectorMetaKey generates a key for a document's index build descriptor.
func makeVectorMetaKey(id core.DocumentID) []byte {
	return []byte(fmt.Sprintf("%s:%d", vectorMetaPrefix, id))
}

// makeChunkBuildPrefix generates the key prefix covering one index build.
// Format: prefix:documentID:buildID:
func makeChunkBuildPrefix(id core.DocumentID, buildID string) []byte {
	return []byte(fmt.Sprintf("%s:%d:%s:", vectorChunkPrefix, id, buildID))
}

// makeChunkKey generates a build-scoped key for an indexed chunk.
// Format: prefix:documentID:buildID:position
func makeChunkKey(id core.DocumentID, buildID string, position int) []byte {
	prefixBytes := makeChunkBuildPrefix(id, buildID)
	prefixSize := len(prefixBytes)
	buf := make([]byte, prefixSize+8)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort preserves chunk order
	binary.BigEndian.PutUint64(buf[offset:], uint64(position))
	return buf
}

// makeQueuePendingKey generates a key for a pending queue record.
// Format: prefix:sequence
func makeQueuePendingKey(seq uint64) []byte {
	return makeQueueKey(queuePendingPrefix, seq)
}

// makeQueueInflightKey generates a key for a claimed queue record.
// Format: prefix:sequence
func makeQueueInflightKey(seq uint64) []byte {
	return makeQueueKey(queueInflightPrefix, seq)
}

func makeQueueKey(prefix string, seq uint64) []byte {
	prefixBytes := []byte(prefix + ":")
	prefixSize := len(prefixBytes)
	buf := make([]byte, prefixSize+8)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort gives FIFO claim order
	binary.BigEndian.PutUint64(buf[offset:], seq)
	return buf
}

// queueKeySeq extracts the sequence number from a pending or in-flight key.
func queueKeySeq(key []byte) uint64 {
	if len(key) < 8 {
		return 0
	}
	return binary.BigEndian.Uint64(key[len(key)-8:])
}
