// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"fmt"

	"github.com/poiesic/finsift/core"
)

// MarshalDocument serializes a Document to bytes.
func MarshalDocument(doc *core.Document) []byte {
	buf := make([]byte, core.DocumentMUS.Size(*doc))
	core.DocumentMUS.Marshal(*doc, buf)
	return buf
}

// UnmarshalDocument deserializes a Document from bytes.
func UnmarshalDocument(data []byte) (*core.Document, error) {
	if len(data) == 0 {
		return nil, ErrTruncatedData
	}
	doc, _, err := core.DocumentMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &doc, nil
}

// MarshalCacheEntry serializes a CacheEntry to bytes.
func MarshalCacheEntry(entry *core.CacheEntry) []byte {
	buf := make([]byte, core.CacheEntryMUS.Size(*entry))
	core.CacheEntryMUS.Marshal(*entry, buf)
	return buf
}

// UnmarshalCacheEntry deserializes a CacheEntry from bytes.
func UnmarshalCacheEntry(data []byte) (*core.CacheEntry, error) {
	if len(data) == 0 {
		return nil, ErrTruncatedData
	}
	entry, _, err := core.CacheEntryMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &entry, nil
}

// MarshalAnalysisResult serializes an AnalysisResult to bytes.
func MarshalAnalysisResult(result *core.AnalysisResult) []byte {
	buf := make([]byte, core.AnalysisResultMUS.Size(*result))
	core.AnalysisResultMUS.Marshal(*result, buf)
	return buf
}

// UnmarshalAnalysisResult deserializes an AnalysisResult from bytes.
func UnmarshalAnalysisResult(data []byte) (*core.AnalysisResult, error) {
	if len(data) == 0 {
		return nil, ErrTruncatedData
	}
	result, _, err := core.AnalysisResultMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &result, nil
}

// MarshalParentBlock serializes a ParentBlock to bytes.
func MarshalParentBlock(block *core.ParentBlock) []byte {
	buf := make([]byte, core.ParentBlockMUS.Size(*block))
	core.ParentBlockMUS.Marshal(*block, buf)
	return buf
}

// UnmarshalParentBlock deserializes a ParentBlock from bytes.
func UnmarshalParentBlock(data []byte) (*core.ParentBlock, error) {
	if len(data) == 0 {
		return nil, ErrTruncatedData
	}
	block, _, err := core.ParentBlockMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &block, nil
}

// MarshalChildChunk serializes a ChildChunk to bytes.
func MarshalChildChunk(chunk *core.ChildChunk) []byte {
	buf := make([]byte, core.ChildChunkMUS.Size(*chunk))
	core.ChildChunkMUS.Marshal(*chunk, buf)
	return buf
}

// UnmarshalChildChunk deserializes a ChildChunk from bytes.
func UnmarshalChildChunk(data []byte) (*core.ChildChunk, error) {
	if len(data) == 0 {
		return nil, ErrTruncatedData
	}
	chunk, _, err := core.ChildChunkMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &chunk, nil
}

// MarshalIndexMeta serializes a VectorIndexMeta to bytes.
func MarshalIndexMeta(meta *core.VectorIndexMeta) []byte {
	buf := make([]byte, core.VectorIndexMetaMUS.Size(*meta))
	core.VectorIndexMetaMUS.Marshal(*meta, buf)
	return buf
}

// UnmarshalIndexMeta deserializes a VectorIndexMeta from bytes.
func UnmarshalIndexMeta(data []byte) (*core.VectorIndexMeta, error) {
	if len(data) == 0 {
		return nil, ErrTruncatedData
	}
	meta, _, err := core.VectorIndexMetaMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &meta, nil
}

// MarshalProcessingJob serializes a ProcessingJob to bytes.
func MarshalProcessingJob(job *core.ProcessingJob) []byte {
	buf := make([]byte, core.ProcessingJobMUS.Size(*job))
	core.ProcessingJobMUS.Marshal(*job, buf)
	return buf
}

// UnmarshalProcessingJob deserializes a ProcessingJob from bytes.
func UnmarshalProcessingJob(data []byte) (*core.ProcessingJob, error) {
	if len(data) == 0 {
		return nil, ErrTruncatedData
	}
	job, _, err := core.ProcessingJobMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &job, nil
}
