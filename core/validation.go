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


package core

import (
	"fmt"
)

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - Filename must not be empty
//   - ContentPath must not be empty
//   - Status must be a known lifecycle value
//
// NOT validated (populated by the pipeline):
//   - ContentHash (empty until first processing)
//   - ErrorMessage (only meaningful for ERROR status)
//   - ID (0 is valid from database sequences)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.Filename == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyFilename)
	}

	if doc.ContentPath == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyContentPath)
	}

	if err := ValidateStatus(doc.Status); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	return nil
}

// ValidateStatus validates that a DocumentStatus has a known value.
func ValidateStatus(status DocumentStatus) error {
	switch status {
	case StatusUploaded, StatusProcessing, StatusCompleted, StatusError, StatusCancelled:
		return nil
	}
	return fmt.Errorf("%w: value %q", ErrInvalidStatus, string(status))
}

// ValidateCacheEntry validates a CacheEntry according to domain rules.
//
// Validation rules:
//   - DocumentId must be assigned (non-zero)
//   - ContentHash must not be empty
//
// Summary, KeyFigures and VectorIndexRef may legitimately be empty when the
// source document was degenerate, so they are not validated here.
func ValidateCacheEntry(entry *CacheEntry) error {
	if entry == nil {
		return fmt.Errorf("%w: entry is nil", ErrInvalidCacheEntry)
	}

	if entry.DocumentId == 0 {
		return fmt.Errorf("%w: document id is unassigned", ErrInvalidCacheEntry)
	}

	if entry.ContentHash == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCacheEntry, ErrEmptyContentHash)
	}

	return nil
}

// ValidateParentBlock validates a ParentBlock according to domain rules.
func ValidateParentBlock(block *ParentBlock) error {
	if block == nil {
		return fmt.Errorf("%w: block is nil", ErrInvalidParentBlock)
	}

	if block.Id == "" {
		return fmt.Errorf("%w: %w", ErrInvalidParentBlock, ErrEmptyBlockId)
	}

	if block.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidParentBlock, ErrEmptyContent)
	}

	return nil
}

// ValidateChildChunk validates a ChildChunk according to domain rules.
//
// NOT validated (populated by processors):
//   - Embedding (can be empty until the embedding stage runs)
func ValidateChildChunk(chunk *ChildChunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChildChunk)
	}

	if chunk.Id == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChildChunk, ErrEmptyBlockId)
	}

	if chunk.ParentId == "" {
		return fmt.Errorf("%w: parent %w", ErrInvalidChildChunk, ErrEmptyBlockId)
	}

	if chunk.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChildChunk, ErrEmptyContent)
	}

	return nil
}
