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

import "errors"

// Domain validation errors
var (
	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrInvalidStatus indicates an unknown DocumentStatus value.
	ErrInvalidStatus = errors.New("invalid document status")

	// ErrEmptyFilename indicates the Filename field is empty.
	ErrEmptyFilename = errors.New("filename cannot be empty")

	// ErrEmptyContentPath indicates the ContentPath field is empty.
	ErrEmptyContentPath = errors.New("content path cannot be empty")

	// ErrInvalidCacheEntry indicates a CacheEntry failed validation.
	ErrInvalidCacheEntry = errors.New("invalid cache entry")

	// ErrEmptyContentHash indicates the ContentHash field is empty.
	ErrEmptyContentHash = errors.New("content hash cannot be empty")

	// ErrInvalidParentBlock indicates a ParentBlock failed validation.
	ErrInvalidParentBlock = errors.New("invalid parent block")

	// ErrInvalidChildChunk indicates a ChildChunk failed validation.
	ErrInvalidChildChunk = errors.New("invalid child chunk")

	// ErrEmptyBlockId indicates a parent or chunk id field is empty.
	ErrEmptyBlockId = errors.New("block id cannot be empty")

	// ErrEmptyContent indicates a content field is empty.
	ErrEmptyContent = errors.New("content cannot be empty")
)
