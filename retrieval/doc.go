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


// Package retrieval answers questions about processed documents.
//
// The Answerer type implements retrieval-augmented question answering:
//   - Embed the question and run a top-k similarity search over the
//     document's vector index
//   - Expand each hit to its parent block for wider context, falling back
//     to the child chunk when the parent's TTL has expired
//   - Ask the completion service for an answer grounded in the assembled
//     context
//
// Every answer carries source references (page, section, snippet) pointing
// back at the supporting document content. A document without an index
// gets a deterministic "not available" answer rather than an error.
package retrieval
