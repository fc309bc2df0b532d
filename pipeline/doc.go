// Package pipeline orchestrates document processing runs.
//
// The Orchestrator type drives a registered document through the full
// workflow: content hashing, result cache consultation, text extraction,
// hierarchical chunking, embedding and vector index builds, summary
// generation and key figure extraction. Every run ends by writing a
// terminal document status; no document is left in PROCESSING.
//
// Runs are cancellation-aware. The Registry hands each run a token that
// the orchestrator observes at checkpoints between stages, so a cancel
// request takes effect at the next stage boundary rather than
// interrupting an in-flight call.
package pipeline
