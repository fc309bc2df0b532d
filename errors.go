package finsift

import "errors"

// ErrDocumentFileNotFound is returned by AddDocument when the file to
// register does not exist on disk.
var ErrDocumentFileNotFound = errors.New("document file not found")
