// Package comp loads composition documents: YAML files declaring a movie
// and its layers. Documents decode strictly, identifiers normalize to
// Unicode NFC, and an embedded CUE schema validates shape and ranges
// before any layer is constructed. Build turns a validated document into
// a live movie through the MediaOpener seam.
package comp
