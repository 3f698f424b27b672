// Package cli implements the kinema command line: document validation,
// single-property resolution, timeline rendering with optional frame and
// journal output, and journal replay. All commands share the root
// formatter flags (--format, --verbose) and structured exit codes.
package cli
