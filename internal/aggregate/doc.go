// Package aggregate implements the ignore file aggregation workflow: it validates the
// reference directory and output path, discovers every ignore file beneath the directory,
// re-anchors each file's rules, and writes them into a single newly created file with a
// provenance comment per source file.
//
// It exposes CommandBuilder for wiring the aggregate Cobra command and Service for
// driving the workflow programmatically.
package aggregate
