// Package match checks candidate paths against an aggregated ignore file, reporting
// which aggregated rule, if any, ignores each path.
package match
