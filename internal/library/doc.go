// Package library scans an organized music library and answers what
// albums and tracks it holds.
package library
