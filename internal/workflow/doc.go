// Package workflow orchestrates the identify, reconcile, organize,
// and persist stages for ripped albums and records run history.
package workflow
