// Package media holds the canonical release model shared by identification,
// tagging, organization, and sidecar persistence.
package media
