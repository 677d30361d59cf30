// Package services defines the shared error taxonomy used across pipeline
// stages plus the context plumbing that carries album and stage identity into
// structured logs.
package services
