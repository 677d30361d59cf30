package services

import "context"

type contextKey int

const (
	albumPathKey contextKey = iota
	stageKey
	runIDKey
)

// WithAlbumPath tags the context with the album directory being processed.
func WithAlbumPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, albumPathKey, path)
}

// AlbumPathFromContext extracts the album directory, if present.
func AlbumPathFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(albumPathKey).(string)
	return v, ok && v != ""
}

// WithStage tags the context with the pipeline stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext extracts the pipeline stage name, if present.
func StageFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(stageKey).(string)
	return v, ok && v != ""
}

// WithRunID tags the context with the batch run identifier.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// RunIDFromContext extracts the batch run identifier, if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(runIDKey).(string)
	return v, ok && v != ""
}
