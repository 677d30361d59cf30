package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"platter/internal/identification"
	"platter/internal/logging"
	"platter/internal/media"
	"platter/internal/organizer"
	"platter/internal/services"
	"platter/internal/sidecar"
	"platter/internal/tags"
)

const stageWorkflow = "workflow"

// ReleaseResolver identifies an album against the release catalog.
type ReleaseResolver interface {
	IdentifyByCatalog(ctx context.Context, catno string, trackCount int) (*media.Release, error)
	IdentifyByArtistAlbum(ctx context.Context, artist, album string, albumType media.AlbumType, trackCount int) (*media.Release, error)
}

// TagIO reads and writes a track's comment set.
type TagIO interface {
	Read(path string) (tags.Set, error)
	Write(path string, changes []tags.Change) error
}

// FlacTagIO is the production TagIO backed by FLAC metadata blocks.
type FlacTagIO struct{}

func (FlacTagIO) Read(path string) (tags.Set, error)             { return tags.ReadFile(path) }
func (FlacTagIO) Write(path string, changes []tags.Change) error { return tags.WriteFile(path, changes) }

// Outcome classifies one album's pass through the pipeline.
type Outcome int

const (
	OutcomeSkipped Outcome = iota
	OutcomeUpdated
)

// Summary tallies a batch.
type Summary struct {
	Processed int
	Updated   int
	Skipped   int
	Errored   int
}

// Runner drives albums through identification, tag reconciliation,
// cover embedding, organization, and sidecar persistence.
type Runner struct {
	resolver    ReleaseResolver
	tagio       TagIO
	embed       func(path string, image []byte, mime string) error
	organizer   *organizer.Organizer
	store       *Store
	prompter    identification.Prompter
	libraryRoot string
	lockPath    string
	logger      *slog.Logger
}

// RunnerOptions configures a Runner. Store, Prompter, and EmbedCover
// are optional.
type RunnerOptions struct {
	Resolver    ReleaseResolver
	TagIO       TagIO
	EmbedCover  func(path string, image []byte, mime string) error
	LibraryRoot string
	StateDir    string
	Store       *Store
	Prompter    identification.Prompter
	Logger      *slog.Logger
}

// NewRunner builds a Runner.
func NewRunner(opts RunnerOptions) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	tagio := opts.TagIO
	if tagio == nil {
		tagio = FlacTagIO{}
	}
	embed := opts.EmbedCover
	if embed == nil {
		embed = tags.EmbedCover
	}
	lockPath := ""
	if opts.StateDir != "" {
		lockPath = filepath.Join(opts.StateDir, "platter.lock")
	}
	return &Runner{
		resolver:    opts.Resolver,
		tagio:       tagio,
		embed:       embed,
		organizer:   organizer.New(opts.LibraryRoot, logger),
		store:       opts.Store,
		prompter:    opts.Prompter,
		libraryRoot: opts.LibraryRoot,
		lockPath:    lockPath,
		logger:      logging.NewComponentLogger(logger, "workflow"),
	}
}

// ProcessBatch runs the pipeline over several album directories. Only
// one batch runs at a time per state directory; cancellation is
// honored between albums so a finished album is never left half done.
func (r *Runner) ProcessBatch(ctx context.Context, albumDirs []string) (Summary, error) {
	var summary Summary

	if r.lockPath != "" {
		lock := flock.New(r.lockPath)
		locked, err := lock.TryLock()
		if err != nil {
			return summary, services.Wrap(services.ErrTransient, stageWorkflow, "lock", "acquire batch lock", err)
		}
		if !locked {
			return summary, services.Wrap(services.ErrConflict, stageWorkflow, "lock",
				"another run is already in progress", nil)
		}
		defer lock.Unlock()
	}

	for _, dir := range albumDirs {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		summary.Processed++

		outcome, err := r.ProcessAlbum(ctx, dir)
		switch {
		case err != nil:
			summary.Errored++
			r.logger.Error("album failed",
				logging.String(logging.FieldAlbum, dir),
				logging.Error(err))
		case outcome == OutcomeUpdated:
			summary.Updated++
		default:
			summary.Skipped++
		}
	}
	return summary, nil
}

// ProcessAlbum runs one album through every stage. The album must
// carry a sidecar document from the rip stage.
func (r *Runner) ProcessAlbum(ctx context.Context, dir string) (Outcome, error) {
	ctx = services.WithAlbumPath(ctx, dir)
	log := logging.WithContext(ctx, r.logger)

	rec, err := sidecar.Load(dir)
	if err != nil {
		return OutcomeSkipped, err
	}

	run, err := r.startRun(ctx, dir)
	if err != nil {
		return OutcomeSkipped, err
	}

	outcome, err := r.processStages(ctx, dir, rec, run, log)
	if err != nil {
		r.finishRun(ctx, run, FailureStatus(err), err.Error())
		return outcome, err
	}
	if outcome == OutcomeSkipped {
		r.finishRun(ctx, run, StatusSkipped, "")
	}
	return outcome, nil
}

func (r *Runner) processStages(ctx context.Context, dir string, rec *sidecar.Record, run *Run, log *slog.Logger) (Outcome, error) {
	identified, err := r.identify(ctx, rec, log)
	if err != nil {
		return OutcomeSkipped, err
	}
	if rec.Metadata == nil || !rec.Metadata.Identified() {
		// A ripped album with placeholder tags is a valid resting
		// state; a later pass can identify it once the catalog does.
		log.Warn("album remains unidentified")
		return OutcomeSkipped, nil
	}
	if identified {
		r.updateRun(ctx, run, StatusIdentified, rec.Metadata.MBID)
	}

	changed, err := r.reconcileTags(ctx, dir, rec.Metadata)
	if err != nil {
		return OutcomeSkipped, err
	}
	if changed > 0 {
		r.updateRun(ctx, run, StatusTagged, fmt.Sprintf("%d fields changed", changed))
		log.Info("tags reconciled", logging.Int("changed_fields", changed))
	}

	embedded, err := r.embedCover(ctx, dir, rec)
	if err != nil {
		return OutcomeSkipped, err
	}
	if embedded {
		log.Info("cover art embedded", logging.String("image", rec.CoverArt))
	}

	moved, finalDir, err := r.organize(ctx, dir, rec)
	if err != nil {
		return OutcomeSkipped, err
	}
	if moved {
		r.updateRun(ctx, run, StatusOrganized, finalDir)
		log.Info("album organized", logging.String("target", finalDir))
	}

	if identified || changed > 0 || embedded || moved {
		if err := sidecar.Save(finalDir, rec); err != nil {
			return OutcomeSkipped, err
		}
		r.finishRun(ctx, run, StatusPersisted, "")
		return OutcomeUpdated, nil
	}
	return OutcomeSkipped, nil
}

// identify binds the record to a catalog release when it is not bound
// yet. Catalog number search runs first, artist/album search second.
// Not finding a release is not an error; the album simply rests.
func (r *Runner) identify(ctx context.Context, rec *sidecar.Record, log *slog.Logger) (bool, error) {
	if rec.Metadata != nil && rec.Metadata.Identified() {
		return false, nil
	}
	if r.resolver == nil {
		return false, services.Wrap(services.ErrConfiguration, stageWorkflow, "identify",
			"no release resolver configured", nil)
	}

	ripped := rec.Metadata
	if ripped == nil {
		ripped = &media.Release{}
	}

	catno := rec.CatalogNumber
	if catno == "" {
		catno = ripped.CatalogNumber
	}

	var found *media.Release
	var err error
	if catno != "" {
		found, err = r.resolver.IdentifyByCatalog(ctx, catno, rec.TotalTracks)
		// An unsearchable catalog number still leaves the artist and
		// album strategy available.
		if err != nil && !services.Recoverable(err) && !errors.Is(err, services.ErrValidation) {
			return false, err
		}
	}
	if found == nil && ripped.Artist != "" && ripped.Album != "" {
		found, err = r.resolver.IdentifyByArtistAlbum(ctx, ripped.Artist, ripped.Album, ripped.AlbumType, rec.TotalTracks)
		if err != nil && !services.Recoverable(err) {
			return false, err
		}
	}
	if found != nil && found.Method == media.MethodArtistAlbumFall && found.TrackCount() != rec.TotalTracks {
		log.Warn("best-effort candidate rejected",
			logging.String("mbid", found.MBID),
			logging.Int("candidate_tracks", found.TrackCount()),
			logging.Int("ripped_tracks", rec.TotalTracks))
		found = nil
	}
	if found == nil {
		if err != nil {
			log.Warn("identification found no release", logging.Error(err))
		}
		return false, nil
	}

	identification.ApplyAlbumType(found, ripped.AlbumType)
	if !found.AlbumType.MultiArtist() {
		artist, rerr := identification.ResolveArtist(ripped.Artist, found.Artist, r.prompter)
		if rerr != nil {
			return false, rerr
		}
		if artist != found.Artist {
			found.Artist = artist
			found.AlbumArtist = artist
		}
	}
	if catno != "" && found.CatalogNumber == "" {
		found.CatalogNumber = catno
	}

	rec.Metadata = found
	rec.CatalogNumber = catno
	rec.Method = found.Method
	log.Info("album identified",
		logging.String("mbid", found.MBID),
		logging.String("method", found.Method))
	return true, nil
}

// RetagAlbum reconciles an identified album's tags in place without
// moving any files. Returns the number of changed fields.
func (r *Runner) RetagAlbum(ctx context.Context, dir string) (int, error) {
	ctx = services.WithAlbumPath(ctx, dir)

	rec, err := sidecar.Load(dir)
	if err != nil {
		return 0, err
	}
	if rec.Metadata == nil || !rec.Metadata.Identified() {
		return 0, services.Wrap(services.ErrValidation, stageWorkflow, "retag",
			"album is not identified", nil)
	}
	changed, err := r.reconcileTags(ctx, dir, rec.Metadata)
	if err != nil {
		return changed, err
	}
	if changed > 0 {
		if err := sidecar.Save(dir, rec); err != nil {
			return changed, err
		}
	}
	return changed, nil
}

// reconcileTags diffs every track against the desired comment set and
// applies only the difference. Returns the number of changed fields.
func (r *Runner) reconcileTags(ctx context.Context, dir string, rel *media.Release) (int, error) {
	files, err := organizer.ListFlacs(dir)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		disc, track, ok := organizer.ParseIndex(file)
		if !ok {
			return total, services.Wrap(services.ErrValidation, stageWorkflow, "reconcile",
				fmt.Sprintf("cannot parse track index from %s", file), nil)
		}
		entry := trackFor(rel, disc, track)
		if entry == nil {
			return total, services.Wrap(services.ErrConflict, stageWorkflow, "reconcile",
				fmt.Sprintf("%s has no matching track (disc %d track %d)", file, disc, track), nil)
		}

		path := filepath.Join(dir, file)
		current, err := r.tagio.Read(path)
		if err != nil {
			return total, err
		}
		// Diff against the pre-normalization snapshot so a legacy fix
		// whose normalized value already equals the desired one still
		// reaches disk.
		snapshot := current.Clone()
		tags.NormalizeLegacy(current)
		for field, value := range tags.Desired(rel, entry) {
			current[field] = value
		}
		changes := tags.Diff(snapshot, current)
		if len(changes) == 0 {
			continue
		}
		if err := r.tagio.Write(path, changes); err != nil {
			return total, err
		}
		total += len(changes)
	}
	return total, nil
}

// coverImageNames are checked in order beside the audio files.
var coverImageNames = []string{"cover.jpg", "cover.jpeg", "cover.png", "folder.jpg"}

// embedCover embeds a cover image found next to the tracks into every
// track that does not carry one yet. Albums without an image and
// records that already point at one are left alone.
func (r *Runner) embedCover(ctx context.Context, dir string, rec *sidecar.Record) (bool, error) {
	if rec.CoverArt != "" {
		return false, nil
	}
	name := findCoverImage(dir)
	if name == "" {
		return false, nil
	}
	image, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return false, services.Wrap(services.ErrTransient, stageWorkflow, "embed_cover", "read cover image", err)
	}
	mime := "image/jpeg"
	if strings.HasSuffix(name, ".png") {
		mime = "image/png"
	}

	files, err := organizer.ListFlacs(dir)
	if err != nil {
		return false, err
	}
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		if err := r.embed(filepath.Join(dir, file), image, mime); err != nil {
			return false, err
		}
	}
	rec.CoverArt = name
	return true, nil
}

func findCoverImage(dir string) string {
	for _, name := range coverImageNames {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return name
		}
	}
	return ""
}

// organize moves the album into its canonical library location. An
// album already in place is left alone.
func (r *Runner) organize(ctx context.Context, dir string, rec *sidecar.Record) (bool, string, error) {
	if err := ctx.Err(); err != nil {
		return false, dir, err
	}
	target := filepath.Join(r.libraryRoot, organizer.AlbumDir(rec.Metadata))
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false, dir, err
	}
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return false, dir, err
	}
	if absDir == absTarget {
		return false, absTarget, nil
	}

	renames, err := r.organizer.Plan(dir, rec.Metadata)
	if err != nil {
		return false, dir, err
	}
	if err := r.organizer.Execute(dir, renames); err != nil {
		return false, dir, err
	}
	if rec.CoverArt != "" {
		if err := os.Rename(filepath.Join(dir, rec.CoverArt), filepath.Join(absTarget, rec.CoverArt)); err != nil {
			r.logger.Warn("cover image left behind", logging.Error(err))
		}
	}
	// Write the sidecar at the target before touching the staging
	// copy, so a crash between the two leaves at least one on disk.
	if err := sidecar.Save(absTarget, rec); err != nil {
		return true, absTarget, err
	}
	os.Remove(sidecar.Path(dir))
	os.Remove(sidecar.Path(dir) + sidecar.BackupSuffix)
	organizer.Cleanup(dir)
	return true, absTarget, nil
}

func (r *Runner) startRun(ctx context.Context, dir string) (*Run, error) {
	if r.store == nil {
		return nil, nil
	}
	return r.store.StartRun(ctx, dir)
}

func (r *Runner) updateRun(ctx context.Context, run *Run, status Status, detail string) {
	if r.store == nil || run == nil {
		return
	}
	if err := r.store.UpdateStatus(ctx, run.ID, status, detail); err != nil {
		r.logger.Warn("failed to record run status",
			logging.String(logging.FieldRunID, run.ID),
			logging.Error(err))
	}
}

func (r *Runner) finishRun(ctx context.Context, run *Run, status Status, detail string) {
	r.updateRun(ctx, run, status, detail)
}

func trackFor(rel *media.Release, disc, track int) *media.TrackEntry {
	for i := range rel.Tracks {
		if rel.Tracks[i].Disc == disc && rel.Tracks[i].TrackNumber == track {
			return &rel.Tracks[i]
		}
	}
	if disc == 1 {
		return rel.TrackByIndex(track)
	}
	return nil
}
