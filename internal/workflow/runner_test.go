package workflow

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"platter/internal/media"
	"platter/internal/organizer"
	"platter/internal/services"
	"platter/internal/sidecar"
	"platter/internal/tags"
)

type fakeResolver struct {
	release     *media.Release
	hardErr     error
	catnoCalls  int
	artistCalls int
}

func (f *fakeResolver) IdentifyByCatalog(_ context.Context, catno string, trackCount int) (*media.Release, error) {
	f.catnoCalls++
	if f.hardErr != nil {
		return nil, f.hardErr
	}
	if f.release == nil || f.release.TrackCount() != trackCount {
		return nil, services.Wrap(services.ErrNotFound, "identify", "catalog_search", "no match", nil)
	}
	out := *f.release
	out.Method = media.MethodCatalogNumber
	return &out, nil
}

func (f *fakeResolver) IdentifyByArtistAlbum(_ context.Context, artist, album string, albumType media.AlbumType, trackCount int) (*media.Release, error) {
	f.artistCalls++
	if f.hardErr != nil {
		return nil, f.hardErr
	}
	if f.release == nil || f.release.TrackCount() != trackCount {
		return nil, services.Wrap(services.ErrNotFound, "identify", "artist_album_search", "no match", nil)
	}
	out := *f.release
	out.Method = media.MethodArtistAlbum
	return &out, nil
}

// fakeTagIO keys sets by the disc/track index parsed from the file
// name, so tags follow a track when the organizer renames it.
type fakeTagIO struct {
	sets   map[string]tags.Set
	writes int
}

func newFakeTagIO() *fakeTagIO {
	return &fakeTagIO{sets: make(map[string]tags.Set)}
}

func tagKey(path string) string {
	disc, track, ok := organizer.ParseIndex(filepath.Base(path))
	if !ok {
		return filepath.Base(path)
	}
	return fmt.Sprintf("%d-%d", disc, track)
}

func (f *fakeTagIO) Read(path string) (tags.Set, error) {
	set, ok := f.sets[tagKey(path)]
	if !ok {
		return tags.Set{}, nil
	}
	return set.Clone(), nil
}

func (f *fakeTagIO) Write(path string, changes []tags.Change) error {
	f.writes++
	set, ok := f.sets[tagKey(path)]
	if !ok {
		set = tags.Set{}
	}
	tags.Apply(set, changes)
	f.sets[tagKey(path)] = set
	return nil
}

func catalogRelease(trackCount int) *media.Release {
	rel := &media.Release{
		MBID:        "release-mbid",
		Album:       "Nevermind",
		Artist:      "Nirvana",
		AlbumArtist: "Nirvana",
		Date:        "1991-09-24",
		DiscCount:   1,
		AlbumType:   media.AlbumTypeRegular,
	}
	for i := 1; i <= trackCount; i++ {
		rel.Tracks = append(rel.Tracks, media.TrackEntry{
			Number:      i,
			Disc:        1,
			TrackNumber: i,
			Title:       fmt.Sprintf("Song %d", i),
			RecordingID: fmt.Sprintf("rec-%d", i),
			TrackID:     fmt.Sprintf("trk-%d", i),
		})
	}
	return rel
}

func stageAlbum(t *testing.T, trackCount int) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "staging", "album")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for i := 1; i <= trackCount; i++ {
		name := fmt.Sprintf("Track_%02d.flac", i)
		if err := os.WriteFile(filepath.Join(dir, name), []byte("flac"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	rec := &sidecar.Record{
		TracksRipped:  trackCount,
		TotalTracks:   trackCount,
		CatalogNumber: "GEFD24425",
		Metadata: &media.Release{
			MBID:   media.MBIDUserEntered,
			Album:  "Nevermind",
			Artist: "Nirvana",
		},
	}
	if err := sidecar.Save(dir, rec); err != nil {
		t.Fatal(err)
	}
	return dir
}

func newTestRunner(t *testing.T, resolver ReleaseResolver, tagio TagIO, library string) *Runner {
	t.Helper()
	store, err := OpenStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return NewRunner(RunnerOptions{
		Resolver:    resolver,
		TagIO:       tagio,
		EmbedCover:  func(string, []byte, string) error { return nil },
		LibraryRoot: library,
		Store:       store,
	})
}

func TestPipelineEndToEndAndIdempotent(t *testing.T) {
	const trackCount = 10
	staging := stageAlbum(t, trackCount)
	library := t.TempDir()
	resolver := &fakeResolver{release: catalogRelease(trackCount)}
	tagio := newFakeTagIO()
	runner := newTestRunner(t, resolver, tagio, library)

	summary, err := runner.ProcessBatch(context.Background(), []string{staging})
	if err != nil {
		t.Fatalf("ProcessBatch: %v", err)
	}
	if summary.Updated != 1 || summary.Errored != 0 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if resolver.catnoCalls != 1 {
		t.Fatalf("expected one catalog search, got %d", resolver.catnoCalls)
	}

	albumDir := filepath.Join(library, "Nirvana", "Nevermind")
	for i := 1; i <= trackCount; i++ {
		want := filepath.Join(albumDir, fmt.Sprintf("01-%02d. Song %d.flac", i, i))
		if _, err := os.Stat(want); err != nil {
			t.Fatalf("expected organized track %s: %v", want, err)
		}
	}
	rec, err := sidecar.Load(albumDir)
	if err != nil {
		t.Fatalf("sidecar should follow the album: %v", err)
	}
	if !rec.Metadata.Identified() || rec.Metadata.MBID != "release-mbid" {
		t.Fatalf("sidecar not identified: %+v", rec.Metadata)
	}
	if rec.Method != media.MethodCatalogNumber {
		t.Fatalf("unexpected method %q", rec.Method)
	}
	if _, err := os.Stat(staging); !os.IsNotExist(err) {
		t.Fatal("staging directory should be cleaned up")
	}

	// A second pass over the organized album must change nothing.
	writesBefore := tagio.writes
	summary, err = runner.ProcessBatch(context.Background(), []string{albumDir})
	if err != nil {
		t.Fatalf("second ProcessBatch: %v", err)
	}
	if summary.Skipped != 1 || summary.Updated != 0 {
		t.Fatalf("expected idempotent second run, got %+v", summary)
	}
	if tagio.writes != writesBefore {
		t.Fatalf("second run rewrote tags (%d -> %d writes)", writesBefore, tagio.writes)
	}
}

func TestReconcileMigratesLegacyTrackNumbersToDisk(t *testing.T) {
	rel := catalogRelease(1)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Track_01.flac"), []byte("flac"), 0o644); err != nil {
		t.Fatal(err)
	}

	// The file carries the canonical set already except for a combined
	// disc-track TRACKNUMBER and a missing DISCNUMBER.
	seeded := tags.Desired(rel, &rel.Tracks[0]).Clone()
	seeded[tags.FieldTrackNumber] = "1-01"
	delete(seeded, tags.FieldDiscNumber)
	tagio := newFakeTagIO()
	tagio.sets["1-1"] = seeded

	runner := newTestRunner(t, &fakeResolver{}, tagio, t.TempDir())
	changed, err := runner.reconcileTags(context.Background(), dir, rel)
	if err != nil {
		t.Fatalf("reconcileTags: %v", err)
	}
	if changed == 0 {
		t.Fatal("legacy migration must be reported as a change")
	}
	persisted := tagio.sets["1-1"]
	if persisted[tags.FieldTrackNumber] != "01" {
		t.Fatalf("legacy TRACKNUMBER not migrated on file: got %q, want %q",
			persisted[tags.FieldTrackNumber], "01")
	}
	if persisted[tags.FieldDiscNumber] != "1" {
		t.Fatalf("DISCNUMBER not defaulted on file: got %q", persisted[tags.FieldDiscNumber])
	}

	// The second pass must see nothing left to do.
	writesBefore := tagio.writes
	changed, err = runner.reconcileTags(context.Background(), dir, rel)
	if err != nil {
		t.Fatalf("second reconcileTags: %v", err)
	}
	if changed != 0 || tagio.writes != writesBefore {
		t.Fatalf("migration did not converge: %d changes, %d -> %d writes",
			changed, writesBefore, tagio.writes)
	}
}

func TestCoverImageEmbeddedAndMoved(t *testing.T) {
	const trackCount = 2
	staging := stageAlbum(t, trackCount)
	if err := os.WriteFile(filepath.Join(staging, "cover.jpg"), []byte("jpeg"), 0o644); err != nil {
		t.Fatal(err)
	}
	library := t.TempDir()
	store, err := OpenStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	embedded := 0
	runner := NewRunner(RunnerOptions{
		Resolver: &fakeResolver{release: catalogRelease(trackCount)},
		TagIO:    newFakeTagIO(),
		EmbedCover: func(path string, image []byte, mime string) error {
			embedded++
			if mime != "image/jpeg" {
				t.Errorf("unexpected mime %q", mime)
			}
			return nil
		},
		LibraryRoot: library,
		Store:       store,
	})

	if _, err := runner.ProcessAlbum(context.Background(), staging); err != nil {
		t.Fatalf("ProcessAlbum: %v", err)
	}
	if embedded != trackCount {
		t.Fatalf("expected %d embeds, got %d", trackCount, embedded)
	}

	albumDir := filepath.Join(library, "Nirvana", "Nevermind")
	rec, err := sidecar.Load(albumDir)
	if err != nil {
		t.Fatal(err)
	}
	if rec.CoverArt != "cover.jpg" {
		t.Fatalf("unexpected cover art %q", rec.CoverArt)
	}
	if _, err := os.Stat(filepath.Join(albumDir, "cover.jpg")); err != nil {
		t.Fatalf("cover image should move with the album: %v", err)
	}
}

func TestOrganizeWritesSidecarBeforeClearingStaging(t *testing.T) {
	const trackCount = 2
	staging := stageAlbum(t, trackCount)
	rec, err := sidecar.Load(staging)
	if err != nil {
		t.Fatal(err)
	}
	rec.Metadata = catalogRelease(trackCount)
	library := t.TempDir()
	runner := newTestRunner(t, &fakeResolver{}, newFakeTagIO(), library)

	moved, finalDir, err := runner.organize(context.Background(), staging, rec)
	if err != nil {
		t.Fatalf("organize: %v", err)
	}
	if !moved {
		t.Fatal("expected the album to move")
	}

	// The moment organize returns, the target must already hold the
	// record; the staging copy alone is never the last one standing.
	got, err := sidecar.Load(finalDir)
	if err != nil {
		t.Fatalf("sidecar missing at target after organize: %v", err)
	}
	if got.Metadata == nil || got.Metadata.MBID != "release-mbid" {
		t.Fatalf("target sidecar lost the binding: %+v", got.Metadata)
	}
	if sidecar.Exists(staging) {
		t.Fatal("staging sidecar should be gone")
	}
}

func TestProcessAlbumWithoutSidecarFails(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Track_01.flac"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	runner := newTestRunner(t, &fakeResolver{}, newFakeTagIO(), t.TempDir())
	_, err := runner.ProcessAlbum(context.Background(), dir)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestProcessBatchStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	runner := newTestRunner(t, &fakeResolver{}, newFakeTagIO(), t.TempDir())
	_, err := runner.ProcessBatch(ctx, []string{"/a", "/b"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestUnidentifiedAlbumRestsInPlace(t *testing.T) {
	staging := stageAlbum(t, 3)
	// The resolver knows a release with a different track count, so no
	// candidate passes the gate.
	resolver := &fakeResolver{release: catalogRelease(10)}
	runner := newTestRunner(t, resolver, newFakeTagIO(), t.TempDir())

	summary, err := runner.ProcessBatch(context.Background(), []string{staging})
	if err != nil {
		t.Fatalf("ProcessBatch: %v", err)
	}
	if summary.Skipped != 1 || summary.Errored != 0 || summary.Updated != 0 {
		t.Fatalf("an unidentified album is not a failure: %+v", summary)
	}
	if _, statErr := os.Stat(staging); statErr != nil {
		t.Fatal("unidentified album must stay in place")
	}

	rec, loadErr := sidecar.Load(staging)
	if loadErr != nil {
		t.Fatal(loadErr)
	}
	if rec.Metadata.Identified() {
		t.Fatal("placeholder metadata must survive untouched")
	}
}

func TestFailureStatus(t *testing.T) {
	notFound := services.Wrap(services.ErrNotFound, "identify", "search", "nothing", nil)
	if FailureStatus(notFound) != StatusSkipped {
		t.Fatal("not-found should leave the album skippable")
	}
	conflict := services.Wrap(services.ErrConflict, "organize", "move", "target exists", nil)
	if FailureStatus(conflict) != StatusSkipped {
		t.Fatal("conflicts never overwrite; the album is skipped")
	}
	hard := services.Wrap(services.ErrConfiguration, "identify", "client", "bad config", nil)
	if FailureStatus(hard) != StatusFailed {
		t.Fatal("configuration errors are failures")
	}
}

func TestProcessBatchCountsHardFailures(t *testing.T) {
	staging := stageAlbum(t, 3)
	resolver := &fakeResolver{
		hardErr: services.Wrap(services.ErrConfiguration, "identify", "catalog_search", "no credentials", nil),
	}
	runner := newTestRunner(t, resolver, newFakeTagIO(), t.TempDir())

	summary, err := runner.ProcessBatch(context.Background(), []string{staging})
	if err != nil {
		t.Fatalf("ProcessBatch: %v", err)
	}
	if summary.Errored != 1 || summary.Updated != 0 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if _, statErr := os.Stat(staging); statErr != nil {
		t.Fatal("failed album must stay in place")
	}
}
