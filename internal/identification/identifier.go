package identification

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"platter/internal/catalog"
	"platter/internal/logging"
	"platter/internal/media"
	"platter/internal/musicbrainz"
	"platter/internal/services"
)

const stageIdentify = "identify"

// CatalogService is the slice of the MusicBrainz client the identifier needs.
type CatalogService interface {
	SearchByCatalogNumber(ctx context.Context, catno string) ([]musicbrainz.Release, error)
	SearchReleases(ctx context.Context, query string) ([]musicbrainz.Release, error)
	GetRelease(ctx context.Context, mbid string) (*musicbrainz.Release, error)
}

// Identifier resolves albums against a release catalog.
type Identifier struct {
	service CatalogService
	logger  *slog.Logger
}

// NewIdentifier builds an Identifier.
func NewIdentifier(service CatalogService, logger *slog.Logger) *Identifier {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Identifier{
		service: service,
		logger:  logging.NewComponentLogger(logger, "identification"),
	}
}

// IdentifyByCatalog searches every normalized variant of a catalog
// number, fetches the detailed record for each unique hit, keeps
// candidates whose detailed track count matches exactly, and picks the
// best deterministically. A candidate whose lookup fails or whose
// record is malformed is skipped on its own; only the last error
// surfaces, and only when nothing survived.
func (i *Identifier) IdentifyByCatalog(ctx context.Context, catno string, trackCount int) (*media.Release, error) {
	if !catalog.Valid(catalog.Normalize(catno)) {
		return nil, services.Wrap(services.ErrValidation, stageIdentify, "catalog_search",
			fmt.Sprintf("catalog number %q is not searchable", catno), nil)
	}

	seen := make(map[string]bool)
	var hits []musicbrainz.Release
	var lastErr error
	for _, variant := range catalog.Variants(catno) {
		results, err := i.service.SearchByCatalogNumber(ctx, variant)
		if err != nil {
			// One failed variant must not sink the rest of the list.
			lastErr = err
			i.logger.Debug("variant search failed",
				logging.String("variant", variant),
				logging.Error(err))
			continue
		}
		for _, rel := range results {
			if seen[rel.ID] {
				continue
			}
			seen[rel.ID] = true
			hits = append(hits, rel)
		}
	}

	docs, extracted, _, fetchErr := i.fetchCandidates(ctx, hits, trackCount)
	if fetchErr != nil {
		lastErr = fetchErr
	}
	i.logger.Debug("catalog search complete",
		logging.String("catno", catno),
		logging.Int("hits", len(hits)),
		logging.Int("candidates", len(docs)))

	if len(docs) == 0 {
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, services.Wrap(services.ErrNotFound, stageIdentify, "catalog_search",
			fmt.Sprintf("no release matches catalog number %q with %d tracks", catno, trackCount), nil)
	}

	best := Pick(docs)
	rel := extracted[best.ID]
	rel.Method = media.MethodCatalogNumber
	return rel, nil
}

// fetchCandidates looks up the detailed record for every search hit and
// returns the ones whose canonical track count matches exactly, keyed
// for selection, plus the first release that fetched cleanly regardless
// of its count. Individual lookup or extraction failures skip just that
// candidate; the last such error is returned alongside.
func (i *Identifier) fetchCandidates(ctx context.Context, hits []musicbrainz.Release, trackCount int) ([]musicbrainz.Release, map[string]*media.Release, *media.Release, error) {
	var docs []musicbrainz.Release
	extracted := make(map[string]*media.Release)
	var first *media.Release
	var lastErr error
	for _, hit := range hits {
		full, err := i.service.GetRelease(ctx, hit.ID)
		if err != nil {
			lastErr = err
			i.logger.Debug("candidate lookup failed",
				logging.String("mbid", hit.ID),
				logging.Error(err))
			continue
		}
		rel, err := Extract(full)
		if err != nil {
			lastErr = err
			i.logger.Debug("candidate record malformed",
				logging.String("mbid", hit.ID),
				logging.Error(err))
			continue
		}
		if first == nil {
			first = rel
		}
		if rel.TrackCount() != trackCount {
			continue
		}
		docs = append(docs, *full)
		extracted[full.ID] = rel
	}
	return docs, extracted, first, lastErr
}

// IdentifyByArtistAlbum searches with a quoted phrase query first and
// falls back to an unquoted fuzzy query when the phrase finds nothing.
// Soundtracks and compilations are searched by album title alone, since
// the album artist rarely matches any one contributor. Every hit is
// fetched in full; candidates whose detailed track count matches win,
// and when none does the first clean fetch is kept but flagged so
// callers can tell a best effort from a match.
func (i *Identifier) IdentifyByArtistAlbum(ctx context.Context, artist, album string, albumType media.AlbumType, trackCount int) (*media.Release, error) {
	if artist == "" || album == "" {
		return nil, services.Wrap(services.ErrValidation, stageIdentify, "artist_album_search",
			"artist and album are both required", nil)
	}

	quoted, unquoted := artistAlbumQueries(artist, album, albumType)
	results, err := i.service.SearchReleases(ctx, quoted)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		results, err = i.service.SearchReleases(ctx, unquoted)
		if err != nil {
			return nil, err
		}
	}
	if len(results) == 0 {
		return nil, services.Wrap(services.ErrNotFound, stageIdentify, "artist_album_search",
			fmt.Sprintf("no release matches %q by %q", album, artist), nil)
	}

	docs, extracted, first, lastErr := i.fetchCandidates(ctx, results, trackCount)
	if len(docs) > 0 {
		best := Pick(docs)
		rel := extracted[best.ID]
		rel.Method = media.MethodArtistAlbum
		return rel, nil
	}
	if first != nil {
		first.Method = media.MethodArtistAlbumFall
		return first, nil
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, services.Wrap(services.ErrNotFound, stageIdentify, "artist_album_search",
		fmt.Sprintf("no usable release matches %q by %q", album, artist), nil)
}

func artistAlbumQueries(artist, album string, albumType media.AlbumType) (quoted, unquoted string) {
	if albumType.MultiArtist() {
		return fmt.Sprintf("release:%q", album), fmt.Sprintf("release:%s", album)
	}
	return fmt.Sprintf("artist:%q AND release:%q", artist, album),
		fmt.Sprintf("artist:%s AND release:%s", artist, album)
}

// Pick orders candidates deterministically and returns the best one.
// Preference: country US, then CD format, then earliest parseable
// date, then smallest release id as the final tiebreaker.
func Pick(candidates []musicbrainz.Release) musicbrainz.Release {
	ordered := make([]musicbrainz.Release, len(candidates))
	copy(ordered, candidates)
	sort.SliceStable(ordered, func(a, b int) bool {
		ra, rb := ordered[a], ordered[b]
		if us := isUS(ra); us != isUS(rb) {
			return us
		}
		if cd := isCD(ra); cd != isCD(rb) {
			return cd
		}
		da, okA := parseDate(ra.Date)
		db, okB := parseDate(rb.Date)
		if okA != okB {
			return okA
		}
		if okA && !da.Equal(db) {
			return da.Before(db)
		}
		return ra.ID < rb.ID
	})
	return ordered[0]
}

func isUS(rel musicbrainz.Release) bool {
	return rel.Country == "US"
}

func isCD(rel musicbrainz.Release) bool {
	for _, m := range rel.Media {
		if m.Format == "CD" {
			return true
		}
	}
	return false
}

// parseDate accepts the three precisions MusicBrainz emits.
func parseDate(s string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02", "2006-01", "2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
