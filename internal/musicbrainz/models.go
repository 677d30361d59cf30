package musicbrainz

// SearchResult is the envelope returned by the release search endpoint.
type SearchResult struct {
	Count    int       `json:"count"`
	Offset   int       `json:"offset"`
	Releases []Release `json:"releases"`
}

// Release is a MusicBrainz release document. Search results carry a
// subset of fields; lookups with inc parameters carry the full set.
type Release struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Status         string         `json:"status"`
	Date           string         `json:"date"`
	Country        string         `json:"country"`
	Barcode        string         `json:"barcode"`
	Disambiguation string         `json:"disambiguation"`
	ArtistCredit   []ArtistCredit `json:"artist-credit"`
	ReleaseGroup   *ReleaseGroup  `json:"release-group"`
	LabelInfo      []LabelInfo    `json:"label-info"`
	Media          []Medium       `json:"media"`
	TextRep        *TextRep       `json:"text-representation"`
	TrackCount     int            `json:"track-count"`
	Score          int            `json:"score"`
}

// ArtistCredit is one entry of a release or track artist credit.
type ArtistCredit struct {
	Name       string `json:"name"`
	JoinPhrase string `json:"joinphrase"`
	Artist     Artist `json:"artist"`
}

// Artist identifies a MusicBrainz artist.
type Artist struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	SortName string `json:"sort-name"`
}

// ReleaseGroup carries the grouping and type of a release.
type ReleaseGroup struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	PrimaryType    string   `json:"primary-type"`
	SecondaryTypes []string `json:"secondary-types"`
	FirstRelease   string   `json:"first-release-date"`
}

// LabelInfo pairs a label with the catalog number it issued.
type LabelInfo struct {
	CatalogNumber string `json:"catalog-number"`
	Label         *Label `json:"label"`
}

// Label identifies a record label.
type Label struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Medium is one disc of a release.
type Medium struct {
	Position   int     `json:"position"`
	Format     string  `json:"format"`
	TrackCount int     `json:"track-count"`
	Tracks     []Track `json:"tracks"`
}

// Track is one track of a medium.
type Track struct {
	ID           string         `json:"id"`
	Position     int            `json:"position"`
	Number       string         `json:"number"`
	Title        string         `json:"title"`
	Length       int            `json:"length"`
	ArtistCredit []ArtistCredit `json:"artist-credit"`
	Recording    *Recording     `json:"recording"`
}

// Recording is the underlying work a track realizes.
type Recording struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Length int    `json:"length"`
}

// TextRep carries the language and script of a release's tracklist.
type TextRep struct {
	Language string `json:"language"`
	Script   string `json:"script"`
}

// MediumTrackTotal sums the track counts of all media.
func (r Release) MediumTrackTotal() int {
	total := 0
	for _, m := range r.Media {
		total += m.TrackCount
	}
	return total
}

// CreditedName joins an artist credit the way MusicBrainz renders it.
func CreditedName(credits []ArtistCredit) string {
	var out string
	for _, c := range credits {
		out += c.Name + c.JoinPhrase
	}
	return out
}
