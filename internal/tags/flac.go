package tags

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-flac/flacpicture/v2"
	"github.com/go-flac/flacvorbis/v2"
	flac "github.com/go-flac/go-flac/v2"

	"platter/internal/services"
)

const stageTag = "tag"

// ReadFile loads the Vorbis comments of a FLAC file into a Set. When a
// field repeats, the first value wins.
func ReadFile(path string) (Set, error) {
	f, err := flac.ParseFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrMalformedRecord, stageTag, "read", fmt.Sprintf("parse %s", path), err)
	}
	set := Set{}
	cmt := findComment(f)
	if cmt == nil {
		return set, nil
	}
	for _, comment := range cmt.Comments {
		field, value, ok := strings.Cut(comment, "=")
		if !ok {
			continue
		}
		field = strings.ToUpper(field)
		if _, exists := set[field]; !exists {
			set[field] = value
		}
	}
	return set, nil
}

// WriteFile applies changes to the file's Vorbis comment block and
// saves it. A no-op change list leaves the file untouched.
func WriteFile(path string, changes []Change) error {
	if len(changes) == 0 {
		return nil
	}
	f, err := flac.ParseFile(path)
	if err != nil {
		return services.Wrap(services.ErrMalformedRecord, stageTag, "write", fmt.Sprintf("parse %s", path), err)
	}

	current, err := ReadFile(path)
	if err != nil {
		return err
	}
	Apply(current, changes)

	cmt := flacvorbis.New()
	if existing := findComment(f); existing != nil {
		cmt.Vendor = existing.Vendor
	}
	for _, field := range sortedFields(current) {
		if err := cmt.Add(field, current[field]); err != nil {
			return services.Wrap(services.ErrValidation, stageTag, "write", fmt.Sprintf("set %s", field), err)
		}
	}

	block := cmt.Marshal()
	replaced := false
	for i, meta := range f.Meta {
		if meta.Type == flac.VorbisComment {
			f.Meta[i] = &block
			replaced = true
			break
		}
	}
	if !replaced {
		f.Meta = append(f.Meta, &block)
	}

	if err := f.Save(path); err != nil {
		return services.Wrap(services.ErrTransient, stageTag, "write", fmt.Sprintf("save %s", path), err)
	}
	return nil
}

// EmbedCover adds front cover art to the file unless a picture block
// already exists.
func EmbedCover(path string, image []byte, mime string) error {
	f, err := flac.ParseFile(path)
	if err != nil {
		return services.Wrap(services.ErrMalformedRecord, stageTag, "embed_cover", fmt.Sprintf("parse %s", path), err)
	}
	for _, meta := range f.Meta {
		if meta.Type == flac.Picture {
			return nil
		}
	}
	pic, err := flacpicture.NewFromImageData(flacpicture.PictureTypeFrontCover, "Front cover", image, mime)
	if err != nil {
		return services.Wrap(services.ErrValidation, stageTag, "embed_cover", "build picture block", err)
	}
	block := pic.Marshal()
	f.Meta = append(f.Meta, &block)
	if err := f.Save(path); err != nil {
		return services.Wrap(services.ErrTransient, stageTag, "embed_cover", fmt.Sprintf("save %s", path), err)
	}
	return nil
}

func findComment(f *flac.File) *flacvorbis.MetaDataBlockVorbisComment {
	for _, meta := range f.Meta {
		if meta.Type != flac.VorbisComment {
			continue
		}
		cmt, err := flacvorbis.ParseFromMetaDataBlock(*meta)
		if err != nil {
			continue
		}
		return cmt
	}
	return nil
}

func sortedFields(set Set) []string {
	fields := make([]string, 0, len(set))
	for field := range set {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}
