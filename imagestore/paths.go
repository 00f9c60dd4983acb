package imagestore

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
)

const (
	V1ImagePrefix  = "v1/radix"
	ImagesDir      = "images"
	ImageExt       = "rdx"
	ImagePathSep   = "/"
	ImageExtSep    = "."
	ImageSealExt   = "sth"
	imageBlobNameF = "%s.%s"
)

var ErrBadImagePath = errors.New("imagestore: path is not an image path")

// ImageID names an archived image. Ids are version 7 uuids so that image
// paths sort lexically in creation order.
type ImageID uuid.UUID

func NewImageID() (ImageID, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return ImageID{}, err
	}
	return ImageID(id), nil
}

func (id ImageID) String() string {
	return uuid.UUID(id).String()
}

// ImagePrefix returns the path of the directory holding the images under
// prefix. An empty prefix selects V1ImagePrefix.
func ImagePrefix(prefix string) string {
	if prefix == "" {
		prefix = V1ImagePrefix
	}
	return strings.TrimSuffix(prefix, ImagePathSep) + ImagePathSep + ImagesDir + ImagePathSep
}

// ImagePath returns '{prefix}/images/{uuid}.rdx'.
func ImagePath(prefix string, id ImageID) string {
	return ImagePrefix(prefix) + fmt.Sprintf(imageBlobNameF, id, ImageExt)
}

// ImageSealPath returns the path of the seal stored beside the image,
// '{prefix}/images/{uuid}.sth'.
func ImageSealPath(prefix string, id ImageID) string {
	return ImagePrefix(prefix) + fmt.Sprintf(imageBlobNameF, id, ImageSealExt)
}

// ParseImagePath returns the id of an image path made by ImagePath, whatever
// its prefix.
func ParseImagePath(p string) (ImageID, error) {
	dir, name := path.Split(p)
	if path.Base(strings.TrimSuffix(dir, ImagePathSep)) != ImagesDir {
		return ImageID{}, fmt.Errorf("%w: %s", ErrBadImagePath, p)
	}
	base, found := strings.CutSuffix(name, ImageExtSep+ImageExt)
	if !found {
		return ImageID{}, fmt.Errorf("%w: %s", ErrBadImagePath, p)
	}
	id, err := uuid.Parse(base)
	if err != nil {
		return ImageID{}, fmt.Errorf("%w: %s: %w", ErrBadImagePath, p, err)
	}
	return ImageID(id), nil
}
