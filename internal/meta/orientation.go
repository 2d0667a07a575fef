package meta

import (
	"fmt"

	exif "github.com/dsoprea/go-exif/v3"
	exifcommon "github.com/dsoprea/go-exif/v3/common"
)

// Orientation reads the EXIF Orientation tag from a bare TIFF stream.
// Returns 0 when the tag is absent or the stream is unreadable.
func Orientation(rawExif []byte) int {
	if len(rawExif) == 0 {
		return 0
	}
	tags, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil {
		return 0
	}
	for _, tag := range tags {
		if tag.TagName != "Orientation" {
			continue
		}
		if vals, ok := tag.Value.([]uint16); ok && len(vals) > 0 {
			return int(vals[0])
		}
	}
	return 0
}

// NeutralizeOrientation rewrites the Orientation tag to 1 (upright).
// Needed after auto-orienting: the pixels are already rotated, and a stale
// tag would make viewers rotate them a second time.
func NeutralizeOrientation(rawExif []byte) ([]byte, error) {
	im, err := exifcommon.NewIfdMappingWithStandard()
	if err != nil {
		return nil, fmt.Errorf("ifd mapping: %w", err)
	}
	ti := exif.NewTagIndex()

	_, index, err := exif.Collect(im, ti, rawExif)
	if err != nil {
		return nil, fmt.Errorf("collect ifds: %w", err)
	}

	ib := exif.NewIfdBuilderFromExistingChain(index.RootIfd)
	if err := ib.SetStandardWithName("Orientation", []uint16{1}); err != nil {
		return nil, fmt.Errorf("set orientation: %w", err)
	}

	updated, err := exif.NewIfdByteEncoder().EncodeToExif(ib)
	if err != nil {
		return nil, fmt.Errorf("encode exif: %w", err)
	}
	return updated, nil
}
