package backtype

import (
	"net/url"
	"strings"
)

// ImageSize selects the rendition returned by the image service.
type ImageSize string

const (
	ImageSizeM ImageSize = "m"
	ImageSizeT ImageSize = "t"
	ImageSizeP ImageSize = "p"
	ImageSizeO ImageSize = "o"

	DefaultImageSize = ImageSizeT
)

// Valid reports whether s is one of the sizes the image service serves.
func (s ImageSize) Valid() bool {
	switch s {
	case ImageSizeM, ImageSizeT, ImageSizeP, ImageSizeO:
		return true
	}
	return false
}

// ImageURL builds the URL of a BackType image without any network I/O. An empty size
// selects DefaultImageSize.
func (c *Client) ImageURL(imageID string, size ImageSize) (string, error) {
	if strings.TrimSpace(imageID) == "" {
		return "", invalidParam("image id must not be empty")
	}
	if size == "" {
		size = DefaultImageSize
	}
	if !size.Valid() {
		return "", invalidParam("image size %q not one of m, t, p, o", string(size))
	}
	return c.imageBase + string(size) + "/" + url.PathEscape(imageID) + ".jpg", nil
}
