package objectstore

import (
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"
)

// detectContentType sniffs body when it can be rewound. Bodies that are not
// seekable are left untouched and reported as unknown.
func detectContentType(body io.Reader) (string, error) {
	seeker, ok := body.(io.ReadSeeker)
	if !ok {
		return "", nil
	}

	mtype, detectErr := mimetype.DetectReader(seeker)
	if detectErr != nil {
		return "", fmt.Errorf("failed to detect content type: %w", detectErr)
	}

	if _, seekErr := seeker.Seek(0, io.SeekStart); seekErr != nil {
		return "", fmt.Errorf("failed to rewind body: %w", seekErr)
	}
	return mtype.String(), nil
}
