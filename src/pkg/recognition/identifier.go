package recognition

import (
	"errors"
	"fmt"
	"strings"
)

var ErrMissingSeparator = errors.New("filename has no '.' separator")

// ItemIdentifier returns the part of filename before the first '.', the key
// results are stored under. "alice.tar.gz" yields "alice".
func ItemIdentifier(filename string) (string, error) {
	id, _, found := strings.Cut(filename, ".")
	if !found {
		return "", fmt.Errorf("%w: %q", ErrMissingSeparator, filename)
	}
	return id, nil
}
