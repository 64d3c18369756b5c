package manifest

import (
	"fmt"
	"strings"
)

// Kind of base image source a stage starts from.
type FromKind string

const (

	// An OCI archive on disk, imported into the runtime on demand.
	FromArchive FromKind = "archive"

	// A previously imported image, referenced by tag.
	FromImage FromKind = "image"
)

// A parsed stage base image source.
type FromSource struct {
	Kind  FromKind // Source kind.
	Value string   // Archive path or image tag.
}

// Parses the stage's from field.
//
// The field has the form "archive:<path>" or "image:<tag>". A value
// without a recognized kind prefix is treated as an archive path, which
// keeps plain paths like "images/base.tar" working.
func (s Stage) ParseFrom() (FromSource, error) {
	v := strings.TrimSpace(s.From)
	if v == "" {
		return FromSource{}, fmt.Errorf("%w: stage %q has no base image", ErrManifest, s.Name)
	}

	if kind, rest, ok := strings.Cut(v, ":"); ok && rest != "" {
		switch FromKind(kind) {
		case FromArchive:
			return FromSource{Kind: FromArchive, Value: rest}, nil
		case FromImage:
			return FromSource{Kind: FromImage, Value: rest}, nil
		}
	}

	return FromSource{Kind: FromArchive, Value: v}, nil
}

// Splits a cross-stage copy source of the form "stage:path".
//
// Returns the stage name, the path within the stage, and true when src
// matches the cross-stage format. A colon appearing after a path
// separator does not start a stage reference (e.g. "/foo:bar" is a
// host path).
func StageRef(src string) (stage, path string, ok bool) {
	i := strings.IndexByte(src, ':')
	if i < 1 {
		return "", "", false
	}

	if strings.ContainsRune(src[:i], '/') {
		return "", "", false
	}

	return src[:i], src[i+1:], true
}
