package scan

import (
	"strings"

	"github.com/sdejongh/dupfinder/internal/platform"
)

// Separator joins the directory and the entry name in candidate paths.
// Both the OS and go-billy accept it on every platform.
const Separator = "/"

// CandidatePath returns base + Separator + name.
// The result is not cleaned: a trailing separator on base is kept, and the
// name is used exactly as enumerated. It fails when name is not a single
// path component or the result exceeds the platform path limit.
func CandidatePath(base, name string) (string, error) {
	if err := platform.ValidateName(name); err != nil {
		return "", err
	}

	size := len(base) + len(Separator) + len(name)
	if size > platform.MaxPathLen() {
		return "", &platform.PathError{Path: name, Message: "candidate path exceeds the platform length limit"}
	}

	var b strings.Builder
	b.Grow(size)
	b.WriteString(base)
	b.WriteString(Separator)
	b.WriteString(name)
	return b.String(), nil
}
