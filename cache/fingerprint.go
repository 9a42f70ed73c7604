package cache

import (
	"os"

	"github.com/cespare/xxhash/v2"
)

// Mode selects how module files are fingerprinted for staleness detection.
type Mode int

const (
	// ModTime fingerprints by modification time and size. Cheap (one stat),
	// but edits within the filesystem's timestamp resolution can go unseen.
	ModTime Mode = iota
	// Content fingerprints by hashing the file contents. Robust; costs a
	// full read on every cache consultation.
	Content
)

func (m Mode) String() string {
	if m == Content {
		return "content"
	}
	return "modtime"
}

// Fingerprint captures a module file's identity at load time.
// Two fingerprints are comparable only if taken in the same mode.
type Fingerprint struct {
	mode      Mode
	mtimeNano int64
	size      int64
	sum       uint64
}

// Equal reports whether two fingerprints denote unchanged content.
func (f Fingerprint) Equal(other Fingerprint) bool {
	return f == other
}

// fingerprintFile computes the fingerprint for path. In Content mode the
// file's bytes are returned too, so a following cache miss does not re-read.
func fingerprintFile(mode Mode, path string) (Fingerprint, []byte, error) {
	if mode == Content {
		src, err := os.ReadFile(path)
		if err != nil {
			return Fingerprint{}, nil, err
		}
		return Fingerprint{
			mode: Content,
			size: int64(len(src)),
			sum:  xxhash.Sum64(src),
		}, src, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return Fingerprint{}, nil, err
	}
	return Fingerprint{
		mode:      ModTime,
		mtimeNano: info.ModTime().UnixNano(),
		size:      info.Size(),
	}, nil, nil
}
