package store

import (
	"os"

	"github.com/systemshift/minigit/internal/atomicfile"
)

// writeFileAtomic writes data to path by first writing it to a sibling
// temp file and renaming it into place, satisfying the atomic-write
// invariant: no reader ever observes a torn write.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	return atomicfile.Write(path, data, perm)
}
