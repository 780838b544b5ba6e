package preview

import (
	"fmt"
	"os"
	"sync/atomic"
)

// scratchCounter is the process-wide monotonic counter mixed into scratch
// file names "Global mutable state": "encode as an atomic
// counter plus pid in the filename."
var scratchCounter uint64

// newScratchFile creates a fresh scratch file under the OS temp directory,
// named "preview-{pid}-{counter}" , never reused across
// previews or processes.
func newScratchFile() (*os.File, string, error) {
	n := atomic.AddUint64(&scratchCounter, 1)
	name := fmt.Sprintf("preview-%d-%d", os.Getpid(), n)
	path := os.TempDir() + string(os.PathSeparator) + name
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
 return nil, "", err
	}
	return f, path, nil
}
