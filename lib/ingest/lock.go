package ingest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// ErrLockHeld means another ingestion run owns the sentinel file. It is
// a fail-fast condition, never retried or queued.
var ErrLockHeld = errors.New("ingestion is already running")

// acquireLock creates the sentinel file, failing if it already exists.
// The returned release must run on every exit path. There is no
// stale-lock expiry: if a run died mid-pass the operator deletes the
// file, same as the message says.
func acquireLock(path string) (release func(), err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("%w: delete %s if no run is active", ErrLockHeld, path)
		}
		return nil, err
	}
	f.Close()

	return func() { os.Remove(path) }, nil
}
