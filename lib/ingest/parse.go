package ingest

import (
	"bytes"
	"fmt"

	"github.com/mmcdole/gofeed"
)

// parseFeed decodes fetched bytes into entries. A decode failure is the
// bozo condition: the source is malformed and must be skipped this run,
// never silently accepted.
func parseFeed(raw []byte) ([]*gofeed.Item, error) {
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("malformed feed: %w", err)
	}
	return feed.Items, nil
}
