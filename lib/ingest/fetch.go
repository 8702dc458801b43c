package ingest

import (
	"bytes"
	"context"
	"time"

	"github.com/carlmjohnson/requests"
)

const (
	// Realistic client identity; some origins drop default Go agents.
	userAgent = "Mozilla/5.0 (compatible; newsreel/1.0; +https://github.com/jquah/newsreel)"

	feedTimeout   = 15 * time.Second
	scrapeTimeout = 20 * time.Second
)

// fetchURL retrieves raw bytes with a bounded timeout. Non-2xx statuses
// are errors (the requests builder's default validator).
func (ing *Ingester) fetchURL(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	buf := new(bytes.Buffer)
	err := requests.URL(url).
		Transport(ing.transport).
		UserAgent(userAgent).
		ToBytesBuffer(buf).
		Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
