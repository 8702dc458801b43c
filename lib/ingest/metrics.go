package ingest

type runMetrics struct {
	sources int
	created int
	updated int
	skipped int
	errored int
}

func (m *runMetrics) Add(other *runMetrics) {
	m.sources += other.sources
	m.created += other.created
	m.updated += other.updated
	m.skipped += other.skipped
	m.errored += other.errored
}
