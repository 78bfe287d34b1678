package downloader

import (
	"log/slog"
	"sync"
	"time"

	"ascendara/internal/progressfmt"
	"ascendara/internal/statusdoc"
)

// StatusReporter throttles progress credits into StatusDocument
// writes, mirroring spec §4.2's progress reporter: after each
// credited chunk, compute percent/speed/ETA and mutate+write the
// document under one mutex. Writes are throttled to minInterval so a
// fast local disk or LAN download doesn't thrash the atomic writer.
type StatusReporter struct {
	mu       sync.Mutex
	path     string
	doc      *statusdoc.StatusDocument
	log      *slog.Logger
	start    time.Time
	last     time.Time
	minInterval time.Duration
}

// NewStatusReporter binds a reporter to the StatusDocument at path.
// doc is mutated and written in place; callers should not write to
// doc themselves once a reporter owns it. log may be nil, in which
// case persistent write failures are dropped rather than logged.
func NewStatusReporter(path string, doc *statusdoc.StatusDocument, log *slog.Logger) *StatusReporter {
	return &StatusReporter{
		path:        path,
		doc:         doc,
		log:         log,
		start:       time.Now(),
		minInterval: 200 * time.Millisecond,
	}
}

// OnProgress satisfies downloader.ProgressFunc.
func (r *StatusReporter) OnProgress(downloaded, total int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	force := total > 0 && downloaded >= total
	if !force && now.Sub(r.last) < r.minInterval {
		return
	}
	r.last = now

	elapsed := now.Sub(r.start).Seconds()
	var speed float64
	if elapsed > 0 {
		speed = float64(downloaded) / elapsed
	}

	dd := r.doc.DownloadingData
	if dd == nil {
		dd = &statusdoc.DownloadingData{Downloading: true}
		r.doc.DownloadingData = dd
	}
	dd.ProgressCompleted = progressfmt.Percent(downloaded, total)
	dd.ProgressDownloadSpeeds = progressfmt.Speed(speed)
	if total > 0 {
		dd.TimeUntilComplete = progressfmt.ETA(total-downloaded, speed)
	} else {
		dd.TimeUntilComplete = "calculating…"
	}

	if err := statusdoc.Write(r.path, r.doc); err != nil && r.log != nil {
		r.log.Warn("failed to write progress status document", "path", r.path, "error", err)
	}
}
