package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"
)

// RetryBudget is the fixed per-chunk retry budget R from spec §4.2.
const RetryBudget = 3

// ProgressFunc is invoked after each credited chunk, under the
// engine's shared mutex, with the cumulative downloaded and total
// byte counts.
type ProgressFunc func(downloaded, total int64)

// Config describes one acquisition.
type Config struct {
	URL         string
	DestPath    string
	WorkerCount int // N from settings, default 4 (spec §4.2)
	OnProgress  ProgressFunc
}

// Result is returned once the file is fully written.
type Result struct {
	Extension string
	Size      int64
}

// Engine runs chunked downloads sharing one HTTP client and one
// downloaded-bytes mutex across all range workers, the way the
// teacher's TachyonEngine shares one *http.Client and one progress
// mutex across its downloadWorker goroutines.
type Engine struct {
	client *http.Client
}

func New() *Engine {
	return &Engine{client: newHTTPClient()}
}

// Client exposes the engine's shared HTTP client so callers can reuse
// it for the preceding HEAD probe instead of opening a second pool.
func (e *Engine) Client() *http.Client { return e.client }

// rangeSpec is one of the N half-open byte ranges partitioning
// [0, total), per spec §4.2 step 3.
type rangeSpec struct {
	index      int
	start, end int64 // inclusive
}

func partitionRanges(total int64, n int) []rangeSpec {
	if n < 1 {
		n = 1
	}
	chunk := total / int64(n)
	ranges := make([]rangeSpec, n)
	for i := 0; i < n; i++ {
		start := int64(i) * chunk
		end := start + chunk - 1
		if i == n-1 {
			end = total - 1 // last range absorbs the remainder
		}
		ranges[i] = rangeSpec{index: i, start: start, end: end}
	}
	return ranges
}

// Download fetches cfg.URL into cfg.DestPath. probe must already have
// been obtained via Probe. When probe.Size is 0 or the server does
// not advertise range support, it falls back to a single streaming
// GET per spec §4.2 step 2.
func (e *Engine) Download(ctx context.Context, cfg Config, probe *ProbeResult) (*Result, error) {
	if probe.Size <= 0 || !probe.AcceptRanges {
		if err := e.downloadStream(ctx, cfg, probe.Size); err != nil {
			return nil, err
		}
		return &Result{Extension: probe.Extension, Size: probe.Size}, nil
	}

	n := cfg.WorkerCount
	if n < 1 {
		n = 4
	}
	ranges := partitionRanges(probe.Size, n)
	buffers := make([][]byte, len(ranges))

	var (
		mu         sync.Mutex
		downloaded int64
	)
	credit := func(delta int64) {
		mu.Lock()
		defer mu.Unlock()
		downloaded += delta
		if cfg.OnProgress != nil {
			cfg.OnProgress(downloaded, probe.Size)
		}
	}

	if err := e.fetchAllRanges(ctx, cfg.URL, ranges, buffers, credit); err != nil {
		return nil, err
	}

	if err := writeBuffersInOrder(cfg.DestPath, buffers); err != nil {
		return nil, err
	}
	return &Result{Extension: probe.Extension, Size: probe.Size}, nil
}

// fetchAllRanges spawns one goroutine per range, each running
// independently against a shared cancellable context: the first
// range to exhaust its retry budget cancels the rest, matching the
// teacher's downloadWorker goroutines which all observe one
// cancellable ctx derived from executeTask.
func (e *Engine) fetchAllRanges(ctx context.Context, url string, ranges []rangeSpec, buffers [][]byte, credit func(int64)) error {
	rangeCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	errs := make(chan error, len(ranges))

	for _, r := range ranges {
		r := r
		wg.Add(1)
		go func() {
			defer wg.Done()
			buf, err := e.fetchRangeWithRetry(rangeCtx, url, r, credit)
			if err != nil {
				errs <- err
				cancel()
				return
			}
			buffers[r.index] = buf
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		return err // first recorded error is representative
	}
	return nil
}

// fetchRangeWithRetry fetches one byte range, retrying up to
// RetryBudget times with a 2^attempt second backoff on any network or
// verification error, per spec §4.2 step 4. On each failed attempt it
// decrements the global downloaded count by whatever was already
// credited for this range before resetting the buffer and retrying.
func (e *Engine) fetchRangeWithRetry(ctx context.Context, url string, r rangeSpec, credit func(int64)) ([]byte, error) {
	width := r.end - r.start + 1
	var lastErr error

	for attempt := 0; attempt < RetryBudget; attempt++ {
		creditedThisAttempt := int64(0)
		localCredit := func(n int64) {
			creditedThisAttempt += n
			credit(n)
		}

		buf, err := e.fetchRange(ctx, url, r, localCredit)
		if err == nil && int64(len(buf)) == width {
			return buf, nil
		}
		if err == nil {
			err = fmt.Errorf("downloader: range %d-%d: got %d bytes, want %d", r.start, r.end, len(buf), width)
		}
		lastErr = err

		// Rewind whatever this failed attempt credited.
		if creditedThisAttempt > 0 {
			credit(-creditedThisAttempt)
		}

		if attempt < RetryBudget-1 {
			select {
			case <-time.After(time.Duration(1<<uint(attempt)) * time.Second):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, fmt.Errorf("downloader: range %d-%d exhausted %d retries: %w", r.start, r.end, RetryBudget, lastErr)
}

func (e *Engine) fetchRange(ctx context.Context, url string, r rangeSpec, credit func(int64)) ([]byte, error) {
	req, err := newRequest(http.MethodGet, url)
	if err != nil {
		return nil, err
	}
	req = req.WithContext(ctx)
	req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", r.start, r.end))

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusPartialContent && resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("downloader: unexpected status %d for range request", resp.StatusCode)
	}

	width := r.end - r.start + 1
	buf := make([]byte, 0, width)
	chunk := make([]byte, RangeChunkSize)
	for {
		n, readErr := resp.Body.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
			credit(int64(n))
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return buf, readErr
		}
	}
	return buf, nil
}

// downloadStream handles the no-Content-Length fallback: a single
// streaming GET writing 8 KiB chunks sequentially with live progress
// by bytes downloaded (no percentage), per spec §4.2 step 2.
func (e *Engine) downloadStream(ctx context.Context, cfg Config, declaredTotal int64) error {
	req, err := newRequest(http.MethodGet, cfg.URL)
	if err != nil {
		return err
	}
	req = req.WithContext(ctx)

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("downloader: stream GET: %w", err)
	}
	defer resp.Body.Close()

	f, err := os.Create(cfg.DestPath)
	if err != nil {
		return fmt.Errorf("downloader: create %s: %w", cfg.DestPath, err)
	}
	defer f.Close()

	var downloaded int64
	chunk := make([]byte, StreamChunkSize)
	for {
		n, readErr := resp.Body.Read(chunk)
		if n > 0 {
			if _, werr := f.Write(chunk[:n]); werr != nil {
				return fmt.Errorf("downloader: write %s: %w", cfg.DestPath, werr)
			}
			downloaded += int64(n)
			if cfg.OnProgress != nil {
				cfg.OnProgress(downloaded, declaredTotal)
			}
		}
		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			return fmt.Errorf("downloader: read response body: %w", readErr)
		}
	}
}

// writeBuffersInOrder concatenates range buffers into the output file
// in range order, per spec §4.2 step 5 — buffers are held in memory,
// a deliberate design choice accepting peak memory roughly equal to
// the archive size in exchange for simplicity (spec §9).
func writeBuffersInOrder(destPath string, buffers [][]byte) error {
	f, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("downloader: create %s: %w", destPath, err)
	}
	defer f.Close()

	for _, buf := range buffers {
		if _, err := f.Write(buf); err != nil {
			return fmt.Errorf("downloader: write %s: %w", destPath, err)
		}
	}
	return nil
}
