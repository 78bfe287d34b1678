package downloader

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// ProbeResult is what the spec §4.2 step 1 HEAD request discovers
// before any range is fetched.
type ProbeResult struct {
	Size         int64
	Extension    string // "rar" or "zip"
	AcceptRanges bool
	ContentType  string
}

// ContentTypeError marks an HTML response body in place of the
// expected archive, per spec §4.2 "Failure semantics" — surfaced as a
// typed content_type_error so callers can set a recognizable message
// on DownloadingData.
type ContentTypeError struct {
	ContentType string
}

func (e *ContentTypeError) Error() string {
	return fmt.Sprintf("content_type_error: server returned %q, link most likely expired", e.ContentType)
}

// Probe issues a HEAD request to discover Content-Length and
// Content-Disposition, per spec §4.2 step 1. It derives the archive
// extension from Content-Disposition's filename parameter, falling
// back to the URL's last .<ext> before any query string; only "rar"
// or "zip" are accepted, otherwise it defaults to "rar" — a known
// deficiency the spec keeps deliberately (see spec §9).
func Probe(client *http.Client, url string) (*ProbeResult, error) {
	req, err := newRequest(http.MethodHead, url)
	if err != nil {
		return nil, fmt.Errorf("downloader: build HEAD request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloader: HEAD request: %w", err)
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if strings.Contains(contentType, "text/html") {
		return nil, &ContentTypeError{ContentType: contentType}
	}

	var size int64
	if cl := resp.Header.Get("Content-Length"); cl != "" {
		size, _ = strconv.ParseInt(cl, 10, 64)
	}

	ext := extensionFromDisposition(resp.Header.Get("Content-Disposition"))
	if ext == "" {
		ext = extensionFromURL(url)
	}
	if ext != "rar" && ext != "zip" {
		ext = "rar"
	}

	return &ProbeResult{
		Size:         size,
		Extension:    ext,
		AcceptRanges: strings.EqualFold(resp.Header.Get("Accept-Ranges"), "bytes"),
		ContentType:  contentType,
	}, nil
}

func extensionFromDisposition(disposition string) string {
	idx := strings.Index(disposition, "filename=")
	if idx < 0 {
		return ""
	}
	filename := strings.Trim(disposition[idx+len("filename="):], `"'`)
	if semi := strings.IndexByte(filename, ';'); semi >= 0 {
		filename = strings.TrimSpace(filename[:semi])
	}
	return lastExtension(filename)
}

func extensionFromURL(url string) string {
	withoutQuery := strings.SplitN(url, "?", 2)[0]
	return lastExtension(withoutQuery)
}

func lastExtension(name string) string {
	idx := strings.LastIndexByte(name, '.')
	if idx < 0 || idx == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[idx+1:])
}
