// Package progressfmt renders the human-formatted speed and ETA
// strings spec §3/§4.2 put on DownloadingData. go-humanize's own
// Bytes()/SI() helpers use an 3-significant-digit ladder that doesn't
// match the spec's fixed B/s, KB/s, MB/s, GB/s thresholds or its
// bespoke ETA ladder, so the thresholds are hand-rolled here; only the
// disk space messages in internal/diskspace go through humanize.Bytes.
package progressfmt

import (
	"fmt"
	"math"
	"time"
)

// Percent renders a completion fraction as spec's "0.00"-"100.00"
// decimal string.
func Percent(downloaded, total int64) string {
	if total <= 0 {
		return "0.00"
	}
	pct := float64(downloaded) / float64(total) * 100
	return fmt.Sprintf("%.2f", pct)
}

// Speed renders bytes/second with the unit thresholds from spec §3:
// B/s below 1 KiB/s, KB/s below 1 MiB/s, else MB/s. GB/s is reachable
// only past 1024 MB/s, matching the documented B/s, KB/s, MB/s, GB/s
// ladder.
func Speed(bytesPerSecond float64) string {
	switch {
	case bytesPerSecond < 1024:
		return fmt.Sprintf("%.2f B/s", bytesPerSecond)
	case bytesPerSecond < 1024*1024:
		return fmt.Sprintf("%.2f KB/s", bytesPerSecond/1024)
	case bytesPerSecond < 1024*1024*1024:
		return fmt.Sprintf("%.2f MB/s", bytesPerSecond/(1024*1024))
	default:
		return fmt.Sprintf("%.2f GB/s", bytesPerSecond/(1024*1024*1024))
	}
}

// MaxETA is the clamp spec §4.2 applies to the computed
// time-until-complete.
const MaxETA = 24 * time.Hour

// ETA renders a remaining-bytes/speed estimate with the ladder from
// spec §4.2: <60s -> Ns, <1h -> Mm Ss, <1d -> Hh Mm, else Dd Hh. A
// non-positive speed means the rate cannot yet be estimated.
func ETA(remainingBytes int64, bytesPerSecond float64) string {
	if bytesPerSecond <= 0 {
		return "calculating…"
	}
	seconds := float64(remainingBytes) / bytesPerSecond
	if seconds < 0 {
		seconds = 0
	}
	d := time.Duration(seconds * float64(time.Second))
	if d > MaxETA {
		d = MaxETA
	}

	total := int64(math.Round(d.Seconds()))
	switch {
	case total < 60:
		return fmt.Sprintf("%ds", total)
	case total < 3600:
		m, s := total/60, total%60
		return fmt.Sprintf("%dm %ds", m, s)
	case total < 86400:
		h, m := total/3600, (total%3600)/60
		return fmt.Sprintf("%dh %dm", h, m)
	default:
		d2, h := total/86400, (total%86400)/3600
		return fmt.Sprintf("%dd %dh", d2, h)
	}
}
