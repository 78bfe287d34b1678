// Package analyticsdb is a supplemental history store the distilled
// spec doesn't name but the teacher's stack strongly implies: a local
// SQLite database (gorm + glebarez/sqlite, both teacher dependencies)
// recording completed acquisitions and speed-test runs for the
// front-end's history views. It is deliberately kept separate from
// StatusDocument/CollectionIndex/SettingsDocument — those three are
// the plain-JSON coordination channel spec invariant 1 requires, while
// this is read-mostly historical data with no concurrent-writer
// coordination requirement, the same split the teacher draws between
// its JSON-friendly runtime state and its database-backed
// internal/storage models.
package analyticsdb

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"ascendara/internal/diagnostics"
	"ascendara/internal/diskspace"
)

// AcquisitionRecord is one completed (successful or failed)
// acquisition, adapted from the teacher's DailyStat/DownloadTask pair
// into a single per-acquisition row scoped to this spec's two
// acquisition paths.
type AcquisitionRecord struct {
	ID          uint      `gorm:"primaryKey"`
	Game        string    `gorm:"index"`
	Method      string    // "direct" or "hosthelper"
	Bytes       int64
	DurationSec int64
	Success     bool
	ErrorMessage string
	CompletedAt time.Time `gorm:"index"`
}

func (AcquisitionRecord) TableName() string { return "acquisitions" }

// SpeedTestRecord mirrors the teacher's storage.SpeedTestHistory
// shape, fed here by internal/diagnostics.Result instead of the
// teacher's internal/core.SpeedTestResult.
type SpeedTestRecord struct {
	ID             uint `gorm:"primaryKey"`
	DownloadMbps   float64
	UploadMbps     float64
	PingMs         int64
	ISP            string
	ServerName     string
	ServerLocation string
	Timestamp      time.Time `gorm:"index"`
}

func (SpeedTestRecord) TableName() string { return "speed_test_history" }

// Store wraps the gorm handle to the analytics database.
type Store struct {
	db *gorm.DB
}

// DefaultPath returns the well-known analytics database location,
// sibling to the SettingsDocument.
func DefaultPath() (string, error) {
	root, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "ascendara", "analytics.db"), nil
}

// Open opens (creating if necessary) the analytics database at path
// and runs auto-migration for both tables.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("analyticsdb: create directory for %s: %w", path, err)
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("analyticsdb: open %s: %w", path, err)
	}
	if err := db.AutoMigrate(&AcquisitionRecord{}, &SpeedTestRecord{}); err != nil {
		return nil, fmt.Errorf("analyticsdb: migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// RecordAcquisition appends one acquisition outcome.
func (s *Store) RecordAcquisition(game, method string, bytes, durationSec int64, success bool, errMsg string) error {
	rec := AcquisitionRecord{
		Game:         game,
		Method:       method,
		Bytes:        bytes,
		DurationSec:  durationSec,
		Success:      success,
		ErrorMessage: errMsg,
		CompletedAt:  time.Now(),
	}
	if err := s.db.Create(&rec).Error; err != nil {
		return fmt.Errorf("analyticsdb: record acquisition: %w", err)
	}
	return nil
}

// RecordSpeedTest appends one diagnostics.Result as history.
func (s *Store) RecordSpeedTest(r *diagnostics.Result) error {
	rec := SpeedTestRecord{
		DownloadMbps:   r.DownloadMbps,
		UploadMbps:     r.UploadMbps,
		PingMs:         r.PingMs,
		ISP:            r.ISP,
		ServerName:     r.ServerName,
		ServerLocation: r.ServerLocation,
		Timestamp:      r.Timestamp,
	}
	if err := s.db.Create(&rec).Error; err != nil {
		return fmt.Errorf("analyticsdb: record speed test: %w", err)
	}
	return nil
}

// RecentAcquisitions returns up to limit acquisitions, most recent first.
func (s *Store) RecentAcquisitions(limit int) ([]AcquisitionRecord, error) {
	var records []AcquisitionRecord
	if err := s.db.Order("completed_at DESC").Limit(limit).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("analyticsdb: query acquisitions: %w", err)
	}
	return records, nil
}

// RecentSpeedTests returns up to limit speed tests, most recent first.
func (s *Store) RecentSpeedTests(limit int) ([]SpeedTestRecord, error) {
	var records []SpeedTestRecord
	if err := s.db.Order("timestamp DESC").Limit(limit).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("analyticsdb: query speed tests: %w", err)
	}
	return records, nil
}

// Summary is the aggregate view the front-end's history page renders,
// adapted from the teacher's StatsManager.GetAnalytics (both the
// internal/core and internal/analytics copies) onto this package's
// acquisitions table in place of their SQL daily_stats table.
type Summary struct {
	TotalBytes   int64            `json:"totalBytes"`
	TotalSuccess int64            `json:"totalSuccess"`
	DailyBytes   map[string]int64 `json:"dailyBytes"`
	Disk         *diskspace.Usage `json:"disk,omitempty"`
}

type dailyRow struct {
	Day   string
	Bytes int64
}

// Analytics reports lifetime acquisition totals, a day-bucketed byte
// history for the last `days` days, and disk usage for destDir.
func (s *Store) Analytics(days int, destDir string) (*Summary, error) {
	summary := &Summary{DailyBytes: make(map[string]int64)}

	var totals struct {
		TotalBytes   int64
		TotalSuccess int64
	}
	if err := s.db.Model(&AcquisitionRecord{}).
		Select("COALESCE(SUM(bytes), 0) as total_bytes, COUNT(*) as total_success").
		Where("success = ?", true).
		Scan(&totals).Error; err != nil {
		return nil, fmt.Errorf("analyticsdb: query totals: %w", err)
	}
	summary.TotalBytes = totals.TotalBytes
	summary.TotalSuccess = totals.TotalSuccess

	var rows []dailyRow
	if err := s.db.Model(&AcquisitionRecord{}).
		Select("strftime('%Y-%m-%d', completed_at) as day, COALESCE(SUM(bytes), 0) as bytes").
		Where("success = ? AND completed_at >= ?", true, time.Now().AddDate(0, 0, -days)).
		Group("day").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("analyticsdb: query daily history: %w", err)
	}
	for _, r := range rows {
		summary.DailyBytes[r.Day] = r.Bytes
	}

	if destDir != "" {
		if usage, err := diskspace.Report(destDir); err == nil {
			summary.Disk = usage
		}
	}

	return summary, nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
