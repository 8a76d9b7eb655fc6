package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/JonMunkholm/storemap/internal/config"
	"github.com/JonMunkholm/storemap/internal/logging"
	"github.com/JonMunkholm/storemap/internal/observability"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// Snapshot is a complete, immutable view of the indexed data.
// Readers hold a Snapshot for as long as they like; uploads never mutate
// one in place but publish a new one.
type Snapshot struct {
	Index      PostalIndex
	Summary    ParseSummary
	UploadID   string
	FileName   string
	UploadedAt time.Time
}

// UploadResult is returned for every upload that reached the parser.
type UploadResult struct {
	UploadID     string        `json:"uploadId"`
	FileName     string        `json:"fileName"`
	Summary      ParseSummary  `json:"summary"`
	PostalCodes  int           `json:"postalCodes"`
	Stores       int           `json:"stores"`
	Duration     time.Duration `json:"duration"`
	Notification Notification  `json:"notification"`
}

// LookupResult is a postal code found in the current index.
type LookupResult struct {
	Entry        EntryView    `json:"entry"`
	Viewport     Viewport     `json:"viewport"`
	Notification Notification `json:"notification"`
}

// StoreSearch is the outcome of a store-name search.
type StoreSearch struct {
	SearchResult
	Viewport     Viewport     `json:"viewport"`
	Notification Notification `json:"notification"`
}

// Service owns the current postal-code index and serializes uploads.
type Service struct {
	cfg     *config.Config
	history HistoryStore
	metrics *observability.Metrics
	clock   clockwork.Clock
	limiter *UploadLimiter

	current atomic.Pointer[Snapshot]
}

// Option customizes a Service.
type Option func(*Service)

// WithClock replaces the wall clock, for tests.
func WithClock(c clockwork.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// NewService creates a Service with an empty index.
// A nil history falls back to an in-memory store.
func NewService(cfg *config.Config, history HistoryStore, metrics *observability.Metrics, opts ...Option) *Service {
	if history == nil {
		history = NewMemoryHistory(cfg.History.Limit)
	}
	s := &Service{
		cfg:     cfg,
		history: history,
		metrics: metrics,
		clock:   clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.limiter = NewUploadLimiter(DefaultMaxConcurrentUploads, cfg.Upload.MaxWaitTime, s.clock)
	s.publish(&Snapshot{Index: PostalIndex{}})
	return s
}

// Snapshot returns the current index and the upload that produced it.
func (s *Service) Snapshot() *Snapshot {
	return s.current.Load()
}

// Reset discards the current index.
func (s *Service) Reset() {
	s.publish(&Snapshot{Index: PostalIndex{}})
}

func (s *Service) publish(snap *Snapshot) {
	s.current.Store(snap)
	s.metrics.IndexedPostalCodes.Set(float64(snap.Index.Len()))
	s.metrics.IndexedStores.Set(float64(snap.Index.StoreCount()))
}

// Upload reads the full content of one CSV file and, on success, replaces
// the current index with the one built from it.
//
// The content is read completely before parsing starts. A read failure
// returns an error wrapping ErrReadFailed (or ErrFileTooLarge); an upload
// without data returns an error wrapping ErrEmptyInput. Both reset the
// index to empty. Malformed rows never fail the upload; they are counted
// in the summary.
func (s *Service) Upload(ctx context.Context, fileName string, r io.Reader) (UploadResult, error) {
	if r == nil {
		return UploadResult{Notification: Notification{Type: NotifyInfo, Message: msgNoFile.Message}}, ErrNoFile
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		s.metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		return UploadResult{}, err
	}
	defer s.limiter.Release()

	uploadID := uuid.New().String()
	logger := logging.WithFields(ctx, "upload_id", uploadID, "file", fileName)
	start := s.clock.Now()

	result := UploadResult{UploadID: uploadID, FileName: fileName}

	text, err := ReadText(r, s.cfg.Upload.MaxFileSize)
	if err != nil {
		s.Reset()
		s.metrics.UploadsTotal.WithLabelValues("read_error").Inc()
		logger.Error("upload read failed", "error", err)
		result.Notification = ErrorNotification(err)
		s.recordHistory(ctx, logger, UploadRecord{
			ID:         uploadID,
			FileName:   fileName,
			UploadedAt: start,
			Error:      result.Notification.Message,
		})
		return result, err
	}

	index, summary := BuildIndex(text)
	result.Summary = summary
	result.PostalCodes = index.Len()
	result.Stores = index.StoreCount()
	result.Duration = s.clock.Since(start)
	result.Notification = summary.Notification()
	s.metrics.ParseDuration.Observe(result.Duration.Seconds())

	s.recordHistory(ctx, logger, UploadRecord{
		ID:            uploadID,
		FileName:      fileName,
		UploadedAt:    start,
		ProcessedRows: summary.ProcessedRows,
		SkippedRows:   summary.SkippedRows,
		PostalCodes:   index.Len(),
		Error:         summary.Error,
	})

	if err := summary.Err(); err != nil {
		s.Reset()
		s.metrics.UploadsTotal.WithLabelValues("empty").Inc()
		logger.Warn("upload rejected", "reason", summary.Error)
		return result, err
	}

	for _, skip := range summary.Skipped {
		logger.Warn("skipping row",
			"line", skip.Line,
			"reason", skip.Reason,
			"text", skip.Text,
		)
		s.metrics.RowsSkipped.WithLabelValues(string(skip.Reason)).Inc()
	}
	s.metrics.RowsProcessed.Add(float64(summary.ProcessedRows))

	s.publish(&Snapshot{
		Index:      index,
		Summary:    summary,
		UploadID:   uploadID,
		FileName:   fileName,
		UploadedAt: start,
	})

	outcome := "success"
	switch {
	case summary.ProcessedRows == summary.SkippedRows:
		outcome = "no_data"
	case summary.SkippedRows > 0:
		outcome = "partial"
	}
	s.metrics.UploadsTotal.WithLabelValues(outcome).Inc()

	logger.Info("upload indexed",
		"processed_rows", summary.ProcessedRows,
		"skipped_rows", summary.SkippedRows,
		"postal_codes", result.PostalCodes,
		"stores", result.Stores,
		"duration_ms", result.Duration.Milliseconds(),
	)

	return result, nil
}

func (s *Service) recordHistory(ctx context.Context, logger *slog.Logger, rec UploadRecord) {
	if err := s.history.Record(ctx, rec); err != nil {
		logger.Error("record upload history failed", "error", err)
	}
}

// LookupPostalCode finds code in the current index. Surrounding whitespace
// is ignored; otherwise the match is exact.
func (s *Service) LookupPostalCode(ctx context.Context, code string) (LookupResult, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		s.metrics.QueriesTotal.WithLabelValues("lookup", "invalid").Inc()
		return LookupResult{}, ErrEmptyPostalCode
	}

	entry, ok := s.Snapshot().Index.Lookup(code)
	if !ok {
		s.metrics.QueriesTotal.WithLabelValues("lookup", "miss").Inc()
		logging.FromContext(ctx).Debug("postal code not found", "postal_code", code)
		return LookupResult{}, fmt.Errorf("%w: %s", ErrPostalCodeNotFound, code)
	}

	s.metrics.QueriesTotal.WithLabelValues("lookup", "hit").Inc()
	return LookupResult{
		Entry:        NewEntryView(code, entry),
		Viewport:     FocusViewport(entry.Lat, entry.Lng),
		Notification: LookupNotification(code, entry),
	}, nil
}

// SearchStores finds stores whose name contains query, ignoring case.
// When nothing matches, the empty result is returned together with an
// error wrapping ErrNoStoresFound.
func (s *Service) SearchStores(ctx context.Context, query string) (StoreSearch, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		s.metrics.QueriesTotal.WithLabelValues("search", "invalid").Inc()
		return StoreSearch{}, ErrEmptyStoreQuery
	}

	result := s.Snapshot().Index.Search(query)
	search := StoreSearch{
		SearchResult: result,
		Viewport:     SearchViewport(result),
		Notification: SearchNotification(result),
	}

	if result.Total == 0 {
		s.metrics.QueriesTotal.WithLabelValues("search", "miss").Inc()
		logging.FromContext(ctx).Debug("no stores matched", "query", query)
		return search, fmt.Errorf("%w: %q", ErrNoStoresFound, query)
	}

	s.metrics.QueriesTotal.WithLabelValues("search", "hit").Inc()
	return search, nil
}

// History returns recent upload attempts, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]UploadRecord, error) {
	return s.history.Recent(ctx, limit)
}

// UploadLimiterStatus returns the current upload slot usage.
func (s *Service) UploadLimiterStatus() UploadLimiterStatus {
	return s.limiter.Status()
}

// WaitForUploads blocks until in-flight uploads finish or ctx is done.
func (s *Service) WaitForUploads(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// CheckReadiness reports whether the history store answers.
func (s *Service) CheckReadiness(ctx context.Context) error {
	if _, err := s.history.Recent(ctx, 1); err != nil {
		return fmt.Errorf("history store: %w", err)
	}
	return nil
}
