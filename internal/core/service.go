package core

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/JonMunkholm/csvclean/internal/config"
	"github.com/JonMunkholm/csvclean/internal/logging"
	"github.com/google/uuid"
)

// Service mediates between a presentation layer and the pipeline. It owns
// the session store and the run limiter; the pipeline functions themselves
// stay pure.
type Service struct {
	sessions *SessionStore
	limiter  *RunLimiter

	maxFileSize    int64
	inputEncoding  Encoding
	outputEncoding Encoding
	compose        bool

	now   func() time.Time
	newID func() string
}

// NewService creates a Service from the application configuration.
func NewService(cfg *config.Config) (*Service, error) {
	in, err := ParseEncoding(cfg.Encoding.Input)
	if err != nil {
		return nil, fmt.Errorf("input encoding: %w", err)
	}
	out, err := ParseEncoding(cfg.Encoding.Output)
	if err != nil {
		return nil, fmt.Errorf("output encoding: %w", err)
	}

	return &Service{
		sessions:       NewSessionStore(cfg.Session.TTL, cfg.Session.MaxSessions),
		limiter:        NewRunLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWaitTime),
		maxFileSize:    cfg.Upload.MaxFileSize,
		inputEncoding:  in,
		outputEncoding: out,
		compose:        cfg.Encoding.ComposeUnicode,
		now:            time.Now,
		newID:          uuid.NewString,
	}, nil
}

// Load reads an uploaded file, parses it and stores a new session.
//
// The file name must end in .csv and the content must be text. Rows with the
// wrong column count are kept in the session's row errors; only file-level
// problems return an error.
func (s *Service) Load(ctx context.Context, fileName string, r io.Reader) (*Session, error) {
	start := time.Now()
	sess, err := s.load(ctx, fileName, r)
	stageLatency.WithLabelValues(stageLoad).Observe(time.Since(start).Seconds())
	observeResult(stageLoad, err)

	logger := logging.WithFields(ctx, "file", fileName, "ip", ClientFromContext(ctx).IP)
	if err != nil {
		logger.Warn("file rejected", "error", err)
		return nil, err
	}

	logger.Info("file loaded",
		"session_id", sess.ID,
		"encoding", sess.Encoding,
		"columns", sess.Parsed.ExpectedColumns(),
		"valid_rows", len(sess.Parsed.Records),
		"error_rows", len(sess.Parsed.RowErrors),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return sess, nil
}

func (s *Service) load(ctx context.Context, fileName string, r io.Reader) (*Session, error) {
	if err := CheckFileName(fileName); err != nil {
		return nil, err
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	raw, err := readAllLimited(r, s.maxFileSize)
	if err != nil {
		return nil, err
	}

	if err := CheckContent(raw); err != nil {
		return nil, err
	}

	text, enc, err := Decode(raw, s.inputEncoding, s.compose)
	if err != nil {
		return nil, err
	}

	parsed, err := Parse(text)
	if err != nil {
		return nil, err
	}

	sess := &Session{
		ID:        s.newID(),
		FileName:  fileName,
		Encoding:  enc,
		Parsed:    parsed,
		CreatedAt: s.now(),
	}
	s.sessions.Put(sess)
	activeSessions.Set(float64(s.sessions.Len()))
	rowErrorsTotal.Add(float64(len(parsed.RowErrors)))

	return sess, nil
}

// Process normalizes the session's parsed table. Processing an already
// processed session returns it unchanged.
func (s *Service) Process(ctx context.Context, id string) (*Session, error) {
	start := time.Now()
	sess, err := s.process(ctx, id)
	stageLatency.WithLabelValues(stageProcess).Observe(time.Since(start).Seconds())
	observeResult(stageProcess, err)

	logger := logging.WithFields(ctx, "session_id", id)
	if err != nil {
		logger.Warn("processing failed", "error", err)
		return nil, err
	}
	logger.Info("file processed", "changed_cells", sess.Changed, "rows", len(sess.Normalized.Records))
	return sess, nil
}

func (s *Service) process(ctx context.Context, id string) (*Session, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	if sess.Processed() {
		return sess, nil
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	normalized, changed, err := normalizeStage(sess.Parsed)
	if err != nil {
		return nil, err
	}

	next := sess.withNormalized(normalized, changed)
	if !s.sessions.Swap(sess, next) {
		// Replaced or discarded while we were working.
		return nil, ErrSessionNotFound
	}
	cellsChangedTotal.Add(float64(changed))
	return next, nil
}

// Export serializes a processed session in the configured output encoding.
func (s *Service) Export(ctx context.Context, id string) (*Export, error) {
	start := time.Now()
	exp, err := s.export(ctx, id)
	stageLatency.WithLabelValues(stageExport).Observe(time.Since(start).Seconds())
	observeResult(stageExport, err)

	logger := logging.WithFields(ctx, "session_id", id)
	if err != nil {
		logger.Warn("export failed", "error", err)
		return nil, err
	}
	logger.Info("file exported", "output", exp.FileName, "bytes", len(exp.Content))
	return exp, nil
}

func (s *Service) export(ctx context.Context, id string) (*Export, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	if !sess.Processed() {
		return nil, ErrNotProcessed
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	text, err := serializeStage(sess.Normalized)
	if err != nil {
		return nil, err
	}

	content, charset, err := Encode(text, s.outputEncoding)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}

	return &Export{
		FileName:    OutputFileName(sess.FileName),
		Content:     content,
		ContentType: "text/csv; charset=" + charset,
	}, nil
}

// Replace discards the session oldID, then loads a new file. The old session
// is gone even when the new file is rejected.
func (s *Service) Replace(ctx context.Context, oldID, fileName string, r io.Reader) (*Session, error) {
	s.Discard(oldID)
	return s.Load(ctx, fileName, r)
}

// Session returns the stored session with the given ID.
func (s *Service) Session(id string) (*Session, error) {
	return s.sessions.Get(id)
}

// Discard drops a session. Unknown IDs are ignored.
func (s *Service) Discard(id string) {
	if id == "" {
		return
	}
	s.sessions.Delete(id)
	activeSessions.Set(float64(s.sessions.Len()))
}

// LimiterStatus returns the current state of the run limiter.
func (s *Service) LimiterStatus() LimiterStatus {
	return s.limiter.Status()
}

// WaitForRuns blocks until in-flight runs finish or ctx is done.
func (s *Service) WaitForRuns(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// readAllLimited reads r fully, failing with ErrFileTooLarge past max bytes.
// A non-positive max disables the limit.
func readAllLimited(r io.Reader, max int64) ([]byte, error) {
	if max <= 0 {
		raw, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read upload: %w", err)
		}
		return raw, nil
	}

	raw, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(raw)) > max {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrFileTooLarge, max)
	}
	return raw, nil
}
