package employeerecord

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"regexp"
	"time"

	"github.com/itou/backend/internal/domain/employeerecord"
	"github.com/itou/backend/internal/infrastructure/logger"
	"github.com/itou/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ExchangeStore stores the files exchanged with the ASP
type ExchangeStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	List(ctx context.Context, prefix string) ([]string, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
}

// ExchangeConfig locates the exchange files
type ExchangeConfig struct {
	OutPrefix string
	InPrefix  string
	// ErrorPrefix receives the replies that could not be applied
	ErrorPrefix string
	BatchSize   int
}

// maxNameAttempts bounds the search for an unused batch file name
const maxNameAttempts = 60

var replyBatchName = regexp.MustCompile(`RIAE_FS_\d{14}`)

// ExchangeService uploads READY records to the ASP and applies its replies
type ExchangeService struct {
	records employeerecord.Repository
	store   ExchangeStore
	config  ExchangeConfig
	events  *Service
	metrics *telemetry.ExchangeMetrics
	now     func() time.Time
}

// NewExchangeService creates a new ExchangeService. Events of the records
// it updates are published through svc.
func NewExchangeService(records employeerecord.Repository, store ExchangeStore, cfg ExchangeConfig, svc *Service) *ExchangeService {
	if cfg.BatchSize <= 0 || cfg.BatchSize > employeerecord.MaxBatchSize {
		cfg.BatchSize = employeerecord.MaxBatchSize
	}
	return &ExchangeService{
		records: records,
		store:   store,
		config:  cfg,
		events:  svc,
		metrics: telemetry.GlobalExchangeMetrics(),
		now:     time.Now,
	}
}

// ExportReady uploads every READY record, BatchSize per file, and marks the
// uploaded records SENT. File names are one second apart; a name already
// used by an earlier run is skipped.
func (s *ExchangeService) ExportReady(ctx context.Context) (results []ExportResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "employee_record", "export_ready")
	defer func() { telemetry.EndSpan(span, err) }()

	at := s.now()
	for {
		result, used, err := s.exportBatch(ctx, at)
		if err != nil {
			return results, err
		}
		if result == nil {
			return results, nil
		}
		results = append(results, *result)
		at = used.Add(time.Second)
	}
}

// freeBatchName returns the first batch name from at onwards that neither
// the store nor a record already uses
func (s *ExchangeService) freeBatchName(ctx context.Context, at time.Time) (string, time.Time, error) {
	for range maxNameAttempts {
		name := employeerecord.BatchFileName(at)
		exists, err := s.store.Exists(ctx, batchKey(s.config.OutPrefix, name))
		if err != nil {
			return "", at, err
		}
		if !exists {
			sent, err := s.records.FindByBatchFile(ctx, name)
			if err != nil {
				return "", at, err
			}
			if len(sent) == 0 {
				return name, at, nil
			}
		}
		logger.L(ctx).Warn("Batch file name already used", zap.String("file", name))
		at = at.Add(time.Second)
	}
	return "", at, fmt.Errorf("no free batch file name after %d attempts", maxNameAttempts)
}

func (s *ExchangeService) exportBatch(ctx context.Context, at time.Time) (*ExportResult, time.Time, error) {
	ready, err := s.records.FindReady(ctx, s.config.BatchSize)
	if err != nil {
		return nil, at, err
	}
	if len(ready) == 0 {
		return nil, at, nil
	}

	name, at, err := s.freeBatchName(ctx, at)
	if err != nil {
		return nil, at, err
	}
	batch := BatchFile{Lignes: make([]EmployeeRecordResponse, 0, len(ready))}
	updated := make([]*employeerecord.EmployeeRecord, 0, len(ready))
	for i := range ready {
		rec := &ready[i]
		if err := rec.UpdateAsSent(name, i+1); err != nil {
			return nil, at, err
		}
		batch.Lignes = append(batch.Lignes, ToResponse(rec))
		updated = append(updated, rec)
	}

	body, err := json.Marshal(batch)
	if err != nil {
		return nil, at, fmt.Errorf("failed to encode batch %s: %w", name, err)
	}
	key := batchKey(s.config.OutPrefix, name)
	if err := s.store.Put(ctx, key, body, "application/json"); err != nil {
		return nil, at, fmt.Errorf("failed to upload batch %s: %w", name, err)
	}

	if err := s.records.SaveAll(ctx, updated); err != nil {
		// Without the SENT status the file must not reach the agency. The
		// key was free before this upload so the object is ours to remove.
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			logger.L(ctx).Error("Failed to remove orphan batch file", zap.String("key", key), zap.Error(delErr))
		}
		return nil, at, err
	}
	s.events.publish(ctx, updated...)
	s.metrics.BatchExported(ctx, len(updated))

	logger.L(ctx).Info("Employee records batch uploaded",
		zap.String("file", name),
		zap.Int("lines", len(updated)),
	)
	return &ExportResult{FileName: name, Key: key, Lines: len(updated)}, at, nil
}

// ProcessReply applies an agency reply. filename is the reply file name,
// which embeds the name of the batch it answers.
func (s *ExchangeService) ProcessReply(ctx context.Context, filename string, body []byte) (result *ReplyResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "employee_record", "process_reply",
		attribute.String("file", filename))
	defer func() { telemetry.EndSpan(span, err) }()

	match := replyBatchName.FindString(path.Base(filename))
	if match == "" {
		return nil, fmt.Errorf("reply file %q does not reference a batch file", filename)
	}
	batchName := match + ".json"

	var reply ReplyFile
	if err := json.Unmarshal(body, &reply); err != nil {
		return nil, fmt.Errorf("failed to decode reply %s: %w", filename, err)
	}

	sent, err := s.records.FindByBatchFile(ctx, batchName)
	if err != nil {
		return nil, err
	}
	byLine := make(map[int]*employeerecord.EmployeeRecord, len(sent))
	for i := range sent {
		byLine[sent[i].BatchLine] = &sent[i]
	}

	log := logger.L(ctx).With(zap.String("batch_file", batchName))
	result = &ReplyResult{BatchFile: batchName}
	var updated []*employeerecord.EmployeeRecord
	for _, raw := range reply.Lignes {
		var line ReplyLine
		if err := json.Unmarshal(raw, &line); err != nil {
			return nil, fmt.Errorf("failed to decode reply line: %w", err)
		}
		if line.NumLigne == nil {
			log.Warn("Reply line without line number skipped")
			result.Skipped++
			continue
		}
		rec, ok := byLine[*line.NumLigne]
		if !ok {
			log.Warn("Reply line does not match a sent record", zap.Int("line", *line.NumLigne))
			result.Skipped++
			continue
		}

		if line.CodeTraitement == employeerecord.ProcessingCodeSuccess {
			err = rec.UpdateAsAccepted(line.CodeTraitement, line.LibelleTraitement, compactJSON(raw))
			result.Accepted++
		} else {
			err = rec.UpdateAsRejected(line.CodeTraitement, line.LibelleTraitement)
			result.Rejected++
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", *line.NumLigne, err)
		}
		updated = append(updated, rec)
	}

	if err := s.records.SaveAll(ctx, updated); err != nil {
		return nil, err
	}
	s.events.publish(ctx, updated...)
	s.metrics.ReplyApplied(ctx, result.Accepted, result.Rejected, result.Skipped)

	log.Info("Agency reply processed",
		zap.Int("accepted", result.Accepted),
		zap.Int("rejected", result.Rejected),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

// ProcessPendingReplies applies every reply waiting in the input prefix and
// removes each file once applied. A reply that cannot be applied is moved to
// the error prefix and the others are still processed; the returned error
// joins every failure.
func (s *ExchangeService) ProcessPendingReplies(ctx context.Context) ([]ReplyResult, error) {
	keys, err := s.store.List(ctx, s.config.InPrefix)
	if err != nil {
		return nil, err
	}

	var results []ReplyResult
	var errs []error
	for _, key := range keys {
		body, err := s.store.Get(ctx, key)
		if err != nil {
			errs = append(errs, fmt.Errorf("reply %s: %w", key, err))
			continue
		}
		result, err := s.ProcessReply(ctx, key, body)
		if err != nil {
			logger.L(ctx).Error("Failed to apply agency reply", zap.String("key", key), zap.Error(err))
			errs = append(errs, fmt.Errorf("reply %s: %w", key, err))
			s.metrics.ReplyFailed(ctx)
			if qErr := s.quarantine(ctx, key, body); qErr != nil {
				errs = append(errs, qErr)
			}
			continue
		}
		if err := s.store.Delete(ctx, key); err != nil {
			errs = append(errs, fmt.Errorf("reply %s: %w", key, err))
		}
		results = append(results, *result)
	}
	return results, errors.Join(errs...)
}

// quarantine moves a reply out of the input prefix so it is not replayed
func (s *ExchangeService) quarantine(ctx context.Context, key string, body []byte) error {
	target := s.config.ErrorPrefix + path.Base(key)
	if err := s.store.Put(ctx, target, body, "application/json"); err != nil {
		return fmt.Errorf("failed to move reply %s aside: %w", key, err)
	}
	if err := s.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to remove reply %s: %w", key, err)
	}
	logger.L(ctx).Warn("Agency reply moved aside", zap.String("key", key), zap.String("target", target))
	return nil
}

func compactJSON(raw []byte) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
