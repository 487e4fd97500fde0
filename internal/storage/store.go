package storage

import (
	"context"
	"errors"

	"github.com/yndnr/microbench/internal/core/domain"
	"github.com/yndnr/microbench/internal/storage/codec"
	"github.com/yndnr/microbench/internal/telemetry/logger"
)

// Store reads and writes typed results on top of a Backend and owns the
// current/old rotation.
//
// Errors carry domain codes: MB-STOR-4040 when a slot is empty, MB-DATA-4220
// when a slot fails to decode, MB-STOR-5000 for backend failures.
type Store struct {
	backend Backend
	logger  logger.Logger
}

// NewStore wraps backend.
func NewStore(backend Backend, l logger.Logger) *Store {
	if l == nil {
		l = logger.Default()
	}
	return &Store{backend: backend, logger: l}
}

// Backend returns the underlying backend.
func (s *Store) Backend() Backend {
	return s.backend
}

// WriteSampling rotates the current sample slot of label to old and stores d
// as the new current.
func (s *Store) WriteSampling(ctx context.Context, label string, d *domain.SamplingData) error {
	buf, err := codec.EncodeSampling(d)
	if err != nil {
		return domain.ErrMalformedData.WithDetails(label).WithCause(err)
	}
	return s.write(ctx, label, CurrentSample, OldSample, buf)
}

// ReadSampling returns the current sampling data of label.
func (s *Store) ReadSampling(ctx context.Context, label string) (*domain.SamplingData, error) {
	return s.readSampling(ctx, label, CurrentSample)
}

// ReadOldSampling returns the rotated-out sampling data of label.
func (s *Store) ReadOldSampling(ctx context.Context, label string) (*domain.SamplingData, error) {
	return s.readSampling(ctx, label, OldSample)
}

// WriteTiming rotates the current results slot of label to old and stores t
// as the new current.
func (s *Store) WriteTiming(ctx context.Context, label string, t domain.TimingData) error {
	return s.write(ctx, label, CurrentResults, OldResults, codec.EncodeTiming(t))
}

// ReadTiming returns the current timing data of label.
func (s *Store) ReadTiming(ctx context.Context, label string) (domain.TimingData, error) {
	return s.readTiming(ctx, label, CurrentResults)
}

// ReadOldTiming returns the rotated-out timing data of label.
func (s *Store) ReadOldTiming(ctx context.Context, label string) (domain.TimingData, error) {
	return s.readTiming(ctx, label, OldResults)
}

// Labels lists every label with persisted results.
func (s *Store) Labels(ctx context.Context) ([]string, error) {
	labels, err := s.backend.Labels(ctx)
	if err != nil {
		return nil, domain.ErrStorageUnavailable.WithCause(err)
	}
	return labels, nil
}

// Delete removes every slot of label.
func (s *Store) Delete(ctx context.Context, label string) error {
	if err := s.backend.Delete(ctx, label); err != nil {
		return wrapBackendErr(label, err)
	}
	return nil
}

// Close closes the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

func (s *Store) write(ctx context.Context, label string, current, old Slot, buf []byte) error {
	if err := s.backend.Move(ctx, label, current, old); err != nil && !errors.Is(err, ErrNotFound) {
		s.logger.Warn("failed to rotate previous result, overwriting current",
			"label", label,
			"slot", string(current),
			"error", err,
		)
	}
	if err := s.backend.Write(ctx, label, current, buf); err != nil {
		return wrapBackendErr(label, err)
	}
	return nil
}

func (s *Store) read(ctx context.Context, label string, slot Slot) ([]byte, error) {
	buf, err := s.backend.Read(ctx, label, slot)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, domain.ErrNoResult.Detailf("%s/%s", label, slot).WithCause(err)
		}
		return nil, wrapBackendErr(label, err)
	}
	return buf, nil
}

func (s *Store) readSampling(ctx context.Context, label string, slot Slot) (*domain.SamplingData, error) {
	buf, err := s.read(ctx, label, slot)
	if err != nil {
		return nil, err
	}
	d, err := codec.DecodeSampling(buf)
	if err != nil {
		return nil, domain.ErrMalformedData.Detailf("%s/%s", label, slot).WithCause(err)
	}
	return d, nil
}

func (s *Store) readTiming(ctx context.Context, label string, slot Slot) (domain.TimingData, error) {
	buf, err := s.read(ctx, label, slot)
	if err != nil {
		return domain.TimingData{}, err
	}
	t, err := codec.DecodeTiming(buf)
	if err != nil {
		return domain.TimingData{}, domain.ErrMalformedData.Detailf("%s/%s", label, slot).WithCause(err)
	}
	return t, nil
}

// wrapBackendErr keeps label validation errors as they are and marks
// everything else as a storage failure.
func wrapBackendErr(label string, err error) error {
	if domain.IsDomainError(err, "") {
		return err
	}
	return domain.ErrStorageUnavailable.WithDetails(label).WithCause(err)
}
