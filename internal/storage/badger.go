package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/dgraph-io/badger/v3"

	"github.com/yndnr/microbench/internal/core/domain"
	"github.com/yndnr/microbench/internal/telemetry/logger"
)

// keySep joins label and slot. Valid labels never contain it.
const keySep = '/'

// BadgerBackend stores slots in an embedded Badger database under the key
// "<label>/<slot>".
type BadgerBackend struct {
	db     *badger.DB
	logger logger.Logger
	closed atomic.Bool
}

var _ Backend = (*BadgerBackend)(nil)

// NewBadgerBackend opens or creates a Badger database in dir.
func NewBadgerBackend(dir string, o options) (*BadgerBackend, error) {
	if dir == "" {
		return nil, fmt.Errorf("badger: dir is required")
	}

	opts := badger.DefaultOptions(dir)
	opts.Logger = &badgerLogger{logger: o.logger}
	opts.SyncWrites = o.syncWrites
	opts.NumVersionsToKeep = 1
	// Slots are a few kilobytes; the 1GB default value log is wasted here.
	opts.ValueLogFileSize = 16 << 20

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: open db: %w", err)
	}

	o.logger.Debug("badger backend opened", "dir", dir)
	return &BadgerBackend{db: db, logger: o.logger}, nil
}

func slotKey(label string, slot Slot) []byte {
	key := make([]byte, 0, len(label)+1+len(slot))
	key = append(key, label...)
	key = append(key, keySep)
	return append(key, slot...)
}

func (b *BadgerBackend) check(label string) error {
	if b.closed.Load() {
		return ErrClosed
	}
	return domain.ValidateLabel(label)
}

// Read returns the contents of a slot.
func (b *BadgerBackend) Read(_ context.Context, label string, slot Slot) ([]byte, error) {
	if err := b.check(label); err != nil {
		return nil, err
	}

	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(slotKey(label, slot))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("badger: read %s/%s: %w", label, slot, err)
	}
	return value, nil
}

// Write replaces the contents of a slot.
func (b *BadgerBackend) Write(_ context.Context, label string, slot Slot, data []byte) error {
	if err := b.check(label); err != nil {
		return err
	}
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(slotKey(label, slot), data)
	})
	if err != nil {
		return fmt.Errorf("badger: write %s/%s: %w", label, slot, err)
	}
	return nil
}

// Move copies slot from to slot to and deletes from in one transaction.
func (b *BadgerBackend) Move(_ context.Context, label string, from, to Slot) error {
	if err := b.check(label); err != nil {
		return err
	}
	err := b.db.Update(func(txn *badger.Txn) error {
		src := slotKey(label, from)
		item, err := txn.Get(src)
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		value, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		if err := txn.Set(slotKey(label, to), value); err != nil {
			return err
		}
		return txn.Delete(src)
	})
	if err != nil {
		return fmt.Errorf("badger: move %s/%s: %w", label, from, err)
	}
	return nil
}

// Labels lists every label with at least one slot.
func (b *BadgerBackend) Labels(_ context.Context) ([]string, error) {
	if b.closed.Load() {
		return nil, ErrClosed
	}

	var labels []string
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			key := it.Item().Key()
			i := bytes.LastIndexByte(key, keySep)
			if i <= 0 {
				continue
			}
			label := string(key[:i])
			if n := len(labels); n == 0 || labels[n-1] != label {
				labels = append(labels, label)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("badger: list labels: %w", err)
	}
	slices.Sort(labels)
	return slices.Compact(labels), nil
}

// Delete removes every slot of a label.
func (b *BadgerBackend) Delete(_ context.Context, label string) error {
	if err := b.check(label); err != nil {
		return err
	}
	err := b.db.Update(func(txn *badger.Txn) error {
		for _, slot := range Slots {
			if err := txn.Delete(slotKey(label, slot)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("badger: delete %s: %w", label, err)
	}
	return nil
}

// GC reclaims value log space left behind by deleted and rotated slots. It
// returns the number of value log files rewritten.
func (b *BadgerBackend) GC(discardRatio float64) (int, error) {
	if b.closed.Load() {
		return 0, ErrClosed
	}
	rewritten := 0
	for {
		err := b.db.RunValueLogGC(discardRatio)
		if err != nil {
			if errors.Is(err, badger.ErrNoRewrite) {
				break
			}
			return rewritten, fmt.Errorf("badger: gc: %w", err)
		}
		rewritten++
	}
	b.logger.Debug("badger gc completed", "rewritten", rewritten)
	return rewritten, nil
}

// Close flushes and closes the database.
func (b *BadgerBackend) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}
	if err := b.db.Close(); err != nil {
		return fmt.Errorf("badger: close db: %w", err)
	}
	return nil
}

// badgerLogger adapts logger.Logger to Badger's Logger interface. Badger's
// info chatter is demoted to debug.
type badgerLogger struct {
	logger logger.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
