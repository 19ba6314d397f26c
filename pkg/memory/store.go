package memory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"
	"gopkg.in/yaml.v3"
)

// errNoChange is returned by a mutation function to signal that the
// document needs no write: no revision bump, no timestamp, no file IO.
var errNoChange = errors.New("memory: no change")

// Store provides serialized access to one memory document on the local
// filesystem. Every mutating call is a single read-modify-write cycle
// under an exclusive OS advisory lock on a sidecar <path>.lock file;
// readers take a shared lock so they always see a consistent snapshot.
//
// The logical work lock (Current) is independent of the file lock: the
// file lock protects single microsecond-scale document writes, the work
// lock protects a feature for the minutes a worker spends on it.
type Store struct {
	path   string
	logger *slog.Logger
	now    func() time.Time
}

// NewStore creates a store for the document at path. A nil logger
// disables logging.
func NewStore(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{
		path:   path,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Path returns the document location this store operates on.
func (s *Store) Path() string {
	return s.path
}

// lockFilePath is the sidecar advisory-lock file. The lock is taken on
// a sidecar rather than the document itself because saves replace the
// document inode via rename.
func (s *Store) lockFilePath() string {
	return s.path + ".lock"
}

// acquireFlock takes an advisory lock (unix.LOCK_EX or unix.LOCK_SH)
// and returns a release function. The call blocks until the lock is
// available; document writes complete in milliseconds so contention is
// short-lived.
func (s *Store) acquireFlock(how int) (release func(), err error) {
	f, err := os.OpenFile(s.lockFilePath(), os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}
	if err := unix.Flock(int(f.Fd()), how); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to acquire file lock: %w", err)
	}
	return func() {
		unix.Flock(int(f.Fd()), unix.LOCK_UN)
		f.Close()
	}, nil
}

// load reads and parses the document without taking any lock. Callers
// hold the appropriate flock.
func (s *Store) load() (*Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: s.path}
		}
		return nil, fmt.Errorf("failed to read memory document: %w", err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse memory document %s: %w", s.path, err)
	}
	if doc.Tried == nil {
		doc.Tried = map[string][]Attempt{}
	}
	if doc.Metadata == nil {
		doc.Metadata = map[string]string{}
	}
	return &doc, nil
}

// save writes the document atomically: marshal to a temp file in the
// same directory, fsync, then rename over the target. A crashed writer
// leaves the previous document intact.
func (s *Store) save(doc *Document) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to serialize memory document: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".memory-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace memory document: %w", err)
	}
	return nil
}

// Load returns a snapshot of the document under a shared lock.
// Returns NotFoundError if no document exists at the store's path.
func (s *Store) Load() (*Document, error) {
	release, err := s.acquireFlock(unix.LOCK_SH)
	if err != nil {
		return nil, err
	}
	defer release()
	return s.load()
}

// mutate runs one read-modify-write cycle under the exclusive file
// lock. If fn returns an error nothing is written, so a failed
// operation never partially mutates the document. The on-disk revision
// is re-checked before the write to catch writers that bypassed the
// advisory lock.
func (s *Store) mutate(op string, fn func(*Document) error) (*Document, error) {
	release, err := s.acquireFlock(unix.LOCK_EX)
	if err != nil {
		return nil, err
	}
	defer release()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	loadedRevision := doc.Revision

	if err := fn(doc); err != nil {
		if errors.Is(err, errNoChange) {
			return doc, nil
		}
		return nil, err
	}

	onDisk, err := s.load()
	if err != nil {
		return nil, err
	}
	if onDisk.Revision != loadedRevision {
		return nil, &RevisionConflictError{Expected: loadedRevision, Found: onDisk.Revision}
	}

	doc.Touch(s.now())
	doc.RebuildTried()

	if err := s.save(doc); err != nil {
		return nil, err
	}

	s.logger.Debug("memory document updated",
		slog.String("op", op),
		slog.Int64("revision", doc.Revision),
		slog.String("path", s.path))
	return doc, nil
}

// create writes a brand-new document under the exclusive file lock.
// Fails with AlreadyExistsError if a document is already present, and
// writes nothing in that case.
func (s *Store) create(op string, build func(now time.Time) (*Document, error)) (*Document, error) {
	release, err := s.acquireFlock(unix.LOCK_EX)
	if err != nil {
		return nil, err
	}
	defer release()

	if _, err := os.Stat(s.path); err == nil {
		return nil, &AlreadyExistsError{Path: s.path}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to stat %s: %w", s.path, err)
	}

	now := s.now()
	doc, err := build(now)
	if err != nil {
		return nil, err
	}
	doc.Touch(now)
	doc.RebuildTried()

	if err := s.save(doc); err != nil {
		return nil, err
	}

	s.logger.Info("memory document created",
		slog.String("op", op),
		slog.String("path", s.path))
	return doc, nil
}

// Init creates a fresh, empty document for the given goal.
func (s *Store) Init(goal string) (*Document, error) {
	return s.create("init", func(now time.Time) (*Document, error) {
		doc := NewDocument(goal, now)
		doc.Log = append(doc.Log, LogEntry{
			Timestamp: now,
			Agent:     "warren",
			Action:    "initialized",
			Result:    "created empty memory document",
		})
		return doc, nil
	})
}

// AddFeature appends a feature to the document. The feature's status
// defaults to untested; a priority of 0 is replaced with one past the
// current highest so new work schedules last by default.
func (s *Store) AddFeature(feature *Feature) (*Document, error) {
	return s.mutate("add-feature", func(doc *Document) error {
		if feature.Status == "" {
			feature.Status = StatusUntested
		}
		if err := feature.Validate(); err != nil {
			return err
		}
		if doc.Feature(feature.ID) != nil {
			return &DuplicateFeatureError{FeatureID: feature.ID}
		}
		// A dangling dependency can never be scheduled, so refuse it
		// here instead of letting validate discover it later.
		for _, depID := range feature.Dependencies {
			if doc.Feature(depID) == nil {
				return fmt.Errorf("feature %s depends on unknown feature %s: add dependencies first", feature.ID, depID)
			}
		}
		if feature.Priority == 0 {
			highest := 0
			for _, f := range doc.Features {
				if f.Priority > highest {
					highest = f.Priority
				}
			}
			feature.Priority = highest + 1
		}
		doc.Features = append(doc.Features, feature)
		return nil
	})
}

// Lock acquires the single work lock for the given feature and moves it
// to in_progress. Fails with AlreadyLockedError when another feature is
// held, FeatureNotFoundError when the ID is unknown, and
// InvalidTransitionError when the feature's status does not allow work
// to start (passing or blocked features must be re-opened first).
func (s *Store) Lock(featureID, agent string) (*Document, error) {
	return s.mutate("lock", func(doc *Document) error {
		if doc.Current.Status == LockWorking {
			return &AlreadyLockedError{FeatureID: doc.Current.FeatureID, Owner: doc.Current.Owner}
		}
		feature := doc.Feature(featureID)
		if feature == nil {
			return &FeatureNotFoundError{FeatureID: featureID}
		}
		if !CanTransition(feature.Status, StatusInProgress) {
			return &InvalidTransitionError{FeatureID: featureID, From: feature.Status, To: StatusInProgress}
		}

		now := s.now()
		doc.Current = Current{
			FeatureID: featureID,
			StartedAt: &now,
			Status:    LockWorking,
			Owner:     agent,
			OwnerPID:  os.Getpid(),
			LockID:    uuid.New().String(),
		}
		feature.Status = StatusInProgress
		return nil
	})
}

// Unlock releases the work lock unconditionally. It never changes the
// feature's status: the worker must have already written the final
// outcome via UpdateStatus.
func (s *Store) Unlock() (*Document, error) {
	return s.mutate("unlock", func(doc *Document) error {
		doc.Current = Current{Status: LockIdle}
		return nil
	})
}

// UnlockIfStale releases the work lock only when it has been held
// longer than the threshold, so out-of-band recovery cannot evict a
// live worker. Releasing an idle lock is a no-op and writes nothing.
func (s *Store) UnlockIfStale(threshold time.Duration) (*Document, error) {
	return s.mutate("unlock-if-stale", func(doc *Document) error {
		if doc.Current.Status != LockWorking {
			return errNoChange
		}
		age := time.Duration(0)
		if doc.Current.StartedAt != nil {
			age = s.now().Sub(*doc.Current.StartedAt)
		}
		if age < threshold {
			return &LockNotStaleError{
				FeatureID: doc.Current.FeatureID,
				Owner:     doc.Current.Owner,
				Age:       age,
				Threshold: threshold,
			}
		}
		s.logger.Warn("evicting stale lock",
			slog.String("feature_id", doc.Current.FeatureID),
			slog.String("owner", doc.Current.Owner),
			slog.Duration("age", age))
		doc.Current = Current{Status: LockIdle}
		return nil
	})
}

// UpdateStatus changes a feature's status, enforcing the transition
// table, and overwrites its last_attempt record with the new outcome.
func (s *Store) UpdateStatus(featureID string, to Status, agent, errMsg string) (*Document, error) {
	return s.mutate("update-status", func(doc *Document) error {
		if err := to.Validate(); err != nil {
			return err
		}
		feature := doc.Feature(featureID)
		if feature == nil {
			return &FeatureNotFoundError{FeatureID: featureID}
		}
		if !CanTransition(feature.Status, to) {
			return &InvalidTransitionError{FeatureID: featureID, From: feature.Status, To: to}
		}

		feature.Status = to
		feature.LastAttempt = &AttemptOutcome{
			Timestamp: s.now(),
			Agent:     agent,
			Result:    string(to),
			Error:     errMsg,
		}
		return nil
	})
}

// RecordTried appends one (approach, result) attempt to the feature's
// history as a single document write. The top-level tried index is
// rebuilt from the same data on save, so both views always agree.
func (s *Store) RecordTried(featureID, approach, result string) (*Document, error) {
	return s.mutate("record-tried", func(doc *Document) error {
		feature := doc.Feature(featureID)
		if feature == nil {
			return &FeatureNotFoundError{FeatureID: featureID}
		}
		feature.Attempts = append(feature.Attempts, Attempt{
			Approach:  approach,
			Result:    result,
			Timestamp: s.now(),
		})
		return nil
	})
}

// AppendLog adds one entry to the audit log. No size cap or redaction
// is applied at this layer; callers keep secrets out of messages.
func (s *Store) AppendLog(agent, action, result, featureID string) (*Document, error) {
	return s.mutate("append-log", func(doc *Document) error {
		if featureID != "" && doc.Feature(featureID) == nil {
			return &FeatureNotFoundError{FeatureID: featureID}
		}
		doc.Log = append(doc.Log, LogEntry{
			Timestamp: s.now(),
			Agent:     agent,
			Action:    action,
			Result:    result,
			FeatureID: featureID,
		})
		return nil
	})
}

// RecordTests writes the normalized aggregate test counters. Parsing
// framework-specific runner output into these numbers is the caller's
// adapter, never this package.
func (s *Store) RecordTests(passing, failing int, command string) (*Document, error) {
	return s.mutate("record-tests", func(doc *Document) error {
		if passing < 0 || failing < 0 {
			return fmt.Errorf("test counters cannot be negative: passing=%d failing=%d", passing, failing)
		}
		now := s.now()
		doc.Tests = TestStats{
			Passing: passing,
			Failing: failing,
			LastRun: &now,
			Command: command,
		}
		return nil
	})
}
