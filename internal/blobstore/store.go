// Package blobstore persists base64 image payloads as files grouped by namespace
// and hands back the relative reference that database rows point at.
package blobstore

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/SundayYogurt/bachelor-point/internal/domain"
	"github.com/SundayYogurt/bachelor-point/pkg/metrics"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const (
	fileExt      = ".png"
	createTries  = 3
	suffixLength = 12
)

var dataURIPrefix = regexp.MustCompile(`^data:image/[\w.+-]+;base64,`)

// IsEncoded reports whether v is a data URI rather than a stored reference.
func IsEncoded(v string) bool {
	return strings.HasPrefix(v, "data:image/")
}

type Store struct {
	fs      afero.Fs
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// New wraps fs; references are paths relative to its root.
func New(fs afero.Fs, logger *zap.Logger, m *metrics.Metrics) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{fs: fs, logger: logger, metrics: m}
}

// NewOnDisk roots the store at dir, creating it if needed.
func NewOnDisk(dir string, logger *zap.Logger, m *metrics.Metrics) (*Store, error) {
	if dir == "" {
		return nil, errors.New("upload directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return New(afero.NewBasePathFs(afero.NewOsFs(), dir), logger, m), nil
}

// Store decodes payload and writes it under ns. The returned reference has the
// form "<namespace>/<unix-millis>-<random>.png" whatever the source format was.
func (s *Store) Store(ctx context.Context, payload string, ns Namespace) (string, error) {
	if !ns.Valid() {
		return "", fmt.Errorf("%w: unknown namespace %q", domain.ErrIO, ns)
	}

	data, err := decode(payload)
	if err != nil {
		return "", err
	}

	if err := s.fs.MkdirAll(ns.String(), 0o755); err != nil {
		return "", fmt.Errorf("%w: create %s: %v", domain.ErrIO, ns, err)
	}

	for attempt := 0; attempt < createTries; attempt++ {
		name := fileName(time.Now())
		ref := path.Join(ns.String(), name)

		f, err := s.fs.OpenFile(filepath.FromSlash(ref), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrIO, err)
		}

		_, werr := f.Write(data)
		cerr := f.Close()
		if werr == nil {
			werr = cerr
		}
		if werr != nil {
			_ = s.fs.Remove(filepath.FromSlash(ref))
			return "", fmt.Errorf("%w: %v", domain.ErrIO, werr)
		}

		s.metrics.ObserveBlobStored(ns.String())
		s.logger.Debug("blob stored", zap.String("ref", ref), zap.Int("bytes", len(data)))
		return ref, nil
	}

	return "", fmt.Errorf("%w: could not allocate a unique file name in %s", domain.ErrIO, ns)
}

// Resolve stores value when it is a data URI and otherwise accepts it unchanged,
// provided it names an existing blob inside ns.
func (s *Store) Resolve(ctx context.Context, value string, ns Namespace) (string, error) {
	if IsEncoded(value) {
		return s.Store(ctx, value, ns)
	}
	refNS, ok := namespaceOf(value)
	if !ok || refNS != ns || !s.Exists(value) {
		return "", fmt.Errorf("%w: unknown image reference %q", domain.ErrValidation, value)
	}
	return value, nil
}

// Exists reports whether ref names a stored blob.
func (s *Store) Exists(ref string) bool {
	if _, ok := namespaceOf(ref); !ok {
		return false
	}
	ok, err := afero.Exists(s.fs, filepath.FromSlash(ref))
	return err == nil && ok
}

// Remove deletes ref. Failures are logged and swallowed so a compensating
// delete never replaces the error that triggered it.
func (s *Store) Remove(ctx context.Context, ref string) {
	ns, ok := namespaceOf(ref)
	if !ok {
		s.logger.Warn("refusing to remove blob outside the store namespaces", zap.String("ref", ref))
		return
	}
	if err := s.fs.Remove(filepath.FromSlash(ref)); err != nil {
		s.metrics.ObserveBlobRemoved(ns.String(), false)
		s.logger.Warn("blob remove failed", zap.String("ref", ref), zap.Error(err))
		return
	}
	s.metrics.ObserveBlobRemoved(ns.String(), true)
	s.logger.Debug("blob removed", zap.String("ref", ref))
}

// FileSystem exposes ns read-only for static serving.
func (s *Store) FileSystem(ns Namespace) http.FileSystem {
	return afero.NewHttpFs(afero.NewReadOnlyFs(s.fs)).Dir(ns.String())
}

func decode(payload string) ([]byte, error) {
	raw := dataURIPrefix.ReplaceAllString(strings.TrimSpace(payload), "")
	raw = strings.Join(strings.Fields(raw), "")
	if raw == "" {
		return nil, fmt.Errorf("%w: empty payload", domain.ErrDecode)
	}

	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		// tolerate missing padding
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(raw, "="))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", domain.ErrDecode)
	}
	return data, nil
}

func fileName(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:suffixLength]
	return fmt.Sprintf("%d-%s%s", now.UnixMilli(), suffix, fileExt)
}

// namespaceOf validates ref as "<namespace>/<file>" and returns its namespace.
func namespaceOf(ref string) (Namespace, bool) {
	if ref == "" || path.Clean(ref) != ref || strings.Contains(ref, "\\") {
		return "", false
	}
	dir, file := path.Split(ref)
	if file == "" || file == "." || file == ".." || strings.HasPrefix(file, ".") {
		return "", false
	}
	ns := Namespace(strings.TrimSuffix(dir, "/"))
	if !ns.Valid() {
		return "", false
	}
	return ns, true
}
