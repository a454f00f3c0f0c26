package cache

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

// Storage keeps values under 64-bit keys. Failures are reported and read as
// a miss so a broken cache never fails an analysis.
type Storage interface {
	Save(h uint64, v interface{}) bool
	Load(h uint64, v interface{}) bool
	SaveRaw(h uint64, r *bytes.Buffer) bool
	LoadRaw(h uint64, w *bytes.Buffer) bool
}

const ext = ".json"

// FileStorage stores one jsoniter document per key in dir.
type FileStorage struct {
	dir string
	ttl time.Duration

	savingLock sync.RWMutex
	saving     map[uint64]struct{}
}

// NewStorage opens dir, wiping it first when the content of sources changed
// since the last run. A zero ttl keeps entries until the sources change.
func NewStorage(dir string, ttl time.Duration, sources ...fs.FS) (*FileStorage, error) {
	err := os.MkdirAll(dir, 0700)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if len(sources) > 0 {
		err = cleanUpWithHash(dir, sources...)
		if err != nil {
			return nil, err
		}
	}

	return &FileStorage{
		dir:    dir,
		ttl:    ttl,
		saving: make(map[uint64]struct{}, 32),
	}, nil
}

func (s *FileStorage) path(h uint64) string {
	return filepath.Join(s.dir, fmt.Sprintf("%016x%s", h, ext))
}

func (s *FileStorage) lock(h uint64) bool {
	s.savingLock.Lock()
	defer s.savingLock.Unlock()

	_, ok := s.saving[h]
	if !ok {
		s.saving[h] = struct{}{}
	}
	return !ok
}

func (s *FileStorage) unlock(h uint64) {
	s.savingLock.Lock()
	defer s.savingLock.Unlock()

	delete(s.saving, h)
}

func (s *FileStorage) isSaving(h uint64) bool {
	s.savingLock.RLock()
	defer s.savingLock.RUnlock()

	_, ok := s.saving[h]
	return ok
}

func (s *FileStorage) expired(fi fs.FileInfo, now time.Time) bool {
	return s.ttl > 0 && now.Sub(fi.ModTime()) > s.ttl
}

func (s *FileStorage) save(h uint64, write func(w io.Writer) error) bool {
	if !s.lock(h) {
		return false
	}
	defer s.unlock(h)

	f, err := os.CreateTemp(s.dir, "tmp-*")
	if err != nil {
		sentry.CaptureException(err)
		return false
	}
	tmp := f.Name()

	err = write(f)
	if err == nil {
		err = f.Close()
	} else {
		f.Close()
	}
	if err == nil {
		err = os.Rename(tmp, s.path(h))
	}
	if err != nil {
		sentry.CaptureException(err)
		fmt.Printf("%+v\n", errors.WithStack(err))
		os.Remove(tmp)
		return false
	}

	return true
}

func (s *FileStorage) load(h uint64, read func(r io.Reader) error) bool {
	if s.isSaving(h) {
		return false
	}

	path := s.path(h)
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return false
	}
	if s.expired(fi, time.Now()) {
		f.Close()
		os.Remove(path)
		return false
	}

	err = read(f)
	if err != nil {
		sentry.CaptureException(err)
		return false
	}
	return true
}

func (s *FileStorage) Save(h uint64, v interface{}) bool {
	return s.save(h, func(w io.Writer) error {
		return jsoniter.NewEncoder(w).Encode(v)
	})
}

func (s *FileStorage) Load(h uint64, v interface{}) bool {
	return s.load(h, func(r io.Reader) error {
		return jsoniter.NewDecoder(r).Decode(v)
	})
}

func (s *FileStorage) SaveRaw(h uint64, r *bytes.Buffer) bool {
	return s.save(h, func(w io.Writer) error {
		_, err := w.Write(r.Bytes())
		return err
	})
}

func (s *FileStorage) LoadRaw(h uint64, w *bytes.Buffer) bool {
	return s.load(h, func(r io.Reader) error {
		_, err := w.ReadFrom(r)
		return err
	})
}

// Purge removes expired entries and leftovers of interrupted saves.
func (s *FileStorage) Purge() (int, error) {
	now := time.Now()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, errors.WithStack(err)
	}

	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()

		switch {
		case strings.HasPrefix(name, "tmp-"):
		case strings.HasSuffix(name, ext):
			fi, err := e.Info()
			if err != nil || !s.expired(fi, now) {
				continue
			}
		default:
			continue
		}

		err = os.Remove(filepath.Join(s.dir, name))
		if err != nil && !os.IsNotExist(err) {
			return removed, errors.WithStack(err)
		}
		removed++
	}

	return removed, nil
}
