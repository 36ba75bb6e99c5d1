package localstore

import (
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/pkg/errors"
)

const fileExt = ".json"

var keyRegex = regexp.MustCompile(`^[a-z0-9_]+$`)

// DirBackend stores each key in its own file under `dir`.
// Writes go through a temporary file renamed into place.
type DirBackend struct {
	mutex sync.RWMutex
	dir   string
	quota int64 // 0: unlimited
}

var _ Backend = (*DirBackend)(nil)

func NewDirBackend(dir string, quota int) (*DirBackend, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrap(err, "creating storage dir")
	}
	return &DirBackend{dir: dir, quota: int64(quota)}, nil
}

func (b *DirBackend) path(key string) (string, error) {
	if !keyRegex.MatchString(key) {
		return "", errors.Errorf("invalid key %q", key)
	}
	return filepath.Join(b.dir, key+fileExt), nil
}

func (b *DirBackend) Read(key string) ([]byte, error) {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	p, err := b.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if os.IsNotExist(err) {
		return nil, ErrNotExist
	}
	return data, errors.Wrap(err, "reading "+key)
}

func (b *DirBackend) Write(key string, data []byte) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	p, err := b.path(key)
	if err != nil {
		return err
	}
	if b.quota > 0 {
		used, err := b.usage(p)
		if err != nil {
			return err
		}
		if used+int64(len(data)) > b.quota {
			return ErrQuotaExceeded
		}
	}

	tmp, err := os.CreateTemp(b.dir, "."+key+"-*")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "writing "+key)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "syncing "+key)
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "closing "+key)
	}
	return errors.Wrap(os.Rename(tmp.Name(), p), "renaming "+key)
}

func (b *DirBackend) Delete(key string) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	p, err := b.path(key)
	if err != nil {
		return err
	}
	err = os.Remove(p)
	if os.IsNotExist(err) {
		return ErrNotExist
	}
	return errors.Wrap(err, "removing "+key)
}

// usage sums the size of the stored files, except `exclude`.
func (b *DirBackend) usage(exclude string) (int64, error) {
	matches, err := filepath.Glob(filepath.Join(b.dir, "*"+fileExt))
	if err != nil {
		return 0, errors.Wrap(err, "listing storage dir")
	}
	var used int64
	for _, m := range matches {
		if m == exclude {
			continue
		}
		fi, err := os.Stat(m)
		if err != nil {
			continue
		}
		used += fi.Size()
	}
	return used, nil
}
