package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/MrSnakeDoc/cookbook/internal/kv"
	"github.com/MrSnakeDoc/cookbook/internal/utils"
)

// Provider stores each key as one file inside a directory.
//
// Writes go to a temp file that is renamed over the target, so a reader
// never observes a half-written value.
type Provider struct {
	dir string
	mu  sync.Mutex
}

// New creates the directory if needed and returns a provider rooted there.
func New(dir string) (*Provider, error) {
	if dir == "" {
		return nil, errors.New("file provider: empty directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, kv.Unavailable("file provider mkdir", err)
	}
	return &Provider{dir: dir}, nil
}

// Path returns the file used for key.
func (p *Provider) Path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("file provider: invalid key %q", key)
	}
	return filepath.Join(p.dir, key+".json"), nil
}

func (p *Provider) Get(_ context.Context, key string) (string, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.read(key)
}

func (p *Provider) Set(_ context.Context, key, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.write(key, value)
}

// Update serializes read-modify-write cycles within this process.
func (p *Provider) Update(_ context.Context, key string, fn kv.UpdateFunc) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	cur, ok, err := p.read(key)
	if err != nil {
		return err
	}
	next, err := fn(cur, ok)
	if err != nil {
		return err
	}
	return p.write(key, next)
}

func (p *Provider) read(key string) (string, bool, error) {
	path, err := p.Path(key)
	if err != nil {
		return "", false, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, kv.Unavailable("file get", err)
	}
	return string(data), true, nil
}

func (p *Provider) write(key, value string) error {
	path, err := p.Path(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(p.dir, "."+key+"-*.tmp")
	if err != nil {
		return kv.Unavailable("file set", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(value); err != nil {
		utils.Close(tmp)
		_ = os.Remove(tmpName)
		return kv.Unavailable("file set", err)
	}
	if err := tmp.Sync(); err != nil {
		utils.Close(tmp)
		_ = os.Remove(tmpName)
		return kv.Unavailable("file set", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return kv.Unavailable("file set", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return kv.Unavailable("file set", err)
	}
	return nil
}
