package memory

import (
	"context"
	"sync"

	"github.com/MrSnakeDoc/cookbook/internal/kv"
)

// Provider keeps values in process memory. Nothing survives a restart,
// which makes it suitable for tests and throwaway runs.
type Provider struct {
	mu   sync.Mutex
	data map[string]string
	fail error // injected failure, see Fail
}

// New creates an empty memory provider.
func New() *Provider {
	return &Provider{data: make(map[string]string)}
}

// Fail makes every subsequent call return err wrapped as unavailable.
// Passing nil restores normal behavior.
func (p *Provider) Fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fail = err
}

func (p *Provider) Get(_ context.Context, key string) (string, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.fail != nil {
		return "", false, kv.Unavailable("memory get", p.fail)
	}
	v, ok := p.data[key]
	return v, ok, nil
}

func (p *Provider) Set(_ context.Context, key, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.fail != nil {
		return kv.Unavailable("memory set", p.fail)
	}
	p.data[key] = value
	return nil
}

// Update runs fn under the provider lock.
func (p *Provider) Update(_ context.Context, key string, fn kv.UpdateFunc) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.fail != nil {
		return kv.Unavailable("memory update", p.fail)
	}
	cur, ok := p.data[key]
	next, err := fn(cur, ok)
	if err != nil {
		return err
	}
	p.data[key] = next
	return nil
}
