package platform

import (
	"context"
	"fmt"
	"sync"

	"aethelgard/internal/guard"
	"aethelgard/internal/storage"
)

// SupportModule is an auxiliary service started alongside the
// observatory, such as the dashboard server.
type SupportModule interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Config assembles an Observatory.
type Config struct {
	Store          storage.Store
	SupportModules []SupportModule
	Limits         *guard.Limits
}

// Observatory hosts the shared infrastructure of a simulation session:
// the run store, the resource limits and any support modules. Solver
// instances stay independent of it; the observatory only owns the
// surrounding plumbing.
type Observatory struct {
	mu      sync.Mutex
	store   storage.Store
	modules []SupportModule
	limits  guard.Limits
	started bool
}

func NewObservatory(cfg Config) *Observatory {
	limits := guard.DefaultLimits()
	if cfg.Limits != nil {
		limits = *cfg.Limits
	}
	return &Observatory{
		store:   cfg.Store,
		modules: cfg.SupportModules,
		limits:  limits,
	}
}

// Init prepares the store and starts support modules in order. A module
// failing to start stops the ones already running, in reverse order.
func (o *Observatory) Init(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.started {
		return nil
	}
	if o.store != nil {
		if err := o.store.Init(ctx); err != nil {
			return fmt.Errorf("init store: %w", err)
		}
	}
	for i, mod := range o.modules {
		if err := mod.Start(ctx); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = o.modules[j].Stop(ctx)
			}
			return fmt.Errorf("start %s: %w", mod.Name(), err)
		}
	}
	o.started = true
	return nil
}

// Shutdown stops support modules in reverse start order and reports the
// first failure.
func (o *Observatory) Shutdown(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.started {
		return nil
	}
	var firstErr error
	for i := len(o.modules) - 1; i >= 0; i-- {
		if err := o.modules[i].Stop(ctx); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("stop %s: %w", o.modules[i].Name(), err)
		}
	}
	o.started = false
	return firstErr
}

func (o *Observatory) Store() storage.Store { return o.store }

func (o *Observatory) Limits() guard.Limits { return o.limits }
