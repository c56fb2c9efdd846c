package config

import (
	"context"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
)

// Provider hands out the current configuration snapshot. Readers
// always see a complete Config; a reload swaps the pointer.
type Provider struct {
	current atomic.Pointer[Config]
	load    func() (*Config, error)
}

func NewProvider(initial *Config, load func() (*Config, error)) *Provider {
	if load == nil {
		load = ReloadConfig
	}
	p := &Provider{load: load}
	p.current.Store(initial)
	return p
}

// StaticProvider never reloads. Handy for tests and tools.
func StaticProvider(cfg *Config) *Provider {
	return NewProvider(cfg, func() (*Config, error) { return cfg, nil })
}

func (p *Provider) Get() *Config {
	return p.current.Load()
}

func (p *Provider) Auth() AuthConfig {
	if cfg := p.current.Load(); cfg != nil {
		return cfg.Auth
	}
	return AuthConfig{}
}

// AuthEnabled evaluates IsAuthEnabled against the live snapshot.
func (p *Provider) AuthEnabled() bool {
	return IsAuthEnabled(p.Auth())
}

// Reload loads a fresh snapshot. On error the previous one stays.
func (p *Provider) Reload() (*Config, error) {
	cfg, err := p.load()
	if err != nil {
		return p.current.Load(), err
	}
	p.current.Store(cfg)
	return cfg, nil
}

// WatchSIGHUP reloads on every SIGHUP until ctx is done.
func (p *Provider) WatchSIGHUP(ctx context.Context, onReload func(*Config, error)) {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGHUP)
	go func() {
		defer signal.Stop(signals)
		for {
			select {
			case <-ctx.Done():
				return
			case <-signals:
				cfg, err := p.Reload()
				if onReload != nil {
					onReload(cfg, err)
				}
			}
		}
	}()
}
