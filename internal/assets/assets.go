// Package assets loads the question bank and UI text in the background and
// exposes completion as a pollable readiness signal.
package assets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/tuxquiz/internal/bank"
	"github.com/verte-zerg/tuxquiz/internal/model"
)

// ErrLoadFailed wraps every load failure reported through Result.Err.
var ErrLoadFailed = errors.New("failed to load assets")

// DefaultBanner is shown when no banner file is configured or found.
const DefaultBanner = "T U X Q U I Z"

// Paths lists the files to load. Banner is optional.
type Paths struct {
	Bank   string
	Banner string
}

// Result is a snapshot of the load state.
type Result struct {
	Status model.LoadStatus
	Bank   *bank.Bank
	Banner string
	Err    error
}

// Source is anything that can report readiness.
type Source interface {
	Poll() Result
}

// Loader runs a single background load.
type Loader struct {
	mu     sync.Mutex
	result Result
	done   chan struct{}
}

// Start begins loading and returns immediately.
func Start(ctx context.Context, paths Paths) *Loader {
	l := &Loader{
		result: Result{Status: model.LoadPending},
		done:   make(chan struct{}),
	}
	go l.run(ctx, paths)
	return l
}

func (l *Loader) run(ctx context.Context, paths Paths) {
	defer close(l.done)

	var (
		loaded *bank.Bank
		banner = DefaultBanner
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b, err := bank.Load(paths.Bank)
		if err != nil {
			return err
		}
		loaded = b
		return gctx.Err()
	})
	if paths.Banner != "" {
		g.Go(func() error {
			text, err := loadBanner(paths.Banner)
			if err != nil {
				return err
			}
			if text != "" {
				banner = text
			}
			return gctx.Err()
		})
	}

	err := g.Wait()

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		l.result = Result{Status: model.LoadFailed, Err: fmt.Errorf("%w: %w", ErrLoadFailed, err)}
		return
	}
	l.result = Result{Status: model.LoadReady, Bank: loaded, Banner: banner}
}

func loadBanner(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read banner: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}

// Poll returns the current load state without blocking.
func (l *Loader) Poll() Result {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.result
}

// Wait blocks until the load finishes or ctx is done.
func (l *Loader) Wait(ctx context.Context) (Result, error) {
	select {
	case <-l.done:
		return l.Poll(), nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

type staticSource Result

func (s staticSource) Poll() Result {
	return Result(s)
}

// Static returns a source that is already ready with b.
func Static(b *bank.Bank) Source {
	return staticSource{Status: model.LoadReady, Bank: b, Banner: DefaultBanner}
}

// Failed returns a source that has permanently failed with err.
func Failed(err error) Source {
	return staticSource{Status: model.LoadFailed, Err: fmt.Errorf("%w: %w", ErrLoadFailed, err)}
}
