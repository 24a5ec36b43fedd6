package tasks

import (
	"context"
	"sync"
	"time"

	"github.com/akyairhashvil/taskwatch/internal/models"
)

// Watcher is the polling handle returned by List.Watch. Stop must be called
// when the view goes away.
type Watcher struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Watch mounts the list: it refreshes immediately and, for undone lists,
// every poll interval until Stop is called or ctx ends.
func (l *List) Watch(ctx context.Context) *Watcher {
	ctx, cancel := context.WithCancel(ctx)
	w := &Watcher{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(w.done)
		_ = l.Refresh(ctx)
		if l.done != models.Undone {
			return
		}
		l.poll(ctx)
	}()
	return w
}

func (l *List) poll(ctx context.Context) {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			_ = l.Refresh(ctx)
		}
	}
}

// Stop cancels future refreshes and waits for the poll loop to exit.
// It is safe to call more than once.
func (w *Watcher) Stop() {
	w.once.Do(w.cancel)
	<-w.done
}

// Done is closed once the poll loop has exited.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}
