package ratelimit

import (
    "context"
    "sync"
    "time"
)

// Pacer spaces calls to Wait at least interval apart. A zero interval never blocks.
type Pacer struct {
    mu       sync.Mutex
    interval time.Duration
    last     time.Time
    now      func() time.Time
    after    func(time.Duration) <-chan time.Time
}

func New(interval time.Duration) *Pacer {
    return &Pacer{interval: interval, now: time.Now, after: time.After}
}

// Wait blocks for the remainder of the interval since the previous call,
// then claims the current slot. It returns ctx.Err() if cancelled while waiting.
func (p *Pacer) Wait(ctx context.Context) error {
    p.mu.Lock()
    defer p.mu.Unlock()

    if !p.last.IsZero() && p.interval > 0 {
        if remaining := p.interval - p.now().Sub(p.last); remaining > 0 {
            select {
            case <-ctx.Done():
                return ctx.Err()
            case <-p.after(remaining):
            }
        }
    }
    if err := ctx.Err(); err != nil {
        return err
    }
    p.last = p.now()
    return nil
}
