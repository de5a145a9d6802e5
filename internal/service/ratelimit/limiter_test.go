package ratelimit

import (
    "context"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

type fakeClock struct {
    t     time.Time
    slept []time.Duration
}

func (f *fakeClock) now() time.Time { return f.t }

func (f *fakeClock) after(d time.Duration) <-chan time.Time {
    f.slept = append(f.slept, d)
    f.t = f.t.Add(d)
    ch := make(chan time.Time, 1)
    ch <- f.t
    return ch
}

func newFake(interval time.Duration) (*Pacer, *fakeClock) {
    clk := &fakeClock{t: time.Date(2021, 7, 1, 9, 0, 0, 0, time.UTC)}
    p := New(interval)
    p.now = clk.now
    p.after = clk.after
    return p, clk
}

func TestFirstWaitDoesNotBlock(t *testing.T) {
    p, clk := newFake(5 * time.Second)
    require.NoError(t, p.Wait(context.Background()))
    assert.Empty(t, clk.slept)
}

func TestWaitSleepsRemainder(t *testing.T) {
    p, clk := newFake(5 * time.Second)
    require.NoError(t, p.Wait(context.Background()))

    clk.t = clk.t.Add(2 * time.Second)
    require.NoError(t, p.Wait(context.Background()))
    assert.Equal(t, []time.Duration{3 * time.Second}, clk.slept)

    clk.t = clk.t.Add(10 * time.Second)
    require.NoError(t, p.Wait(context.Background()))
    assert.Len(t, clk.slept, 1)
}

func TestZeroIntervalNeverBlocks(t *testing.T) {
    p, clk := newFake(0)
    for i := 0; i < 3; i++ {
        require.NoError(t, p.Wait(context.Background()))
    }
    assert.Empty(t, clk.slept)
}

func TestWaitHonorsCancel(t *testing.T) {
    p := New(time.Hour)
    require.NoError(t, p.Wait(context.Background()))

    ctx, cancel := context.WithCancel(context.Background())
    cancel()
    err := p.Wait(ctx)
    assert.ErrorIs(t, err, context.Canceled)
}
