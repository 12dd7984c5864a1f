package store

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/codyseavey/card-ledger/backend/internal/models"
)

// Paced wraps a Store and spaces out mutations: a token-bucket limiter in
// front of every write, plus an optional settle pause after each one.
// Eventually-consistent backends can serve a stale read for a few seconds
// after a write; the pause keeps the next load cycle from racing that.
type Paced struct {
	inner   Store
	limiter *rate.Limiter
	settle  time.Duration
}

// NewPaced builds the wrapper. writesPerSec <= 0 disables rate limiting,
// settle <= 0 disables the post-write pause.
func NewPaced(inner Store, writesPerSec float64, settle time.Duration) *Paced {
	var limiter *rate.Limiter
	if writesPerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(writesPerSec), 1)
	}
	return &Paced{inner: inner, limiter: limiter, settle: settle}
}

func (p *Paced) before(ctx context.Context) error {
	if p.limiter == nil {
		return nil
	}
	return p.limiter.Wait(ctx)
}

func (p *Paced) after(ctx context.Context) {
	if p.settle <= 0 {
		return
	}
	select {
	case <-time.After(p.settle):
	case <-ctx.Done():
	}
}

func (p *Paced) SelectAll(ctx context.Context) ([]models.Record, error) {
	return p.inner.SelectAll(ctx)
}

func (p *Paced) Insert(ctx context.Context, rec models.Record) error {
	if err := p.before(ctx); err != nil {
		return err
	}
	err := p.inner.Insert(ctx, rec)
	p.after(ctx)
	return err
}

func (p *Paced) InsertBatch(ctx context.Context, recs []models.Record) error {
	if err := p.before(ctx); err != nil {
		return err
	}
	err := p.inner.InsertBatch(ctx, recs)
	p.after(ctx)
	return err
}

func (p *Paced) UpsertBatch(ctx context.Context, recs []models.Record) error {
	if err := p.before(ctx); err != nil {
		return err
	}
	err := p.inner.UpsertBatch(ctx, recs)
	p.after(ctx)
	return err
}

func (p *Paced) DeleteByKeys(ctx context.Context, ids []int64) error {
	if err := p.before(ctx); err != nil {
		return err
	}
	err := p.inner.DeleteByKeys(ctx, ids)
	p.after(ctx)
	return err
}

func (p *Paced) DeleteAll(ctx context.Context) error {
	if err := p.before(ctx); err != nil {
		return err
	}
	err := p.inner.DeleteAll(ctx)
	p.after(ctx)
	return err
}

func (p *Paced) SupportsRowAddressing() bool {
	return p.inner.SupportsRowAddressing()
}
