package domain

import (
	"context"
	"errors"
	"time"
)

// Coordinate is a WGS-84 position.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Locator acquires the device position. Implementations should return
// ErrLocationDenied when the platform refuses access.
type Locator interface {
	Locate(ctx context.Context) (Coordinate, error)
}

// OriginOutcome describes how origin acquisition ended.
type OriginOutcome string

const (
	OriginAcquired    OriginOutcome = "acquired"
	OriginTimeout     OriginOutcome = "timeout"
	OriginDenied      OriginOutcome = "denied"
	OriginUnsupported OriginOutcome = "unsupported"
)

// OriginResult is the outcome of AcquireOrigin. Coord is only meaningful when
// Outcome is OriginAcquired.
type OriginResult struct {
	Coord   Coordinate    `json:"coord"`
	Outcome OriginOutcome `json:"outcome"`
}

// Acquired reports whether a coordinate was obtained.
func (r OriginResult) Acquired() bool { return r.Outcome == OriginAcquired }

// DefaultOriginTimeout bounds origin acquisition when no timeout is given.
const DefaultOriginTimeout = 8 * time.Second

// AcquireOrigin asks the locator for a position, waiting at most timeout
// (DefaultOriginTimeout when timeout is not positive).
// It never returns an error: every failure maps to an outcome so the caller
// can continue without an origin.
func AcquireOrigin(ctx context.Context, locator Locator, timeout time.Duration) OriginResult {
	if locator == nil {
		return OriginResult{Outcome: OriginUnsupported}
	}
	if timeout <= 0 {
		timeout = DefaultOriginTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type located struct {
		coord Coordinate
		err   error
	}
	ch := make(chan located, 1)
	go func() {
		c, err := locator.Locate(ctx)
		ch <- located{coord: c, err: err}
	}()

	select {
	case <-ctx.Done():
		return OriginResult{Outcome: OriginTimeout}
	case l := <-ch:
		switch {
		case l.err == nil:
			return OriginResult{Coord: l.coord, Outcome: OriginAcquired}
		case errors.Is(l.err, ErrLocationDenied):
			return OriginResult{Outcome: OriginDenied}
		case errors.Is(l.err, context.DeadlineExceeded), errors.Is(l.err, context.Canceled):
			return OriginResult{Outcome: OriginTimeout}
		default:
			return OriginResult{Outcome: OriginUnsupported}
		}
	}
}

// FixedLocator always reports the same position. It backs a configured home
// origin or coordinates sent along with a request.
type FixedLocator struct {
	Coord Coordinate
}

func (l FixedLocator) Locate(ctx context.Context) (Coordinate, error) {
	if err := ctx.Err(); err != nil {
		return Coordinate{}, err
	}
	return l.Coord, nil
}
