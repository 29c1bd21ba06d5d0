package domain

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type blockingLocator struct{}

func (blockingLocator) Locate(ctx context.Context) (Coordinate, error) {
	<-ctx.Done()
	return Coordinate{}, ctx.Err()
}

type errLocator struct{ err error }

func (l errLocator) Locate(context.Context) (Coordinate, error) { return Coordinate{}, l.err }

func TestAcquireOrigin_Acquired(t *testing.T) {
	want := Coordinate{Lat: 42.4, Lon: -71.1}

	res := AcquireOrigin(context.Background(), FixedLocator{Coord: want}, time.Second)

	assert.True(t, res.Acquired())
	assert.Equal(t, want, res.Coord)
}

func TestAcquireOrigin_Timeout(t *testing.T) {
	start := time.Now()

	res := AcquireOrigin(context.Background(), blockingLocator{}, 20*time.Millisecond)

	assert.Equal(t, OriginTimeout, res.Outcome)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestAcquireOrigin_Denied(t *testing.T) {
	res := AcquireOrigin(context.Background(), errLocator{err: ErrLocationDenied}, time.Second)
	assert.Equal(t, OriginDenied, res.Outcome)
}

func TestAcquireOrigin_OtherErrorIsUnsupported(t *testing.T) {
	res := AcquireOrigin(context.Background(), errLocator{err: errors.New("no gps")}, time.Second)
	assert.Equal(t, OriginUnsupported, res.Outcome)
}

func TestAcquireOrigin_NilLocator(t *testing.T) {
	res := AcquireOrigin(context.Background(), nil, time.Second)
	assert.Equal(t, OriginUnsupported, res.Outcome)
	assert.False(t, res.Acquired())
}

func TestAcquireOrigin_ZeroTimeoutUsesDefault(t *testing.T) {
	var deadline time.Time
	var hasDeadline bool
	loc := locatorFunc(func(ctx context.Context) (Coordinate, error) {
		deadline, hasDeadline = ctx.Deadline()
		return Coordinate{Lat: 1, Lon: 2}, nil
	})
	before := time.Now()

	res := AcquireOrigin(context.Background(), loc, 0)

	assert.True(t, res.Acquired())
	assert.True(t, hasDeadline)
	assert.WithinDuration(t, before.Add(DefaultOriginTimeout), deadline, time.Second)
}

type locatorFunc func(ctx context.Context) (Coordinate, error)

func (f locatorFunc) Locate(ctx context.Context) (Coordinate, error) { return f(ctx) }
