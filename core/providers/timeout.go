package providers

import (
	"context"
	"errors"
	"time"

	trailerrors "github.com/adalundhe/trailhead/core/errors"
)

// timeoutProvider bounds each Complete call. A hung generation call would
// otherwise block its session indefinitely.
type timeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

// WithTimeout wraps a provider so every completion call is bounded by d.
// A zero or negative d returns the provider unwrapped.
func WithTimeout(p Provider, d time.Duration) Provider {
	if d <= 0 {
		return p
	}
	return &timeoutProvider{inner: p, timeout: d}
}

func (t *timeoutProvider) Name() string {
	return t.inner.Name()
}

func (t *timeoutProvider) Complete(ctx context.Context, req *Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	resp, err := t.inner.Complete(ctx, req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, trailerrors.Wrap(trailerrors.KindGeneration, "complete", errors.New("generation timed out"))
		}
		return nil, err
	}
	return resp, nil
}
