package tiles

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ironsheep/greenery-detector/internal/imaging"
)

// Source fetches a decoded raster image covering a position.
//
// Implementations return images of fixed, documented dimensions. Provider
// failures are reported as *FetchError; invalid coordinates as
// *imaging.ValidationError.
type Source interface {
	Fetch(ctx context.Context, c Coordinates) (*imaging.Image, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, c Coordinates) (*imaging.Image, error)

// Fetch calls f.
func (f SourceFunc) Fetch(ctx context.Context, c Coordinates) (*imaging.Image, error) {
	return f(ctx, c)
}

// ErrFetch marks failures to obtain an image from the provider.
var ErrFetch = errors.New("fetch error")

// FetchError reports a failure to obtain or decode a provider image.
type FetchError struct {
	Provider   string // Provider name, e.g. "mapbox"
	StatusCode int    // HTTP status, 0 when no response was received
	Err        error  // Underlying cause
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: fetch failed with status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: fetch failed: %v", e.Provider, e.Err)
}

// Unwrap returns the underlying cause.
func (e *FetchError) Unwrap() error { return e.Err }

// Is reports whether target is ErrFetch.
func (e *FetchError) Is(target error) bool { return target == ErrFetch }

// Retryable reports whether the failure is likely transient: transport
// errors, rate limiting and provider-side (5xx) errors. Callers decide
// whether to retry; this package never does.
func (e *FetchError) Retryable() bool {
	switch {
	case e.StatusCode == 0:
		return !errors.Is(e.Err, imaging.ErrValidation) && !errors.Is(e.Err, context.Canceled)
	case e.StatusCode == http.StatusTooManyRequests:
		return true
	case e.StatusCode >= 500:
		return true
	default:
		return false
	}
}
