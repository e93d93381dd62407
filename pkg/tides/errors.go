package tides

import (
	"errors"
	"fmt"

	"github.com/spencer-p/navo/pkg/stations"
)

// ErrUnsupportedProvider is returned for stations whose provider has no
// implementation.
var ErrUnsupportedProvider = errors.New("provider not supported")

// Kind classifies a failed fetch.
type Kind int

const (
	// KindTransport means the provider could not be reached or refused the
	// request.
	KindTransport Kind = iota
	// KindStation means the provider answered with nothing usable.
	KindStation
	// KindUnsupported means no request was attempted because the provider is
	// not implemented.
	KindUnsupported
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStation:
		return "station"
	case KindUnsupported:
		return "unsupported"
	default:
		return "invalid"
	}
}

// FetchError is the only error type Fetcher returns.
type FetchError struct {
	Kind    Kind
	Station stations.Station
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s error for station %s (%s): %v", e.Kind, e.Station.ID, e.Station.Name, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of a FetchError anywhere in err's chain.
func KindOf(err error) (Kind, bool) {
	var fe *FetchError
	if !errors.As(err, &fe) {
		return 0, false
	}
	return fe.Kind, true
}
