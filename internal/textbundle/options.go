package textbundle

import (
	"log/slog"

	"textbundle/internal/logging"
	"textbundle/internal/uti"
)

// TextDecoding selects how text payloads that are not valid UTF-8 are handled.
type TextDecoding int

const (
	// DecodeLenient reads invalid UTF-8 as empty text and logs a warning.
	DecodeLenient TextDecoding = iota
	// DecodeStrict rejects invalid UTF-8 with an InvalidBundleError.
	DecodeStrict
)

// String implements fmt.Stringer.
func (d TextDecoding) String() string {
	if d == DecodeStrict {
		return "strict"
	}
	return "lenient"
}

type settings struct {
	identifier string
	types      *uti.Registry
	decoding   TextDecoding
	logger     *slog.Logger
}

// Option configures New, Parse and Read.
type Option func(*settings)

// WithIdentifier sets the identifier of the application creating the bundle.
// It becomes the default CreatorIdentifier and the key used by the app
// metadata accessors when they are given an empty app id.
func WithIdentifier(id string) Option {
	return func(s *settings) { s.identifier = id }
}

// WithTypeSystem replaces the registry used to derive the text extension.
func WithTypeSystem(r *uti.Registry) Option {
	return func(s *settings) {
		if r != nil {
			s.types = r
		}
	}
}

// WithTextDecoding selects the UTF-8 policy used by Parse.
func WithTextDecoding(d TextDecoding) Option {
	return func(s *settings) { s.decoding = d }
}

// WithLogger attaches a logger. Bundles log nothing by default.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func newSettings(opts []Option) settings {
	s := settings{
		types:    uti.Default(),
		decoding: DecodeLenient,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	s.logger = logging.NewComponentLogger(s.logger, "textbundle")
	return s
}
