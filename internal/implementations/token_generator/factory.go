package tokengenerator

import (
	"fmt"
	"resetpass/internal/core/domain/token"
)

// Kind selects a generator strategy through configuration.
type Kind string

const (
	KindRandomString Kind = "random_string"
	KindRandomNumber Kind = "random_number"
)

type Options struct {
	MinLength int
	MaxLength int
	MinNumber int64
	MaxNumber int64
}

type Factory func(opts Options) token.Generator

var registry = map[Kind]Factory{
	KindRandomString: func(opts Options) token.Generator {
		return NewRandomString(opts.MinLength, opts.MaxLength)
	},
	KindRandomNumber: func(opts Options) token.Generator {
		return NewRandomNumber(opts.MinNumber, opts.MaxNumber)
	},
}

// Register makes an additional strategy selectable by configuration.
// Registering an existing kind replaces it.
func Register(kind Kind, factory Factory) {
	registry[kind] = factory
}

func New(kind Kind, opts Options) (token.Generator, error) {
	factory, ok := registry[kind]
	if !ok {
		return nil, fmt.Errorf("unknown token generator kind %q", kind)
	}
	return factory(opts), nil
}
