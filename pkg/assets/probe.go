package assets

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/cespare/xxhash/v2"
	"github.com/fxamacker/cbor/v2"
	"github.com/rs/zerolog/log"
)

type Dimensions struct {
	_      struct{} `cbor:",toarray"`
	Width  int
	Height int
}

// Probe reads just enough of an image to learn its pixel dimensions.
func Probe(data []byte) (Dimensions, error) {
	config, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Dimensions{}, fmt.Errorf("could not probe image: %w", err)
	}

	return Dimensions{
		Width:  config.Width,
		Height: config.Height,
	}, nil
}

// Prober memoizes probe results in a Store keyed by content hash, so
// re-importing a package does not decode the same textures twice.
type Prober struct {
	cache Store
}

func NewProber(cache Store) *Prober {
	return &Prober{
		cache: cache,
	}
}

func (p *Prober) Probe(ctx context.Context, data []byte) (Dimensions, error) {
	if p.cache == nil {
		return Probe(data)
	}

	key := fmt.Sprintf("probe-%016x", xxhash.Sum64(data))

	cached, err := p.cache.Get(ctx, key)
	if err != nil && err != Missing {
		return Dimensions{}, err
	}

	if err == nil {
		var dimensions Dimensions
		if err := cbor.Unmarshal(cached, &dimensions); err == nil {
			return dimensions, nil
		}
		// A corrupt record is re-probed
	}

	dimensions, err := Probe(data)
	if err != nil {
		return Dimensions{}, err
	}

	encoded, err := cbor.Marshal(dimensions)
	if err != nil {
		return Dimensions{}, err
	}

	if err := p.cache.Set(ctx, key, encoded); err != nil {
		log.Debug().Err(err).Msg("could not cache probe result")
	}

	return dimensions, nil
}
