package pack

import (
	"encoding/json"
	"fmt"
)

const (
	PROVIDER_BITMAP = "bitmap"
	PROVIDER_SPACE  = "space"
	PROVIDER_TTF    = "ttf"
	PROVIDER_UNIHEX = "unihex"
)

// Provider is the tagged union of font provider variants. Each tag has
// exactly one encode and one decode branch; there is no inheritance.
type Provider interface {
	Type() string
}

type BitmapProvider struct {
	File   string
	Data   []byte `json:"-"`
	Ascent int
	Height int
	Chars  []string
}

func (p BitmapProvider) Type() string { return PROVIDER_BITMAP }

type SpaceProvider struct {
	Advances map[string]int
}

func (p SpaceProvider) Type() string { return PROVIDER_SPACE }

type TTFProvider struct {
	File       string
	Data       []byte `json:"-"`
	Size       float64
	Oversample float64
	Shift      []float64
	Skip       []string
}

func (p TTFProvider) Type() string { return PROVIDER_TTF }

type UnihexProvider struct {
	HexFile string
}

func (p UnihexProvider) Type() string { return PROVIDER_UNIHEX }

// ProviderDoc is the on-disk shape shared by every provider tag.
type ProviderDoc struct {
	Type       string          `json:"type"`
	File       string          `json:"file,omitempty"`
	Ascent     *int            `json:"ascent,omitempty"`
	Height     *int            `json:"height,omitempty"`
	Chars      []string        `json:"chars,omitempty"`
	Advances   map[string]int  `json:"advances,omitempty"`
	Size       *float64        `json:"size,omitempty"`
	Oversample *float64        `json:"oversample,omitempty"`
	Shift      []float64       `json:"shift,omitempty"`
	Skip       json.RawMessage `json:"skip,omitempty"`
	HexFile    string          `json:"hex_file,omitempty"`
}

func EncodeProvider(provider Provider) ProviderDoc {
	doc := ProviderDoc{Type: provider.Type()}

	switch p := provider.(type) {
	case BitmapProvider:
		doc.File = p.File
		ascent := p.Ascent
		height := p.Height
		doc.Ascent = &ascent
		doc.Height = &height
		doc.Chars = p.Chars
	case SpaceProvider:
		doc.Advances = p.Advances
	case TTFProvider:
		doc.File = p.File
		size := p.Size
		doc.Size = &size
		if p.Oversample != 0 {
			oversample := p.Oversample
			doc.Oversample = &oversample
		}
		doc.Shift = p.Shift
		if len(p.Skip) > 0 {
			skip, _ := json.Marshal(p.Skip)
			doc.Skip = skip
		}
	case UnihexProvider:
		doc.HexFile = p.HexFile
	}

	return doc
}

func DecodeProvider(doc ProviderDoc) (Provider, error) {
	switch doc.Type {
	case PROVIDER_BITMAP:
		provider := BitmapProvider{
			File:  doc.File,
			Chars: doc.Chars,
		}
		if doc.Ascent != nil {
			provider.Ascent = *doc.Ascent
		}
		if doc.Height != nil {
			provider.Height = *doc.Height
		}
		return provider, nil
	case PROVIDER_SPACE:
		return SpaceProvider{Advances: doc.Advances}, nil
	case PROVIDER_TTF:
		provider := TTFProvider{
			File:  doc.File,
			Shift: doc.Shift,
		}
		if doc.Size != nil {
			provider.Size = *doc.Size
		}
		if doc.Oversample != nil {
			provider.Oversample = *doc.Oversample
		}
		if len(doc.Skip) > 0 {
			// skip is either one string or a list of strings
			var one string
			if err := json.Unmarshal(doc.Skip, &one); err == nil {
				provider.Skip = []string{one}
			} else {
				var many []string
				if err := json.Unmarshal(doc.Skip, &many); err != nil {
					return nil, fmt.Errorf("invalid skip field: %w", err)
				}
				provider.Skip = many
			}
		}
		return provider, nil
	case PROVIDER_UNIHEX:
		return UnihexProvider{HexFile: doc.HexFile}, nil
	}

	return nil, fmt.Errorf("unknown provider type %q", doc.Type)
}

func (f *Font) MarshalJSON() ([]byte, error) {
	docs := make([]ProviderDoc, 0, len(f.Providers))
	for _, provider := range f.Providers {
		docs = append(docs, EncodeProvider(provider))
	}

	return json.Marshal(struct {
		Id         string
		Name       string
		SourceName string
		Providers  []ProviderDoc
	}{
		Id:         f.Id,
		Name:       f.Name,
		SourceName: f.SourceName,
		Providers:  docs,
	})
}

func (f *Font) UnmarshalJSON(data []byte) error {
	var raw struct {
		Id         string
		Name       string
		SourceName string
		Providers  []ProviderDoc
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	f.Id = raw.Id
	f.Name = raw.Name
	f.SourceName = raw.SourceName
	f.Providers = make([]Provider, 0, len(raw.Providers))
	for _, doc := range raw.Providers {
		provider, err := DecodeProvider(doc)
		if err != nil {
			return err
		}
		f.Providers = append(f.Providers, provider)
	}

	return nil
}
