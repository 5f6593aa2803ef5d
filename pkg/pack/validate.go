package pack

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var check = validator.New(validator.WithRequiredStructEnabled())

// Validate collects human-readable problems with the aggregate. It is
// advisory only: exporters never consult it, and a pack that fails
// validation still exports. Callers decide whether to abort.
func Validate(p *Pack) []string {
	problems := make([]string, 0)

	if err := check.Struct(p); err != nil {
		if fields, ok := err.(validator.ValidationErrors); ok {
			for _, field := range fields {
				problems = append(problems, fmt.Sprintf(
					"pack field %s fails rule %q",
					field.Field(),
					field.Tag(),
				))
			}
		}
	}

	// Primary identifiers must be unique within one target item.
	seen := make(map[string]map[int]string)
	for _, model := range p.Models {
		byData, ok := seen[model.Item]
		if !ok {
			byData = make(map[int]string)
			seen[model.Item] = byData
		}

		if other, ok := byData[model.Data]; ok {
			problems = append(problems, fmt.Sprintf(
				"models %s and %s share identifier %d on item %s",
				other,
				model.Name,
				model.Data,
				model.Item,
			))
			continue
		}
		byData[model.Data] = model.Name
	}

	for _, font := range p.Fonts {
		for i, provider := range font.Providers {
			bitmap, ok := provider.(BitmapProvider)
			if !ok {
				continue
			}
			if bitmap.Ascent >= bitmap.Height {
				problems = append(problems, fmt.Sprintf(
					"font %s provider %d: ascent %d must be less than height %d",
					font.Name,
					i,
					bitmap.Ascent,
					bitmap.Height,
				))
			}
		}
	}

	for _, model := range p.Models {
		if model.Data < 0 {
			problems = append(problems, fmt.Sprintf(
				"model %s has negative identifier %d",
				model.Name,
				model.Data,
			))
		}
	}

	return problems
}
