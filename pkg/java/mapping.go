package java

import (
	"encoding/json"
	"fmt"

	"github.com/dcrane/packbridge/pkg/pack"
)

type MappingEntry struct {
	Data int    `json:"custom_model_data"`
	Icon string `json:"icon"`
	Name string `json:"display_name,omitempty"`
}

// Mappings builds the companion-runtime document translating target
// item + identifier pairs into icon/display mappings. The document is
// the same regardless of which platform the package targets.
func Mappings(p *pack.Pack) ([]byte, error) {
	groups := p.ModelsByItem()
	doc := make(map[string][]MappingEntry)

	for _, item := range p.Items() {
		key := fmt.Sprintf("minecraft:%s", item)
		for _, model := range groups[item] {
			doc[key] = append(doc[key], MappingEntry{
				Data: model.Data,
				Icon: fmt.Sprintf("%s:item/%s", p.Namespace, model.Name),
				Name: model.Name,
			})
		}
	}

	return json.MarshalIndent(doc, "", "  ")
}
