package bedrock

import (
	"encoding/json"
	"fmt"
	"strings"
)

func DecodeManifest(data []byte) (*Manifest, error) {
	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("malformed manifest: %w", err)
	}
	return &manifest, nil
}

// DecodeLang parses a key=value text document. Comment lines starting
// with # or //, and lines without a separator, are ignored.
func DecodeLang(data []byte) map[string]string {
	entries := make(map[string]string)

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "//") {
			continue
		}

		equals := strings.Index(line, "=")
		if equals == -1 {
			continue
		}

		entries[line[:equals]] = line[equals+1:]
	}

	return entries
}

func DecodeSoundDefinitions(data []byte) (*SoundDefinitions, error) {
	var definitions SoundDefinitions
	if err := json.Unmarshal(data, &definitions); err != nil {
		return nil, fmt.Errorf("malformed sound definitions: %w", err)
	}
	return &definitions, nil
}

func DecodeAttachable(data []byte) (*Attachable, error) {
	var attachable Attachable
	if err := json.Unmarshal(data, &attachable); err != nil {
		return nil, fmt.Errorf("malformed attachable: %w", err)
	}
	return &attachable, nil
}
