package pack

import (
	"encoding/json"
)

// Snapshot captures the full aggregate minus binary payloads as one
// JSON document, suitable for later reimport. Binary fields carry
// `json:"-"` tags so they are dropped here without extra bookkeeping.
func Snapshot(p *Pack) ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

func RestoreSnapshot(data []byte) (*Pack, error) {
	var p Pack
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
