package cli

import (
	"encoding/json"
	"fmt"

	"github.com/alpkeskin/gotoon"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatTOON = "toon"
)

// renderPayload serializes v for machine consumption. The toon format is a
// compact notation meant for feeding command output to agents.
func renderPayload(format string, v any) (string, error) {
	switch format {
	case formatJSON:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to encode output: %w", err)
		}
		return string(b) + "\n", nil
	case formatTOON:
		s, err := gotoon.Encode(v)
		if err != nil {
			return "", fmt.Errorf("failed to encode output: %w", err)
		}
		return s + "\n", nil
	default:
		return "", fmt.Errorf("unknown output format: %s", format)
	}
}
