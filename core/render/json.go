// JSON output serializes the scrape result exactly as the HTTP API returns it.

package render

import (
	"encoding/json"
	"fmt"

	"github.com/gaurav-prasanna/webscrape/core"
)

// JSONRenderer produces indented JSON output.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Render marshals the result with two-space indentation.
func (r *JSONRenderer) Render(result *core.ScrapeResult) ([]byte, error) {
	if result == nil {
		return nil, errNilResult
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}
