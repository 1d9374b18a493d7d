package output

import (
	"encoding/json"
	"fmt"
)

// JSONFormatter renders the report as indented JSON.
type JSONFormatter struct{}

// Format serializes the report as pretty-printed JSON.
func (f *JSONFormatter) Format(report *Report) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("json formatter: report is required")
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("json formatter: %w", err)
	}
	return append(data, '\n'), nil
}
