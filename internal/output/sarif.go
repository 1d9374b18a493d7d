package output

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"

	"github.com/chris-regnier/whensort/internal/sarif"
	"github.com/chris-regnier/whensort/internal/splatorder"
)

// SARIFFormatter renders the report as a SARIF 2.1.0 JSON document with
// GitHub Code Scanning partial fingerprints and invocation metadata.
type SARIFFormatter struct{}

// Format assembles and serializes the SARIF log as indented JSON with a
// trailing newline.
func (f *SARIFFormatter) Format(report *Report) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("sarif formatter: report is required")
	}

	log := assembleSARIF(report)

	data, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("sarif formatter: %w", err)
	}
	return append(data, '\n'), nil
}

func assembleSARIF(report *Report) *sarif.Log {
	log := sarif.NewLog(report.Tool, report.Version)
	run := &log.Runs[0]

	run.Tool.Driver.InformationURI = "https://github.com/chris-regnier/whensort"
	run.Tool.Driver.Rules = []sarif.ReportingDescriptor{{
		ID:               splatorder.RuleID,
		ShortDescription: sarif.Message{Text: splatorder.Message},
		DefaultConfig:    &sarif.ReportingConfiguration{Level: "warning"},
	}}

	wd, _ := os.Getwd()
	run.Invocations = []sarif.Invocation{{
		WorkingDirectory:    sarif.ArtifactLocation{URI: wd},
		ExecutionSuccessful: true,
	}}

	for _, file := range report.Files {
		for _, d := range file.Diagnostics {
			result := sarif.Result{
				RuleID:  d.RuleID,
				Level:   "warning",
				Message: sarif.Message{Text: d.Message},
				Locations: []sarif.Location{{
					PhysicalLocation: sarif.PhysicalLocation{
						ArtifactLocation: sarif.ArtifactLocation{URI: file.Path},
						Region:           sarif.Region{StartLine: d.StartLine, EndLine: d.EndLine},
					},
				}},
				PartialFingerprints: map[string]string{
					"primaryLocationLineHash": fingerprint(d.RuleID, file.Path, d.StartLine, d.Message),
				},
			}
			run.Results = append(run.Results, result)
		}
	}

	return log
}

// fingerprint computes a stable partial fingerprint from the rule, file,
// line, and message.
func fingerprint(ruleID, uri string, startLine int, message string) string {
	input := fmt.Sprintf("%s|%s|%d|%s", ruleID, uri, startLine, message)
	hash := sha256.Sum256([]byte(input))
	return fmt.Sprintf("%x", hash[:16])
}
