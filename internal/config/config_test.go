package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeConfigs_HigherTierOverrides(t *testing.T) {
	system := SystemDefaults()
	project := &Config{
		Rule:   RuleConfig{MaxPasses: 3},
		Output: OutputConfig{Format: "sarif"},
	}
	merged := MergeConfigs(system, project)

	assert.Equal(t, 3, merged.Rule.MaxPasses)
	assert.Equal(t, "sarif", merged.Output.Format)
	assert.NotEmpty(t, merged.Input.Extensions, "default extensions should be preserved")
}

func TestMergeConfigs_ZeroFieldsInherit(t *testing.T) {
	lower := &Config{
		Rule:   RuleConfig{MaxPasses: 5},
		Output: OutputConfig{Format: "json"},
	}
	merged := MergeConfigs(lower, &Config{})

	assert.Equal(t, 5, merged.Rule.MaxPasses)
	assert.Equal(t, "json", merged.Output.Format)
}

func TestMergeConfigs_ExplicitDisableWins(t *testing.T) {
	disabled := false
	project := &Config{Rule: RuleConfig{Enabled: &disabled}}

	merged := MergeConfigs(SystemDefaults(), project)
	assert.False(t, merged.RuleEnabled(), "project tier should disable the rule")
}

func TestRuleEnabled_NilMeansEnabled(t *testing.T) {
	cfg := &Config{}
	assert.True(t, cfg.RuleEnabled())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"empty is valid", Config{}, false},
		{"known format", Config{Output: OutputConfig{Format: "markdown"}}, false},
		{"unknown format", Config{Output: OutputConfig{Format: "xml"}}, true},
		{"negative max passes", Config{Rule: RuleConfig{MaxPasses: -1}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadFromFile_MissingReturnsNil(t *testing.T) {
	cfg, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err, "missing file should not error")
	assert.Nil(t, cfg)
}

func TestLoadFromFile_ParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `rule:
  enabled: false
  max_passes: 2
output:
  format: sarif
input:
  extensions: [".rb"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Rule.Enabled)
	assert.False(t, *cfg.Rule.Enabled)
	assert.Equal(t, 2, cfg.Rule.MaxPasses)
	assert.Equal(t, "sarif", cfg.Output.Format)
	assert.Equal(t, []string{".rb"}, cfg.Input.Extensions)
}

func TestLoadFromFile_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rule: [not a mapping"), 0o644))

	_, err := LoadFromFile(path)
	assert.Error(t, err)
}

func TestLoadTiered_ProjectOverridesMachine(t *testing.T) {
	dir := t.TempDir()
	machine := filepath.Join(dir, "machine.yaml")
	project := filepath.Join(dir, "project.yaml")

	require.NoError(t, os.WriteFile(machine, []byte("output:\n  format: json\nrule:\n  max_passes: 4\n"), 0o644))
	require.NoError(t, os.WriteFile(project, []byte("output:\n  format: markdown\n"), 0o644))

	cfg, err := LoadTiered(machine, project)
	require.NoError(t, err)
	assert.Equal(t, "markdown", cfg.Output.Format, "project tier should win")
	assert.Equal(t, 4, cfg.Rule.MaxPasses, "machine max_passes should be retained")
	assert.True(t, cfg.RuleEnabled())
}

func TestLoadTiered_MissingFilesFallBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadTiered(filepath.Join(dir, "a.yaml"), filepath.Join(dir, "b.yaml"))
	require.NoError(t, err)
	assert.True(t, cfg.RuleEnabled())
	assert.NotEmpty(t, cfg.Input.Extensions)
}
