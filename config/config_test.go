package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validConfig = `
search:
  keywords: ["golang developer"]
  location: "Sydney"
  platforms: ["seek", "indeed"]
  blacklist: ["Recruitment Co"]
apply:
  max_applications: 5
  delay_min_seconds: 10
  delay_max_seconds: 20
profile:
  name: "Jo Doe"
  email: "jo@example.com"
  phone: "0400000000"
  resume_path: "~/resume.pdf"
  expected_salary: "95000"
  notice_period: "2 weeks"
  years_experience: 4
browser:
  engine: playwright
  headless: true
  profile_dir: "~/.jobby/profile"
data:
  dir: "~/.jobby"
`

func TestLoadFromValidConfig(t *testing.T) {
	cfg, err := LoadFrom(writeConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, []string{"golang developer"}, cfg.Search.Keywords)
	assert.Equal(t, []string{"seek", "indeed"}, cfg.Search.Platforms)
	assert.Equal(t, 5, cfg.Apply.MaxApplications)
	assert.Equal(t, 10, cfg.Apply.DelayMinSeconds)
	assert.Equal(t, "jo@example.com", cfg.Profile.Email)
	assert.Equal(t, 4, cfg.Profile.YearsExperience)
	assert.Equal(t, "playwright", cfg.Browser.Engine)
	assert.True(t, cfg.Browser.Headless)
}

func TestLoadFromRejectsMissingKeywords(t *testing.T) {
	_, err := LoadFrom(writeConfig(t, `
search:
  platforms: ["seek"]
apply:
  delay_min_seconds: 10
  delay_max_seconds: 20
browser:
  engine: playwright
data:
  dir: "~/.jobby"
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation")
}

func TestLoadFromRejectsUnknownEngine(t *testing.T) {
	_, err := LoadFrom(writeConfig(t, `
search:
  keywords: ["go"]
  platforms: ["seek"]
apply:
  delay_min_seconds: 10
  delay_max_seconds: 20
browser:
  engine: selenium
data:
  dir: "~/.jobby"
`))
	require.Error(t, err)
}

func TestLoadFromRejectsInvertedDelayBounds(t *testing.T) {
	_, err := LoadFrom(writeConfig(t, `
search:
  keywords: ["go"]
  platforms: ["seek"]
apply:
  delay_min_seconds: 30
  delay_max_seconds: 5
browser:
  engine: playwright
data:
  dir: "~/.jobby"
`))
	require.Error(t, err)
}

func TestLoadFromMissingFile(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := defaultConfig()
	require.NoError(t, Validate(&cfg))
}

func TestDataFile(t *testing.T) {
	cfg := &GlobalConfig{Data: DataConfig{Dir: "/tmp/jobby"}}
	assert.Equal(t, filepath.Join("/tmp/jobby", "answers.json"), cfg.DataFile("answers.json"))
}
