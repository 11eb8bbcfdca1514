package config

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/vector81/Jobby/utils"
)

const defaultConfigPath = "./config/config.yaml"

const defaultHeader = `# Jobby configuration.
# Generated on first run. Fill in the profile section before applying:
# rule-based answers to screening questions are built from it.
`

// defaultConfig is what a first run writes to disk. The profile fields are
// deliberately blank so validation nudges the operator to the file.
func defaultConfig() GlobalConfig {
	return GlobalConfig{
		Search: SearchConfig{
			Keywords:  []string{"software engineer"},
			Location:  "All Australia",
			Platforms: []string{"seek"},
			Blacklist: []string{},
		},
		Apply: ApplyConfig{
			MaxApplications: 20,
			DelayMinSeconds: 30,
			DelayMaxSeconds: 90,
		},
		Profile: Profile{
			ExpectedSalary:  "90000",
			NoticePeriod:    "4 weeks",
			YearsExperience: 3,
		},
		Browser: BrowserConfig{
			Engine:     "playwright",
			Headless:   false,
			ProfileDir: "~/.jobby/profile",
		},
		Data: DataConfig{
			Dir: "~/.jobby",
		},
	}
}

// ensureDefaultConfig writes the starter file when no config exists yet.
func ensureDefaultConfig() error {
	if utils.FileExists(defaultConfigPath) || utils.FileExists("./config.yaml") {
		return nil
	}

	cfg := defaultConfig()
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("encode default config: %w", err)
	}

	content := append([]byte(defaultHeader), data...)
	if err := utils.WriteFileAtomic(defaultConfigPath, content); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}

	log.Infof("wrote starter config to %s", defaultConfigPath)
	return nil
}
