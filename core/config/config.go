package config

import (
	_ "embed"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"sigs.k8s.io/yaml"
)

var (
	//go:embed default/config.yaml
	defaultConfigData []byte
)

const (
	ConfigurationName = "config.yaml"
	ShortdirStoreName = "shortdir.txt"
	ZoomStoreName     = "zoom_classes.txt"
)

type Configuration struct {
	configurationDir string

	ShellName         string `json:"shell_name" validate:"required"`
	Prompt            string `json:"prompt" validate:"required"`
	DataDir           string `json:"data_dir"`
	HandoffBufferSize int    `json:"handoff_buffer_size" validate:"gte=1"`
	LogFile           string `json:"log_file"`
	LogLevel          string `json:"log_level" validate:"oneof=debug info warn error"`

	Alarm Alarm `json:"alarm"`
	Zoom  Zoom  `json:"zoom"`
}

// Alarm configures the goodMorning command.
type Alarm struct {
	FileName  string `json:"file_name" validate:"required"` // Schedule file written to the working directory.
	Player    string `json:"player" validate:"required"`    // Command line prefix that plays the music file.
	Scheduler string `json:"scheduler" validate:"required"` // Command that installs the schedule file e.g. "crontab".
}

// Zoom configures the zoom command.
type Zoom struct {
	Opener string `json:"opener" validate:"required"` // Command used to open class links.
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

// Dir returns the directory the configuration was loaded from.
func (c *Configuration) Dir() string {
	return c.configurationDir
}

// DataPath returns the path of a data file. Files live in DataDir, relative to
// the configuration directory, or next to the configuration if it's unset.
func (c *Configuration) DataPath(name string) string {
	switch {
	case c.DataDir == "":
		return filepath.Join(c.configurationDir, name)
	case filepath.IsAbs(c.DataDir):
		return filepath.Join(c.DataDir, name)
	default:
		return filepath.Join(c.configurationDir, c.DataDir, name)
	}
}

// LogPath returns the path of the structured log or the empty string if
// logging is disabled.
func (c *Configuration) LogPath() string {
	if c.LogFile == "" {
		return ""
	}
	if filepath.IsAbs(c.LogFile) {
		return c.LogFile
	}
	return c.DataPath(c.LogFile)
}

// Default returns the built-in configuration rooted at dir.
func Default(dir string) *Configuration {
	out := defaultConfig()
	out.configurationDir = dir
	return out
}

func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}
