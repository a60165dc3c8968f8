package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/solarviz/orbits/internal/timegrid"
)

// FileName is the optional JSON config file looked up in the config directory.
const FileName = "orbits.cfg.json"

// ErrMissing marks a required key that has no value.
var ErrMissing = errors.New("value not set")

// Error reports an invalid or missing configuration value.
type Error struct {
	Key   string
	Value string
	Err   error
}

func (e *Error) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("config %s: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("config %s=%q: %v", e.Key, e.Value, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// EphemerisConfig selects and tunes the position provider.
type EphemerisConfig struct {
	Mode    string `json:"mode" mapstructure:"mode"`
	Frame   string `json:"frame" mapstructure:"frame"`
	Workers int    `json:"workers" mapstructure:"workers"`
	Cache   bool   `json:"cache" mapstructure:"cache"`
}

// RenderConfig holds figure and page settings.
type RenderConfig struct {
	Title         string        `json:"title" mapstructure:"title"`
	FrameDuration time.Duration `json:"frameDuration" mapstructure:"frameDuration"`
	PlotlyURL     string        `json:"plotlyUrl" mapstructure:"plotlyUrl"`
}

// ServeConfig holds the preview server settings.
type ServeConfig struct {
	Addr string `json:"addr" mapstructure:"addr"`
}

// SQLiteConfig holds sqlite export settings
type SQLiteConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

// PostgresConfig holds postgres export connection settings
type PostgresConfig struct {
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	Database string `json:"database" mapstructure:"database"`
	SSLMode  string `json:"sslMode" mapstructure:"sslMode"`
}

// StorageConfig holds export sink settings
type StorageConfig struct {
	Type           string         `json:"type" mapstructure:"type"`
	OutputDir      string         `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool           `json:"compressOutput" mapstructure:"compressOutput"`
	PlotlyURL      string         `json:"-" mapstructure:"-"`
	SQLite         SQLiteConfig   `json:"sqlite" mapstructure:"sqlite"`
	Postgres       PostgresConfig `json:"postgres" mapstructure:"postgres"`
}

// OTelConfig holds OpenTelemetry settings
type OTelConfig struct {
	Enabled      bool          `json:"enabled" mapstructure:"enabled"`
	ServiceName  string        `json:"serviceName" mapstructure:"serviceName"`
	BatchTimeout time.Duration `json:"batchTimeout" mapstructure:"batchTimeout"`
	Endpoint     string        `json:"endpoint" mapstructure:"endpoint"`
	Insecure     bool          `json:"insecure" mapstructure:"insecure"`
}

// InfluxConfig holds the stage telemetry sink settings
type InfluxConfig struct {
	Enabled    bool   `json:"enabled" mapstructure:"enabled"`
	Protocol   string `json:"protocol" mapstructure:"protocol"`
	Host       string `json:"host" mapstructure:"host"`
	Port       string `json:"port" mapstructure:"port"`
	Token      string `json:"token" mapstructure:"token"`
	Org        string `json:"org" mapstructure:"org"`
	Bucket     string `json:"bucket" mapstructure:"bucket"`
	BackupPath string `json:"backupPath" mapstructure:"backupPath"`
}

// URL returns the server base URL.
func (c InfluxConfig) URL() string {
	return fmt.Sprintf("%s://%s:%s", c.Protocol, c.Host, c.Port)
}

// GraylogConfig holds GELF log shipping settings
type GraylogConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Address string `json:"address" mapstructure:"address"`
}

// Load sets default values, binds the environment and reads the optional JSON
// file from configDir. A missing file is reported as an error; defaults and
// environment values still apply.
func Load(configDir string) error {
	// Set default values
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./orbitlogs")

	viper.SetDefault("ephemeris.mode", "long")
	viper.SetDefault("ephemeris.frame", "equatorial")
	viper.SetDefault("ephemeris.workers", 1)
	viper.SetDefault("ephemeris.cache", true)

	viper.SetDefault("render.title", "")
	viper.SetDefault("render.frameDuration", "100ms")
	viper.SetDefault("render.plotlyUrl", "https://cdn.plot.ly/plotly-2.35.2.min.js")

	viper.SetDefault("serve.addr", ":8050")

	viper.SetDefault("storage.type", "html")
	viper.SetDefault("storage.outputDir", "./output")
	viper.SetDefault("storage.compressOutput", false)
	viper.SetDefault("storage.sqlite.path", "")
	viper.SetDefault("storage.postgres.host", "localhost")
	viper.SetDefault("storage.postgres.port", "5432")
	viper.SetDefault("storage.postgres.username", "postgres")
	viper.SetDefault("storage.postgres.password", "postgres")
	viper.SetDefault("storage.postgres.database", "orbits")
	viper.SetDefault("storage.postgres.sslMode", "disable")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "orbits")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.token", "supersecrettoken")
	viper.SetDefault("influx.org", "orbits")
	viper.SetDefault("influx.bucket", "orbits_performance")
	viper.SetDefault("influx.backupPath", "")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	if err := bindEnv(); err != nil {
		return err
	}

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

func bindEnv() error {
	viper.SetEnvPrefix("ORBITS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	for key, env := range map[string]string{
		"run.startTime": "START_TIME",
		"run.endTime":   "END_TIME",
		"run.numSteps":  "NUM_STEPS",
	} {
		if err := viper.BindEnv(key, env); err != nil {
			return fmt.Errorf("error binding %s: %w", env, err)
		}
	}
	return nil
}

// LoadDotEnv exports the variables of a .env file that the process
// environment does not already define. A missing file is not an error.
// It returns the number of variables exported.
func LoadDotEnv(path string) (int, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return 0, fmt.Errorf("error reading env file %s: %w", path, err)
	}

	exported := 0
	for _, key := range v.AllKeys() {
		name := strings.ToUpper(key)
		if _, ok := os.LookupEnv(name); ok {
			continue
		}
		if err := os.Setenv(name, v.GetString(key)); err != nil {
			return exported, fmt.Errorf("error exporting %s: %w", name, err)
		}
		exported++
	}
	return exported, nil
}

// GetRunConfig builds the time grid configuration from run.startTime,
// run.endTime and run.numSteps. All three are required.
func GetRunConfig() (timegrid.Config, error) {
	start, err := instant("run.startTime")
	if err != nil {
		return timegrid.Config{}, err
	}
	end, err := instant("run.endTime")
	if err != nil {
		return timegrid.Config{}, err
	}

	raw := strings.TrimSpace(viper.GetString("run.numSteps"))
	if raw == "" {
		return timegrid.Config{}, &Error{Key: "run.numSteps", Err: ErrMissing}
	}
	steps, err := strconv.Atoi(raw)
	if err != nil {
		return timegrid.Config{}, &Error{Key: "run.numSteps", Value: raw, Err: err}
	}
	if steps < 1 {
		return timegrid.Config{}, &Error{Key: "run.numSteps", Value: raw, Err: timegrid.ErrInvalidSteps}
	}

	return timegrid.Config{Start: start, End: end, Steps: steps}, nil
}

func instant(key string) (time.Time, error) {
	raw := strings.TrimSpace(viper.GetString(key))
	if raw == "" {
		return time.Time{}, &Error{Key: key, Err: ErrMissing}
	}
	t, err := timegrid.ParseInstant(raw)
	if err != nil {
		return time.Time{}, &Error{Key: key, Value: raw, Err: err}
	}
	return t, nil
}

func GetEphemerisConfig() EphemerisConfig {
	return EphemerisConfig{
		Mode:    viper.GetString("ephemeris.mode"),
		Frame:   viper.GetString("ephemeris.frame"),
		Workers: viper.GetInt("ephemeris.workers"),
		Cache:   viper.GetBool("ephemeris.cache"),
	}
}

func GetRenderConfig() RenderConfig {
	return RenderConfig{
		Title:         viper.GetString("render.title"),
		FrameDuration: viper.GetDuration("render.frameDuration"),
		PlotlyURL:     viper.GetString("render.plotlyUrl"),
	}
}

func GetServeConfig() ServeConfig {
	return ServeConfig{
		Addr: viper.GetString("serve.addr"),
	}
}

func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type:           viper.GetString("storage.type"),
		OutputDir:      viper.GetString("storage.outputDir"),
		CompressOutput: viper.GetBool("storage.compressOutput"),
		PlotlyURL:      viper.GetString("render.plotlyUrl"),
		SQLite: SQLiteConfig{
			Path: viper.GetString("storage.sqlite.path"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("storage.postgres.host"),
			Port:     viper.GetString("storage.postgres.port"),
			Username: viper.GetString("storage.postgres.username"),
			Password: viper.GetString("storage.postgres.password"),
			Database: viper.GetString("storage.postgres.database"),
			SSLMode:  viper.GetString("storage.postgres.sslMode"),
		},
	}
}

func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}

func GetInfluxConfig() InfluxConfig {
	return InfluxConfig{
		Enabled:    viper.GetBool("influx.enabled"),
		Protocol:   viper.GetString("influx.protocol"),
		Host:       viper.GetString("influx.host"),
		Port:       viper.GetString("influx.port"),
		Token:      viper.GetString("influx.token"),
		Org:        viper.GetString("influx.org"),
		Bucket:     viper.GetString("influx.bucket"),
		BackupPath: viper.GetString("influx.backupPath"),
	}
}

func GetGraylogConfig() GraylogConfig {
	return GraylogConfig{
		Enabled: viper.GetBool("graylog.enabled"),
		Address: viper.GetString("graylog.address"),
	}
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
