package startup

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"tube-adventures/internal/logging"
	"tube-adventures/internal/videoid"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// Config holds all application configuration
type Config struct {
	AnnotationsDir      string        `validate:"required"`
	AnnotationExtension string        `validate:"required,startswith=."`
	VideosDir           string        `validate:"omitempty"`
	SourcesFile         string        `validate:"omitempty"`
	DatabaseDir         string        `validate:"required"`
	StartVideoID        string        `validate:"omitempty,videoid"`
	Port                int           `validate:"min=1,max=65535"`
	MetricsPort         int           `validate:"min=1,max=65535,nefield=Port"`
	IndexInterval       time.Duration `validate:"gte=0"`
	IndexWorkers        int           `validate:"gte=0"`
	AllowedOrigins      []string      `validate:"dive,required"`

	AbortOnNavigationFailure bool
	WatchEnabled             bool
	MetricsEnabled           bool
	LogStaticFiles           bool
	LogHealthChecks          bool

	// Derived
	DatabasePath  string
	VideosEnabled bool
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("videoid", func(fl validator.FieldLevel) bool {
		return videoid.Valid(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// LoadConfig loads and validates configuration from environment variables
func LoadConfig() (*Config, error) {
	printBanner()
	logSystemInfo()

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")

	config, err := readConfig()
	if err != nil {
		return nil, err
	}
	logConfig(config)

	if err := Validate(config); err != nil {
		return nil, err
	}

	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("DIRECTORY SETUP")
	logging.Info("------------------------------------------------------------")

	if err := prepareDirectories(config); err != nil {
		return nil, err
	}

	logging.Info("")
	logging.Info("  Feature availability:")
	logging.Info("    Database:        ENABLED (required)")
	logging.Info("    Local videos:    %s", enabledString(config.VideosEnabled))
	logging.Info("    Sources file:    %s", enabledString(config.SourcesFile != ""))
	logging.Info("    Directory watch: %s", enabledString(config.WatchEnabled))
	logging.Info("    Metrics:         %s", enabledString(config.MetricsEnabled))

	return config, nil
}

// readConfig reads the environment without touching the file system.
func readConfig() (*Config, error) {
	port, err := getEnvInt("PORT", 8080)
	if err != nil {
		return nil, err
	}
	metricsPort, err := getEnvInt("METRICS_PORT", 9090)
	if err != nil {
		return nil, err
	}
	workers, err := getEnvInt("INDEX_WORKERS", 0)
	if err != nil {
		return nil, err
	}

	indexInterval, err := time.ParseDuration(getEnv("INDEX_INTERVAL", "30m"))
	if err != nil {
		return nil, fmt.Errorf("invalid INDEX_INTERVAL: %w", err)
	}

	return &Config{
		AnnotationsDir:           getEnv("ANNOTATIONS_DIR", "/annotations"),
		AnnotationExtension:      getEnv("ANNOTATION_EXTENSION", ".xml"),
		VideosDir:                getEnv("VIDEOS_DIR", "/videos"),
		SourcesFile:              getEnv("SOURCES_FILE", ""),
		DatabaseDir:              getEnv("DATABASE_DIR", "/database"),
		StartVideoID:             getEnv("START_VIDEO", ""),
		Port:                     port,
		MetricsPort:              metricsPort,
		IndexInterval:            indexInterval,
		IndexWorkers:             workers,
		AllowedOrigins:           splitList(getEnv("ALLOWED_ORIGINS", "")),
		AbortOnNavigationFailure: getEnvBool("ABORT_ON_NAVIGATION_FAILURE", true),
		WatchEnabled:             getEnvBool("WATCH_ENABLED", true),
		MetricsEnabled:           getEnvBool("METRICS_ENABLED", true),
		LogStaticFiles:           getEnvBool("LOG_STATIC_FILES", false),
		LogHealthChecks:          getEnvBool("LOG_HEALTH_CHECKS", true),
	}, nil
}

func logConfig(c *Config) {
	logging.Info("  ANNOTATIONS_DIR:             %s", c.AnnotationsDir)
	logging.Info("  ANNOTATION_EXTENSION:        %s", c.AnnotationExtension)
	logging.Info("  VIDEOS_DIR:                  %s", c.VideosDir)
	logging.Info("  SOURCES_FILE:                %s", orNone(c.SourcesFile))
	logging.Info("  DATABASE_DIR:                %s", c.DatabaseDir)
	logging.Info("  START_VIDEO:                 %s", orNone(c.StartVideoID))
	logging.Info("  PORT:                        %d", c.Port)
	logging.Info("  METRICS_PORT:                %d", c.MetricsPort)
	logging.Info("  METRICS_ENABLED:             %v", c.MetricsEnabled)
	logging.Info("  INDEX_INTERVAL:              %s", c.IndexInterval)
	logging.Info("  INDEX_WORKERS:               %d", c.IndexWorkers)
	logging.Info("  WATCH_ENABLED:               %v", c.WatchEnabled)
	logging.Info("  ABORT_ON_NAVIGATION_FAILURE: %v", c.AbortOnNavigationFailure)
	logging.Info("  ALLOWED_ORIGINS:             %s", orNone(strings.Join(c.AllowedOrigins, ",")))
	logging.Info("  LOG_STATIC_FILES:            %v", c.LogStaticFiles)
	logging.Info("  LOG_HEALTH_CHECKS:           %v", c.LogHealthChecks)
	logging.Info("  LOG_LEVEL:                   %s", logging.GetLevel())
}

// Validate checks a configuration and reports every invalid field at once.
func Validate(c *Config) error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating configuration: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := fmt.Sprintf("%s failed on the '%s' tag", fe.Field(), fe.Tag())
		if fe.Param() != "" {
			msg += fmt.Sprintf(" (%s)", fe.Param())
		}
		msgs = append(msgs, msg)
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

func prepareDirectories(c *Config) error {
	var err error

	if c.AnnotationsDir, err = filepath.Abs(c.AnnotationsDir); err != nil {
		return fmt.Errorf("failed to resolve annotations directory path: %w", err)
	}
	logging.Info("  Annotations directory (absolute): %s", c.AnnotationsDir)

	if c.DatabaseDir, err = filepath.Abs(c.DatabaseDir); err != nil {
		return fmt.Errorf("failed to resolve database directory path: %w", err)
	}
	logging.Info("  Database directory (absolute): %s", c.DatabaseDir)

	// The annotations directory is mounted, never created.
	if err := checkDirectory(c.AnnotationsDir); err != nil {
		return fmt.Errorf("annotations directory error: %w", err)
	}
	if logging.IsDebugEnabled() {
		logging.Debug("    Contents: %d entries", countEntries(c.AnnotationsDir))
	}

	if c.VideosDir != "" {
		if c.VideosDir, err = filepath.Abs(c.VideosDir); err != nil {
			return fmt.Errorf("failed to resolve videos directory path: %w", err)
		}
		if err := checkDirectory(c.VideosDir); err != nil {
			logging.Warn("  Videos directory issue: %v", err)
			logging.Warn("  Local videos will not be served")
		} else {
			c.VideosEnabled = true
			logging.Info("  Videos directory (absolute): %s", c.VideosDir)
		}
	}

	if c.SourcesFile != "" {
		if c.SourcesFile, err = filepath.Abs(c.SourcesFile); err != nil {
			return fmt.Errorf("failed to resolve sources file path: %w", err)
		}
		info, err := os.Stat(c.SourcesFile)
		if err != nil {
			return fmt.Errorf("sources file error: %w", err)
		}
		if info.IsDir() {
			return fmt.Errorf("sources file %s is a directory", c.SourcesFile)
		}
	}

	if err := ensureDirectory(c.DatabaseDir); err != nil {
		return fmt.Errorf("database directory error: %w", err)
	}
	logging.Debug("  Testing database directory write access...")
	if err := testWriteAccess(c.DatabaseDir); err != nil {
		return fmt.Errorf("database directory is not writable (required for database): %w", err)
	}
	logging.Info("  [OK] Database directory is writable")

	c.DatabasePath = filepath.Join(c.DatabaseDir, "catalog.db")
	return nil
}

func enabledString(enabled bool) string {
	if enabled {
		return "ENABLED"
	}
	return "DISABLED"
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func printBanner() {
	banner := `
------------------------------------------------------------
  _____      _                   _                 _
 |_   _|   _| |__   ___     /\  | |_   _____ _ __ | |_ _   _ _ __ ___  ___
   | || | | | '_ \ / _ \   /  \ | \ \ / / _ \ '_ \| __| | | | '__/ _ \/ __|
   | || |_| | |_) |  __/  / /\ \| |\ V /  __/ | | | |_| |_| | | |  __/\__ \
   |_| \__,_|_.__/ \___| /_/  \_\_| \_/ \___|_| |_|\__|\__,_|_|  \___||___/

------------------------------------------------------------`
	fmt.Println(banner)
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Build Time: %s", BuildTime)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
	logging.Info("")
}

func logSystemInfo() {
	logging.Info("------------------------------------------------------------")
	logging.Info("SYSTEM INFORMATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Go version:      %s", runtime.Version())
	logging.Info("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Info("  CPUs available:  %d", runtime.NumCPU())
	logging.Info("  GOMAXPROCS:      %d", runtime.GOMAXPROCS(0))

	if logging.IsDebugEnabled() {
		if wd, err := os.Getwd(); err == nil {
			logging.Debug("  Working dir:     %s", wd)
		}
		if hostname, err := os.Hostname(); err == nil {
			logging.Debug("  Hostname:        %s", hostname)
		}
	}
	logging.Info("")
}

func checkDirectory(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s exists but is not a directory", path)
	}
	return nil
}

func countEntries(path string) int {
	entries, err := os.ReadDir(path)
	if err != nil {
		return 0
	}
	return len(entries)
}

func ensureDirectory(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		logging.Debug("    Directory %s does not exist, creating...", path)
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path exists but is not a directory")
	}
	return nil
}

func testWriteAccess(dir string) error {
	testFile := filepath.Join(dir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		return err
	}
	if err := os.Remove(testFile); err != nil {
		logging.Warn("failed to remove write test file %s: %v", testFile, err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q is not a number", key, value)
	}
	return parsed, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
