package startup

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"video-library/internal/logging"
)

// Build-time variables (injected via -ldflags).
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// Config holds all application configuration.
type Config struct {
	VideoDir       string
	DatabaseDir    string
	Port           string
	MetricsPort    string
	MetricsEnabled bool
	IndexInterval  time.Duration
	LogStaticFiles bool

	// Derived paths
	DatabasePath string
}

// LoadConfig loads and validates configuration from the environment.
// A .env file in the working directory is applied first if present.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logging.Warn("Failed to load .env file: %v", err)
	}

	printBanner()

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")

	videoDir := getEnv("VIDEO_DIR", "./videos")
	databaseDir := getEnv("DATABASE_DIR", ".")
	port := getEnv("PORT", "8080")
	metricsPort := getEnv("METRICS_PORT", "9090")
	metricsEnabled := getEnvBool("METRICS_ENABLED", true)
	indexIntervalStr := getEnv("INDEX_INTERVAL", "30m")
	logStaticFiles := getEnvBool("LOG_STATIC_FILES", false)

	logging.Info("  VIDEO_DIR:        %s", videoDir)
	logging.Info("  DATABASE_DIR:     %s", databaseDir)
	logging.Info("  PORT:             %s", port)
	logging.Info("  METRICS_PORT:     %s", metricsPort)
	logging.Info("  METRICS_ENABLED:  %v", metricsEnabled)
	logging.Info("  INDEX_INTERVAL:   %s", indexIntervalStr)
	logging.Info("  LOG_STATIC_FILES: %v", logStaticFiles)
	logging.Info("  LOG_LEVEL:        %s", logging.GetLevel())

	indexInterval, err := time.ParseDuration(indexIntervalStr)
	if err != nil {
		logging.Warn("  Invalid INDEX_INTERVAL %q, using default: 30m", indexIntervalStr)
		indexInterval = 30 * time.Minute
	}

	videoDir, err = filepath.Abs(videoDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve video directory path: %w", err)
	}
	if err := ensureDirectory(videoDir, "video"); err != nil {
		return nil, err
	}

	databaseDir, err = filepath.Abs(databaseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database directory path: %w", err)
	}
	if err := ensureDirectory(databaseDir, "database"); err != nil {
		return nil, err
	}

	return &Config{
		VideoDir:       videoDir,
		DatabaseDir:    databaseDir,
		Port:           port,
		MetricsPort:    metricsPort,
		MetricsEnabled: metricsEnabled,
		IndexInterval:  indexInterval,
		LogStaticFiles: logStaticFiles,
		DatabasePath:   filepath.Join(databaseDir, "video_site.db"),
	}, nil
}

// LogServerStarted logs successful server start.
func LogServerStarted(port string, startupTime time.Duration) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SERVER READY in %v", startupTime.Round(time.Millisecond))
	logging.Info("  Listening on http://localhost:%s", port)
	logging.Info("------------------------------------------------------------")
}

// LogShutdownInitiated logs shutdown start.
func LogShutdownInitiated(signal string) {
	logging.Info("")
	logging.Info("Received %s, shutting down gracefully...", signal)
}

// LogShutdownComplete logs shutdown completion.
func LogShutdownComplete() {
	logging.Info("Shutdown complete")
}

// LogFatal logs a fatal error and exits.
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}

func printBanner() {
	banner := `
------------------------------------------------------------
  _    ___     __           __    _ __
 | |  / (_)___/ /__  ____  / /   (_) /_  _________ ________  __
 | | / / / __  / _ \/ __ \/ /   / / __ \/ ___/ __ '/ ___/ / / /
 | |/ / / /_/ /  __/ /_/ / /___/ / /_/ / /  / /_/ / /  / /_/ /
 |___/_/\__,_/\___/\____/_____/_/_.___/_/   \__,_/_/   \__, /
                                                      /____/
------------------------------------------------------------`
	fmt.Println(banner)
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Build Time: %s", BuildTime)
	logging.Info("  Go:         %s (%s/%s)", GoVersion, runtime.GOOS, runtime.GOARCH)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
	logging.Info("")
}

// ensureDirectory verifies the directory exists, creating it if needed.
func ensureDirectory(path, name string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		logging.Info("  Creating %s directory: %s", name, path)
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("failed to create %s directory %s: %w", name, path, err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat %s directory %s: %w", name, path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s path %s is not a directory", name, path)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
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
