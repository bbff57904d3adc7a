package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"sensor-dashboard/backend/pkg/dialect"
)

type EnvKey string

const (
	EnvPort      EnvKey = "PORT"
	EnvDataDir   EnvKey = "DATA_DIR"
	EnvLogLevel  EnvKey = "LOG_LEVEL"
	EnvLogToFile EnvKey = "LOG_TO_FILE"

	EnvCompactionWidth EnvKey = "COMPACTION_WIDTH"
	EnvHistoryCapacity EnvKey = "HISTORY_CAPACITY"
	EnvLockWaitWarn    EnvKey = "LOCK_WAIT_WARN"
	EnvRefreshInterval EnvKey = "REFRESH_INTERVAL"

	EnvJournalDialect EnvKey = "JOURNAL_DIALECT"
	EnvDBHost         EnvKey = "DB_HOST"
	EnvDBPort         EnvKey = "DB_PORT"
	EnvDBName         EnvKey = "DB_NAME"
	EnvDBUser         EnvKey = "DB_USER"
	EnvDBPass         EnvKey = "DB_PASSWORD"
	EnvDBSSLMode      EnvKey = "DB_SSLMODE"

	EnvMQTTServerEnabled EnvKey = "MQTT_SERVER_ENABLED"
	EnvMQTTServerPort    EnvKey = "MQTT_SERVER_PORT"

	EnvMQTTBroker      EnvKey = "MQTT_BROKER"
	EnvMQTTClientID    EnvKey = "MQTT_CLIENT_ID"
	EnvMQTTUsername    EnvKey = "MQTT_USERNAME"
	EnvMQTTPassword    EnvKey = "MQTT_PASSWORD"
	EnvMQTTTopicPrefix EnvKey = "MQTT_TOPIC_PREFIX"

	EnvSimulateSensors  EnvKey = "SIMULATE_SENSORS"
	EnvSimulateInterval EnvKey = "SIMULATE_INTERVAL"
)

const (
	// 4 samples per datapoint, 300 datapoints per sensor.
	DefaultCompactionWidth = 4
	DefaultHistoryCapacity = 300

	DefaultTopicPrefix = "home/sensors"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Port      int
	DataDir   string
	LogLevel  slog.Leveler
	LogToFile bool
	LogOutput io.Writer

	// Aggregation
	CompactionWidth int
	HistoryCapacity int
	LockWaitWarn    time.Duration
	RefreshInterval time.Duration

	// Journal
	Dialect  dialect.Dialect
	Database string

	// Embedded MQTT server
	MQTTServerEnabled bool
	MQTTServerPort    int

	// MQTT client
	MQTTBroker      string
	MQTTClientID    string
	MQTTUsername    string
	MQTTPassword    string
	MQTTTopicPrefix string

	// Simulator
	SimulateSensors  []string
	SimulateInterval time.Duration
}

// New reads the configuration from the environment. clientID is the default
// MQTT client ID for the calling binary.
func New(clientID string) (*Config, error) {
	dataDir := getStringEnv(EnvDataDir, "data")

	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	c := &Config{
		Port:      getIntEnv(EnvPort, 8080),
		DataDir:   dataDir,
		LogLevel:  getLogLevelEnv(EnvLogLevel, slog.LevelInfo),
		LogToFile: getBoolEnv(EnvLogToFile, false),
		LogOutput: os.Stdout,

		CompactionWidth: getIntEnv(EnvCompactionWidth, DefaultCompactionWidth),
		HistoryCapacity: getIntEnv(EnvHistoryCapacity, DefaultHistoryCapacity),
		LockWaitWarn:    getDurationEnv(EnvLockWaitWarn, 50*time.Millisecond),
		RefreshInterval: getDurationEnv(EnvRefreshInterval, time.Second),

		Dialect: dialect.Dialect(strings.ToLower(getStringEnv(EnvJournalDialect, string(dialect.None)))),

		MQTTServerEnabled: getBoolEnv(EnvMQTTServerEnabled, true),
		MQTTServerPort:    getIntEnv(EnvMQTTServerPort, 1883),

		MQTTBroker:      getStringEnv(EnvMQTTBroker, "tcp://127.0.0.1:1883"),
		MQTTClientID:    getStringEnv(EnvMQTTClientID, clientID),
		MQTTUsername:    getStringEnv(EnvMQTTUsername, ""),
		MQTTPassword:    getStringEnv(EnvMQTTPassword, ""),
		MQTTTopicPrefix: strings.Trim(getStringEnv(EnvMQTTTopicPrefix, DefaultTopicPrefix), "/"),

		SimulateSensors:  getListEnv(EnvSimulateSensors, []string{"temp@kitchen", "temp@bedroom", "temp@cellar"}),
		SimulateInterval: getDurationEnv(EnvSimulateInterval, 2*time.Second),
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	dbConnString, err := c.databaseConnString()
	if err != nil {
		return nil, err
	}

	c.Database = dbConnString

	if c.LogToFile {
		f, err := os.OpenFile(filepath.Join(dataDir, "app.log"), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}

		c.LogOutput = f
	}

	return c, nil
}

func (c *Config) validate() error {
	if c.CompactionWidth <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidConfig, EnvCompactionWidth, c.CompactionWidth)
	}

	if c.HistoryCapacity <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidConfig, EnvHistoryCapacity, c.HistoryCapacity)
	}

	if c.RefreshInterval <= 0 {
		return fmt.Errorf("%w: %s must be positive", ErrInvalidConfig, EnvRefreshInterval)
	}

	if c.SimulateInterval <= 0 {
		return fmt.Errorf("%w: %s must be positive", ErrInvalidConfig, EnvSimulateInterval)
	}

	if c.MQTTTopicPrefix == "" {
		return fmt.Errorf("%w: %s must not be empty", ErrInvalidConfig, EnvMQTTTopicPrefix)
	}

	if strings.ContainsAny(c.MQTTTopicPrefix, "+#{}") {
		return fmt.Errorf("%w: %s must not contain wildcards or parameters", ErrInvalidConfig, EnvMQTTTopicPrefix)
	}

	if err := c.Dialect.Validate(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, EnvJournalDialect, err)
	}

	return nil
}

func (c *Config) databaseConnString() (string, error) {
	switch c.Dialect {
	case dialect.None:
		return "", nil
	case dialect.SQLite:
		return filepath.Join(c.DataDir, "journal.sqlite"), nil
	case dialect.PostgreSQL:
		host := getStringEnv(EnvDBHost, "localhost")
		port := getIntEnv(EnvDBPort, 5432)
		dbName := getStringEnv(EnvDBName, "sensors")
		user := getStringEnv(EnvDBUser, "sensors")
		password := getStringEnv(EnvDBPass, "")
		sslmode := getStringEnv(EnvDBSSLMode, "disable")

		return fmt.Sprintf(
			"postgresql://%s:%s@%s/%s?sslmode=%s",
			url.QueryEscape(user),
			url.QueryEscape(password),
			net.JoinHostPort(host, strconv.Itoa(port)),
			dbName, sslmode,
		), nil
	default:
		return "", fmt.Errorf("unsupported dialect: %s", c.Dialect)
	}
}

func (c *Config) Close() error {
	if f, ok := c.LogOutput.(*os.File); ok {
		if f != os.Stdout && f != os.Stderr {
			return f.Close()
		}
	}

	return nil
}

func getStringEnv(key EnvKey, defaultVal string) string {
	val, exists := os.LookupEnv(string(key))
	if !exists {
		return defaultVal
	}

	return val
}

func getBoolEnv(key EnvKey, defaultVal bool) bool {
	val, exists := os.LookupEnv(string(key))
	if !exists {
		return defaultVal
	}

	switch strings.ToLower(val) {
	case "true", "1":
		return true
	default:
		return false
	}
}

func getIntEnv(key EnvKey, defaultVal int) int {
	val, exists := os.LookupEnv(string(key))
	if !exists {
		return defaultVal
	}

	if intVal, err := strconv.Atoi(val); err == nil {
		return intVal
	}

	return defaultVal
}

func getDurationEnv(key EnvKey, defaultVal time.Duration) time.Duration {
	val, exists := os.LookupEnv(string(key))
	if !exists {
		return defaultVal
	}

	if d, err := time.ParseDuration(val); err == nil {
		return d
	}

	return defaultVal
}

// getListEnv splits a comma separated value, dropping empty items.
func getListEnv(key EnvKey, defaultVal []string) []string {
	val, exists := os.LookupEnv(string(key))
	if !exists {
		return defaultVal
	}

	var out []string

	for item := range strings.SplitSeq(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}

	return out
}

func getLogLevelEnv(key EnvKey, defaultVal slog.Leveler) slog.Leveler {
	val, exists := os.LookupEnv(string(key))
	if !exists {
		return defaultVal
	}

	switch strings.ToUpper(val) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	}

	return defaultVal
}
