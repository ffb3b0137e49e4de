// httpclient/client_configuration.go
// Description: This file contains functions to load and validate configuration values from a JSON file or environment variables.
package httpclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mckinley/go-api-rest-client/endpoint"
	"github.com/mckinley/go-api-rest-client/logger"
	"github.com/mckinley/go-api-rest-client/transport"
)

const (
	DefaultEnvironment           = string(endpoint.DefaultEnvironment)
	DefaultLogLevelString        = "LogLevelInfo"
	DefaultLogOutputFormatString = logger.LogOutputPretty
	DefaultLogConsoleSeparator   = "	"
	DefaultLogExportPath         = "logs"
	DefaultExportLogs            = false
	DefaultHideSensitiveData     = false
	DefaultCookieJarEnabled      = false
	DefaultCustomTimeout         = transport.DefaultTimeout
	DefaultFollowRedirects       = false
	DefaultMaxRedirects          = 5
	DefaultStrictRequestEncoding = false

	// EnvPrefix prefixes every environment variable read by LoadConfigFromEnv.
	EnvPrefix           = "MCKINLEY_"
	ConfigFileExtension = ".json"
)

// JSONDuration is a time.Duration that reads "60s" style strings, or plain nanoseconds, from JSON.
type JSONDuration time.Duration

// Duration returns d as a time.Duration.
func (d JSONDuration) Duration() time.Duration {
	return time.Duration(d)
}

func (d JSONDuration) String() string {
	return time.Duration(d).String()
}

// MarshalJSON writes d as a duration string.
func (d JSONDuration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts a duration string or a number of nanoseconds.
func (d *JSONDuration) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch value := raw.(type) {
	case float64:
		*d = JSONDuration(time.Duration(value))
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		*d = JSONDuration(parsed)
		return nil
	case nil:
		return nil
	default:
		return fmt.Errorf("invalid duration: %s", string(data))
	}
}

// LoadConfigFromFile loads http client configuration settings from a JSON file.
func LoadConfigFromFile(filepath string) (*ClientConfig, error) {
	absPath, err := validateFilePath(filepath)
	if err != nil {
		return nil, fmt.Errorf("invalid file path: %v", err)
	}

	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("could not open file: %v", err)
	}
	defer file.Close()

	byteValue, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("could not read file: %v", err)
	}

	var config ClientConfig
	err = json.Unmarshal(byteValue, &config)
	if err != nil {
		return nil, fmt.Errorf("could not unmarshal JSON: %v", err)
	}

	// Set default values for missing fields.
	SetDefaultValuesClientConfig(&config)

	return &config, nil
}

// LoadConfigFromEnv overlays settings found in MCKINLEY_* environment variables onto config.
// A nil config starts from the defaults. Variables that are not set leave the field as it is.
func LoadConfigFromEnv(config *ClientConfig) (*ClientConfig, error) {
	if config == nil {
		config = &ClientConfig{}
		SetDefaultValuesClientConfig(config)
	}

	// Endpoints
	config.Environment = getEnvAsString("ENVIRONMENT", config.Environment)

	// Log
	config.LogLevel = getEnvAsString("LOG_LEVEL", config.LogLevel)
	config.LogOutputFormat = getEnvAsString("LOG_OUTPUT_FORMAT", config.LogOutputFormat)
	config.LogConsoleSeparator = getEnvAsString("LOG_CONSOLE_SEPARATOR", config.LogConsoleSeparator)
	config.ExportLogs = getEnvAsBool("EXPORT_LOGS", config.ExportLogs)
	config.LogExportPath = getEnvAsString("LOG_EXPORT_PATH", config.LogExportPath)
	config.HideSensitiveData = getEnvAsBool("HIDE_SENSITIVE_DATA", config.HideSensitiveData)

	// TLS
	config.PinnedCertificatePath = getEnvAsString("PINNED_CERTIFICATE_PATH", config.PinnedCertificatePath)

	// Cookies
	config.CookieJarEnabled = getEnvAsBool("COOKIE_JAR_ENABLED", config.CookieJarEnabled)

	// Proxy
	config.ProxyURL = getEnvAsString("PROXY_URL", config.ProxyURL)
	config.ProxyUsername = getEnvAsString("PROXY_USERNAME", config.ProxyUsername)
	config.ProxyPassword = getEnvAsString("PROXY_PASSWORD", config.ProxyPassword)

	// Encoding
	config.StrictRequestEncoding = getEnvAsBool("STRICT_REQUEST_ENCODING", config.StrictRequestEncoding)
	config.DateLayout = getEnvAsString("DATE_LAYOUT", config.DateLayout)

	// Misc
	config.CustomTimeout = JSONDuration(getEnvAsDuration("CUSTOM_TIMEOUT", config.CustomTimeout.Duration()))
	config.FollowRedirects = getEnvAsBool("FOLLOW_REDIRECTS", config.FollowRedirects)
	config.MaxRedirects = getEnvAsInt("MAX_REDIRECTS", config.MaxRedirects)

	if err := validateClientConfig(config, false); err != nil {
		return nil, err
	}
	return config, nil
}

// validateClientConfig checks config, first filling in defaults when populateDefaults is set.
func validateClientConfig(config *ClientConfig, populateDefaults bool) error {
	if populateDefaults {
		SetDefaultValuesClientConfig(config)
	}

	if _, err := endpoint.ParseEnvironment(config.Environment); err != nil {
		return err
	}

	if config.LogLevel != "" && !logger.IsValidLogLevel(config.LogLevel) {
		return fmt.Errorf("unknown log level %q", config.LogLevel)
	}

	if config.LogOutputFormat != logger.LogOutputJSON && config.LogOutputFormat != logger.LogOutputPretty {
		return fmt.Errorf("log output format must be %q or %q, got %q", logger.LogOutputJSON, logger.LogOutputPretty, config.LogOutputFormat)
	}

	if config.ExportLogs && config.LogExportPath == "" {
		return errors.New("log export path cannot be empty when exporting logs")
	}

	if config.CustomTimeout.Duration() < 0 {
		return errors.New("timeout cannot be less than 0 seconds")
	}

	if config.FollowRedirects && config.MaxRedirects < 1 {
		return errors.New("max redirects cannot be less than 1")
	}

	return nil
}

// SetDefaultValuesClientConfig sets default values for the client configuration. Ensuring that all fields have a valid or minimum value.
func SetDefaultValuesClientConfig(config *ClientConfig) {
	setDefaultString(&config.Environment, DefaultEnvironment)
	setDefaultString(&config.LogLevel, DefaultLogLevelString)
	setDefaultString(&config.LogOutputFormat, DefaultLogOutputFormatString)
	setDefaultString(&config.LogConsoleSeparator, DefaultLogConsoleSeparator)
	setDefaultString(&config.LogExportPath, DefaultLogExportPath)
	setDefaultDuration(&config.CustomTimeout, DefaultCustomTimeout)
	setDefaultInt(&config.MaxRedirects, DefaultMaxRedirects, 1)
}

// validateFilePath resolves path and checks it names a .json file without traversal patterns.
func validateFilePath(path string) (string, error) {
	cleanPath := filepath.Clean(path)

	absPath, err := filepath.EvalSymlinks(cleanPath)
	if err != nil {
		return "", fmt.Errorf("unable to resolve the absolute path of the configuration file: %s, error: %w", path, err)
	}

	if strings.Contains(absPath, "..") {
		return "", fmt.Errorf("invalid path, path traversal patterns detected: %s", path)
	}

	if filepath.Ext(absPath) != ConfigFileExtension {
		return "", fmt.Errorf("invalid file extension for configuration file: %s, expected .json", path)
	}

	return absPath, nil
}

func setDefaultString(field *string, defaultValue string) {
	if *field == "" {
		*field = defaultValue
	}
}

func setDefaultInt(field *int, defaultValue, minValue int) {
	if *field < minValue {
		*field = defaultValue
	}
}

func setDefaultDuration(field *JSONDuration, defaultValue time.Duration) {
	if *field <= 0 {
		*field = JSONDuration(defaultValue)
	}
}

// getEnvAsString reads EnvPrefix+name, returning defaultVal when it is not set.
func getEnvAsString(name string, defaultVal string) string {
	if value, exists := os.LookupEnv(EnvPrefix + name); exists {
		return value
	}
	return defaultVal
}

func getEnvAsBool(name string, defaultVal bool) bool {
	value, err := strconv.ParseBool(getEnvAsString(name, ""))
	if err != nil {
		return defaultVal
	}
	return value
}

func getEnvAsInt(name string, defaultVal int) int {
	value, err := strconv.Atoi(getEnvAsString(name, ""))
	if err != nil {
		return defaultVal
	}
	return value
}

func getEnvAsDuration(name string, defaultVal time.Duration) time.Duration {
	value, err := time.ParseDuration(getEnvAsString(name, ""))
	if err != nil {
		return defaultVal
	}
	return value
}
