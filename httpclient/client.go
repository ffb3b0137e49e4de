// httpclient/client.go
/* The httpclient package is the entry point of the REST pipeline. A Client resolves named endpoints
for the configured environment, builds JSON or multipart requests, sends them over a 60 second,
optionally certificate-pinned HTTP client and decodes the answer into the caller's type.
Every failure is an *apierror.Error whose Kind tells the caller what went wrong. */
package httpclient

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"sync"

	"github.com/mckinley/go-api-rest-client/endpoint"
	"github.com/mckinley/go-api-rest-client/logger"
	"github.com/mckinley/go-api-rest-client/multipart"
	"github.com/mckinley/go-api-rest-client/pinning"
	"github.com/mckinley/go-api-rest-client/request"
	"github.com/mckinley/go-api-rest-client/response"
	"github.com/mckinley/go-api-rest-client/transport"
	"go.uber.org/zap"
)

// Master struct/object
type Client struct {
	// Private
	config    ClientConfig
	http      *http.Client
	lock      sync.Mutex
	requests  *request.Builder
	multipart *multipart.Builder
	executor  *transport.Executor
	decoder   *response.Decoder

	// Exported
	Logger   logger.Logger
	Registry *endpoint.Registry
}

// Options/Variables for Client
type ClientConfig struct {
	// Endpoints
	Environment string                          // alpha, beta, preProd or prod
	BaseURLs    map[endpoint.Environment]string // base URL per environment for relative endpoint paths
	Endpoints   []endpoint.Definition           // extra endpoints, added to the built-in ones

	// Log
	LogLevel            string
	LogOutputFormat     string // Output format of the logs. Use "json" for JSON format, "pretty" for human-readable format
	LogConsoleSeparator string
	ExportLogs          bool
	LogExportPath       string
	HideSensitiveData   bool

	// TLS
	PinnedCertificatePath string      // DER or PEM certificate the server's leaf must equal; empty disables pinning
	TLSConfig             *tls.Config `json:"-"` // base TLS settings such as RootCAs

	// Cookies
	CookieJarEnabled bool // Enable or disable cookie jar

	// Proxy
	ProxyURL      string
	ProxyUsername string
	ProxyPassword string

	// Encoding
	StrictRequestEncoding bool   // fail calls whose params cannot be encoded instead of sending them without
	DateLayout            string // layout for response.Date fields of this client; empty uses response.DefaultDateLayout

	// Misc
	CustomTimeout   JSONDuration
	FollowRedirects bool
	MaxRedirects    int

	// HTTPExecutor replaces the network client, e.g. with a transport.MockExecutor in tests.
	HTTPExecutor transport.HTTPExecutor `json:"-"`
}

// BuildClient creates a new HTTP client with the provided configuration.
func BuildClient(config ClientConfig, populateDefaultValues bool) (*Client, error) {
	if err := validateClientConfig(&config, populateDefaultValues); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	//region Logging

	parsedLogLevel := logger.ParseLogLevelFromString(config.LogLevel)
	exportPath := ""
	if config.ExportLogs {
		exportPath = config.LogExportPath
	}
	log, err := logger.BuildLogger(parsedLogLevel, config.LogOutputFormat, config.LogConsoleSeparator, exportPath, config.HideSensitiveData)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	//endregion

	//region Endpoints

	env, err := endpoint.ParseEnvironment(config.Environment)
	if err != nil {
		return nil, err
	}
	definitions := append(endpoint.DefaultDefinitions(), config.Endpoints...)
	registry, err := endpoint.NewRegistry(env, config.BaseURLs, definitions)
	if err != nil {
		log.Error("Failed to build endpoint registry", zap.Error(err))
		return nil, err
	}

	//endregion

	//region HTTP

	var verifier *pinning.Verifier
	if config.PinnedCertificatePath != "" {
		verifier = pinning.NewVerifier(pinning.LoadCertificate(config.PinnedCertificatePath, log), log)
	}

	httpClient, err := transport.NewHTTPClient(transport.ClientOptions{
		Timeout:         config.CustomTimeout.Duration(),
		Verifier:        verifier,
		TLSConfig:       config.TLSConfig,
		EnableCookieJar: config.CookieJarEnabled,
		FollowRedirects: config.FollowRedirects,
		MaxRedirects:    config.MaxRedirects,
		Proxy: transport.ProxyConfig{
			URL:      config.ProxyURL,
			Username: config.ProxyUsername,
			Password: config.ProxyPassword,
		},
	}, log)
	if err != nil {
		log.Error("Failed to build HTTP client", zap.Error(err))
		return nil, err
	}

	var executor transport.HTTPExecutor = httpClient
	if config.HTTPExecutor != nil {
		executor = config.HTTPExecutor
	}

	//endregion

	client := &Client{
		config: config,
		http:   httpClient,
		requests: request.NewBuilder(log, request.Options{
			Strict:            config.StrictRequestEncoding,
			HideSensitiveData: config.HideSensitiveData,
		}),
		multipart: multipart.NewBuilder(log),
		decoder:   response.NewDecoder(config.DateLayout, log),
		executor:  transport.NewExecutor(executor, log, config.HideSensitiveData),
		Logger:    log,
		Registry:  registry,
	}

	log.Debug("New API client initialized",
		zap.String("Environment", string(env)),
		zap.Strings("Endpoints", registry.Names()),
		zap.String("Logging Level", config.LogLevel),
		zap.String("Log Encoding Format", config.LogOutputFormat),
		zap.Bool("Hide Sensitive Data In Logs", config.HideSensitiveData),
		zap.Bool("Certificate Pinning", verifier != nil),
		zap.Bool("Cookie Jar Enabled", config.CookieJarEnabled),
		zap.Bool("Follow Redirects", config.FollowRedirects),
		zap.Int("Max Redirects", config.MaxRedirects),
		zap.Bool("Strict Request Encoding", config.StrictRequestEncoding),
		zap.String("Date Layout", client.decoder.DateLayout),
		zap.Duration("Custom Timeout", config.CustomTimeout.Duration()),
	)

	return client, nil
}

// Config returns the configuration the client was built with, defaults applied.
func (c *Client) Config() ClientConfig {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.config
}
