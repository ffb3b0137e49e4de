// Package cli implements the mckinley command line tool on top of httpclient.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mckinley/go-api-rest-client/httpclient"
	"github.com/spf13/cobra"
)

const (
	outputTable = "table"
	outputJSON  = "json"

	defaultCLILogLevel = "LogLevelError"
)

// rootFlags holds global CLI flags
type rootFlags struct {
	Env        string
	Config     string
	LogLevel   string
	PinnedCert string
	Output     string
}

// app carries the state shared by every command of one execution.
type app struct {
	flags     rootFlags
	newClient func(httpclient.ClientConfig) (*httpclient.Client, error)
}

// Execute runs the root command with args.
func Execute(ctx context.Context, args []string) error {
	root := newRootCmd(&app{newClient: buildClient}, os.Stdout, os.Stderr)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func buildClient(config httpclient.ClientConfig) (*httpclient.Client, error) {
	return httpclient.BuildClient(config, true)
}

func newRootCmd(a *app, out, errOut io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "mckinley",
		Short:         "Call the McKinley REST service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if a.flags.Output != outputTable && a.flags.Output != outputJSON {
				return fmt.Errorf("--output must be %q or %q, got %q", outputTable, outputJSON, a.flags.Output)
			}
			return nil
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.Env, "env", "", "Environment to call: alpha, beta, preProd or prod")
	pf.StringVar(&a.flags.Config, "config", "", "Path to a JSON client configuration file")
	pf.StringVar(&a.flags.LogLevel, "log-level", defaultCLILogLevel, "Log level, e.g. LogLevelDebug or LogLevelInfo")
	pf.StringVar(&a.flags.PinnedCert, "pinned-cert", "", "DER or PEM certificate the server must present")
	pf.StringVarP(&a.flags.Output, "output", "o", outputTable, "Output format: table or json")

	root.AddCommand(
		newLoginCmd(a),
		newUploadCmd(a),
		newEndpointsCmd(a),
		newVersionCmd(),
	)
	return root
}

// client builds an API client from the config file, MCKINLEY_* variables and flags, in
// increasing order of precedence.
func (a *app) client(cmd *cobra.Command) (*httpclient.Client, error) {
	var config *httpclient.ClientConfig
	if a.flags.Config != "" {
		loaded, err := httpclient.LoadConfigFromFile(a.flags.Config)
		if err != nil {
			return nil, err
		}
		config = loaded
	}

	config, err := httpclient.LoadConfigFromEnv(config)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	flags := cmd.Flags()
	if a.flags.Env != "" {
		config.Environment = a.flags.Env
	}
	if flags.Changed("log-level") || (a.flags.Config == "" && os.Getenv(httpclient.EnvPrefix+"LOG_LEVEL") == "") {
		config.LogLevel = a.flags.LogLevel
	}
	if a.flags.PinnedCert != "" {
		config.PinnedCertificatePath = a.flags.PinnedCert
	}

	return a.newClient(*config)
}
