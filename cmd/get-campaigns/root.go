package main

import (
	"fmt"
	"slices"

	"github.com/iancoleman/strcase"
	"github.com/rundexter/mailchimp-get-campaigns/campaigns"
	"github.com/rundexter/mailchimp-get-campaigns/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tidwall/pretty"
)

// inputFlags are the flags forwarded to the step as inputs, named in kebab case.
var inputFlags = []string{
	"fields",
	"exclude-fields",
	"type",
	"status",
	"before-send-time",
	"before-create-time",
	"count",
}

type runOptions struct {
	configFile string
	server     string
	token      string
	record     bool
	logFormat  string
	debug      bool
}

// newRootCmd builds the command tree. stepOpts are applied after the flag driven options.
func newRootCmd(stepOpts ...campaigns.Option) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "get-campaigns",
		Short: "List Mailchimp campaigns",
		Long: `get-campaigns runs the Mailchimp "get campaigns" workflow step outside the host.

Inputs are taken from a step definition file and/or flags, flags winning.
The data center comes from --server, the definition's environment or
MAILCHIMP_SERVER. The access token comes from --token, the definition's
credentials or MAILCHIMP='{"access_token":"..."}'.`,
		SilenceUsage: true,
	}
	rootCmd.AddCommand(newRunCmd(stepOpts...))
	return rootCmd
}

func newRunCmd(stepOpts ...campaigns.Option) *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Request campaigns and print the projected fields as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, stepOpts)
		},
	}

	flags := cmd.Flags()
	flags.StringSlice("fields", nil, "fields to return (comma separated)")
	flags.StringSlice("exclude-fields", nil, "fields to exclude (comma separated)")
	flags.StringSlice("type", nil, "campaign types: regular, plaintext, absplit, rss, variate")
	flags.StringSlice("status", nil, "campaign statuses: save, paused, schedule, sending, sent")
	flags.String("before-send-time", "", "only campaigns sent before this time (ISO 8601)")
	flags.String("before-create-time", "", "only campaigns created before this time (ISO 8601)")
	flags.String("count", "", "number of records to return")

	flags.StringVarP(&opts.configFile, "config", "c", "", "step definition file (YAML)")
	flags.StringVar(&opts.server, "server", "", "Mailchimp data center, e.g. us6")
	flags.StringVar(&opts.token, "token", "", "Mailchimp access token")
	flags.BoolVar(&opts.record, "record", false, "record requests under testdata/.requests")
	// LOG_FORMAT and LOG_DEBUG set the defaults; the flags still win.
	envLog := logger.FromEnv()
	flags.StringVar(&opts.logFormat, "log-format", envLog.Format, "log format: console or json (env LOG_FORMAT)")
	flags.BoolVar(&opts.debug, "debug", envLog.Debug, "enable debug logging (env LOG_DEBUG)")

	return cmd
}

func run(cmd *cobra.Command, opts runOptions, stepOpts []campaigns.Option) error {
	var def campaigns.StepDefinition
	if opts.configFile != "" {
		var err error
		def, err = campaigns.LoadStepDefinitionFile(opts.configFile)
		if err != nil {
			return err
		}
	}

	inputs := make(map[string]interface{}, len(def.Inputs))
	for k, v := range def.Inputs {
		inputs[k] = v
	}
	for k, v := range inputsFromFlags(cmd.Flags()) {
		inputs[k] = v
	}

	flagEnv := campaigns.MapEnvironment{}
	if opts.server != "" {
		flagEnv[campaigns.ServerEnvKey] = opts.server
	}
	flagCreds := campaigns.MapCredentials{}
	if opts.token != "" {
		flagCreds[campaigns.Provider] = map[string]string{campaigns.AccessTokenKey: opts.token}
	}

	sc := campaigns.StepContext{
		Inputs: inputs,
		Environment: campaigns.ChainEnvironment{
			flagEnv,
			campaigns.MapEnvironment(def.Environment),
			campaigns.OSEnvironment{},
		},
		Credentials: campaigns.ChainCredentials{
			flagCreds,
			campaigns.MapCredentials(def.Credentials),
			campaigns.EnvCredentials{},
		},
	}

	log, err := logger.New(logger.Config{Debug: opts.debug, Format: opts.logFormat})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	options := []campaigns.Option{
		campaigns.WithLogger(log),
		campaigns.WithRecordRequests(opts.record || def.RecordRequests),
	}
	step := campaigns.NewStep(append(options, stepOpts...)...)

	output, err := step.Run(cmd.Context(), sc)
	if err != nil {
		return err
	}

	json, err := output.JSON()
	if err != nil {
		return fmt.Errorf("failed to render output %w", err)
	}
	_, err = cmd.OutOrStdout().Write(pretty.Pretty([]byte(json)))
	return err
}

// inputsFromFlags returns the input flags that were set, keyed by step input name.
func inputsFromFlags(flags *pflag.FlagSet) map[string]interface{} {
	result := make(map[string]interface{})
	flags.Visit(func(f *pflag.Flag) {
		if !slices.Contains(inputFlags, f.Name) {
			return
		}
		key := strcase.ToSnake(f.Name)
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			result[key] = sv.GetSlice()
			return
		}
		result[key] = f.Value.String()
	})
	return result
}
