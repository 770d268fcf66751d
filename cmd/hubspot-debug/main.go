// Command hubspot-debug runs the CRM lookups against a live HubSpot account
// (or the built-in fixtures with --offline) and reports each result.
//
//	HUBSPOT_AUTH_TOKEN=... hubspot-debug --committee INSTRuCT --email jane@example.org
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kbukum/hubspotkit/bootstrap"
	"github.com/kbukum/hubspotkit/config"
	"github.com/kbukum/hubspotkit/hubspot"
	hstest "github.com/kbukum/hubspotkit/hubspot/testutil"
	"github.com/kbukum/hubspotkit/logger"
	"github.com/kbukum/hubspotkit/observability"
)

const serviceName = "hubspot-debug"

var version = "dev" // set during build

// debugOptions holds the command-line flags.
type debugOptions struct {
	ConfigFile string
	EnvFile    string
	Committee  string
	Email      string
	UpdateID   string
	Set        map[string]string
	Offline    bool
}

func (o *debugOptions) validate() error {
	if o.UpdateID != "" && len(o.Set) == 0 {
		return fmt.Errorf("--update needs at least one --set name=value")
	}
	return nil
}

type taskFunc func(ctx context.Context, opts *debugOptions, out io.Writer) error

func newRootCommand(task taskFunc) *cobra.Command {
	opts := &debugOptions{}

	cmd := &cobra.Command{
		Use:   serviceName,
		Short: "Exercise the HubSpot CRM client",
		Long: `Runs the committee lookup, the contact lookup and an optional contact
update against HubSpot, printing OK or FAIL for each step.

Configuration comes from config.yml, .env and the environment
(HUBSPOT_AUTH_TOKEN, HUBSPOT_BASE_URL, ...).`,
		Example: `  # Look up the default committee and contact
  hubspot-debug

  # Update a contact
  hubspot-debug --update 9601 --set firstname=Jane --set lastname=Doe

  # Answer from built-in fixtures
  hubspot-debug --offline`,
		Version:      version,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PreRunE: func(_ *cobra.Command, _ []string) error {
			return opts.validate()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return task(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigFile, "config", "c", "", "Config file (default: config.yml if present)")
	cmd.Flags().StringVar(&opts.EnvFile, "env", "", ".env file (default: .env if present)")
	cmd.Flags().StringVar(&opts.Committee, "committee", hstest.FixtureCommittee, "Committee to look up")
	cmd.Flags().StringVarP(&opts.Email, "email", "e", hstest.FixtureContactEmail, "Contact email to look up")
	cmd.Flags().StringVarP(&opts.UpdateID, "update", "u", "", "Contact id to update with --set properties")
	cmd.Flags().StringToStringVarP(&opts.Set, "set", "s", nil, "Property to set on --update, as name=value (repeatable)")
	cmd.Flags().BoolVar(&opts.Offline, "offline", false, "Answer from built-in fixtures instead of HubSpot")

	return cmd
}

func main() {
	if err := newRootCommand(run).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts *debugOptions, out io.Writer) error {
	var loaderOpts []config.LoaderOption
	if opts.ConfigFile != "" {
		loaderOpts = append(loaderOpts, config.WithConfigFile(opts.ConfigFile))
	}
	if opts.EnvFile != "" {
		loaderOpts = append(loaderOpts, config.WithEnvFile(opts.EnvFile))
	}

	var cfg DebugConfig
	if err := config.LoadConfig(serviceName, &cfg, loaderOpts...); err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Version == "" {
		cfg.Version = version
	}

	app, err := bootstrap.NewApp(&cfg)
	if err != nil {
		return err
	}

	shutdown, err := observability.Setup(ctx, cfg.Observability, cfg.Name, cfg.Version, cfg.Environment)
	if err != nil {
		return fmt.Errorf("observability: %w", err)
	}
	app.OnStop(func(ctx context.Context) error { return shutdown(ctx) })

	metrics, err := observability.NewDispatchMetrics(observability.Meter("hubspot"))
	if err != nil {
		return err
	}
	clientOpts := []hubspot.Option{
		hubspot.WithMetrics(metrics),
		hubspot.WithLogger(logger.Get(cfg.HubSpot.Name)),
	}
	if opts.Offline {
		clientOpts = append(clientOpts, hubspot.WithTransport(hstest.NewFixtureTransport()))
	}

	hs := hubspot.NewComponent(cfg.HubSpot, clientOpts...)
	if err := app.RegisterComponent(hs); err != nil {
		return err
	}

	return app.RunTask(ctx, func(ctx context.Context) error {
		return debugFlow(ctx, hs.Client(), opts, out)
	})
}

// debugFlow runs each lookup, printing its outcome. It fails if any step
// failed but always runs them all.
func debugFlow(ctx context.Context, crm hubspot.CRM, opts *debugOptions, out io.Writer) error {
	failed := 0
	step := func(name string, fn func() (any, error)) {
		v, err := fn()
		if err != nil {
			failed++
			fmt.Fprintf(out, "FAIL %s: %v\n", name, err)
			return
		}
		b, _ := json.MarshalIndent(v, "", "  ")
		fmt.Fprintf(out, "OK   %s\n%s\n", name, b)
	}

	step("committee info "+opts.Committee, func() (any, error) {
		return crm.GetCommitteesInfo(ctx, opts.Committee)
	})
	step("committee contacts "+opts.Committee, func() (any, error) {
		return crm.GetContactsByCommittee(ctx, opts.Committee)
	})
	step("contact "+opts.Email, func() (any, error) {
		return crm.GetContactByEmail(ctx, opts.Email)
	})
	if opts.UpdateID != "" {
		props := make(hubspot.Properties, len(opts.Set))
		for k, v := range opts.Set {
			props[k] = v
		}
		step("update contact "+opts.UpdateID, func() (any, error) {
			return crm.UpdateContact(ctx, opts.UpdateID, props)
		})
	}

	if failed > 0 {
		return fmt.Errorf("%d step(s) failed", failed)
	}
	return nil
}
