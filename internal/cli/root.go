package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vexxhost/osm-deploy/internal/cli/resources"
	"github.com/vexxhost/osm-deploy/internal/config"
	"github.com/vexxhost/osm-deploy/internal/mgmtnet"
	"github.com/vexxhost/osm-deploy/internal/nsdeploy"
	"github.com/vexxhost/osm-deploy/internal/openstack"
	"github.com/vexxhost/osm-deploy/internal/osm"
	"github.com/vexxhost/osm-deploy/internal/workflows"
)

var osmRequired = []string{"osm_host", "osm_user", "osm_project"}

// App holds the collaborators the commands are built from.
type App struct {
	NewNetworking   workflows.NetworkingFactory
	NewOrchestrator workflows.OrchestratorFactory
	NewClient       func(ctx context.Context, opts config.OSM) (resources.Client, error)

	// Prompt reads a secret that was not given on the command line.
	Prompt func(label string) (string, error)

	ProvisionerOptions []mgmtnet.Option
	DeployerOptions    []nsdeploy.Option
}

// DefaultApp talks to real OpenStack and OSM endpoints.
func DefaultApp() *App {
	return &App{
		NewNetworking: func(ctx context.Context, opts config.OpenStack) (mgmtnet.Networking, error) {
			client, err := openstack.NewNetworkClient(ctx, opts)
			if err != nil {
				return nil, err
			}
			return mgmtnet.NewNeutron(client), nil
		},
		NewOrchestrator: func(ctx context.Context, opts config.OSM) (nsdeploy.Orchestrator, error) {
			client, err := osm.NewClient(ctx, opts)
			if err != nil {
				return nil, err
			}
			return client, nil
		},
		NewClient: func(ctx context.Context, opts config.OSM) (resources.Client, error) {
			client, err := osm.NewClient(ctx, opts)
			if err != nil {
				return nil, err
			}
			return client, nil
		},
		Prompt: promptPassword,
	}
}

type rootOptions struct {
	app *App

	configFile string
	logLevel   string
	insecure   bool

	values config.Values
}

func NewRootCommand() *cobra.Command {
	return newRootCommand(DefaultApp())
}

func newRootCommand(app *App) *cobra.Command {
	o := &rootOptions{app: app}

	rootCmd := &cobra.Command{
		Use:   "osm-deploy",
		Short: "Deploy a Network Service on OSM",
		Long: `osm-deploy makes sure the OpenStack project has a management network,
subnet and router, then instantiates a Network Service on an OSM orchestrator
and waits until it leaves the init state.

Passwords that are not given as flags or in the config file are prompted for.`,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: o.setupLogging,
		RunE:              o.runDeploy,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&o.configFile, "config", "", "Config file with flag defaults (yaml, json or toml)")
	pf.StringVar(&o.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	pf.StringVar(&o.values.OSMHost, "osm_host", "", "IP of OSM server")
	pf.StringVar(&o.values.OSMUser, "osm_user", "", "OSM user")
	pf.StringVar(&o.values.OSMPassword, "osm_password", "", "OSM password")
	pf.StringVar(&o.values.OSMProject, "osm_project", "", "OSM project")
	pf.BoolVar(&o.insecure, "osm_insecure", true, "Skip verification of the OSM certificate")

	f := rootCmd.Flags()
	f.StringVar(&o.values.NSName, "ns_name", "", "Name of the Network Service instance")
	f.StringVar(&o.values.NSDName, "nsd_name", "", "Name of the Network Service Descriptor to use")
	f.StringVar(&o.values.VIMAccount, "vim_account", "", "Name of the VIM account to use for deployment")
	f.StringVar(&o.values.NSConfigFile, "ns_config_file", "", "Network Service configuration file")
	f.StringVar(&o.values.OSCtrlHost, "os_ctrl_host", "", "IP of OpenStack Controller")
	f.StringVar(&o.values.OSUser, "os_user", "", "OpenStack user")
	f.StringVar(&o.values.OSPassword, "os_password", "", "OpenStack password")
	f.StringVar(&o.values.OSProject, "os_project", "", "OpenStack project/tenant")
	f.StringVar(&o.values.OSProjectDomainID, "os_project_domain_id", "", `OpenStack project domain id (default "default")`)
	f.StringVar(&o.values.OSUserDomainID, "os_user_domain_id", "", `OpenStack user domain id (default "default")`)

	rootCmd.AddCommand(newGetCommand(o))
	rootCmd.AddCommand(newDeleteCommand(o))

	return rootCmd
}

func (o *rootOptions) setupLogging(cmd *cobra.Command, args []string) error {
	if o.logLevel == "" {
		return nil
	}

	level, err := log.ParseLevel(o.logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", o.logLevel, err)
	}

	log.SetLevel(level)
	return nil
}

// resolve merges the flags over the config file, checks required values and
// prompts for the listed passwords when they are still empty.
func (o *rootOptions) resolve(cmd *cobra.Command, required []string, passwords ...string) (*config.Values, error) {
	values := o.values

	if cmd.Flags().Changed("osm_insecure") {
		insecure := o.insecure
		values.OSMInsecure = &insecure
	}

	defaults, err := config.Load(o.configFile)
	if err != nil {
		return nil, err
	}

	if err := values.Merge(defaults); err != nil {
		return nil, err
	}

	values.ApplyDefaults()

	if err := values.Require(required...); err != nil {
		return nil, err
	}

	if err := o.promptPasswords(&values, passwords...); err != nil {
		return nil, err
	}

	return &values, nil
}

func (o *rootOptions) promptPasswords(values *config.Values, names ...string) error {
	fields := map[string]*string{
		"osm_password": &values.OSMPassword,
		"os_password":  &values.OSPassword,
	}
	labels := map[string]string{
		"osm_password": "OSM password",
		"os_password":  "OpenStack password",
	}

	for _, name := range names {
		field, ok := fields[name]
		if !ok {
			return fmt.Errorf("unknown password flag %q", name)
		}
		if *field != "" {
			continue
		}

		password, err := o.app.Prompt(labels[name])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", name, err)
		}
		*field = password
	}

	return nil
}

// osmClient resolves the OSM flags and opens a client for get and delete.
func (o *rootOptions) osmClient(cmd *cobra.Command) (resources.Client, error) {
	values, err := o.resolve(cmd, osmRequired, "osm_password")
	if err != nil {
		return nil, err
	}

	return o.app.NewClient(cmd.Context(), values.OSM())
}
