package cli

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vexxhost/osm-deploy/internal/workflows"
)

var deployRequired = append(append([]string{}, osmRequired...),
	"ns_name", "nsd_name", "vim_account",
	"os_ctrl_host", "os_user", "os_project",
)

// runDeploy provisions the management network and deploys the network service
func (o *rootOptions) runDeploy(cmd *cobra.Command, args []string) error {
	values, err := o.resolve(cmd, deployRequired, "osm_password", "os_password")
	if err != nil {
		return err
	}

	osmOpts := values.OSM()
	openstackOpts := values.OpenStack()

	log.Debug("Starting deployment",
		"ns", osmOpts.NSName,
		"nsd", osmOpts.NSDName,
		"vim", osmOpts.VIMAccount,
		"auth_url", openstackOpts.AuthURL,
		"project", openstackOpts.Project,
	)

	workflow := workflows.CreateDeployWorkflow(cmd.Context(), workflows.DeployOptions{
		OSM:                osmOpts,
		OpenStack:          openstackOpts,
		Out:                cmd.OutOrStdout(),
		NewNetworking:      o.app.NewNetworking,
		NewOrchestrator:    o.app.NewOrchestrator,
		ProvisionerOptions: o.app.ProvisionerOptions,
		DeployerOptions:    o.app.DeployerOptions,
	})

	if err := workflow.Run(); err != nil {
		return err
	}

	log.Info("Deployment finished", "ns", osmOpts.NSName)
	return nil
}
