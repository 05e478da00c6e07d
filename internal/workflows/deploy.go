package workflows

import (
	"context"
	"io"

	"github.com/vexxhost/osm-deploy/internal/config"
	"github.com/vexxhost/osm-deploy/internal/mgmtnet"
	"github.com/vexxhost/osm-deploy/internal/nsdeploy"
)

// NetworkingFactory opens an authenticated Neutron session.
type NetworkingFactory func(ctx context.Context, opts config.OpenStack) (mgmtnet.Networking, error)

// OrchestratorFactory opens an authenticated OSM client.
type OrchestratorFactory func(ctx context.Context, opts config.OSM) (nsdeploy.Orchestrator, error)

// DeployOptions holds everything the deploy workflow needs
type DeployOptions struct {
	OSM       config.OSM
	OpenStack config.OpenStack
	Out       io.Writer

	NewNetworking   NetworkingFactory
	NewOrchestrator OrchestratorFactory

	ProvisionerOptions []mgmtnet.Option
	DeployerOptions    []nsdeploy.Option
}

// CreateDeployWorkflow chains the OpenStack session, the management network,
// the OSM client and the NS deployment.
func CreateDeployWorkflow(ctx context.Context, opts DeployOptions) *Pipeline {
	p := NewPipeline(ctx, "deploy")

	var (
		networking   mgmtnet.Networking
		orchestrator nsdeploy.Orchestrator
	)

	p.Step("openstack-session", func(ctx context.Context) error {
		var err error
		networking, err = opts.NewNetworking(ctx, opts.OpenStack)
		return err
	})

	p.Step("mgmt-network", func(ctx context.Context) error {
		_, err := mgmtnet.NewProvisioner(networking, opts.Out, opts.ProvisionerOptions...).Ensure(ctx, opts.OpenStack)
		return err
	})

	p.Step("osm-client", func(ctx context.Context) error {
		var err error
		orchestrator, err = opts.NewOrchestrator(ctx, opts.OSM)
		return err
	})

	p.Step("deploy-ns", func(ctx context.Context) error {
		_, err := nsdeploy.New(orchestrator, opts.Out, opts.DeployerOptions...).Deploy(ctx, opts.OSM)
		return err
	})

	return p
}
