// Copyright 2025 VEXXHOST, Inc.
// SPDX-License-Identifier: Apache-2.0

package mgmtnet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/gophercloud/gophercloud/v2"
	"github.com/gophercloud/gophercloud/v2/openstack/networking/v2/subnets"

	"github.com/vexxhost/osm-deploy/internal/config"
)

// ErrNoExternalNetwork is returned when the router needs a gateway and no
// network has router:external set.
var ErrNoExternalNetwork = errors.New("no external network found")

// RandomCIDR returns a random /24 inside 192.168.0.0/16.
func RandomCIDR() string {
	return fmt.Sprintf("192.168.%d.0/24", rand.IntN(256))
}

// Result holds the ids of the management network resources.
type Result struct {
	NetworkID        string
	SubnetID         string
	RouterID         string
	GatewayNetworkID string
}

// Provisioner makes sure a project has its management network, subnet and
// router, reusing whatever already exists under the expected names.
type Provisioner struct {
	net  Networking
	out  io.Writer
	cidr func() string
}

// Option configures a Provisioner.
type Option func(*Provisioner)

// WithCIDRGenerator replaces RandomCIDR for new subnets.
func WithCIDRGenerator(fn func() string) Option {
	return func(p *Provisioner) {
		p.cidr = fn
	}
}

// NewProvisioner creates a Provisioner that reports progress to out.
func NewProvisioner(net Networking, out io.Writer, opts ...Option) *Provisioner {
	p := &Provisioner{
		net:  net,
		out:  out,
		cidr: RandomCIDR,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Ensure provisions the management network for the project in opts. It stops
// at the first Neutron failure and leaves anything already created in place.
func (p *Provisioner) Ensure(ctx context.Context, opts config.OpenStack) (*Result, error) {
	result := &Result{}

	networkID, err := p.ensureNetwork(ctx, opts.MgmtNetworkName())
	if err != nil {
		return nil, err
	}
	result.NetworkID = networkID

	subnetID, err := p.ensureSubnet(ctx, opts.MgmtSubnetName(), networkID)
	if err != nil {
		return nil, err
	}
	result.SubnetID = subnetID

	routerID, err := p.ensureRouter(ctx, opts.RouterName())
	if err != nil {
		return nil, err
	}
	result.RouterID = routerID

	if err := p.ensureInterface(ctx, routerID, networkID, subnetID); err != nil {
		return nil, err
	}

	gatewayID, err := p.ensureGateway(ctx, routerID)
	if err != nil {
		return nil, err
	}
	result.GatewayNetworkID = gatewayID

	fmt.Fprintf(p.out, "Management Network: %s is ready!!\n", opts.MgmtNetworkName())
	return result, nil
}

func (p *Provisioner) ensureNetwork(ctx context.Context, name string) (string, error) {
	existing, err := p.net.ListNetworks(ctx, name)
	if err != nil {
		return "", err
	}

	if len(existing) > 0 {
		fmt.Fprintf(p.out, "Network %s exists\n", existing[0].ID)
		return existing[0].ID, nil
	}

	network, err := p.net.CreateNetwork(ctx, name)
	if err != nil {
		return "", err
	}

	fmt.Fprintf(p.out, "Network %s created\n", network.ID)
	return network.ID, nil
}

func (p *Provisioner) ensureSubnet(ctx context.Context, name, networkID string) (string, error) {
	existing, err := p.net.ListSubnets(ctx, name)
	if err != nil {
		return "", err
	}

	if len(existing) > 0 {
		fmt.Fprintf(p.out, "Sub-Net %s exists\n", existing[0].ID)
		return existing[0].ID, nil
	}

	cidr := p.cidr()
	log.Debug("Creating subnet", "name", name, "cidr", cidr)

	subnet, err := p.net.CreateSubnet(ctx, subnets.CreateOpts{
		NetworkID: networkID,
		CIDR:      cidr,
		IPVersion: gophercloud.IPv4,
		Name:      name,
	})
	if err != nil {
		return "", err
	}

	fmt.Fprintf(p.out, "Sub-Net %s created\n", subnet.ID)
	return subnet.ID, nil
}

func (p *Provisioner) ensureRouter(ctx context.Context, name string) (string, error) {
	existing, err := p.net.ListRouters(ctx, name)
	if err != nil {
		return "", err
	}

	if len(existing) > 0 {
		fmt.Fprintf(p.out, "Router %s exists\n", existing[0].ID)
		return existing[0].ID, nil
	}

	router, err := p.net.CreateRouter(ctx, name)
	if err != nil {
		return "", err
	}

	fmt.Fprintf(p.out, "Router %s created\n", router.ID)
	return router.ID, nil
}

func (p *Provisioner) ensureInterface(ctx context.Context, routerID, networkID, subnetID string) error {
	existing, err := p.net.ListRouterInterfacePorts(ctx, networkID)
	if err != nil {
		return err
	}

	if len(existing) > 0 {
		log.Debug("Router interface exists", "network", networkID, "port", existing[0].ID)
		return nil
	}

	if err := p.net.AddRouterInterface(ctx, routerID, subnetID); err != nil {
		return err
	}

	fmt.Fprintln(p.out, "Added interface to router")
	return nil
}

// ensureGateway only looks up the external network when the router has no
// gateway yet. With several external networks the first one listed wins.
func (p *Provisioner) ensureGateway(ctx context.Context, routerID string) (string, error) {
	router, err := p.net.GetRouter(ctx, routerID)
	if err != nil {
		return "", err
	}

	if router.GatewayInfo.NetworkID != "" {
		log.Debug("Router gateway exists", "router", routerID, "network", router.GatewayInfo.NetworkID)
		return router.GatewayInfo.NetworkID, nil
	}

	public, err := p.net.ListExternalNetworks(ctx)
	if err != nil {
		return "", err
	}

	if len(public) == 0 {
		return "", ErrNoExternalNetwork
	}

	if err := p.net.SetRouterGateway(ctx, routerID, public[0].ID); err != nil {
		return "", err
	}

	log.Info("Set router gateway", "router", routerID, "network", public[0].ID)
	return public[0].ID, nil
}
