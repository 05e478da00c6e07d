// Copyright 2025 VEXXHOST, Inc.
// SPDX-License-Identifier: Apache-2.0

package mgmtnet

import (
	"context"
	"fmt"

	"github.com/gophercloud/gophercloud/v2"
	"github.com/gophercloud/gophercloud/v2/openstack/networking/v2/extensions/external"
	"github.com/gophercloud/gophercloud/v2/openstack/networking/v2/extensions/layer3/routers"
	"github.com/gophercloud/gophercloud/v2/openstack/networking/v2/networks"
	"github.com/gophercloud/gophercloud/v2/openstack/networking/v2/ports"
	"github.com/gophercloud/gophercloud/v2/openstack/networking/v2/subnets"
)

// RouterInterfaceOwner is the device owner Neutron sets on router interface ports.
const RouterInterfaceOwner = "network:router_interface"

// Networking is the subset of the Neutron API the provisioner needs.
type Networking interface {
	ListNetworks(ctx context.Context, name string) ([]networks.Network, error)
	ListExternalNetworks(ctx context.Context) ([]networks.Network, error)
	CreateNetwork(ctx context.Context, name string) (*networks.Network, error)

	ListSubnets(ctx context.Context, name string) ([]subnets.Subnet, error)
	CreateSubnet(ctx context.Context, opts subnets.CreateOpts) (*subnets.Subnet, error)

	ListRouters(ctx context.Context, name string) ([]routers.Router, error)
	CreateRouter(ctx context.Context, name string) (*routers.Router, error)
	GetRouter(ctx context.Context, id string) (*routers.Router, error)
	AddRouterInterface(ctx context.Context, routerID, subnetID string) error
	SetRouterGateway(ctx context.Context, routerID, networkID string) error

	ListRouterInterfacePorts(ctx context.Context, networkID string) ([]ports.Port, error)
}

// Neutron implements Networking on top of gophercloud.
type Neutron struct {
	client *gophercloud.ServiceClient
}

// NewNeutron wraps an authenticated networking service client.
func NewNeutron(client *gophercloud.ServiceClient) *Neutron {
	return &Neutron{client: client}
}

func (n *Neutron) ListNetworks(ctx context.Context, name string) ([]networks.Network, error) {
	return n.listNetworks(ctx, networks.ListOpts{Name: name})
}

func (n *Neutron) ListExternalNetworks(ctx context.Context) ([]networks.Network, error) {
	isExternal := true
	return n.listNetworks(ctx, external.ListOptsExt{
		ListOptsBuilder: networks.ListOpts{},
		External:        &isExternal,
	})
}

func (n *Neutron) listNetworks(ctx context.Context, opts networks.ListOptsBuilder) ([]networks.Network, error) {
	allPages, err := networks.List(n.client, opts).AllPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list networks: %w", err)
	}

	allNetworks, err := networks.ExtractNetworks(allPages)
	if err != nil {
		return nil, fmt.Errorf("failed to extract networks: %w", err)
	}

	return allNetworks, nil
}

func (n *Neutron) CreateNetwork(ctx context.Context, name string) (*networks.Network, error) {
	adminStateUp := true
	network, err := networks.Create(ctx, n.client, networks.CreateOpts{
		Name:         name,
		AdminStateUp: &adminStateUp,
	}).Extract()
	if err != nil {
		return nil, fmt.Errorf("failed to create network %q: %w", name, err)
	}

	return network, nil
}

func (n *Neutron) ListSubnets(ctx context.Context, name string) ([]subnets.Subnet, error) {
	allPages, err := subnets.List(n.client, subnets.ListOpts{Name: name}).AllPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list subnets: %w", err)
	}

	allSubnets, err := subnets.ExtractSubnets(allPages)
	if err != nil {
		return nil, fmt.Errorf("failed to extract subnets: %w", err)
	}

	return allSubnets, nil
}

func (n *Neutron) CreateSubnet(ctx context.Context, opts subnets.CreateOpts) (*subnets.Subnet, error) {
	subnet, err := subnets.Create(ctx, n.client, opts).Extract()
	if err != nil {
		return nil, fmt.Errorf("failed to create subnet %q: %w", opts.Name, err)
	}

	return subnet, nil
}

func (n *Neutron) ListRouters(ctx context.Context, name string) ([]routers.Router, error) {
	allPages, err := routers.List(n.client, routers.ListOpts{Name: name}).AllPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list routers: %w", err)
	}

	allRouters, err := routers.ExtractRouters(allPages)
	if err != nil {
		return nil, fmt.Errorf("failed to extract routers: %w", err)
	}

	return allRouters, nil
}

func (n *Neutron) CreateRouter(ctx context.Context, name string) (*routers.Router, error) {
	adminStateUp := true
	router, err := routers.Create(ctx, n.client, routers.CreateOpts{
		Name:         name,
		AdminStateUp: &adminStateUp,
	}).Extract()
	if err != nil {
		return nil, fmt.Errorf("failed to create router %q: %w", name, err)
	}

	return router, nil
}

func (n *Neutron) GetRouter(ctx context.Context, id string) (*routers.Router, error) {
	router, err := routers.Get(ctx, n.client, id).Extract()
	if err != nil {
		return nil, fmt.Errorf("failed to get router %q: %w", id, err)
	}

	return router, nil
}

func (n *Neutron) AddRouterInterface(ctx context.Context, routerID, subnetID string) error {
	_, err := routers.AddInterface(ctx, n.client, routerID, routers.AddInterfaceOpts{
		SubnetID: subnetID,
	}).Extract()
	if err != nil {
		return fmt.Errorf("failed to add subnet %q to router %q: %w", subnetID, routerID, err)
	}

	return nil
}

func (n *Neutron) SetRouterGateway(ctx context.Context, routerID, networkID string) error {
	_, err := routers.Update(ctx, n.client, routerID, routers.UpdateOpts{
		GatewayInfo: &routers.GatewayInfo{
			NetworkID: networkID,
		},
	}).Extract()
	if err != nil {
		return fmt.Errorf("failed to set gateway %q on router %q: %w", networkID, routerID, err)
	}

	return nil
}

func (n *Neutron) ListRouterInterfacePorts(ctx context.Context, networkID string) ([]ports.Port, error) {
	allPages, err := ports.List(n.client, ports.ListOpts{
		DeviceOwner: RouterInterfaceOwner,
		NetworkID:   networkID,
	}).AllPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list ports: %w", err)
	}

	allPorts, err := ports.ExtractPorts(allPages)
	if err != nil {
		return nil, fmt.Errorf("failed to extract ports: %w", err)
	}

	return allPorts, nil
}
