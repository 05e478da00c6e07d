// Copyright 2025 VEXXHOST, Inc.
// SPDX-License-Identifier: Apache-2.0

package mgmtnet

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gophercloud/gophercloud/v2"
	"github.com/gophercloud/gophercloud/v2/openstack/networking/v2/subnets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNeutron(t *testing.T, mux *http.ServeMux) *Neutron {
	t.Helper()

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return NewNeutron(&gophercloud.ServiceClient{
		ProviderClient: &gophercloud.ProviderClient{},
		Endpoint:       server.URL + "/",
	})
}

func decodeBody(t *testing.T, r *http.Request) map[string]interface{} {
	t.Helper()

	data, err := io.ReadAll(r.Body)
	require.NoError(t, err)

	body := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(data, &body))

	return body
}

func TestNeutron_ListNetworks(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/networks", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "demo_mgmt_net", r.URL.Query().Get("name"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"networks": [{"id": "net-1", "name": "demo_mgmt_net"}]}`)
	})

	n := newTestNeutron(t, mux)

	result, err := n.ListNetworks(context.Background(), "demo_mgmt_net")
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "net-1", result[0].ID)
}

func TestNeutron_ListExternalNetworks(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/networks", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("router:external"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"networks": [{"id": "public-1", "name": "public"}]}`)
	})

	n := newTestNeutron(t, mux)

	result, err := n.ListExternalNetworks(context.Background())
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "public-1", result[0].ID)
}

func TestNeutron_CreateSubnet(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/subnets", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		body := decodeBody(t, r)
		subnet, ok := body["subnet"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "net-1", subnet["network_id"])
		assert.Equal(t, "192.168.3.0/24", subnet["cidr"])
		assert.Equal(t, float64(4), subnet["ip_version"])
		assert.Equal(t, "demo_mgmt_subnet", subnet["name"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"subnet": {"id": "subnet-1", "network_id": "net-1", "cidr": "192.168.3.0/24"}}`)
	})

	n := newTestNeutron(t, mux)

	subnet, err := n.CreateSubnet(context.Background(), subnets.CreateOpts{
		NetworkID: "net-1",
		CIDR:      "192.168.3.0/24",
		IPVersion: gophercloud.IPv4,
		Name:      "demo_mgmt_subnet",
	})
	require.NoError(t, err)
	assert.Equal(t, "subnet-1", subnet.ID)
}

func TestNeutron_ListRouterInterfacePorts(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ports", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, RouterInterfaceOwner, r.URL.Query().Get("device_owner"))
		assert.Equal(t, "net-1", r.URL.Query().Get("network_id"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"ports": []}`)
	})

	n := newTestNeutron(t, mux)

	result, err := n.ListRouterInterfacePorts(context.Background(), "net-1")
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestNeutron_GetRouterGateway(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/routers/router-1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"router": {"id": "router-1", "name": "demo_router", "external_gateway_info": {"network_id": "public-1"}}}`)
	})

	n := newTestNeutron(t, mux)

	router, err := n.GetRouter(context.Background(), "router-1")
	require.NoError(t, err)
	assert.Equal(t, "public-1", router.GatewayInfo.NetworkID)
}

func TestNeutron_SetRouterGateway(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/routers/router-1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)

		body := decodeBody(t, r)
		router, ok := body["router"].(map[string]interface{})
		require.True(t, ok)
		gateway, ok := router["external_gateway_info"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "public-1", gateway["network_id"])

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"router": {"id": "router-1", "external_gateway_info": {"network_id": "public-1"}}}`)
	})

	n := newTestNeutron(t, mux)

	require.NoError(t, n.SetRouterGateway(context.Background(), "router-1", "public-1"))
}

func TestNeutron_AddRouterInterface(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/routers/router-1/add_router_interface", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "subnet-1", decodeBody(t, r)["subnet_id"])

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id": "router-1", "subnet_id": "subnet-1", "port_id": "port-1"}`)
	})

	n := newTestNeutron(t, mux)

	require.NoError(t, n.AddRouterInterface(context.Background(), "router-1", "subnet-1"))
}

func TestNeutron_CreateNetworkFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/networks", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		fmt.Fprint(w, `{"NeutronError": {"message": "Quota exceeded"}}`)
	})

	n := newTestNeutron(t, mux)

	_, err := n.CreateNetwork(context.Background(), "demo_mgmt_net")
	require.Error(t, err)
	assert.True(t, gophercloud.ResponseCodeIs(err, http.StatusConflict))
	assert.Contains(t, err.Error(), `failed to create network "demo_mgmt_net"`)
}
