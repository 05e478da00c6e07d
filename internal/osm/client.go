// Copyright 2025 VEXXHOST, Inc.
// SPDX-License-Identifier: Apache-2.0

package osm

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"dario.cat/mergo"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gophercloud/gophercloud/v2"

	"github.com/vexxhost/osm-deploy/internal/config"
)

const (
	// DefaultPort is the port the NBI listens on.
	DefaultPort = "9999"

	// DefaultDescription is used when an NS is created without a description.
	DefaultDescription = "default description"
)

// Client talks to the OSM northbound interface using the SOL005 endpoints.
type Client struct {
	client *gophercloud.ServiceClient
	token  *Token
}

// Endpoint normalizes an NBI host into the API root. A bare host gets https
// and the default port.
func Endpoint(host string) (string, error) {
	if !strings.Contains(host, "://") {
		host = "https://" + host
	}

	u, err := url.Parse(host)
	if err != nil {
		return "", fmt.Errorf("invalid osm host %q: %w", host, err)
	}

	if u.Port() == "" {
		u.Host = net.JoinHostPort(u.Hostname(), DefaultPort)
	}

	u.Path = strings.TrimSuffix(u.Path, "/") + "/osm/"
	return u.String(), nil
}

// NewClient obtains an NBI token for the given credentials and returns a
// client that sends it as a bearer token.
func NewClient(ctx context.Context, opts config.OSM) (*Client, error) {
	endpoint, err := Endpoint(opts.Host)
	if err != nil {
		return nil, &AuthError{Endpoint: opts.Host, Err: err}
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{
		InsecureSkipVerify: opts.Insecure, //nolint:gosec
	}

	provider := &gophercloud.ProviderClient{
		HTTPClient: http.Client{Transport: transport},
	}
	provider.UseTokenLock()
	provider.UserAgent.Prepend("osm-deploy")

	c := &Client{
		client: &gophercloud.ServiceClient{
			ProviderClient: provider,
			Endpoint:       endpoint,
			Type:           "osm",
			MoreHeaders:    map[string]string{},
		},
	}

	if err := c.authenticate(ctx, opts); err != nil {
		return nil, &AuthError{Endpoint: endpoint, Err: err}
	}

	log.Debug("Authenticated with OSM", "endpoint", endpoint, "project", c.token.ProjectName)
	return c, nil
}

func (c *Client) authenticate(ctx context.Context, opts config.OSM) error {
	token := &Token{}
	_, err := c.client.Post(ctx, c.client.ServiceURL("admin", "v1", "tokens"), tokenRequest{
		Username:  opts.User,
		Password:  opts.Password,
		ProjectID: opts.Project,
	}, token, &gophercloud.RequestOpts{
		OkCodes: []int{http.StatusOK, http.StatusCreated},
	})
	if err != nil {
		return asAPIError(err)
	}

	if token.ID == "" {
		return fmt.Errorf("token response did not contain an id")
	}

	c.token = token
	c.client.MoreHeaders["Authorization"] = "Bearer " + token.ID
	return nil
}

// ListNS lists NS instances, filtered by exact name unless opts.Name is empty.
func (c *Client) ListNS(ctx context.Context, opts ListNSOpts) ([]NSInstance, error) {
	query, err := gophercloud.BuildQueryString(opts)
	if err != nil {
		return nil, err
	}

	instances := []NSInstance{}
	listURL := c.client.ServiceURL("nslcm", "v1", "ns_instances_content") + query.String()
	if _, err := c.client.Get(ctx, listURL, &instances, nil); err != nil {
		return nil, fmt.Errorf("failed to list ns instances: %w", asAPIError(err))
	}

	return instances, nil
}

// GetNS finds an NS instance by id when nameOrID is a UUID, by name otherwise.
func (c *Client) GetNS(ctx context.Context, nameOrID string) (*NSInstance, error) {
	instances, err := c.ListNS(ctx, ListNSOpts{})
	if err != nil {
		return nil, err
	}

	byID := isUUID(nameOrID)
	for i := range instances {
		if (byID && instances[i].ID == nameOrID) || (!byID && instances[i].Name == nameOrID) {
			return &instances[i], nil
		}
	}

	return nil, fmt.Errorf("ns %s %w", nameOrID, ErrNotFound)
}

// ListNSD lists the onboarded NS descriptors.
func (c *Client) ListNSD(ctx context.Context) ([]NSD, error) {
	descriptors := []NSD{}
	if _, err := c.client.Get(ctx, c.client.ServiceURL("nsd", "v1", "ns_descriptors"), &descriptors, nil); err != nil {
		return nil, fmt.Errorf("failed to list ns descriptors: %w", asAPIError(err))
	}

	return descriptors, nil
}

// GetNSD finds a descriptor by package id, descriptor id or name.
func (c *Client) GetNSD(ctx context.Context, name string) (*NSD, error) {
	descriptors, err := c.ListNSD(ctx)
	if err != nil {
		return nil, err
	}

	for i := range descriptors {
		if descriptors[i].ID == name || descriptors[i].DescriptorID == name || descriptors[i].Name == name {
			return &descriptors[i], nil
		}
	}

	return nil, fmt.Errorf("nsd %s %w", name, ErrNotFound)
}

// ListVIMAccounts lists the registered VIM accounts.
func (c *Client) ListVIMAccounts(ctx context.Context) ([]VIMAccount, error) {
	accounts := []VIMAccount{}
	if _, err := c.client.Get(ctx, c.client.ServiceURL("admin", "v1", "vim_accounts"), &accounts, nil); err != nil {
		return nil, fmt.Errorf("failed to list vim accounts: %w", asAPIError(err))
	}

	return accounts, nil
}

// GetVIMAccount finds a VIM account by id or name.
func (c *Client) GetVIMAccount(ctx context.Context, nameOrID string) (*VIMAccount, error) {
	accounts, err := c.ListVIMAccounts(ctx)
	if err != nil {
		return nil, err
	}

	for i := range accounts {
		if accounts[i].ID == nameOrID || accounts[i].Name == nameOrID {
			return &accounts[i], nil
		}
	}

	return nil, fmt.Errorf("vim %s %w", nameOrID, ErrNotFound)
}

// CreateNS instantiates the descriptor opts.NSDName on the VIM account
// opts.VIMAccount and returns the id of the new NS instance.
func (c *Client) CreateNS(ctx context.Context, opts CreateNSOpts) (string, error) {
	nsd, err := c.GetNSD(ctx, opts.NSDName)
	if err != nil {
		return "", err
	}

	vimIDs := map[string]string{}
	resolve := func(name string) (string, error) {
		if id, ok := vimIDs[name]; ok {
			return id, nil
		}

		vim, err := c.GetVIMAccount(ctx, name)
		if err != nil {
			return "", err
		}

		vimIDs[name] = vim.ID
		return vim.ID, nil
	}

	vimAccountID, err := resolve(opts.VIMAccount)
	if err != nil {
		return "", err
	}

	description := opts.Description
	if description == "" {
		description = DefaultDescription
	}

	body := map[string]interface{}{
		"nsdId":         nsd.ID,
		"nsName":        opts.NSName,
		"nsDescription": description,
		"vimAccountId":  vimAccountID,
	}

	if len(opts.SSHKeys) > 0 {
		body["ssh_keys"] = opts.SSHKeys
	}

	params, err := instantiationParams(opts.Config, resolve)
	if err != nil {
		return "", err
	}

	if err := mergo.Merge(&body, params); err != nil {
		return "", fmt.Errorf("failed to build ns request: %w", err)
	}

	log.Debug("Creating NS instance", "name", opts.NSName, "nsd", nsd.ID, "vim", vimAccountID)

	created := struct {
		ID        string `json:"id"`
		NSLCMOpID string `json:"nslcmop_id"`
	}{}
	_, err = c.client.Post(ctx, c.client.ServiceURL("nslcm", "v1", "ns_instances_content"), body, &created, &gophercloud.RequestOpts{
		OkCodes: []int{http.StatusOK, http.StatusCreated, http.StatusAccepted},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create ns %q: %w", opts.NSName, asAPIError(err))
	}

	return created.ID, nil
}

// DeleteNS deletes an NS instance by name or id.
func (c *Client) DeleteNS(ctx context.Context, nameOrID string) error {
	ns, err := c.GetNS(ctx, nameOrID)
	if err != nil {
		return err
	}

	_, err = c.client.Delete(ctx, c.client.ServiceURL("nslcm", "v1", "ns_instances_content", ns.ID), &gophercloud.RequestOpts{
		OkCodes: []int{http.StatusAccepted, http.StatusNoContent},
	})
	if err != nil {
		return fmt.Errorf("failed to delete ns %q: %w", nameOrID, asAPIError(err))
	}

	return nil
}

func isUUID(value string) bool {
	_, err := uuid.Parse(value)
	return err == nil
}
