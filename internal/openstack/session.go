// Copyright 2025 VEXXHOST, Inc.
// SPDX-License-Identifier: Apache-2.0

package openstack

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gophercloud/gophercloud/v2"
	"github.com/gophercloud/gophercloud/v2/openstack"

	"github.com/vexxhost/osm-deploy/internal/config"
)

// AuthError is returned when a Keystone session cannot be established.
type AuthError struct {
	AuthURL string
	Err     error
}

func (e *AuthError) Error() string {
	return authErrorMessage(e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

func authErrorMessage(err error) string {
	var netErr net.Error

	switch {
	case gophercloud.ResponseCodeIs(err, http.StatusUnauthorized):
		return "authentication failed: invalid username, password, or project/domain"
	case gophercloud.ResponseCodeIs(err, http.StatusNotFound):
		return "authentication failed: the authentication URL or project name is incorrect"
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return "connection timeout: unable to reach the OpenStack identity service"
	default:
		return fmt.Sprintf("authentication failed: %v", err)
	}
}

// AuthOptions converts the tenant credentials into a project scoped password
// grant.
func AuthOptions(opts config.OpenStack) gophercloud.AuthOptions {
	return gophercloud.AuthOptions{
		IdentityEndpoint: opts.AuthURL,
		Username:         opts.User,
		Password:         opts.Password,
		DomainID:         opts.UserDomainID,
		AllowReauth:      true,
		Scope: &gophercloud.AuthScope{
			ProjectName: opts.Project,
			DomainID:    opts.ProjectDomainID,
		},
	}
}

// NewProviderClient authenticates against Keystone and returns the provider
// client holding the token and service catalog.
func NewProviderClient(ctx context.Context, opts config.OpenStack) (*gophercloud.ProviderClient, error) {
	providerClient, err := openstack.NewClient(opts.AuthURL)
	if err != nil {
		return nil, &AuthError{AuthURL: opts.AuthURL, Err: err}
	}

	if err := openstack.Authenticate(ctx, providerClient, AuthOptions(opts)); err != nil {
		return nil, &AuthError{AuthURL: opts.AuthURL, Err: err}
	}

	log.Debug("Authenticated with OpenStack", "auth_url", opts.AuthURL, "project", opts.Project)
	return providerClient, nil
}

// NewNetworkClient returns a Neutron client for the authenticated project.
func NewNetworkClient(ctx context.Context, opts config.OpenStack) (*gophercloud.ServiceClient, error) {
	providerClient, err := NewProviderClient(ctx, opts)
	if err != nil {
		return nil, err
	}

	networkClient, err := openstack.NewNetworkV2(providerClient, gophercloud.EndpointOpts{})
	if err != nil {
		return nil, fmt.Errorf("failed to create openstack networking client: %w", err)
	}

	return networkClient, nil
}
