package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/vexxhost/osm-deploy/internal/nsdeploy"
	"github.com/vexxhost/osm-deploy/internal/openstack"
	"github.com/vexxhost/osm-deploy/internal/osm"
)

// Handle prints a message for err and returns the process exit code. Every
// failure exits with 1.
func Handle(w io.Writer, err error) int {
	if err == nil {
		return 0
	}

	var (
		openstackAuthErr *openstack.AuthError
		osmAuthErr       *osm.AuthError
		apiErr           *osm.APIError
	)

	switch {
	case errors.Is(err, nsdeploy.ErrDuplicateName):
		fmt.Fprintln(w, "Network Service by this name already exists. Please provide a unique NS name")
	case errors.As(err, &openstackAuthErr):
		fmt.Fprintf(w, "OpenStack Session could not be established: %s\n", openstackAuthErr)
	case errors.As(err, &osmAuthErr):
		fmt.Fprintf(w, "OSM client error: %s\n", osmAuthErr)
	case errors.As(err, &apiErr):
		fmt.Fprintln(w, apiErr.Error())
	default:
		fmt.Fprintf(w, "Error: %s\n", err)
	}

	return 1
}
