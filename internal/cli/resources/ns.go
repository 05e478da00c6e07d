package resources

import (
	"context"
	"fmt"
	"sort"

	"github.com/vexxhost/osm-deploy/internal/osm"
)

// NSResource handles network service instances
type NSResource struct{}

func (r *NSResource) Name() string {
	return "ns"
}

func (r *NSResource) Aliases() []string {
	return []string{"nss", "ns-instance", "ns-instances"}
}

// List fetches NS instances by name or id, or all of them
func (r *NSResource) List(ctx context.Context, client Client, names []string) (*List, error) {
	var instances []osm.NSInstance

	if len(names) == 0 {
		all, err := client.ListNS(ctx, osm.ListNSOpts{})
		if err != nil {
			return nil, err
		}

		sort.Slice(all, func(i, j int) bool {
			return all[i].Name < all[j].Name
		})
		instances = all
	} else {
		for _, name := range names {
			ns, err := client.GetNS(ctx, name)
			if err != nil {
				return nil, err
			}
			instances = append(instances, *ns)
		}
	}

	list := &List{
		Headers: []string{"NAME", "ID", "NSD", "OPERATIONAL", "CONFIG", "DETAILED-STATUS"},
	}

	for _, ns := range instances {
		list.Rows = append(list.Rows, []string{
			ns.Name,
			ns.ID,
			valueOrNone(ns.NSDName),
			valueOrNone(ns.OperationalStatus),
			valueOrNone(ns.ConfigStatus),
			valueOrNone(ns.DetailedStatus),
		})
		list.Items = append(list.Items, ns.Raw)
	}

	return list, nil
}

// Delete removes an NS instance by name or id
func (r *NSResource) Delete(ctx context.Context, client Client, name string) error {
	if err := client.DeleteNS(ctx, name); err != nil {
		return fmt.Errorf("failed to delete ns %s: %w", name, err)
	}

	return nil
}
