package resources

import (
	"context"
	"sort"

	"github.com/vexxhost/osm-deploy/internal/osm"
)

// VIMResource handles VIM accounts
type VIMResource struct{}

func (r *VIMResource) Name() string {
	return "vim"
}

func (r *VIMResource) Aliases() []string {
	return []string{"vims", "vim-account", "vim-accounts"}
}

// List fetches VIM accounts by name or id, or all of them
func (r *VIMResource) List(ctx context.Context, client Client, names []string) (*List, error) {
	var accounts []osm.VIMAccount

	if len(names) == 0 {
		all, err := client.ListVIMAccounts(ctx)
		if err != nil {
			return nil, err
		}

		sort.Slice(all, func(i, j int) bool {
			return all[i].Name < all[j].Name
		})
		accounts = all
	} else {
		for _, name := range names {
			vim, err := client.GetVIMAccount(ctx, name)
			if err != nil {
				return nil, err
			}
			accounts = append(accounts, *vim)
		}
	}

	list := &List{
		Headers: []string{"NAME", "ID", "TYPE", "URL"},
	}

	for _, vim := range accounts {
		list.Rows = append(list.Rows, []string{
			vim.Name,
			vim.ID,
			valueOrNone(vim.VIMType),
			valueOrNone(vim.VIMURL),
		})
		list.Items = append(list.Items, vim.Raw)
	}

	return list, nil
}
