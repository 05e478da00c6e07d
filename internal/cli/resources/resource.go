package resources

import (
	"context"
	"sort"

	"github.com/vexxhost/osm-deploy/internal/osm"
)

// Client is the part of the OSM client used by resources
type Client interface {
	ListNS(ctx context.Context, opts osm.ListNSOpts) ([]osm.NSInstance, error)
	GetNS(ctx context.Context, nameOrID string) (*osm.NSInstance, error)
	DeleteNS(ctx context.Context, nameOrID string) error
	ListVIMAccounts(ctx context.Context) ([]osm.VIMAccount, error)
	GetVIMAccount(ctx context.Context, nameOrID string) (*osm.VIMAccount, error)
}

// List is the result of fetching resources. Items keeps the raw NBI records
// for json and yaml output while Rows feeds the table.
type List struct {
	Headers []string
	Rows    [][]string
	Items   []map[string]interface{}
}

// Resource defines the interface for a resource that can be fetched
type Resource interface {
	// Name returns the resource name (e.g., "ns")
	Name() string

	// Aliases returns alternative names for the resource
	Aliases() []string

	// List fetches the named resources, or all of them when names is empty
	List(ctx context.Context, client Client, names []string) (*List, error)
}

// Deleter is implemented by resources that can be deleted.
type Deleter interface {
	Delete(ctx context.Context, client Client, name string) error
}

// Registry holds all registered resources
type Registry struct {
	resources map[string]Resource
}

// NewRegistry creates a registry with every known resource
func NewRegistry() *Registry {
	r := &Registry{
		resources: make(map[string]Resource),
	}

	r.Register(&NSResource{})
	r.Register(&VIMResource{})

	return r
}

// Register adds a resource to the registry
func (r *Registry) Register(resource Resource) {
	r.resources[resource.Name()] = resource

	for _, alias := range resource.Aliases() {
		r.resources[alias] = resource
	}
}

// Get retrieves a resource by name or alias
func (r *Registry) Get(name string) (Resource, bool) {
	resource, ok := r.resources[name]
	return resource, ok
}

// List returns the primary names of all registered resources, sorted
func (r *Registry) List() []string {
	var names []string
	for name, resource := range r.resources {
		if name == resource.Name() {
			names = append(names, name)
		}
	}

	sort.Strings(names)
	return names
}

func valueOrNone(value string) string {
	if value == "" {
		return "<none>"
	}
	return value
}
