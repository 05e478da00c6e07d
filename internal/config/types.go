package config

// OSM contains the orchestrator connection and the network service to deploy
type OSM struct {
	// Host is the NBI address, either a bare host or a full URL.
	Host string

	// User, Password and Project are the NBI credentials.
	User     string
	Password string
	Project  string

	// Insecure skips TLS verification of the NBI certificate.
	Insecure bool

	// NSName is the name of the network service instance to create.
	NSName string

	// NSDName is the name of the network service descriptor to instantiate.
	NSDName string

	// VIMAccount is the name of the VIM account to deploy on.
	VIMAccount string

	// NSConfigFile optionally points at an instantiation config file.
	NSConfigFile string
}

// OpenStack contains the Keystone password credentials for the tenant
type OpenStack struct {
	AuthURL         string
	User            string
	Password        string
	Project         string
	ProjectDomainID string
	UserDomainID    string
}

// MgmtNetworkName is the management network name for a project.
func (o OpenStack) MgmtNetworkName() string {
	return o.Project + "_mgmt_net"
}

// MgmtSubnetName is the management subnet name for a project.
func (o OpenStack) MgmtSubnetName() string {
	return o.Project + "_mgmt_subnet"
}

// RouterName is the management router name for a project.
func (o OpenStack) RouterName() string {
	return o.Project + "_router"
}
