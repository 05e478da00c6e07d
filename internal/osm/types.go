package osm

import (
	"encoding/json"
)

// NSInstance is a network service record as returned by the NBI.
type NSInstance struct {
	ID                string `json:"_id"`
	Name              string `json:"name"`
	NSDName           string `json:"nsd-name-ref"`
	OperationalStatus string `json:"operational-status"`
	ConfigStatus      string `json:"config-status"`
	DetailedStatus    string `json:"detailed-status"`

	// Raw keeps the full record for display.
	Raw map[string]interface{} `json:"-"`
}

func (ns *NSInstance) UnmarshalJSON(data []byte) error {
	type plain NSInstance

	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	if err := json.Unmarshal(data, &p.Raw); err != nil {
		return err
	}

	*ns = NSInstance(p)
	return nil
}

// Initializing reports whether either status is still "init".
func (ns *NSInstance) Initializing() bool {
	return ns.OperationalStatus == StatusInit || ns.ConfigStatus == StatusInit
}

// StatusInit is the operational and config status of a freshly created instance.
const StatusInit = "init"

// NSD is a network service descriptor package.
type NSD struct {
	ID           string `json:"_id"`
	DescriptorID string `json:"id"`
	Name         string `json:"name"`
}

// VIMAccount is a registered VIM.
type VIMAccount struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	VIMType string `json:"vim_type"`
	VIMURL  string `json:"vim_url"`

	Raw map[string]interface{} `json:"-"`
}

func (v *VIMAccount) UnmarshalJSON(data []byte) error {
	type plain VIMAccount

	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	if err := json.Unmarshal(data, &p.Raw); err != nil {
		return err
	}

	*v = VIMAccount(p)
	return nil
}

// CreateNSOpts describes an instantiation request.
type CreateNSOpts struct {
	NSDName     string
	NSName      string
	VIMAccount  string
	Description string

	// Config is the instantiation config file content, passed through as-is
	// and interpreted as YAML when the request is built.
	Config string

	SSHKeys []string
}

// ListNSOpts filters NS instances. An empty Name lists everything.
type ListNSOpts struct {
	Name string `q:"name"`
}

type tokenRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	ProjectID string `json:"project_id,omitempty"`
}

// Token is the NBI session token.
type Token struct {
	ID          string  `json:"id"`
	ProjectID   string  `json:"project_id"`
	ProjectName string  `json:"project_name"`
	Username    string  `json:"username"`
	Expires     float64 `json:"expires"`
}
