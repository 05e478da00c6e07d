package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/charmbracelet/log"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultDomainID is used for both OpenStack domain ids when none is given.
const DefaultDomainID = "default"

var parserMap = map[string]koanf.Parser{
	".yaml": yaml.Parser(),
	".yml":  yaml.Parser(),
	".toml": toml.Parser(),
	".json": json.Parser(),
}

// Values holds every setting accepted on the command line. The koanf keys
// match the flag names so a defaults file can use the same spelling.
type Values struct {
	OSMHost     string `koanf:"osm_host"`
	OSMUser     string `koanf:"osm_user"`
	OSMPassword string `koanf:"osm_password"`
	OSMProject  string `koanf:"osm_project"`
	OSMInsecure *bool  `koanf:"osm_insecure"`

	NSName       string `koanf:"ns_name"`
	NSDName      string `koanf:"nsd_name"`
	VIMAccount   string `koanf:"vim_account"`
	NSConfigFile string `koanf:"ns_config_file"`

	OSCtrlHost        string `koanf:"os_ctrl_host"`
	OSUser            string `koanf:"os_user"`
	OSPassword        string `koanf:"os_password"`
	OSProject         string `koanf:"os_project"`
	OSProjectDomainID string `koanf:"os_project_domain_id"`
	OSUserDomainID    string `koanf:"os_user_domain_id"`
}

// Load reads defaults from configFile. A missing file is not an error and
// yields empty values.
func Load(configFile string) (*Values, error) {
	values := &Values{}
	if configFile == "" {
		return values, nil
	}

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		log.Debug("config file does not exist", "path", configFile)
		return values, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to check config file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(configFile))
	parser, ok := parserMap[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported config file format: %s", configFile)
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(configFile), parser); err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", configFile, err)
	}

	if err := k.Unmarshal("", values); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config file %s: %w", configFile, err)
	}

	log.Info("loaded config file", "path", configFile)
	return values, nil
}

// Merge fills every unset field of v from defaults. Fields already set on v
// are left alone, so explicit flags win over the defaults file.
func (v *Values) Merge(defaults *Values) error {
	if defaults == nil {
		return nil
	}

	if err := mergo.Merge(v, defaults); err != nil {
		return fmt.Errorf("failed to merge config defaults: %w", err)
	}

	return nil
}

// ApplyDefaults sets the values that have a documented default.
func (v *Values) ApplyDefaults() {
	if v.OSProjectDomainID == "" {
		v.OSProjectDomainID = DefaultDomainID
	}
	if v.OSUserDomainID == "" {
		v.OSUserDomainID = DefaultDomainID
	}
	if v.OSMInsecure == nil {
		insecure := true
		v.OSMInsecure = &insecure
	}
}

// Require returns a *MissingFlagsError naming every flag in names that has no
// value, in the order given.
func (v *Values) Require(names ...string) error {
	fields := v.fields()

	var missing []string
	for _, name := range names {
		value, ok := fields[name]
		if !ok {
			return fmt.Errorf("unknown flag %q", name)
		}
		if value == "" {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		return &MissingFlagsError{Flags: missing}
	}

	return nil
}

func (v *Values) fields() map[string]string {
	return map[string]string{
		"osm_host":             v.OSMHost,
		"osm_user":             v.OSMUser,
		"osm_password":         v.OSMPassword,
		"osm_project":          v.OSMProject,
		"ns_name":              v.NSName,
		"nsd_name":             v.NSDName,
		"vim_account":          v.VIMAccount,
		"ns_config_file":       v.NSConfigFile,
		"os_ctrl_host":         v.OSCtrlHost,
		"os_user":              v.OSUser,
		"os_password":          v.OSPassword,
		"os_project":           v.OSProject,
		"os_project_domain_id": v.OSProjectDomainID,
		"os_user_domain_id":    v.OSUserDomainID,
	}
}

// MissingFlagsError reports required flags that were neither given on the
// command line nor found in the defaults file.
type MissingFlagsError struct {
	Flags []string
}

func (e *MissingFlagsError) Error() string {
	quoted := make([]string, 0, len(e.Flags))
	for _, f := range e.Flags {
		quoted = append(quoted, fmt.Sprintf("%q", f))
	}
	return fmt.Sprintf("required flag(s) %s not set", strings.Join(quoted, ", "))
}

// OSM builds the orchestrator parameters.
func (v Values) OSM() OSM {
	insecure := true
	if v.OSMInsecure != nil {
		insecure = *v.OSMInsecure
	}

	return OSM{
		Host:         v.OSMHost,
		User:         v.OSMUser,
		Password:     v.OSMPassword,
		Project:      v.OSMProject,
		Insecure:     insecure,
		NSName:       v.NSName,
		NSDName:      v.NSDName,
		VIMAccount:   v.VIMAccount,
		NSConfigFile: v.NSConfigFile,
	}
}

// OpenStack builds the cloud parameters.
func (v Values) OpenStack() OpenStack {
	return OpenStack{
		AuthURL:         AuthURL(v.OSCtrlHost),
		User:            v.OSUser,
		Password:        v.OSPassword,
		Project:         v.OSProject,
		ProjectDomainID: v.OSProjectDomainID,
		UserDomainID:    v.OSUserDomainID,
	}
}

// AuthURL returns the Keystone endpoint served by a controller. A bare host
// gets the devstack layout, http://<host>/identity.
func AuthURL(host string) string {
	host = strings.TrimSuffix(host, "/")
	if strings.Contains(host, "://") {
		return host + "/identity"
	}
	return "http://" + host + "/identity"
}
