package osm

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// vimResolver maps a VIM account name to its id.
type vimResolver func(name string) (string, error)

// instantiationParams turns a YAML instantiation config into the extra fields
// of an NS create request. VIM account names inside it are resolved to ids.
func instantiationParams(raw string, resolve vimResolver) (map[string]interface{}, error) {
	params := map[string]interface{}{}
	if raw == "" {
		return params, nil
	}

	nsConfig := map[string]interface{}{}
	if err := yaml.Unmarshal([]byte(raw), &nsConfig); err != nil {
		return nil, fmt.Errorf("failed to parse ns config: %w", err)
	}

	if networks, ok := nsConfig["vim-network-name"]; ok {
		nsConfig["vld"] = networks
		delete(nsConfig, "vim-network-name")
	}

	if value, ok := nsConfig["vld"]; ok {
		vlds, err := vldParams(value, resolve)
		if err != nil {
			return nil, err
		}
		params["vld"] = vlds
	}

	if value, ok := nsConfig["vnf"]; ok {
		vnfs, err := vnfParams(value, resolve)
		if err != nil {
			return nil, err
		}
		params["vnf"] = vnfs
	}

	if value, ok := nsConfig["additionalParamsForNs"]; ok {
		if _, isMap := value.(map[string]interface{}); !isMap {
			return nil, fmt.Errorf("ns config 'additionalParamsForNs' must be a dictionary")
		}
		params["additionalParamsForNs"] = value
	}

	if value, ok := nsConfig["additionalParamsForVnf"]; ok {
		if _, isList := value.([]interface{}); !isList {
			return nil, fmt.Errorf("ns config 'additionalParamsForVnf' must be a list")
		}
		params["additionalParamsForVnf"] = value
	}

	for _, key := range []string{"timeout_ns_deploy", "placement-engine"} {
		if value, ok := nsConfig[key]; ok {
			params[key] = value
		}
	}

	return params, nil
}

func vldParams(value interface{}, resolve vimResolver) ([]interface{}, error) {
	vlds, ok := value.([]interface{})
	if !ok {
		return nil, fmt.Errorf("ns config 'vld' must be a list")
	}

	for i, item := range vlds {
		vld, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("ns config 'vld' entry %d must be a dictionary", i)
		}

		byAccount, ok := vld["vim-network-name"].(map[string]interface{})
		if !ok {
			continue
		}

		resolved := make(map[string]interface{}, len(byAccount))
		for account, network := range byAccount {
			id, err := resolve(account)
			if err != nil {
				return nil, err
			}
			resolved[id] = network
		}
		vld["vim-network-name"] = resolved
	}

	return vlds, nil
}

func vnfParams(value interface{}, resolve vimResolver) ([]interface{}, error) {
	vnfs, ok := value.([]interface{})
	if !ok {
		return nil, fmt.Errorf("ns config 'vnf' must be a list")
	}

	for i, item := range vnfs {
		vnf, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("ns config 'vnf' entry %d must be a dictionary", i)
		}

		account, ok := vnf["vim_account"].(string)
		if !ok || account == "" {
			continue
		}

		id, err := resolve(account)
		if err != nil {
			return nil, err
		}
		delete(vnf, "vim_account")
		vnf["vimAccountId"] = id
	}

	return vnfs, nil
}
