/*
Osm-deploy provisions an OpenStack management network and deploys a Network
Service on an OSM orchestrator.

Usage:

	osm-deploy [flags]
	osm-deploy [command]

Available Commands:

	get         Display one or many OSM resources
	delete      Delete OSM resources by name or id

Examples:

	# Deploy the ims service on the demo project, prompting for both passwords
	osm-deploy --osm_host 10.0.0.5 --osm_user admin --osm_project admin \
	  --ns_name ims --nsd_name ims_nsd --vim_account openstack-site \
	  --os_ctrl_host 10.0.0.10 --os_user demo --os_project demo

	# Same, with everything but the NS name read from a config file
	osm-deploy --config osm-deploy.yaml --ns_name ims

	# Watch the deployed instances
	osm-deploy get ns

Values in the config file use the flag names as keys. Flags given on the command
line always win. Set LOG_LEVEL or --log-level to debug for request details.
*/
package main
