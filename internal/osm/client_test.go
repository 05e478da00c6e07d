package osm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/vexxhost/osm-deploy/internal/config"
)

const (
	testToken = "4a3b1c2d"
	nsID      = "8f1e9c3e-7a35-4d7a-9b1c-0c1d2e3f4a5b"
)

type ClientTestSuite struct {
	suite.Suite

	mux     *http.ServeMux
	server  *httptest.Server
	client  *Client
	created map[string]interface{}
	deleted []string
}

func (s *ClientTestSuite) SetupTest() {
	s.mux = http.NewServeMux()
	s.created = nil
	s.deleted = nil

	s.mux.HandleFunc("/osm/admin/v1/tokens", func(w http.ResponseWriter, r *http.Request) {
		body := map[string]string{}
		s.Require().NoError(json.NewDecoder(r.Body).Decode(&body))

		if body["password"] != "secret" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"code": "UNAUTHORIZED", "status": 401, "detail": "Invalid username or password"}`)
			return
		}

		s.Equal("admin", body["username"])
		s.Equal("admin", body["project_id"])

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"_id": %q, "id": %q, "project_id": "p-1", "project_name": "admin", "username": "admin"}`, testToken, testToken)
	})

	s.handle("/osm/nslcm/v1/ns_instances_content", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			instances := []map[string]interface{}{
				{"_id": nsID, "name": "ims", "operational-status": "running", "config-status": "configured", "detailed-status": "Done", "nsd-name-ref": "ims_nsd"},
				{"_id": "11111111-2222-4333-8444-555555555555", "name": "epc", "operational-status": "init", "config-status": "init", "detailed-status": "Deploying"},
			}

			if name := r.URL.Query().Get("name"); name != "" {
				filtered := []map[string]interface{}{}
				for _, ns := range instances {
					if ns["name"] == name {
						filtered = append(filtered, ns)
					}
				}
				instances = filtered
			}

			writeJSON(w, http.StatusOK, instances)
		case http.MethodPost:
			s.created = map[string]interface{}{}
			s.Require().NoError(json.NewDecoder(r.Body).Decode(&s.created))
			writeJSON(w, http.StatusCreated, map[string]string{"id": "new-ns", "nslcmop_id": "op-1"})
		}
	})

	s.handle("/osm/nslcm/v1/ns_instances_content/", func(w http.ResponseWriter, r *http.Request) {
		s.Equal(http.MethodDelete, r.Method)
		s.deleted = append(s.deleted, r.URL.Path)
		w.WriteHeader(http.StatusAccepted)
	})

	s.handle("/osm/nsd/v1/ns_descriptors", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]string{
			{"_id": "nsd-pkg-1", "id": "ims_nsd", "name": "ims_nsd"},
		})
	})

	s.handle("/osm/admin/v1/vim_accounts", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]string{
			{"_id": "vim-1", "name": "openstack-site", "vim_type": "openstack", "vim_url": "http://controller/identity/v3"},
			{"_id": "vim-2", "name": "edge-site", "vim_type": "openstack"},
		})
	})

	s.server = httptest.NewServer(s.mux)

	client, err := NewClient(context.Background(), s.options("secret"))
	s.Require().NoError(err)
	s.client = client
}

func (s *ClientTestSuite) TearDownTest() {
	s.server.Close()
}

func (s *ClientTestSuite) options(password string) config.OSM {
	return config.OSM{
		Host:     s.server.URL,
		User:     "admin",
		Password: password,
		Project:  "admin",
		Insecure: true,
	}
}

func (s *ClientTestSuite) handle(pattern string, fn http.HandlerFunc) {
	s.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		s.Equal("Bearer "+testToken, r.Header.Get("Authorization"))
		fn(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *ClientTestSuite) TestAuthenticationFailure() {
	_, err := NewClient(context.Background(), s.options("wrong"))
	s.Require().Error(err)

	var authErr *AuthError
	s.Require().ErrorAs(err, &authErr)
	s.Equal(s.server.URL+"/osm/", authErr.Endpoint)

	var apiErr *APIError
	s.Require().ErrorAs(err, &apiErr)
	s.Equal(http.StatusUnauthorized, apiErr.StatusCode)
	s.Equal("Invalid username or password", apiErr.Detail)
}

func (s *ClientTestSuite) TestListNSByName() {
	instances, err := s.client.ListNS(context.Background(), ListNSOpts{Name: "ims"})
	s.Require().NoError(err)
	s.Require().Len(instances, 1)
	s.Equal(nsID, instances[0].ID)
	s.Equal("ims_nsd", instances[0].NSDName)
	s.Equal("Done", instances[0].Raw["detailed-status"])
}

func (s *ClientTestSuite) TestListNSNoMatch() {
	instances, err := s.client.ListNS(context.Background(), ListNSOpts{Name: "missing"})
	s.Require().NoError(err)
	s.Empty(instances)
}

func (s *ClientTestSuite) TestGetNS() {
	tests := []struct {
		name   string
		lookup string
		want   string
	}{
		{name: "by name", lookup: "epc", want: "epc"},
		{name: "by id", lookup: nsID, want: "ims"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			ns, err := s.client.GetNS(context.Background(), tt.lookup)
			s.Require().NoError(err)
			s.Equal(tt.want, ns.Name)
		})
	}
}

func (s *ClientTestSuite) TestGetNSNotFound() {
	_, err := s.client.GetNS(context.Background(), "missing")
	s.ErrorIs(err, ErrNotFound)
	s.EqualError(err, "ns missing not found")
}

func (s *ClientTestSuite) TestGetVIMAccount() {
	vim, err := s.client.GetVIMAccount(context.Background(), "openstack-site")
	s.Require().NoError(err)
	s.Equal("vim-1", vim.ID)
	s.Equal("http://controller/identity/v3", vim.Raw["vim_url"])

	_, err = s.client.GetVIMAccount(context.Background(), "nowhere")
	s.ErrorIs(err, ErrNotFound)
}

func (s *ClientTestSuite) TestCreateNS() {
	id, err := s.client.CreateNS(context.Background(), CreateNSOpts{
		NSDName:    "ims_nsd",
		NSName:     "ims-2",
		VIMAccount: "openstack-site",
		Config: `vld:
  - name: mgmtnet
    vim-network-name:
      edge-site: provider
vnf:
  - member-vnf-index: "1"
    vim_account: edge-site
additionalParamsForNs:
  domain: example.org
`,
	})
	s.Require().NoError(err)
	s.Equal("new-ns", id)

	s.Equal("nsd-pkg-1", s.created["nsdId"])
	s.Equal("ims-2", s.created["nsName"])
	s.Equal(DefaultDescription, s.created["nsDescription"])
	s.Equal("vim-1", s.created["vimAccountId"])
	s.NotContains(s.created, "ssh_keys")

	s.Equal([]interface{}{
		map[string]interface{}{
			"name":             "mgmtnet",
			"vim-network-name": map[string]interface{}{"vim-2": "provider"},
		},
	}, s.created["vld"])
	s.Equal([]interface{}{
		map[string]interface{}{"member-vnf-index": "1", "vimAccountId": "vim-2"},
	}, s.created["vnf"])
	s.Equal(map[string]interface{}{"domain": "example.org"}, s.created["additionalParamsForNs"])
}

func (s *ClientTestSuite) TestCreateNSUnknownDescriptor() {
	_, err := s.client.CreateNS(context.Background(), CreateNSOpts{
		NSDName:    "missing",
		NSName:     "ims-2",
		VIMAccount: "openstack-site",
	})
	s.ErrorIs(err, ErrNotFound)
	s.Nil(s.created)
}

func (s *ClientTestSuite) TestDeleteNS() {
	s.Require().NoError(s.client.DeleteNS(context.Background(), "ims"))
	s.Equal([]string{"/osm/nslcm/v1/ns_instances_content/" + nsID}, s.deleted)
}

func TestClientTestSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func TestEndpoint(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{host: "10.0.0.5", want: "https://10.0.0.5:9999/osm/"},
		{host: "osm.example.org:8443", want: "https://osm.example.org:8443/osm/"},
		{host: "http://10.0.0.5", want: "http://10.0.0.5:9999/osm/"},
		{host: "https://nbi.example.org:9999/", want: "https://nbi.example.org:9999/osm/"},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			got, err := Endpoint(tt.host)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAPIErrorDetail(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/osm/admin/v1/tokens", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"id": testToken})
	})
	mux.HandleFunc("/osm/nslcm/v1/ns_instances_content", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		writeJSON(w, http.StatusConflict, map[string]interface{}{
			"code":   "CONFLICT",
			"status": http.StatusConflict,
			"detail": "name 'ims' already exists",
		})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := NewClient(context.Background(), config.OSM{Host: server.URL, User: "admin", Password: "secret"})
	require.NoError(t, err)

	_, err = client.ListNS(context.Background(), ListNSOpts{})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "CONFLICT", apiErr.Code)
	assert.Equal(t, "name 'ims' already exists", apiErr.Error())
}

func TestNSInstanceInitializing(t *testing.T) {
	tests := []struct {
		op, config string
		want       bool
	}{
		{op: "init", config: "init", want: true},
		{op: "init", config: "configured", want: true},
		{op: "running", config: "init", want: true},
		{op: "running", config: "configured", want: false},
		{op: "failed", config: "failed", want: false},
	}

	for _, tt := range tests {
		ns := NSInstance{OperationalStatus: tt.op, ConfigStatus: tt.config}
		assert.Equal(t, tt.want, ns.Initializing(), "%s/%s", tt.op, tt.config)
	}
}
