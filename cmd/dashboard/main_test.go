package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raymond9734/customer-dashboard/internal/models"
)

// fakeAPI serves the customer resources from memory
type fakeAPI struct {
	mu        sync.Mutex
	customers []models.Customer
	history   map[string][]models.ServiceHistory
}

func newFakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	api := &fakeAPI{
		customers: []models.Customer{
			{LicenseNumber: "L1", Name: "Alice Wanjiru", Mobile1: "0712345001", InstalledBy: "Peter Otieno",
				ServiceType: models.CustomerServiceNew, InstalledOn: "2024-01-10"},
			{LicenseNumber: "L2", Name: "Brian Kamau", Mobile1: "0722000002", InstalledBy: "Mary Njeri",
				ServiceType: models.CustomerServiceRenewal, InstalledOn: "2024-03-05"},
		},
		history: map[string][]models.ServiceHistory{
			"L1": {
				{ID: "SH-1", EmployeeName: "John", ServiceType: models.ServiceInstallation, Status: models.ServiceStatusCompleted, Date: "2024-01-10"},
				{ID: "SH-2", EmployeeName: "John", ServiceType: models.ServiceRepair, Status: models.ServiceStatusPending, Date: "2024-02-11"},
			},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /customers", func(w http.ResponseWriter, r *http.Request) {
		api.mu.Lock()
		defer api.mu.Unlock()
		writeData(w, http.StatusOK, api.customers)
	})
	mux.HandleFunc("POST /customers", func(w http.ResponseWriter, r *http.Request) {
		var in models.CustomerInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		api.mu.Lock()
		defer api.mu.Unlock()
		c := models.NewCustomer(in)
		api.customers = append([]models.Customer{*c}, api.customers...)
		writeData(w, http.StatusCreated, c)
	})
	mux.HandleFunc("PUT /customers/{lic}", func(w http.ResponseWriter, r *http.Request) {
		var patch models.CustomerPatch
		_ = json.NewDecoder(r.Body).Decode(&patch)
		api.mu.Lock()
		defer api.mu.Unlock()
		for i := range api.customers {
			if api.customers[i].LicenseNumber == r.PathValue("lic") {
				patch.Apply(&api.customers[i])
				writeData(w, http.StatusOK, api.customers[i])
				return
			}
		}
		writeError(w, http.StatusNotFound, "Customer not found")
	})
	mux.HandleFunc("DELETE /customers/{lic}", func(w http.ResponseWriter, r *http.Request) {
		api.mu.Lock()
		defer api.mu.Unlock()
		for i := range api.customers {
			if api.customers[i].LicenseNumber == r.PathValue("lic") {
				api.customers = append(api.customers[:i], api.customers[i+1:]...)
				writeData(w, http.StatusOK, map[string]bool{"deleted": true})
				return
			}
		}
		writeError(w, http.StatusNotFound, "Customer not found")
	})
	mux.HandleFunc("GET /service-history", func(w http.ResponseWriter, r *http.Request) {
		api.mu.Lock()
		defer api.mu.Unlock()
		entries := api.history[r.URL.Query().Get("licenseNumber")]
		if entries == nil {
			entries = []models.ServiceHistory{}
		}
		writeData(w, http.StatusOK, entries)
	})
	mux.HandleFunc("POST /service-history", func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateServiceHistoryRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		entry := models.ServiceHistory{
			ID:           "SH-new",
			EmployeeName: req.EmployeeName,
			ServiceType:  req.ServiceType,
			Status:       req.Status,
			Date:         "2024-03-05",
		}
		api.mu.Lock()
		defer api.mu.Unlock()
		api.history[req.LicenseNumber] = append(api.history[req.LicenseNumber], entry)
		writeData(w, http.StatusCreated, entry)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"data": data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{"code": "NOT_FOUND", "message": message},
	})
}

func runCLI(t *testing.T, srv *httptest.Server, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = cli(context.Background(), append([]string{"-api", srv.URL}, args...), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestCLI_List(t *testing.T) {
	srv := newFakeAPI(t)

	code, out, _ := runCLI(t, srv, "list")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Alice Wanjiru")
	assert.Contains(t, out, "Brian Kamau")
	assert.Contains(t, out, "Showing 2 of 2 customers")

	code, out, _ = runCLI(t, srv, "list", "-q", "ALICE")
	require.Equal(t, 0, code)
	assert.NotContains(t, out, "Brian Kamau")
	assert.Contains(t, out, "Showing 1 of 2 customers")
}

func TestCLI_Report(t *testing.T) {
	srv := newFakeAPI(t)

	code, out, _ := runCLI(t, srv, "report", "-from", "2024-02-01", "-to", "2024-12-31")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "L2")
	assert.NotContains(t, out, "Alice")

	code, _, errOut := runCLI(t, srv, "report", "-from", "01/02/2024")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "fromDate")
}

func TestCLI_Installers(t *testing.T) {
	srv := newFakeAPI(t)

	code, out, _ := runCLI(t, srv, "installers")
	require.Equal(t, 0, code)
	assert.Equal(t, "Mary Njeri\nPeter Otieno\n", out)
}

func TestCLI_Add(t *testing.T) {
	srv := newFakeAPI(t)

	code, out, errOut := runCLI(t, srv, "add",
		"-license", "L9", "-name", "New Person", "-mobile1", "0700000009", "-installed-on", "2024-07-01")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "L9")
	assert.Contains(t, errOut, "[success] Customer added successfully!")

	code, _, errOut = runCLI(t, srv, "add",
		"-license", "l1", "-name", "Dup", "-mobile1", "0700000010", "-installed-on", "2024-07-01")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "[error] Customer with license number l1 already exists.")
	assert.NotContains(t, errOut, "error: ", "message printed once")
}

func TestCLI_Update(t *testing.T) {
	srv := newFakeAPI(t)

	code, out, errOut := runCLI(t, srv, "update", "L2", "-name", "Brian K.")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Brian K.")
	assert.Contains(t, errOut, "Customer details updated successfully!")

	code, out, _ = runCLI(t, srv, "list")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "0722000002", "untouched fields kept")
}

func TestCLI_ServiceHistory(t *testing.T) {
	srv := newFakeAPI(t)

	code, out, errOut := runCLI(t, srv, "add-service", "L1", "-employee", "Jane", "-type", models.ServiceCheckUp)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "SH-new")
	assert.Contains(t, errOut, "Service history added successfully!")

	code, out, _ = runCLI(t, srv, "history", "L1")
	require.Equal(t, 0, code)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[1], "SH-new"), "newest first")
	assert.True(t, strings.HasPrefix(lines[3], "SH-1"))
}

func TestCLI_Delete(t *testing.T) {
	srv := newFakeAPI(t)

	code, _, errOut := runCLI(t, srv, "delete", "L1")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, errOut, "Customer deleted successfully!")

	code, _, errOut = runCLI(t, srv, "delete", "L1")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "[error] Customer not found")
}

func TestCLI_Errors(t *testing.T) {
	srv := newFakeAPI(t)

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantErr  string
	}{
		{name: "no command", args: nil, wantCode: 2, wantErr: "usage: dashboard"},
		{name: "unknown command", args: []string{"frobnicate"}, wantCode: 2, wantErr: `unknown command "frobnicate"`},
		{name: "missing license", args: []string{"history"}, wantCode: 2, wantErr: "needs a license number"},
		{name: "bad flag", args: []string{"list", "-nope"}, wantCode: 2, wantErr: "flag provided but not defined"},
		{name: "unknown customer", args: []string{"history", "L404"}, wantCode: 1, wantErr: "error: Customer L404 not found."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut := runCLI(t, srv, tt.args...)
			assert.Equal(t, tt.wantCode, code)
			assert.Contains(t, errOut, tt.wantErr)
		})
	}
}

func TestCLI_ServerDown(t *testing.T) {
	srv := newFakeAPI(t)
	srv.Close()

	code, _, errOut := runCLI(t, srv, "list")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "[error] Failed to load customer data.")
}
