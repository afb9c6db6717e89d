package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL)
}

func TestDoSetsHeadersAndDecodes(t *testing.T) {
	var gotRequestID, gotContentType string
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotRequestID = r.Header.Get("X-Request-ID")
		gotContentType = r.Header.Get("Content-Type")
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/vendors", r.URL.Path)
		var in Vendor
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		json.NewEncoder(w).Encode(Vendor{ID: 4, Name: in.Name})
	})

	vendor, err := client.CreateVendor(context.Background(), "ACME Corp")
	require.NoError(t, err)
	assert.Equal(t, int64(4), vendor.ID)
	assert.Equal(t, "ACME Corp", vendor.Name)
	assert.NotEmpty(t, gotRequestID)
	assert.Equal(t, "application/json", gotContentType)
}

func TestNon2xxBecomesError(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantDetail string
	}{
		{"json detail string", 400, `{"detail":"Allocations must sum to entry amount"}`, "Allocations must sum to entry amount"},
		{"json detail object", 409, `{"detail":{"code":"in_use","message":"category has children"}}`, "in_use: category has children"},
		{"plain text body", 500, `backend exploded`, "backend exploded"},
		{"empty body", 404, ``, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			})
			_, err := client.ListVendors(context.Background())
			require.Error(t, err)
			apiErr, ok := err.(*Error)
			require.True(t, ok, "expected *api.Error, got %T", err)
			assert.Equal(t, tc.status, apiErr.Status)
			assert.Equal(t, tc.wantDetail, apiErr.Detail)
			assert.True(t, IsStatus(err, tc.status))
		})
	}
}

func TestEntryRoundTripKeepsDecimalAmounts(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var in Entry
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		require.True(t, in.Amount.Equal(decimal.RequireFromString("1000")))
		require.Len(t, in.Allocations, 2)
		in.ID = 12
		json.NewEncoder(w).Encode(in)
	})

	entry := Entry{
		Kind:   "po",
		Amount: decimal.RequireFromString("1000"),
		CarID:  1,
		Allocations: []Allocation{
			{PortfolioID: 1, Amount: decimal.RequireFromString("400")},
			{PortfolioID: 2, Amount: decimal.RequireFromString("600")},
		},
	}
	out, err := client.CreateEntry(context.Background(), entry)
	require.NoError(t, err)
	assert.Equal(t, int64(12), out.ID)
	assert.True(t, out.Allocations[1].Amount.Equal(decimal.RequireFromString("600")))
}

func TestRebuildAndPollJob(t *testing.T) {
	polls := 0
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/admin/rebuild-effective-tags":
			require.Equal(t, "budget:3", r.URL.Query().Get("only_for"))
			json.NewEncoder(w).Encode(Job{ID: 9, Kind: "rebuild_effective_tags", Status: JobStatusQueued})
		case r.Method == http.MethodGet && r.URL.Path == "/api/admin/jobs/9":
			polls++
			status := JobStatusRunning
			if polls > 1 {
				status = JobStatusDone
			}
			json.NewEncoder(w).Encode(Job{ID: 9, Status: status})
		default:
			http.NotFound(w, r)
		}
	})

	job, err := client.RebuildEffectiveTags(context.Background(), "budget:3")
	require.NoError(t, err)
	assert.False(t, job.Terminal())

	job, err = client.GetJob(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, JobStatusRunning, job.Status)
	assert.False(t, job.Terminal())

	job, err = client.GetJob(context.Background(), job.ID)
	require.NoError(t, err)
	assert.True(t, job.Terminal())
}

func TestDeleteSendsNoBody(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Empty(t, r.Header.Get("Content-Type"))
		w.Write([]byte(`{"ok": true}`))
	})
	require.NoError(t, client.DeleteFxRate(context.Background(), 3))
}

func TestBudgetTreeDecodesNestedNodes(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/budgets/7/tree", r.URL.Path)
		w.Write([]byte(`[
			{"key":"budget:7","type":"budget","id":7,"label":"Q3 Ops","children":[
				{"key":"item_project:2","type":"item_project","id":2,"label":"Line A","children":[
					{"key":"category:5","type":"category","id":5,"label":"Tooling","leaf":true,"amount":"1250.50"}
				]}
			]}
		]`))
	})
	nodes, err := client.BudgetTree(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	require.Len(t, nodes[0].Children, 1)
	leaf := nodes[0].Children[0].Children[0]
	assert.True(t, leaf.Leaf)
	require.NotNil(t, leaf.Amount)
	assert.True(t, leaf.Amount.Equal(decimal.RequireFromString("1250.50")))
}
