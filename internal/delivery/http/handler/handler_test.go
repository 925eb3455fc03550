package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/esg-discovery/internal/entity"
	"github.com/user/esg-discovery/internal/usecase"
)

type fakeManager struct {
	submitErr error
	submitted []entity.OrganizationQuery
	status    string
	results   []entity.VerifiedDocument
}

func (f *fakeManager) Submit(_ context.Context, query entity.OrganizationQuery, _ bool) error {
	if f.submitErr != nil {
		return f.submitErr
	}
	f.submitted = append(f.submitted, query)
	return nil
}

func (f *fakeManager) Status(_ context.Context, _ string) (string, error) {
	return f.status, nil
}

func (f *fakeManager) Results(_ context.Context, _ string) ([]entity.VerifiedDocument, error) {
	return f.results, nil
}

type fakeLibrary struct {
	docs      []entity.VerifiedDocument
	deleted   []string
	overrides map[string]string
}

func (f *fakeLibrary) Documents(_ context.Context) ([]entity.VerifiedDocument, error) {
	return f.docs, nil
}

func (f *fakeLibrary) DeleteDocument(_ context.Context, url string) error {
	f.deleted = append(f.deleted, url)
	return nil
}

func (f *fakeLibrary) UpsertHubOverride(_ context.Context, organization, url string) error {
	if f.overrides == nil {
		f.overrides = map[string]string{}
	}
	f.overrides[organization] = url
	return nil
}

func TestHandleSubmitDiscovery(t *testing.T) {
	manager := &fakeManager{}
	h := NewHandler(manager, &fakeLibrary{})

	body := `{"organization": " Acme Corp ", "entry_url": "https://www.acme.com/esg"}`
	req := httptest.NewRequest(http.MethodPost, "/api/discover", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.HandleSubmitDiscovery(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, manager.submitted, 1)
	assert.Equal(t, "Acme Corp", manager.submitted[0].Name)
	assert.Equal(t, "https://www.acme.com/esg", manager.submitted[0].EntryURL)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp["status"])
}

func TestHandleSubmitDiscoveryValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{`},
		{"missing organization", `{"organization": "  "}`},
		{"bad entry url", `{"organization": "Acme", "entry_url": "not-a-url"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeManager{}, &fakeLibrary{})
			req := httptest.NewRequest(http.MethodPost, "/api/discover", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			h.HandleSubmitDiscovery(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandleSubmitDiscoveryConflict(t *testing.T) {
	manager := &fakeManager{submitErr: usecase.ErrRecentlyDiscovered}
	h := NewHandler(manager, &fakeLibrary{})

	req := httptest.NewRequest(http.MethodPost, "/api/discover", strings.NewReader(`{"organization": "Acme"}`))
	rec := httptest.NewRecorder()

	h.HandleSubmitDiscovery(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandleDiscoveryStatus(t *testing.T) {
	h := NewHandler(&fakeManager{status: usecase.StatusRunning}, &fakeLibrary{})

	req := httptest.NewRequest(http.MethodGet, "/api/discover/status?organization=Acme+Corp", nil)
	rec := httptest.NewRecorder()

	h.HandleDiscoveryStatus(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "running", resp["status"])
	assert.Equal(t, "Acme Corp", resp["organization"])
}

func TestHandleDiscoveryStatusUnknownOrganization(t *testing.T) {
	h := NewHandler(&fakeManager{status: ""}, &fakeLibrary{})

	req := httptest.NewRequest(http.MethodGet, "/api/discover/status?organization=Nobody", nil)
	rec := httptest.NewRecorder()

	h.HandleDiscoveryStatus(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleDiscoveryStatusRequiresOrganization(t *testing.T) {
	h := NewHandler(&fakeManager{}, &fakeLibrary{})

	req := httptest.NewRequest(http.MethodGet, "/api/discover/status", nil)
	rec := httptest.NewRecorder()

	h.HandleDiscoveryStatus(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleResults(t *testing.T) {
	manager := &fakeManager{results: []entity.VerifiedDocument{
		{Organization: "Acme Corp", Title: "ESG Report 2024", URL: "https://acme.com/esg.pdf", InferredYear: 2024},
	}}
	h := NewHandler(manager, &fakeLibrary{})

	req := httptest.NewRequest(http.MethodGet, "/api/results?organization=Acme+Corp", nil)
	rec := httptest.NewRecorder()

	h.HandleResults(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Documents []struct {
			Title        string `json:"title"`
			InferredYear int    `json:"inferred_year"`
		} `json:"documents"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Documents, 1)
	assert.Equal(t, "ESG Report 2024", resp.Documents[0].Title)
	assert.Equal(t, 2024, resp.Documents[0].InferredYear)
}

func TestHandleDeleteDocument(t *testing.T) {
	library := &fakeLibrary{}
	h := NewHandler(&fakeManager{}, library)

	req := httptest.NewRequest(http.MethodDelete, "/api/documents?url=https%3A%2F%2Facme.com%2Fesg.pdf", nil)
	rec := httptest.NewRecorder()

	h.HandleDeleteDocument(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"https://acme.com/esg.pdf"}, library.deleted)
}

func TestHandleUpsertHub(t *testing.T) {
	library := &fakeLibrary{}
	h := NewHandler(&fakeManager{}, library)

	body := `{"organization": "Acme Corp", "url": "https://www.acme.com/esg"}`
	req := httptest.NewRequest(http.MethodPut, "/api/hubs", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.HandleUpsertHub(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://www.acme.com/esg", library.overrides["Acme Corp"])
}

func TestHandleUpsertHubRejectsBadURL(t *testing.T) {
	h := NewHandler(&fakeManager{}, &fakeLibrary{})

	req := httptest.NewRequest(http.MethodPut, "/api/hubs", strings.NewReader(`{"organization": "Acme", "url": "nope"}`))
	rec := httptest.NewRecorder()

	h.HandleUpsertHub(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleHealthCheck(t *testing.T) {
	h := NewHandler(&fakeManager{}, &fakeLibrary{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()

	h.HandleHealthCheck(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}
