package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"voterlookup/records"
	"voterlookup/session"
)

type stubSearcher struct {
	gotName    string
	gotFilters session.Filters
	results    []records.Summary
	err        error
}

func (s *stubSearcher) SearchOne(name string, f session.Filters) ([]records.Summary, error) {
	s.gotName = name
	s.gotFilters = f
	return s.results, s.err
}

func TestSearchHandler(t *testing.T) {
	stub := &stubSearcher{results: []records.Summary{{Name: "Jane Doe", City: "Austin"}}}
	srv := httptest.NewServer(New(stub, zap.NewNop()).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/search/Jane%20Doe?city=Austin&zip=78701")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	require.Equal(t, "Jane Doe", stub.gotName)
	require.Equal(t, "Austin", stub.gotFilters.City)
	require.Equal(t, "78701", stub.gotFilters.Zip)

	var body map[string][]records.Summary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body["Jane Doe"], 1)
	require.Equal(t, "Austin", body["Jane Doe"][0].City)
}

func TestSearchHandlerEmptyResults(t *testing.T) {
	stub := &stubSearcher{}
	srv := httptest.NewServer(New(stub, zap.NewNop()).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/search/Nobody%20Nowhere")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string][]records.Summary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotNil(t, body["Nobody Nowhere"])
	require.Empty(t, body["Nobody Nowhere"])
}

func TestSearchHandlerError(t *testing.T) {
	stub := &stubSearcher{err: errors.New("session expired")}
	srv := httptest.NewServer(New(stub, zap.NewNop()).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/search/Jane%20Doe")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestHealthHandler(t *testing.T) {
	srv := httptest.NewServer(New(&stubSearcher{}, zap.NewNop()).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
