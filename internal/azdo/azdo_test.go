package azdo

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azdohist/cli/internal/auth"
	"github.com/azdohist/cli/internal/rest"
)

func TestBaseURI(t *testing.T) {
	tests := []struct {
		name         string
		organization string
		project      string
		expected     string
		expectErr    bool
	}{
		{name: "Valid", organization: "Acme", project: "Widgets", expected: "https://dev.azure.com/Acme/Widgets"},
		{name: "Empty organization", project: "Widgets", expectErr: true},
		{name: "Empty project", organization: "Acme", expectErr: true},
		{name: "Both empty", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uri, err := BaseURI(tt.organization, tt.project)
			if tt.expectErr {
				assert.ErrorIs(t, err, auth.ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "https://dev.azure.com/"+tt.organization+"/"+tt.project, uri)
			assert.Equal(t, tt.expected, uri)
		})
	}
}

func TestGetChangesetHistory(t *testing.T) {
	var gotPath, gotAuth string
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"count":1,"value":[{"changesetId":42}]}`))
	}))
	defer server.Close()

	opts := ChangesetOptions{
		Organization: "Acme",
		Project:      "Widgets",
		ItemPath:     "$/Widgets/src",
		From:         time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
		To:           time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC),
		BaseURL:      server.URL,
	}

	parsed, err := GetChangesetHistory(rest.NewClient(), opts, auth.NewCredential("pat"))
	require.NoError(t, err)

	assert.Equal(t, "/Acme/Widgets/_apis/tfvc/changesets", gotPath)
	assert.Equal(t, []string{"4.1"}, gotQuery["api-version"])
	assert.Equal(t, []string{"$/Widgets/src"}, gotQuery["searchCriteria.itemPath"])
	assert.Equal(t, []string{"2026-08-30T10:00:00"}, gotQuery["searchCriteria.fromDate"])
	assert.Equal(t, []string{"2026-08-31T10:00:00"}, gotQuery["searchCriteria.toDate"])
	assert.Equal(t, "Basic "+base64.StdEncoding.EncodeToString([]byte(":pat")), gotAuth)

	obj, ok := parsed.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), obj["count"])
}

func TestGetChangesetHistoryDefaultWindow(t *testing.T) {
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte("{}"))
	}))
	defer server.Close()

	opts := ChangesetOptions{
		Organization: "Acme",
		Project:      "Widgets",
		ItemPath:     "$/Widgets/src",
		BaseURL:      server.URL,
	}

	before := time.Now()
	_, err := GetChangesetHistory(rest.NewClient(), opts, auth.NewCredential("pat"))
	require.NoError(t, err)

	from, err := time.ParseInLocation(sortableTimeFormat, gotQuery["searchCriteria.fromDate"][0], time.Local)
	require.NoError(t, err)
	to, err := time.ParseInLocation(sortableTimeFormat, gotQuery["searchCriteria.toDate"][0], time.Local)
	require.NoError(t, err)

	assert.WithinDuration(t, before, to, 5*time.Second)
	assert.WithinDuration(t, to.Add(-24*time.Hour), from, 5*time.Second)
}

func TestGetChangesetHistoryFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"project not found"}`))
	}))
	defer server.Close()

	opts := ChangesetOptions{
		Organization: "Acme",
		Project:      "Nope",
		ItemPath:     "$/Nope/src",
		BaseURL:      server.URL,
	}

	_, err := GetChangesetHistory(rest.NewClient(), opts, auth.NewCredential("pat"))
	require.Error(t, err)

	var reqErr *rest.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusNotFound, reqErr.StatusCode)
}

func TestGetChangesetHistoryValidation(t *testing.T) {
	_, err := GetChangesetHistory(rest.NewClient(), ChangesetOptions{Organization: "Acme"}, auth.NewCredential("pat"))
	assert.ErrorIs(t, err, auth.ErrInvalidArgument)
}

func TestGetTestHistory(t *testing.T) {
	var gotPath, gotAPIVersion, gotContentType string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAPIVersion = r.URL.Query().Get("api-version")
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"resultsForGroup":[]}`))
	}))
	defer server.Close()

	opts := TestHistoryOptions{
		Organization: "Acme",
		Project:      "Widgets",
		TestName:     "NS.Class.Test",
		BaseURL:      server.URL,
	}

	_, err := GetTestHistory(rest.NewClient(), opts, auth.NewCredential("pat"))
	require.NoError(t, err)

	assert.Equal(t, "/Acme/Widgets/_apis/test/Results/testhistory", gotPath)
	assert.Equal(t, "5.0-preview.1", gotAPIVersion)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, `{"automatedTestName":"NS.Class.Test","GroupBy":1}`, string(gotBody))
}

func TestGetTestHistoryExplicitGroupBy(t *testing.T) {
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte("{}"))
	}))
	defer server.Close()

	opts := TestHistoryOptions{
		Organization: "Acme",
		Project:      "Widgets",
		TestName:     "NS.Class.Test",
		GroupBy:      2,
		BaseURL:      server.URL,
	}

	_, err := GetTestHistory(rest.NewClient(), opts, auth.NewCredential("pat"))
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(gotBody, &body))
	assert.Equal(t, float64(2), body["GroupBy"])
}

func TestGetTestHistoryValidation(t *testing.T) {
	_, err := GetTestHistory(rest.NewClient(), TestHistoryOptions{Organization: "Acme", Project: "Widgets"}, auth.NewCredential("pat"))
	assert.ErrorIs(t, err, auth.ErrInvalidArgument)
}

func TestQueryFunctionsDryRun(t *testing.T) {
	client := rest.NewClient()
	client.DryRun = true

	parsed, err := GetChangesetHistory(client, ChangesetOptions{
		Organization: "Acme",
		Project:      "Widgets",
		ItemPath:     "$/Widgets/src",
	}, auth.NewCredential("pat"))
	require.NoError(t, err)
	assert.Nil(t, parsed)

	parsed, err = GetTestHistory(client, TestHistoryOptions{
		Organization: "Acme",
		Project:      "Widgets",
		TestName:     "NS.Class.Test",
	}, auth.NewCredential("pat"))
	require.NoError(t, err)
	assert.Nil(t, parsed)
}
