// Package azdo exposes query functions for Azure DevOps history endpoints:
// TFVC changeset history and test-result history. Each function validates
// its options, composes the organization/project base URI, and delegates to
// the rest dispatcher.
package azdo

import (
	"fmt"
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/azdohist/cli/internal/auth"
	"github.com/azdohist/cli/internal/rest"
)

const (
	// Host is the Azure DevOps service host.
	Host = "https://dev.azure.com"

	changesetsPath        = "/_apis/tfvc/changesets"
	testHistoryPath       = "/_apis/test/Results/testhistory"
	changesetsAPIVersion  = "4.1"
	testHistoryAPIVersion = "5.0-preview.1"

	// sortableTimeFormat is the sortable ISO-8601 form the changesets
	// endpoint expects for searchCriteria dates.
	sortableTimeFormat = "2006-01-02T15:04:05"

	// defaultLookback is the changeset history window when no dates are given.
	defaultLookback = 24 * time.Hour
)

// BaseURI composes the canonical base address for an organization and
// project. Both are required.
func BaseURI(organization, project string) (string, error) {
	if err := validation.Validate(organization, validation.Required); err != nil {
		return "", fmt.Errorf("%w: organization: %v", auth.ErrInvalidArgument, err)
	}
	if err := validation.Validate(project, validation.Required); err != nil {
		return "", fmt.Errorf("%w: project: %v", auth.ErrInvalidArgument, err)
	}
	return Host + "/" + organization + "/" + project, nil
}

// ChangesetOptions selects the TFVC changeset history to retrieve. From and
// To default to a one-day lookback window ending now.
type ChangesetOptions struct {
	Organization string
	Project      string
	ItemPath     string
	From         time.Time
	To           time.Time

	// BaseURL overrides the service address, mainly for tests.
	BaseURL string
}

// Validate checks the required changeset options.
func (o ChangesetOptions) Validate() error {
	if err := validation.ValidateStruct(&o,
		validation.Field(&o.Organization, validation.Required),
		validation.Field(&o.Project, validation.Required),
		validation.Field(&o.ItemPath, validation.Required),
	); err != nil {
		return fmt.Errorf("%w: %v", auth.ErrInvalidArgument, err)
	}
	return nil
}

// GetChangesetHistory retrieves TFVC changesets for an item path via GET
// <base>/_apis/tfvc/changesets. Returns the parsed JSON response, or nil in
// dry-run mode.
func GetChangesetHistory(client *rest.Client, opts ChangesetOptions, cred *auth.Credential) (interface{}, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	uri, err := endpointURI(opts.BaseURL, opts.Organization, opts.Project, changesetsPath)
	if err != nil {
		return nil, err
	}

	to := opts.To
	if to.IsZero() {
		to = time.Now()
	}
	from := opts.From
	if from.IsZero() {
		from = to.Add(-defaultLookback)
	}

	body := rest.NewParams().
		Set("api-version", changesetsAPIVersion).
		Set("searchCriteria.itemPath", opts.ItemPath).
		Set("searchCriteria.fromDate", from.Format(sortableTimeFormat)).
		Set("searchCriteria.toDate", to.Format(sortableTimeFormat))

	return client.CallJSON(uri, http.MethodGet, body, cred, "")
}

// TestHistoryOptions selects the test-result history to retrieve. GroupBy
// defaults to 1.
type TestHistoryOptions struct {
	Organization string
	Project      string
	TestName     string
	GroupBy      int

	// BaseURL overrides the service address, mainly for tests.
	BaseURL string
}

// Validate checks the required test history options.
func (o TestHistoryOptions) Validate() error {
	if err := validation.ValidateStruct(&o,
		validation.Field(&o.Organization, validation.Required),
		validation.Field(&o.Project, validation.Required),
		validation.Field(&o.TestName, validation.Required),
	); err != nil {
		return fmt.Errorf("%w: %v", auth.ErrInvalidArgument, err)
	}
	return nil
}

// GetTestHistory retrieves result history for an automated test via POST
// <base>/_apis/test/Results/testhistory. The api-version travels as a query
// parameter; the test selector is the JSON body. Returns the parsed JSON
// response, or nil in dry-run mode.
func GetTestHistory(client *rest.Client, opts TestHistoryOptions, cred *auth.Credential) (interface{}, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	uri, err := endpointURI(opts.BaseURL, opts.Organization, opts.Project, testHistoryPath)
	if err != nil {
		return nil, err
	}
	uri += "?api-version=" + testHistoryAPIVersion

	groupBy := opts.GroupBy
	if groupBy == 0 {
		groupBy = 1
	}

	body := rest.NewParams().
		Set("automatedTestName", opts.TestName).
		Set("GroupBy", groupBy)

	return client.CallJSON(uri, http.MethodPost, body, cred, "")
}

func endpointURI(baseURL, organization, project, path string) (string, error) {
	if baseURL != "" {
		return baseURL + "/" + organization + "/" + project + path, nil
	}
	base, err := BaseURI(organization, project)
	if err != nil {
		return "", err
	}
	return base + path, nil
}
