package ghost

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/ghostplan/matrix/internal/config"
	"github.com/ghostplan/matrix/internal/domain/models"
)

// Client exposes the Ghost API operations the matrix service consumes.
type Client interface {
	ListAccounts(ctx context.Context) ([]models.Account, error)
	ListItemTypes(ctx context.Context, accountID string) ([]models.ItemType, error)
	GetJob(ctx context.Context, jobID string) (*models.Job, error)
	ListItems(ctx context.Context, projectID, jobID string) ([]models.Item, error)
	CreateItem(ctx context.Context, projectID, jobID string, req models.CreateItemRequest) (*models.Item, error)
	UpdateEntries(ctx context.Context, projectID, jobID, itemID string, entries []models.EntryDTO) error
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
	auth       *AuthSession
}

// NewClient builds a Ghost API client. The auth session supplies the bearer
// token per request, and a 401 triggers one refresh-and-retry when the
// session can re-authenticate.
func NewClient(cfg config.GhostConfig, auth *AuthSession) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.Timeout).
		OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			if token := auth.Token(); token != "" {
				req.SetHeader("Authorization", fmt.Sprintf("Bearer %s", token))
			}
			return nil
		}).
		SetRetryCount(1).
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			if err != nil || resp == nil || resp.StatusCode() != http.StatusUnauthorized {
				return false
			}
			if !auth.CanRefresh() {
				return false
			}
			return auth.Refresh(resp.Request.Context()) == nil
		})

	return &APIClient{httpClient: restyClient, auth: auth}
}

// ListAccounts fetches the account master list.
func (c *APIClient) ListAccounts(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&accounts).
		Get("/accounts")
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	if err := statusErr(resp, "list accounts"); err != nil {
		return nil, err
	}
	return accounts, nil
}

// ListItemTypes fetches the item type master list, optionally filtered to
// one account.
func (c *APIClient) ListItemTypes(ctx context.Context, accountID string) ([]models.ItemType, error) {
	var itemTypes []models.ItemType
	req := c.httpClient.R().
		SetContext(ctx).
		SetResult(&itemTypes)
	if accountID != "" {
		req.SetQueryParam("account_id", accountID)
	}

	resp, err := req.Get("/item-types")
	if err != nil {
		return nil, fmt.Errorf("list item types: %w", err)
	}
	if err := statusErr(resp, "list item types"); err != nil {
		return nil, err
	}
	return itemTypes, nil
}

// GetJob fetches one job.
func (c *APIClient) GetJob(ctx context.Context, jobID string) (*models.Job, error) {
	job := new(models.Job)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(job).
		Get(fmt.Sprintf("/jobs/%s", jobID))
	if err != nil {
		return nil, fmt.Errorf("get job %s: %w", jobID, err)
	}
	if err := statusErr(resp, "get job"); err != nil {
		return nil, err
	}
	return job, nil
}

// ListItems fetches the budget lines of a job.
func (c *APIClient) ListItems(ctx context.Context, projectID, jobID string) ([]models.Item, error) {
	var items []models.Item
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&items).
		Get(fmt.Sprintf("/projects/%s/jobs/%s/items", projectID, jobID))
	if err != nil {
		return nil, fmt.Errorf("list items for job %s: %w", jobID, err)
	}
	if err := statusErr(resp, "list items"); err != nil {
		return nil, err
	}
	return items, nil
}

// CreateItem adds a budget line to a job.
func (c *APIClient) CreateItem(ctx context.Context, projectID, jobID string, req models.CreateItemRequest) (*models.Item, error) {
	item := new(models.Item)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(item).
		Post(fmt.Sprintf("/projects/%s/jobs/%s/items", projectID, jobID))
	if err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	if err := statusErr(resp, "create item"); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateEntries replaces an item's full entry list. The payload carries the
// whole list, not a diff.
func (c *APIClient) UpdateEntries(ctx context.Context, projectID, jobID, itemID string, entries []models.EntryDTO) error {
	if entries == nil {
		entries = []models.EntryDTO{}
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(map[string]any{"entries": entries}).
		Put(fmt.Sprintf("/projects/%s/jobs/%s/items/%s/entries", projectID, jobID, itemID))
	if err != nil {
		return fmt.Errorf("update entries for item %s: %w", itemID, err)
	}
	return statusErr(resp, "update entries")
}

// statusErr converts a non-2xx response into an error carrying the status
// and the Ghost API's plain-text body.
func statusErr(resp *resty.Response, op string) error {
	if resp.StatusCode() < http.StatusBadRequest {
		return nil
	}
	body := strings.TrimSpace(resp.String())
	if len(body) > 200 {
		body = body[:200]
	}
	return fmt.Errorf("ghost api: %s: status %d: %s", op, resp.StatusCode(), body)
}
