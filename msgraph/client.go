package msgraph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"bitbucket.org/invoicedesk/postal_backend/config"
	"github.com/sethvargo/go-retry"
	"github.com/sirupsen/logrus"
)

// Client talks to the Microsoft Graph API for one drive/workbook pair. A
// fresh client (and therefore a fresh token) is built per script run.
type Client struct {
	baseURL    string
	driveID    string
	workbookID string
	token      string
	http       *http.Client
	logger     *logrus.Logger
}

func NewClient(ctx context.Context, settings *config.GraphSettings, logger *logrus.Logger) (*Client, error) {
	baseURL := strings.TrimSpace(os.Getenv("MSGRAPH_BASE_URL"))
	if baseURL == "" {
		baseURL = "https://graph.microsoft.com/v1.0"
	}
	loginBaseURL := strings.TrimSpace(os.Getenv("MSGRAPH_LOGIN_URL"))
	if loginBaseURL == "" {
		loginBaseURL = "https://login.microsoftonline.com"
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}

	token, err := requestToken(ctx, httpClient, loginBaseURL, settings.TenantID, settings.ClientID, settings.ClientSecret, DefaultScope)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		driveID:    settings.DriveID,
		workbookID: settings.WorkbookID,
		token:      token,
		http:       httpClient,
		logger:     logger,
	}, nil
}

// getJSON performs a single GET against a Graph path. Read calls on the
// pipeline path are deliberately not retried; a flaky read should fail the
// run loudly rather than paper over a truncated table.
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	return c.getJSONAbsolute(ctx, c.baseURL+path, out)
}

// getJSONAbsolute exists because @odata.nextLink pagination hands back
// fully qualified URLs.
func (c *Client) getJSONAbsolute(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("graph api error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(body, out)
}

// deleteOnce issues a single DELETE with no retry and no 404 mapping.
// Row-at-index deletes go through here: if the server committed the delete
// but the response was lost, a retry would hit whichever row shifted into
// the index, so the failure must surface instead.
func (c *Client) deleteOnce(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("graph api error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

// deleteWithRetry issues a DELETE and retries 5xx/transport errors with
// exponential backoff. Only safe for deletes addressed by a stable item id:
// those are idempotent, so a retried delete that already landed returns
// 404, which is treated as success.
func (c *Client) deleteWithRetry(ctx context.Context, path string) error {
	backoff := retry.WithMaxRetries(3, retry.NewExponential(500*time.Millisecond))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+path, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+c.token)

		resp, err := c.http.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return nil
		}
		if resp.StatusCode >= 500 {
			body, _ := io.ReadAll(resp.Body)
			c.logger.WithFields(logrus.Fields{
				"module": "msgraph",
				"path":   path,
				"status": resp.StatusCode,
			}).Warn("graph delete failed, will retry")
			return retry.RetryableError(fmt.Errorf("graph api error %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			body, _ := io.ReadAll(resp.Body)
			return fmt.Errorf("graph api error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		}
		return nil
	})
}

func (c *Client) workbookPath() string {
	return fmt.Sprintf("/drives/%s/items/%s/workbook", c.driveID, c.workbookID)
}
