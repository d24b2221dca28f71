package msgraph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const DefaultScope = "https://graph.microsoft.com/.default"

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// requestToken exchanges client credentials for a bearer token. The token
// is requested once per script invocation; there is no caching or refresh
// (the scripts finish well inside a token lifetime). Failures are not
// retried here.
func requestToken(ctx context.Context, httpClient *http.Client, loginBaseURL, tenantID, clientID, clientSecret, scope string) (string, error) {
	endpoint := fmt.Sprintf("%s/%s/oauth2/v2.0/token", strings.TrimRight(loginBaseURL, "/"), tenantID)

	form := url.Values{}
	form.Set("client_id", clientID)
	form.Set("client_secret", clientSecret)
	form.Set("scope", scope)
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("token endpoint error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed tokenResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("token endpoint returned unparsable body: %w", err)
	}
	if parsed.AccessToken == "" {
		return "", fmt.Errorf("token endpoint returned no access_token")
	}
	return parsed.AccessToken, nil
}
