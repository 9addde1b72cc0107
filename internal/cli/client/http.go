package client

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const (
	envUserID = "GREENPLATE_USER_ID"
	envAPIURL = "GREENPLATE_API_URL"

	defaultAPIURL = "http://localhost:8080"

	userIDHeader = "X-User-ID"
)

type APIClient struct {
	baseURL    string
	userID     int64
	sortBy     string
	httpClient *http.Client
}

// NewAPIClientWithCmd resolves --user and --api-url against the environment
// and the saved profile. A nil cmd skips the flags.
func NewAPIClientWithCmd(cmd *cobra.Command) (*APIClient, error) {
	var (
		flagUser int64
		flagURL  string
	)
	if cmd != nil {
		flagUser, _ = cmd.Flags().GetInt64("user")
		flagURL, _ = cmd.Flags().GetString("api-url")
	}

	id, err := Resolve(flagUser, flagURL)
	if err != nil {
		return nil, err
	}
	c := NewAPIClientWithConfig(id.UserID, id.APIURL)
	c.sortBy = id.SortBy
	return c, nil
}

// NewAPIClient loads .env before resolving the identity.
func NewAPIClient(cmd *cobra.Command) (*APIClient, error) {
	_ = godotenv.Load()
	return NewAPIClientWithCmd(cmd)
}

func NewAPIClientWithConfig(userID int64, baseURL string) *APIClient {
	return &APIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userID:     userID,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// UserID is the user requests are sent as, 0 when anonymous.
func (c *APIClient) UserID() int64 {
	return c.userID
}

// RequireUser fails when no user id is configured.
func (c *APIClient) RequireUser() error {
	if c.userID <= 0 {
		return fmt.Errorf("no user configured (run 'greenplate auth login --user <id>' or set %s)", envUserID)
	}
	return nil
}

// APIResponse represents the standard API response format.
type APIResponse struct {
	Data  json.RawMessage `json:"data,omitempty"`
	Error string          `json:"error,omitempty"`
	Code  string          `json:"code,omitempty"`
}

// APIError represents an error from the API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Message)
}

// Get performs a GET request.
func (c *APIClient) Get(path string, query url.Values) (*APIResponse, error) {
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return c.do(http.MethodGet, path, nil)
}

// Post performs a POST request with JSON body.
func (c *APIClient) Post(path string, body interface{}) (*APIResponse, error) {
	return c.do(http.MethodPost, path, body)
}

// Put performs a PUT request with JSON body.
func (c *APIClient) Put(path string, body interface{}) (*APIResponse, error) {
	return c.do(http.MethodPut, path, body)
}

// Delete performs a DELETE request.
func (c *APIClient) Delete(path string) (*APIResponse, error) {
	return c.do(http.MethodDelete, path, nil)
}

func (c *APIClient) do(method, path string, body interface{}) (*APIResponse, error) {
	reqURL := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, reqURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if c.userID > 0 {
		req.Header.Set(userIDHeader, strconv.FormatInt(c.userID, 10))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		if resp.StatusCode >= 400 {
			return nil, &APIError{
				StatusCode: resp.StatusCode,
				Message:    string(respBody),
			}
		}
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Code:       apiResp.Code,
			Message:    apiResp.Error,
		}
	}

	return &apiResp, nil
}

// Decode unmarshals the response payload into v.
func (r *APIResponse) Decode(v interface{}) error {
	if err := json.Unmarshal(r.Data, v); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func printJSON(v interface{}) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(output))
	return nil
}
