package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// envelope mirrors the server's response body.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Code    string          `json:"code"`
	Field   string          `json:"field"`
}

// apiError is a non-2xx response.
type apiError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *apiError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("[%d] %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("[%d] %s", e.StatusCode, e.Message)
}

var errNoToken = errors.New("no auth token: pass --token, set VIDSHARE_TOKEN or run `vidshare login`")

func newClient(requireAuth bool) (*resty.Client, error) {
	client := resty.New().
		SetBaseURL(strings.TrimSuffix(apiURL, "/")+"/api/v1").
		SetTimeout(30*time.Second).
		SetHeader("User-Agent", "vidshare-cli/0.1.0").
		SetHeader("Accept", "application/json")

	if authToken != "" {
		client.SetAuthToken(authToken)
	} else if requireAuth {
		return nil, errNoToken
	}
	return client, nil
}

// decode checks the status of resp and returns its envelope.
func decode(resp *resty.Response) (*envelope, error) {
	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		if resp.IsError() {
			return nil, &apiError{StatusCode: resp.StatusCode(), Message: strings.TrimSpace(string(resp.Body()))}
		}
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.IsError() || !env.Success {
		return nil, &apiError{StatusCode: resp.StatusCode(), Code: env.Code, Message: env.Message}
	}
	return &env, nil
}

// call runs req and decodes the envelope data into dst when dst is non-nil.
func call(req *resty.Request, method, path string, dst interface{}) (*envelope, error) {
	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	env, err := decode(resp)
	if err != nil {
		return nil, err
	}
	if dst != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, dst); err != nil {
			return nil, fmt.Errorf("failed to parse response data: %w", err)
		}
	}
	return env, nil
}
