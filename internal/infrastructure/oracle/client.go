package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"yonexus/internal/domain"
)

const DefaultBaseURL = "https://api.tibiadata.com"

// maxBodySize bounds how much of a registry response is read.
const maxBodySize = 1 << 20

var (
	// ErrTransient marks failures worth retrying: throttling, server errors,
	// network errors and per-call timeouts.
	ErrTransient         = errors.New("transient registry failure")
	ErrMalformedResponse = errors.New("malformed registry response")
)

// TibiaData v4 character payload, only the fields we read.
type characterResponse struct {
	Character struct {
		Character struct {
			Name     string `json:"name"`
			Vocation string `json:"vocation"`
			Level    int    `json:"level"`
			World    string `json:"world"`
		} `json:"character"`
	} `json:"character"`
}

// Client performs single, unretried lookups against the TibiaData API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) Fetch(ctx context.Context, name string) (domain.ExternalInfo, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.ExternalInfo{}, domain.ErrCharacterNotFound
	}

	apiURL := fmt.Sprintf("%s/v4/character/%s", c.baseURL, url.PathEscape(name))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return domain.ExternalInfo{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.ExternalInfo{}, fmt.Errorf("%w: %v", ErrTransient, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.ExternalInfo{}, fmt.Errorf("%w: %s", domain.ErrCharacterNotFound, name)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return domain.ExternalInfo{}, fmt.Errorf("%w: status %d", ErrTransient, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return domain.ExternalInfo{}, fmt.Errorf("%w: status %d", ErrMalformedResponse, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return domain.ExternalInfo{}, fmt.Errorf("%w: %v", ErrTransient, err)
	}
	if len(body) > maxBodySize {
		return domain.ExternalInfo{}, fmt.Errorf("%w: body exceeds %d bytes", ErrMalformedResponse, maxBodySize)
	}

	var payload characterResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return domain.ExternalInfo{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	char := payload.Character.Character
	if char.Name == "" {
		return domain.ExternalInfo{}, fmt.Errorf("%w: %s", domain.ErrCharacterNotFound, name)
	}
	if char.Level < 1 {
		return domain.ExternalInfo{}, fmt.Errorf("%w: level %d", ErrMalformedResponse, char.Level)
	}

	return domain.ExternalInfo{
		Name:     char.Name,
		Vocation: char.Vocation,
		Level:    char.Level,
		World:    char.World,
	}, nil
}
