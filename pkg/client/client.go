package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/braunma/buildcheck/pkg/catalog"
	"github.com/braunma/buildcheck/pkg/compat"
	"github.com/braunma/buildcheck/pkg/models"
	"github.com/braunma/buildcheck/pkg/utils"
)

// ErrNotFound is returned for 404 responses outside the spec and configuration endpoints
var ErrNotFound = errors.New("not found")

// InventoryClient reads specifications and configurations from a REST inventory service.
// It implements both compat.SpecLookup and compat.SnapshotSource.
type InventoryClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *utils.Logger
}

// Option configures an InventoryClient
type Option func(*InventoryClient)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *InventoryClient) { c.httpClient = hc }
}

// WithInsecureTLS disables certificate verification for lab inventories with self-signed certs
func WithInsecureTLS() Option {
	return func(c *InventoryClient) {
		c.httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
}

// NewClient creates a new inventory API client
func NewClient(baseURL, token string, logger *utils.Logger, opts ...Option) *InventoryClient {
	c := &InventoryClient{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is a non-2xx response from the inventory
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Body)
}

// Request makes an HTTP request to the inventory API and decodes the JSON response into out
func (c *InventoryClient) Request(ctx context.Context, method, path string, body, out interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Token "+c.token)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("%s %s", method, path)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	if resp.StatusCode >= 400 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

// GetSpec fetches the specification record of one component
func (c *InventoryClient) GetSpec(ctx context.Context, t models.ComponentType, uuid string) (models.ComponentSpec, error) {
	spec, err := newSpec(t)
	if err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/api/specs/%s/%s", t, url.PathEscape(uuid))
	if err := c.Request(ctx, http.MethodGet, path, nil, spec); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%s %s: %w", t, uuid, catalog.ErrSpecNotFound)
		}
		return nil, err
	}

	if err := prepare(spec, t); err != nil {
		return nil, fmt.Errorf("%s %s: %w", t, uuid, err)
	}
	return spec, nil
}

// ListSpecs fetches every specification record of one component type
func (c *InventoryClient) ListSpecs(ctx context.Context, t models.ComponentType) ([]models.ComponentSpec, error) {
	var raw []json.RawMessage
	if err := c.Request(ctx, http.MethodGet, fmt.Sprintf("/api/specs/%s", t), nil, &raw); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	specs := make([]models.ComponentSpec, 0, len(raw))
	for i, item := range raw {
		spec, err := newSpec(t)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(item, spec); err != nil {
			return nil, fmt.Errorf("failed to decode %s record %d: %w", t, i, err)
		}
		if err := prepare(spec, t); err != nil {
			return nil, fmt.Errorf("%s record %d: %w", t, i, err)
		}
		specs = append(specs, spec)
	}

	c.logger.Debug("Fetched %d %s specs", len(specs), t)
	return specs, nil
}

// GetSnapshot fetches the installed components of a configuration
func (c *InventoryClient) GetSnapshot(ctx context.Context, configID string) (*models.ConfigurationSnapshot, error) {
	var snap models.ConfigurationSnapshot
	path := fmt.Sprintf("/api/configurations/%s", url.PathEscape(configID))
	if err := c.Request(ctx, http.MethodGet, path, nil, &snap); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", configID, compat.ErrSnapshotNotFound)
		}
		return nil, err
	}
	if snap.ConfigID == "" {
		snap.ConfigID = configID
	}
	return &snap, nil
}

// prepare applies the same boundary normalization as the local catalog
func prepare(spec models.ComponentSpec, t models.ComponentType) error {
	if card, ok := spec.(*models.CardSpec); ok && card.Kind == "" {
		card.Kind = t
	}
	catalog.Infer(spec)
	return catalog.ValidateSpec(spec)
}

// newSpec returns an empty record of the concrete type for a component type
func newSpec(t models.ComponentType) (models.ComponentSpec, error) {
	switch t {
	case models.TypeCPU:
		return &models.CPUSpec{}, nil
	case models.TypeMotherboard:
		return &models.MotherboardSpec{}, nil
	case models.TypeRAM:
		return &models.RAMSpec{}, nil
	case models.TypeStorage:
		return &models.StorageSpec{}, nil
	case models.TypeChassis:
		return &models.ChassisSpec{}, nil
	case models.TypeNIC, models.TypePCIeCard, models.TypeHBACard:
		return &models.CardSpec{}, nil
	case models.TypeCaddy:
		return &models.CaddySpec{}, nil
	}
	return nil, fmt.Errorf("unknown component type %q", t)
}
