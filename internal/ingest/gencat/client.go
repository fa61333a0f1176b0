// Package gencat provides a client for the Generalitat de Catalunya air
// quality open-data API (Socrata).
package gencat

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aerogrid/aerogrid/internal/ingest"
	"github.com/aerogrid/aerogrid/internal/provider/resilience"
)

const (
	// DefaultBaseURL is the base URL of the Gencat open-data API.
	DefaultBaseURL = "https://analisi.transparenciacatalunya.cat/resource"

	// ProviderName identifies this provider.
	ProviderName = "GenCat"

	// datasetID is the air quality dataset resource.
	datasetID = "/tasf-thgu.json"

	// measurementLimit caps a single measurement window fetch. The
	// dataset ships tens of thousands of rows per day.
	measurementLimit = "50000"
)

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the Gencat client.
type ClientConfig struct {
	// BaseURL is the API base URL (defaults to DefaultBaseURL).
	BaseURL string

	// AppToken is the Socrata application token sent as X-App-Token.
	AppToken string

	// HTTPClient is the HTTP client to use. If nil, a default resilient
	// client is created.
	HTTPClient HTTPDoer

	// Timeout for individual API requests (default: 30s).
	Timeout time.Duration
}

// Client is a Gencat open-data API client implementing ingest.Provider.
type Client struct {
	baseURL    string
	appToken   string
	httpClient HTTPDoer
}

// NewClient creates a new Gencat client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = resilience.NewClient(resilience.ClientConfig{
			Name:            "gencat",
			Timeout:         timeout,
			MaxRetries:      3,
			InitialInterval: 200 * time.Millisecond,
			MaxInterval:     5 * time.Second,
		})
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		appToken:   cfg.AppToken,
		httpClient: httpClient,
	}
}

// Name identifies this provider.
func (c *Client) Name() string {
	return ProviderName
}

// FetchStations retrieves the distinct station catalog via SoQL, avoiding
// the per-measurement duplication of the flat dataset.
func (c *Client) FetchStations(ctx context.Context) ([]*ingest.RawRecord, error) {
	params := url.Values{}
	params.Set("$select", "DISTINCT codi_eoi, nom_estacio, municipi, latitud, longitud, tipus_estacio")

	return c.fetchRecords(ctx, params)
}

// FetchMeasurements retrieves all measurement rows from the given day
// onward. An empty day yields an empty slice, never an error.
func (c *Client) FetchMeasurements(ctx context.Context, date time.Time) ([]*ingest.RawRecord, error) {
	params := url.Values{}
	params.Set("$where", fmt.Sprintf("data >= '%s'", date.Format("2006-01-02")))
	params.Set("$limit", measurementLimit)

	return c.fetchRecords(ctx, params)
}

func (c *Client) fetchRecords(ctx context.Context, params url.Values) ([]*ingest.RawRecord, error) {
	reqURL := c.baseURL + datasetID + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if c.appToken != "" {
		req.Header.Set("X-App-Token", c.appToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch gencat dataset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from gencat dataset", resp.StatusCode)
	}

	// The dataset is schemaless JSON: fixed fields plus open-ended hNN
	// hourly columns, all string-valued. Decode generically and capture
	// the hour slots in a second pass.
	var rows []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode gencat response: %w", err)
	}

	records := make([]*ingest.RawRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, toRawRecord(row))
	}

	return records, nil
}

// toRawRecord maps one decoded dataset row to the common raw shape.
func toRawRecord(row map[string]any) *ingest.RawRecord {
	fields := make(map[string]string, len(row))
	for k, v := range row {
		if s, ok := v.(string); ok {
			fields[k] = s
		}
	}

	return &ingest.RawRecord{
		StationCode:  fields["codi_eoi"],
		StationName:  fields["nom_estacio"],
		Municipality: fields["municipi"],
		Latitude:     fields["latitud"],
		Longitude:    fields["longitud"],
		StationType:  fields["tipus_estacio"],
		Date:         fields["data"],
		Pollutant:    fields["contaminant"],
		Units:        fields["unitats"],
		HourlyValues: ingest.CaptureHourSlots(fields),
	}
}

// Ensure Client implements the provider interface.
var _ ingest.Provider = (*Client)(nil)
