package hub

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"codeberg.org/mutker/roomlog/internal/errors"
)

const (
	defaultPort    = 8443
	defaultTimeout = 10 * time.Second

	deviceTypeEnvironmentSensor = "environmentSensor"
)

type Config struct {
	Address string // host or host:port of the hub
	Token   string // bearer token issued during hub pairing
	Timeout time.Duration
}

// Client speaks the hub's local HTTPS API. The hub serves a self-signed
// certificate, so verification is disabled; the bearer token is the
// authentication mechanism on this link.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func New(cfg Config) (*Client, error) {
	errFactory := errors.New()

	if cfg.Address == "" {
		return nil, errFactory.New(ErrMissingAddress)
	}
	if cfg.Token == "" {
		return nil, errFactory.New(ErrMissingToken)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	address := cfg.Address
	if _, _, err := net.SplitHostPort(address); err != nil {
		address = fmt.Sprintf("%s:%d", address, defaultPort)
	}

	return &Client{
		baseURL: "https://" + address + "/v1",
		token:   cfg.Token,
		http: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // self-signed hub certificate
			},
		},
	}, nil
}

// device mirrors the subset of the hub's device representation we consume.
// Numeric attributes are pointers: the hub omits attributes a device does
// not currently report.
type device struct {
	ID         string `json:"id"`
	DeviceType string `json:"deviceType"`
	Attributes struct {
		CustomName         string   `json:"customName"`
		CurrentTemperature *float64 `json:"currentTemperature"`
		CurrentRH          *float64 `json:"currentRH"`
		BatteryPercentage  *float64 `json:"batteryPercentage"`
	} `json:"attributes"`
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	errFactory := errors.New()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return errFactory.Wrap(ErrUnreachable, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return errFactory.Wrap(ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errFactory.WithData(ErrBadResponse, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errFactory.Wrap(ErrBadResponse, err)
	}

	return nil
}

// ListEnvironmentSensors returns every environment sensor known to the hub.
func (c *Client) ListEnvironmentSensors(ctx context.Context) ([]*EnvironmentSensor, error) {
	var devices []device
	if err := c.get(ctx, "/devices", &devices); err != nil {
		return nil, err
	}

	sensors := make([]*EnvironmentSensor, 0, len(devices))
	for _, d := range devices {
		if d.DeviceType != deviceTypeEnvironmentSensor {
			continue
		}
		sensors = append(sensors, &EnvironmentSensor{
			client: c,
			ID:     d.ID,
			Name:   d.Attributes.CustomName,
		})
	}

	return sensors, nil
}

// FindByName resolves an environment sensor by its configured custom name.
func (c *Client) FindByName(ctx context.Context, name string) (Sensor, error) {
	errFactory := errors.New()

	sensors, err := c.ListEnvironmentSensors(ctx)
	if err != nil {
		return nil, err
	}

	for _, s := range sensors {
		if s.Name == name {
			return s, nil
		}
	}

	return nil, errFactory.WithData(ErrSensorNotFound, name)
}
