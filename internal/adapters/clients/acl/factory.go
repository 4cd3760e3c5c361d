package acl

import (
	"fmt"
	"log/slog"

	"github.com/jsamuelsen/cloudify-context/internal/adapters/clients"
	"github.com/jsamuelsen/cloudify-context/internal/platform/config"
	"github.com/jsamuelsen/cloudify-context/internal/ports"
)

// APIPath is the REST API root relative to the manager address.
const APIPath = "/api/v3.1"

// managerServiceName names the manager in logs, spans and errors.
const managerServiceName = "manager"

// Connection locates a manager and controls certificate verification.
type Connection struct {
	Host     string
	Port     int
	Protocol string

	// CACertPath is a PEM bundle trusted instead of the system roots.
	CACertPath string

	// TrustAll disables certificate verification.
	TrustAll bool
}

// Address returns "{protocol}://{host}:{port}".
func (c Connection) Address() string {
	return fmt.Sprintf("%s://%s:%d", c.Protocol, c.Host, c.Port)
}

// Credentials authenticate against the manager.
type Credentials struct {
	Username string
	Password string `masq:"secret"`
	Tenant   string
}

// NewRestClient builds the authenticated client for one manager. The
// client's base URL is the REST API root; file server downloads go
// through the same client with absolute URLs so they share credentials and
// TLS settings. Nothing is sent over the network here.
func NewRestClient(conn Connection, creds Credentials, cfg config.ClientConfig, logger *slog.Logger) (*clients.Client, error) {
	client, err := clients.New(&clients.Config{
		BaseURL:     conn.Address() + APIPath,
		ServiceName: managerServiceName,
		Timeout:     cfg.Timeout,
		Retry:       cfg.Retry,
		Circuit:     cfg.CircuitBreaker,
		Transport:   cfg.Transport,
		TLS: clients.TLSConfig{
			CACertPath:         conn.CACertPath,
			InsecureSkipVerify: conn.TrustAll,
		},
		Headers: AuthHeaders(creds.Username, creds.Password, creds.Tenant),
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating manager client: %w", err)
	}

	return client, nil
}

// DescriptorFactory returns a function that builds the manager adapter a
// context descriptor points at, using cfg for timeouts, retries and the
// circuit breaker.
func DescriptorFactory(cfg config.ClientConfig, logger *slog.Logger) func(d *config.Descriptor) (ports.ManagerClient, error) {
	return func(d *config.Descriptor) (ports.ManagerClient, error) {
		client, err := NewRestClient(
			Connection{
				Host:       d.RestHost,
				Port:       d.RestPort,
				Protocol:   d.RestProtocol,
				CACertPath: d.SSLCert,
				TrustAll:   d.TrustAll,
			},
			Credentials{Username: d.Username, Password: d.Password, Tenant: d.Tenant},
			cfg,
			logger,
		)
		if err != nil {
			return nil, err
		}

		return NewManagerClient(ManagerClientConfig{Client: client, Logger: logger}), nil
	}
}
