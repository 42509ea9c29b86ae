package influxdb

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/jmadland/hearthcloud-core/internal/infrastructure/config"
)

const (
	connectTimeout = 10 * time.Second
	pingTimeout    = 5 * time.Second

	// Batching defaults applied when the config leaves them zero.
	defaultBatchSize         = 100
	defaultFlushIntervalSecs = 10
)

// Client writes the command audit trail to InfluxDB v2.
//
// All writes go through the non-blocking batched write API; errors
// surface asynchronously through the SetOnError callback.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Client struct {
	client   influxdb2.Client
	writeAPI api.WriteAPI

	connected atomic.Bool

	mu      sync.RWMutex
	onError func(err error)
}

// Connect creates the client, verifies the server with a ping, and
// starts the batched write API.
//
// Parameters:
//   - cfg: InfluxDB section of the service configuration
//
// Returns:
//   - *Client: Connected client ready for use
//   - error: ErrDisabled when the integration is off, ErrConnectionFailed otherwise
func Connect(cfg config.InfluxDBConfig) (*Client, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}

	batch := cfg.BatchSize
	if batch <= 0 {
		batch = defaultBatchSize
	}
	flush := cfg.FlushInterval
	if flush <= 0 {
		flush = defaultFlushIntervalSecs
	}

	// #nosec G115 -- both values forced positive above
	client := influxdb2.NewClientWithOptions(cfg.URL, cfg.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(uint(batch)).
			SetFlushInterval(uint(flush)*1000))

	if err := ping(client); err != nil {
		client.Close()
		return nil, err
	}

	c := &Client{
		client:   client,
		writeAPI: client.WriteAPI(cfg.Org, cfg.Bucket),
	}
	c.connected.Store(true)

	go c.forwardWriteErrors(c.writeAPI.Errors())

	return c, nil
}

// ping verifies server reachability within the connect timeout.
func ping(client influxdb2.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	healthy, err := client.Ping(ctx)
	if err != nil {
		return fmt.Errorf("%w: ping failed: %w", ErrConnectionFailed, err)
	}
	if !healthy {
		return fmt.Errorf("%w: server not healthy", ErrConnectionFailed)
	}
	return nil
}

// forwardWriteErrors drains the write API's error channel into the
// registered callback. The channel closes when the client closes.
func (c *Client) forwardWriteErrors(errs <-chan error) {
	for err := range errs {
		c.mu.RLock()
		cb := c.onError
		c.mu.RUnlock()
		if cb != nil {
			cb(err)
		}
	}
}

// Close flushes pending writes and shuts the client down. Safe on a
// zero-value client.
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}

	c.connected.Store(false)
	c.writeAPI.Flush()
	c.client.Close()

	return nil
}

// HealthCheck pings the server, honouring ctx for cancellation.
func (c *Client) HealthCheck(ctx context.Context) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	healthy, err := c.client.Ping(pingCtx)
	if err != nil {
		return fmt.Errorf("influxdb health check: %w", err)
	}
	if !healthy {
		return fmt.Errorf("influxdb health check: server not healthy")
	}

	return nil
}

// IsConnected reports the last known connection state. HealthCheck does
// an active ping; this does not.
func (c *Client) IsConnected() bool {
	return c.connected.Load()
}

// SetOnError registers a callback for asynchronous write failures.
// Without one, failed batches are dropped silently.
func (c *Client) SetOnError(cb func(err error)) {
	c.mu.Lock()
	c.onError = cb
	c.mu.Unlock()
}

// Flush blocks until all buffered points are written. No-op when
// disconnected.
func (c *Client) Flush() {
	if c.writeAPI == nil || !c.IsConnected() {
		return
	}
	c.writeAPI.Flush()
}
