package mqtt

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/jmadland/hearthcloud-core/internal/infrastructure/config"
)

// Client is a publish-only wrapper around paho.mqtt.golang. The engine
// pushes device notifications and service presence; it never subscribes,
// since agents report state through the cloud API.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Client struct {
	paho pahomqtt.Client
	cfg  config.MQTTConfig

	connected atomic.Bool

	// mu guards the optional callbacks and logger.
	mu           sync.RWMutex
	onConnect    func()
	onDisconnect func(err error)
	log          Logger
}

// Logger is the subset of logging used by the client. Satisfied by
// logging.Logger and slog.Logger.
type Logger interface {
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
}

// Connect dials the broker and returns a ready client.
//
// The connection carries a retained last will on the status topic so
// other services see an unexpected disconnect; a graceful Close replaces
// it with a shutdown announcement. Reconnects are automatic with bounded
// retry delays, and every (re)connect republishes online presence.
//
// Parameters:
//   - cfg: MQTT section of the service configuration
//
// Returns:
//   - *Client: Connected client ready for use
//   - error: ErrConnectionFailed if the broker cannot be reached in time
func Connect(cfg config.MQTTConfig) (*Client, error) {
	c := &Client{cfg: cfg}

	opts := clientOptions(cfg)
	opts.SetWill(
		StatusTopic(),
		string(presencePayload("offline", cfg.Broker.ClientID, "unexpected_disconnect")),
		1, true,
	)
	opts.SetOnConnectHandler(func(pahomqtt.Client) { c.brokerUp() })
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) { c.brokerDown(err) })

	c.paho = pahomqtt.NewClient(opts)
	token := c.paho.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, connectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	// The OnConnect handler fires asynchronously and may not have run
	// yet; mark connected here so IsConnected is true on return.
	c.connected.Store(true)

	return c, nil
}

// brokerUp runs on every successful (re)connect.
func (c *Client) brokerUp() {
	c.connected.Store(true)

	payload := presencePayload("online", c.cfg.Broker.ClientID, "")
	c.paho.Publish(StatusTopic(), byte(c.cfg.QoS), true, payload)

	c.mu.RLock()
	cb := c.onConnect
	c.mu.RUnlock()
	if cb != nil {
		cb()
	}
}

// brokerDown runs when the connection drops; paho keeps retrying in the
// background.
func (c *Client) brokerDown(err error) {
	c.connected.Store(false)

	c.mu.RLock()
	cb := c.onDisconnect
	log := c.log
	c.mu.RUnlock()

	if log != nil {
		log.Warn("MQTT connection lost", "error", err)
	}
	if cb != nil {
		cb(err)
	}
}

// Close announces a graceful shutdown on the status topic, waits briefly
// for in-flight publishes, and disconnects. Safe on a never-connected
// client.
func (c *Client) Close() error {
	if c.paho == nil {
		return nil
	}

	if c.IsConnected() {
		payload := presencePayload("offline", c.cfg.Broker.ClientID, "graceful_shutdown")
		token := c.paho.Publish(StatusTopic(), byte(c.cfg.QoS), true, payload)
		token.WaitTimeout(publishTimeout)
	}

	c.paho.Disconnect(disconnectQuiesceMs)
	c.connected.Store(false)

	return nil
}

// HealthCheck reports whether the broker connection is up.
func (c *Client) HealthCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("mqtt health check: %w", err)
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}
	return nil
}

// IsConnected returns the current connection state as last reported by
// the connection handlers, cross-checked with paho's own view.
func (c *Client) IsConnected() bool {
	return c.paho != nil && c.connected.Load() && c.paho.IsConnected()
}

// SetOnConnect registers a callback invoked on initial connect and on
// every reconnect.
func (c *Client) SetOnConnect(cb func()) {
	c.mu.Lock()
	c.onConnect = cb
	c.mu.Unlock()
}

// SetOnDisconnect registers a callback invoked when the connection is
// lost; the error describes why.
func (c *Client) SetOnDisconnect(cb func(err error)) {
	c.mu.Lock()
	c.onDisconnect = cb
	c.mu.Unlock()
}

// SetLogger attaches a logger for connection events. Without one,
// connection losses are only visible through the disconnect callback.
func (c *Client) SetLogger(log Logger) {
	c.mu.Lock()
	c.log = log
	c.mu.Unlock()
}
