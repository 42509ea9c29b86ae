package mqtt

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/jmadland/hearthcloud-core/internal/infrastructure/config"
)

const (
	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second
	keepAlive      = 60 * time.Second

	// disconnectQuiesceMs is how long Disconnect waits for in-flight
	// messages before dropping the connection.
	disconnectQuiesceMs = 1000

	maxQoS = 2
)

// clientOptions translates the service config into paho options: broker
// URL, credentials, clean session, keepalive, and auto-reconnect with
// bounded retry delays. TLS 1.2 is the floor when TLS is enabled.
func clientOptions(cfg config.MQTTConfig) *pahomqtt.ClientOptions {
	scheme := "tcp"
	if cfg.Broker.TLS {
		scheme = "ssl"
	}

	opts := pahomqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("%s://%s:%d", scheme, cfg.Broker.Host, cfg.Broker.Port)).
		SetClientID(cfg.Broker.ClientID).
		SetCleanSession(true).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(time.Duration(cfg.Reconnect.InitialDelay) * time.Second).
		SetMaxReconnectInterval(time.Duration(cfg.Reconnect.MaxDelay) * time.Second).
		SetConnectTimeout(connectTimeout).
		SetKeepAlive(keepAlive)

	if cfg.Auth.Username != "" {
		opts.SetUsername(cfg.Auth.Username)
		opts.SetPassword(cfg.Auth.Password)
	}

	if cfg.Broker.TLS {
		opts.SetTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12})
	}

	return opts
}

// presence is the retained payload on the system status topic. Reason is
// set only for offline announcements, where it distinguishes a graceful
// shutdown from a broker-delivered last will.
type presence struct {
	Status    string `json:"status"`
	ClientID  string `json:"client_id"`
	Reason    string `json:"reason,omitempty"`
	Timestamp string `json:"timestamp"`
}

func presencePayload(status, clientID, reason string) []byte {
	p, _ := json.Marshal(presence{ //nolint:errcheck // struct of strings cannot fail to marshal
		Status:    status,
		ClientID:  clientID,
		Reason:    reason,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	return p
}
