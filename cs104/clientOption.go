// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package cs104

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/scadalink/iec104proxy/asdu"
)

// ClientOption is the dial-side configuration shared by Client and
// ServerSpecial: the remote endpoint, TLS material, and the APCI and
// application-layer parameters frozen when the connection opens.
type ClientOption struct {
	config            Config
	params            asdu.Params
	server            *url.URL      // Connected server endpoint
	autoReconnect     bool          // Enable auto reconnect
	reconnectInterval time.Duration // Reconnection interval
	connectTimeout    time.Duration // Dial bound; zero falls back to t0
	TLSConfig         *tls.Config   // TLS configuration
	// DialContext allows providing a custom dialer (e.g., SSH jump). If nil, net.Dialer is used.
	DialContext func(ctx context.Context, network, address string) (net.Conn, error)
}

// NewOption returns options with DefaultConfig and asdu.ParamsWide.
func NewOption() *ClientOption {
	return &ClientOption{
		config:            DefaultConfig(),
		params:            *asdu.ParamsWide,
		autoReconnect:     true,
		reconnectInterval: DefaultReconnectInterval,
	}
}

// SetConfig sets the APCI configuration; an invalid cfg falls back to DefaultConfig.
func (sf *ClientOption) SetConfig(cfg Config) *ClientOption {
	if err := cfg.Valid(); err != nil {
		sf.config = DefaultConfig()
	} else {
		sf.config = cfg
	}
	return sf
}

// SetParams sets the application-layer parameters; an invalid p falls back
// to asdu.ParamsWide.
func (sf *ClientOption) SetParams(p *asdu.Params) *ClientOption {
	if err := p.Valid(); err != nil {
		sf.params = *asdu.ParamsWide
	} else {
		sf.params = *p
	}
	return sf
}

// SetReconnectInterval sets the pause between dial attempts.
func (sf *ClientOption) SetReconnectInterval(t time.Duration) *ClientOption {
	if t > 0 {
		sf.reconnectInterval = t
	}
	return sf
}

// SetAutoReconnect enables or disables automatic reconnection.
func (sf *ClientOption) SetAutoReconnect(b bool) *ClientOption {
	sf.autoReconnect = b
	return sf
}

// SetConnectTimeout bounds the TCP/TLS dial separately from the t0
// protocol parameter; zero keeps t0 as the bound.
func (sf *ClientOption) SetConnectTimeout(t time.Duration) *ClientOption {
	if t > 0 {
		sf.connectTimeout = t
	}
	return sf
}

// dialTimeout is the effective bound for the outbound dial.
func (sf *ClientOption) dialTimeout() time.Duration {
	if sf.connectTimeout > 0 {
		return sf.connectTimeout
	}
	return sf.config.ConnectTimeout0
}

// SetTLSConfig sets the TLS configuration used for tls:// endpoints.
func (sf *ClientOption) SetTLSConfig(t *tls.Config) *ClientOption {
	sf.TLSConfig = t
	return sf
}

// SetDialContext sets a custom dialer function used to establish TCP connections (e.g., SSH jump).
func (sf *ClientOption) SetDialContext(dial func(ctx context.Context, network, address string) (net.Conn, error)) *ClientOption {
	sf.DialContext = dial
	return sf
}

// AddRemoteServer sets the remote endpoint to dial, as scheme://host:port.
// A bare ":port" defaults the host to 127.0.0.1 and a missing scheme
// defaults to "tcp://". Hostnames are limited to 64 characters.
func (sf *ClientOption) AddRemoteServer(server string) error {
	if len(server) > 0 && server[0] == ':' {
		server = "127.0.0.1" + server
	}
	if !strings.Contains(server, "://") {
		server = "tcp://" + server
	}
	remoteURL, err := url.Parse(server)
	if err != nil {
		return err
	}
	if len(remoteURL.Hostname()) > 64 {
		return errors.New("hostname exceeds 64 characters")
	}
	if remoteURL.Port() == "" {
		port := Port
		switch remoteURL.Scheme {
		case "ssl", "tls", "tcps":
			port = PortSecure
		}
		remoteURL.Host = net.JoinHostPort(remoteURL.Hostname(), strconv.Itoa(port))
	}
	sf.server = remoteURL
	return nil
}
