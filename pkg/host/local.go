package host

import (
	"bytes"
	"context"
	"net"
	"os"
	"strings"

	"github.com/matzehuels/sunburst/pkg/dscc"
	"github.com/matzehuels/sunburst/pkg/httputil"
)

// DefaultLocalHost is the hostname that switches on local mode.
const DefaultLocalHost = "localhost"

// LocalHostEnv overrides [DefaultLocalHost].
const LocalHostEnv = "SUNBURST_LOCAL_HOST"

// LocalHost returns the configured development hostname.
func LocalHost() string {
	if h := strings.TrimSpace(os.Getenv(LocalHostEnv)); h != "" {
		return h
	}
	return DefaultLocalHost
}

// IsLocal reports whether hostname (optionally with a port) is the
// development host. Local mode disables filtering and returns draw errors
// instead of rendering an error panel.
func IsLocal(hostname string) bool {
	if h, _, err := net.SplitHostPort(hostname); err == nil {
		hostname = h
	}
	return hostname != "" && strings.EqualFold(hostname, LocalHost())
}

// LocalSource loads a snapshot from a file path or an http(s) URL.
type LocalSource struct {
	Location string
	Client   *httputil.Client
	Refresh  bool
	// KeepInteractions leaves the snapshot's interaction state in place,
	// for rendering a recorded host snapshot as the host would see it.
	KeepInteractions bool
}

// IsRemote reports whether Location is a URL.
func (s LocalSource) IsRemote() bool { return IsURL(s.Location) }

// IsURL reports whether location is an http or https URL.
func IsURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// Load reads the snapshot and, unless KeepInteractions is set, strips its
// interaction state.
func (s LocalSource) Load(ctx context.Context) (*dscc.Message, error) {
	var (
		msg *dscc.Message
		err error
	)
	if s.IsRemote() {
		client := s.Client
		if client == nil {
			client = httputil.NewClient()
		}
		var data []byte
		if data, err = client.Fetch(ctx, s.Location, s.Refresh); err != nil {
			return nil, err
		}
		msg, err = dscc.Decode(bytes.NewReader(data))
	} else {
		msg, err = dscc.ReadFile(s.Location)
	}
	if err != nil {
		return nil, err
	}
	if s.KeepInteractions {
		return msg, nil
	}
	return msg.WithoutInteractions(), nil
}
