package discovery

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"
)

const (
	// ServiceType is the DNS-SD service type of engines.
	ServiceType = "_editor-engine._tcp"

	// Domain is the mDNS domain.
	Domain = "local."

	// DefaultPort is the default engine WebSocket port.
	DefaultPort = 7373

	// ProtocolVersion is advertised in the "v" TXT key.
	ProtocolVersion = 1

	// BrowseTimeout is the default timeout for finding an engine.
	BrowseTimeout = 5 * time.Second

	// MaxInstanceNameLen is the DNS label limit.
	MaxInstanceNameLen = 63
)

// TXT record keys.
const (
	TXTKeyVersion = "v"
	TXTKeyCodec   = "codec"
	TXTKeyPath    = "path"
)

// Errors.
var (
	ErrNotFound            = errors.New("engine not found")
	ErrInstanceNameTooLong = errors.New("instance name too long")
	ErrMissingRequired     = errors.New("missing required TXT record")
	ErrInvalidVersion      = errors.New("invalid protocol version")
	ErrNoAddress           = errors.New("service has no address")
)

// EngineInfo is what an engine advertises.
type EngineInfo struct {
	// InstanceName is the user-visible service name.
	InstanceName string

	// Port is the WebSocket port. Zero means DefaultPort.
	Port uint16

	// Codec is the envelope codec name.
	Codec string

	// Path is the WebSocket path. Empty means "/".
	Path string

	// Version is the protocol version.
	Version int
}

// EngineService is a discovered engine.
type EngineService struct {
	InstanceName string
	Host         string
	Port         uint16
	Addresses    []string
	Codec        string
	Path         string
	Version      int
}

// URL returns the WebSocket URL of the first address.
func (s *EngineService) URL() (string, error) {
	if len(s.Addresses) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoAddress, s.InstanceName)
	}
	path := s.Path
	if path == "" {
		path = "/"
	}
	host := net.JoinHostPort(s.Addresses[0], strconv.Itoa(int(s.Port)))
	return "ws://" + host + path, nil
}
