package utils

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

var ErrInvalidAddress = errors.New("invalid peer address")

var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
}

// NormalizeAddress turns a peer address into the lower-cased host:port form used as the peer
// set key. Accepted inputs:
//   - host:port
//   - host:port/any/path
//   - scheme://host[:port][/path], the port defaulting from the scheme.
func NormalizeAddress(address string) (string, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidAddress)
	}

	var hostPort string
	if strings.Contains(address, "://") {
		u, err := url.Parse(address)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidAddress, err)
		}
		if u.Host == "" {
			return "", fmt.Errorf("%w: %q has no host", ErrInvalidAddress, address)
		}
		hostPort = u.Host
		if u.Port() == "" {
			port, ok := defaultPorts[strings.ToLower(u.Scheme)]
			if !ok {
				return "", fmt.Errorf("%w: %q has no port", ErrInvalidAddress, address)
			}
			hostPort = net.JoinHostPort(u.Hostname(), port)
		}
	} else {
		// A bare path, only what comes before the first slash can be host:port.
		hostPort = strings.SplitN(address, "/", 2)[0]
	}

	host, port, err := net.SplitHostPort(hostPort)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if host == "" {
		return "", fmt.Errorf("%w: %q has no host", ErrInvalidAddress, address)
	}
	n, err := strconv.Atoi(port)
	if err != nil || n <= 0 || n > 65535 {
		return "", fmt.Errorf("%w: bad port %q", ErrInvalidAddress, port)
	}
	return net.JoinHostPort(strings.ToLower(host), strconv.Itoa(n)), nil
}
