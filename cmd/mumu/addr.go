package main

import (
	"net"
	"strconv"

	"github.com/fzzzy/mumulib/internal/errors"
)

// splitAddr parses a host:port listen address. An empty host listens on
// every interface.
func splitAddr(addr string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, errors.New("M041").WithDetail("--addr: " + err.Error())
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 0 || port > 65535 {
		return "", 0, errors.New("M041").WithDetailf("--addr: invalid port %q", portStr)
	}
	return host, port, nil
}
