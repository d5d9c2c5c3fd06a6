package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"syscall"
)

const maxPort = 65535

// Listen binds host:port, moving to the next port while the current one is
// in use. Any other bind error is returned as is.
func Listen(host string, port int) (net.Listener, error) {
	if port < 0 || port > maxPort {
		return nil, fmt.Errorf("invalid port %d", port)
	}
	for p := port; p <= maxPort; p++ {
		ln, err := net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(p)))
		if err == nil {
			return ln, nil
		}
		if !errors.Is(err, syscall.EADDRINUSE) {
			return nil, err
		}
		slog.Warn("port busy, trying next", "port", p, "next", p+1)
		if port == 0 {
			break
		}
	}
	return nil, fmt.Errorf("no available port from %d to %d", port, maxPort)
}
