package net

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"InkBoard/internal/logging"
)

const (
	// Scheme prefixes share links handed from host to participants.
	Scheme = "inkboard://"
	// DefaultPort is where a host serves its board.
	DefaultPort = 8888
)

// GetOutgoingIP finds the preferred local IP address for the host to share.
func GetOutgoingIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return getLocalIPFallback()
	}
	defer conn.Close()

	localAddr := conn.LocalAddr().(*net.UDPAddr)
	return localAddr.IP.String(), nil
}

// getLocalIPFallback is used on networks without internet access.
func getLocalIPFallback() (string, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "", fmt.Errorf("list interfaces: %w", err)
	}
	for _, address := range addrs {
		if ipnet, ok := address.(*net.IPNet); ok && !ipnet.IP.IsLoopback() && ipnet.IP.To4() != nil {
			return ipnet.IP.String(), nil
		}
	}
	logging.Logger().Warn("net: no suitable local IP found, share link uses loopback")
	return "127.0.0.1", nil
}

// ShareLink builds the link a host hands out.
func ShareLink(ip string, port int) string {
	return Scheme + net.JoinHostPort(ip, strconv.Itoa(port))
}

// ParseShareLink returns the host:port a share link points at. A bare
// host:port is accepted too; a missing port means DefaultPort.
func ParseShareLink(link string) (string, error) {
	s := strings.TrimSpace(link)
	if s == "" {
		return "", fmt.Errorf("empty share link")
	}
	if !strings.Contains(s, "://") {
		s = Scheme + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid share link %q: %w", link, err)
	}
	if u.Scheme+"://" != Scheme {
		return "", fmt.Errorf("invalid share link %q: scheme %q", link, u.Scheme)
	}
	host := u.Hostname()
	if host == "" {
		return "", fmt.Errorf("invalid share link %q: no host", link)
	}
	port := u.Port()
	if port == "" {
		port = strconv.Itoa(DefaultPort)
	}
	if n, err := strconv.Atoi(port); err != nil || n <= 0 || n > 65535 {
		return "", fmt.Errorf("invalid share link %q: port %q", link, port)
	}
	return net.JoinHostPort(host, port), nil
}
