package net

import (
	"errors"
	"fmt"
	"net"

	"github.com/sirupsen/logrus"
)

// OutgoingIP finds the address other machines on the LAN can reach us at.
// It falls back to loopback, with a warning on log, when there is none.
func OutgoingIP(log logrus.FieldLogger) string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		// No route to the internet, look at the interfaces instead.
		ip, err := interfaceIP()
		if err != nil {
			log.WithField("component", "preview").WithError(err).Warn("using loopback")
		}
		return ip
	}
	defer conn.Close()

	return conn.LocalAddr().(*net.UDPAddr).IP.String()
}

func interfaceIP() (string, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return "127.0.0.1", fmt.Errorf("list interfaces: %w", err)
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, _ := iface.Addrs()
		for _, a := range addrs {
			if ipnet, ok := a.(*net.IPNet); ok && ipnet.IP.To4() != nil {
				return ipnet.IP.To4().String(), nil
			}
		}
	}
	return "127.0.0.1", errors.New("no LAN address found")
}
