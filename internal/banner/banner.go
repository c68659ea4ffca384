package banner

import (
	"fmt"
	"io"
	"net"
	"strconv"

	"github.com/fatih/color"
	"github.com/mdp/qrterminal/v3"
)

type Info struct {
	// IP is the LAN address; nil when it could not be determined.
	IP        net.IP
	BindAddr  string
	Port      int
	SessionID string
}

// URL is the address a phone on the same network should open, or "" when
// the local IP is unknown.
func (i Info) URL() string {
	if i.IP == nil {
		return ""
	}
	return fmt.Sprintf("http://%s/%s/", net.JoinHostPort(i.IP.String(), strconv.Itoa(i.Port)), i.SessionID)
}

// Print writes the startup banner. The QR code is only drawn when the LAN
// URL is known.
func Print(w io.Writer, info Info, withQR bool) {
	url := info.URL()
	if url == "" {
		color.New(color.FgYellow).Fprintln(w, "Could not determine local IP!")
		color.New(color.FgCyan).Fprintf(w, "Listening on http://%s/%s/\n", info.BindAddr, info.SessionID)
		return
	}
	color.New(color.FgGreen, color.Bold).Fprintf(w, "Listening on %s\n", url)
	if withQR {
		qrterminal.GenerateHalfBlock(url, qrterminal.L, w)
	}
}
