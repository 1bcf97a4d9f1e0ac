// Package smbtransport implements dcerpc.Transport against a real
// named pipe over github.com/medianexapp/go-smb2, grounded on
// sharehound-go/internal/smb/session.go and srvsvc.go.
package smbtransport

import (
	"context"
	"net"
	"time"

	"github.com/miekg/dns"
)

// Resolve turns target into a dialable address, preferring an explicit
// nameserver or domain-controller IP over the system resolver —
// mirroring sharehound-go/internal/utils/dns.go's UDP-then-TCP-then-
// system-resolver strategy so this transport can be pointed at a DC
// the same way ShareHound's --nameserver/--dc-ip flags do. If target
// is already an IP literal it is returned unchanged.
func Resolve(target, nameserver, dcIP string, timeout time.Duration) (string, error) {
	if ip := net.ParseIP(target); ip != nil {
		return target, nil
	}

	server := nameserver
	if server == "" {
		server = dcIP
	}
	if server == "" {
		return systemResolve(target, timeout)
	}

	if _, _, err := net.SplitHostPort(server); err != nil {
		server = net.JoinHostPort(server, "53")
	}

	if ip, err := dnsQuery(target, server, false, timeout); err == nil && ip != "" {
		return ip, nil
	}
	if ip, err := dnsQuery(target, server, true, timeout); err == nil && ip != "" {
		return ip, nil
	}
	return systemResolve(target, timeout)
}

func dnsQuery(name, server string, useTCP bool, timeout time.Duration) (string, error) {
	c := new(dns.Client)
	c.Timeout = timeout
	if useTCP {
		c.Net = "tcp"
	}

	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(name), dns.TypeA)
	m.RecursionDesired = true

	r, _, err := c.Exchange(m, server)
	if err != nil {
		return "", err
	}
	if r.Rcode != dns.RcodeSuccess {
		return "", nil
	}
	for _, ans := range r.Answer {
		if a, ok := ans.(*dns.A); ok {
			return a.A.String(), nil
		}
	}
	return "", nil
}

func systemResolve(hostname string, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resolver := &net.Resolver{}
	addrs, err := resolver.LookupHost(ctx, hostname)
	if err != nil {
		return "", err
	}
	for _, addr := range addrs {
		if ip := net.ParseIP(addr); ip != nil && ip.To4() != nil {
			return addr, nil
		}
	}
	if len(addrs) > 0 {
		return addrs[0], nil
	}
	return "", nil
}
