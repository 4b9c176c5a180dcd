package recon

import (
	"context"
	"fmt"
	"net"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/reconkit/reconkit/internal/auth"
	"github.com/reconkit/reconkit/internal/errors"
	"github.com/reconkit/reconkit/internal/metrics"
)

// socketScanConcurrency bounds the in-flight connect probes of the
// fallback scanner.
const socketScanConcurrency = 64

const (
	minProbeTimeoutSeconds = 0.1
	maxProbeTimeoutSeconds = 5.0
)

// PortScan scans TCP ports with nmap. When nmap itself is missing (exit
// 127) the engine falls back to direct connect probes; every other nmap
// exit is authoritative and its output is parsed as the result.
func (e *Engine) PortScan(ctx context.Context, authz auth.Authorization, req PortScanRequest) (*PortScanResult, error) {
	const op = "portscan"
	opStart := time.Now()
	defer func() {
		metrics.GetGlobalMetrics().RecordToolRunDuration(op, time.Since(opStart))
	}()

	if err := requireAuth(op, authz); err != nil {
		return nil, err
	}
	target, err := ValidateTarget(req.Target)
	if err != nil {
		recordFailure(op, err)
		return nil, err
	}
	ports := strings.TrimSpace(req.Ports)
	if ports == "" {
		ports = e.cfg.DefaultPorts
	}
	probeTimeout := e.cfg.PortProbeTimeout
	if req.TimeoutPerPort != 0 {
		if req.TimeoutPerPort < minProbeTimeoutSeconds || req.TimeoutPerPort > maxProbeTimeoutSeconds {
			err := errors.NewValidationFieldError(
				fmt.Sprintf("Per-port timeout must be between %g and %g seconds",
					minProbeTimeoutSeconds, maxProbeTimeoutSeconds),
				"timeout_per_port", req.TimeoutPerPort)
			recordFailure(op, err)
			return nil, err
		}
		probeTimeout = time.Duration(req.TimeoutPerPort * float64(time.Second))
	}

	e.logger.InfoProbe("Starting port scan", target, "tool", op, "ports", ports)
	res := e.runner.Run(ctx, []string{"nmap", "-Pn", "-p", ports, "--open", "-oG", "-", target}, e.cfg.PortScanTimeout)
	if !res.NotFound() {
		open := parseGrepablePorts(res.Stdout)
		metrics.GetGlobalMetrics().IncrementToolRuns(op, "completed")
		e.logger.InfoProbe("Port scan completed", target, "open_ports", len(open))
		return &PortScanResult{
			Target:       target,
			PortsScanned: ports,
			OpenPorts:    open,
			Raw:          res.Stdout,
			Timestamp:    time.Now().UTC(),
		}, nil
	}

	metrics.GetGlobalMetrics().IncrementToolFallbacks(op)
	e.logger.InfoProbe("Falling back to connect probes", target, "reason", "nmap unavailable")

	list, err := expandPortSpec(ports)
	if err != nil {
		recordFailure(op, err)
		return nil, err
	}
	if len(list) > e.cfg.MaxFallbackPorts {
		err := errors.ErrTooManyPorts(e.cfg.MaxFallbackPorts)
		recordFailure(op, err)
		return nil, err
	}
	open, rawLines := e.socketScan(ctx, target, dedupePorts(list), probeTimeout)
	metrics.GetGlobalMetrics().IncrementToolRuns(op, "completed")

	raw := strings.Join(rawLines, "\n")
	if raw == "" {
		raw = "(no open ports found)"
	}
	e.logger.InfoProbe("Port scan completed", target, "open_ports", len(open), "fallback", true)
	return &PortScanResult{
		Target:       target,
		PortsScanned: ports,
		OpenPorts:    open,
		Fallback:     true,
		Raw:          raw,
		Timestamp:    time.Now().UTC(),
	}, nil
}

// expandPortSpec expands a comma-separated port spec of single ports and
// lo-hi ranges into the individual ports, in spec order. A token that does
// not parse or leaves 1-65535 fails the whole spec.
func expandPortSpec(spec string) ([]int, error) {
	ports := make([]int, 0)
	for _, chunk := range strings.Split(spec, ",") {
		chunk = strings.TrimSpace(chunk)
		if strings.Contains(chunk, "-") {
			bounds := strings.SplitN(chunk, "-", 2)
			lo, loErr := strconv.Atoi(strings.TrimSpace(bounds[0]))
			hi, hiErr := strconv.Atoi(strings.TrimSpace(bounds[1]))
			if loErr != nil || hiErr != nil || lo < 1 || hi > 65535 || lo > hi {
				return nil, errors.ErrInvalidPortRange(chunk)
			}
			for p := lo; p <= hi; p++ {
				ports = append(ports, p)
			}
			continue
		}
		p, err := strconv.Atoi(chunk)
		if err != nil || p < 1 || p > 65535 {
			return nil, errors.ErrInvalidPort(chunk)
		}
		ports = append(ports, p)
	}
	return ports, nil
}

// dedupePorts returns the distinct ports in ascending order.
func dedupePorts(ports []int) []int {
	seen := make(map[int]bool, len(ports))
	out := make([]int, 0, len(ports))
	for _, p := range ports {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	sort.Ints(out)
	return out
}

// socketScan probes every port with a TCP connect attempt. Probes run
// concurrently behind a semaphore and write into their own slot, so the
// results come out in the ascending order of ports regardless of which
// probe finishes first. Probe failures are silent; a closed or filtered
// port is simply absent from the result.
func (e *Engine) socketScan(ctx context.Context, target string, ports []int, probeTimeout time.Duration) ([]PortStatus, []string) {
	slots := make([]*PortStatus, len(ports))
	sem := make(chan struct{}, socketScanConcurrency)
	var wg sync.WaitGroup
	for i, port := range ports {
		wg.Add(1)
		go func(idx, port int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			if ctx.Err() != nil {
				return
			}
			dialer := net.Dialer{Timeout: probeTimeout}
			conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(target, strconv.Itoa(port)))
			if err != nil {
				return
			}
			conn.Close()
			slots[idx] = &PortStatus{Port: port, State: "open", Service: wellKnownService(port)}
		}(i, port)
	}
	wg.Wait()

	open := make([]PortStatus, 0)
	rawLines := make([]string, 0)
	for _, s := range slots {
		if s == nil {
			continue
		}
		open = append(open, *s)
		rawLines = append(rawLines, fmt.Sprintf("%d/tcp open %s", s.Port, s.Service))
	}
	return open, rawLines
}

// wellKnownService names common ports the way /etc/services does. Unknown
// ports yield an empty string.
func wellKnownService(port int) string {
	switch port {
	case 20, 21:
		return "ftp"
	case 22:
		return "ssh"
	case 23:
		return "telnet"
	case 25:
		return "smtp"
	case 53:
		return "domain"
	case 67, 68:
		return "dhcp"
	case 69:
		return "tftp"
	case 80:
		return "http"
	case 110:
		return "pop3"
	case 119:
		return "nntp"
	case 123:
		return "ntp"
	case 143:
		return "imap"
	case 161:
		return "snmp"
	case 179:
		return "bgp"
	case 194:
		return "irc"
	case 389:
		return "ldap"
	case 443:
		return "https"
	case 445:
		return "microsoft-ds"
	case 465, 587:
		return "smtp"
	case 636:
		return "ldaps"
	case 993:
		return "imaps"
	case 995:
		return "pop3s"
	case 1433:
		return "ms-sql-s"
	case 1521:
		return "oracle"
	case 3306:
		return "mysql"
	case 3389:
		return "rdp"
	case 5432:
		return "postgresql"
	case 5900:
		return "vnc"
	case 6379:
		return "redis"
	case 8000, 8080:
		return "http-alt"
	case 8443:
		return "https-alt"
	default:
		return ""
	}
}
