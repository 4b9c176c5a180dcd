package recon

import (
	"strings"
	"time"
)

// DNSRecord is a single parsed answer or authority line from a dig run.
type DNSRecord struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value string `json:"value"`
}

// PortStatus is a single open port reported by a scan.
type PortStatus struct {
	Port    int    `json:"port"`
	State   string `json:"state"`
	Service string `json:"service"`
}

// SocialProfile is the probe outcome for one platform.
type SocialProfile struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
	Found    bool   `json:"found"`
}

// Headers holds response headers with keys preserved as received.
type Headers map[string]string

// Get returns the value for name using a case-insensitive match, or "".
func (h Headers) Get(name string) string {
	for k, v := range h {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// WhoisSummary carries the fields extracted from raw whois output when the
// registry response is parseable. All fields are best-effort.
type WhoisSummary struct {
	Registrar      string   `json:"registrar,omitempty"`
	CreatedDate    string   `json:"created_date,omitempty"`
	UpdatedDate    string   `json:"updated_date,omitempty"`
	ExpirationDate string   `json:"expiration_date,omitempty"`
	NameServers    []string `json:"name_servers,omitempty"`
	Statuses       []string `json:"statuses,omitempty"`
}

// WhoisRequest asks for a registry lookup of a domain or IP.
type WhoisRequest struct {
	Target string `json:"target"`
}

// WhoisResult is the outcome of a whois lookup.
type WhoisResult struct {
	Target    string        `json:"target"`
	Raw       string        `json:"raw"`
	Summary   *WhoisSummary `json:"summary,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// DNSRequest asks for records of a single type for a target.
type DNSRequest struct {
	Target     string `json:"target"`
	RecordType string `json:"record_type"`
}

// DNSResult is the outcome of a DNS lookup.
type DNSResult struct {
	Target     string      `json:"target"`
	RecordType string      `json:"record_type"`
	Raw        string      `json:"raw"`
	Records    []DNSRecord `json:"records"`
	Timestamp  time.Time   `json:"timestamp"`
}

// ReverseDNSRequest asks for the PTR names of an IP address.
type ReverseDNSRequest struct {
	IP string `json:"ip"`
}

// ReverseDNSResult is the outcome of a reverse DNS lookup. Zone is the
// in-addr.arpa or ip6.arpa name the query resolves through.
type ReverseDNSResult struct {
	IP        string    `json:"ip"`
	Zone      string    `json:"zone,omitempty"`
	Hostnames []string  `json:"hostnames"`
	Timestamp time.Time `json:"timestamp"`
}

// PingRequest asks for an ICMP reachability check.
type PingRequest struct {
	Target string `json:"target"`
	Count  int    `json:"count"`
}

// PingResult is the outcome of a ping run.
type PingResult struct {
	Target    string    `json:"target"`
	Alive     bool      `json:"alive"`
	Raw       string    `json:"raw"`
	Timestamp time.Time `json:"timestamp"`
}

// PortScanRequest asks for a TCP port scan. Ports accepts nmap-style specs
// such as "80,443" or "1-1024"; empty means the configured default.
// TimeoutPerPort is in seconds and only applies to the socket fallback.
type PortScanRequest struct {
	Target         string  `json:"target"`
	Ports          string  `json:"ports"`
	TimeoutPerPort float64 `json:"timeout_per_port,omitempty"`
}

// PortScanResult is the outcome of a port scan. Fallback reports whether the
// connect-probe path produced the results instead of nmap.
type PortScanResult struct {
	Target       string       `json:"target"`
	PortsScanned string       `json:"ports_scanned"`
	OpenPorts    []PortStatus `json:"open_ports"`
	Fallback     bool         `json:"fallback"`
	Raw          string       `json:"raw"`
	Timestamp    time.Time    `json:"timestamp"`
}

// HeadersRequest asks for the response headers of a URL.
type HeadersRequest struct {
	URL string `json:"url"`
}

// HeadersResult is the outcome of a header fetch. StatusCode is the status
// of the final response after redirects.
type HeadersResult struct {
	URL        string    `json:"url"`
	StatusCode int       `json:"status_code"`
	Headers    Headers   `json:"headers"`
	Timestamp  time.Time `json:"timestamp"`
}

// TechDetectRequest asks for a technology fingerprint of a URL.
type TechDetectRequest struct {
	URL string `json:"url"`
}

// TechDetectResult is the outcome of a technology fingerprint.
type TechDetectResult struct {
	URL          string    `json:"url"`
	StatusCode   int       `json:"status_code"`
	Technologies []string  `json:"technologies"`
	Headers      Headers   `json:"headers"`
	Timestamp    time.Time `json:"timestamp"`
}

// SubdomainRequest asks for an enumeration of common subdomains.
type SubdomainRequest struct {
	Domain string `json:"domain"`
}

// SubdomainResult is the outcome of a subdomain enumeration. Subdomains is
// sorted alphabetically; Raw lists each resolved name with its addresses in
// wordlist order.
type SubdomainResult struct {
	Domain     string    `json:"domain"`
	Subdomains []string  `json:"subdomains"`
	Raw        string    `json:"raw"`
	Timestamp  time.Time `json:"timestamp"`
}

// SocialRequest asks for a username presence check across platforms.
type SocialRequest struct {
	Username string `json:"username"`
}

// SocialResult is the outcome of a social lookup. Profiles is sorted with
// found profiles first, then alphabetically by platform.
type SocialResult struct {
	Username  string          `json:"username"`
	Profiles  []SocialProfile `json:"profiles"`
	Timestamp time.Time       `json:"timestamp"`
}

// EmailRequest asks for a passive email harvest against a domain.
type EmailRequest struct {
	Domain string `json:"domain"`
}

// EmailResult is the outcome of an email harvest. Emails contains only
// lowercased addresses mentioning the domain, sorted alphabetically.
type EmailResult struct {
	Domain    string    `json:"domain"`
	Emails    []string  `json:"emails"`
	MXRecords []string  `json:"mx_records"`
	Raw       string    `json:"raw"`
	Timestamp time.Time `json:"timestamp"`
}

// WaybackRequest asks for archived URLs of a domain.
type WaybackRequest struct {
	Domain string `json:"domain"`
}

// WaybackResult is the outcome of an archive listing. URLs is deduplicated
// and sorted.
type WaybackResult struct {
	Domain    string    `json:"domain"`
	URLs      []string  `json:"urls"`
	Total     int       `json:"total"`
	Timestamp time.Time `json:"timestamp"`
}

// SubnetRequest asks for an address breakdown of a CIDR block.
type SubnetRequest struct {
	CIDR string `json:"cidr"`
}

// SubnetResult describes a network. HostCount saturates at the maximum
// uint64 for very large IPv6 blocks.
type SubnetResult struct {
	CIDR             string `json:"cidr"`
	NetworkAddress   string `json:"network_address"`
	BroadcastAddress string `json:"broadcast_address"`
	Netmask          string `json:"netmask"`
	HostCount        uint64 `json:"host_count"`
	FirstHost        string `json:"first_host"`
	LastHost         string `json:"last_host"`
	IsPrivate        bool   `json:"is_private"`
}
