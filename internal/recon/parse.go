package recon

import (
	"strconv"
	"strings"
)

// parseDNSRecords extracts answer and authority records from dig output.
// Comment lines and lines with fewer than five columns are skipped.
func parseDNSRecords(stdout string) []DNSRecord {
	records := make([]DNSRecord, 0)
	for _, line := range strings.Split(stdout, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 5 {
			continue
		}
		records = append(records, DNSRecord{
			Name:  fields[0],
			Type:  fields[3],
			Value: strings.Join(fields[4:], " "),
		})
	}
	return records
}

// parseHostnames extracts hostnames from dig +short -x output, one per
// line, with trailing dots removed.
func parseHostnames(stdout string) []string {
	hostnames := make([]string, 0)
	for _, line := range strings.Split(stdout, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		hostnames = append(hostnames, strings.TrimSuffix(line, "."))
	}
	return hostnames
}

// parseGrepablePorts extracts open ports from nmap -oG output. Only entries
// whose state field reads "open" are kept.
func parseGrepablePorts(stdout string) []PortStatus {
	open := make([]PortStatus, 0)
	for _, line := range strings.Split(stdout, "\n") {
		idx := strings.Index(line, "Ports:")
		if idx < 0 {
			continue
		}
		section := strings.TrimSpace(line[idx+len("Ports:"):])
		for _, entry := range strings.Split(section, ",") {
			entry = strings.TrimSpace(entry)
			fields := strings.Split(entry, "/")
			if len(fields) < 5 || fields[1] != "open" {
				continue
			}
			port, err := strconv.Atoi(fields[0])
			if err != nil {
				continue
			}
			open = append(open, PortStatus{Port: port, State: "open", Service: fields[4]})
		}
	}
	return open
}

// parseHeaderDump extracts the status code and headers from a curl -D dump.
// With redirects the dump holds several responses; the status of the last
// one wins and later headers overwrite earlier ones of the same name.
func parseHeaderDump(dump string) (int, Headers) {
	status := 0
	headers := make(Headers)
	for _, line := range strings.Split(dump, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(strings.ToUpper(line), "HTTP/") {
			fields := strings.Fields(line)
			if len(fields) >= 2 {
				if code, err := strconv.Atoi(fields[1]); err == nil {
					status = code
				}
			}
		} else if strings.Contains(line, ":") {
			parts := strings.SplitN(line, ":", 2)
			headers[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
		}
	}
	return status, headers
}

// answerLines returns the trimmed non-empty lines of a dig +short answer,
// dropping diagnostic lines that start with a semicolon.
func answerLines(stdout string) []string {
	lines := make([]string, 0)
	for _, line := range strings.Split(stdout, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(line, ";") {
			continue
		}
		lines = append(lines, trimmed)
	}
	return lines
}

// nonEmptyLines returns the trimmed non-empty lines of stdout.
func nonEmptyLines(stdout string) []string {
	lines := make([]string, 0)
	for _, line := range strings.Split(stdout, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}
