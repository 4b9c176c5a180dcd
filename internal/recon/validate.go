package recon

import (
	"fmt"
	"net"
	"regexp"
	"sort"
	"strings"

	"github.com/miekg/dns"

	"github.com/reconkit/reconkit/internal/errors"
)

const maxTargetLength = 253

// disallowedTargetChars blocks shell metacharacters and line breaks. Probes
// are spawned with argument vectors, never through a shell, so this is a
// second layer on top of that guarantee.
const disallowedTargetChars = ";&|`$(){}[]!#\n\r"

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9._\-]+$`)

var allowedRecordTypes = map[string]bool{
	"A": true, "AAAA": true, "MX": true, "NS": true, "TXT": true,
	"CNAME": true, "SOA": true, "PTR": true, "ANY": true, "SRV": true,
}

// ValidateTarget trims target and rejects empty strings, shell
// metacharacters, and over-length values. It returns the trimmed target.
func ValidateTarget(target string) (string, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return "", errors.ErrEmptyTarget()
	}
	if strings.ContainsAny(target, disallowedTargetChars) {
		return "", errors.ErrDisallowedCharacters(target)
	}
	if len(target) > maxTargetLength {
		return "", errors.ErrTargetTooLong(len(target))
	}
	return target, nil
}

// ValidateURL trims rawURL, requires an explicit http or https scheme, and
// applies the same checks as ValidateTarget to the whole URL.
func ValidateURL(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return "", errors.NewValidationFieldError("URL must start with http:// or https://", "url", rawURL)
	}
	return ValidateTarget(rawURL)
}

// ValidateUsername trims username and restricts it to letters, digits, dots,
// hyphens, and underscores.
func ValidateUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || !usernamePattern.MatchString(username) {
		return "", errors.NewValidationFieldError(
			"Username must be alphanumeric (dots, hyphens, underscores allowed)", "username", username)
	}
	return username, nil
}

// ValidateIP applies ValidateTarget and then requires a parseable IPv4 or
// IPv6 address.
func ValidateIP(ip string) (string, error) {
	ip, err := ValidateTarget(ip)
	if err != nil {
		return "", err
	}
	if net.ParseIP(ip) == nil {
		return "", errors.NewValidationFieldError("Must be a valid IP address", "ip", ip)
	}
	return ip, nil
}

// ValidateRecordType normalizes recordType to upper case and checks it
// against the supported set, which must also be a type the DNS wire format
// knows. Empty input defaults to A.
func ValidateRecordType(recordType string) (string, error) {
	rtype := strings.ToUpper(strings.TrimSpace(recordType))
	if rtype == "" {
		rtype = "A"
	}
	_, known := dns.StringToType[rtype]
	if !allowedRecordTypes[rtype] || !known {
		allowed := make([]string, 0, len(allowedRecordTypes))
		for t := range allowedRecordTypes {
			allowed = append(allowed, t)
		}
		sort.Strings(allowed)
		return "", errors.NewValidationFieldError(
			fmt.Sprintf("Unsupported record type. Allowed: %s", strings.Join(allowed, ", ")),
			"record_type", recordType)
	}
	return rtype, nil
}

// ValidateCIDR trims cidr and parses it, accepting host bits set below the
// mask. It returns the enclosing network.
func ValidateCIDR(cidr string) (*net.IPNet, error) {
	cidr = strings.TrimSpace(cidr)
	_, ipnet, err := net.ParseCIDR(cidr)
	if err != nil {
		return nil, errors.NewValidationFieldError(fmt.Sprintf("Invalid CIDR: %v", err), "cidr", cidr)
	}
	return ipnet, nil
}

// ValidatePingCount bounds count to 1 through 10. Zero selects def.
func ValidatePingCount(count, def int) (int, error) {
	if count == 0 {
		count = def
	}
	if count < 1 || count > 10 {
		return 0, errors.NewValidationFieldError("Ping count must be between 1 and 10", "count", count)
	}
	return count, nil
}
