package recon

import (
	"context"
	"math"
	"net"
	"time"

	"github.com/reconkit/reconkit/internal/auth"
	"github.com/reconkit/reconkit/internal/metrics"
)

// SubnetCalc breaks a CIDR block into its network, broadcast, and usable
// host addresses. Host bits set below the mask are accepted and masked
// away. The calculation is local; no external tool runs.
func (e *Engine) SubnetCalc(ctx context.Context, authz auth.Authorization, req SubnetRequest) (*SubnetResult, error) {
	const op = "subnet_calc"
	opStart := time.Now()
	defer func() {
		metrics.GetGlobalMetrics().RecordToolRunDuration(op, time.Since(opStart))
	}()

	if err := requireAuth(op, authz); err != nil {
		return nil, err
	}
	ipnet, err := ValidateCIDR(req.CIDR)
	if err != nil {
		recordFailure(op, err)
		return nil, err
	}
	metrics.GetGlobalMetrics().IncrementToolRuns(op, "completed")

	ones, bits := ipnet.Mask.Size()
	network := ipnet.IP
	broadcast := lastAddr(ipnet)

	var hostCount uint64
	if bits-ones >= 64 {
		hostCount = math.MaxUint64
	} else {
		hostCount = uint64(1) << uint(bits-ones)
	}

	// Usable hosts exclude the network and broadcast addresses for IPv4
	// networks wider than /31; IPv6 excludes only the network (anycast)
	// address. Point-to-point and single-address blocks use every address.
	first, last := network, broadcast
	if bits == 32 {
		if ones < 31 {
			first = incIP(network)
			last = decIP(broadcast)
		}
	} else if ones < 127 {
		first = incIP(network)
	}

	result := &SubnetResult{
		CIDR:             ipnet.String(),
		NetworkAddress:   network.String(),
		BroadcastAddress: broadcast.String(),
		Netmask:          net.IP(ipnet.Mask).String(),
		HostCount:        hostCount,
		FirstHost:        first.String(),
		LastHost:         last.String(),
		IsPrivate:        network.IsPrivate() || network.IsLoopback() || network.IsLinkLocalUnicast(),
	}
	e.logger.InfoProbe("Subnet calculation completed", result.CIDR, "hosts", result.HostCount)
	return result, nil
}

// lastAddr returns the highest address of the network.
func lastAddr(ipnet *net.IPNet) net.IP {
	out := make(net.IP, len(ipnet.IP))
	for i := range ipnet.IP {
		out[i] = ipnet.IP[i] | ^ipnet.Mask[i]
	}
	return out
}

// incIP returns ip plus one.
func incIP(ip net.IP) net.IP {
	out := make(net.IP, len(ip))
	copy(out, ip)
	for i := len(out) - 1; i >= 0; i-- {
		out[i]++
		if out[i] != 0 {
			break
		}
	}
	return out
}

// decIP returns ip minus one.
func decIP(ip net.IP) net.IP {
	out := make(net.IP, len(ip))
	copy(out, ip)
	for i := len(out) - 1; i >= 0; i-- {
		out[i]--
		if out[i] != 0xff {
			break
		}
	}
	return out
}
