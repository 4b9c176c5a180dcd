// Package handlers provides HTTP request handlers for the reconkit API.
// This file implements the tool execution endpoints.
package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/reconkit/reconkit/internal/api/middleware"
	"github.com/reconkit/reconkit/internal/auth"
	"github.com/reconkit/reconkit/internal/logging"
	"github.com/reconkit/reconkit/internal/metrics"
	"github.com/reconkit/reconkit/internal/recon"
)

// ToolsHandler handles the tool execution endpoints. Every request reads the
// authorization gate at call time, so a revocation applies to the next
// operation.
type ToolsHandler struct {
	engine    *recon.Engine
	gate      *auth.Gate
	logger    *logging.Logger
	metrics   metrics.MetricsRegistry
	validator *validator.Validate
}

// NewToolsHandler creates a new tools handler.
func NewToolsHandler(
	engine *recon.Engine,
	gate *auth.Gate,
	logger *logging.Logger,
	metricsRegistry metrics.MetricsRegistry,
) *ToolsHandler {
	return &ToolsHandler{
		engine:    engine,
		gate:      gate,
		logger:    logger.WithFields("handler", "tools"),
		metrics:   metricsRegistry,
		validator: validator.New(),
	}
}

// WhoisRequest is the request body for a whois lookup.
type WhoisRequest struct {
	Target string `json:"target" validate:"required,max=253"`
}

// DNSRequest is the request body for a DNS lookup.
type DNSRequest struct {
	Target     string `json:"target" validate:"required,max=253"`
	RecordType string `json:"record_type" validate:"omitempty,alphanum,max=10"`
}

// ReverseDNSRequest is the request body for a reverse DNS lookup.
type ReverseDNSRequest struct {
	IP string `json:"ip" validate:"required,ip"`
}

// PingRequest is the request body for a reachability check.
type PingRequest struct {
	Target string `json:"target" validate:"required,max=253"`
	Count  int    `json:"count" validate:"omitempty,min=1,max=10"`
}

// PortScanRequest is the request body for a TCP port scan.
type PortScanRequest struct {
	Target         string  `json:"target" validate:"required,max=253"`
	Ports          string  `json:"ports" validate:"omitempty,max=256"`
	TimeoutPerPort float64 `json:"timeout_per_port" validate:"omitempty,gte=0.1,lte=5"`
}

// HeadersRequest is the request body for a header fetch.
type HeadersRequest struct {
	URL string `json:"url" validate:"required,url,max=253"`
}

// TechDetectRequest is the request body for a technology fingerprint.
type TechDetectRequest struct {
	URL string `json:"url" validate:"required,url,max=253"`
}

// SubdomainEnumRequest is the request body for a subdomain enumeration.
type SubdomainEnumRequest struct {
	Domain string `json:"domain" validate:"required,fqdn"`
}

// SocialLookupRequest is the request body for a username presence check.
type SocialLookupRequest struct {
	Username string `json:"username" validate:"required,max=64"`
}

// EmailHarvestRequest is the request body for a passive email harvest.
type EmailHarvestRequest struct {
	Domain string `json:"domain" validate:"required,fqdn"`
}

// WaybackRequest is the request body for an archived URL listing.
type WaybackRequest struct {
	Domain string `json:"domain" validate:"required,fqdn"`
}

// SubnetCalcRequest is the request body for a subnet breakdown.
type SubnetCalcRequest struct {
	CIDR string `json:"cidr" validate:"required,cidr"`
}

// runTool drives the shared request cycle of a tool endpoint: decode the
// body, validate it, execute the engine operation, and write the outcome.
func runTool[Req any, Res any](
	h *ToolsHandler,
	w http.ResponseWriter,
	r *http.Request,
	tool string,
	invoke func(context.Context, Req) (Res, error),
) {
	requestID := middleware.GetRequestID(r)

	var req Req
	if err := parseJSON(r, &req); err != nil {
		recordToolMetric(h.metrics, tool, "invalid")
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		recordToolMetric(h.metrics, tool, "invalid")
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("request validation failed: %w", err))
		return
	}

	h.logger.Info("Tool request started", "request_id", requestID, "tool", tool)

	result, err := invoke(r.Context(), req)
	if err != nil {
		h.logger.Error("Tool request failed",
			"request_id", requestID,
			"tool", tool,
			"error", err)
		recordToolMetric(h.metrics, tool, "error")
		writeEngineError(w, r, err)
		return
	}

	h.logger.Info("Tool request completed", "request_id", requestID, "tool", tool)
	recordToolMetric(h.metrics, tool, "success")
	writeJSON(w, r, http.StatusOK, result)
}

// Whois handles POST /tools/whois.
func (h *ToolsHandler) Whois(w http.ResponseWriter, r *http.Request) {
	runTool(h, w, r, "whois", func(ctx context.Context, req WhoisRequest) (*recon.WhoisResult, error) {
		return h.engine.Whois(ctx, h.gate.Current(), recon.WhoisRequest{Target: req.Target})
	})
}

// DNS handles POST /tools/dns.
func (h *ToolsHandler) DNS(w http.ResponseWriter, r *http.Request) {
	runTool(h, w, r, "dns", func(ctx context.Context, req DNSRequest) (*recon.DNSResult, error) {
		return h.engine.DNSLookup(ctx, h.gate.Current(), recon.DNSRequest{
			Target:     req.Target,
			RecordType: req.RecordType,
		})
	})
}

// ReverseDNS handles POST /tools/reverse-dns.
func (h *ToolsHandler) ReverseDNS(w http.ResponseWriter, r *http.Request) {
	runTool(h, w, r, "reverse_dns", func(ctx context.Context, req ReverseDNSRequest) (*recon.ReverseDNSResult, error) {
		return h.engine.ReverseDNS(ctx, h.gate.Current(), recon.ReverseDNSRequest{IP: req.IP})
	})
}

// Ping handles POST /tools/ping.
func (h *ToolsHandler) Ping(w http.ResponseWriter, r *http.Request) {
	runTool(h, w, r, "ping", func(ctx context.Context, req PingRequest) (*recon.PingResult, error) {
		return h.engine.Ping(ctx, h.gate.Current(), recon.PingRequest{
			Target: req.Target,
			Count:  req.Count,
		})
	})
}

// PortScan handles POST /tools/portscan.
func (h *ToolsHandler) PortScan(w http.ResponseWriter, r *http.Request) {
	runTool(h, w, r, "portscan", func(ctx context.Context, req PortScanRequest) (*recon.PortScanResult, error) {
		return h.engine.PortScan(ctx, h.gate.Current(), recon.PortScanRequest{
			Target:         req.Target,
			Ports:          req.Ports,
			TimeoutPerPort: req.TimeoutPerPort,
		})
	})
}

// Headers handles POST /tools/headers.
func (h *ToolsHandler) Headers(w http.ResponseWriter, r *http.Request) {
	runTool(h, w, r, "headers", func(ctx context.Context, req HeadersRequest) (*recon.HeadersResult, error) {
		return h.engine.FetchHeaders(ctx, h.gate.Current(), recon.HeadersRequest{URL: req.URL})
	})
}

// TechDetect handles POST /tools/tech-detect.
func (h *ToolsHandler) TechDetect(w http.ResponseWriter, r *http.Request) {
	runTool(h, w, r, "tech_detect", func(ctx context.Context, req TechDetectRequest) (*recon.TechDetectResult, error) {
		return h.engine.DetectTech(ctx, h.gate.Current(), recon.TechDetectRequest{URL: req.URL})
	})
}

// SubdomainEnum handles POST /tools/subdomain-enum.
func (h *ToolsHandler) SubdomainEnum(w http.ResponseWriter, r *http.Request) {
	runTool(h, w, r, "subdomain_enum", func(ctx context.Context, req SubdomainEnumRequest) (*recon.SubdomainResult, error) {
		return h.engine.EnumerateSubdomains(ctx, h.gate.Current(), recon.SubdomainRequest{Domain: req.Domain})
	})
}

// SocialLookup handles POST /tools/social-lookup.
func (h *ToolsHandler) SocialLookup(w http.ResponseWriter, r *http.Request) {
	runTool(h, w, r, "social_lookup", func(ctx context.Context, req SocialLookupRequest) (*recon.SocialResult, error) {
		return h.engine.SocialLookup(ctx, h.gate.Current(), recon.SocialRequest{Username: req.Username})
	})
}

// EmailHarvest handles POST /tools/email-harvest.
func (h *ToolsHandler) EmailHarvest(w http.ResponseWriter, r *http.Request) {
	runTool(h, w, r, "email_harvest", func(ctx context.Context, req EmailHarvestRequest) (*recon.EmailResult, error) {
		return h.engine.HarvestEmails(ctx, h.gate.Current(), recon.EmailRequest{Domain: req.Domain})
	})
}

// Wayback handles POST /tools/wayback.
func (h *ToolsHandler) Wayback(w http.ResponseWriter, r *http.Request) {
	runTool(h, w, r, "wayback", func(ctx context.Context, req WaybackRequest) (*recon.WaybackResult, error) {
		return h.engine.WaybackURLs(ctx, h.gate.Current(), recon.WaybackRequest{Domain: req.Domain})
	})
}

// SubnetCalc handles POST /tools/subnet-calc.
func (h *ToolsHandler) SubnetCalc(w http.ResponseWriter, r *http.Request) {
	runTool(h, w, r, "subnet_calc", func(ctx context.Context, req SubnetCalcRequest) (*recon.SubnetResult, error) {
		return h.engine.SubnetCalc(ctx, h.gate.Current(), recon.SubnetRequest{CIDR: req.CIDR})
	})
}
