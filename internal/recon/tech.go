package recon

import (
	"sort"
	"strings"
)

// TechSignature maps a header or body pattern to a technology name. Header
// rules match when the named header is present with a non-empty value and
// either the pattern is empty or the value contains it case-insensitively.
// Body rules match when the body contains the pattern case-insensitively.
type TechSignature struct {
	Header  string
	Pattern string
	Name    string
}

var techSignatures = []TechSignature{
	{Header: "x-powered-by", Pattern: "php", Name: "PHP"},
	{Header: "x-powered-by", Pattern: "asp.net", Name: "ASP.NET"},
	{Header: "x-powered-by", Pattern: "express", Name: "Express.js"},
	{Header: "x-powered-by", Pattern: "next.js", Name: "Next.js"},
	{Header: "server", Pattern: "nginx", Name: "Nginx"},
	{Header: "server", Pattern: "apache", Name: "Apache"},
	{Header: "server", Pattern: "cloudflare", Name: "Cloudflare"},
	{Header: "server", Pattern: "microsoft-iis", Name: "IIS"},
	{Header: "server", Pattern: "litespeed", Name: "LiteSpeed"},
	{Header: "server", Pattern: "openresty", Name: "OpenResty"},
	{Header: "x-drupal", Pattern: "", Name: "Drupal"},
	{Header: "x-generator", Pattern: "wordpress", Name: "WordPress"},
	{Header: "x-generator", Pattern: "drupal", Name: "Drupal"},
	{Header: "x-shopify", Pattern: "", Name: "Shopify"},
	{Pattern: "wp-content", Name: "WordPress"},
	{Pattern: "wp-includes", Name: "WordPress"},
	{Pattern: "/sites/default/files", Name: "Drupal"},
	{Pattern: "joomla", Name: "Joomla"},
	{Pattern: "react", Name: "React"},
	{Pattern: "__next", Name: "Next.js"},
	{Pattern: "__nuxt", Name: "Nuxt.js"},
	{Pattern: "angular", Name: "Angular"},
	{Pattern: "vue.js", Name: "Vue.js"},
	{Pattern: "jquery", Name: "jQuery"},
	{Pattern: "bootstrap", Name: "Bootstrap"},
	{Pattern: "tailwindcss", Name: "Tailwind CSS"},
	{Pattern: "shopify", Name: "Shopify"},
	{Pattern: "squarespace", Name: "Squarespace"},
	{Pattern: "wix.com", Name: "Wix"},
}

// matchTechnologies evaluates every signature against the response headers
// and body and returns the distinct technology names sorted alphabetically.
func matchTechnologies(headers Headers, body string) []string {
	lowerBody := strings.ToLower(body)
	seen := make(map[string]bool)
	techs := make([]string, 0)
	for _, sig := range techSignatures {
		var matched bool
		if sig.Header != "" {
			value := headers.Get(sig.Header)
			matched = value != "" &&
				(sig.Pattern == "" || strings.Contains(strings.ToLower(value), sig.Pattern))
		} else {
			matched = strings.Contains(lowerBody, sig.Pattern)
		}
		if matched && !seen[sig.Name] {
			seen[sig.Name] = true
			techs = append(techs, sig.Name)
		}
	}
	sort.Strings(techs)
	return techs
}
