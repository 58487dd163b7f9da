// Package models provides data structures for DigitalOcean API documents
// and Terraform resources
package models

import (
	"fmt"

	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/mitchellh/mapstructure"
)

// Load balancer size classes. The size cannot be changed after creation.
const (
	LBSizeSmall  = "lb-small"
	LBSizeMedium = "lb-medium"
	LBSizeLarge  = "lb-large"
)

// Balancing algorithms.
const (
	AlgorithmRoundRobin       = "round_robin"
	AlgorithmLeastConnections = "least_connections"
)

// ForwardingRule maps traffic arriving at the load balancer to a backend
// port. Protocols are one of http, https, http2 or tcp.
type ForwardingRule struct {
	EntryProtocol  string `json:"entry_protocol" mapstructure:"entry_protocol"`
	EntryPort      int64  `json:"entry_port" mapstructure:"entry_port"`
	TargetProtocol string `json:"target_protocol" mapstructure:"target_protocol"`
	TargetPort     int64  `json:"target_port" mapstructure:"target_port"`
	CertificateID  string `json:"certificate_id" mapstructure:"certificate_id"`
	TLSPassthrough bool   `json:"tls_passthrough" mapstructure:"tls_passthrough"`
}

// HealthCheck is the backend health-check policy of a load balancer.
type HealthCheck struct {
	Protocol               string `json:"protocol" mapstructure:"protocol"`
	Port                   int64  `json:"port" mapstructure:"port"`
	Path                   string `json:"path" mapstructure:"path"`
	CheckIntervalSeconds   int64  `json:"check_interval_seconds" mapstructure:"check_interval_seconds"`
	ResponseTimeoutSeconds int64  `json:"response_timeout_seconds" mapstructure:"response_timeout_seconds"`
	UnhealthyThreshold     int64  `json:"unhealthy_threshold" mapstructure:"unhealthy_threshold"`
	HealthyThreshold       int64  `json:"healthy_threshold" mapstructure:"healthy_threshold"`
}

// DefaultHealthCheck returns a health-check policy carrying the API's
// documented defaults for every field except protocol and port.
func DefaultHealthCheck(protocol string, port int64) HealthCheck {
	return HealthCheck{
		Protocol:               protocol,
		Port:                   port,
		Path:                   "/",
		CheckIntervalSeconds:   10,
		ResponseTimeoutSeconds: 5,
		UnhealthyThreshold:     3,
		HealthyThreshold:       5,
	}
}

// StickySessions binds a client to one backend droplet. When Type is
// "cookies" both CookieName and CookieTTLSeconds are mandatory.
type StickySessions struct {
	Type             string `json:"type" mapstructure:"type"`
	CookieName       string `json:"cookie_name" mapstructure:"cookie_name,omitempty"`
	CookieTTLSeconds int64  `json:"cookie_ttl_seconds" mapstructure:"cookie_ttl_seconds,omitempty"`
}

// LoadBalancerSpec is the declared state of a load balancer. mapstructure
// tags drive both the POST and PUT bodies; "-" fields are reconciliation
// controls.
type LoadBalancerSpec struct {
	Name                   string           `mapstructure:"name"`
	Algorithm              string           `mapstructure:"algorithm"`
	Size                   string           `mapstructure:"size"`
	Region                 string           `mapstructure:"region"`
	ForwardingRules        []ForwardingRule `mapstructure:"forwarding_rules"`
	HealthCheck            *HealthCheck     `mapstructure:"health_check,omitempty"`
	StickySessions         *StickySessions  `mapstructure:"sticky_sessions,omitempty"`
	RedirectHTTPToHTTPS    bool             `mapstructure:"redirect_http_to_https"`
	EnableProxyProtocol    bool             `mapstructure:"enable_proxy_protocol"`
	EnableBackendKeepalive bool             `mapstructure:"enable_backend_keepalive"`
	VPCUUID                string           `mapstructure:"vpc_uuid,omitempty"`
	DropletIDs             []int64          `mapstructure:"droplet_ids,omitempty"`

	// Identity and reconciliation controls. Load balancer IDs are opaque
	// strings, unlike droplet IDs.
	ID    string `mapstructure:"-"`
	State string `mapstructure:"-"`
}

// Request builds the creation/update body from the spec. The same full body
// is used for POST and PUT; the API replaces the configuration wholesale on
// update.
func (s *LoadBalancerSpec) Request() (map[string]interface{}, error) {
	body := map[string]interface{}{}
	if err := mapstructure.Decode(s, &body); err != nil {
		return nil, fmt.Errorf("failed to build load balancer request: %w", err)
	}
	return body, nil
}

// Validate checks the invariants the API would otherwise reject at runtime:
// at least one forwarding rule, and a complete cookie policy when sticky
// sessions use cookies.
func (s *LoadBalancerSpec) Validate() error {
	if len(s.ForwardingRules) == 0 {
		return fmt.Errorf("at least one forwarding rule is required")
	}
	if ss := s.StickySessions; ss != nil && ss.Type == "cookies" {
		if ss.CookieName == "" || ss.CookieTTLSeconds == 0 {
			return fmt.Errorf("sticky sessions of type cookies require cookie_name and cookie_ttl_seconds")
		}
	}
	return nil
}

// LoadBalancer is the live load balancer document returned by the API.
type LoadBalancer struct {
	ID                     string           `json:"id"`
	Name                   string           `json:"name"`
	IP                     string           `json:"ip"`
	Algorithm              string           `json:"algorithm"`
	Size                   string           `json:"size"`
	Status                 string           `json:"status"`
	ForwardingRules        []ForwardingRule `json:"forwarding_rules"`
	HealthCheck            *HealthCheck     `json:"health_check"`
	StickySessions         *StickySessions  `json:"sticky_sessions"`
	RedirectHTTPToHTTPS    bool             `json:"redirect_http_to_https"`
	EnableProxyProtocol    bool             `json:"enable_proxy_protocol"`
	EnableBackendKeepalive bool             `json:"enable_backend_keepalive"`
	VPCUUID                string           `json:"vpc_uuid"`
	DropletIDs             []int64          `json:"droplet_ids"`
	CreatedAt              string           `json:"created_at"`
}

// ForwardingRuleModel mirrors ForwardingRule in Terraform state.
type ForwardingRuleModel struct {
	EntryProtocol  types.String `tfsdk:"entry_protocol"`
	EntryPort      types.Int64  `tfsdk:"entry_port"`
	TargetProtocol types.String `tfsdk:"target_protocol"`
	TargetPort     types.Int64  `tfsdk:"target_port"`
	CertificateID  types.String `tfsdk:"certificate_id"`
	TLSPassthrough types.Bool   `tfsdk:"tls_passthrough"`
}

// HealthCheckModel mirrors HealthCheck in Terraform state.
type HealthCheckModel struct {
	Protocol               types.String `tfsdk:"protocol"`
	Port                   types.Int64  `tfsdk:"port"`
	Path                   types.String `tfsdk:"path"`
	CheckIntervalSeconds   types.Int64  `tfsdk:"check_interval_seconds"`
	ResponseTimeoutSeconds types.Int64  `tfsdk:"response_timeout_seconds"`
	UnhealthyThreshold     types.Int64  `tfsdk:"unhealthy_threshold"`
	HealthyThreshold       types.Int64  `tfsdk:"healthy_threshold"`
}

// StickySessionsModel mirrors StickySessions in Terraform state.
type StickySessionsModel struct {
	Type             types.String `tfsdk:"type"`
	CookieName       types.String `tfsdk:"cookie_name"`
	CookieTTLSeconds types.Int64  `tfsdk:"cookie_ttl_seconds"`
}

// LoadBalancerResourceModel represents a docean_loadbalancer resource in
// Terraform state.
type LoadBalancerResourceModel struct {
	ID                     types.String           `tfsdk:"id"`
	Name                   types.String           `tfsdk:"name"`
	Algorithm              types.String           `tfsdk:"algorithm"`
	Size                   types.String           `tfsdk:"size"`
	Region                 types.String           `tfsdk:"region"`
	ForwardingRules        []ForwardingRuleModel  `tfsdk:"forwarding_rule"`
	HealthCheck            *HealthCheckModel      `tfsdk:"health_check"`
	StickySessions         *StickySessionsModel   `tfsdk:"sticky_sessions"`
	RedirectHTTPToHTTPS    types.Bool             `tfsdk:"redirect_http_to_https"`
	EnableProxyProtocol    types.Bool             `tfsdk:"enable_proxy_protocol"`
	EnableBackendKeepalive types.Bool             `tfsdk:"enable_backend_keepalive"`
	VPCUUID                types.String           `tfsdk:"vpc_uuid"`
	DropletIDs             types.List             `tfsdk:"droplet_ids"`

	// Computed from the live load balancer.
	IP     types.String `tfsdk:"ip"`
	Status types.String `tfsdk:"status"`
}
