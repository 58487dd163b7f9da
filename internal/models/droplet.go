// Package models provides data structures for DigitalOcean API documents
// and Terraform resources
package models

import (
	"fmt"

	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/mitchellh/mapstructure"
)

// Droplet lifecycle states accepted by the docean_droplet resource.
// present, active and inactive all ensure the droplet exists; they differ
// only in the power assertion applied afterwards. absent deletes it.
const (
	StatePresent  = "present"
	StateActive   = "active"
	StateInactive = "inactive"
	StateAbsent   = "absent"
)

// Droplet statuses reported by the DigitalOcean API. The API may report
// other provider-defined statuses; those are carried through as opaque
// strings.
const (
	DropletStatusNew     = "new"
	DropletStatusActive  = "active"
	DropletStatusOff     = "off"
	DropletStatusArchive = "archive"
)

// DropletSpec is the declared state of a droplet. Fields tagged with
// mapstructure are sent verbatim in the creation request body; fields tagged
// "-" control reconciliation and never reach the API.
type DropletSpec struct {
	Name              string   `mapstructure:"name"`
	Size              string   `mapstructure:"size"`
	Image             string   `mapstructure:"image"`
	Region            string   `mapstructure:"region"`
	SSHKeys           []string `mapstructure:"ssh_keys,omitempty"`
	PrivateNetworking bool     `mapstructure:"private_networking"`
	VPCUUID           string   `mapstructure:"vpc_uuid,omitempty"`
	IPv6              bool     `mapstructure:"ipv6"`
	Backups           bool     `mapstructure:"backups"`
	Monitoring        bool     `mapstructure:"monitoring"`
	UserData          string   `mapstructure:"user_data,omitempty"`
	Tags              []string `mapstructure:"tags,omitempty"`
	Volumes           []string `mapstructure:"volumes,omitempty"`

	// Identity and reconciliation controls.
	ID                 int64 `mapstructure:"-"`
	State              string `mapstructure:"-"`
	Wait               bool   `mapstructure:"-"`
	WaitTimeoutSeconds int64  `mapstructure:"-"`
	UniqueName         bool   `mapstructure:"-"`
	ResizeDisk         bool   `mapstructure:"-"`
}

// CreateRequest builds the POST /v2/droplets body from the spec, pruning the
// reconciliation control fields.
func (s *DropletSpec) CreateRequest() (map[string]interface{}, error) {
	body := map[string]interface{}{}
	if err := mapstructure.Decode(s, &body); err != nil {
		return nil, fmt.Errorf("failed to build droplet create request: %w", err)
	}
	return body, nil
}

// NetworkAddress is one entry in a droplet's v4 or v6 network list.
type NetworkAddress struct {
	IPAddress string `json:"ip_address"`
	Type      string `json:"type"` // public or private
}

// Networks groups a droplet's addresses by family.
type Networks struct {
	V4 []NetworkAddress `json:"v4"`
	V6 []NetworkAddress `json:"v6"`
}

// Droplet is the live droplet document returned by the API.
type Droplet struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Memory   int64    `json:"memory"`
	VCPUs    int64    `json:"vcpus"`
	Disk     int64    `json:"disk"`
	SizeSlug string   `json:"size_slug"`
	Status   string   `json:"status"`
	Networks Networks `json:"networks"`
	Tags     []string `json:"tags"`
	VolumeIDs []string `json:"volume_ids"`
	VPCUUID  string   `json:"vpc_uuid"`
	CreatedAt string  `json:"created_at"`
}

// Addresses are the derived per-family, per-scope addresses of a droplet.
// Absent addresses are empty strings.
type Addresses struct {
	PublicIPv4  string
	PrivateIPv4 string
	PublicIPv6  string
	PrivateIPv6 string
}

// Addresses scans the network list once and exposes each address as its own
// field so callers can feed them to follow-up automation.
func (d *Droplet) Addresses() Addresses {
	var a Addresses
	for _, n := range d.Networks.V4 {
		if n.Type == "public" {
			a.PublicIPv4 = n.IPAddress
		} else {
			a.PrivateIPv4 = n.IPAddress
		}
	}
	for _, n := range d.Networks.V6 {
		if n.Type == "public" {
			a.PublicIPv6 = n.IPAddress
		} else {
			a.PrivateIPv6 = n.IPAddress
		}
	}
	return a
}

// Action is an asynchronous operation record created by the API in response
// to a power or resize request. Its lifecycle is independent of the owning
// droplet's visible status.
type Action struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
	Type   string `json:"type"`
}

// Action statuses.
const (
	ActionInProgress = "in-progress"
	ActionCompleted  = "completed"
	ActionErrored    = "errored"
)

// DropletResourceModel represents a docean_droplet resource in Terraform
// state. The API uses integer droplet IDs; the ID is stored as a string in
// state for consistency with Terraform conventions.
type DropletResourceModel struct {
	ID                types.String `tfsdk:"id"`
	Name              types.String `tfsdk:"name"`
	Size              types.String `tfsdk:"size"`
	Image             types.String `tfsdk:"image"`
	Region            types.String `tfsdk:"region"`
	SSHKeys           types.List   `tfsdk:"ssh_keys"`
	PrivateNetworking types.Bool   `tfsdk:"private_networking"`
	VPCUUID           types.String `tfsdk:"vpc_uuid"`
	IPv6              types.Bool   `tfsdk:"ipv6"`
	Backups           types.Bool   `tfsdk:"backups"`
	Monitoring        types.Bool   `tfsdk:"monitoring"`
	UserData          types.String `tfsdk:"user_data"`
	Tags              types.List   `tfsdk:"tags"`
	Volumes           types.List   `tfsdk:"volumes"`

	State              types.String `tfsdk:"state"`
	Wait               types.Bool   `tfsdk:"wait"`
	WaitTimeoutSeconds types.Int64  `tfsdk:"wait_timeout"`
	UniqueName         types.Bool   `tfsdk:"unique_name"`
	ResizeDisk         types.Bool   `tfsdk:"resize_disk"`

	// Computed from the live droplet.
	Status             types.String `tfsdk:"status"`
	IPv4Address        types.String `tfsdk:"ipv4_address"`
	PrivateIPv4Address types.String `tfsdk:"private_ipv4_address"`
	IPv6Address        types.String `tfsdk:"ipv6_address"`
	PrivateIPv6Address types.String `tfsdk:"private_ipv6_address"`
}
