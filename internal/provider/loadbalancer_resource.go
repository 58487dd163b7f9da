// Package provider implements the docean_loadbalancer resource
package provider

import (
	"context"
	"fmt"

	"github.com/hashicorp/terraform-plugin-framework-validators/int64validator"
	"github.com/hashicorp/terraform-plugin-framework-validators/listvalidator"
	"github.com/hashicorp/terraform-plugin-framework-validators/stringvalidator"
	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/path"
	"github.com/hashicorp/terraform-plugin-framework/resource"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/booldefault"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/planmodifier"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/stringdefault"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/stringplanmodifier"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-log/tflog"

	"github.com/swellware/terraform-provider-docean/internal/client"
	"github.com/swellware/terraform-provider-docean/internal/models"
	"github.com/swellware/terraform-provider-docean/internal/reconcile"
	"github.com/swellware/terraform-provider-docean/internal/validators"
)

// Ensure provider defined types fully satisfy framework interfaces
var (
	_ resource.Resource                = &loadBalancerResource{}
	_ resource.ResourceWithConfigure   = &loadBalancerResource{}
	_ resource.ResourceWithImportState = &loadBalancerResource{}
)

// NewLoadBalancerResource is a helper function to simplify the provider implementation
func NewLoadBalancerResource() resource.Resource {
	return &loadBalancerResource{}
}

// loadBalancerResource is the resource implementation
type loadBalancerResource struct {
	providerData *ProviderData
}

// Metadata returns the resource type name
func (r *loadBalancerResource) Metadata(ctx context.Context, req resource.MetadataRequest, resp *resource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_loadbalancer"
}

// Schema defines the schema for the resource
func (r *loadBalancerResource) Schema(ctx context.Context, req resource.SchemaRequest, resp *resource.SchemaResponse) {
	resp.Schema = schema.Schema{
		Description: "Manages a DigitalOcean load balancer. Updates replace the configuration wholesale; " +
			"the size class is fixed at creation time and cannot be changed afterwards.",

		Attributes: map[string]schema.Attribute{
			"id": schema.StringAttribute{
				Description: "Opaque load balancer identifier assigned by DigitalOcean",
				Computed:    true,
				PlanModifiers: []planmodifier.String{
					stringplanmodifier.UseStateForUnknown(),
				},
			},
			"name": schema.StringAttribute{
				Description: "Name of the load balancer.",
				Required:    true,
				Validators: []validator.String{
					stringvalidator.LengthBetween(1, 255),
				},
			},
			"algorithm": schema.StringAttribute{
				Description: "Balancing algorithm: 'round_robin' or 'least_connections'.",
				Optional:    true,
				Computed:    true,
				Default:     stringdefault.StaticString(models.AlgorithmRoundRobin),
				Validators: []validator.String{
					stringvalidator.OneOf(models.AlgorithmRoundRobin, models.AlgorithmLeastConnections),
				},
			},
			"size": schema.StringAttribute{
				Description: "Size class: 'lb-small', 'lb-medium' or 'lb-large'. " +
					"**Changing this value will force replacement of the resource**; DigitalOcean does not " +
					"support resizing an existing load balancer.",
				Optional: true,
				Computed: true,
				Default:  stringdefault.StaticString(models.LBSizeSmall),
				PlanModifiers: []planmodifier.String{
					stringplanmodifier.RequiresReplace(),
				},
				Validators: []validator.String{
					validators.LoadBalancerSize(),
				},
			},
			"region": schema.StringAttribute{
				Description: "Region slug the load balancer is placed in (e.g. 'nyc1'). " +
					"**Changing this value will force replacement of the resource.**",
				Required: true,
				PlanModifiers: []planmodifier.String{
					stringplanmodifier.RequiresReplace(),
				},
			},
			"redirect_http_to_https": schema.BoolAttribute{
				Description: "Redirect HTTP traffic on port 80 to HTTPS on port 443.",
				Optional:    true,
				Computed:    true,
				Default:     booldefault.StaticBool(false),
			},
			"enable_proxy_protocol": schema.BoolAttribute{
				Description: "Pass client connection information to the backend via the PROXY protocol.",
				Optional:    true,
				Computed:    true,
				Default:     booldefault.StaticBool(false),
			},
			"enable_backend_keepalive": schema.BoolAttribute{
				Description: "Keep HTTP connections to the backend droplets alive between requests.",
				Optional:    true,
				Computed:    true,
				Default:     booldefault.StaticBool(false),
			},
			"vpc_uuid": schema.StringAttribute{
				Description: "UUID of the VPC the load balancer is attached to. " +
					"**Changing this value will force replacement of the resource.**",
				Optional: true,
				PlanModifiers: []planmodifier.String{
					stringplanmodifier.RequiresReplace(),
				},
			},
			"droplet_ids": schema.ListAttribute{
				Description: "IDs of the droplets the load balancer forwards traffic to.",
				ElementType: types.Int64Type,
				Optional:    true,
			},

			// Computed from the live load balancer
			"ip": schema.StringAttribute{
				Description: "Public IP address assigned to the load balancer",
				Computed:    true,
			},
			"status": schema.StringAttribute{
				Description: "Current load balancer status as reported by DigitalOcean",
				Computed:    true,
			},
		},

		Blocks: map[string]schema.Block{
			"forwarding_rule": schema.ListNestedBlock{
				Description: "Maps traffic arriving at an entry port to a backend target port. " +
					"At least one forwarding rule is required.",
				Validators: []validator.List{
					listvalidator.SizeAtLeast(1),
				},
				NestedObject: schema.NestedBlockObject{
					Attributes: map[string]schema.Attribute{
						"entry_protocol": schema.StringAttribute{
							Description: "Protocol traffic arrives with: http, https, http2 or tcp.",
							Required:    true,
							Validators: []validator.String{
								validators.ForwardingProtocol(),
							},
						},
						"entry_port": schema.Int64Attribute{
							Description: "Port traffic arrives on (1-65535).",
							Required:    true,
							Validators: []validator.Int64{
								int64validator.Between(1, 65535),
							},
						},
						"target_protocol": schema.StringAttribute{
							Description: "Protocol traffic is forwarded with: http, https, http2 or tcp.",
							Required:    true,
							Validators: []validator.String{
								validators.ForwardingProtocol(),
							},
						},
						"target_port": schema.Int64Attribute{
							Description: "Backend port traffic is forwarded to (1-65535).",
							Required:    true,
							Validators: []validator.Int64{
								int64validator.Between(1, 65535),
							},
						},
						"certificate_id": schema.StringAttribute{
							Description: "Certificate ID used to terminate TLS at the load balancer.",
							Optional:    true,
						},
						"tls_passthrough": schema.BoolAttribute{
							Description: "Forward encrypted traffic to the backend without terminating TLS.",
							Optional:    true,
							Computed:    true,
							Default:     booldefault.StaticBool(false),
						},
					},
				},
			},
			"health_check": schema.SingleNestedBlock{
				Description: "Backend health check policy. Omitted fields use the DigitalOcean defaults " +
					"(protocol http, port 80, path '/', interval 10s, timeout 5s, unhealthy 3, healthy 5).",
				Attributes: map[string]schema.Attribute{
					"protocol": schema.StringAttribute{
						Description: "Health check protocol: http, https or tcp.",
						Optional:    true,
						Validators: []validator.String{
							validators.HealthCheckProtocol(),
						},
					},
					"port": schema.Int64Attribute{
						Description: "Backend port probed by the health check (1-65535).",
						Optional:    true,
						Validators: []validator.Int64{
							int64validator.Between(1, 65535),
						},
					},
					"path": schema.StringAttribute{
						Description: "HTTP path probed by the health check.",
						Optional:    true,
					},
					"check_interval_seconds": schema.Int64Attribute{
						Description: "Seconds between health checks (3-300).",
						Optional:    true,
						Validators: []validator.Int64{
							int64validator.Between(3, 300),
						},
					},
					"response_timeout_seconds": schema.Int64Attribute{
						Description: "Seconds to wait for a health check response (3-300).",
						Optional:    true,
						Validators: []validator.Int64{
							int64validator.Between(3, 300),
						},
					},
					"unhealthy_threshold": schema.Int64Attribute{
						Description: "Consecutive failures before a droplet is marked unhealthy (2-10).",
						Optional:    true,
						Validators: []validator.Int64{
							int64validator.Between(2, 10),
						},
					},
					"healthy_threshold": schema.Int64Attribute{
						Description: "Consecutive successes before a droplet is marked healthy (2-10).",
						Optional:    true,
						Validators: []validator.Int64{
							int64validator.Between(2, 10),
						},
					},
				},
			},
			"sticky_sessions": schema.SingleNestedBlock{
				Description: "Session affinity policy. With type 'cookies', cookie_name and " +
					"cookie_ttl_seconds are both required.",
				Attributes: map[string]schema.Attribute{
					"type": schema.StringAttribute{
						Description: "Affinity type: 'none' or 'cookies'.",
						Optional:    true,
						Validators: []validator.String{
							stringvalidator.OneOf("none", "cookies"),
						},
					},
					"cookie_name": schema.StringAttribute{
						Description: "Name of the affinity cookie (2-40 characters).",
						Optional:    true,
						Validators: []validator.String{
							stringvalidator.LengthBetween(2, 40),
						},
					},
					"cookie_ttl_seconds": schema.Int64Attribute{
						Description: "Lifetime of the affinity cookie in seconds.",
						Optional:    true,
						Validators: []validator.Int64{
							int64validator.AtLeast(1),
						},
					},
				},
			},
		},
	}
}

// Configure adds the provider configured client to the resource
func (r *loadBalancerResource) Configure(ctx context.Context, req resource.ConfigureRequest, resp *resource.ConfigureResponse) {
	// Prevent panic if the provider has not been configured
	if req.ProviderData == nil {
		return
	}

	providerData, ok := req.ProviderData.(*ProviderData)
	if !ok {
		resp.Diagnostics.AddError(
			"Unexpected Resource Configure Type",
			fmt.Sprintf("Expected *ProviderData, got: %T. Please report this issue to the provider developers.", req.ProviderData),
		)
		return
	}

	r.providerData = providerData
}

// buildSpec converts the Terraform model into a declared load balancer spec.
// Health check fields left unset in the configuration fall back to the
// DigitalOcean defaults so the request body is always complete.
func (r *loadBalancerResource) buildSpec(ctx context.Context, m *models.LoadBalancerResourceModel) (*models.LoadBalancerSpec, diag.Diagnostics) {
	var diags diag.Diagnostics

	spec := &models.LoadBalancerSpec{
		Name:                   m.Name.ValueString(),
		Algorithm:              m.Algorithm.ValueString(),
		Size:                   m.Size.ValueString(),
		Region:                 m.Region.ValueString(),
		RedirectHTTPToHTTPS:    m.RedirectHTTPToHTTPS.ValueBool(),
		EnableProxyProtocol:    m.EnableProxyProtocol.ValueBool(),
		EnableBackendKeepalive: m.EnableBackendKeepalive.ValueBool(),
		VPCUUID:                m.VPCUUID.ValueString(),
	}

	if !m.ID.IsNull() && !m.ID.IsUnknown() {
		spec.ID = m.ID.ValueString()
	}

	for _, rule := range m.ForwardingRules {
		spec.ForwardingRules = append(spec.ForwardingRules, models.ForwardingRule{
			EntryProtocol:  rule.EntryProtocol.ValueString(),
			EntryPort:      rule.EntryPort.ValueInt64(),
			TargetProtocol: rule.TargetProtocol.ValueString(),
			TargetPort:     rule.TargetPort.ValueInt64(),
			CertificateID:  rule.CertificateID.ValueString(),
			TLSPassthrough: rule.TLSPassthrough.ValueBool(),
		})
	}

	if m.HealthCheck != nil {
		hc := models.DefaultHealthCheck("http", 80)
		if !m.HealthCheck.Protocol.IsNull() {
			hc.Protocol = m.HealthCheck.Protocol.ValueString()
		}
		if !m.HealthCheck.Port.IsNull() {
			hc.Port = m.HealthCheck.Port.ValueInt64()
		}
		if !m.HealthCheck.Path.IsNull() {
			hc.Path = m.HealthCheck.Path.ValueString()
		}
		if !m.HealthCheck.CheckIntervalSeconds.IsNull() {
			hc.CheckIntervalSeconds = m.HealthCheck.CheckIntervalSeconds.ValueInt64()
		}
		if !m.HealthCheck.ResponseTimeoutSeconds.IsNull() {
			hc.ResponseTimeoutSeconds = m.HealthCheck.ResponseTimeoutSeconds.ValueInt64()
		}
		if !m.HealthCheck.UnhealthyThreshold.IsNull() {
			hc.UnhealthyThreshold = m.HealthCheck.UnhealthyThreshold.ValueInt64()
		}
		if !m.HealthCheck.HealthyThreshold.IsNull() {
			hc.HealthyThreshold = m.HealthCheck.HealthyThreshold.ValueInt64()
		}
		spec.HealthCheck = &hc
	}

	if m.StickySessions != nil {
		ss := models.StickySessions{
			Type:             m.StickySessions.Type.ValueString(),
			CookieName:       m.StickySessions.CookieName.ValueString(),
			CookieTTLSeconds: m.StickySessions.CookieTTLSeconds.ValueInt64(),
		}
		if ss.Type == "" {
			ss.Type = "none"
		}
		spec.StickySessions = &ss
	}

	if !m.DropletIDs.IsNull() && !m.DropletIDs.IsUnknown() {
		diags.Append(m.DropletIDs.ElementsAs(ctx, &spec.DropletIDs, false)...)
	}

	return spec, diags
}

// applyLoadBalancer copies the live load balancer into the Terraform model.
func applyLoadBalancer(m *models.LoadBalancerResourceModel, lb *models.LoadBalancer) {
	m.ID = types.StringValue(lb.ID)
	m.IP = types.StringValue(lb.IP)
	m.Status = types.StringValue(lb.Status)
}

// Create creates the resource and sets the initial Terraform state
func (r *loadBalancerResource) Create(ctx context.Context, req resource.CreateRequest, resp *resource.CreateResponse) {
	if r.providerData == nil {
		resp.Diagnostics.AddError(
			"Unconfigured API Client",
			"Expected configured ProviderData. Please report this issue to the provider developers.",
		)
		return
	}

	var plan models.LoadBalancerResourceModel
	resp.Diagnostics.Append(req.Plan.Get(ctx, &plan)...)
	if resp.Diagnostics.HasError() {
		return
	}

	spec, diags := r.buildSpec(ctx, &plan)
	resp.Diagnostics.Append(diags...)
	if resp.Diagnostics.HasError() {
		return
	}

	tflog.Info(ctx, "Creating load balancer", map[string]interface{}{
		"name":   spec.Name,
		"size":   spec.Size,
		"region": spec.Region,
	})

	reconciler := reconcile.NewLoadBalancerReconciler(r.providerData.Client)
	outcome, err := reconciler.Reconcile(ctx, spec)
	if err != nil {
		tflog.Error(ctx, "Failed to create load balancer", map[string]interface{}{
			"error": err.Error(),
		})
		resp.Diagnostics.Append(client.MapError(err, "create load balancer"))
		return
	}

	applyLoadBalancer(&plan, outcome.LoadBalancer)

	tflog.Info(ctx, "Created load balancer", map[string]interface{}{
		"id": plan.ID.ValueString(),
	})

	resp.Diagnostics.Append(resp.State.Set(ctx, &plan)...)
}

// Read refreshes the Terraform state with the latest data
func (r *loadBalancerResource) Read(ctx context.Context, req resource.ReadRequest, resp *resource.ReadResponse) {
	if r.providerData == nil {
		resp.Diagnostics.AddError(
			"Unconfigured API Client",
			"Expected configured ProviderData. Please report this issue to the provider developers.",
		)
		return
	}

	var state models.LoadBalancerResourceModel
	resp.Diagnostics.Append(req.State.Get(ctx, &state)...)
	if resp.Diagnostics.HasError() {
		return
	}

	tflog.Debug(ctx, "Reading load balancer", map[string]interface{}{
		"id": state.ID.ValueString(),
	})

	lb, err := r.providerData.Client.GetLoadBalancer(ctx, state.ID.ValueString())
	if err != nil {
		if client.IsNotFound(err) {
			tflog.Warn(ctx, "Load balancer not found, removing from state", map[string]interface{}{
				"id": state.ID.ValueString(),
			})
			resp.State.RemoveResource(ctx)
			return
		}
		resp.Diagnostics.Append(client.MapError(err, "read load balancer"))
		return
	}

	state.Name = types.StringValue(lb.Name)
	state.Algorithm = types.StringValue(lb.Algorithm)
	state.Size = types.StringValue(lb.Size)
	applyLoadBalancer(&state, lb)

	resp.Diagnostics.Append(resp.State.Set(ctx, &state)...)
}

// Update replaces the load balancer configuration with the declared one
func (r *loadBalancerResource) Update(ctx context.Context, req resource.UpdateRequest, resp *resource.UpdateResponse) {
	if r.providerData == nil {
		resp.Diagnostics.AddError(
			"Unconfigured API Client",
			"Expected configured ProviderData. Please report this issue to the provider developers.",
		)
		return
	}

	var plan, state models.LoadBalancerResourceModel
	resp.Diagnostics.Append(req.Plan.Get(ctx, &plan)...)
	resp.Diagnostics.Append(req.State.Get(ctx, &state)...)
	if resp.Diagnostics.HasError() {
		return
	}

	// The identity never changes across an in-place update.
	plan.ID = state.ID

	spec, diags := r.buildSpec(ctx, &plan)
	resp.Diagnostics.Append(diags...)
	if resp.Diagnostics.HasError() {
		return
	}

	tflog.Info(ctx, "Updating load balancer", map[string]interface{}{
		"id": spec.ID,
	})

	reconciler := reconcile.NewLoadBalancerReconciler(r.providerData.Client)
	outcome, err := reconciler.Reconcile(ctx, spec)
	if err != nil {
		tflog.Error(ctx, "Failed to update load balancer", map[string]interface{}{
			"error": err.Error(),
		})
		resp.Diagnostics.Append(client.MapError(err, "update load balancer"))
		return
	}

	applyLoadBalancer(&plan, outcome.LoadBalancer)

	resp.Diagnostics.Append(resp.State.Set(ctx, &plan)...)
}

// Delete deletes the resource and removes the Terraform state on success
func (r *loadBalancerResource) Delete(ctx context.Context, req resource.DeleteRequest, resp *resource.DeleteResponse) {
	if r.providerData == nil {
		resp.Diagnostics.AddError(
			"Unconfigured API Client",
			"Expected configured ProviderData. Please report this issue to the provider developers.",
		)
		return
	}

	var state models.LoadBalancerResourceModel
	resp.Diagnostics.Append(req.State.Get(ctx, &state)...)
	if resp.Diagnostics.HasError() {
		return
	}

	tflog.Info(ctx, "Deleting load balancer", map[string]interface{}{
		"id": state.ID.ValueString(),
	})

	reconciler := reconcile.NewLoadBalancerReconciler(r.providerData.Client)
	outcome, err := reconciler.Delete(ctx, &models.LoadBalancerSpec{
		ID:   state.ID.ValueString(),
		Name: state.Name.ValueString(),
	})
	if err != nil {
		resp.Diagnostics.Append(client.MapError(err, "delete load balancer"))
		return
	}

	if !outcome.Changed {
		tflog.Warn(ctx, "Load balancer already deleted", map[string]interface{}{
			"id": state.ID.ValueString(),
		})
	}
}

// ImportState imports an existing resource into Terraform state
func (r *loadBalancerResource) ImportState(ctx context.Context, req resource.ImportStateRequest, resp *resource.ImportStateResponse) {
	resource.ImportStatePassthroughID(ctx, path.Root("id"), req, resp)

	tflog.Info(ctx, "Imported load balancer", map[string]interface{}{
		"id": req.ID,
	})
}
