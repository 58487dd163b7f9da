// Package provider implements the docean_droplet resource
package provider

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hashicorp/terraform-plugin-framework-validators/int64validator"
	"github.com/hashicorp/terraform-plugin-framework-validators/stringvalidator"
	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/path"
	"github.com/hashicorp/terraform-plugin-framework/resource"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/booldefault"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/boolplanmodifier"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/int64default"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/listplanmodifier"
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
	_ resource.Resource                = &dropletResource{}
	_ resource.ResourceWithConfigure   = &dropletResource{}
	_ resource.ResourceWithImportState = &dropletResource{}
)

// NewDropletResource is a helper function to simplify the provider implementation
func NewDropletResource() resource.Resource {
	return &dropletResource{}
}

// dropletResource is the resource implementation
type dropletResource struct {
	providerData *ProviderData
}

// Metadata returns the resource type name
func (r *dropletResource) Metadata(ctx context.Context, req resource.MetadataRequest, resp *resource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_droplet"
}

// Schema defines the schema for the resource
func (r *dropletResource) Schema(ctx context.Context, req resource.SchemaRequest, resp *resource.SchemaResponse) {
	resp.Schema = schema.Schema{
		Description: "Manages a DigitalOcean droplet. The droplet is converged to the declared size and " +
			"power state on every apply: a size mismatch triggers a resize (the droplet must be powered off " +
			"first), and the 'active'/'inactive' states assert the power state after creation.",

		Attributes: map[string]schema.Attribute{
			"id": schema.StringAttribute{
				Description: "Numeric droplet identifier assigned by DigitalOcean",
				Computed:    true,
				PlanModifiers: []planmodifier.String{
					stringplanmodifier.UseStateForUnknown(),
				},
			},
			"name": schema.StringAttribute{
				Description: "Name of the droplet. DigitalOcean does not require names to be unique; " +
					"set unique_name to treat the name as an identifier.",
				Required: true,
				PlanModifiers: []planmodifier.String{
					stringplanmodifier.RequiresReplace(),
				},
				Validators: []validator.String{
					stringvalidator.LengthBetween(1, 255),
				},
			},
			"size": schema.StringAttribute{
				Description: "Droplet size slug (e.g. 's-1vcpu-1gb'). Changing the size resizes the " +
					"existing droplet in place; the droplet must be powered off before a resize.",
				Required: true,
				Validators: []validator.String{
					stringvalidator.LengthAtLeast(1),
				},
			},
			"image": schema.StringAttribute{
				Description: "Image slug or ID the droplet is created from (e.g. 'ubuntu-22-04-x64'). " +
					"**Changing this value will force replacement of the resource.**",
				Required: true,
				PlanModifiers: []planmodifier.String{
					stringplanmodifier.RequiresReplace(),
				},
			},
			"region": schema.StringAttribute{
				Description: "Region slug the droplet is placed in (e.g. 'nyc1'). " +
					"**Changing this value will force replacement of the resource.**",
				Required: true,
				PlanModifiers: []planmodifier.String{
					stringplanmodifier.RequiresReplace(),
				},
			},
			"ssh_keys": schema.ListAttribute{
				Description: "SSH key IDs or fingerprints to embed in the droplet at creation time.",
				ElementType: types.StringType,
				Optional:    true,
				PlanModifiers: []planmodifier.List{
					listplanmodifier.RequiresReplace(),
				},
			},
			"private_networking": schema.BoolAttribute{
				Description: "Enable private networking for the droplet.",
				Optional:    true,
				Computed:    true,
				Default:     booldefault.StaticBool(false),
			},
			"vpc_uuid": schema.StringAttribute{
				Description: "UUID of the VPC the droplet is attached to. " +
					"**Changing this value will force replacement of the resource.**",
				Optional: true,
				PlanModifiers: []planmodifier.String{
					stringplanmodifier.RequiresReplace(),
				},
			},
			"ipv6": schema.BoolAttribute{
				Description: "Enable IPv6 networking for the droplet. IPv6 can only be chosen at creation " +
					"time. **Changing this value will force replacement of the resource.**",
				Optional: true,
				Computed: true,
				Default:  booldefault.StaticBool(false),
				PlanModifiers: []planmodifier.Bool{
					boolplanmodifier.RequiresReplace(),
				},
			},
			"backups": schema.BoolAttribute{
				Description: "Enable automated backups for the droplet.",
				Optional:    true,
				Computed:    true,
				Default:     booldefault.StaticBool(false),
			},
			"monitoring": schema.BoolAttribute{
				Description: "Install the DigitalOcean monitoring agent.",
				Optional:    true,
				Computed:    true,
				Default:     booldefault.StaticBool(false),
			},
			"user_data": schema.StringAttribute{
				Description: "Cloud-init user data passed to the droplet at creation time. " +
					"**Changing this value will force replacement of the resource.**",
				Optional: true,
				PlanModifiers: []planmodifier.String{
					stringplanmodifier.RequiresReplace(),
				},
			},
			"tags": schema.ListAttribute{
				Description: "Tags applied to the droplet at creation time.",
				ElementType: types.StringType,
				Optional:    true,
			},
			"volumes": schema.ListAttribute{
				Description: "Block storage volume IDs attached to the droplet at creation time.",
				ElementType: types.StringType,
				Optional:    true,
			},
			"state": schema.StringAttribute{
				Description: "Declared lifecycle state. 'present' ensures the droplet exists without " +
					"asserting power; 'active' and 'inactive' additionally converge the power state. " +
					"'absent' is not valid for a managed resource; remove the resource instead.",
				Optional: true,
				Computed: true,
				Default:  stringdefault.StaticString(models.StatePresent),
				Validators: []validator.String{
					validators.DropletState(),
				},
			},
			"wait": schema.BoolAttribute{
				Description: "Wait for the droplet to reach the declared power state after creation. " +
					"When false and state is 'inactive', the power off is issued without confirmation.",
				Optional: true,
				Computed: true,
				Default:  booldefault.StaticBool(true),
			},
			"wait_timeout": schema.Int64Attribute{
				Description: "Seconds to wait for each power transition before failing.",
				Optional:    true,
				Computed:    true,
				Default:     int64default.StaticInt64(120),
				Validators: []validator.Int64{
					int64validator.AtLeast(1),
				},
			},
			"unique_name": schema.BoolAttribute{
				Description: "Treat the droplet name as unique and locate existing droplets by name. " +
					"Without this, a lost ID always results in a new droplet.",
				Optional: true,
				Computed: true,
				Default:  booldefault.StaticBool(false),
			},
			"resize_disk": schema.BoolAttribute{
				Description: "Also grow the disk when resizing. Disk resizes are permanent and prevent " +
					"moving back to a smaller size.",
				Optional: true,
				Computed: true,
				Default:  booldefault.StaticBool(false),
			},

			// Computed from the live droplet
			"status": schema.StringAttribute{
				Description: "Current droplet status as reported by DigitalOcean (new, active, off, archive)",
				Computed:    true,
			},
			"ipv4_address": schema.StringAttribute{
				Description: "Public IPv4 address of the droplet",
				Computed:    true,
			},
			"private_ipv4_address": schema.StringAttribute{
				Description: "Private IPv4 address of the droplet",
				Computed:    true,
			},
			"ipv6_address": schema.StringAttribute{
				Description: "Public IPv6 address of the droplet",
				Computed:    true,
			},
			"private_ipv6_address": schema.StringAttribute{
				Description: "Private IPv6 address of the droplet",
				Computed:    true,
			},
		},
	}
}

// Configure adds the provider configured client to the resource
func (r *dropletResource) Configure(ctx context.Context, req resource.ConfigureRequest, resp *resource.ConfigureResponse) {
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

// buildSpec converts the Terraform model into a declared droplet spec.
func (r *dropletResource) buildSpec(ctx context.Context, m *models.DropletResourceModel) (*models.DropletSpec, diag.Diagnostics) {
	var diags diag.Diagnostics

	spec := &models.DropletSpec{
		Name:              m.Name.ValueString(),
		Size:              m.Size.ValueString(),
		Image:             m.Image.ValueString(),
		Region:            m.Region.ValueString(),
		PrivateNetworking: m.PrivateNetworking.ValueBool(),
		VPCUUID:           m.VPCUUID.ValueString(),
		IPv6:              m.IPv6.ValueBool(),
		Backups:           m.Backups.ValueBool(),
		Monitoring:        m.Monitoring.ValueBool(),
		UserData:          m.UserData.ValueString(),

		State:              m.State.ValueString(),
		Wait:               m.Wait.ValueBool(),
		WaitTimeoutSeconds: m.WaitTimeoutSeconds.ValueInt64(),
		UniqueName:         m.UniqueName.ValueBool(),
		ResizeDisk:         m.ResizeDisk.ValueBool(),
	}

	if !m.SSHKeys.IsNull() && !m.SSHKeys.IsUnknown() {
		diags.Append(m.SSHKeys.ElementsAs(ctx, &spec.SSHKeys, false)...)
	}
	if !m.Tags.IsNull() && !m.Tags.IsUnknown() {
		diags.Append(m.Tags.ElementsAs(ctx, &spec.Tags, false)...)
	}
	if !m.Volumes.IsNull() && !m.Volumes.IsUnknown() {
		diags.Append(m.Volumes.ElementsAs(ctx, &spec.Volumes, false)...)
	}

	if !m.ID.IsNull() && !m.ID.IsUnknown() && m.ID.ValueString() != "" {
		id, err := strconv.ParseInt(m.ID.ValueString(), 10, 64)
		if err != nil {
			diags.AddError(
				"Invalid Droplet ID",
				fmt.Sprintf("Unable to convert ID %q to an integer: %s", m.ID.ValueString(), err.Error()),
			)
			return nil, diags
		}
		spec.ID = id
	}

	if spec.State == models.StateAbsent {
		diags.AddAttributeError(
			path.Root("state"),
			"Invalid Droplet State",
			"'absent' is not valid for a managed resource; remove the resource from the configuration instead.",
		)
	}

	return spec, diags
}

// applyDroplet copies the live droplet into the Terraform model.
func applyDroplet(m *models.DropletResourceModel, droplet *models.Droplet) {
	m.ID = types.StringValue(strconv.FormatInt(droplet.ID, 10))
	m.Status = types.StringValue(droplet.Status)

	addrs := droplet.Addresses()
	m.IPv4Address = types.StringValue(addrs.PublicIPv4)
	m.PrivateIPv4Address = types.StringValue(addrs.PrivateIPv4)
	m.IPv6Address = types.StringValue(addrs.PublicIPv6)
	m.PrivateIPv6Address = types.StringValue(addrs.PrivateIPv6)
}

// Create creates the resource and sets the initial Terraform state
func (r *dropletResource) Create(ctx context.Context, req resource.CreateRequest, resp *resource.CreateResponse) {
	if r.providerData == nil {
		resp.Diagnostics.AddError(
			"Unconfigured API Client",
			"Expected configured ProviderData. Please report this issue to the provider developers.",
		)
		return
	}

	var plan models.DropletResourceModel
	resp.Diagnostics.Append(req.Plan.Get(ctx, &plan)...)
	if resp.Diagnostics.HasError() {
		return
	}

	spec, diags := r.buildSpec(ctx, &plan)
	resp.Diagnostics.Append(diags...)
	if resp.Diagnostics.HasError() {
		return
	}

	tflog.Info(ctx, "Creating droplet", map[string]interface{}{
		"name":   spec.Name,
		"size":   spec.Size,
		"region": spec.Region,
	})

	reconciler := reconcile.NewDropletReconciler(r.providerData.Client)
	outcome, err := reconciler.Reconcile(ctx, spec)
	if err != nil {
		tflog.Error(ctx, "Failed to create droplet", map[string]interface{}{
			"error": err.Error(),
		})
		resp.Diagnostics.Append(client.MapError(err, "create droplet"))
		// A committed creation is still recorded in state so the droplet is
		// not leaked; Terraform will retry convergence on the next apply.
		if outcome.Changed && outcome.Droplet != nil {
			applyDroplet(&plan, outcome.Droplet)
			resp.Diagnostics.Append(resp.State.Set(ctx, &plan)...)
		}
		return
	}

	applyDroplet(&plan, outcome.Droplet)

	tflog.Info(ctx, "Created droplet", map[string]interface{}{
		"id":     plan.ID.ValueString(),
		"status": plan.Status.ValueString(),
	})

	resp.Diagnostics.Append(resp.State.Set(ctx, &plan)...)
}

// Read refreshes the Terraform state with the latest data
func (r *dropletResource) Read(ctx context.Context, req resource.ReadRequest, resp *resource.ReadResponse) {
	if r.providerData == nil {
		resp.Diagnostics.AddError(
			"Unconfigured API Client",
			"Expected configured ProviderData. Please report this issue to the provider developers.",
		)
		return
	}

	var state models.DropletResourceModel
	resp.Diagnostics.Append(req.State.Get(ctx, &state)...)
	if resp.Diagnostics.HasError() {
		return
	}

	id, err := strconv.ParseInt(state.ID.ValueString(), 10, 64)
	if err != nil {
		resp.Diagnostics.AddError(
			"Invalid Droplet ID",
			fmt.Sprintf("Unable to convert ID %q to an integer: %s", state.ID.ValueString(), err.Error()),
		)
		return
	}

	tflog.Debug(ctx, "Reading droplet", map[string]interface{}{"id": id})

	droplet, err := r.providerData.Client.GetDroplet(ctx, id)
	if err != nil {
		if client.IsNotFound(err) {
			tflog.Warn(ctx, "Droplet not found, removing from state", map[string]interface{}{
				"id": id,
			})
			resp.State.RemoveResource(ctx)
			return
		}
		resp.Diagnostics.Append(client.MapError(err, "read droplet"))
		return
	}

	state.Name = types.StringValue(droplet.Name)
	state.Size = types.StringValue(droplet.SizeSlug)
	applyDroplet(&state, droplet)

	resp.Diagnostics.Append(resp.State.Set(ctx, &state)...)
}

// Update converges the existing droplet to the declared size and power state
func (r *dropletResource) Update(ctx context.Context, req resource.UpdateRequest, resp *resource.UpdateResponse) {
	if r.providerData == nil {
		resp.Diagnostics.AddError(
			"Unconfigured API Client",
			"Expected configured ProviderData. Please report this issue to the provider developers.",
		)
		return
	}

	var plan, state models.DropletResourceModel
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

	tflog.Info(ctx, "Updating droplet", map[string]interface{}{
		"id":   spec.ID,
		"size": spec.Size,
	})

	reconciler := reconcile.NewDropletReconciler(r.providerData.Client)
	outcome, err := reconciler.Reconcile(ctx, spec)
	if err != nil {
		tflog.Error(ctx, "Failed to update droplet", map[string]interface{}{
			"error": err.Error(),
		})
		resp.Diagnostics.Append(client.MapError(err, "update droplet"))
		return
	}

	applyDroplet(&plan, outcome.Droplet)
	if outcome.Message != "" {
		tflog.Info(ctx, "Droplet updated", map[string]interface{}{
			"id":     plan.ID.ValueString(),
			"detail": outcome.Message,
		})
	}

	resp.Diagnostics.Append(resp.State.Set(ctx, &plan)...)
}

// Delete deletes the resource and removes the Terraform state on success
func (r *dropletResource) Delete(ctx context.Context, req resource.DeleteRequest, resp *resource.DeleteResponse) {
	if r.providerData == nil {
		resp.Diagnostics.AddError(
			"Unconfigured API Client",
			"Expected configured ProviderData. Please report this issue to the provider developers.",
		)
		return
	}

	var state models.DropletResourceModel
	resp.Diagnostics.Append(req.State.Get(ctx, &state)...)
	if resp.Diagnostics.HasError() {
		return
	}

	id, err := strconv.ParseInt(state.ID.ValueString(), 10, 64)
	if err != nil {
		resp.Diagnostics.AddError(
			"Invalid Droplet ID",
			fmt.Sprintf("Unable to convert ID %q to an integer: %s", state.ID.ValueString(), err.Error()),
		)
		return
	}

	tflog.Info(ctx, "Deleting droplet", map[string]interface{}{"id": id})

	reconciler := reconcile.NewDropletReconciler(r.providerData.Client)
	outcome, err := reconciler.Delete(ctx, &models.DropletSpec{ID: id, Name: state.Name.ValueString()})
	if err != nil {
		resp.Diagnostics.Append(client.MapError(err, "delete droplet"))
		return
	}

	if !outcome.Changed {
		tflog.Warn(ctx, "Droplet already deleted", map[string]interface{}{"id": id})
	}
}

// ImportState imports an existing resource into Terraform state
func (r *dropletResource) ImportState(ctx context.Context, req resource.ImportStateRequest, resp *resource.ImportStateResponse) {
	resource.ImportStatePassthroughID(ctx, path.Root("id"), req, resp)

	tflog.Info(ctx, "Imported droplet", map[string]interface{}{
		"id": req.ID,
	})
}
