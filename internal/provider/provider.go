// Package provider implements the DigitalOcean Terraform provider
package provider

import (
	"context"
	"os"

	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/provider"
	"github.com/hashicorp/terraform-plugin-framework/provider/schema"
	"github.com/hashicorp/terraform-plugin-framework/resource"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-log/tflog"

	"github.com/swellware/terraform-provider-docean/internal/client"
)

// Ensure the implementation satisfies the expected interfaces
var _ provider.Provider = &DoceanProvider{}

// tokenEnvVars are checked in order when the provider block carries no token.
var tokenEnvVars = []string{
	"DIGITALOCEAN_TOKEN",
	"DO_API_TOKEN",
	"DO_API_KEY",
	"DO_OAUTH_TOKEN",
}

// DoceanProvider defines the provider implementation
type DoceanProvider struct {
	// version is set to the provider version on release
	version string
}

// ProviderData is passed to every resource during Configure.
type ProviderData struct {
	Client *client.Client
}

// DoceanProviderModel describes the provider configuration block.
type DoceanProviderModel struct {
	Token  types.String `tfsdk:"token"`
	APIURL types.String `tfsdk:"api_url"`
}

// New is a helper function to simplify provider server and testing implementation
func New(version string) func() provider.Provider {
	return func() provider.Provider {
		return &DoceanProvider{
			version: version,
		}
	}
}

// Metadata returns the provider type name
func (p *DoceanProvider) Metadata(ctx context.Context, req provider.MetadataRequest, resp *provider.MetadataResponse) {
	resp.TypeName = "docean"
	resp.Version = p.version
}

// Schema defines the provider-level schema for configuration data
func (p *DoceanProvider) Schema(ctx context.Context, req provider.SchemaRequest, resp *provider.SchemaResponse) {
	resp.Schema = schema.Schema{
		Description: "Terraform provider for DigitalOcean droplets and load balancers",
		Attributes: map[string]schema.Attribute{
			"token": schema.StringAttribute{
				Description: "DigitalOcean API token. May also be provided via the DIGITALOCEAN_TOKEN, " +
					"DO_API_TOKEN, DO_API_KEY or DO_OAUTH_TOKEN environment variables.",
				Optional:  true,
				Sensitive: true,
			},
			"api_url": schema.StringAttribute{
				Description: "Override the DigitalOcean API endpoint. Defaults to " + client.DefaultBaseURL + ".",
				Optional:    true,
			},
		},
	}
}

// Configure prepares a DigitalOcean API client for resources
func (p *DoceanProvider) Configure(ctx context.Context, req provider.ConfigureRequest, resp *provider.ConfigureResponse) {
	var config DoceanProviderModel
	resp.Diagnostics.Append(req.Config.Get(ctx, &config)...)
	if resp.Diagnostics.HasError() {
		return
	}

	token := config.Token.ValueString()
	if token == "" {
		for _, envVar := range tokenEnvVars {
			if v := os.Getenv(envVar); v != "" {
				token = v
				break
			}
		}
	}
	if token == "" {
		resp.Diagnostics.AddError(
			"Missing DigitalOcean API Token",
			"A token must be set in the provider configuration or via one of the "+
				"DIGITALOCEAN_TOKEN, DO_API_TOKEN, DO_API_KEY or DO_OAUTH_TOKEN environment variables.",
		)
		return
	}

	apiClient, err := client.New(token, config.APIURL.ValueString())
	if err != nil {
		resp.Diagnostics.AddError(
			"Failed to Configure API Client",
			"An error occurred creating the DigitalOcean API client: "+err.Error(),
		)
		return
	}

	tflog.Info(ctx, "Configured DigitalOcean client", map[string]interface{}{
		"api_url": apiClient.BaseURL,
	})

	data := &ProviderData{Client: apiClient}
	resp.ResourceData = data
	resp.DataSourceData = data
}

// Resources defines the resources implemented in the provider
func (p *DoceanProvider) Resources(ctx context.Context) []func() resource.Resource {
	return []func() resource.Resource{
		NewDropletResource,
		NewLoadBalancerResource,
	}
}

// DataSources defines the data sources implemented in the provider
func (p *DoceanProvider) DataSources(ctx context.Context) []func() datasource.DataSource {
	return []func() datasource.DataSource{
		// Data sources not in scope for initial version
	}
}
