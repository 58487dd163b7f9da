package validators

import (
	"context"
	"fmt"

	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"golang.org/x/exp/slices"

	"github.com/swellware/terraform-provider-docean/internal/models"
)

var _ validator.String = loadBalancerSizeValidator{}

// loadBalancerSizeValidator validates that a load balancer size is one of
// the fixed size classes.
type loadBalancerSizeValidator struct{}

// Description returns a plain text description of the validator's behavior
func (v loadBalancerSizeValidator) Description(ctx context.Context) string {
	return "Value must be 'lb-small', 'lb-medium' or 'lb-large'"
}

// MarkdownDescription returns a markdown formatted description of the validator's behavior
func (v loadBalancerSizeValidator) MarkdownDescription(ctx context.Context) string {
	return "Value must be `lb-small`, `lb-medium` or `lb-large`"
}

// ValidateString validates the size value
func (v loadBalancerSizeValidator) ValidateString(ctx context.Context, req validator.StringRequest, resp *validator.StringResponse) {
	// Skip validation if value is unknown or null (during plan phase)
	if req.ConfigValue.IsUnknown() || req.ConfigValue.IsNull() {
		return
	}

	value := req.ConfigValue.ValueString()
	validSizes := []string{models.LBSizeSmall, models.LBSizeMedium, models.LBSizeLarge}

	if !slices.Contains(validSizes, value) {
		resp.Diagnostics.AddAttributeError(
			req.Path,
			"Invalid Load Balancer Size",
			fmt.Sprintf("Value %q is not valid. Must be 'lb-small', 'lb-medium' or 'lb-large'. "+
				"Note: the size cannot be changed after the load balancer is created.", value),
		)
	}
}

// LoadBalancerSize returns a validator that ensures a load balancer size is
// one of the fixed size classes
func LoadBalancerSize() validator.String {
	return loadBalancerSizeValidator{}
}
