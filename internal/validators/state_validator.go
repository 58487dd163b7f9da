// Package validators provides custom validators for Terraform resources
package validators

import (
	"context"
	"fmt"

	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"golang.org/x/exp/slices"

	"github.com/swellware/terraform-provider-docean/internal/models"
)

var _ validator.String = dropletStateValidator{}

// dropletStateValidator validates that a droplet lifecycle state is one of
// present, active, inactive or absent.
type dropletStateValidator struct{}

// Description returns a plain text description of the validator's behavior
func (v dropletStateValidator) Description(ctx context.Context) string {
	return "Value must be 'present', 'active', 'inactive' or 'absent'"
}

// MarkdownDescription returns a markdown formatted description of the validator's behavior
func (v dropletStateValidator) MarkdownDescription(ctx context.Context) string {
	return "Value must be `present`, `active`, `inactive` or `absent`"
}

// ValidateString validates the state value
func (v dropletStateValidator) ValidateString(ctx context.Context, req validator.StringRequest, resp *validator.StringResponse) {
	// Skip validation if value is unknown or null (during plan phase)
	if req.ConfigValue.IsUnknown() || req.ConfigValue.IsNull() {
		return
	}

	value := req.ConfigValue.ValueString()
	validStates := []string{models.StatePresent, models.StateActive, models.StateInactive, models.StateAbsent}

	if !slices.Contains(validStates, value) {
		resp.Diagnostics.AddAttributeError(
			req.Path,
			"Invalid Droplet State",
			fmt.Sprintf("Value %q is not valid. Must be 'present', 'active', 'inactive' or 'absent'. "+
				"'present', 'active' and 'inactive' all ensure the droplet exists and differ only in "+
				"the power assertion applied afterwards.", value),
		)
	}
}

// DropletState returns a validator that ensures a droplet state is one of
// the accepted lifecycle states
func DropletState() validator.String {
	return dropletStateValidator{}
}
