package validators

import (
	"context"
	"testing"

	"github.com/hashicorp/terraform-plugin-framework/path"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-framework/types"
)

func TestDropletStateValidator(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		value     types.String
		expectErr bool
	}{
		{
			name:      "valid present",
			value:     types.StringValue("present"),
			expectErr: false,
		},
		{
			name:      "valid active",
			value:     types.StringValue("active"),
			expectErr: false,
		},
		{
			name:      "valid inactive",
			value:     types.StringValue("inactive"),
			expectErr: false,
		},
		{
			name:      "valid absent",
			value:     types.StringValue("absent"),
			expectErr: false,
		},
		{
			name:      "invalid running state",
			value:     types.StringValue("running"),
			expectErr: true,
		},
		{
			name:      "invalid uppercase ACTIVE",
			value:     types.StringValue("ACTIVE"),
			expectErr: true,
		},
		{
			name:      "empty string",
			value:     types.StringValue(""),
			expectErr: true,
		},
		{
			name:      "null value (allowed)",
			value:     types.StringNull(),
			expectErr: false,
		},
		{
			name:      "unknown value (allowed)",
			value:     types.StringUnknown(),
			expectErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := DropletState()
			req := validator.StringRequest{
				Path:        path.Root("state"),
				ConfigValue: tt.value,
			}
			resp := &validator.StringResponse{}

			v.ValidateString(context.Background(), req, resp)

			hasError := resp.Diagnostics.HasError()
			if hasError != tt.expectErr {
				t.Errorf("DropletState() hasError = %v, expectErr %v", hasError, tt.expectErr)
				if hasError {
					t.Logf("Diagnostics: %v", resp.Diagnostics)
				}
			}
		})
	}
}

func TestDropletStateValidator_Description(t *testing.T) {
	v := DropletState()
	ctx := context.Background()

	if v.Description(ctx) == "" {
		t.Error("Description() returned empty string")
	}
	if v.MarkdownDescription(ctx) == "" {
		t.Error("MarkdownDescription() returned empty string")
	}
}
