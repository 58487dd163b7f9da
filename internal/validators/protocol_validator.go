package validators

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-log/tflog"
	"golang.org/x/exp/slices"
)

// Forwarding rules accept one protocol set, health checks a narrower one:
// http2 terminates at the balancer and is never probed directly.
var (
	forwardingProtocols  = []string{"http", "https", "http2", "tcp"}
	healthCheckProtocols = []string{"http", "https", "tcp"}
)

var _ validator.String = protocolValidator{}

// protocolValidator validates that a string is one of a fixed set of load
// balancer protocols.
type protocolValidator struct {
	valid   []string
	summary string
}

// Description returns a plain text description of the validator's behavior
func (v protocolValidator) Description(ctx context.Context) string {
	return fmt.Sprintf("value must be one of: %s", strings.Join(v.valid, ", "))
}

// MarkdownDescription returns a markdown formatted description of the validator's behavior
func (v protocolValidator) MarkdownDescription(ctx context.Context) string {
	return fmt.Sprintf("value must be one of: `%s`", strings.Join(v.valid, "`, `"))
}

// ValidateString performs the validation.
func (v protocolValidator) ValidateString(ctx context.Context, req validator.StringRequest, resp *validator.StringResponse) {
	// If the value is unknown or null, there's nothing to validate
	if req.ConfigValue.IsUnknown() || req.ConfigValue.IsNull() {
		return
	}

	value := req.ConfigValue.ValueString()

	tflog.Trace(ctx, "Validating load balancer protocol", map[string]interface{}{
		"value": value,
		"valid": v.valid,
	})

	if !slices.Contains(v.valid, value) {
		resp.Diagnostics.AddAttributeError(
			req.Path,
			v.summary,
			fmt.Sprintf("Value %q is not valid. Must be one of: %s.", value, strings.Join(v.valid, ", ")),
		)
	}
}

// ForwardingProtocol returns a validator for forwarding rule entry and
// target protocols
func ForwardingProtocol() validator.String {
	return protocolValidator{valid: forwardingProtocols, summary: "Invalid Forwarding Protocol"}
}

// HealthCheckProtocol returns a validator for health check protocols
func HealthCheckProtocol() validator.String {
	return protocolValidator{valid: healthCheckProtocols, summary: "Invalid Health Check Protocol"}
}
