// Package provider implements the DigitalOcean Terraform provider
package provider

// TestEnvVars documents the environment variables required for acceptance tests
// These variables must be set when running acceptance tests (TF_ACC=1)
const (
	// TF_ACC must be set to "1" to enable acceptance tests
	EnvTFAcc = "TF_ACC"

	// DIGITALOCEAN_TOKEN is the API token used against a real account.
	// Acceptance tests create and destroy billable resources.
	EnvToken = "DIGITALOCEAN_TOKEN"

	// DIGITALOCEAN_API_URL optionally points the tests at a mock API
	EnvAPIURL = "DIGITALOCEAN_API_URL"
)

// TestAccPreCheckVars lists the required environment variables for acceptance tests
var TestAccPreCheckVars = []string{
	EnvToken,
}
