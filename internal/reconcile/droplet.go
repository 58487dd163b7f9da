package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/terraform-plugin-log/tflog"

	"github.com/swellware/terraform-provider-docean/internal/client"
	"github.com/swellware/terraform-provider-docean/internal/models"
)

// DropletReconciler converges one declared droplet to its target lifecycle
// state. CheckMode short-circuits immediately before any mutating call,
// reporting the same changed value a real run would produce.
type DropletReconciler struct {
	API       DropletAPI
	Power     *PowerController
	CheckMode bool
}

// NewDropletReconciler wires a reconciler and its power controller over one
// API client.
func NewDropletReconciler(api DropletAPI) *DropletReconciler {
	return &DropletReconciler{
		API:   api,
		Power: &PowerController{API: api},
	}
}

func (r *DropletReconciler) waitTimeout(spec *models.DropletSpec) time.Duration {
	if spec.WaitTimeoutSeconds <= 0 {
		return 120 * time.Second
	}
	return time.Duration(spec.WaitTimeoutSeconds) * time.Second
}

// Reconcile ensures the droplet exists and matches the declared size and
// power state. Valid spec states here are present, active and inactive;
// deletion goes through Delete.
func (r *DropletReconciler) Reconcile(ctx context.Context, spec *models.DropletSpec) (DropletOutcome, error) {
	droplet, found, err := FindDroplet(ctx, r.API, spec.ID, spec.Name, spec.UniqueName)
	if err != nil {
		return DropletOutcome{}, err
	}

	if found {
		return r.converge(ctx, spec, droplet)
	}
	return r.create(ctx, spec)
}

// converge handles an existing droplet: resize first, then assert power.
func (r *DropletReconciler) converge(ctx context.Context, spec *models.DropletSpec, droplet *models.Droplet) (DropletOutcome, error) {
	if spec.Size != "" && droplet.SizeSlug != "" && droplet.SizeSlug != spec.Size {
		return r.resize(ctx, spec, droplet)
	}

	if droplet.Status == "" {
		return DropletOutcome{}, client.NewInternalError("reconcile droplet",
			fmt.Sprintf("droplet %d reported no status", droplet.ID))
	}

	switch {
	case spec.State == models.StateActive && droplet.Status != models.DropletStatusActive:
		if r.CheckMode {
			return DropletOutcome{Changed: true, Droplet: droplet}, nil
		}
		powered, err := r.Power.PowerOn(ctx, droplet.ID, r.waitTimeout(spec))
		if err != nil {
			return DropletOutcome{}, err
		}
		return DropletOutcome{Changed: true, Droplet: powered}, nil

	case spec.State == models.StateInactive && droplet.Status != models.DropletStatusOff:
		if r.CheckMode {
			return DropletOutcome{Changed: true, Droplet: droplet}, nil
		}
		powered, err := r.Power.PowerOff(ctx, droplet.ID, r.waitTimeout(spec))
		if err != nil {
			return DropletOutcome{}, err
		}
		return DropletOutcome{Changed: true, Droplet: powered}, nil

	default:
		tflog.Debug(ctx, "Droplet already converged", map[string]interface{}{
			"id":     droplet.ID,
			"status": droplet.Status,
		})
		return DropletOutcome{Changed: false, Droplet: droplet}, nil
	}
}

// resize issues a resize action for a size mismatch. The API only resizes
// powered-off droplets, so any other status is a hard error rather than an
// auto-correction. The action's acceptance is not re-verified with a
// follow-up fetch.
func (r *DropletReconciler) resize(ctx context.Context, spec *models.DropletSpec, droplet *models.Droplet) (DropletOutcome, error) {
	if droplet.Status != models.DropletStatusOff {
		return DropletOutcome{}, client.NewPreconditionError("resize droplet",
			fmt.Sprintf("droplet %s (%d) must be powered off prior to resizing", droplet.Name, droplet.ID))
	}

	if r.CheckMode {
		return DropletOutcome{Changed: true, Droplet: droplet}, nil
	}

	_, err := r.API.DropletAction(ctx, droplet.ID, map[string]interface{}{
		"type": client.ActionResize,
		"disk": spec.ResizeDisk,
		"size": spec.Size,
	})
	if err != nil {
		return DropletOutcome{}, fmt.Errorf("resizing droplet %s (%d) failed: %w", droplet.Name, droplet.ID, err)
	}

	msg := fmt.Sprintf("resized droplet %s (%d) from %s to %s", droplet.Name, droplet.ID, droplet.SizeSlug, spec.Size)
	tflog.Info(ctx, "Droplet resize accepted", map[string]interface{}{
		"id":   droplet.ID,
		"from": droplet.SizeSlug,
		"to":   spec.Size,
	})
	return DropletOutcome{Changed: true, Droplet: droplet, Message: msg}, nil
}

// create provisions a new droplet and applies the post-creation power
// assertion. A power failure after a successful creation still reports
// Changed, since the creation is already committed.
func (r *DropletReconciler) create(ctx context.Context, spec *models.DropletSpec) (DropletOutcome, error) {
	if r.CheckMode {
		return DropletOutcome{Changed: true}, nil
	}

	body, err := spec.CreateRequest()
	if err != nil {
		return DropletOutcome{}, err
	}

	tflog.Info(ctx, "Creating droplet", map[string]interface{}{
		"name":   spec.Name,
		"size":   spec.Size,
		"region": spec.Region,
	})

	droplet, err := r.API.CreateDroplet(ctx, body)
	if err != nil {
		return DropletOutcome{}, err
	}
	if droplet.ID == 0 {
		return DropletOutcome{Changed: true}, client.NewInternalError("create droplet",
			"created droplet carried no id")
	}

	if spec.Wait {
		switch spec.State {
		case models.StateActive:
			powered, err := r.Power.PowerOn(ctx, droplet.ID, r.waitTimeout(spec))
			if err != nil {
				return DropletOutcome{Changed: true, Droplet: droplet}, err
			}
			droplet = powered
		case models.StateInactive:
			powered, err := r.Power.PowerOff(ctx, droplet.ID, r.waitTimeout(spec))
			if err != nil {
				return DropletOutcome{Changed: true, Droplet: droplet}, err
			}
			droplet = powered
		}
	} else if spec.State == models.StateInactive {
		// Best effort: fire the power off without waiting for confirmation.
		if _, err := r.API.DropletAction(ctx, droplet.ID, map[string]interface{}{"type": client.ActionPowerOff}); err != nil {
			tflog.Warn(ctx, "Unconfirmed power off failed", map[string]interface{}{
				"id":    droplet.ID,
				"error": err.Error(),
			})
		}
	}

	return DropletOutcome{Changed: true, Droplet: droplet}, nil
}

// Delete removes the droplet if it exists. Deleting a droplet that does not
// exist is a no-op success, never an error.
func (r *DropletReconciler) Delete(ctx context.Context, spec *models.DropletSpec) (DropletOutcome, error) {
	droplet, found, err := FindDroplet(ctx, r.API, spec.ID, spec.Name, spec.UniqueName)
	if err != nil {
		return DropletOutcome{}, err
	}
	if !found {
		return DropletOutcome{Changed: false, Message: "droplet not found"}, nil
	}

	if r.CheckMode {
		return DropletOutcome{Changed: true}, nil
	}

	if err := r.API.DeleteDroplet(ctx, droplet.ID); err != nil {
		return DropletOutcome{}, fmt.Errorf("failed to delete droplet %d: %w", droplet.ID, err)
	}

	tflog.Info(ctx, "Droplet deleted", map[string]interface{}{"id": droplet.ID})
	return DropletOutcome{Changed: true, Message: "droplet deleted"}, nil
}
