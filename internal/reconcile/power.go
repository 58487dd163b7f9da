package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/terraform-plugin-log/tflog"

	"github.com/swellware/terraform-provider-docean/internal/client"
	"github.com/swellware/terraform-provider-docean/internal/models"
)

// PowerController issues power actions against a droplet and polls until the
// droplet, or the action itself, reaches a terminal status or a deadline
// elapses.
//
// The two directions poll different objects: power-on watches the droplet's
// status, while power-off watches the power-off action's own status before
// re-fetching the droplet. Polling the action avoids a race where the
// droplet transiently reports a stale status between request acceptance and
// effect; the asymmetry is preserved as observed in the API's behavior.
type PowerController struct {
	API DropletAPI

	// Interval caps the sleep between polls. Zero means the 10s default.
	Interval time.Duration
}

// PowerOn issues a single power_on action and polls the droplet until its
// status is active. Exceeding timeout is fatal, not retried.
func (p *PowerController) PowerOn(ctx context.Context, id int64, timeout time.Duration) (*models.Droplet, error) {
	tflog.Debug(ctx, "Powering droplet on", map[string]interface{}{"id": id})

	if _, err := p.API.DropletAction(ctx, id, map[string]interface{}{"type": client.ActionPowerOn}); err != nil {
		return nil, fmt.Errorf("failed to issue power on for droplet %d: %w", id, err)
	}

	var droplet *models.Droplet
	deadline := time.Now().Add(timeout)
	err := pollUntil(ctx, deadline, p.Interval, func(ctx context.Context) (bool, error) {
		d, err := p.API.GetDroplet(ctx, id)
		if err != nil {
			return false, err
		}
		if d.Status == "" {
			return false, client.NewInternalError("power on", fmt.Sprintf("droplet %d reported no status", id))
		}
		if d.Status == models.DropletStatusActive {
			droplet = d
			return true, nil
		}
		return false, nil
	})
	if errors.Is(err, errPollDeadline) {
		return nil, client.NewTimeoutError("power on", fmt.Sprintf("timed out waiting for droplet %d to power on", id))
	}
	if err != nil {
		return nil, err
	}
	return droplet, nil
}

// PowerOff drives a droplet to status off in three phases: wait until the
// droplet is active (the API only accepts power_off from an active droplet),
// issue the power_off action, then poll that action until it completes and
// return a fresh droplet snapshot. Each phase gets its own full timeout and
// its own distinct timeout message.
func (p *PowerController) PowerOff(ctx context.Context, id int64, timeout time.Duration) (*models.Droplet, error) {
	tflog.Debug(ctx, "Powering droplet off", map[string]interface{}{"id": id})

	deadline := time.Now().Add(timeout)
	err := pollUntil(ctx, deadline, p.Interval, func(ctx context.Context) (bool, error) {
		d, err := p.API.GetDroplet(ctx, id)
		if err != nil {
			return false, err
		}
		if d.Status == "" {
			return false, client.NewInternalError("power off", fmt.Sprintf("droplet %d reported no status", id))
		}
		return d.Status == models.DropletStatusActive, nil
	})
	if errors.Is(err, errPollDeadline) {
		return nil, client.NewTimeoutError("power off",
			fmt.Sprintf("timed out waiting for droplet %d to become active before powering off", id))
	}
	if err != nil {
		return nil, err
	}

	action, err := p.API.DropletAction(ctx, id, map[string]interface{}{"type": client.ActionPowerOff})
	if err != nil {
		return nil, fmt.Errorf("failed to issue power off for droplet %d: %w", id, err)
	}
	if action.ID == 0 {
		return nil, client.NewInternalError("power off", fmt.Sprintf("power off action for droplet %d carried no id", id))
	}

	deadline = time.Now().Add(timeout)
	err = pollUntil(ctx, deadline, p.Interval, func(ctx context.Context) (bool, error) {
		a, err := p.API.GetDropletAction(ctx, id, action.ID)
		if err != nil {
			return false, err
		}
		if a.Status == "" {
			return false, client.NewInternalError("power off", fmt.Sprintf("action %d reported no status", action.ID))
		}
		return a.Status == models.ActionCompleted, nil
	})
	if errors.Is(err, errPollDeadline) {
		return nil, client.NewTimeoutError("power off", fmt.Sprintf("timed out waiting for droplet %d to power off", id))
	}
	if err != nil {
		return nil, err
	}

	return p.API.GetDroplet(ctx, id)
}
