package reconcile

import (
	"context"
	"fmt"

	"github.com/hashicorp/terraform-plugin-log/tflog"

	"github.com/swellware/terraform-provider-docean/internal/client"
	"github.com/swellware/terraform-provider-docean/internal/models"
)

// LoadBalancerReconciler converges one declared load balancer. Load
// balancers have no power states and no polling phase: creation and update
// are treated as complete once the API accepts them.
type LoadBalancerReconciler struct {
	API       LoadBalancerAPI
	CheckMode bool
}

// NewLoadBalancerReconciler wires a reconciler over one API client.
func NewLoadBalancerReconciler(api LoadBalancerAPI) *LoadBalancerReconciler {
	return &LoadBalancerReconciler{API: api}
}

// Reconcile creates the load balancer if absent, otherwise replaces its
// configuration wholesale with a full update. A size-class mismatch is a
// hard error: sizes cannot be changed after creation.
func (r *LoadBalancerReconciler) Reconcile(ctx context.Context, spec *models.LoadBalancerSpec) (LoadBalancerOutcome, error) {
	if err := spec.Validate(); err != nil {
		return LoadBalancerOutcome{}, client.NewPreconditionError("reconcile load balancer", err.Error())
	}

	lb, found, err := FindLoadBalancer(ctx, r.API, spec.ID, spec.Name)
	if err != nil {
		return LoadBalancerOutcome{}, err
	}

	if !found {
		return r.create(ctx, spec)
	}

	if lb.Size != "" && spec.Size != "" && lb.Size != spec.Size {
		return LoadBalancerOutcome{}, client.NewPreconditionError("update load balancer",
			fmt.Sprintf("load balancer sizes cannot be changed after initial creation; "+
				"create a new load balancer or delete %s (%s) before proceeding", lb.Name, lb.ID))
	}

	if r.CheckMode {
		return LoadBalancerOutcome{Changed: true, LoadBalancer: lb}, nil
	}

	body, err := spec.Request()
	if err != nil {
		return LoadBalancerOutcome{}, err
	}

	updated, err := r.API.UpdateLoadBalancer(ctx, lb.ID, body)
	if err != nil {
		return LoadBalancerOutcome{}, err
	}

	tflog.Info(ctx, "Load balancer updated", map[string]interface{}{"id": updated.ID})
	return LoadBalancerOutcome{Changed: true, LoadBalancer: updated}, nil
}

func (r *LoadBalancerReconciler) create(ctx context.Context, spec *models.LoadBalancerSpec) (LoadBalancerOutcome, error) {
	if r.CheckMode {
		return LoadBalancerOutcome{Changed: true}, nil
	}

	body, err := spec.Request()
	if err != nil {
		return LoadBalancerOutcome{}, err
	}

	tflog.Info(ctx, "Creating load balancer", map[string]interface{}{
		"name":   spec.Name,
		"size":   spec.Size,
		"region": spec.Region,
	})

	lb, err := r.API.CreateLoadBalancer(ctx, body)
	if err != nil {
		return LoadBalancerOutcome{}, err
	}
	if lb.ID == "" {
		return LoadBalancerOutcome{Changed: true}, client.NewInternalError("create load balancer",
			"created load balancer carried no id")
	}

	return LoadBalancerOutcome{Changed: true, LoadBalancer: lb}, nil
}

// Delete removes the load balancer if it exists, addressing it by its own
// identifier. Deleting a load balancer that does not exist is a no-op
// success.
func (r *LoadBalancerReconciler) Delete(ctx context.Context, spec *models.LoadBalancerSpec) (LoadBalancerOutcome, error) {
	lb, found, err := FindLoadBalancer(ctx, r.API, spec.ID, spec.Name)
	if err != nil {
		return LoadBalancerOutcome{}, err
	}
	if !found {
		return LoadBalancerOutcome{Changed: false, Message: "load balancer not found"}, nil
	}

	if r.CheckMode {
		return LoadBalancerOutcome{Changed: true}, nil
	}

	if err := r.API.DeleteLoadBalancer(ctx, lb.ID); err != nil {
		return LoadBalancerOutcome{}, fmt.Errorf("failed to delete load balancer %s: %w", lb.ID, err)
	}

	tflog.Info(ctx, "Load balancer deleted", map[string]interface{}{"id": lb.ID})
	return LoadBalancerOutcome{Changed: true, Message: "load balancer deleted"}, nil
}
