package reconcile

import (
	"context"

	"github.com/hashicorp/terraform-plugin-log/tflog"

	"github.com/swellware/terraform-provider-docean/internal/models"
)

// FindDroplet resolves a declared droplet to zero or one live droplet.
//
// An ID is authoritative: any failure fetching it, including 404, yields
// not-found rather than an error, because absence is a valid outcome for
// idempotent present/absent checks. Without an ID the droplet list is paged
// through for a name match, but only when byName is set: DigitalOcean allows
// duplicate droplet names, so name lookup is an explicit opt-in. The first
// match wins; duplicate names are not detected.
func FindDroplet(ctx context.Context, api DropletAPI, id int64, name string, byName bool) (*models.Droplet, bool, error) {
	if id != 0 {
		droplet, err := api.GetDroplet(ctx, id)
		if err != nil {
			tflog.Debug(ctx, "Droplet lookup by ID found nothing", map[string]interface{}{
				"id":    id,
				"error": err.Error(),
			})
			return nil, false, nil
		}
		return droplet, true, nil
	}

	if !byName || name == "" {
		return nil, false, nil
	}

	for page := 1; ; page++ {
		droplets, hasNext, err := api.ListDroplets(ctx, page)
		if err != nil {
			return nil, false, err
		}
		for i := range droplets {
			if droplets[i].Name == name {
				tflog.Debug(ctx, "Droplet located by name", map[string]interface{}{
					"name": name,
					"id":   droplets[i].ID,
					"page": page,
				})
				return &droplets[i], true, nil
			}
		}
		if !hasNext {
			return nil, false, nil
		}
	}
}

// FindLoadBalancer resolves a declared load balancer to zero or one live
// load balancer: by ID first, then always by name. Load balancer names are
// not gated by a uniqueness flag; the first match wins.
func FindLoadBalancer(ctx context.Context, api LoadBalancerAPI, id, name string) (*models.LoadBalancer, bool, error) {
	if id != "" {
		lb, err := api.GetLoadBalancer(ctx, id)
		if err != nil {
			tflog.Debug(ctx, "Load balancer lookup by ID found nothing", map[string]interface{}{
				"id":    id,
				"error": err.Error(),
			})
			return nil, false, nil
		}
		return lb, true, nil
	}

	if name == "" {
		return nil, false, nil
	}

	for page := 1; ; page++ {
		lbs, hasNext, err := api.ListLoadBalancers(ctx, page)
		if err != nil {
			return nil, false, err
		}
		for i := range lbs {
			if lbs[i].Name == name {
				tflog.Debug(ctx, "Load balancer located by name", map[string]interface{}{
					"name": name,
					"id":   lbs[i].ID,
					"page": page,
				})
				return &lbs[i], true, nil
			}
		}
		if !hasNext {
			return nil, false, nil
		}
	}
}
