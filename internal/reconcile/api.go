// Package reconcile drives declared droplet and load balancer state to the
// live DigitalOcean API: locate an existing resource, decide the minimal set
// of actions (create, resize, power toggle, update, delete) that converge it,
// and poll asynchronous actions to completion within a deadline.
//
// Every reconciler invocation handles exactly one declared resource,
// synchronously. There are no retries at this layer; a failed invocation is
// terminal and recovery relies on idempotent re-invocation.
package reconcile

import (
	"context"

	"github.com/swellware/terraform-provider-docean/internal/models"
)

// DropletAPI is the subset of the DigitalOcean client the droplet reconciler
// needs. *client.Client satisfies it.
type DropletAPI interface {
	GetDroplet(ctx context.Context, id int64) (*models.Droplet, error)
	ListDroplets(ctx context.Context, page int) ([]models.Droplet, bool, error)
	CreateDroplet(ctx context.Context, body map[string]interface{}) (*models.Droplet, error)
	DeleteDroplet(ctx context.Context, id int64) error
	DropletAction(ctx context.Context, id int64, body map[string]interface{}) (*models.Action, error)
	GetDropletAction(ctx context.Context, dropletID, actionID int64) (*models.Action, error)
}

// LoadBalancerAPI is the subset of the client the load balancer reconciler
// needs. *client.Client satisfies it.
type LoadBalancerAPI interface {
	GetLoadBalancer(ctx context.Context, id string) (*models.LoadBalancer, error)
	ListLoadBalancers(ctx context.Context, page int) ([]models.LoadBalancer, bool, error)
	CreateLoadBalancer(ctx context.Context, body map[string]interface{}) (*models.LoadBalancer, error)
	UpdateLoadBalancer(ctx context.Context, id string, body map[string]interface{}) (*models.LoadBalancer, error)
	DeleteLoadBalancer(ctx context.Context, id string) error
}

// DropletOutcome is the result of one droplet reconciliation. Changed stays
// accurate on fatal paths: a mutation committed before a later step failed
// still reports true.
type DropletOutcome struct {
	Changed bool
	Droplet *models.Droplet
	Message string
}

// LoadBalancerOutcome is the result of one load balancer reconciliation.
type LoadBalancerOutcome struct {
	Changed      bool
	LoadBalancer *models.LoadBalancer
	Message      string
}
