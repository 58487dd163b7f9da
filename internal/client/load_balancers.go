// Package client provides DigitalOcean API client wrappers
package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/swellware/terraform-provider-docean/internal/models"
)

// GetLoadBalancer fetches a load balancer by its opaque ID.
func (c *Client) GetLoadBalancer(ctx context.Context, id string) (*models.LoadBalancer, error) {
	var envelope struct {
		LoadBalancer *models.LoadBalancer `json:"load_balancer"`
	}
	if _, err := c.get(ctx, fmt.Sprintf("/load_balancers/%s", id), &envelope); err != nil {
		return nil, err
	}
	if envelope.LoadBalancer == nil {
		return nil, NewInternalError("get load balancer", "response carried no load_balancer document")
	}
	return envelope.LoadBalancer, nil
}

// ListLoadBalancers fetches one page of load balancers. The returned bool
// reports whether another page exists.
func (c *Client) ListLoadBalancers(ctx context.Context, page int) ([]models.LoadBalancer, bool, error) {
	var envelope struct {
		LoadBalancers []models.LoadBalancer `json:"load_balancers"`
		Links         pageLinks             `json:"links"`
	}
	if _, err := c.get(ctx, fmt.Sprintf("/load_balancers?page=%d", page), &envelope); err != nil {
		return nil, false, err
	}
	return envelope.LoadBalancers, envelope.Links.hasNext(), nil
}

// CreateLoadBalancer creates a load balancer. The API accepts the request
// asynchronously with 202; any other status is a rejection.
func (c *Client) CreateLoadBalancer(ctx context.Context, body map[string]interface{}) (*models.LoadBalancer, error) {
	var envelope struct {
		LoadBalancer *models.LoadBalancer `json:"load_balancer"`
	}
	status, err := c.do(ctx, http.MethodPost, "/load_balancers", body, &envelope)
	if err != nil {
		return nil, err
	}
	if status != http.StatusAccepted {
		return nil, &APIError{StatusCode: status, Message: "load balancer creation was not accepted"}
	}
	if envelope.LoadBalancer == nil {
		return nil, NewInternalError("create load balancer", "response carried no load_balancer document")
	}
	return envelope.LoadBalancer, nil
}

// UpdateLoadBalancer replaces a load balancer's configuration wholesale.
// Only a 200 answer counts as applied.
func (c *Client) UpdateLoadBalancer(ctx context.Context, id string, body map[string]interface{}) (*models.LoadBalancer, error) {
	var envelope struct {
		LoadBalancer *models.LoadBalancer `json:"load_balancer"`
	}
	status, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/load_balancers/%s", id), body, &envelope)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &APIError{StatusCode: status, Message: "load balancer update was not applied"}
	}
	if envelope.LoadBalancer == nil {
		return nil, NewInternalError("update load balancer", "response carried no load_balancer document")
	}
	return envelope.LoadBalancer, nil
}

// DeleteLoadBalancer deletes a load balancer by its own ID.
func (c *Client) DeleteLoadBalancer(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/load_balancers/%s", id), nil, nil)
	return err
}
