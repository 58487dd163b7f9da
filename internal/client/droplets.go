// Package client provides DigitalOcean API client wrappers
package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/swellware/terraform-provider-docean/internal/models"
)

// Droplet action types accepted by POST /v2/droplets/{id}/actions.
const (
	ActionPowerOn  = "power_on"
	ActionPowerOff = "power_off"
	ActionResize   = "resize"
)

// GetDroplet fetches a droplet by ID.
func (c *Client) GetDroplet(ctx context.Context, id int64) (*models.Droplet, error) {
	var envelope struct {
		Droplet *models.Droplet `json:"droplet"`
	}
	if _, err := c.get(ctx, fmt.Sprintf("/droplets/%d", id), &envelope); err != nil {
		return nil, err
	}
	if envelope.Droplet == nil {
		return nil, NewInternalError("get droplet", "response carried no droplet document")
	}
	return envelope.Droplet, nil
}

// ListDroplets fetches one page of droplets. The returned bool reports
// whether another page exists.
func (c *Client) ListDroplets(ctx context.Context, page int) ([]models.Droplet, bool, error) {
	var envelope struct {
		Droplets []models.Droplet `json:"droplets"`
		Links    pageLinks        `json:"links"`
	}
	if _, err := c.get(ctx, fmt.Sprintf("/droplets?page=%d", page), &envelope); err != nil {
		return nil, false, err
	}
	return envelope.Droplets, envelope.Links.hasNext(), nil
}

// CreateDroplet creates a droplet from a request body built by
// models.DropletSpec.CreateRequest.
func (c *Client) CreateDroplet(ctx context.Context, body map[string]interface{}) (*models.Droplet, error) {
	var envelope struct {
		Droplet *models.Droplet `json:"droplet"`
	}
	if _, err := c.do(ctx, http.MethodPost, "/droplets", body, &envelope); err != nil {
		return nil, err
	}
	if envelope.Droplet == nil {
		return nil, NewInternalError("create droplet", "response carried no droplet document")
	}
	return envelope.Droplet, nil
}

// DeleteDroplet deletes a droplet by ID. The API answers 204 on success.
func (c *Client) DeleteDroplet(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/droplets/%d", id), nil, nil)
	return err
}

// DropletAction issues an asynchronous action (power_on, power_off, resize)
// against a droplet and returns the action record tracking it.
func (c *Client) DropletAction(ctx context.Context, id int64, body map[string]interface{}) (*models.Action, error) {
	var envelope struct {
		Action *models.Action `json:"action"`
	}
	if _, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/droplets/%d/actions", id), body, &envelope); err != nil {
		return nil, err
	}
	if envelope.Action == nil {
		return nil, NewInternalError("droplet action", "response carried no action document")
	}
	return envelope.Action, nil
}

// GetDropletAction fetches the current status of a previously issued action.
func (c *Client) GetDropletAction(ctx context.Context, dropletID, actionID int64) (*models.Action, error) {
	var envelope struct {
		Action *models.Action `json:"action"`
	}
	if _, err := c.get(ctx, fmt.Sprintf("/droplets/%d/actions/%d", dropletID, actionID), &envelope); err != nil {
		return nil, err
	}
	if envelope.Action == nil {
		return nil, NewInternalError("get droplet action", "response carried no action document")
	}
	return envelope.Action, nil
}
