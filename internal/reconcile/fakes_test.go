package reconcile

import (
	"context"
	"net/http"

	"github.com/swellware/terraform-provider-docean/internal/client"
	"github.com/swellware/terraform-provider-docean/internal/models"
)

// fakeDropletAPI is an in-memory DropletAPI recording every mutating call.
type fakeDropletAPI struct {
	droplets map[int64]*models.Droplet
	pages    [][]models.Droplet
	listErr  error

	listCalls   int
	createCalls int
	actionCalls []map[string]interface{}
	deleteCalls []int64

	createResult *models.Droplet
	createErr    error
	actionResult *models.Action
	actionErr    error
	actionStatus string

	// onCreate and onAction let tests advance the fake's state the way the
	// real API would, e.g. flipping a droplet's status once an action lands.
	onCreate func(d *models.Droplet)
	onAction func(id int64, body map[string]interface{})
}

func newFakeDropletAPI() *fakeDropletAPI {
	return &fakeDropletAPI{droplets: map[int64]*models.Droplet{}}
}

func (f *fakeDropletAPI) GetDroplet(_ context.Context, id int64) (*models.Droplet, error) {
	d, ok := f.droplets[id]
	if !ok {
		return nil, &client.APIError{StatusCode: http.StatusNotFound, Message: "The resource you were accessing could not be found."}
	}
	snapshot := *d
	return &snapshot, nil
}

func (f *fakeDropletAPI) ListDroplets(_ context.Context, page int) ([]models.Droplet, bool, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, false, f.listErr
	}
	if page > len(f.pages) {
		return nil, false, nil
	}
	return f.pages[page-1], page < len(f.pages), nil
}

func (f *fakeDropletAPI) CreateDroplet(_ context.Context, _ map[string]interface{}) (*models.Droplet, error) {
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	d := f.createResult
	if f.onCreate != nil {
		f.onCreate(d)
	}
	snapshot := *d
	return &snapshot, nil
}

func (f *fakeDropletAPI) DeleteDroplet(_ context.Context, id int64) error {
	f.deleteCalls = append(f.deleteCalls, id)
	delete(f.droplets, id)
	return nil
}

func (f *fakeDropletAPI) DropletAction(_ context.Context, id int64, body map[string]interface{}) (*models.Action, error) {
	f.actionCalls = append(f.actionCalls, body)
	if f.actionErr != nil {
		return nil, f.actionErr
	}
	if f.onAction != nil {
		f.onAction(id, body)
	}
	if f.actionResult != nil {
		return f.actionResult, nil
	}
	return &models.Action{ID: 900, Status: models.ActionInProgress, Type: body["type"].(string)}, nil
}

func (f *fakeDropletAPI) GetDropletAction(_ context.Context, _, actionID int64) (*models.Action, error) {
	status := f.actionStatus
	if status == "" {
		status = models.ActionCompleted
	}
	return &models.Action{ID: actionID, Status: status}, nil
}

func (f *fakeDropletAPI) actionTypes() []string {
	types := make([]string, 0, len(f.actionCalls))
	for _, body := range f.actionCalls {
		types = append(types, body["type"].(string))
	}
	return types
}

// fakeLoadBalancerAPI is the load balancer counterpart.
type fakeLoadBalancerAPI struct {
	lbs     map[string]*models.LoadBalancer
	pages   [][]models.LoadBalancer
	listErr error

	listCalls   int
	createCalls []map[string]interface{}
	updateCalls []map[string]interface{}
	deleteCalls []string

	createResult *models.LoadBalancer
	createErr    error
	updateErr    error
}

func newFakeLoadBalancerAPI() *fakeLoadBalancerAPI {
	return &fakeLoadBalancerAPI{lbs: map[string]*models.LoadBalancer{}}
}

func (f *fakeLoadBalancerAPI) GetLoadBalancer(_ context.Context, id string) (*models.LoadBalancer, error) {
	lb, ok := f.lbs[id]
	if !ok {
		return nil, &client.APIError{StatusCode: http.StatusNotFound, Message: "The resource you were accessing could not be found."}
	}
	snapshot := *lb
	return &snapshot, nil
}

func (f *fakeLoadBalancerAPI) ListLoadBalancers(_ context.Context, page int) ([]models.LoadBalancer, bool, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, false, f.listErr
	}
	if page > len(f.pages) {
		return nil, false, nil
	}
	return f.pages[page-1], page < len(f.pages), nil
}

func (f *fakeLoadBalancerAPI) CreateLoadBalancer(_ context.Context, body map[string]interface{}) (*models.LoadBalancer, error) {
	f.createCalls = append(f.createCalls, body)
	if f.createErr != nil {
		return nil, f.createErr
	}
	snapshot := *f.createResult
	return &snapshot, nil
}

func (f *fakeLoadBalancerAPI) UpdateLoadBalancer(_ context.Context, id string, body map[string]interface{}) (*models.LoadBalancer, error) {
	f.updateCalls = append(f.updateCalls, body)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	lb, ok := f.lbs[id]
	if !ok {
		return nil, &client.APIError{StatusCode: http.StatusNotFound}
	}
	snapshot := *lb
	return &snapshot, nil
}

func (f *fakeLoadBalancerAPI) DeleteLoadBalancer(_ context.Context, id string) error {
	f.deleteCalls = append(f.deleteCalls, id)
	delete(f.lbs, id)
	return nil
}
