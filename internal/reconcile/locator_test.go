package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/swellware/terraform-provider-docean/internal/models"
)

func TestFindDropletByID(t *testing.T) {
	api := newFakeDropletAPI()
	api.droplets[42] = &models.Droplet{ID: 42, Name: "web-1", Status: models.DropletStatusActive}

	droplet, found, err := FindDroplet(context.Background(), api, 42, "", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found {
		t.Fatal("expected droplet to be found")
	}
	if droplet.ID != 42 {
		t.Errorf("expected droplet 42, got %d", droplet.ID)
	}
	if api.listCalls != 0 {
		t.Errorf("ID lookup should not page the list, got %d list calls", api.listCalls)
	}
}

func TestFindDropletByIDAbsent(t *testing.T) {
	api := newFakeDropletAPI()

	droplet, found, err := FindDroplet(context.Background(), api, 42, "", false)
	if err != nil {
		t.Fatalf("absence must not be an error, got: %v", err)
	}
	if found || droplet != nil {
		t.Errorf("expected not found, got found=%v droplet=%+v", found, droplet)
	}
}

func TestFindDropletByName(t *testing.T) {
	tests := []struct {
		name      string
		pages     [][]models.Droplet
		lookup    string
		byName    bool
		wantFound bool
		wantID    int64
		wantCalls int
	}{
		{
			name: "match on later page stops the scan",
			pages: [][]models.Droplet{
				{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}},
				{{ID: 3, Name: "c"}},
				{{ID: 4, Name: "web-1"}, {ID: 5, Name: "web-1"}},
			},
			lookup:    "web-1",
			byName:    true,
			wantFound: true,
			wantID:    4,
			wantCalls: 3,
		},
		{
			name: "no match exhausts every page",
			pages: [][]models.Droplet{
				{{ID: 1, Name: "a"}},
				{{ID: 2, Name: "b"}},
			},
			lookup:    "web-1",
			byName:    true,
			wantFound: false,
			wantCalls: 2,
		},
		{
			name: "name lookup requires the uniqueness opt-in",
			pages: [][]models.Droplet{
				{{ID: 1, Name: "web-1"}},
			},
			lookup:    "web-1",
			byName:    false,
			wantFound: false,
			wantCalls: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeDropletAPI()
			api.pages = tt.pages

			droplet, found, err := FindDroplet(context.Background(), api, 0, tt.lookup, tt.byName)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if found != tt.wantFound {
				t.Errorf("found = %v, want %v", found, tt.wantFound)
			}
			if tt.wantFound && droplet.ID != tt.wantID {
				t.Errorf("droplet ID = %d, want %d", droplet.ID, tt.wantID)
			}
			if api.listCalls != tt.wantCalls {
				t.Errorf("list calls = %d, want %d", api.listCalls, tt.wantCalls)
			}
		})
	}
}

func TestFindDropletListError(t *testing.T) {
	api := newFakeDropletAPI()
	api.listErr = errors.New("boom")

	_, _, err := FindDroplet(context.Background(), api, 0, "web-1", true)
	if err == nil {
		t.Fatal("expected the list error to propagate")
	}
}

func TestFindLoadBalancerByName(t *testing.T) {
	api := newFakeLoadBalancerAPI()
	api.pages = [][]models.LoadBalancer{
		{{ID: "aaa", Name: "other"}},
		{{ID: "bbb", Name: "web-lb"}},
	}

	lb, found, err := FindLoadBalancer(context.Background(), api, "", "web-lb")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found {
		t.Fatal("expected load balancer to be found")
	}
	if lb.ID != "bbb" {
		t.Errorf("load balancer ID = %q, want %q", lb.ID, "bbb")
	}
	if api.listCalls != 2 {
		t.Errorf("list calls = %d, want 2", api.listCalls)
	}
}

func TestFindLoadBalancerAbsent(t *testing.T) {
	api := newFakeLoadBalancerAPI()

	_, found, err := FindLoadBalancer(context.Background(), api, "missing", "")
	if err != nil {
		t.Fatalf("absence must not be an error, got: %v", err)
	}
	if found {
		t.Error("expected not found for unknown ID")
	}
}
