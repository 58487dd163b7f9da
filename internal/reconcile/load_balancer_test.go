package reconcile

import (
	"context"
	"strings"
	"testing"

	"github.com/swellware/terraform-provider-docean/internal/client"
	"github.com/swellware/terraform-provider-docean/internal/models"
)

func testLoadBalancerSpec() *models.LoadBalancerSpec {
	return &models.LoadBalancerSpec{
		Name:   "web-lb",
		Size:   models.LBSizeSmall,
		Region: "nyc1",
		ForwardingRules: []models.ForwardingRule{{
			EntryProtocol:  "http",
			EntryPort:      80,
			TargetProtocol: "http",
			TargetPort:     8080,
		}},
	}
}

func TestLoadBalancerCreate(t *testing.T) {
	api := newFakeLoadBalancerAPI()
	api.createResult = &models.LoadBalancer{ID: "lb-123", Name: "web-lb", Size: models.LBSizeSmall}

	r := NewLoadBalancerReconciler(api)
	outcome, err := r.Reconcile(context.Background(), testLoadBalancerSpec())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !outcome.Changed {
		t.Error("creation must report a change")
	}
	if outcome.LoadBalancer.ID != "lb-123" {
		t.Errorf("load balancer ID = %q, want lb-123", outcome.LoadBalancer.ID)
	}
	if len(api.createCalls) != 1 {
		t.Fatalf("create calls = %d, want 1", len(api.createCalls))
	}
	body := api.createCalls[0]
	if body["name"] != "web-lb" || body["size"] != models.LBSizeSmall {
		t.Errorf("unexpected create body: %v", body)
	}
	if _, ok := body["id"]; ok {
		t.Error("reconciliation controls must not reach the request body")
	}
}

func TestLoadBalancerUpdate(t *testing.T) {
	api := newFakeLoadBalancerAPI()
	api.lbs["lb-123"] = &models.LoadBalancer{ID: "lb-123", Name: "web-lb", Size: models.LBSizeSmall}

	spec := testLoadBalancerSpec()
	spec.ID = "lb-123"
	spec.Algorithm = models.AlgorithmLeastConnections

	r := NewLoadBalancerReconciler(api)
	outcome, err := r.Reconcile(context.Background(), spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !outcome.Changed {
		t.Error("update must report a change")
	}
	if len(api.updateCalls) != 1 {
		t.Fatalf("update calls = %d, want 1", len(api.updateCalls))
	}
	if api.updateCalls[0]["algorithm"] != models.AlgorithmLeastConnections {
		t.Errorf("unexpected update body: %v", api.updateCalls[0])
	}
}

func TestLoadBalancerSizeImmutable(t *testing.T) {
	api := newFakeLoadBalancerAPI()
	api.lbs["lb-123"] = &models.LoadBalancer{ID: "lb-123", Name: "web-lb", Size: models.LBSizeSmall}

	spec := testLoadBalancerSpec()
	spec.ID = "lb-123"
	spec.Size = models.LBSizeLarge

	r := NewLoadBalancerReconciler(api)
	_, err := r.Reconcile(context.Background(), spec)
	if client.KindOf(err) != client.KindPreconditionViolated {
		t.Fatalf("expected a precondition error, got: %v", err)
	}
	if !strings.Contains(err.Error(), "load balancer sizes cannot be changed after initial creation") {
		t.Errorf("unexpected message: %v", err)
	}
	if len(api.updateCalls) != 0 {
		t.Error("no update may be issued for an immutable size change")
	}
}

func TestLoadBalancerSpecValidation(t *testing.T) {
	api := newFakeLoadBalancerAPI()

	spec := testLoadBalancerSpec()
	spec.ForwardingRules = nil

	r := NewLoadBalancerReconciler(api)
	_, err := r.Reconcile(context.Background(), spec)
	if client.KindOf(err) != client.KindPreconditionViolated {
		t.Fatalf("expected a precondition error, got: %v", err)
	}
	if len(api.createCalls) != 0 || api.listCalls != 0 {
		t.Error("an invalid spec must fail before any API traffic")
	}
}

func TestLoadBalancerCheckMode(t *testing.T) {
	t.Run("create", func(t *testing.T) {
		api := newFakeLoadBalancerAPI()
		r := NewLoadBalancerReconciler(api)
		r.CheckMode = true

		outcome, err := r.Reconcile(context.Background(), testLoadBalancerSpec())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !outcome.Changed {
			t.Error("check mode must predict the change")
		}
		if len(api.createCalls) != 0 {
			t.Error("check mode must not create")
		}
	})

	t.Run("update", func(t *testing.T) {
		api := newFakeLoadBalancerAPI()
		api.lbs["lb-123"] = &models.LoadBalancer{ID: "lb-123", Name: "web-lb", Size: models.LBSizeSmall}

		spec := testLoadBalancerSpec()
		spec.ID = "lb-123"

		r := NewLoadBalancerReconciler(api)
		r.CheckMode = true

		outcome, err := r.Reconcile(context.Background(), spec)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !outcome.Changed {
			t.Error("check mode must predict the change")
		}
		if len(api.updateCalls) != 0 {
			t.Error("check mode must not update")
		}
	})
}

func TestLoadBalancerDeleteByOwnID(t *testing.T) {
	api := newFakeLoadBalancerAPI()
	api.lbs["lb-123"] = &models.LoadBalancer{ID: "lb-123", Name: "web-lb"}
	api.pages = [][]models.LoadBalancer{{{ID: "lb-123", Name: "web-lb"}}}

	// Located by name; the deletion must still address the load balancer's
	// own identifier.
	spec := testLoadBalancerSpec()

	r := NewLoadBalancerReconciler(api)
	outcome, err := r.Delete(context.Background(), spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !outcome.Changed {
		t.Error("deletion must report a change")
	}
	if len(api.deleteCalls) != 1 || api.deleteCalls[0] != "lb-123" {
		t.Errorf("delete calls = %v, want [lb-123]", api.deleteCalls)
	}
}

func TestLoadBalancerDeleteAbsent(t *testing.T) {
	api := newFakeLoadBalancerAPI()

	r := NewLoadBalancerReconciler(api)
	outcome, err := r.Delete(context.Background(), testLoadBalancerSpec())
	if err != nil {
		t.Fatalf("deleting an absent load balancer must not error: %v", err)
	}
	if outcome.Changed {
		t.Error("deleting an absent load balancer must not report a change")
	}
}
