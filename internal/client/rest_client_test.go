package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := New("test-token", server.URL)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return c, server
}

func TestClientSendsBearerToken(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q, want Bearer test-token", got)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept = %q, want application/json", got)
		}
		fmt.Fprint(w, `{"droplet": {"id": 42, "name": "web-1", "status": "active"}}`)
	}))

	droplet, err := c.GetDroplet(context.Background(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if droplet.ID != 42 || droplet.Status != "active" {
		t.Errorf("unexpected droplet: %+v", droplet)
	}
}

func TestClientRequiresToken(t *testing.T) {
	if _, err := New("", ""); err == nil {
		t.Fatal("expected an error for empty token")
	}
}

func TestClientDecodesErrorEnvelope(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"id": "unprocessable_entity", "message": "invalid region slug"}`)
	}))

	_, err := c.CreateDroplet(context.Background(), map[string]interface{}{"name": "web-1"})
	if err == nil {
		t.Fatal("expected an error")
	}
	if KindOf(err) != KindProviderRejected {
		t.Errorf("KindOf() = %v, want provider rejected", KindOf(err))
	}
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Message != "invalid region slug" {
		t.Errorf("Message = %q, want the API's own message verbatim", apiErr.Message)
	}
}

func TestClientNotFound(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"id": "not_found", "message": "The resource you were accessing could not be found."}`)
	}))

	_, err := c.GetDroplet(context.Background(), 42)
	if !IsNotFound(err) {
		t.Fatalf("expected a not-found classification, got: %v", err)
	}
}

func TestListDropletsPagination(t *testing.T) {
	pages := map[string]string{
		"1": `{"droplets": [{"id": 1, "name": "a"}], "links": {"pages": {"next": "https://api.digitalocean.com/v2/droplets?page=2"}}}`,
		"2": `{"droplets": [{"id": 2, "name": "b"}], "links": {"pages": {}}}`,
	}
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, pages[r.URL.Query().Get("page")])
	}))

	droplets, hasNext, err := c.ListDroplets(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(droplets) != 1 || droplets[0].ID != 1 {
		t.Errorf("unexpected first page: %+v", droplets)
	}
	if !hasNext {
		t.Error("first page should report another page")
	}

	droplets, hasNext, err = c.ListDroplets(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(droplets) != 1 || droplets[0].ID != 2 {
		t.Errorf("unexpected second page: %+v", droplets)
	}
	if hasNext {
		t.Error("an absent links.pages.next must terminate the scan")
	}
}

func TestCreateLoadBalancerRequires202(t *testing.T) {
	body := `{"load_balancer": {"id": "lb-123", "name": "web-lb"}}`

	t.Run("accepted", func(t *testing.T) {
		c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusAccepted)
			fmt.Fprint(w, body)
		}))

		lb, err := c.CreateLoadBalancer(context.Background(), map[string]interface{}{"name": "web-lb"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if lb.ID != "lb-123" {
			t.Errorf("ID = %q, want lb-123", lb.ID)
		}
	})

	t.Run("plain 200 is a rejection", func(t *testing.T) {
		c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, body)
		}))

		_, err := c.CreateLoadBalancer(context.Background(), map[string]interface{}{"name": "web-lb"})
		if err == nil {
			t.Fatal("expected an error for a non-202 creation response")
		}
	})
}

func TestGetRetriesTransientServerError(t *testing.T) {
	attempts := 0
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `{"droplet": {"id": 42, "status": "active"}}`)
	}))

	droplet, err := c.GetDroplet(context.Background(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if droplet.ID != 42 {
		t.Errorf("unexpected droplet: %+v", droplet)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
}

func TestMutatingRequestsAreNotRetried(t *testing.T) {
	attempts := 0
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := c.DropletAction(context.Background(), 42, map[string]interface{}{"type": ActionPowerOff})
	if err == nil {
		t.Fatal("expected an error")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1; actions must not be reissued", attempts)
	}
}
