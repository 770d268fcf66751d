package hubspot_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	apperrors "github.com/kbukum/hubspotkit/errors"
	"github.com/kbukum/hubspotkit/hubspot"
	hstest "github.com/kbukum/hubspotkit/hubspot/testutil"
	"github.com/kbukum/hubspotkit/logger"
	"github.com/kbukum/hubspotkit/params"
	"github.com/kbukum/hubspotkit/resilience"
	"github.com/kbukum/hubspotkit/testutil"
)

const sandboxKey = "sandbox-key"

func sandboxClient(t *testing.T) (*hstest.Sandbox, *hubspot.Client) {
	t.Helper()
	sandbox := hstest.NewSandbox(hstest.SandboxConfig{APIKey: sandboxKey})
	h := testutil.T(t)
	h.Setup(sandbox)

	c, err := hubspot.New(sandbox.ClientConfig(), hubspot.WithLogger(logger.NewNop()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = c.Close(context.Background()) })
	return sandbox, c
}

func TestCRM_GetContactByEmail(t *testing.T) {
	_, c := sandboxClient(t)

	res, err := c.GetContactByEmail(context.Background(), hstest.FixtureContactEmail)
	if err != nil {
		t.Fatalf("GetContactByEmail: %v", err)
	}
	if res.Total != 1 || res.Results[0].ID != hstest.FixtureContactID {
		t.Fatalf("unexpected result %+v", res)
	}
	got := res.Results[0]
	if got.Property(hubspot.PropFirstName) != "Jane" || got.Property(hubspot.PropInstitution) == "" {
		t.Errorf("missing requested properties: %v", got.Properties)
	}
	if _, ok := got.Properties[hubspot.PropCommittee]; ok {
		t.Error("unrequested property returned")
	}

	res, err = c.GetContactByEmail(context.Background(), "nobody@example.org")
	if err != nil || res.Total != 0 {
		t.Errorf("expected empty result, got %+v, %v", res, err)
	}
}

func TestCRM_GetContactsByCommittee(t *testing.T) {
	_, c := sandboxClient(t)

	res, err := c.GetContactsByCommittee(context.Background(), hstest.FixtureCommittee)
	if err != nil {
		t.Fatalf("GetContactsByCommittee: %v", err)
	}
	if res.Total != 2 {
		t.Fatalf("Total = %d, want 2", res.Total)
	}
	for _, o := range res.Results {
		if o.Property(hubspot.PropEmail) == "" || o.Property(hubspot.PropCommittee) != hstest.FixtureCommittee {
			t.Errorf("unexpected properties %v", o.Properties)
		}
	}
}

func TestCRM_GetCommitteesInfo(t *testing.T) {
	_, c := sandboxClient(t)

	res, err := c.GetCommitteesInfo(context.Background(), hstest.FixtureCommittee)
	if err != nil {
		t.Fatalf("GetCommitteesInfo: %v", err)
	}
	if res.Total != 1 || res.Results[0].Property(hubspot.PropApprovalCommittees) == "" {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestCRM_CreateContact(t *testing.T) {
	sandbox, c := sandboxClient(t)
	ctx := context.Background()

	obj, err := c.CreateContact(ctx, hubspot.Properties{
		hubspot.PropEmail:     "new@example.org",
		hubspot.PropFirstName: "New",
	})
	if err != nil {
		t.Fatalf("CreateContact: %v", err)
	}
	if obj == nil || obj.ID == "" {
		t.Fatalf("expected created object, got %+v", obj)
	}
	if stored, ok := sandbox.Contact(obj.ID); !ok || stored.Property(hubspot.PropFirstName) != "New" {
		t.Errorf("contact not stored: %+v", stored)
	}

	obj, err = c.CreateContact(ctx, hubspot.Properties{hubspot.PropEmail: "new@example.org"})
	if err != nil || obj != nil {
		t.Errorf("existing contact should yield (nil, nil), got %+v, %v", obj, err)
	}
}

func TestCRM_UpdateContact(t *testing.T) {
	sandbox, c := sandboxClient(t)
	testutil.T(t).Isolate(sandbox)
	ctx := context.Background()

	obj, err := c.UpdateContact(ctx, hstest.FixtureContactID, hubspot.Properties{hubspot.PropLastName: "Smith"})
	if err != nil {
		t.Fatalf("UpdateContact: %v", err)
	}
	if obj.Property(hubspot.PropLastName) != "Smith" {
		t.Errorf("update not applied: %v", obj.Properties)
	}

	_, err = c.UpdateContact(ctx, "does-not-exist", hubspot.Properties{hubspot.PropLastName: "x"})
	if !hubspot.IsClientError(err) {
		t.Fatalf("expected ClientError, got %v", err)
	}
	appErr, _ := apperrors.AsAppError(err)
	if appErr.HTTPStatus != http.StatusNotFound {
		t.Errorf("HTTPStatus = %d, want 404", appErr.HTTPStatus)
	}
}

func TestCRM_WrongAPIKey(t *testing.T) {
	sandbox := hstest.NewSandbox(hstest.SandboxConfig{APIKey: sandboxKey})
	testutil.T(t).Setup(sandbox)

	cfg := sandbox.ClientConfig()
	cfg.AuthToken = "wrong"
	c, err := hubspot.New(cfg, hubspot.WithLogger(logger.NewNop()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = c.GetContactByEmail(context.Background(), hstest.FixtureContactEmail)
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.HTTPStatus != http.StatusUnauthorized {
		t.Errorf("expected 401 ClientError, got %v", err)
	}
}

func TestCRM_RecoversFromSlowResponse(t *testing.T) {
	sandbox, c := sandboxClient(t)

	ctx, guard := c.Context(context.Background(), params.Params{
		hubspot.OptTimeout: 100 * time.Millisecond,
		hubspot.OptRetry: hubspot.RetryPolicy{
			MaxTries: 3,
			MaxTime:  2 * time.Second,
			Backoff:  resilience.Constant(10 * time.Millisecond),
		},
	})
	defer guard.Release()

	sandbox.SetDelay(400*time.Millisecond, 1)
	res, err := c.GetContactByEmail(ctx, hstest.FixtureContactEmail)
	if err != nil {
		t.Fatalf("GetContactByEmail: %v", err)
	}
	if res.Total != 1 {
		t.Errorf("Total = %d, want 1", res.Total)
	}
	// timed-out search, one health probe, reissued search
	if got := sandbox.Requests(); got != 3 {
		t.Errorf("sandbox requests = %d, want 3", got)
	}
}

func TestCRM_UnhealthySandbox(t *testing.T) {
	sandbox, c := sandboxClient(t)
	sandbox.SetHealthy(false)
	sandbox.SetDelay(400*time.Millisecond, 1)

	cfg := c.Config()
	_, err := c.Post(context.Background(), cfg.ContactsURL()+"/search", hubspot.SearchRequest{},
		hubspot.WithTimeout(50*time.Millisecond),
		hubspot.WithRetryPolicy(hubspot.RetryPolicy{MaxTries: 2, MaxTime: time.Second, Backoff: resilience.Constant(time.Millisecond)}),
	)
	if !hubspot.IsServiceUnhealthy(err) {
		t.Fatalf("expected ServiceUnhealthy, got %v", err)
	}
	if got := sandbox.HealthChecks(); got != 2 {
		t.Errorf("health checks = %d, want 2", got)
	}
}
