package testutil

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kbukum/hubspotkit/component"
	"github.com/kbukum/hubspotkit/hubspot"
	ktestutil "github.com/kbukum/hubspotkit/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ObjectsPath is the prefix the sandbox serves the objects API under.
const ObjectsPath = "/crm/v3/objects"

// SandboxConfig configures a Sandbox.
type SandboxConfig struct {
	// APIKey is required as the hapikey query parameter or bearer token
	// when set.
	APIKey string
	// Contacts and Companies seed the store. Nil seeds the fixtures.
	Contacts  []hubspot.Object
	Companies []hubspot.Object
}

// Sandbox is a local stand-in for the HubSpot objects API, served by gin
// behind an httptest.Server.
type Sandbox struct {
	cfg SandboxConfig

	mu        sync.RWMutex
	ts        *httptest.Server
	contacts  []hubspot.Object
	companies []hubspot.Object
	nextID    int
	healthy   bool
	delay     time.Duration
	delayNext int
	requests  int
	probes    int
}

var _ component.Component = (*Sandbox)(nil)
var _ ktestutil.TestComponent = (*Sandbox)(nil)

// NewSandbox creates a sandbox seeded from cfg. Call Start to serve it.
func NewSandbox(cfg SandboxConfig) *Sandbox {
	s := &Sandbox{cfg: cfg}
	s.seed()
	return s
}

func (s *Sandbox) seed() {
	s.contacts = cloneObjects(s.cfg.Contacts, FixtureContacts)
	s.companies = cloneObjects(s.cfg.Companies, FixtureCompanies)
	s.nextID = 60901
	s.healthy = true
	s.delay = 0
	s.delayNext = 0
	s.requests = 0
	s.probes = 0
}

func cloneObjects(objs []hubspot.Object, fallback func() []hubspot.Object) []hubspot.Object {
	if objs == nil && fallback != nil {
		objs = fallback()
	}
	out := make([]hubspot.Object, len(objs))
	for i, o := range objs {
		out[i] = cloneObject(o)
	}
	return out
}

// URL returns the server root, or "" before Start.
func (s *Sandbox) URL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.ts == nil {
		return ""
	}
	return s.ts.URL
}

// BaseURL returns the objects API base URL for hubspot.Config.
func (s *Sandbox) BaseURL() string {
	if u := s.URL(); u != "" {
		return u + ObjectsPath
	}
	return ""
}

// ClientConfig returns a client configuration pointing at the sandbox.
func (s *Sandbox) ClientConfig() hubspot.Config {
	return hubspot.Config{
		Name:      "hubspot-sandbox-client",
		BaseURL:   s.BaseURL(),
		AuthToken: s.cfg.APIKey,
	}
}

// SetHealthy toggles the health endpoint between 200 and 503.
func (s *Sandbox) SetHealthy(healthy bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.healthy = healthy
}

// SetDelay delays the next n responses by d. n <= 0 delays every response.
func (s *Sandbox) SetDelay(d time.Duration, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
	s.delayNext = n
}

// Requests returns the number of requests served, health probes included.
func (s *Sandbox) Requests() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.requests
}

// HealthChecks returns the number of health probes served.
func (s *Sandbox) HealthChecks() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.probes
}

// Contact returns a stored contact by id.
func (s *Sandbox) Contact(id string) (hubspot.Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.contacts {
		if c.ID == id {
			return cloneObject(c), true
		}
	}
	return hubspot.Object{}, false
}

func (s *Sandbox) engine() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery(), s.count(), s.latency(), s.auth())

	objects := engine.Group(ObjectsPath)
	objects.GET("/contacts", s.listContacts)
	objects.POST("/contacts", s.createContact)
	objects.POST("/contacts/search", s.searchHandler(func() []hubspot.Object { return s.contacts }))
	objects.PATCH("/contacts/:id", s.updateContact)
	objects.POST("/companies/search", s.searchHandler(func() []hubspot.Object { return s.companies }))

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, NewErrorBody("OBJECT_NOT_FOUND", "resource not found"))
	})
	return engine
}

// count tracks requests and echoes the request id.
func (s *Sandbox) count() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		s.requests++
		s.mu.Unlock()

		id := c.GetHeader(hubspot.HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(hubspot.HeaderRequestID, id)
		c.Next()
	}
}

// latency holds the response for the configured delay.
func (s *Sandbox) latency() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		d := s.delay
		if d > 0 && s.delayNext > 0 {
			s.delayNext--
			if s.delayNext == 0 {
				s.delay = 0
			}
		}
		s.mu.Unlock()

		if d > 0 {
			timer := time.NewTimer(d)
			select {
			case <-c.Request.Context().Done():
				timer.Stop()
				c.Abort()
				return
			case <-timer.C:
			}
		}
		c.Next()
	}
}

// auth checks the API key when one is configured.
func (s *Sandbox) auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.cfg.APIKey == "" {
			c.Next()
			return
		}
		key := c.Query(hubspot.DefaultAuthParam)
		if key == "" {
			key = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		}
		if key != s.cfg.APIKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, NewErrorBody("INVALID_AUTHENTICATION",
				"The API key provided is invalid."))
			return
		}
		c.Next()
	}
}

// listContacts doubles as the health endpoint.
func (s *Sandbox) listContacts(c *gin.Context) {
	s.mu.Lock()
	s.probes++
	healthy := s.healthy
	limit := len(s.contacts)
	if n, err := strconv.Atoi(c.Query("limit")); err == nil && n >= 0 && n < limit {
		limit = n
	}
	page := make([]hubspot.Object, limit)
	copy(page, s.contacts[:limit])
	s.mu.Unlock()

	if !healthy {
		c.String(http.StatusServiceUnavailable, "service unavailable")
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": page})
}

func (s *Sandbox) searchHandler(objects func() []hubspot.Object) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req hubspot.SearchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, NewErrorBody("VALIDATION_ERROR", err.Error()))
			return
		}
		s.mu.RLock()
		result := search(objects(), req)
		s.mu.RUnlock()
		c.JSON(http.StatusOK, result)
	}
}

type writeBody struct {
	Properties map[string]any `json:"properties"`
}

func (s *Sandbox) createContact(c *gin.Context) {
	var body writeBody
	if err := c.ShouldBindJSON(&body); err != nil || body.Properties == nil {
		c.JSON(http.StatusBadRequest, NewErrorBody("VALIDATION_ERROR", "properties are required"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	email, _ := body.Properties[hubspot.PropEmail].(string)
	for _, existing := range s.contacts {
		if email != "" && existing.Properties[hubspot.PropEmail] == email {
			c.JSON(http.StatusConflict, NewErrorBody("CONFLICT",
				"Contact already exists. Existing ID: "+existing.ID))
			return
		}
	}

	now := time.Now().UTC()
	id := strconv.Itoa(s.nextID)
	s.nextID++
	obj := hubspot.Object{ID: id, Properties: body.Properties, CreatedAt: now, UpdatedAt: now}
	obj.Properties["hs_object_id"] = id
	s.contacts = append(s.contacts, obj)
	c.JSON(http.StatusCreated, obj)
}

func (s *Sandbox) updateContact(c *gin.Context) {
	var body writeBody
	if err := c.ShouldBindJSON(&body); err != nil || body.Properties == nil {
		c.JSON(http.StatusBadRequest, NewErrorBody("VALIDATION_ERROR", "properties are required"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := c.Param("id")
	for i := range s.contacts {
		if s.contacts[i].ID != id {
			continue
		}
		for k, v := range body.Properties {
			s.contacts[i].Properties[k] = v
		}
		s.contacts[i].UpdatedAt = time.Now().UTC()
		c.JSON(http.StatusOK, s.contacts[i])
		return
	}
	c.JSON(http.StatusNotFound, NewErrorBody("OBJECT_NOT_FOUND", "resource not found"))
}

// --- component.Component ---

func (s *Sandbox) Name() string { return "hubspot-sandbox" }

func (s *Sandbox) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ts != nil {
		return fmt.Errorf("sandbox already started")
	}
	s.ts = httptest.NewServer(s.engine())
	return nil
}

func (s *Sandbox) Stop(_ context.Context) error {
	s.mu.Lock()
	ts := s.ts
	s.ts = nil
	s.mu.Unlock()
	if ts != nil {
		ts.Close()
	}
	return nil
}

func (s *Sandbox) Health(_ context.Context) component.Health {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch {
	case s.ts == nil:
		return component.Health{Name: s.Name(), Status: component.StatusUnhealthy, Message: "not started"}
	case !s.healthy:
		return component.Health{Name: s.Name(), Status: component.StatusDegraded, Message: "health endpoint failing"}
	}
	return component.Health{Name: s.Name(), Status: component.StatusHealthy}
}

// --- testutil.TestComponent ---

// Reset reseeds the store and clears health, latency and counters.
func (s *Sandbox) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seed()
	return nil
}

type sandboxState struct {
	contacts []hubspot.Object
	nextID   int
}

// Snapshot captures the contact store.
func (s *Sandbox) Snapshot(_ context.Context) (interface{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sandboxState{contacts: cloneObjects(s.contacts, nil), nextID: s.nextID}, nil
}

// Restore returns the contact store to a snapshot.
func (s *Sandbox) Restore(_ context.Context, snapshot interface{}) error {
	st, ok := snapshot.(sandboxState)
	if !ok {
		return fmt.Errorf("unexpected snapshot type %T", snapshot)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contacts = cloneObjects(st.contacts, nil)
	s.nextID = st.nextID
	return nil
}
