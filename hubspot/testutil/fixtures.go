package testutil

import (
	"time"

	"github.com/kbukum/hubspotkit/hubspot"
)

// Fixture identifiers.
const (
	FixtureContactID    = "9601"
	FixtureContactEmail = "jane.doe@example.org"
	FixtureCompanyID    = "6618904721"
	FixtureCommittee    = "INSTRuCT"
)

var fixtureTime = time.Date(2021, 7, 22, 18, 30, 31, 0, time.UTC)

// FixtureContacts returns the seeded contacts.
func FixtureContacts() []hubspot.Object {
	return []hubspot.Object{
		{
			ID: FixtureContactID,
			Properties: map[string]any{
				hubspot.PropEmail:       FixtureContactEmail,
				hubspot.PropFirstName:   "Jane",
				hubspot.PropLastName:    "Doe",
				hubspot.PropInstitution: "The University of Chicago",
				hubspot.PropCommittee:   FixtureCommittee,
				"hs_object_id":          FixtureContactID,
			},
			CreatedAt: fixtureTime,
			UpdatedAt: fixtureTime,
		},
		{
			ID: "9602",
			Properties: map[string]any{
				hubspot.PropEmail:     "john.roe@example.org",
				hubspot.PropFirstName: "John",
				hubspot.PropLastName:  "Roe",
				hubspot.PropCommittee: FixtureCommittee,
				"hs_object_id":        "9602",
			},
			CreatedAt: fixtureTime,
			UpdatedAt: fixtureTime,
		},
	}
}

// FixtureCompanies returns the seeded companies.
func FixtureCompanies() []hubspot.Object {
	return []hubspot.Object{
		{
			ID: FixtureCompanyID,
			Properties: map[string]any{
				hubspot.PropName:               FixtureCommittee,
				hubspot.PropApprovalCommittees: "INSTRuCT Executive Committee Member",
				"hs_object_id":                 FixtureCompanyID,
			},
			CreatedAt: fixtureTime,
			UpdatedAt: fixtureTime,
		},
	}
}

// ErrorBody is the body HubSpot returns for rejected requests.
type ErrorBody struct {
	Status        string `json:"status"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
	Category      string `json:"category,omitempty"`
}

// NewErrorBody returns an error body in HubSpot's format.
func NewErrorBody(category, message string) ErrorBody {
	return ErrorBody{Status: "error", Message: message, Category: category}
}

// cloneObject deep-copies the property map of o.
func cloneObject(o hubspot.Object) hubspot.Object {
	props := make(map[string]any, len(o.Properties))
	for k, v := range o.Properties {
		props[k] = v
	}
	o.Properties = props
	return o
}

// selectProperties returns a copy of o with only the named properties and
// hs_object_id. An empty list keeps all of them.
func selectProperties(o hubspot.Object, names []string) hubspot.Object {
	if len(names) == 0 {
		return cloneObject(o)
	}
	props := map[string]any{"hs_object_id": o.ID}
	for _, n := range names {
		if v, ok := o.Properties[n]; ok {
			props[n] = v
		}
	}
	o.Properties = props
	return o
}

// matches reports whether o satisfies any filter group of req.
func matches(o hubspot.Object, req hubspot.SearchRequest) bool {
	if len(req.FilterGroups) == 0 {
		return true
	}
	for _, g := range req.FilterGroups {
		ok := true
		for _, f := range g.Filters {
			v, _ := o.Properties[f.PropertyName].(string)
			if f.Operator != hubspot.OperatorEQ || v != f.Value {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

// search runs req over objs.
func search(objs []hubspot.Object, req hubspot.SearchRequest) hubspot.SearchResult {
	out := hubspot.SearchResult{Results: []hubspot.Object{}}
	for _, o := range objs {
		if matches(o, req) {
			out.Results = append(out.Results, selectProperties(o, req.Properties))
		}
	}
	out.Total = len(out.Results)
	return out
}
