package hubspot

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// CRM is the set of HubSpot CRM operations used by callers.
type CRM interface {
	GetContactByEmail(ctx context.Context, email string) (*SearchResult, error)
	GetContactsByCommittee(ctx context.Context, committee string) (*SearchResult, error)
	GetCommitteesInfo(ctx context.Context, committee string) (*SearchResult, error)
	CreateContact(ctx context.Context, props Properties) (*Object, error)
	UpdateContact(ctx context.Context, id string, props Properties) (*Object, error)
}

var _ CRM = (*Client)(nil)

// Properties are CRM object property values keyed by internal name.
type Properties map[string]any

// Object is a CRM record.
type Object struct {
	ID         string         `json:"id"`
	Properties map[string]any `json:"properties"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
	Archived   bool           `json:"archived"`
}

// Property returns a property rendered as a string, or "" when absent.
func (o *Object) Property(name string) string {
	v, ok := o.Properties[name]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// SearchResult is the body of a CRM search.
type SearchResult struct {
	Total   int      `json:"total"`
	Results []Object `json:"results"`
}

// Filter operators.
const (
	OperatorEQ = "EQ"
)

// Filter matches a single property.
type Filter struct {
	Value        string `json:"value"`
	PropertyName string `json:"propertyName"`
	Operator     string `json:"operator"`
}

// FilterGroup is a conjunction of filters.
type FilterGroup struct {
	Filters []Filter `json:"filters"`
}

// SearchRequest is the body of a CRM search.
type SearchRequest struct {
	FilterGroups []FilterGroup `json:"filterGroups"`
	Properties   []string      `json:"properties"`
}

// equalsSearch builds a search for objects whose property equals value.
func equalsSearch(property, value string, fetch ...string) SearchRequest {
	return SearchRequest{
		FilterGroups: []FilterGroup{{
			Filters: []Filter{{Value: value, PropertyName: property, Operator: OperatorEQ}},
		}},
		Properties: fetch,
	}
}

// search posts req to url and decodes the result.
func (c *Client) search(ctx context.Context, url string, req SearchRequest) (*SearchResult, error) {
	resp, err := c.Post(ctx, url, req)
	if err != nil {
		return nil, err
	}
	if failed(resp) {
		return nil, NewClientError(fmt.Sprintf("search `%s` failed: %s", url, failureMessage(resp)), resp.Code())
	}
	var out SearchResult
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// writeObject sends props to url and decodes the written object.
func (c *Client) writeObject(ctx context.Context, method, url string, props Properties) (*Response, *Object, error) {
	body := map[string]any{"properties": props}
	resp, err := c.Request(ctx, method, url, WithJSON(body))
	if err != nil {
		return nil, nil, err
	}
	if failed(resp) {
		return resp, nil, nil
	}
	var out Object
	if err := resp.Decode(&out); err != nil {
		return resp, nil, err
	}
	return resp, &out, nil
}

// failed is stricter than Successful: HubSpot reports most API errors as
// {"status": "error", ...} with a 4xx status and no "error" key.
func failed(resp *Response) bool {
	return !resp.Successful() || resp.Code() >= http.StatusBadRequest
}

func failureMessage(resp *Response) string {
	if msg := resp.ErrorMessage(); msg != "" {
		return msg
	}
	if msg, ok := resp.Object()["message"].(string); ok {
		return msg
	}
	return resp.Text()
}
