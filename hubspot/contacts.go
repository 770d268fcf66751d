package hubspot

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/kbukum/hubspotkit/logger"
)

// Contact property names.
const (
	PropEmail       = "email"
	PropFirstName   = "firstname"
	PropLastName    = "lastname"
	PropInstitution = "institution"
	PropCommittee   = "disease_group_executive_committee"
)

// GetContactByEmail finds contacts with the given email address.
func (c *Client) GetContactByEmail(ctx context.Context, email string) (*SearchResult, error) {
	return c.search(ctx, c.cfg.ContactsURL()+"/search",
		equalsSearch(PropEmail, email, PropFirstName, PropLastName, PropInstitution))
}

// GetContactsByCommittee finds the contacts belonging to a committee.
func (c *Client) GetContactsByCommittee(ctx context.Context, committee string) (*SearchResult, error) {
	return c.search(ctx, c.cfg.ContactsURL()+"/search",
		equalsSearch(PropCommittee, committee, PropEmail, PropCommittee))
}

// CreateContact creates a contact. A contact that already exists is logged
// and reported as (nil, nil).
func (c *Client) CreateContact(ctx context.Context, props Properties) (*Object, error) {
	target := c.cfg.ContactsURL()
	email := fmt.Sprint(props[PropEmail])

	resp, obj, err := c.writeObject(ctx, http.MethodPost, target, props)
	if err != nil {
		return nil, err
	}
	log := c.log.WithContext(ctx)
	if resp.Code() == http.StatusConflict {
		log.Warn("contact already exists in HubSpot", logger.Fields(logger.FieldEmail, email))
		return nil, nil
	}
	if obj == nil {
		msg := fmt.Sprintf("could not create resource `%s` in HubSpot: %s", target, failureMessage(resp))
		log.Error(msg, logger.Fields(logger.FieldStatus, resp.Code()))
		return nil, NewClientError(msg, resp.Code())
	}
	log.Info("created contact", logger.Fields(
		logger.FieldEmail, email,
		logger.FieldObjectID, obj.ID,
	))
	return obj, nil
}

// UpdateContact sets properties on an existing contact.
func (c *Client) UpdateContact(ctx context.Context, id string, props Properties) (*Object, error) {
	target := c.cfg.ContactsURL() + "/" + url.PathEscape(id)

	resp, obj, err := c.writeObject(ctx, http.MethodPatch, target, props)
	if err != nil {
		return nil, err
	}
	log := c.log.WithContext(ctx)
	if obj == nil {
		msg := fmt.Sprintf("could not update contact `%s` in HubSpot: %s", id, failureMessage(resp))
		log.Error(msg, logger.Fields(logger.FieldStatus, resp.Code()))
		return nil, NewClientError(msg, resp.Code())
	}
	log.Info("updated contact", logger.Fields(logger.FieldObjectID, id))
	return obj, nil
}
