package hubspot

import "context"

// Company property names.
const (
	PropName               = "name"
	PropApprovalCommittees = "approval_committees"
)

// GetCommitteesInfo looks up the company record describing a committee.
func (c *Client) GetCommitteesInfo(ctx context.Context, committee string) (*SearchResult, error) {
	return c.search(ctx, c.cfg.CompaniesURL()+"/search",
		equalsSearch(PropName, committee, PropApprovalCommittees))
}
