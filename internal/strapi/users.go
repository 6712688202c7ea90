package strapi

import (
	"context"
	"net/http"
)

// CreateUser registers a client record at checkout. A non-2xx response
// (for example a duplicate email) is reported as ok=false without an
// error; only transport failures return one.
func (c *Client) CreateUser(ctx context.Context, email, displayName string) (bool, error) {
	payload := map[string]any{"data": map[string]any{"username": displayName, "email": email}}
	status, err := c.do(ctx, http.MethodPost, "/api/clients", nil, payload, nil)
	if err != nil {
		return false, err
	}
	return status >= 200 && status < 300, nil
}
