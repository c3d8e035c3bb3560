package app

import "context"

// UserDirectory registers new users with the backend. It holds no state; it is
// a request/response mapper with the same error collapsing as login.
type UserDirectory struct {
	client *APIClient
	logger *Logger
}

func NewUserDirectory(client *APIClient, logger *Logger) *UserDirectory {
	return &UserDirectory{client: client, logger: logger}
}

// AddUser registers newEmail, authorized by the calling admin's token. The
// backend payload comes back verbatim on success; transport and parse errors
// collapse into a fail payload. A missing identity is rejected before any
// network I/O.
func (d *UserDirectory) AddUser(ctx context.Context, currentEmail, newEmail string, isAdmin bool, token string) (StatusResponse, error) {
	if token == "" || currentEmail == "" {
		return StatusResponse{}, ErrNotAuthenticated
	}

	resp, err := d.client.AddUser(ctx, token, currentEmail, newEmail, isAdmin)
	if err != nil {
		d.logger.Error("add user failed", map[string]interface{}{
			"new_user": newEmail,
			"error":    err.Error(),
		})
		return StatusResponse{
			Status:  StatusFail,
			Message: "Error adding user: " + err.Error(),
		}, nil
	}
	d.logger.Info("add user", map[string]interface{}{"new_user": newEmail, "status": resp.Status})
	return resp, nil
}
