package content

import (
	"context"
	"net/http"
	"strconv"
)

// User is the admin profile record as the API serves it. Timestamps arrive
// as plain strings on this route.
type User struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a bearer token. A rejection surfaces as
// ErrUnauthorized.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var resp loginResponse
	err := c.doJSON(ctx, http.MethodPost, "/admin/login", "", loginRequest{Username: username, Password: password}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Token, nil
}

// Verify probes the protected dashboard route with the given token. A nil
// return means the session is valid; ErrUnauthorized means the token was
// rejected.
func (c *Client) Verify(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodGet, "/admin/dashboard", token, nil, "", nil)
}

func (c *Client) GetUser(ctx context.Context, id int) (User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, "/users/"+strconv.Itoa(id), "", nil, "", &u); err != nil {
		return User{}, err
	}
	return u, nil
}

type updateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (c *Client) UpdateUser(ctx context.Context, token string, id int, username, email string) (User, error) {
	var u User
	err := c.doJSON(ctx, http.MethodPut, "/users/"+strconv.Itoa(id), token, updateUserRequest{Username: username, Email: email}, &u)
	if err != nil {
		return User{}, err
	}
	return u, nil
}
