// Package client is a Go API client for the HRMS backend. Session cookies
// are held in an in-process cookie jar, so the access and refresh tokens
// never surface to callers.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/google/uuid"
)

// User is the profile projection returned by the API. The server sends the
// active company as a bare company_id; CurrentCompany is resolved locally
// against the Companies list after each successful call.
type User struct {
	ID             uuid.UUID  `json:"id"`
	Email          string     `json:"email"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	Role           string     `json:"role"`
	CompanyID      *uuid.UUID `json:"company_id"`
	CurrentCompany *Company   `json:"-"`
	Companies      []Company  `json:"companies"`
	Permissions    []string   `json:"permissions"`
}

// resolveCurrentCompany matches CompanyID against Companies.
func (u *User) resolveCurrentCompany() {
	u.CurrentCompany = nil
	if u.CompanyID == nil {
		return
	}
	for i := range u.Companies {
		if u.Companies[i].ID == *u.CompanyID {
			u.CurrentCompany = &u.Companies[i]
			return
		}
	}
}

// Company is the company projection attached to a user.
type Company struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// FullName joins the user's name fields.
func (u *User) FullName() string {
	if u == nil {
		return ""
	}
	return u.FirstName + " " + u.LastName
}

// Result is the normalized outcome of a facade call. Exactly one of User
// or Error is meaningful; Success discriminates.
type Result struct {
	Success bool
	User    *User
	Error   string
}

func failure(msg string) Result {
	return Result{Success: false, Error: msg}
}

func success(u *User) Result {
	return Result{Success: true, User: u}
}

type envelope struct {
	Status string          `json:"status"`
	Code   string          `json:"code"`
	Data   json.RawMessage `json:"data"`
	Error  string          `json:"error"`
}

// Client wraps the HRMS HTTP API. It is not safe for concurrent use; each
// Client holds one session.
type Client struct {
	baseURL string
	http    *http.Client

	user *User
}

// New builds a client for the given base URL, e.g. "http://localhost:8080".
func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Jar: jar, Timeout: 30 * time.Second},
	}, nil
}

// CurrentUser returns the in-memory user loaded by the last successful
// auth call, or nil.
func (c *Client) CurrentUser() *User {
	return c.user
}

// CurrentCompany returns the active company context, or nil.
func (c *Client) CurrentCompany() *Company {
	if c.user == nil {
		return nil
	}
	return c.user.CurrentCompany
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*envelope, int, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, 0, err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}
	return &env, resp.StatusCode, nil
}

func (c *Client) userCall(ctx context.Context, method, path string, body interface{}) Result {
	env, status, err := c.do(ctx, method, path, body)
	if err != nil {
		return failure(err.Error())
	}
	if status >= 400 {
		msg := env.Error
		if msg == "" {
			msg = http.StatusText(status)
		}
		return failure(msg)
	}

	var user User
	if err := json.Unmarshal(env.Data, &user); err != nil {
		return failure("unexpected response shape")
	}
	user.resolveCurrentCompany()
	c.user = &user
	return success(&user)
}

// Login authenticates and stores session cookies in the jar.
func (c *Client) Login(ctx context.Context, email, password string) Result {
	return c.userCall(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
}

// Logout ends the session on the server and drops local state.
func (c *Client) Logout(ctx context.Context) Result {
	env, status, err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil)
	c.user = nil
	if err != nil {
		return failure(err.Error())
	}
	if status >= 400 {
		return failure(env.Error)
	}
	return Result{Success: true}
}

// CheckAuth asks the server who the session cookie belongs to.
func (c *Client) CheckAuth(ctx context.Context) Result {
	return c.userCall(ctx, http.MethodGet, "/api/auth/me", nil)
}

// InitializeAuth hydrates the client from an existing cookie. On any
// failure the stale in-memory user is cleared.
func (c *Client) InitializeAuth(ctx context.Context) Result {
	res := c.CheckAuth(ctx)
	if !res.Success {
		c.user = nil
	}
	return res
}

// Refresh rotates the session using the refresh cookie.
func (c *Client) Refresh(ctx context.Context) Result {
	env, status, err := c.do(ctx, http.MethodPost, "/api/auth/refresh", nil)
	if err != nil {
		return failure(err.Error())
	}
	if status >= 400 {
		c.user = nil
		return failure(env.Error)
	}
	return Result{Success: true, User: c.user}
}

// SwitchCompany changes the active company context.
func (c *Client) SwitchCompany(ctx context.Context, companyID uuid.UUID) Result {
	return c.userCall(ctx, http.MethodPost, "/api/auth/switch-company", map[string]string{
		"company_id": companyID.String(),
	})
}

// UpdateProfile edits the session user's name fields.
func (c *Client) UpdateProfile(ctx context.Context, firstName, lastName string) Result {
	return c.userCall(ctx, http.MethodPut, "/api/auth/profile", map[string]string{
		"first_name": firstName,
		"last_name":  lastName,
	})
}

// ChangePassword rotates the password; the server revokes the session, so
// local state is dropped on success.
func (c *Client) ChangePassword(ctx context.Context, current, next string) Result {
	env, status, err := c.do(ctx, http.MethodPost, "/api/auth/change-password", map[string]string{
		"current_password": current,
		"new_password":     next,
	})
	if err != nil {
		return failure(err.Error())
	}
	if status >= 400 {
		return failure(env.Error)
	}
	c.user = nil
	return Result{Success: true}
}
