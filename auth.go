package main

import (
	"context"
	"errors"
	"log"
	"strings"
)

// ============================================================
// AUTH (register / login / logout)
// ============================================================

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func (c *Console) Register(ctx context.Context, name, email, password string) {
	if name == "" || email == "" || password == "" {
		c.msgs.Show(areaRegister, "Fill all fields", msgError)
		return
	}

	res, err := c.api.Do(ctx, "POST", "/auth/register/", registerRequest{Name: name, Email: email, Password: password})
	if err != nil {
		c.reportTransport(areaRegister, err)
		return
	}
	if !res.OK {
		c.msgs.Show(areaRegister, payloadText(res.Data, "Registration failed"), msgError)
		return
	}

	c.msgs.Show(areaRegister, "Registered! You can now login.", msgSuccess)
	c.mu.Lock()
	c.ui.loginEmail = email
	c.mu.Unlock()
}

// Login stores the access token and loads every list on success.
func (c *Console) Login(ctx context.Context, email, password string) {
	if email == "" || password == "" {
		c.msgs.Show(areaLogin, "Fill all fields", msgError)
		return
	}

	c.mu.Lock()
	c.ui.loginEmail = email
	c.mu.Unlock()

	token, err := requestToken(ctx, c.api, email, password)
	if err != nil {
		var af *APIFailure
		if errors.As(err, &af) {
			c.msgs.Show(areaLogin, af.Message, msgError)
			return
		}
		c.reportTransport(areaLogin, err)
		return
	}

	c.session.Login(token, email)
	c.msgs.Show(areaLogin, "Login successful!", msgSuccess)
	log.Printf("✅ Logged in as %s", email)
	c.LoadAll(ctx)
}

// requestToken exchanges credentials for an access token without touching the
// session.
func requestToken(ctx context.Context, api *APIClient, email, password string) (string, error) {
	res, err := api.Do(ctx, "POST", "/auth/login/", loginRequest{Email: email, Password: password})
	if err != nil {
		return "", err
	}
	if !res.OK {
		return "", &APIFailure{Message: payloadField(res.Data, "error", "Login failed")}
	}

	var lr loginResponse
	if err := res.Decode(&lr); err != nil || strings.TrimSpace(lr.Access) == "" {
		log.Printf("⚠️ login response without access token: %v", err)
		return "", &APIFailure{Message: "Login failed"}
	}
	return lr.Access, nil
}

// Logout drops the token; lists and panels are reset so nothing from the
// previous session is rendered again.
func (c *Console) Logout() {
	c.session.Logout()

	c.mu.Lock()
	defer c.mu.Unlock()
	email := c.ui.loginEmail
	c.ui = newUIState()
	c.ui.loginEmail = email
	log.Println("✅ Logged out")
}
