package controllers

import (
	"strings"

	"github.com/neubistro/bistro/app/models"
	"github.com/neubistro/bistro/app/services"
	"github.com/neubistro/bistro/pkg/apperr"
	"github.com/neubistro/bistro/pkg/auth"
	"github.com/neubistro/bistro/pkg/ctx"
	"github.com/neubistro/bistro/pkg/session"
)

type AuthController struct {
	service *services.AuthService
	signer  *auth.Signer
	cookie  session.Options
}

func NewAuthController(service *services.AuthService, signer *auth.Signer, cookie session.Options) *AuthController {
	return &AuthController{service: service, signer: signer, cookie: cookie}
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Name     string `json:"name" validate:"nullable,max=255"`
}

func (r *registerRequest) Normalize() {
	r.Email = services.NormalizeEmail(r.Email)
	r.Name = strings.TrimSpace(r.Name)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// userView is the public projection of a user.
type userView struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func viewOf(u *models.User) userView {
	return userView{ID: u.ID, Name: u.Name, Email: u.Email}
}

// Register  POST /api/auth/register
func (h *AuthController) Register(c *ctx.Context) {
	var in registerRequest
	if !c.BindJSON(&in) {
		return
	}

	u, err := h.service.Register(c.Context(), in.Email, in.Password, in.Name)
	if err != nil {
		c.Fail(err)
		return
	}

	if !h.startSession(c, u) {
		return
	}
	c.Created(map[string]any{"message": "Registered", "user": viewOf(u)})
}

// Login  POST /api/auth/login
func (h *AuthController) Login(c *ctx.Context) {
	var in loginRequest
	if !c.BindJSON(&in) {
		return
	}

	u, err := h.service.Authenticate(c.Context(), in.Email, in.Password)
	if err != nil {
		c.Fail(err)
		return
	}

	if !h.startSession(c, u) {
		return
	}
	c.Success(map[string]any{"message": "Logged in!", "user": viewOf(u)})
}

// Logout  POST /api/auth/logout
func (h *AuthController) Logout(c *ctx.Context) {
	h.cookie.Clear(c.W)
	c.Success(map[string]string{"message": "Logged out"})
}

// Me  GET /api/auth/me
//
// Never fails on a bad session: anything short of a resolvable user is
// reported as logged out.
func (h *AuthController) Me(c *ctx.Context) {
	id, ok := c.UserID()
	if !ok {
		c.Success(map[string]bool{"loggedIn": false})
		return
	}

	u, err := h.service.Me(c.Context(), id)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			c.Success(map[string]bool{"loggedIn": false})
			return
		}
		c.Fail(err)
		return
	}
	c.Success(map[string]any{"loggedIn": true, "user": viewOf(u)})
}

func (h *AuthController) startSession(c *ctx.Context, u *models.User) bool {
	token, err := h.signer.Issue(u.ID)
	if err != nil {
		c.Fail(apperr.Wrap(apperr.KindInternal, "issue token", err))
		return false
	}
	h.cookie.Set(c.W, token)
	return true
}
