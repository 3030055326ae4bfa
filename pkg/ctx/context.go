// Package ctx provides a request context for handlers.
//
// Instead of accepting (http.ResponseWriter, *http.Request), a handler
// receives a single *Context with helpers for params, binding and replies:
//
//	func (c *MenuController) Destroy(cx *ctx.Context) {
//	    id, ok := cx.ParamUint("id")
//	    if !ok {
//	        return // 400 already sent
//	    }
//	    ...
//	    cx.Success(map[string]string{"message": "done"})
//	}
//
//	router.Delete("/menu/{id}", "menu.destroy", ctx.Wrap(c.Destroy))
package ctx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/neubistro/bistro/pkg/apperr"
	"github.com/neubistro/bistro/pkg/bind"
	"github.com/neubistro/bistro/pkg/logger"
	"github.com/neubistro/bistro/pkg/middleware"
	"github.com/neubistro/bistro/pkg/response"
	"github.com/neubistro/bistro/pkg/validate"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap converts a HandlerFunc to a standard http.HandlerFunc.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// Context wraps a request/response pair.
type Context struct {
	W      http.ResponseWriter
	R      *http.Request
	status int // 0 until a response is written
}

var pool = sync.Pool{
	New: func() any { return &Context{} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	c.status = 0
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// ─── Request helpers ──────────────────────────────────────────────────────────

// Param returns a URL path parameter (e.g. "/menu/{id}" → c.Param("id")).
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// ParamUint parses a positive integer path parameter. On failure it sends a
// 400 and returns false.
func (c *Context) ParamUint(key string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(key), 10, 64)
	if err != nil || n == 0 {
		c.Error(http.StatusBadRequest, fmt.Sprintf("Invalid %s", key))
		return 0, false
	}
	return uint(n), true
}

// Context returns the underlying request context.
func (c *Context) Context() context.Context { return c.R.Context() }

// UserID returns the authenticated user id placed by the session middleware.
func (c *Context) UserID() (uint, bool) {
	return middleware.UserIDFromCtx(c.R.Context())
}

// ─── Binding / Validation ─────────────────────────────────────────────────────

// BindJSON decodes the JSON body into dest and runs validation. An empty body
// is validated as the zero value. On failure it sends a 400 and returns false.
func (c *Context) BindJSON(dest any) bool {
	errs, err := bind.JSON(c.W, c.R, dest)
	if errors.Is(err, bind.ErrEmptyBody) {
		errs, err = validate.Struct(dest), nil
	}
	if err != nil {
		c.Error(http.StatusBadRequest, err.Error())
		return false
	}
	if validate.HasErrors(errs) {
		c.ValidationError(errs)
		return false
	}
	return true
}

// ─── Response helpers ─────────────────────────────────────────────────────────

// JSON writes v with the given status code.
func (c *Context) JSON(code int, v any) {
	c.status = code
	response.JSON(c.W, code, v)
}

// Success sends v as a 200 body.
func (c *Context) Success(v any) {
	c.JSON(http.StatusOK, v)
}

// Created sends v as a 201 body.
func (c *Context) Created(v any) {
	c.JSON(http.StatusCreated, v)
}

// String writes a plain-text response.
func (c *Context) String(code int, format string, args ...any) {
	c.W.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.W.WriteHeader(code)
	c.status = code
	fmt.Fprintf(c.W, format, args...)
}

// Error sends the JSON error envelope.
func (c *Context) Error(code int, message string) {
	c.JSON(code, response.Envelope{Status: code, Message: message})
}

// ValidationError sends a 400 with field-level errors.
func (c *Context) ValidationError(errs map[string]string) {
	c.JSON(http.StatusBadRequest, response.Envelope{
		Status:  http.StatusBadRequest,
		Message: "Validation failed",
		Errors:  errs,
	})
}

// Unauthorized sends a 401.
func (c *Context) Unauthorized(message ...string) {
	msg := "Unauthorized"
	if len(message) > 0 {
		msg = message[0]
	}
	c.Error(http.StatusUnauthorized, msg)
}

// Fail maps err to a status code through apperr. Server-side failures are
// logged with the request logger and answered with a generic message.
func (c *Context) Fail(err error) {
	status := apperr.StatusOf(err)
	if status >= http.StatusInternalServerError {
		logger.WithCtx(c.Context()).Error("request failed",
			"error", err.Error(),
			"method", c.R.Method,
			"path", c.R.URL.Path,
		)
	}
	c.Error(status, apperr.MessageOf(err))
}

// WrittenStatus returns the status code written so far, or 0.
func (c *Context) WrittenStatus() int { return c.status }
