package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/neubistro/bistro/pkg/apperr"
)

func TestStatusOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", apperr.Validation("bad"), http.StatusBadRequest},
		{"conflict", apperr.New(apperr.KindConflict, "dup"), http.StatusBadRequest},
		{"auth", apperr.New(apperr.KindAuth, "nope"), http.StatusUnauthorized},
		{"not found", apperr.NotFound("gone"), http.StatusNotFound},
		{"stale", apperr.New(apperr.KindStale, "retry"), http.StatusConflict},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("svc: op: %w", apperr.NotFound("gone")), http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, apperr.StatusOf(tc.err))
		})
	}
}

func TestMessageOfHidesInternalCause(t *testing.T) {
	err := apperr.Wrap(apperr.KindInternal, "db exploded", errors.New("dial tcp"))
	assert.Equal(t, "Internal Server Error", apperr.MessageOf(err))
	assert.Equal(t, "Internal Server Error", apperr.MessageOf(errors.New("raw")))
	assert.Equal(t, "Cart is empty", apperr.MessageOf(apperr.Validation("Cart is empty")))
}

func TestUnwrapKeepsSentinel(t *testing.T) {
	sentinel := errors.New("sentinel")
	err := apperr.Wrap(apperr.KindNotFound, "missing", sentinel)

	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, "missing: sentinel", err.Error())
	assert.Equal(t, "not_found", apperr.KindOf(err).String())
}
