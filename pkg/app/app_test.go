package app

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neubistro/bistro/config"
)

func TestHandlerRejectsBadTrustedProxy(t *testing.T) {
	config.Set("TRUSTED_PROXIES", "nope")
	t.Cleanup(func() { config.Set("TRUSTED_PROXIES", "") })

	_, err := New().Handler(t.Context())
	assert.ErrorContains(t, err, "nope")
}

func TestHandlerAnswersUnknownRoutesWithJSON(t *testing.T) {
	h, err := New().Handler(t.Context())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"status":404,"message":"Not Found"}`, rec.Body.String())
}
