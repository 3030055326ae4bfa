package routes_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/neubistro/bistro/app/routes"
	"github.com/neubistro/bistro/database/seeders"
	"github.com/neubistro/bistro/internal/dbtest"
	"github.com/neubistro/bistro/pkg/app"
	"github.com/neubistro/bistro/pkg/auth"
	"github.com/neubistro/bistro/pkg/session"
	"github.com/neubistro/bistro/pkg/testkit"
)

func newAPI(t *testing.T) http.Handler {
	t.Helper()

	db := dbtest.New(t)
	require.NoError(t, seeders.SeedMenu(context.Background(), db))

	signer := auth.NewSigner("test-secret", auth.SessionTTL)
	cookie := session.DefaultOptions()

	h, err := app.New().
		Authenticator(signer, cookie).
		Routes(routes.API(routes.Deps{
			DB:           db,
			Signer:       signer,
			Cookie:       cookie,
			MenuCacheTTL: time.Minute,
		})).
		Handler(t.Context())
	require.NoError(t, err)
	return h
}

func TestAPIScenarios(t *testing.T) {
	testkit.RunDir(t, newAPI, "testdata")
}
