package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/quotewise-ai/quoting-platform/internal/middleware"
	"github.com/quotewise-ai/quoting-platform/internal/model"
	"github.com/quotewise-ai/quoting-platform/pkg/logger"
)

func TestConsumerProfileIsOwnerOnly(t *testing.T) {
	// Ownership is rejected before any store access, so nil stores are
	// safe here.
	h := NewConsumerHandler(nil, logger.NewNop())

	r := chi.NewRouter()
	r.Get("/consumers/{id}", h.Get)
	r.Put("/consumers/{id}", h.Upsert)

	withIdentity := func(req *http.Request, consumerID string) *http.Request {
		ctx := context.WithValue(req.Context(), middleware.IdentityKey, model.Identity{
			Email:      "a@b.com",
			ConsumerID: consumerID,
		})
		return req.WithContext(ctx)
	}

	req := withIdentity(httptest.NewRequest(http.MethodGet, "/consumers/c-1", nil), "c-2")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = withIdentity(
		httptest.NewRequest(http.MethodPut, "/consumers/c-1", strings.NewReader(`{"name":"Ana"}`)),
		"c-2",
	)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Unauthenticated context carries a zero identity.
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/consumers/c-1", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
