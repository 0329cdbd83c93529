package session

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/content-gate/internal/http/middlewarectx"
	"github.com/magabrotheeeer/content-gate/internal/models"
)

type RegistryMock struct{ mock.Mock }

func (m *RegistryMock) SignOut(ctx context.Context, userID string) int {
	return m.Called(ctx, userID).Int(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSessionHandler_SignOut(t *testing.T) {
	registry := new(RegistryMock)
	registry.On("SignOut", mock.Anything, "u1").Return(2).Once()

	req := httptest.NewRequest(http.MethodPost, "/session/signout", nil)
	req = req.WithContext(middlewarectx.WithIdentity(req.Context(), models.Identity{UserID: "u1"}))
	rr := httptest.NewRecorder()

	New(newNoopLogger(), registry).SignOut(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"OK","data":{"closed":2}}`, rr.Body.String())
	registry.AssertExpectations(t)
}

func TestSessionHandler_SignOutGuest(t *testing.T) {
	registry := new(RegistryMock)
	rr := httptest.NewRecorder()

	New(newNoopLogger(), registry).SignOut(rr, httptest.NewRequest(http.MethodPost, "/session/signout", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	registry.AssertNotCalled(t, "SignOut", mock.Anything, mock.Anything)
}
