package router_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"invomail/internal/domain"
	"invomail/internal/handler"
	"invomail/internal/router"
	"invomail/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(processor *mocks.MockProcessor) *gin.Engine {
	notificationH := handler.NewNotificationHandler(processor)
	healthH := handler.NewHealthHandler("test")
	return router.Setup(notificationH, healthH)
}

func TestRouter_HealthRoutes(t *testing.T) {
	r := newRouter(new(mocks.MockProcessor))

	for _, path := range []string{"/healthz", "/readyz"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, path, http.NoBody)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestRouter_NotificationRoute(t *testing.T) {
	processor := new(mocks.MockProcessor)
	processor.On("ProcessNotification", mock.Anything, mock.Anything).
		Return(domain.OutcomeResults, nil)

	r := newRouter(processor)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/notifications",
		strings.NewReader(`{"notificationType": "Received", "mail": {"messageId": "abc"}}`))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	processor.AssertExpectations(t)
}

func TestRouter_UnknownRoute(t *testing.T) {
	r := newRouter(new(mocks.MockProcessor))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/nope", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
