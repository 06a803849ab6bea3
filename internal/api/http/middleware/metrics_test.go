package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type observation struct {
	method string
	route  string
	status int
}

type fakeObserver struct {
	observations []observation
}

func (o *fakeObserver) ObserveRequest(method, route string, status int, _ time.Duration) {
	o.observations = append(o.observations, observation{method: method, route: route, status: status})
}

func TestMetrics_UsesRoutePattern(t *testing.T) {
	gin.SetMode(gin.TestMode)
	observer := &fakeObserver{}

	r := gin.New()
	r.Use(Metrics(observer))
	r.GET("/users/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/users/42", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	require.Len(t, observer.observations, 2)
	assert.Equal(t, observation{method: http.MethodGet, route: "/users/:id", status: http.StatusOK}, observer.observations[0])
	assert.Equal(t, "", observer.observations[1].route)
	assert.Equal(t, http.StatusNotFound, observer.observations[1].status)
}
