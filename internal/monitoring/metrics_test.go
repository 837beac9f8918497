package monitoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouteLabel(t *testing.T) {
	assert.Equal(t, "/events", RouteLabel("/events"))
	assert.Equal(t, "/events/:id", RouteLabel("/events/12"))
	assert.Equal(t, "/organizer/events/:id", RouteLabel("/organizer/events/7"))
	assert.Equal(t, "/payments/slip/:id", RouteLabel("/payments/slip/99"))
	assert.Equal(t, "/a/:id/b/:id", RouteLabel("/a/1/b/2"))
}
