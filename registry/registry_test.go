package registry

import (
	"testing"

	"oss.nandlabs.io/jobstore/testing/assert"
)

func TestTrackServer(t *testing.T) {
	r := New()
	r.TrackServer("server-a")
	r.TrackServer("server-b")
	assert.Equal(t, 2, len(r.TrackedServers()))

	r.UntrackServer("server-a")
	assert.Equal(t, 1, len(r.TrackedServers()))
}

func TestSubscribeAndQueuesFor(t *testing.T) {
	r := New()
	r.Subscribe("conn-1", []string{"default", "critical"})
	queues := r.QueuesFor("conn-1")
	assert.Equal(t, []string{"default", "critical"}, queues)

	r.Unsubscribe("conn-1")
	assert.Nil(t, r.QueuesFor("conn-1"))
}
