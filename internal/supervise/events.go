package supervise

import (
	"github.com/asaskevich/EventBus"
	"github.com/google/uuid"
)

const (
	TopicSpawned = "supervise:spawned"
	TopicExited  = "supervise:exited"
)

// Event describes one lifecycle transition of a child.
type Event struct {
	ID       uuid.UUID
	PID      int
	Path     string
	Attempt  int
	ExitCode int32
	Err      error
}

func publish(bus EventBus.Bus, topic string, ev Event) {
	if bus == nil {
		return
	}
	bus.Publish(topic, ev)
}
