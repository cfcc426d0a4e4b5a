// Package ecs provides ECS adapters for clusterfield.
package ecs

import (
	"github.com/phanxgames/clusterfield"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// GameEventType is the Donburi event type for clusterfield game events.
// Subscribe to this in your ECS systems to receive round transitions.
var GameEventType = events.NewEventType[clusterfield.GameEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EventSink backed by a Donburi world.
// Game events are published to GameEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) clusterfield.EventSink {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event clusterfield.GameEvent) {
	GameEventType.Publish(s.world, event)
}
