// Package ecs provides ECS adapters for clusterfield's game controller.
//
// The primary adapter is [NewDonburiStore], which bridges controller events
// (round started, clusters found, round reset) into a [Donburi] world as typed
// events. Subscribe to [GameEventType] in your ECS systems to receive them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	ctrl := clusterfield.NewGameController(cfg.Game, renderer, store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
