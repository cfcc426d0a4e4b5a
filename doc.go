// Package clusterfield is a small tile-matching puzzle built on [Ebitengine].
//
// A rectangular [Grid] of icon cells is generated, [FindClusters] partitions it
// into 4-connected same-icon regions and reports those of at least a minimum
// size, and a [GridRenderer] draws the result with entrance, pulse and dim
// animations driven by an [Animator].
//
// # Quick start
//
//	cfg := clusterfield.DefaultConfig()
//	scene := clusterfield.NewScene()
//	anim := clusterfield.NewAnimator(scene, scene.Clock())
//	r := clusterfield.NewGridRenderer(scene.Root(), anim, scene, scene.Clock(), cfg.Render)
//	ctrl := clusterfield.NewGameController(cfg.Game, r, nil)
//	ctrl.Start()
//	clusterfield.Run(scene, clusterfield.RunConfig{Title: "clusters", Width: 800, Height: 600})
//
// # Animation
//
// The [Animator] owns every running effect. It attaches a tick function to a
// [TickSource] (normally the [Scene]) and reads time from a [Clock], so all
// effects are evaluated against their registration timestamp on each frame and
// nothing ever blocks. Effects write only two properties of a [Handle]: a
// uniform scale and an opacity. [Node] is the handle used by the renderer.
//
// Everything in this package is single-threaded. Call it from the game loop.
//
// [Ebitengine]: https://ebitengine.org
package clusterfield
