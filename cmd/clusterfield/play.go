package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/phanxgames/clusterfield"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	fieldWidth  int
	fieldHeight int
	iconTypes   int
	minCluster  int
	seed        uint64
	scriptFile  string
	debugMode   bool
	showFPS     bool
)

func newPlayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "open the game window (space: new grid, r: reset)",
		Args:  cobra.NoArgs,
		RunE:  runPlay,
	}
	addGameFlags(cmd)
	cmd.Flags().StringVar(&scriptFile, "script", "", "JSON test script to drive the window")
	cmd.Flags().BoolVar(&debugMode, "debug", false, "debug mode (frame stats, disposed-node checks)")
	cmd.Flags().BoolVar(&showFPS, "fps", false, "show FPS overlay")
	return cmd
}

func addGameFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&fieldWidth, "width", 0, "grid width in cells")
	cmd.Flags().IntVar(&fieldHeight, "height", 0, "grid height in cells")
	cmd.Flags().IntVar(&iconTypes, "icons", 0, "number of icon types")
	cmd.Flags().IntVar(&minCluster, "min-cluster", 0, "minimum cluster size")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (0 picks one)")
}

// applyGameFlags overrides config values with explicitly set flags.
func applyGameFlags(cmd *cobra.Command, cfg *clusterfield.Config) error {
	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Game.FieldWidth = fieldWidth
	}
	if flags.Changed("height") {
		cfg.Game.FieldHeight = fieldHeight
	}
	if flags.Changed("icons") {
		cfg.Game.IconTypes = iconTypes
	}
	if flags.Changed("min-cluster") {
		cfg.Game.MinClusterSize = minCluster
	}
	if flags.Changed("seed") {
		cfg.Game.Seed = seed
	}
	return cfg.Validate()
}

func runPlay(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyGameFlags(cmd, cfg); err != nil {
		return err
	}
	if debugMode {
		cfg.Log.Level = "debug"
	}
	if showFPS {
		cfg.Window.ShowFPS = true
	}

	log := newLogger(cfg.Log)
	defer func() { _ = log.Sync() }()

	scene := clusterfield.NewScene()
	scene.SetLogger(log.Named("scene"))
	scene.SetDebugMode(debugMode)
	scene.ClearColor = clusterfield.Color{R: 0.1, G: 0.1, B: 0.15, A: 1}

	anim := clusterfield.NewAnimator(scene, scene.Clock())
	anim.SetLogger(log.Named("animator"))

	cfg.Render.ViewportWidth = float64(cfg.Window.Width)
	cfg.Render.ViewportHeight = float64(cfg.Window.Height)
	renderer := clusterfield.NewGridRenderer(scene.Root(), anim, scene, scene.Clock(), cfg.Render)
	renderer.SetLogger(log.Named("renderer"))

	ctrl := clusterfield.NewGameController(cfg.Game, renderer, nil)
	ctrl.SetLogger(log.Named("game"))

	var runner *clusterfield.TestRunner
	if scriptFile != "" {
		data, err := os.ReadFile(scriptFile)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		if runner, err = clusterfield.LoadTestScript(data); err != nil {
			return err
		}
		bindControllerActions(runner, ctrl)
		scene.SetTestRunner(runner)
	}

	scene.SetUpdateFunc(func() error {
		if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
			ctrl.Start()
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyR) {
			ctrl.Reset()
		}
		if runner != nil && runner.Done() {
			if err := runner.Err(); err != nil {
				return err
			}
			return ebiten.Termination
		}
		return nil
	})

	ctrl.Start()
	log.Info("window opening",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
	)

	err = clusterfield.Run(scene, clusterfield.RunConfig{
		Title:   cfg.Window.Title,
		Width:   cfg.Window.Width,
		Height:  cfg.Window.Height,
		ShowFPS: cfg.Window.ShowFPS,
	})
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// bindControllerActions exposes the controller to test scripts as the
// "start" and "reset" actions.
func bindControllerActions(runner *clusterfield.TestRunner, ctrl *clusterfield.GameController) {
	runner.Bind("start", func(*clusterfield.Scene, string) error {
		ctrl.Start()
		return nil
	})
	runner.Bind("reset", func(*clusterfield.Scene, string) error {
		ctrl.Reset()
		return nil
	})
}
