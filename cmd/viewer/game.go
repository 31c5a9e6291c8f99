package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/tileengine/assets"
	"github.com/milk9111/tileengine/atlas"
	"github.com/milk9111/tileengine/common"
	"github.com/milk9111/tileengine/levels"
	"github.com/milk9111/tileengine/persistence"
	"github.com/milk9111/tileengine/prefabs"
	"github.com/milk9111/tileengine/render"
	"github.com/milk9111/tileengine/structure"
	"github.com/milk9111/tileengine/system"
	"github.com/milk9111/tileengine/tilemap"
	"github.com/rs/zerolog/log"
	"golang.design/x/clipboard"
)

type Config struct {
	Level        string
	AtliDir      string
	LevelsDir    string
	PrefabsDir   string
	Script       string
	Watch        bool
	Debug        bool
	DSN          string
	SnapshotsDir string
}

type Game struct {
	cfg Config

	cache   *atlas.Cache
	grid    *tilemap.Grid
	set     *levels.Set
	placer  *structure.Placer
	scripts *system.ScriptRunner
	store   persistence.Store
	watcher *prefabs.Watcher

	// levelToRender is polled every tick and activated when it changes.
	levelToRender string
	lastRendered  string

	picker     *ebitenui.UI
	showPicker bool

	opts       render.DrawOptions
	targetZoom float32
	clipboard  bool
	status     string
}

func NewGame(cfg Config) (*Game, error) {
	provider := assets.NewProvider(cfg.AtliDir)
	names, err := provider.Names()
	if err != nil {
		return nil, err
	}
	cache := atlas.NewCache(provider)
	if err := cache.LoadAll(names); err != nil {
		return nil, err
	}

	grid := tilemap.NewGrid(common.GridWidth, common.GridHeight, render.NewBackend())
	set := levels.NewSet(grid, cache)
	lvls, err := levels.LoadAll(cfg.LevelsDir, common.GridWidth, common.GridHeight)
	if err != nil {
		return nil, err
	}
	for _, l := range lvls {
		set.Add(l)
	}

	prefabs.Dir = cfg.PrefabsDir
	footprints, err := prefabs.LoadFootprints()
	if err != nil {
		log.Warn().Err(err).Msg("using built-in structure table")
		footprints = prefabs.DefaultFootprints()
	}
	placer := structure.NewPlacer(grid, cache, footprints)

	g := &Game{
		cfg:        cfg,
		cache:      cache,
		grid:       grid,
		set:        set,
		placer:     placer,
		scripts:    system.NewScriptRunner(placer, set, common.GridWidth, common.GridHeight),
		opts:       render.DrawOptions{Zoom: 2, ShowEmpty: cfg.Debug},
		targetZoom: 2,
	}

	if cfg.DSN != "" {
		g.store, err = persistence.NewPostgresStore(cfg.DSN)
	} else {
		g.store, err = persistence.NewFileStore(cfg.SnapshotsDir)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Watch {
		dirs := existingDirs(cfg.LevelsDir, cfg.PrefabsDir, filepath.Join(cfg.PrefabsDir, "scripts"))
		if len(dirs) > 0 {
			if g.watcher, err = prefabs.NewWatcher(dirs...); err != nil {
				log.Warn().Err(err).Msg("hot reload disabled")
			}
		}
	}

	if err := clipboard.Init(); err != nil {
		log.Warn().Err(err).Msg("clipboard unavailable")
	} else {
		g.clipboard = true
	}

	g.levelToRender = strings.TrimSuffix(cfg.Level, levels.Ext)
	if g.levelToRender == "" {
		if names := set.Names(); len(names) > 0 {
			g.levelToRender = names[0]
		}
	}

	log.Info().Strs("atlases", cache.Atlases()).Strs("levels", set.Names()).Msg("viewer ready")
	return g, nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		g.watcher.Close()
	}
	if g.store != nil {
		g.store.Close()
	}
}

// SetLevel asks the next tick to show name.
func (g *Game) SetLevel(name string) {
	g.levelToRender = name
	g.showPicker = false
}

// poll activates levelToRender when it changed since the last tick. A failed
// activation is logged and not retried until the name changes again.
func (g *Game) poll() {
	if g.levelToRender == g.lastRendered {
		return
	}
	g.lastRendered = g.levelToRender
	if err := g.set.Activate(g.levelToRender); err != nil {
		log.Error().Err(err).Str("level", g.levelToRender).Msg("level activation failed")
		g.status = err.Error()
		return
	}
	g.status = "level " + g.levelToRender
}

// runScript runs the configured placement script and adopts whichever level
// the script left active.
func (g *Game) runScript(ctx context.Context) {
	if g.cfg.Script == "" {
		return
	}
	if err := g.scripts.RunFile(ctx, g.cfg.Script); err != nil {
		log.Error().Err(err).Str("script", g.cfg.Script).Msg("placement script failed")
	}
	if active := g.set.Active(); active != nil {
		g.levelToRender = active.Name
		g.lastRendered = active.Name
		g.status = "level " + active.Name
	}
}

func (g *Game) Update() error {
	g.drainReloads()
	g.poll()

	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.showPicker = !g.showPicker
		if g.showPicker {
			g.picker = NewLevelPicker(g)
		}
	}
	if g.showPicker && g.picker != nil {
		g.picker.Update()
		return nil
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copyHoveredPath()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.saveSnapshot()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		g.targetZoom *= 2
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) && g.targetZoom > 0.5 {
		g.targetZoom /= 2
	}
	g.opts.Zoom = float64(common.Lerp(float32(g.opts.Zoom), g.targetZoom, 0.2))
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	render.DrawGrid(screen, g.grid, g.opts)

	if g.showPicker && g.picker != nil {
		g.picker.Draw(screen)
		return
	}

	hover := ""
	if path, ok := g.hoveredPath(); ok {
		hover = path
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf("%s\n%s\nTab: levels  C: copy path  S: snapshot", g.status, hover))
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) hoveredPath() (string, bool) {
	mx, my := ebiten.CursorPosition()
	x, y := render.TileAt(mx, my, g.opts)
	t, ok := g.grid.At(x, y)
	if !ok {
		return "", false
	}
	path, err := persistence.Encode(t, g.cache)
	if err != nil {
		return "", false
	}
	return path, true
}

func (g *Game) copyHoveredPath() {
	path, ok := g.hoveredPath()
	if !ok {
		return
	}
	if !g.clipboard {
		log.Info().Str("path", path).Msg("tile path")
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(path))
	g.status = "copied " + path
}

func (g *Game) saveSnapshot() {
	lines, err := persistence.Snapshot(g.grid, g.cache)
	if err != nil {
		log.Error().Err(err).Msg("snapshot failed")
		g.status = err.Error()
		return
	}
	name := fmt.Sprintf("%s-%s", g.lastRendered, time.Now().Format("20060102-150405"))
	if err := g.store.Save(name, lines); err != nil {
		log.Error().Err(err).Msg("snapshot failed")
		g.status = err.Error()
		return
	}
	g.status = "saved " + name
	log.Info().Str("snapshot", name).Msg("snapshot saved")
}
