package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/milk9111/tileengine/common"
	"github.com/milk9111/tileengine/levels"
	"github.com/milk9111/tileengine/prefabs"
	"github.com/rs/zerolog/log"
)

// drainReloads applies every pending watcher event without blocking the tick.
func (g *Game) drainReloads() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case name, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.reload(name)
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			log.Warn().Err(err).Msg("watcher error")
		default:
			return
		}
	}
}

func (g *Game) reload(file string) {
	switch prefabs.Classify(file) {
	case prefabs.KindLevel:
		lvl, err := levels.LoadFile(os.DirFS(filepath.Dir(file)), filepath.Base(file), common.GridWidth, common.GridHeight)
		if err != nil {
			log.Warn().Err(err).Str("file", file).Msg("level reload skipped")
			return
		}
		g.set.Add(lvl)
		log.Info().Str("level", lvl.Name).Msg("level reloaded")
		if lvl.Active() {
			g.lastRendered = ""
		}
	case prefabs.KindSpec:
		footprints, err := prefabs.LoadFootprints()
		if err != nil {
			log.Warn().Err(err).Str("file", file).Msg("structure reload skipped")
			return
		}
		g.placer.SetFootprints(footprints)
		log.Info().Int("structures", len(footprints)).Msg("structures reloaded")
	case prefabs.KindScript:
		if g.cfg.Script == "" || filepath.Base(file) != filepath.Base(g.cfg.Script) {
			return
		}
		// Re-running a script on top of its own output would stack layers, so
		// start again from the clean level.
		if err := g.set.Activate(g.lastRendered); err != nil {
			log.Warn().Err(err).Msg("script reload skipped")
			return
		}
		g.runScript(context.Background())
	}
}

func existingDirs(dirs ...string) []string {
	var out []string
	for _, d := range dirs {
		if d == "" {
			continue
		}
		if info, err := os.Stat(d); err == nil && info.IsDir() {
			out = append(out, d)
		}
	}
	return out
}
