package main

import (
	"context"
	"flag"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/tileengine/common"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	levelName := flag.String("level", "", "level design to show first (basename, .txt optional)")
	atliDir := flag.String("atli", "atli", "directory of atlas .png files, checked before the embedded atlases")
	levelsDir := flag.String("levels", "maps", "directory of level design .txt files, checked after the embedded designs")
	prefabsDir := flag.String("prefabs", "prefabs", "directory overriding embedded structures.yaml and scripts")
	script := flag.String("script", "", "placement script to run after the first level loads")
	watch := flag.Bool("watch", false, "reload levels, structures and scripts when they change on disk")
	debug := flag.Bool("debug", false, "enable debug logging and mark empty layers")
	dsn := flag.String("dsn", "", "PostgreSQL connection string for snapshots (file store when empty)")
	snapshots := flag.String("snapshots", "snapshots", "directory for file snapshots")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	game, err := NewGame(Config{
		Level:        *levelName,
		AtliDir:      *atliDir,
		LevelsDir:    *levelsDir,
		PrefabsDir:   *prefabsDir,
		Script:       *script,
		Watch:        *watch,
		Debug:        *debug,
		DSN:          *dsn,
		SnapshotsDir: *snapshots,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("viewer: setup failed")
	}
	defer game.Close()

	if *script != "" {
		// The script runs against the first level, so activate it up front.
		game.poll()
		game.runScript(context.Background())
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(common.BaseWidth, common.BaseHeight)
	ebiten.SetWindowTitle("tileengine")

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal().Err(err).Msg("viewer: run")
	}
}
