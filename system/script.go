// Package system runs tengo placement scripts against the tile grid.
package system

import (
	"context"
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/tileengine/prefabs"
	"github.com/rs/zerolog/log"
)

// Placer stamps a structure onto the grid.
type Placer interface {
	Place(kind prefabs.StructureKind, x, y int) error
	Kinds() []prefabs.StructureKind
}

// Levels activates level designs by name.
type Levels interface {
	Activate(name string) error
	Names() []string
}

// ScriptRunner exposes the grid to placement scripts. Scripts see:
//
//	place(kind, x, y)   stamp a structure
//	set_level(name)     activate a level design
//	grid_width, grid_height, levels, structures
//
// A ScriptRunner is not safe for concurrent use.
type ScriptRunner struct {
	placer        Placer
	levels        Levels
	width, height int

	placed int
	err    error
}

// NewScriptRunner creates a runner. levels may be nil, in which case
// set_level fails.
func NewScriptRunner(placer Placer, levels Levels, width, height int) *ScriptRunner {
	return &ScriptRunner{placer: placer, levels: levels, width: width, height: height}
}

// Placed reports how many structures the last run placed.
func (r *ScriptRunner) Placed() int { return r.placed }

// RunFile loads a script from prefabs/scripts and runs it.
func (r *ScriptRunner) RunFile(ctx context.Context, name string) error {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return fmt.Errorf("system: load script %s: %w", name, err)
	}
	return r.Run(ctx, name, src)
}

// Run compiles and runs src. The first placement or activation error stops
// the script and is returned unwrapped from tengo so callers can match it.
func (r *ScriptRunner) Run(ctx context.Context, name string, src []byte) error {
	r.placed = 0
	r.err = nil

	var levelNames []any
	if r.levels != nil {
		for _, n := range r.levels.Names() {
			levelNames = append(levelNames, n)
		}
	}

	var kinds []any
	for _, k := range r.placer.Kinds() {
		kinds = append(kinds, string(k))
	}

	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	vars := map[string]any{
		"place":       &tengo.UserFunction{Name: "place", Value: r.place},
		"set_level":   &tengo.UserFunction{Name: "set_level", Value: r.setLevel},
		"grid_width":  r.width,
		"grid_height": r.height,
		"levels":      levelNames,
		"structures":  kinds,
	}
	for k, v := range vars {
		if err := script.Add(k, v); err != nil {
			return fmt.Errorf("system: script %s: add %s: %w", name, k, err)
		}
	}

	compiled, err := script.Compile()
	if err != nil {
		return fmt.Errorf("system: compile script %s: %w", name, err)
	}
	if err := compiled.RunContext(ctx); err != nil {
		if r.err != nil {
			return fmt.Errorf("system: script %s: %w", name, r.err)
		}
		return fmt.Errorf("system: run script %s: %w", name, err)
	}

	log.Info().Str("script", name).Int("placed", r.placed).Msg("placement script finished")
	return nil
}

func (r *ScriptRunner) place(args ...tengo.Object) (tengo.Object, error) {
	if len(args) != 3 {
		return nil, tengo.ErrWrongNumArguments
	}
	kind := strings.TrimSpace(objectAsString(args[0]))
	x, ok := tengo.ToInt(args[1])
	if !ok {
		return nil, tengo.ErrInvalidArgumentType{Name: "x", Expected: "int", Found: args[1].TypeName()}
	}
	y, ok := tengo.ToInt(args[2])
	if !ok {
		return nil, tengo.ErrInvalidArgumentType{Name: "y", Expected: "int", Found: args[2].TypeName()}
	}
	if err := r.placer.Place(prefabs.StructureKind(kind), x, y); err != nil {
		r.err = err
		return nil, err
	}
	r.placed++
	return tengo.TrueValue, nil
}

func (r *ScriptRunner) setLevel(args ...tengo.Object) (tengo.Object, error) {
	if len(args) != 1 {
		return nil, tengo.ErrWrongNumArguments
	}
	if r.levels == nil {
		r.err = fmt.Errorf("no level set attached")
		return nil, r.err
	}
	if err := r.levels.Activate(strings.TrimSpace(objectAsString(args[0]))); err != nil {
		r.err = err
		return nil, err
	}
	return tengo.TrueValue, nil
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}
