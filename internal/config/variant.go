package config

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/tomz197/faceslice/internal/object"
	"github.com/tomz197/faceslice/internal/recipe"
	"gopkg.in/yaml.v3"
)

//go:embed variants/*.yaml
var variantFS embed.FS

// DefaultVariant is used when GAME_VARIANT is unset.
const DefaultVariant = "classic"

// Variant is one complete game rule set. The leveled and single-recipe games
// are both variants of the same state machine.
type Variant struct {
	Name        string           `yaml:"name"`
	Title       string           `yaml:"title"`
	Levels      []map[string]int `yaml:"levels"`      // Recipe per level, kind name -> cut count
	Progression bool             `yaml:"progression"` // Advance to the next level after a win
	Music       bool             `yaml:"music"`
	Field       FieldConfig      `yaml:"field"`
	Spawn       SpawnConfig      `yaml:"spawn"`
	Physics     PhysicsConfig    `yaml:"physics"`
	Slice       SliceConfig      `yaml:"slice"`
	Cursor      CursorConfig     `yaml:"cursor"`
	Intro       IntroConfig      `yaml:"intro"`

	// Derived values computed after loading
	Recipes []recipe.Recipe `yaml:"-"`
}

// FieldConfig is the logical play field size.
type FieldConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// SpawnConfig holds the spawn schedule.
type SpawnConfig struct {
	Interval    time.Duration `yaml:"interval"`     // Interval at level 0
	Step        time.Duration `yaml:"step"`         // Subtracted per level
	MinInterval time.Duration `yaml:"min_interval"` // Floor for the interval
}

// PhysicsConfig holds per-frame motion constants in field units.
type PhysicsConfig struct {
	Gravity      float64 `yaml:"gravity"`
	LaunchSpeed  float64 `yaml:"launch_speed"`
	LaunchJitter float64 `yaml:"launch_jitter"`
	LateralSpeed float64 `yaml:"lateral_speed"`
	SpawnDepth   float64 `yaml:"spawn_depth"` // Below the bottom edge
	CullMargin   float64 `yaml:"cull_margin"`
	FruitSize    float64 `yaml:"fruit_size"`
}

// SliceConfig holds blink-to-slice parameters.
type SliceConfig struct {
	Reach          float64 `yaml:"reach"`           // Added to the fruit radius for hit tests
	Frames         int     `yaml:"frames"`          // Window length
	BlinkThreshold float64 `yaml:"blink_threshold"` // Eye aspect ratio below this is a blink
}

// CursorConfig holds cursor smoothing and keyboard nudge.
type CursorConfig struct {
	Smoothing float64 `yaml:"smoothing"`
	Nudge     float64 `yaml:"nudge"` // Field units per key press
}

// IntroConfig holds the title crawl length.
type IntroConfig struct {
	Duration time.Duration `yaml:"duration"`
}

// Variants lists the embedded variant names.
func Variants() []string {
	entries, err := variantFS.ReadDir("variants")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// LoadVariant loads the embedded variant called name and, if overridePath is
// set, overlays the YAML file found there. Only fields present in the file
// are overwritten. The result is validated.
func LoadVariant(name, overridePath string) (*Variant, error) {
	if name == "" {
		name = DefaultVariant
	}
	data, err := variantFS.ReadFile("variants/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("unknown variant %q (have %s)", name, strings.Join(Variants(), ", "))
	}

	v := &Variant{}
	if err := yaml.Unmarshal(data, v); err != nil {
		return nil, fmt.Errorf("parsing variant %s: %w", name, err)
	}

	if overridePath != "" {
		data, err := os.ReadFile(overridePath)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, v); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := v.Validate(); err != nil {
		return nil, fmt.Errorf("variant %s: %w", v.Name, err)
	}
	return v, nil
}

// LoadVariantFromEnv loads the variant selected by GAME_VARIANT and GAME_CONFIG.
func LoadVariantFromEnv() (*Variant, error) {
	return LoadVariant(GetEnv("GAME_VARIANT", DefaultVariant), GetEnv("GAME_CONFIG", ""))
}

// Validate checks the variant and computes its recipes.
func (v *Variant) Validate() error {
	var errs []error
	if len(v.Levels) == 0 {
		errs = append(errs, errors.New("at least one level is required"))
	}
	if v.Field.Width <= 0 || v.Field.Height <= 0 {
		errs = append(errs, fmt.Errorf("field must be positive, got %dx%d", v.Field.Width, v.Field.Height))
	}
	if v.Spawn.Interval <= 0 {
		errs = append(errs, errors.New("spawn.interval must be positive"))
	}
	if v.Spawn.MinInterval <= 0 || v.Spawn.MinInterval > v.Spawn.Interval {
		errs = append(errs, errors.New("spawn.min_interval must be in (0, interval]"))
	}
	if v.Spawn.Step < 0 {
		errs = append(errs, errors.New("spawn.step must not be negative"))
	}
	if v.Physics.FruitSize <= 0 {
		errs = append(errs, errors.New("physics.fruit_size must be positive"))
	}
	if v.Physics.CullMargin < v.Physics.FruitSize/2 {
		errs = append(errs, errors.New("physics.cull_margin must cover half a fruit"))
	}
	if v.Slice.Frames <= 0 {
		errs = append(errs, errors.New("slice.frames must be positive"))
	}
	if v.Slice.Reach < 0 {
		errs = append(errs, errors.New("slice.reach must not be negative"))
	}
	if v.Slice.BlinkThreshold <= 0 {
		errs = append(errs, errors.New("slice.blink_threshold must be positive"))
	}
	if v.Cursor.Smoothing <= 0 || v.Cursor.Smoothing > 1 {
		errs = append(errs, fmt.Errorf("cursor.smoothing must be in (0, 1], got %v", v.Cursor.Smoothing))
	}

	v.Recipes = v.Recipes[:0]
	for i, level := range v.Levels {
		r, err := recipe.Parse(level)
		if err != nil {
			errs = append(errs, fmt.Errorf("level %d: %w", i+1, err))
			continue
		}
		v.Recipes = append(v.Recipes, r)
	}
	return errors.Join(errs...)
}

// LevelCount returns the number of levels.
func (v *Variant) LevelCount() int {
	return len(v.Recipes)
}

// Recipe returns the recipe for level, wrapping past the last level.
func (v *Variant) Recipe(level int) recipe.Recipe {
	return v.Recipes[level%len(v.Recipes)]
}

// SpawnIntervalFor returns the spawn interval at level, never below MinInterval.
func (v *Variant) SpawnIntervalFor(level int) time.Duration {
	interval := v.Spawn.Interval - time.Duration(level)*v.Spawn.Step
	if interval < v.Spawn.MinInterval {
		return v.Spawn.MinInterval
	}
	return interval
}

// Screen returns the logical play field.
func (v *Variant) Screen() object.Screen {
	return object.NewScreen(v.Field.Width, v.Field.Height)
}

// Launch returns the spawn launch parameters.
func (v *Variant) Launch() object.Launch {
	return object.Launch{
		SpawnDepth:   v.Physics.SpawnDepth,
		LaunchSpeed:  v.Physics.LaunchSpeed,
		LaunchJitter: v.Physics.LaunchJitter,
		LateralSpeed: v.Physics.LateralSpeed,
		Size:         v.Physics.FruitSize,
	}
}

// WorldPhysics returns the per-frame world constants.
func (v *Variant) WorldPhysics() object.Physics {
	return object.Physics{
		Gravity:    v.Physics.Gravity,
		CullMargin: v.Physics.CullMargin,
	}
}
