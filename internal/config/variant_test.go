package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tomz197/faceslice/internal/object"
)

func TestLoadEmbeddedVariants(t *testing.T) {
	for _, name := range Variants() {
		t.Run(name, func(t *testing.T) {
			v, err := LoadVariant(name, "")
			if err != nil {
				t.Fatalf("LoadVariant(%q): %v", name, err)
			}
			if v.LevelCount() == 0 {
				t.Fatal("no levels")
			}
		})
	}
}

func TestClassicLevels(t *testing.T) {
	v, err := LoadVariant("classic", "")
	if err != nil {
		t.Fatal(err)
	}
	if !v.Progression || v.LevelCount() != 3 {
		t.Fatalf("progression=%v levels=%d, want true 3", v.Progression, v.LevelCount())
	}
	if got := v.Recipe(1).Need(object.KindApple); got != 2 {
		t.Fatalf("level 2 apples = %d, want 2", got)
	}
	if got := v.Recipe(3).String(); got != v.Recipe(0).String() {
		t.Fatalf("Recipe(3) = %s, want wrap to %s", got, v.Recipe(0))
	}
	if v.Spawn.Interval != 800*time.Millisecond {
		t.Fatalf("interval = %v, want 800ms", v.Spawn.Interval)
	}
}

func TestSingleVariant(t *testing.T) {
	v, err := LoadVariant("single", "")
	if err != nil {
		t.Fatal(err)
	}
	if v.Progression || v.Music || v.LevelCount() != 1 {
		t.Fatalf("single variant = %+v", v)
	}
	if got := v.Recipe(0).String(); got != "{mango:2, apple:1, banana:2}" {
		t.Fatalf("recipe = %s", got)
	}
}

func TestSpawnIntervalClamped(t *testing.T) {
	v, err := LoadVariant("classic", "")
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		level int
		want  time.Duration
	}{
		{0, 800 * time.Millisecond},
		{1, 650 * time.Millisecond},
		{2, 500 * time.Millisecond},
		{4, 250 * time.Millisecond},
		{100, 250 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := v.SpawnIntervalFor(tt.level); got != tt.want {
			t.Fatalf("SpawnIntervalFor(%d) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	body := "levels:\n  - {banana: 4}\nslice:\n  frames: 30\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	v, err := LoadVariant("classic", path)
	if err != nil {
		t.Fatal(err)
	}
	if v.LevelCount() != 1 || v.Recipe(0).Need(object.KindBanana) != 4 {
		t.Fatalf("levels not overridden: %v", v.Recipes)
	}
	if v.Slice.Frames != 30 || v.Slice.Reach != 15 {
		t.Fatalf("slice = %+v, want frames 30 and reach kept", v.Slice)
	}
}

func TestValidateRejectsHazardRecipe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("levels:\n  - {bomb: 1}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadVariant("classic", path); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestUnknownVariant(t *testing.T) {
	if _, err := LoadVariant("nope", ""); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("missing file: %v", err)
	}
}

func TestLoadDotEnvKeepsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("FACESLICE_A=file\nFACESLICE_B=file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FACESLICE_A", "env")
	os.Unsetenv("FACESLICE_B")
	t.Cleanup(func() { os.Unsetenv("FACESLICE_B") })

	if err := LoadDotEnv(path); err != nil {
		t.Fatal(err)
	}
	if got := GetEnv("FACESLICE_A", ""); got != "env" {
		t.Fatalf("FACESLICE_A = %q, want env", got)
	}
	if got := GetEnv("FACESLICE_B", ""); got != "file" {
		t.Fatalf("FACESLICE_B = %q, want file", got)
	}
}
