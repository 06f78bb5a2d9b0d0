package loop

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomz197/faceslice/internal/audio"
	"github.com/tomz197/faceslice/internal/object"
	"github.com/tomz197/faceslice/internal/recipe"
	"github.com/tomz197/faceslice/internal/telemetry"
)

// Click applies a click, whose meaning depends on the current mode.
func (s *State) Click() {
	switch s.GameState {
	case GameStateStart:
		s.startIntro()
	case GameStateGameOver:
		s.resetLevel()
	case GameStateLevelComplete:
		if s.Variant.Progression {
			s.Level = (s.Level + 1) % s.Variant.LevelCount()
		}
		s.resetLevel()
	}
}

// IntroEnded moves from the intro to the first round. Frames queued while
// the intro ran are dropped and the cursor target returns to center, so
// play starts from a fresh face binding.
func (s *State) IntroEnded() {
	if s.GameState != GameStateIntro {
		return
	}
	if s.Mailbox != nil {
		s.Mailbox.Drop()
	}
	s.Cursor.SetTarget(s.Screen.Center())
	s.resetLevel()
}

func (s *State) startIntro() {
	s.Intro = object.NewIntro(s.Variant.Intro.Duration, introLines(s.Variant.Title, s.Recipe()))
	s.GameState = GameStateIntro
	s.Logger.Debug("intro started", "session", s.Session)
}

// resetLevel starts the current level over: no objects, zero score and
// progress, and a spawner paced for the level.
func (s *State) resetLevel() {
	s.clearObjects()
	s.Score = 0
	s.Progress = recipe.NewProgress(s.Variant.Recipe(s.Level))
	s.Slice.Reset()

	spawner := object.NewFruitSpawner(s.Variant.SpawnIntervalFor(s.Level), s.Variant.Launch(), s.rng)
	s.Objects = append(s.Objects, spawner)

	s.round = roundStats{startFrame: s.Frame, started: time.Now()}
	s.GameState = GameStatePlaying
	if s.Variant.Music {
		s.Sink.Play(audio.CueMusicStart)
	}
	s.Logger.Debug("level started", "session", s.Session, "level", s.Level+1, "recipe", s.Recipe())
}

// fail ends the round after an illegal cut of kind.
func (s *State) fail(kind object.Kind) {
	s.GameState = GameStateGameOver
	s.Cause = kind
	if s.Variant.Music {
		s.Sink.Play(audio.CueMusicStop)
	}
	s.Sink.Play(audio.CueBomb)
	s.recordRound("fail")
}

// complete ends the round with the recipe fulfilled.
func (s *State) complete() {
	s.GameState = GameStateLevelComplete
	if s.Variant.Music {
		s.Sink.Play(audio.CueMusicStop)
	}
	s.Sink.Play(audio.CueWin)
	s.recordRound("win")
}

func (s *State) recordRound(outcome string) {
	rec := telemetry.RoundRecord{
		EndedAt:  time.Now(),
		Session:  s.Session,
		Variant:  s.Variant.Name,
		Level:    s.Level + 1,
		Outcome:  outcome,
		Score:    s.Score,
		Recipe:   s.Recipe().String(),
		Frames:   s.Frame - s.round.startFrame,
		Seconds:  time.Since(s.round.started).Seconds(),
		Spawned:  s.round.spawned,
		Windows:  s.round.windows,
		Tracking: s.Mailbox != nil && s.Mailbox.Connected(),
	}
	if outcome == "fail" {
		rec.Cause = s.Cause.String()
	}
	s.Logger.Info("round over",
		"session", s.Session, "level", rec.Level, "outcome", outcome,
		"score", rec.Score, "cause", rec.Cause)
	if err := s.Output.WriteRound(rec); err != nil {
		s.Logger.Warn("could not record round", "error", err)
	}
}

// introLines builds the title crawl for a variant.
func introLines(title string, first recipe.Recipe) []string {
	lines := []string{
		title,
		"",
		"Fruit is flying.",
		"Steer with your nose. Blink to slice.",
		"",
		"Cut exactly what the recipe asks for.",
		"One bomb, one extra fruit, one wrong fruit",
		"and the dish is ruined.",
		"",
		"First order:",
	}
	for _, k := range first.Kinds() {
		lines = append(lines, fmt.Sprintf("%d x %s", first.Need(k), strings.ToUpper(k.String())))
	}
	return lines
}
