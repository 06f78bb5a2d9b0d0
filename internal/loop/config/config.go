// Package config centralizes the tunables of the frame loop itself. Game
// rules live in the variant files of internal/config.
package config

import "time"

// Render area limits in terminal cells. Larger terminals get a centered,
// letterboxed play field.
const (
	MaxTermWidth  = 240
	MaxTermHeight = 68
	MinTermWidth  = 40
	MinTermHeight = 12
)

// Juice and explosion particles
const (
	SplashParticles    = 14
	SplashSpeed        = 0.9 // Field units per frame
	SplashLife         = 28  // Frames
	ExplosionParticles = 40
	ExplosionSpeed     = 1.6
	ExplosionLife      = 45
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Tracker frames older than this no longer count as a connected face.
const TrackerStale = 2 * time.Second

// Client rendering
const (
	TargetFPS       = 60
	TargetFrameTime = time.Second / TargetFPS
)
