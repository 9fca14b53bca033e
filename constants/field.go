package constants

import "time"

// Particle Field Layout
const (
	// ParticleCount is the fixed number of particles laid out per scene
	ParticleCount = 1000

	// SphereRadius is the projected sphere radius in raster units
	SphereRadius = 200.0

	// ParticleMinSize is the smallest particle radius assigned at creation
	ParticleMinSize = 1.0

	// ParticleSizeSpread is added to ParticleMinSize scaled by a uniform [0,1) draw
	ParticleSizeSpread = 2.0
)

// Force Field Tuning
const (
	// InteractionRadius is the exclusive distance at which a point influences a particle
	InteractionRadius = 120.0

	// RepulsionStrength is the peak per-point displacement (at zero distance)
	RepulsionStrength = 40.0

	// SpringSpeed is the fraction of the rest offset recovered per frame
	SpringSpeed = 0.15

	// DegenerateDistance is the distance below which a point exerts no force
	DegenerateDistance = 1e-9

	// FeedbackChance is the per-frame probability of a feedback event per in-range pair
	FeedbackChance = 0.01
)

// Loop Timing
const (
	// FrameUpdateInterval is the simulation and rendering interval (~60 FPS)
	FrameUpdateInterval = 16 * time.Millisecond

	// EventQueueSize is the fixed capacity of the update ring buffer
	EventQueueSize = 512

	// EventBufferMask is the bitmask for fast modulo operations (512 - 1)
	EventBufferMask = 511
)
