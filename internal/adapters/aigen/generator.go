// Package aigen generates swim workouts with a generative-text API.
package aigen

import "context"

// Workout is a generated or adjusted workout.
type Workout struct {
	Title       string
	Content     string
	TotalMeters string
}

// GenerateInput describes the workout to generate.
type GenerateInput struct {
	Stroke      string // one of the workout focus strokes
	TotalMeters int
	Intensity   string // one of the workout intensities
}

// AdjustInput carries an existing workout and the meters to rescale it to.
type AdjustInput struct {
	Title        string
	Content      string
	TotalMeters  string
	TargetMeters int
}

// Generator is the interface for AI workout generation.
type Generator interface {
	Generate(ctx context.Context, input GenerateInput) (Workout, error)
	Adjust(ctx context.Context, input AdjustInput) (Workout, error)
}
