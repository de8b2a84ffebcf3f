package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"swimclub/internal/adapters/aigen"
	planStore "swimclub/internal/adapters/storage/plan"
	workoutStore "swimclub/internal/adapters/storage/workout"
	workoutDomain "swimclub/internal/domain/workout"
)

// Orchestrator errors
var (
	ErrAIGenerationDisabled = errors.New("AI workout generation is disabled")
	ErrInvalidTargetMeters  = errors.New("target meters must be at least 500")
	ErrSessionInUse         = errors.New("session is referenced by planned sessions")
)

// SaveWorkoutInput carries input for creating or updating a bank session.
type SaveWorkoutInput struct {
	SessionID   string // empty creates a new session
	Title       string
	Content     string
	TotalMeters string
	FocusStroke string
	Intensity   string
	TrainerID   string // empty when saved by an administrator
}

// SaveWorkoutDeps holds dependencies for SaveWorkout.
type SaveWorkoutDeps struct {
	WorkoutStore workoutStore.Store
	GenerateID   func() string
	Now          func() time.Time
}

// ExecuteSaveWorkout creates or updates a workout bank session.
// PRE: caller is a trainer or administrator
// POST: session persisted; CreatedBy is never changed on update
func ExecuteSaveWorkout(ctx context.Context, input SaveWorkoutInput, deps SaveWorkoutDeps) (string, error) {
	now := deps.Now()
	var s workoutDomain.Session

	if input.SessionID != "" {
		existing, err := deps.WorkoutStore.GetByID(ctx, input.SessionID)
		if err != nil {
			return "", err
		}
		s = existing
		s.UpdatedAt = now
	} else {
		s = workoutDomain.Session{
			ID:        deps.GenerateID(),
			CreatedBy: input.TrainerID,
			CreatedAt: now,
		}
	}

	s.Title = input.Title
	s.Content = input.Content
	s.TotalMeters = input.TotalMeters
	s.FocusStroke = input.FocusStroke
	s.Intensity = input.Intensity

	if err := s.Validate(); err != nil {
		return "", err
	}
	if err := deps.WorkoutStore.Save(ctx, s); err != nil {
		return "", err
	}

	slog.Info("workout_saved", "session_id", s.ID, "title", s.Title)
	return s.ID, nil
}

// DeleteWorkoutDeps holds dependencies for DeleteWorkout.
type DeleteWorkoutDeps struct {
	WorkoutStore workoutStore.Store
	PlanStore    planStore.Store
}

// ExecuteDeleteWorkout removes a bank session unless plans still reference it.
// PRE: caller is a trainer or administrator
// POST: session removed, or ErrSessionInUse when planned sessions point at it
func ExecuteDeleteWorkout(ctx context.Context, sessionID string, deps DeleteWorkoutDeps) error {
	count, err := deps.PlanStore.CountBySession(ctx, sessionID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrSessionInUse
	}
	if err := deps.WorkoutStore.Delete(ctx, sessionID); err != nil {
		return err
	}
	slog.Info("workout_deleted", "session_id", sessionID)
	return nil
}

// GenerateWorkoutInput carries input for AI generation.
type GenerateWorkoutInput struct {
	Stroke      string
	TotalMeters int
	Intensity   string
}

// GenerateWorkoutDeps holds dependencies for GenerateWorkout.
type GenerateWorkoutDeps struct {
	Generator aigen.Generator
	Settings  settingsReader
}

// settingsReader is the read slice of the settings store AI paths need.
type settingsReader interface {
	WorkoutAIEnabled(ctx context.Context) (bool, error)
}

// ExecuteGenerateWorkout produces a new workout with the generation service.
// PRE: caller is a trainer or administrator; AI generation is enabled
// POST: Returns the generated workout; nothing is persisted
func ExecuteGenerateWorkout(ctx context.Context, input GenerateWorkoutInput, deps GenerateWorkoutDeps) (aigen.Workout, error) {
	if err := checkAIEnabled(ctx, deps.Settings); err != nil {
		return aigen.Workout{}, err
	}
	if !validStroke(input.Stroke) {
		return aigen.Workout{}, workoutDomain.ErrInvalidStroke
	}
	if !validIntensity(input.Intensity) {
		return aigen.Workout{}, workoutDomain.ErrInvalidIntensity
	}
	if input.TotalMeters < 500 {
		return aigen.Workout{}, ErrInvalidTargetMeters
	}

	return deps.Generator.Generate(ctx, aigen.GenerateInput{
		Stroke:      input.Stroke,
		TotalMeters: input.TotalMeters,
		Intensity:   input.Intensity,
	})
}

// AdjustWorkoutInput carries input for AI adjustment of an existing workout.
type AdjustWorkoutInput struct {
	Title        string
	Content      string
	TotalMeters  string
	TargetMeters int
}

// ExecuteAdjustWorkout rescales an existing workout to a new meter total.
// PRE: caller is a trainer or administrator; AI generation is enabled
// POST: Returns the adjusted workout; nothing is persisted
func ExecuteAdjustWorkout(ctx context.Context, input AdjustWorkoutInput, deps GenerateWorkoutDeps) (aigen.Workout, error) {
	if err := checkAIEnabled(ctx, deps.Settings); err != nil {
		return aigen.Workout{}, err
	}
	if input.Title == "" || input.Content == "" {
		return aigen.Workout{}, workoutDomain.ErrEmptyTitle
	}
	if input.TargetMeters < 500 {
		return aigen.Workout{}, ErrInvalidTargetMeters
	}

	return deps.Generator.Adjust(ctx, aigen.AdjustInput{
		Title:        input.Title,
		Content:      input.Content,
		TotalMeters:  input.TotalMeters,
		TargetMeters: input.TargetMeters,
	})
}

func checkAIEnabled(ctx context.Context, settings settingsReader) error {
	enabled, err := settings.WorkoutAIEnabled(ctx)
	if err != nil {
		return err
	}
	if !enabled {
		return ErrAIGenerationDisabled
	}
	return nil
}

func validStroke(stroke string) bool {
	for _, s := range workoutDomain.Strokes {
		if s == stroke {
			return true
		}
	}
	return false
}

func validIntensity(intensity string) bool {
	for _, i := range workoutDomain.Intensities {
		if i == intensity {
			return true
		}
	}
	return false
}
