package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/devpilot-dev/devpilot/internal/apperrors"
	"github.com/devpilot-dev/devpilot/internal/logger"
	"github.com/devpilot-dev/devpilot/internal/models"
	"github.com/devpilot-dev/devpilot/internal/store"
)

const (
	defaultMaxStories = 8
	maxStoriesCap     = 20
)

// Generator produces up to max user-story lines from a project description.
// Implementations: the remote LLM generator and the deterministic local
// heuristic. The heuristic doubles as the fallback when the remote call
// fails or returns nothing usable.
type Generator interface {
	Generate(ctx context.Context, description string, max int) ([]string, error)
}

type StoryService struct {
	projects store.ProjectStore
	stories  store.StoryStore
	gen      Generator
	fallback Generator
}

// NewStoryService wires the configured generator; gen may be nil when no
// credential is configured, in which case only the heuristic runs.
func NewStoryService(st *store.Store, gen Generator) *StoryService {
	return &StoryService{
		projects: st.Projects,
		stories:  st.Stories,
		gen:      gen,
		fallback: HeuristicGenerator{},
	}
}

// Generate produces, persists and returns up to max user stories for the
// project. Remote failures degrade to the heuristic; they never surface.
func (s *StoryService) Generate(ctx context.Context, projectID uint, description string, max int) ([]string, error) {
	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("%w: projectDescription is required", apperrors.ErrValidation)
	}

	if max <= 0 {
		max = defaultMaxStories
	}
	if max > maxStoriesCap {
		max = maxStoriesCap
	}

	if _, err := s.projects.ByID(ctx, projectID); err != nil {
		return nil, err
	}

	var lines []string

	if s.gen != nil {
		var err error
		lines, err = s.gen.Generate(ctx, description, max)
		if err != nil {
			logger.Warn("remote story generation failed, using heuristic", "project_id", projectID, "err", err)
			lines = nil
		}
	}

	if len(lines) == 0 {
		var err error
		lines, err = s.fallback.Generate(ctx, description, max)
		if err != nil {
			return nil, apperrors.ErrGenerationFailed
		}
	}

	stored := make([]string, 0, len(lines))

	for _, text := range lines {
		story := models.UserStory{ProjectID: projectID, Text: text}
		if err := s.stories.Create(ctx, &story); err != nil {
			return nil, err
		}
		stored = append(stored, story.Text)
	}

	return stored, nil
}

// HeuristicGenerator is the deterministic local implementation: one story
// per sentence of the description, up to max.
type HeuristicGenerator struct{}

func (HeuristicGenerator) Generate(_ context.Context, description string, max int) ([]string, error) {
	sentences := strings.FieldsFunc(description, func(r rune) bool {
		return r == '.' || r == '!' || r == '\n'
	})

	stories := make([]string, 0, max)

	for _, sentence := range sentences {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		stories = append(stories, fmt.Sprintf("As a user, I want to %s, so that I get value.", strings.ToLower(sentence)))
		if len(stories) == max {
			break
		}
	}

	return stories, nil
}
