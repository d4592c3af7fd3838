package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/devpilot-dev/devpilot/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	lines []string
	err   error
	calls int
}

func (s *stubGenerator) Generate(_ context.Context, _ string, _ int) ([]string, error) {
	s.calls++
	return s.lines, s.err
}

func TestHeuristicGeneratorTemplate(t *testing.T) {
	gen := HeuristicGenerator{}

	description := "Track tasks. Assign members. View metrics! Generate stories.\nManage roles."
	stories, err := gen.Generate(context.Background(), description, 3)
	require.NoError(t, err)

	// Five sentences, capped at three.
	require.Len(t, stories, 3)
	assert.Equal(t, "As a user, I want to track tasks, so that I get value.", stories[0])
	assert.Equal(t, "As a user, I want to assign members, so that I get value.", stories[1])
	assert.Equal(t, "As a user, I want to view metrics, so that I get value.", stories[2])
}

func TestHeuristicGeneratorDropsEmptySentences(t *testing.T) {
	gen := HeuristicGenerator{}

	stories, err := gen.Generate(context.Background(), "One... Two.!\n\n.Three.", 10)
	require.NoError(t, err)
	require.Len(t, stories, 3)
	for _, story := range stories {
		assert.NotEmpty(t, story)
		assert.Regexp(t, `^As a user, I want to .+, so that I get value\.$`, story)
	}
}

func TestGeneratePersistsStories(t *testing.T) {
	data := newMemData()
	project := data.addProject("p")
	gen := &stubGenerator{lines: []string{"As a PM, I want to plan, so that delivery is smooth."}}
	svc := NewStoryService(data.asStore(), gen)

	stories, err := svc.Generate(context.Background(), project.ID, "desc", 5)
	require.NoError(t, err)
	require.Len(t, stories, 1)

	stored, err := data.asStore().Stories.ListByProject(context.Background(), project.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, stories[0], stored[0].Text)
}

func TestGenerateFallsBackOnRemoteError(t *testing.T) {
	data := newMemData()
	project := data.addProject("p")
	gen := &stubGenerator{err: errors.New("upstream unreachable")}
	svc := NewStoryService(data.asStore(), gen)

	stories, err := svc.Generate(context.Background(), project.ID, "Build the thing. Ship it.", 5)
	require.NoError(t, err)
	require.Len(t, stories, 2)
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, "As a user, I want to build the thing, so that I get value.", stories[0])

	// The fallback persisted exactly once, no partial remote writes.
	stored, err := data.asStore().Stories.ListByProject(context.Background(), project.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestGenerateFallsBackOnEmptyRemoteResult(t *testing.T) {
	data := newMemData()
	project := data.addProject("p")
	gen := &stubGenerator{lines: nil}
	svc := NewStoryService(data.asStore(), gen)

	stories, err := svc.Generate(context.Background(), project.ID, "Only sentence here.", 5)
	require.NoError(t, err)
	require.Len(t, stories, 1)
}

func TestGenerateWithoutGeneratorUsesHeuristic(t *testing.T) {
	data := newMemData()
	project := data.addProject("p")
	svc := NewStoryService(data.asStore(), nil)

	stories, err := svc.Generate(context.Background(), project.ID, "First. Second.", 0)
	require.NoError(t, err)
	assert.Len(t, stories, 2)
}

func TestGenerateValidation(t *testing.T) {
	data := newMemData()
	project := data.addProject("p")
	svc := NewStoryService(data.asStore(), nil)
	ctx := context.Background()

	_, err := svc.Generate(ctx, project.ID, "   ", 3)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Generate(ctx, 999, "A description.", 3)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGenerateCapsMaxStories(t *testing.T) {
	data := newMemData()
	project := data.addProject("p")

	var sentences string
	for i := 0; i < 30; i++ {
		sentences += fmt.Sprintf("Sentence number %d. ", i)
	}
	svc := NewStoryService(data.asStore(), nil)

	stories, err := svc.Generate(context.Background(), project.ID, sentences, 100)
	require.NoError(t, err)
	assert.Len(t, stories, maxStoriesCap)
}
