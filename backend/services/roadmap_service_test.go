package services

import (
	"math"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"qizz/backend/models"
)

func newRoadmapService(t *testing.T) *RoadmapService {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.RoadmapProgress{}))
	return NewRoadmapService(db)
}

func TestCatalog(t *testing.T) {
	svc := newRoadmapService(t)

	catalog := svc.Catalog()
	assert.Len(t, catalog, 5)
	for _, roadmap := range catalog {
		assert.NotEmpty(t, roadmap.ID)
		assert.NotEmpty(t, roadmap.Title)
		assert.NotEmpty(t, roadmap.Topics)
		assert.NotEmpty(t, roadmap.Resources)
	}
}

func TestFind(t *testing.T) {
	svc := newRoadmapService(t)

	roadmap, ok := svc.Find("frontend-development")
	assert.True(t, ok)
	assert.Equal(t, "Frontend Development", roadmap.Title)

	_, ok = svc.Find("underwater-basket-weaving")
	assert.False(t, ok)
}

func TestBuildLearningPath(t *testing.T) {
	svc := newRoadmapService(t)
	roadmap, ok := svc.Find("backend-development")
	require.True(t, ok)

	phases := svc.BuildLearningPath(roadmap)
	require.NotEmpty(t, phases)
	assert.Equal(t, "Foundation", phases[0].Phase)

	// Topics are chunked in pairs and all of them are placed
	total := 0
	for _, phase := range phases {
		assert.LessOrEqual(t, len(phase.Topics), 2)
		assert.NotEmpty(t, phase.Duration)
		for _, topic := range phase.Topics {
			assert.NotEmpty(t, topic.Title)
			assert.NotEmpty(t, topic.Description)
		}
		total += len(phase.Topics)
	}
	assert.Equal(t, len(roadmap.Topics), total)
}

func TestRoadmapProgressLifecycle(t *testing.T) {
	svc := newRoadmapService(t)

	progress, err := svc.GetOrCreateProgress(1, "data-science")
	require.NoError(t, err)
	assert.Equal(t, "Foundation", progress.CurrentPhase)
	assert.Equal(t, 0, progress.PercentComplete)

	roadmap, _ := svc.Find("data-science")
	progress, err = svc.UpdateProgress(1, "data-science", roadmap.Topics[0], "Intermediate")
	require.NoError(t, err)
	assert.Equal(t, "Intermediate", progress.CurrentPhase)
	assert.Equal(t, []string{roadmap.Topics[0]}, progress.CompletedTopicList())
	want := int(math.Round(100 / float64(len(roadmap.Topics))))
	assert.Equal(t, want, progress.PercentComplete)

	// Same topic twice is a no-op for the counter
	progress, err = svc.UpdateProgress(1, "data-science", roadmap.Topics[0], "")
	require.NoError(t, err)
	assert.Len(t, progress.CompletedTopicList(), 1)

	require.NoError(t, svc.Unfollow(1, "data-science"))
	fresh, err := svc.GetOrCreateProgress(1, "data-science")
	require.NoError(t, err)
	assert.Equal(t, 0, fresh.PercentComplete)
	assert.Empty(t, fresh.CompletedTopicList())
}

func TestUpdateProgressPercentRoundsHalfUp(t *testing.T) {
	svc := newRoadmapService(t)
	roadmap, _ := svc.Find("frontend-development")
	require.Len(t, roadmap.Topics, 12)

	var progress *models.RoadmapProgress
	var err error
	for _, topic := range roadmap.Topics[:5] {
		progress, err = svc.UpdateProgress(3, "frontend-development", topic, "")
		require.NoError(t, err)
	}
	// 5 of 12 is 41.67, which rounds up, not down
	assert.Equal(t, 42, progress.PercentComplete)
}

func TestUpdateProgressPercentCapped(t *testing.T) {
	svc := newRoadmapService(t)
	roadmap, _ := svc.Find("cybersecurity")

	var progress *models.RoadmapProgress
	var err error
	for _, topic := range roadmap.Topics {
		progress, err = svc.UpdateProgress(2, "cybersecurity", topic, "")
		require.NoError(t, err)
	}
	assert.Equal(t, 100, progress.PercentComplete)

	// Extra unknown topics never push past 100
	progress, err = svc.UpdateProgress(2, "cybersecurity", "Bonus Topic", "")
	require.NoError(t, err)
	assert.Equal(t, 100, progress.PercentComplete)
}
