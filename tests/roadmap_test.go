package tests

import (
	"math"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestPopularRoadmaps(t *testing.T) {
	// Catalog is public
	resp, result := doJSON(t, "GET", "/api/roadmap/popular", nil, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	roadmaps := result["roadmaps"].([]interface{})
	assert.Len(t, roadmaps, 5)

	ids := make([]string, 0, len(roadmaps))
	for _, item := range roadmaps {
		roadmap := item.(map[string]interface{})
		ids = append(ids, roadmap["id"].(string))
		assert.NotEmpty(t, roadmap["title"])
		assert.NotEmpty(t, roadmap["topicCount"])
	}
	assert.Contains(t, ids, "frontend-development")
	assert.Contains(t, ids, "data-science")
}

func TestRoadmapDetail(t *testing.T) {
	resp, result := doJSON(t, "GET", "/api/roadmap/backend-development", nil, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	roadmap := result["roadmap"].(map[string]interface{})
	assert.Equal(t, "backend-development", roadmap["id"])

	phases := result["learningPath"].([]interface{})
	assert.NotEmpty(t, phases)
	first := phases[0].(map[string]interface{})
	assert.Equal(t, "Foundation", first["phase"])
	assert.NotEmpty(t, first["topics"])

	assert.NotEmpty(t, result["careerOpportunities"])
}

func TestRoadmapDetailNotFound(t *testing.T) {
	resp, _ := doJSON(t, "GET", "/api/roadmap/unknown-roadmap", nil, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestFollowRoadmap(t *testing.T) {
	resp, result := doJSON(t, "POST", "/api/roadmap/cybersecurity/follow", nil, jwtToken)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "cybersecurity", result["roadmapId"])
	assert.Equal(t, "Foundation", result["currentPhase"])
}

func TestRoadmapProgress(t *testing.T) {
	_, detail := doJSON(t, "GET", "/api/roadmap/mobile-development", nil, "")
	totalTopics := len(detail["roadmap"].(map[string]interface{})["topics"].([]interface{}))
	assert.Greater(t, totalTopics, 0)

	// First access starts the roadmap at zero
	resp, progress := doJSON(t, "GET", "/api/roadmap/mobile-development/progress", nil, jwtToken)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Foundation", progress["currentPhase"])
	assert.Equal(t, float64(0), progress["percentComplete"])

	topic := detail["roadmap"].(map[string]interface{})["topics"].([]interface{})[0].(string)
	resp, result := doJSON(t, "PUT", "/api/roadmap/mobile-development/progress", map[string]interface{}{
		"completedTopic": topic,
		"currentPhase":   "Intermediate",
	}, jwtToken)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	updated := result["progress"].(map[string]interface{})
	assert.Equal(t, "Intermediate", updated["currentPhase"])
	assert.Equal(t, []interface{}{topic}, updated["completedTopics"].([]interface{}))
	expected := math.Round(100 / float64(totalTopics))
	assert.Equal(t, expected, updated["percentComplete"])

	// Completing the same topic twice does not double count
	_, result = doJSON(t, "PUT", "/api/roadmap/mobile-development/progress", map[string]interface{}{
		"completedTopic": topic,
	}, jwtToken)
	updated = result["progress"].(map[string]interface{})
	assert.Len(t, updated["completedTopics"].([]interface{}), 1)
}

func TestUnfollowRoadmap(t *testing.T) {
	doJSON(t, "POST", "/api/roadmap/data-science/follow", nil, jwtToken)

	resp, result := doJSON(t, "DELETE", "/api/roadmap/data-science/follow", nil, jwtToken)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Roadmap unfollowed successfully", result["message"])

	// Following again starts fresh
	_, progress := doJSON(t, "GET", "/api/roadmap/data-science/progress", nil, jwtToken)
	assert.Equal(t, float64(0), progress["percentComplete"])
	assert.Empty(t, progress["completedTopics"])
}

func TestRoadmapProgressRequiresAuth(t *testing.T) {
	resp, _ := doJSON(t, "GET", "/api/roadmap/cybersecurity/progress", nil, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
