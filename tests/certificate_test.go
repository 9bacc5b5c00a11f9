package tests

import (
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func completeCourseForCertificate(t *testing.T, title string) uint {
	t.Helper()

	course := seedCourse(t, title, []string{"Solo Topic"})
	doJSON(t, "PUT", fmt.Sprintf("/api/courses/%d/progress", course.ID), map[string]interface{}{
		"moduleId":  1,
		"completed": true,
	}, jwtToken)
	doJSON(t, "POST", fmt.Sprintf("/api/quiz/%d/final-exam/generate", course.ID), nil, jwtToken)
	doJSON(t, "POST", fmt.Sprintf("/api/quiz/%d/final-exam/submit", course.ID), map[string]interface{}{
		"answers": make([]int, 20),
	}, jwtToken)
	return course.ID
}

func TestGenerateCertificateRequiresCompletion(t *testing.T) {
	course := seedCourse(t, "Incomplete Cert Course", []string{"Unfinished"})

	resp, result := doJSON(t, "POST", fmt.Sprintf("/api/certificate/generate/%d", course.ID), nil, jwtToken)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Course not completed yet", result["message"])
}

func TestGenerateCertificate(t *testing.T) {
	courseID := completeCourseForCertificate(t, "Cert Course")

	resp, result := doJSON(t, "POST", fmt.Sprintf("/api/certificate/generate/%d", courseID), nil, jwtToken)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Certificate generated successfully", result["message"])

	certID := result["certificateId"].(string)
	assert.True(t, strings.HasPrefix(certID, "QIZZ-"))
	assert.Equal(t, fmt.Sprintf("/api/certificate/download/%d", courseID), result["certificateUrl"])

	// Generating again returns the stored certificate, not a new one
	resp, repeat := doJSON(t, "POST", fmt.Sprintf("/api/certificate/generate/%d", courseID), nil, jwtToken)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Certificate already generated", repeat["message"])
	assert.Equal(t, certID, repeat["certificateId"])
}

func TestAutoCertificate(t *testing.T) {
	courseID := completeCourseForCertificate(t, "Auto Cert Course")

	// The quiz-side route issues the same certificate
	resp, result := doJSON(t, "POST", fmt.Sprintf("/api/quiz/%d/auto-certificate", courseID), nil, jwtToken)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Certificate generated successfully", result["message"])
	assert.Equal(t, fmt.Sprintf("/api/certificate/download/%d", courseID), result["certificateUrl"])

	resp, repeat := doJSON(t, "POST", fmt.Sprintf("/api/certificate/generate/%d", courseID), nil, jwtToken)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Certificate already generated", repeat["message"])
}

func TestDownloadCertificate(t *testing.T) {
	courseID := completeCourseForCertificate(t, "Download Cert Course")
	doJSON(t, "POST", fmt.Sprintf("/api/certificate/generate/%d", courseID), nil, jwtToken)

	req := httptest.NewRequest("GET", fmt.Sprintf("/api/certificate/download/%d", courseID), nil)
	req.Header.Set("Authorization", "Bearer "+jwtToken)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "%PDF"))
}

func TestDownloadCertificateNotGenerated(t *testing.T) {
	courseID := completeCourseForCertificate(t, "No Cert Yet Course")

	resp, result := doJSON(t, "GET", fmt.Sprintf("/api/certificate/download/%d", courseID), nil, jwtToken)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Certificate not generated yet", result["message"])
}

func TestMyCertificates(t *testing.T) {
	courseID := completeCourseForCertificate(t, "My Certs Course")
	doJSON(t, "POST", fmt.Sprintf("/api/certificate/generate/%d", courseID), nil, jwtToken)

	resp, result := doJSON(t, "GET", "/api/certificate/my-certificates", nil, jwtToken)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	certificates := result["certificates"].([]interface{})
	assert.NotEmpty(t, certificates)

	found := false
	for _, item := range certificates {
		cert := item.(map[string]interface{})
		if cert["courseTitle"] == "My Certs Course" {
			found = true
			assert.Equal(t, true, cert["generated"])
			assert.Equal(t, float64(100), cert["score"])
		}
	}
	assert.True(t, found, "generated certificate should be listed")
}
