package services

import (
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var certIDRe = regexp.MustCompile(`^QIZZ-\d+-[0-9A-Z]{9}$`)

func TestNewCertificateID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		id := NewCertificateID()
		assert.Regexp(t, certIDRe, id)
		seen[id] = true
	}
	assert.Greater(t, len(seen), 1, "ids should not all collide")
}

func TestRenderCertificate(t *testing.T) {
	svc := NewCertificateService(t.TempDir())

	cert, err := svc.Render("Ada Lovelace", "Analytical Engines", 95, 7, 3)
	require.NoError(t, err)

	assert.Regexp(t, certIDRe, cert.ID)
	assert.Equal(t, "/api/certificate/download/3", cert.URL)
	assert.Contains(t, cert.Path, "certificate-7-3-")

	content, err := os.ReadFile(cert.Path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "%PDF"))
}

func TestRenderCertificateUniquePaths(t *testing.T) {
	svc := NewCertificateService(t.TempDir())

	first, err := svc.Render("A", "Course", 80, 1, 1)
	require.NoError(t, err)
	second, err := svc.Render("A", "Course", 80, 1, 1)
	require.NoError(t, err)

	assert.NotEqual(t, first.Path, second.Path)
}
