package generator

import (
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider() *TemplateProvider {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewTemplateProvider(logger)
}

func TestGenerateEmailContents(t *testing.T) {
	p := newTestProvider()

	email, err := p.GenerateEmail("Confirm your credentials", "employee", "high")
	require.NoError(t, err)

	assert.Contains(t, email, "Confirm your credentials")
	assert.Contains(t, email, "https://secure-")
	assert.Contains(t, email, "Additional keywords:")
	assert.Contains(t, email, "Best regards")
	assert.LessOrEqual(t, len(email), maxEmailLength+3)
}

func TestGenerateEmailUrgencyFallback(t *testing.T) {
	p := newTestProvider()

	// Unknown urgency falls back to the medium prefixes
	email, err := p.GenerateEmail("Check this", "user", "extreme")
	require.NoError(t, err)

	medium := urgencyIndicators["medium"]
	matched := false
	for _, prefix := range medium {
		if strings.HasPrefix(email, prefix) {
			matched = true
		}
	}
	assert.True(t, matched, "expected a medium urgency prefix, got: %q", email)
}

func TestGenerationStats(t *testing.T) {
	p := newTestProvider()

	for i := 0; i < 3; i++ {
		_, err := p.GenerateEmail("prompt", "user", "low")
		require.NoError(t, err)
	}

	assert.Equal(t, 3, p.Stats().TotalGenerated)

	p.ResetStats()
	assert.Equal(t, 0, p.Stats().TotalGenerated)
}
