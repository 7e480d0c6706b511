package generator

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ContentProvider supplies human-readable scenario text for campaigns.
// The simulation core never inspects the output structurally; this is
// the whole surface it consumes.
type ContentProvider interface {
	GenerateEmail(prompt, target, urgency string) (string, error)
}

// GenerationStats counts what a provider has produced
type GenerationStats struct {
	TotalGenerated int `json:"total_generated"`
	Failed         int `json:"failed"`
}

// maxEmailLength truncates runaway content
const maxEmailLength = 2000

var defaultTemplates = []string{
	"Your account has been compromised. Click here to verify: %s",
	"Urgent: Password reset required. %s",
	"Security alert: Unusual activity detected. %s",
	"Account suspended. Reactivate now: %s",
}

var defaultKeywords = []string{"urgent", "password", "account", "verify", "login", "security"}

var urgencyIndicators = map[string][]string{
	"low":    {"Please", "Kindly"},
	"medium": {"Important", "Please note"},
	"high":   {"URGENT", "IMMEDIATE ACTION REQUIRED", "CRITICAL"},
}

// TemplateProvider generates phishing-style emails from a fixed set of
// templates, with no external content source. It exists to exercise
// defensive configurations offline.
type TemplateProvider struct {
	logger    *logrus.Logger
	templates []string
	keywords  []string

	mu    sync.Mutex
	rng   *rand.Rand
	stats GenerationStats
}

// NewTemplateProvider creates a provider with the built-in templates
func NewTemplateProvider(logger *logrus.Logger) *TemplateProvider {
	if logger == nil {
		logger = logrus.New()
	}
	return &TemplateProvider{
		logger:    logger,
		templates: defaultTemplates,
		keywords:  defaultKeywords,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// GenerateEmail assembles an email from a random template, an urgency
// prefix, a fake verification link and a sample of suspicious keywords.
func (p *TemplateProvider) GenerateEmail(prompt, target, urgency string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	prefixes, ok := urgencyIndicators[urgency]
	if !ok {
		prefixes = urgencyIndicators["medium"]
	}
	prefix := prefixes[p.rng.Intn(len(prefixes))]

	template := p.templates[p.rng.Intn(len(p.templates))]
	fakeLink := fmt.Sprintf("https://secure-%04d.com/verify", 1000+p.rng.Intn(9000))

	keywords := p.sampleKeywords(3)

	email := strings.TrimSpace(fmt.Sprintf(`%s %s

%s

Additional keywords: %s

Best regards,
Security Team`,
		prefix, prompt,
		fmt.Sprintf(template, fakeLink),
		strings.Join(keywords, ", "),
	))

	if len(email) > maxEmailLength {
		email = email[:maxEmailLength] + "..."
	}

	p.stats.TotalGenerated++
	p.logger.WithFields(logrus.Fields{
		"target":  target,
		"urgency": urgency,
		"length":  len(email),
	}).Debug("phishing email generated")

	return email, nil
}

// sampleKeywords picks up to n distinct keywords
func (p *TemplateProvider) sampleKeywords(n int) []string {
	if n > len(p.keywords) {
		n = len(p.keywords)
	}
	perm := p.rng.Perm(len(p.keywords))
	out := make([]string, 0, n)
	for _, idx := range perm[:n] {
		out = append(out, p.keywords[idx])
	}
	return out
}

// Stats returns a copy of the generation counters
func (p *TemplateProvider) Stats() GenerationStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

// ResetStats clears the generation counters
func (p *TemplateProvider) ResetStats() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stats = GenerationStats{}
}
