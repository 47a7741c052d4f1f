package formation

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/ideahub/ideahub/internal/idea"
	"github.com/ideahub/ideahub/internal/rolecatalog"
)

const (
	maxSubroleSuggestions     = 5
	maxAlternativeSuggestions = 3
)

// Alternative is an open role slot offered instead of the requested one.
type Alternative struct {
	RoleType      string
	OpenPositions int
	Priority      int
}

// Suggestions are resolution options for a requested role: catalog-backed
// subroles, open alternative slots, and pattern-derived variants when the
// catalog has nothing to offer.
type Suggestions struct {
	Subroles     []rolecatalog.Subrole
	Alternatives []Alternative
	Patterns     []string
}

// SuggestionService produces role suggestions from an injected Catalog with
// a deterministic static fallback. It never returns an error: catalog
// failures degrade to the pattern table.
type SuggestionService struct {
	catalog rolecatalog.Catalog
}

// NewSuggestionService creates a SuggestionService over the given catalog.
func NewSuggestionService(catalog rolecatalog.Catalog) *SuggestionService {
	return &SuggestionService{catalog: catalog}
}

// rolePatterns is the static fallback, keyed by substring match against the
// normalized requested role. Families are probed in declaration order so
// the output is deterministic.
var rolePatterns = []struct {
	family   string
	variants []string
}{
	{"developer", []string{"Frontend Developer", "Backend Developer", "Mobile Developer", "Full-Stack Developer"}},
	{"engineer", []string{"DevOps Engineer", "QA Engineer", "Data Engineer"}},
	{"designer", []string{"UI Designer", "UX Designer", "Graphic Designer"}},
	{"marketing", []string{"Content Marketer", "Social Media Manager", "SEO Specialist"}},
	{"manager", []string{"Project Coordinator", "Product Analyst", "Scrum Master"}},
	{"writer", []string{"Copywriter", "Technical Writer", "Editor"}},
	{"analyst", []string{"Data Engineer", "BI Analyst", "Machine Learning Engineer"}},
	{"data", []string{"Data Engineer", "BI Analyst", "Machine Learning Engineer"}},
}

// Generate builds resolution suggestions for a requested role on an idea.
// candidateID, when non-nil UUID, excludes alternative roles the candidate
// already holds.
func (s *SuggestionService) Generate(ctx context.Context, requestedRole string, ag *idea.Idea, candidateID uuid.UUID) Suggestions {
	var out Suggestions

	subroles, ok := s.catalogSubroles(ctx, requestedRole, ag)
	if ok {
		out.Subroles = subroles
	} else {
		out.Patterns = patternVariants(requestedRole)
	}

	out.Alternatives = openAlternatives(ag, requestedRole, candidateID)
	return out
}

// catalogSubroles resolves the role through the catalog (exact, alternative
// name, then fuzzy) and narrows the subroles against the current team.
func (s *SuggestionService) catalogSubroles(ctx context.Context, requestedRole string, ag *idea.Idea) ([]rolecatalog.Subrole, bool) {
	name := requestedRole

	if _, err := s.catalog.FindByName(ctx, name); err != nil {
		if !errors.Is(err, rolecatalog.ErrDefinitionNotFound) {
			slog.Warn("role catalog lookup failed; using pattern fallback", "role", requestedRole, "error", err)
			return nil, false
		}
		similar, err := s.catalog.FindSimilar(ctx, name)
		if err != nil || len(similar) == 0 {
			return nil, false
		}
		name = similar[0].CanonicalName
	}

	subs, err := s.catalog.SubrolesOf(ctx, name, ag.Category)
	if err != nil {
		slog.Warn("role catalog subrole lookup failed; using pattern fallback", "role", requestedRole, "error", err)
		return nil, false
	}
	if len(subs) == 0 {
		return nil, false
	}

	var narrowed []rolecatalog.Subrole
	for _, sub := range subs {
		if ag.FindActiveMemberByRole(idea.NormalizeRole(sub.Name)) != nil {
			continue
		}
		narrowed = append(narrowed, sub)
		if len(narrowed) == maxSubroleSuggestions {
			break
		}
	}
	if len(narrowed) == 0 {
		return nil, false
	}
	return narrowed, true
}

// patternVariants is the deterministic fallback: the first matching family
// wins; with no family match, generic variants are synthesized.
func patternVariants(requestedRole string) []string {
	normalized := idea.NormalizeRole(requestedRole)
	for _, p := range rolePatterns {
		if strings.Contains(normalized, p.family) {
			return append([]string(nil), p.variants...)
		}
	}

	display := strings.TrimSpace(requestedRole)
	return []string{
		"Senior " + display,
		"Lead " + display,
		display + " Specialist",
	}
}

// openAlternatives lists under-capacity declared roles, excluding the
// requested role and any role the candidate already actively holds.
func openAlternatives(ag *idea.Idea, requestedRole string, candidateID uuid.UUID) []Alternative {
	requested := idea.NormalizeRole(requestedRole)

	held := make(map[string]bool)
	if candidateID != uuid.Nil {
		for _, m := range ag.ActiveMembers() {
			if m.UserID == candidateID {
				held[m.NormalizedRoleType] = true
			}
		}
	}

	var alts []Alternative
	for idx := range ag.RolesNeeded {
		rn := &ag.RolesNeeded[idx]
		if rn.NormalizedRoleType == requested || held[rn.NormalizedRoleType] {
			continue
		}
		if rn.CurrentPositions >= rn.MaxPositions {
			continue
		}
		alts = append(alts, Alternative{
			RoleType:      rn.RoleType,
			OpenPositions: rn.MaxPositions - rn.CurrentPositions,
			Priority:      rn.Priority,
		})
		if len(alts) == maxAlternativeSuggestions {
			break
		}
	}
	return alts
}
