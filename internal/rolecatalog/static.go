package rolecatalog

import (
	"context"
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"sigs.k8s.io/yaml"
)

//go:embed seed.yaml
var seedYAML []byte

type seedFile struct {
	Roles []RoleDefinition `json:"roles"`
}

// StaticCatalog is an in-memory Catalog seeded from the embedded YAML role
// set. It needs no database and is the default catalog source.
type StaticCatalog struct {
	byName map[string]*RoleDefinition
	byAlt  map[string]*RoleDefinition
	defs   []RoleDefinition
}

// NewStaticCatalog builds a catalog from the embedded seed.
func NewStaticCatalog() (*StaticCatalog, error) {
	return newStaticCatalog(seedYAML)
}

func newStaticCatalog(data []byte) (*StaticCatalog, error) {
	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parsing role catalog seed: %w", err)
	}

	c := &StaticCatalog{
		byName: make(map[string]*RoleDefinition),
		byAlt:  make(map[string]*RoleDefinition),
		defs:   seed.Roles,
	}
	for idx := range c.defs {
		def := &c.defs[idx]
		def.NormalizedName = normalize(def.CanonicalName)
		c.byName[def.NormalizedName] = def
		for _, alt := range def.AlternativeNames {
			c.byAlt[normalize(alt)] = def
		}
	}
	return c, nil
}

// FindByName resolves a role by normalized name, canonical names first,
// alternative names second.
func (c *StaticCatalog) FindByName(_ context.Context, name string) (*RoleDefinition, error) {
	key := normalize(name)
	if def, ok := c.byName[key]; ok {
		out := *def
		return &out, nil
	}
	if def, ok := c.byAlt[key]; ok {
		out := *def
		return &out, nil
	}
	return nil, ErrDefinitionNotFound
}

// FindSimilar returns definitions whose canonical or similar names share
// text with the given name, ordered by canonical name for determinism.
func (c *StaticCatalog) FindSimilar(_ context.Context, name string) ([]RoleDefinition, error) {
	key := normalize(name)
	var matches []RoleDefinition
	for idx := range c.defs {
		def := &c.defs[idx]
		if textuallySimilar(key, def) {
			matches = append(matches, *def)
		}
	}
	sort.Slice(matches, func(a, b int) bool {
		return matches[a].CanonicalName < matches[b].CanonicalName
	})
	return matches, nil
}

// SubrolesOf returns the common subroles of a role. When a category is
// given, subroles mentioning the category sort first; the set is unchanged.
func (c *StaticCatalog) SubrolesOf(ctx context.Context, name, category string) ([]Subrole, error) {
	def, err := c.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	subs := make([]Subrole, len(def.CommonSubroles))
	copy(subs, def.CommonSubroles)
	if category != "" {
		cat := normalize(category)
		sort.SliceStable(subs, func(a, b int) bool {
			am := strings.Contains(normalize(subs[a].Name), cat)
			bm := strings.Contains(normalize(subs[b].Name), cat)
			return am && !bm
		})
	}
	return subs, nil
}

func textuallySimilar(key string, def *RoleDefinition) bool {
	if strings.Contains(def.NormalizedName, key) || strings.Contains(key, def.NormalizedName) {
		return true
	}
	for _, s := range def.SimilarRoles {
		ns := normalize(s)
		if strings.Contains(ns, key) || strings.Contains(key, ns) {
			return true
		}
	}
	return false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
