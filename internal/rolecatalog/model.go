package rolecatalog

// Subrole is a common specialization of a catalog role.
type Subrole struct {
	Name       string `json:"name"`
	SkillLevel string `json:"skillLevel"`
}

// RoleDefinition is a canonical catalog entry for a role name.
type RoleDefinition struct {
	CanonicalName    string    `json:"canonicalName"`
	NormalizedName   string    `json:"normalizedName"`
	Category         string    `json:"category"`
	IsCore           bool      `json:"isCore"`
	ParentRole       string    `json:"parentRole,omitempty"`
	CommonSubroles   []Subrole `json:"commonSubroles,omitempty"`
	RequiredSkills   []string  `json:"requiredSkills,omitempty"`
	SimilarRoles     []string  `json:"similarRoles,omitempty"`
	AlternativeNames []string  `json:"alternativeNames,omitempty"`
	UsageCount       int       `json:"usageCount"`
}
