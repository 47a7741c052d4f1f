package formation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ideahub/ideahub/internal/collab"
	"github.com/ideahub/ideahub/internal/directory"
	"github.com/ideahub/ideahub/internal/idea"
)

// Service orchestrates team formation on the idea aggregate: the approach
// state machine, role management, membership and suggestions. Every mutation
// is load, in-memory change, whole-aggregate save; a stale save surfaces as
// idea.ErrVersionConflict for the caller to retry.
type Service struct {
	ideas    idea.Repository
	users    directory.Directory
	notifier collab.Notifier
	suggest  *SuggestionService
	now      func() time.Time
}

// NewService creates a formation Service.
func NewService(ideas idea.Repository, users directory.Directory, suggest *SuggestionService, notifier collab.Notifier) *Service {
	return &Service{
		ideas:    ideas,
		users:    users,
		notifier: notifier,
		suggest:  suggest,
		now:      time.Now,
	}
}

// ApproachOutcome is the result of an approach status update. When a
// conflict blocks an unresolved selection, Conflict and Suggestions are set,
// the aggregate is untouched and Approach reflects its stored state.
type ApproachOutcome struct {
	Approach    idea.Approach
	Conflict    *Conflict
	Suggestions *Suggestions
	Intent      *idea.CollaborationIntent
}

// UpdateApproachStatus drives a candidate's approach through its lifecycle.
// Only the idea author may call it. Selecting a conflicting role without a
// resolution aborts with zero mutation and returns the conflict descriptor
// plus resolution suggestions; with a resolution, the strategy engine
// applies it. A selection outcome emits a CollaborationIntent.
func (s *Service) UpdateApproachStatus(ctx context.Context, actorID, ideaID, approachID uuid.UUID, target idea.ApproachStatus, res Resolution) (*ApproachOutcome, error) {
	ag, err := s.ideas.Load(ctx, ideaID)
	if err != nil {
		return nil, err
	}

	if ag.AuthorID != actorID {
		return nil, fmt.Errorf("%w: only the idea author can manage approaches", ErrPermissionDenied)
	}

	approach, err := ag.FindApproach(approachID)
	if err != nil {
		return nil, err
	}

	if !idea.CanTransition(approach.Status, target) {
		return nil, fmt.Errorf("%w: %s -> %s", idea.ErrInvalidTransition, approach.Status, target)
	}

	now := s.now()
	selected := false

	if target == idea.ApproachSelected {
		conflict := CheckRoleConflict(ag, approach.Role)

		switch {
		case conflict.HasConflict && res == nil:
			// Detect-then-resolve: never pick a default outcome. Return
			// the descriptor without persisting anything.
			suggestions := s.suggest.Generate(ctx, approach.Role, ag, approach.UserID)
			return &ApproachOutcome{
				Approach:    *approach,
				Conflict:    &conflict,
				Suggestions: &suggestions,
			}, nil

		case conflict.HasConflict:
			selected, err = applyResolution(ag, approach, res, actorID, now)
			if err != nil {
				return nil, err
			}

		default:
			// No conflict: assign directly. Ad hoc roles never create a
			// RoleNeeded entry retroactively.
			ag.AddMember(approach.UserID, approach.Role, actorID, now)
			stampApproach(approach, idea.ApproachSelected, actorID, now)
			selected = true
		}
	} else {
		stampApproach(approach, target, actorID, now)
	}

	if err := s.ideas.Save(ctx, ag); err != nil {
		return nil, err
	}

	outcome := &ApproachOutcome{Approach: *approach}
	if selected {
		intent := idea.CollaborationIntent{
			AuthorID:    ag.AuthorID,
			CandidateID: approach.UserID,
			IdeaID:      ag.ID,
			ApproachID:  approach.ID,
		}
		outcome.Intent = &intent
		if err := s.notifier.NotifySelection(ctx, intent); err != nil {
			// The selection is already committed; delivery is the
			// collaborator's problem to retry.
			slog.Error("collaboration notification failed", "error", err, "ideaId", ag.ID)
		}
	}
	return outcome, nil
}

// CreateApproach records a candidate's application for a role. Authors
// cannot approach their own ideas.
func (s *Service) CreateApproach(ctx context.Context, actorID, ideaID uuid.UUID, role, description string) (*idea.Approach, error) {
	ag, err := s.ideas.Load(ctx, ideaID)
	if err != nil {
		return nil, err
	}

	if ag.AuthorID == actorID {
		return nil, fmt.Errorf("%w: authors cannot approach their own idea", ErrPermissionDenied)
	}

	approach := idea.Approach{
		ID:          uuid.New(),
		UserID:      actorID,
		Role:        role,
		Description: description,
		Status:      idea.ApproachPending,
		CreatedAt:   s.now(),
	}
	ag.Approaches = append(ag.Approaches, approach)

	if err := s.ideas.Save(ctx, ag); err != nil {
		return nil, err
	}
	return &approach, nil
}

// RoleInput carries the author-supplied fields of a needed role.
type RoleInput struct {
	RoleType       string
	IsCore         bool
	MaxPositions   int
	Priority       int
	SkillsRequired []string
	Description    string
}

// AddRole declares a new needed role on the idea. Author only.
func (s *Service) AddRole(ctx context.Context, actorID, ideaID uuid.UUID, input RoleInput) (*idea.RoleNeeded, error) {
	ag, err := s.ideas.Load(ctx, ideaID)
	if err != nil {
		return nil, err
	}

	if d := Evaluate(ActionManageRoles, s.actorRoleOf(ag, actorID), ActorOutsider); !d.Allowed {
		return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, d.Reason)
	}

	entry, err := ag.AddRoleNeeded(idea.RoleNeeded{
		RoleType:       input.RoleType,
		IsCore:         input.IsCore,
		MaxPositions:   input.MaxPositions,
		Priority:       input.Priority,
		SkillsRequired: input.SkillsRequired,
		Description:    input.Description,
	})
	if err != nil {
		return nil, err
	}
	ag.RecomputeCompletion(s.now())

	if err := s.ideas.Save(ctx, ag); err != nil {
		return nil, err
	}
	out := *entry
	return &out, nil
}

// RemoveRole deletes a declared role. Author only; blocked while active
// members occupy the role.
func (s *Service) RemoveRole(ctx context.Context, actorID, ideaID, roleID uuid.UUID) error {
	ag, err := s.ideas.Load(ctx, ideaID)
	if err != nil {
		return err
	}

	if d := Evaluate(ActionManageRoles, s.actorRoleOf(ag, actorID), ActorOutsider); !d.Allowed {
		return fmt.Errorf("%w: %s", ErrPermissionDenied, d.Reason)
	}

	if err := ag.RemoveRoleNeeded(roleID); err != nil {
		return err
	}
	ag.RecomputeCompletion(s.now())

	return s.ideas.Save(ctx, ag)
}

// CheckConflict is the read-only conflict probe for a requested role.
func (s *Service) CheckConflict(ctx context.Context, ideaID uuid.UUID, role string) (Conflict, error) {
	ag, err := s.ideas.Load(ctx, ideaID)
	if err != nil {
		return Conflict{}, err
	}
	return CheckRoleConflict(ag, role), nil
}

// Suggestions produces subrole and alternative suggestions for a role.
func (s *Service) Suggestions(ctx context.Context, ideaID uuid.UUID, role string, candidateID uuid.UUID) (Suggestions, error) {
	ag, err := s.ideas.Load(ctx, ideaID)
	if err != nil {
		return Suggestions{}, err
	}
	return s.suggest.Generate(ctx, role, ag, candidateID), nil
}

// MemberView is a team member enriched with directory information and its
// active subroles.
type MemberView struct {
	Member   idea.TeamMember
	User     directory.UserRef
	Subroles []MemberView
}

// TeamView is the full team structure of an idea.
type TeamView struct {
	IdeaID            uuid.UUID
	Author            directory.UserRef
	RolesNeeded       []idea.RoleNeeded
	Members           []MemberView
	IsTeamComplete    bool
	TeamFormationDate *time.Time
	Metrics           idea.TeamMetrics
}

// TeamStructure returns the hierarchical team view, enriched through the
// identity directory. A missing directory record degrades to an id-only
// reference instead of failing the whole view.
func (s *Service) TeamStructure(ctx context.Context, ideaID uuid.UUID) (*TeamView, error) {
	ag, err := s.ideas.Load(ctx, ideaID)
	if err != nil {
		return nil, err
	}

	view := &TeamView{
		IdeaID:            ag.ID,
		Author:            s.resolveUser(ctx, ag.AuthorID),
		RolesNeeded:       append([]idea.RoleNeeded(nil), ag.RolesNeeded...),
		IsTeamComplete:    ag.IsTeamComplete,
		TeamFormationDate: ag.TeamFormationDate,
		Metrics:           ag.Metrics(),
	}

	for _, m := range ag.ActiveMembers() {
		if m.IsSubrole() {
			continue
		}
		mv := MemberView{Member: *m, User: s.resolveUser(ctx, m.UserID)}
		for _, sub := range ag.Subroles(m.ID) {
			mv.Subroles = append(mv.Subroles, MemberView{
				Member: *sub,
				User:   s.resolveUser(ctx, sub.UserID),
			})
		}
		view.Members = append(view.Members, mv)
	}
	return view, nil
}

// Metrics returns the team completeness summary for an idea.
func (s *Service) Metrics(ctx context.Context, ideaID uuid.UUID) (idea.TeamMetrics, error) {
	ag, err := s.ideas.Load(ctx, ideaID)
	if err != nil {
		return idea.TeamMetrics{}, err
	}
	return ag.Metrics(), nil
}

// SetLeadership promotes or demotes a member's lead flag. Author only.
func (s *Service) SetLeadership(ctx context.Context, actorID, ideaID, memberID uuid.UUID, isLead bool) error {
	ag, err := s.ideas.Load(ctx, ideaID)
	if err != nil {
		return err
	}

	if d := Evaluate(ActionManageLeadership, s.actorRoleOf(ag, actorID), ActorOutsider); !d.Allowed {
		return fmt.Errorf("%w: %s", ErrPermissionDenied, d.Reason)
	}

	member, err := ag.FindMember(memberID)
	if err != nil {
		return err
	}
	if member.Status != idea.MemberActive {
		return idea.ErrMemberNotFound
	}
	member.IsLead = isLead

	return s.ideas.Save(ctx, ag)
}

// UpdateMemberRole renames a member's role. Author only; the new role must
// not collide with another active member.
func (s *Service) UpdateMemberRole(ctx context.Context, actorID, ideaID, memberID uuid.UUID, newRole string) error {
	ag, err := s.ideas.Load(ctx, ideaID)
	if err != nil {
		return err
	}

	if d := Evaluate(ActionManageRoles, s.actorRoleOf(ag, actorID), ActorOutsider); !d.Allowed {
		return fmt.Errorf("%w: %s", ErrPermissionDenied, d.Reason)
	}

	if err := ag.RenameMemberRole(memberID, newRole, s.now()); err != nil {
		return err
	}

	return s.ideas.Save(ctx, ag)
}

// RemoveMember soft-removes a member, cascading its subroles. The
// permission matrix decides: author removes anyone, a lead removes
// ordinary members only.
func (s *Service) RemoveMember(ctx context.Context, actorID, ideaID, memberID uuid.UUID) error {
	ag, err := s.ideas.Load(ctx, ideaID)
	if err != nil {
		return err
	}

	member, err := ag.FindMember(memberID)
	if err != nil {
		return err
	}

	targetRole := ActorMember
	if member.IsLead {
		targetRole = ActorLead
	}
	if d := Evaluate(ActionRemoveMember, s.actorRoleOf(ag, actorID), targetRole); !d.Allowed {
		return fmt.Errorf("%w: %s", ErrPermissionDenied, d.Reason)
	}

	if err := ag.RemoveMember(memberID, s.now()); err != nil {
		return err
	}

	return s.ideas.Save(ctx, ag)
}

// AddSubrole attaches a subrole under a main-role member. The author may
// manage any member's subroles; a member only their own.
func (s *Service) AddSubrole(ctx context.Context, actorID, ideaID, parentMemberID, userID uuid.UUID, role string) (*idea.TeamMember, error) {
	ag, err := s.ideas.Load(ctx, ideaID)
	if err != nil {
		return nil, err
	}

	parent, err := ag.FindMember(parentMemberID)
	if err != nil {
		return nil, err
	}
	if err := s.checkSubroleOwnership(ag, actorID, parent); err != nil {
		return nil, err
	}

	sub, err := ag.AddSubrole(parentMemberID, userID, role, actorID, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.ideas.Save(ctx, ag); err != nil {
		return nil, err
	}
	out := *sub
	return &out, nil
}

// RemoveSubrole soft-removes a subrole under the given parent member.
func (s *Service) RemoveSubrole(ctx context.Context, actorID, ideaID, parentMemberID, subroleID uuid.UUID) error {
	ag, err := s.ideas.Load(ctx, ideaID)
	if err != nil {
		return err
	}

	parent, err := ag.FindMember(parentMemberID)
	if err != nil {
		return err
	}
	if err := s.checkSubroleOwnership(ag, actorID, parent); err != nil {
		return err
	}

	sub, err := ag.FindMember(subroleID)
	if err != nil {
		return err
	}
	if sub.ParentRoleID == nil || *sub.ParentRoleID != parentMemberID {
		return idea.ErrMemberNotFound
	}

	if err := ag.RemoveMember(subroleID, s.now()); err != nil {
		return err
	}

	return s.ideas.Save(ctx, ag)
}

// checkSubroleOwnership enforces that subroles are managed by the author or
// by the member who owns the parent role.
func (s *Service) checkSubroleOwnership(ag *idea.Idea, actorID uuid.UUID, parent *idea.TeamMember) error {
	if d := Evaluate(ActionManageSubroles, s.actorRoleOf(ag, actorID), ActorOutsider); !d.Allowed {
		return fmt.Errorf("%w: %s", ErrPermissionDenied, d.Reason)
	}
	if actorID != ag.AuthorID && parent.UserID != actorID {
		return fmt.Errorf("%w: members can only manage subroles under their own role", ErrPermissionDenied)
	}
	return nil
}

// actorRoleOf derives the actor's position relative to the idea's team.
func (s *Service) actorRoleOf(ag *idea.Idea, userID uuid.UUID) ActorRole {
	if ag.AuthorID == userID {
		return ActorAuthor
	}
	role := ActorOutsider
	for _, m := range ag.ActiveMembers() {
		if m.UserID != userID {
			continue
		}
		if m.IsLead {
			return ActorLead
		}
		role = ActorMember
	}
	return role
}

// resolveUser looks up a user in the directory, degrading to an id-only
// reference when the record is missing or the directory errors.
func (s *Service) resolveUser(ctx context.Context, userID uuid.UUID) directory.UserRef {
	u, err := s.users.Resolve(ctx, userID)
	if err != nil {
		if !errors.Is(err, directory.ErrUserNotFound) {
			slog.Warn("directory lookup failed", "userId", userID, "error", err)
		}
		return directory.UserRef{ID: userID}
	}
	return *u
}
