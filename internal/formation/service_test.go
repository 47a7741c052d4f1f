package formation_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ideahub/ideahub/internal/directory"
	"github.com/ideahub/ideahub/internal/formation"
	"github.com/ideahub/ideahub/internal/idea"
)

type mockIdeaRepo struct {
	createFunc func(ctx context.Context, i *idea.Idea) error
	loadFunc   func(ctx context.Context, id uuid.UUID) (*idea.Idea, error)
	saveFunc   func(ctx context.Context, i *idea.Idea) error
	listFunc   func(ctx context.Context, authorID *uuid.UUID) ([]idea.Idea, error)

	saveCalls int
}

func (m *mockIdeaRepo) Create(ctx context.Context, i *idea.Idea) error {
	return m.createFunc(ctx, i)
}

func (m *mockIdeaRepo) Load(ctx context.Context, id uuid.UUID) (*idea.Idea, error) {
	return m.loadFunc(ctx, id)
}

func (m *mockIdeaRepo) Save(ctx context.Context, i *idea.Idea) error {
	m.saveCalls++
	if m.saveFunc != nil {
		return m.saveFunc(ctx, i)
	}
	return nil
}

func (m *mockIdeaRepo) List(ctx context.Context, authorID *uuid.UUID) ([]idea.Idea, error) {
	return m.listFunc(ctx, authorID)
}

type mockDirectory struct {
	resolveFunc func(ctx context.Context, id uuid.UUID) (*directory.UserRef, error)
	searchFunc  func(ctx context.Context, query string, limit int) ([]directory.UserRef, error)
}

func (m *mockDirectory) Resolve(ctx context.Context, id uuid.UUID) (*directory.UserRef, error) {
	if m.resolveFunc != nil {
		return m.resolveFunc(ctx, id)
	}
	return &directory.UserRef{ID: id, DisplayName: "someone"}, nil
}

func (m *mockDirectory) Search(ctx context.Context, query string, limit int) ([]directory.UserRef, error) {
	return m.searchFunc(ctx, query, limit)
}

type mockNotifier struct {
	intents []idea.CollaborationIntent
	err     error
}

func (m *mockNotifier) NotifySelection(_ context.Context, intent idea.CollaborationIntent) error {
	m.intents = append(m.intents, intent)
	return m.err
}

func serviceForIdea(ag *idea.Idea) (*formation.Service, *mockIdeaRepo, *mockNotifier) {
	repo := &mockIdeaRepo{
		loadFunc: func(_ context.Context, id uuid.UUID) (*idea.Idea, error) {
			if id != ag.ID {
				return nil, idea.ErrIdeaNotFound
			}
			return ag, nil
		},
	}
	notifier := &mockNotifier{}
	svc := formation.NewService(repo, &mockDirectory{}, formation.NewSuggestionService(missRoleCatalog()), notifier)
	return svc, repo, notifier
}

func pendingApproach(ag *idea.Idea, role string) *idea.Approach {
	ag.Approaches = append(ag.Approaches, idea.Approach{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Role:   role,
		Status: idea.ApproachPending,
	})
	return &ag.Approaches[len(ag.Approaches)-1]
}

// --- UpdateApproachStatus Tests ---

func TestUpdateApproachStatus_OnlyAuthor(t *testing.T) {
	ag := newTestIdea()
	approach := pendingApproach(ag, "Designer")
	svc, repo, _ := serviceForIdea(ag)

	_, err := svc.UpdateApproachStatus(context.Background(), uuid.New(), ag.ID, approach.ID, idea.ApproachSelected, nil)
	assert.ErrorIs(t, err, formation.ErrPermissionDenied)
	assert.Zero(t, repo.saveCalls)
}

func TestUpdateApproachStatus_ApproachNotFound(t *testing.T) {
	ag := newTestIdea()
	svc, _, _ := serviceForIdea(ag)

	_, err := svc.UpdateApproachStatus(context.Background(), ag.AuthorID, ag.ID, uuid.New(), idea.ApproachSelected, nil)
	assert.ErrorIs(t, err, idea.ErrApproachNotFound)
}

func TestUpdateApproachStatus_InvalidTransition(t *testing.T) {
	ag := newTestIdea()
	approach := pendingApproach(ag, "Designer")
	approach.Status = idea.ApproachSelected
	svc, repo, _ := serviceForIdea(ag)

	_, err := svc.UpdateApproachStatus(context.Background(), ag.AuthorID, ag.ID, approach.ID, idea.ApproachSelected, nil)
	assert.ErrorIs(t, err, idea.ErrInvalidTransition)
	assert.Zero(t, repo.saveCalls)
}

func TestUpdateApproachStatus_SelectNoConflict(t *testing.T) {
	ag := newTestIdea()
	_, err := ag.AddRoleNeeded(idea.RoleNeeded{RoleType: "Designer"})
	require.NoError(t, err)
	approach := pendingApproach(ag, "Designer")
	svc, repo, notifier := serviceForIdea(ag)

	outcome, err := svc.UpdateApproachStatus(context.Background(), ag.AuthorID, ag.ID, approach.ID, idea.ApproachSelected, nil)
	require.NoError(t, err)

	assert.Nil(t, outcome.Conflict)
	assert.Equal(t, idea.ApproachSelected, outcome.Approach.Status)
	require.NotNil(t, outcome.Intent)
	assert.Equal(t, ag.AuthorID, outcome.Intent.AuthorID)
	assert.Equal(t, approach.UserID, outcome.Intent.CandidateID)
	assert.Equal(t, 1, repo.saveCalls)
	require.Len(t, notifier.intents, 1)
	assert.Equal(t, *outcome.Intent, notifier.intents[0])

	member := ag.FindActiveMemberByRole("designer")
	require.NotNil(t, member)
	assert.Equal(t, approach.UserID, member.UserID)
	assert.True(t, ag.IsTeamComplete)
}

func TestUpdateApproachStatus_ConflictWithoutResolution(t *testing.T) {
	ag := newTestIdea()
	ag.AddMember(uuid.New(), "Designer", ag.AuthorID, testTime)
	approach := pendingApproach(ag, "Designer")
	svc, repo, notifier := serviceForIdea(ag)

	outcome, err := svc.UpdateApproachStatus(context.Background(), ag.AuthorID, ag.ID, approach.ID, idea.ApproachSelected, nil)
	require.NoError(t, err)

	require.NotNil(t, outcome.Conflict)
	assert.Equal(t, formation.ConflictExact, outcome.Conflict.Type)
	require.NotNil(t, outcome.Suggestions)
	assert.NotEmpty(t, outcome.Suggestions.Patterns)
	assert.Nil(t, outcome.Intent)

	// Zero mutation: nothing saved, approach still pending, team unchanged.
	assert.Zero(t, repo.saveCalls)
	assert.Equal(t, idea.ApproachPending, approach.Status)
	assert.Equal(t, 1, ag.CurrentTeamSize())
	assert.Empty(t, notifier.intents)
}

func TestUpdateApproachStatus_ConflictWithResolution(t *testing.T) {
	ag := newTestIdea()
	holder := ag.AddMember(uuid.New(), "Designer", ag.AuthorID, testTime)
	approach := pendingApproach(ag, "Designer")
	svc, repo, notifier := serviceForIdea(ag)

	outcome, err := svc.UpdateApproachStatus(context.Background(), ag.AuthorID, ag.ID, approach.ID,
		idea.ApproachSelected, formation.CreateSubrole{SubroleName: "UX Designer"})
	require.NoError(t, err)

	assert.Nil(t, outcome.Conflict)
	assert.Equal(t, idea.ApproachSelected, outcome.Approach.Status)
	require.NotNil(t, outcome.Intent)
	assert.Equal(t, 1, repo.saveCalls)
	require.Len(t, notifier.intents, 1)

	subs := ag.Subroles(holder.ID)
	require.Len(t, subs, 1)
	assert.Equal(t, "UX Designer", subs[0].AssignedRole)
}

func TestUpdateApproachStatus_DeclineResolutionEmitsNoIntent(t *testing.T) {
	ag := newTestIdea()
	ag.AddMember(uuid.New(), "Designer", ag.AuthorID, testTime)
	approach := pendingApproach(ag, "Designer")
	svc, repo, notifier := serviceForIdea(ag)

	outcome, err := svc.UpdateApproachStatus(context.Background(), ag.AuthorID, ag.ID, approach.ID,
		idea.ApproachSelected, formation.Decline{})
	require.NoError(t, err)

	assert.Equal(t, idea.ApproachDeclined, outcome.Approach.Status)
	assert.Nil(t, outcome.Intent)
	assert.Equal(t, 1, repo.saveCalls)
	assert.Empty(t, notifier.intents)
}

func TestUpdateApproachStatus_DeclineTarget(t *testing.T) {
	ag := newTestIdea()
	approach := pendingApproach(ag, "Designer")
	svc, repo, _ := serviceForIdea(ag)

	outcome, err := svc.UpdateApproachStatus(context.Background(), ag.AuthorID, ag.ID, approach.ID, idea.ApproachDeclined, nil)
	require.NoError(t, err)

	assert.Equal(t, idea.ApproachDeclined, outcome.Approach.Status)
	require.NotNil(t, outcome.Approach.StatusUpdatedBy)
	assert.Equal(t, ag.AuthorID, *outcome.Approach.StatusUpdatedBy)
	assert.Equal(t, 1, repo.saveCalls)
	assert.Equal(t, 0, ag.CurrentTeamSize())
}

func TestUpdateApproachStatus_VersionConflictPropagates(t *testing.T) {
	ag := newTestIdea()
	approach := pendingApproach(ag, "Designer")
	svc, repo, _ := serviceForIdea(ag)
	repo.saveFunc = func(_ context.Context, _ *idea.Idea) error {
		return idea.ErrVersionConflict
	}

	_, err := svc.UpdateApproachStatus(context.Background(), ag.AuthorID, ag.ID, approach.ID, idea.ApproachQueued, nil)
	assert.ErrorIs(t, err, idea.ErrVersionConflict)
}

func TestUpdateApproachStatus_NotifierFailureDoesNotFail(t *testing.T) {
	ag := newTestIdea()
	approach := pendingApproach(ag, "Designer")
	svc, _, notifier := serviceForIdea(ag)
	notifier.err = errors.New("broker down")

	outcome, err := svc.UpdateApproachStatus(context.Background(), ag.AuthorID, ag.ID, approach.ID, idea.ApproachSelected, nil)
	require.NoError(t, err)
	assert.NotNil(t, outcome.Intent)
}

// --- CreateApproach Tests ---

func TestCreateApproach(t *testing.T) {
	ag := newTestIdea()
	svc, repo, _ := serviceForIdea(ag)
	candidate := uuid.New()

	approach, err := svc.CreateApproach(context.Background(), candidate, ag.ID, "Designer", "I have shipped two apps")
	require.NoError(t, err)

	assert.Equal(t, idea.ApproachPending, approach.Status)
	assert.Equal(t, candidate, approach.UserID)
	assert.Equal(t, 1, repo.saveCalls)
	require.Len(t, ag.Approaches, 1)
}

func TestCreateApproach_AuthorCannotApproachOwnIdea(t *testing.T) {
	ag := newTestIdea()
	svc, repo, _ := serviceForIdea(ag)

	_, err := svc.CreateApproach(context.Background(), ag.AuthorID, ag.ID, "Designer", "")
	assert.ErrorIs(t, err, formation.ErrPermissionDenied)
	assert.Zero(t, repo.saveCalls)
}

// --- Role Management Tests ---

func TestAddRole_AuthorOnly(t *testing.T) {
	ag := newTestIdea()
	svc, repo, _ := serviceForIdea(ag)

	_, err := svc.AddRole(context.Background(), uuid.New(), ag.ID, formation.RoleInput{RoleType: "Designer"})
	assert.ErrorIs(t, err, formation.ErrPermissionDenied)
	assert.Zero(t, repo.saveCalls)

	entry, err := svc.AddRole(context.Background(), ag.AuthorID, ag.ID, formation.RoleInput{RoleType: "Designer"})
	require.NoError(t, err)
	assert.Equal(t, "designer", entry.NormalizedRoleType)
	assert.Equal(t, 1, repo.saveCalls)
}

func TestAddRole_Duplicate(t *testing.T) {
	ag := newTestIdea()
	_, err := ag.AddRoleNeeded(idea.RoleNeeded{RoleType: "Designer"})
	require.NoError(t, err)
	svc, _, _ := serviceForIdea(ag)

	_, err = svc.AddRole(context.Background(), ag.AuthorID, ag.ID, formation.RoleInput{RoleType: "DESIGNER"})
	assert.ErrorIs(t, err, idea.ErrDuplicateRole)
}

func TestRemoveRole_BlockedWhileOccupied(t *testing.T) {
	ag := newTestIdea()
	rn, err := ag.AddRoleNeeded(idea.RoleNeeded{RoleType: "Designer"})
	require.NoError(t, err)
	ag.AddMember(uuid.New(), "Designer", ag.AuthorID, testTime)
	svc, _, _ := serviceForIdea(ag)

	err = svc.RemoveRole(context.Background(), ag.AuthorID, ag.ID, rn.ID)
	assert.ErrorIs(t, err, idea.ErrRoleOccupied)
}

// --- Membership Management Tests ---

func TestSetLeadership(t *testing.T) {
	ag := newTestIdea()
	m := ag.AddMember(uuid.New(), "Designer", ag.AuthorID, testTime)
	svc, repo, _ := serviceForIdea(ag)

	err := svc.SetLeadership(context.Background(), m.UserID, ag.ID, m.ID, true)
	assert.ErrorIs(t, err, formation.ErrPermissionDenied)

	require.NoError(t, svc.SetLeadership(context.Background(), ag.AuthorID, ag.ID, m.ID, true))
	assert.True(t, m.IsLead)
	assert.Equal(t, 1, repo.saveCalls)
}

func TestUpdateMemberRole_Collision(t *testing.T) {
	ag := newTestIdea()
	ag.AddMember(uuid.New(), "Designer", ag.AuthorID, testTime)
	m := ag.AddMember(uuid.New(), "Developer", ag.AuthorID, testTime)
	svc, _, _ := serviceForIdea(ag)

	err := svc.UpdateMemberRole(context.Background(), ag.AuthorID, ag.ID, m.ID, "designer")
	assert.ErrorIs(t, err, idea.ErrDuplicateRole)
}

func TestRemoveMember_LeadCannotRemoveLead(t *testing.T) {
	ag := newTestIdea()
	lead1 := ag.AddMember(uuid.New(), "Designer", ag.AuthorID, testTime)
	lead1.IsLead = true
	lead2 := ag.AddMember(uuid.New(), "Developer", ag.AuthorID, testTime)
	lead2.IsLead = true
	svc, repo, _ := serviceForIdea(ag)

	err := svc.RemoveMember(context.Background(), lead1.UserID, ag.ID, lead2.ID)
	assert.ErrorIs(t, err, formation.ErrPermissionDenied)
	assert.Zero(t, repo.saveCalls)
}

func TestRemoveMember_LeadRemovesOrdinaryMember(t *testing.T) {
	ag := newTestIdea()
	lead := ag.AddMember(uuid.New(), "Designer", ag.AuthorID, testTime)
	lead.IsLead = true
	m := ag.AddMember(uuid.New(), "Developer", ag.AuthorID, testTime)
	svc, repo, _ := serviceForIdea(ag)

	require.NoError(t, svc.RemoveMember(context.Background(), lead.UserID, ag.ID, m.ID))
	assert.Equal(t, idea.MemberRemoved, m.Status)
	assert.Equal(t, 1, repo.saveCalls)
}

// --- Subrole Management Tests ---

func TestAddSubrole_MemberManagesOwnRoleOnly(t *testing.T) {
	ag := newTestIdea()
	m1 := ag.AddMember(uuid.New(), "Designer", ag.AuthorID, testTime)
	m2 := ag.AddMember(uuid.New(), "Developer", ag.AuthorID, testTime)
	svc, _, _ := serviceForIdea(ag)

	// m1 cannot attach a subrole under m2's role.
	_, err := svc.AddSubrole(context.Background(), m1.UserID, ag.ID, m2.ID, uuid.New(), "Junior Developer")
	assert.ErrorIs(t, err, formation.ErrPermissionDenied)

	// m1 manages their own role.
	sub, err := svc.AddSubrole(context.Background(), m1.UserID, ag.ID, m1.ID, uuid.New(), "Junior Designer")
	require.NoError(t, err)
	assert.Equal(t, m1.ID, *sub.ParentRoleID)
}

func TestAddSubrole_OutsiderDenied(t *testing.T) {
	ag := newTestIdea()
	m := ag.AddMember(uuid.New(), "Designer", ag.AuthorID, testTime)
	svc, _, _ := serviceForIdea(ag)

	_, err := svc.AddSubrole(context.Background(), uuid.New(), ag.ID, m.ID, uuid.New(), "Junior Designer")
	assert.ErrorIs(t, err, formation.ErrPermissionDenied)
}

func TestRemoveSubrole_WrongParent(t *testing.T) {
	ag := newTestIdea()
	m1 := ag.AddMember(uuid.New(), "Designer", ag.AuthorID, testTime)
	m2 := ag.AddMember(uuid.New(), "Developer", ag.AuthorID, testTime)
	sub, err := ag.AddSubrole(m2.ID, uuid.New(), "Junior Developer", ag.AuthorID, testTime)
	require.NoError(t, err)
	svc, _, _ := serviceForIdea(ag)

	err = svc.RemoveSubrole(context.Background(), ag.AuthorID, ag.ID, m1.ID, sub.ID)
	assert.ErrorIs(t, err, idea.ErrMemberNotFound)
}

// --- View Tests ---

func TestTeamStructure_HierarchyAndDegradedUsers(t *testing.T) {
	ag := newTestIdea()
	_, err := ag.AddRoleNeeded(idea.RoleNeeded{RoleType: "Designer"})
	require.NoError(t, err)
	m := ag.AddMember(uuid.New(), "Designer", ag.AuthorID, testTime)
	sub, err := ag.AddSubrole(m.ID, uuid.New(), "UI Designer", ag.AuthorID, testTime)
	require.NoError(t, err)

	repo := &mockIdeaRepo{
		loadFunc: func(_ context.Context, _ uuid.UUID) (*idea.Idea, error) { return ag, nil },
	}
	dir := &mockDirectory{
		resolveFunc: func(_ context.Context, id uuid.UUID) (*directory.UserRef, error) {
			if id == m.UserID {
				return &directory.UserRef{ID: id, DisplayName: "Dana"}, nil
			}
			return nil, directory.ErrUserNotFound
		},
	}
	svc := formation.NewService(repo, dir, formation.NewSuggestionService(missRoleCatalog()), &mockNotifier{})

	view, err := svc.TeamStructure(context.Background(), ag.ID)
	require.NoError(t, err)

	assert.Equal(t, ag.AuthorID, view.Author.ID)
	assert.Empty(t, view.Author.DisplayName) // missing record degrades to id-only
	require.Len(t, view.Members, 1)
	assert.Equal(t, "Dana", view.Members[0].User.DisplayName)
	require.Len(t, view.Members[0].Subroles, 1)
	assert.Equal(t, sub.ID, view.Members[0].Subroles[0].Member.ID)
	assert.True(t, view.IsTeamComplete)
}

func TestCheckConflictAndSuggestions(t *testing.T) {
	ag := newTestIdea()
	ag.AddMember(uuid.New(), "Designer", ag.AuthorID, testTime)
	svc, _, _ := serviceForIdea(ag)

	c, err := svc.CheckConflict(context.Background(), ag.ID, "Designer")
	require.NoError(t, err)
	assert.True(t, c.HasConflict)

	s, err := svc.Suggestions(context.Background(), ag.ID, "Designer", uuid.Nil)
	require.NoError(t, err)
	assert.NotEmpty(t, s.Patterns)
}
