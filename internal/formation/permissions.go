package formation

// ActorRole is the position an actor holds relative to an idea's team.
type ActorRole string

const (
	ActorAuthor   ActorRole = "author"
	ActorLead     ActorRole = "lead"
	ActorMember   ActorRole = "member"
	ActorOutsider ActorRole = "outsider"
)

// Action is a team-management capability subject to the permission matrix.
type Action string

const (
	ActionManageRoles      Action = "manage_roles"      // add/remove needed-role entries
	ActionManageApproaches Action = "manage_approaches" // drive approach status
	ActionManageLeadership Action = "manage_leadership" // promote/demote leads
	ActionRemoveMember     Action = "remove_member"     // remove a member and its subroles
	ActionManageSubroles   Action = "manage_subroles"   // add/remove subroles under own role
)

// Decision is the outcome of a permission check.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision { return Decision{Allowed: true} }

func deny(reason string) Decision { return Decision{Reason: reason} }

// Evaluate applies the capability matrix. targetRole is the role of the
// member being acted on, where relevant (removals); pass ActorOutsider when
// there is no target.
//
// The matrix: roles, approaches and leadership are author-only. Removing an
// ordinary member takes author or lead, but only the author removes a lead.
// Nobody removes the author (the author never appears in the composition).
// Any member, the author included, manages subroles under their own role.
func Evaluate(action Action, actorRole, targetRole ActorRole) Decision {
	switch action {
	case ActionManageRoles:
		if actorRole != ActorAuthor {
			return deny("only the idea author can manage needed roles")
		}
		return allow()

	case ActionManageApproaches:
		if actorRole != ActorAuthor {
			return deny("only the idea author can manage approaches")
		}
		return allow()

	case ActionManageLeadership:
		if actorRole != ActorAuthor {
			return deny("only the idea author can promote or demote team leads")
		}
		return allow()

	case ActionRemoveMember:
		if targetRole == ActorAuthor {
			return deny("the idea author cannot be removed")
		}
		switch actorRole {
		case ActorAuthor:
			return allow()
		case ActorLead:
			if targetRole == ActorLead {
				return deny("a team lead cannot remove another team lead")
			}
			return allow()
		default:
			return deny("only the author or a team lead can remove members")
		}

	case ActionManageSubroles:
		if actorRole == ActorOutsider {
			return deny("only team members can manage subroles")
		}
		return allow()
	}

	return deny("unknown action")
}
