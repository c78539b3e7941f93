package gate

import "strings"

// Permission is "resource:action", e.g. "angebot:create".
type Permission string

const (
	Wildcard                        = "*"
	PermissionSuperAdmin Permission = "*:*"
)

func NewPermission(resourceType string, action Action) Permission {
	return Permission(resourceType + ":" + string(action))
}

// Parse splits p; both parts are empty when p has no colon.
func (p Permission) Parse() (resourceType string, action Action) {
	res, act, ok := strings.Cut(string(p), ":")
	if !ok {
		return "", ""
	}
	return res, Action(act)
}

// Matches reports whether p grants requested. "*:*" grants everything and
// "angebot:*" every angebot action.
func (p Permission) Matches(requested Permission) bool {
	if p == PermissionSuperAdmin || p == requested {
		return true
	}
	res, act := p.Parse()
	reqRes, reqAct := requested.Parse()
	if scopeActions[reqAct] {
		return false
	}
	return res != "" && res == reqRes && string(act) == Wildcard
}
