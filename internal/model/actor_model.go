package model

type Role string

const (
	RoleRecruiter Role = "recruiter"
	RoleCandidate Role = "candidate"
)

func (r Role) Valid() bool {
	return r == RoleRecruiter || r == RoleCandidate
}

// Actor is the signed-in user as reported by the identity provider.
type Actor struct {
	ID       string `json:"id"`
	Role     Role   `json:"role"`
	FullName string `json:"full_name,omitempty"`
}

func (a Actor) IsCandidate() bool { return a.Role == RoleCandidate }
func (a Actor) IsRecruiter() bool { return a.Role == RoleRecruiter }
