package authflow

import (
	"github.com/gearbase/cmms-server-go/internal/model"
)

// State is the aggregate authentication state pushed to clients. Exactly
// one state holds at any time.
type State string

const (
	// StateLoading covers the window between a session event and the end of
	// the resolution chain.
	StateLoading State = "LOADING"
	// StateAuthenticated means session, profile, and company context are all
	// in place.
	StateAuthenticated State = "AUTHENTICATED"
	StateUnauthenticated State = "UNAUTHENTICATED"
	// StatePasswordRecovery is entered through a recovery session and only
	// permits setting a new password.
	StatePasswordRecovery State = "PASSWORD_RECOVERY"
	// StateCompanySelectionPending means the user is signed in but has a
	// company-scoped role with no current company to operate in.
	StateCompanySelectionPending State = "COMPANY_SELECTION_PENDING"
	StateConnectionError State = "CONNECTION_ERROR"
)

// Snapshot is the full resolved auth context for one user at one point in
// time. Snapshots are immutable once published.
type Snapshot struct {
	State            State                     `json:"state"`
	UserID           string                    `json:"userId,omitempty"`
	Profile          *model.Profile            `json:"profile,omitempty"`
	Memberships      []model.CompanyMembership `json:"memberships,omitempty"`
	CurrentCompanyID *string                   `json:"currentCompanyId,omitempty"`
	License          *model.ResolvedLicense    `json:"license,omitempty"`
	// Warning carries a non-fatal degradation, like a failed membership
	// read that fell back to an empty list.
	Warning string `json:"warning,omitempty"`
}
