package authflow

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/gearbase/cmms-server-go/internal/audit"
	"github.com/gearbase/cmms-server-go/internal/model"
	"github.com/gearbase/cmms-server-go/internal/sse"
)

// ProfileResolver looks up the profile for a session event, retrying while
// async provisioning may still be in flight.
type ProfileResolver interface {
	Resolve(ctx context.Context, userID string, event model.SessionEventType) (*model.Profile, error)
}

type MembershipResolver interface {
	ListMemberships(ctx context.Context, userID string) ([]model.CompanyMembership, error)
	EnsureCurrentCompany(ctx context.Context, profile *model.Profile, memberships []model.CompanyMembership) (*string, bool, error)
	SelectCompany(ctx context.Context, userID, companyID string) (*model.Profile, error)
}

type LicenseResolver interface {
	ResolveActive(ctx context.Context, userID string, companyID *string, role model.Role) (*model.ResolvedLicense, error)
}

// SessionRevoker tears down sessions that turn out to be unusable, like a
// session whose profile never materialized.
type SessionRevoker interface {
	ForceSignOut(ctx context.Context, userID string) error
}

type Publisher interface {
	Publish(ctx context.Context, userID string, event sse.Event) error
}

// Pinger distinguishes backend connectivity loss from ordinary resolution
// failures.
type Pinger interface {
	Ping(ctx context.Context) error
}

type userState struct {
	generation uint64
	snapshot   Snapshot
}

// Resolver runs the resolution chain for session events and tracks one
// authoritative Snapshot per user. Each dispatch bumps the user's
// generation counter; a resolution that finishes after a newer one started
// is dropped instead of overwriting fresher state.
type Resolver struct {
	profiles  ProfileResolver
	companies MembershipResolver
	licenses  LicenseResolver
	sessions  SessionRevoker
	publisher Publisher
	pinger    Pinger

	mu     sync.Mutex
	states map[string]*userState
}

func NewResolver(
	profiles ProfileResolver,
	companies MembershipResolver,
	licenses LicenseResolver,
	sessions SessionRevoker,
	publisher Publisher,
	pinger Pinger,
) *Resolver {
	return &Resolver{
		profiles:  profiles,
		companies: companies,
		licenses:  licenses,
		sessions:  sessions,
		publisher: publisher,
		pinger:    pinger,
		states:    make(map[string]*userState),
	}
}

// Dispatch feeds a session event through the state machine and returns the
// resulting snapshot. The returned snapshot may be older than the stored
// one if a newer dispatch overtook this one.
func (r *Resolver) Dispatch(ctx context.Context, event model.SessionEvent) (Snapshot, error) {
	switch {
	case event.Type == model.EventSignedOut || event.UserID == "":
		return r.commitTerminal(ctx, event.UserID, Snapshot{
			State:  StateUnauthenticated,
			UserID: event.UserID,
		}), nil
	case event.Type == model.EventPasswordRecovery,
		event.Session != nil && event.Session.Recovery:
		return r.commitTerminal(ctx, event.UserID, Snapshot{
			State:  StatePasswordRecovery,
			UserID: event.UserID,
		}), nil
	}

	gen := r.begin(ctx, event.UserID)
	snapshot := r.resolve(ctx, event)
	return r.commit(ctx, event.UserID, gen, snapshot), nil
}

// SelectCompany switches the user's current company and re-runs the chain.
// A target outside the user's memberships is rejected and the previous
// context is re-resolved and republished.
func (r *Resolver) SelectCompany(ctx context.Context, userID, companyID string) (Snapshot, error) {
	gen := r.begin(ctx, userID)

	_, selectErr := r.companies.SelectCompany(ctx, userID, companyID)

	snapshot := r.resolve(ctx, model.SessionEvent{
		Type:   model.EventUserUpdated,
		UserID: userID,
	})
	snapshot = r.commit(ctx, userID, gen, snapshot)
	return snapshot, selectErr
}

// Current returns the last committed snapshot for the user. Users the
// resolver has never seen start out loading.
func (r *Resolver) Current(userID string) Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	if st, ok := r.states[userID]; ok {
		return st.snapshot
	}
	return Snapshot{State: StateLoading, UserID: userID}
}

// Forget drops the tracked state for a user, typically after sign-out.
func (r *Resolver) Forget(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.states, userID)
}

// begin bumps the user's generation, installs a loading snapshot, and
// returns the generation token the caller must commit with.
func (r *Resolver) begin(ctx context.Context, userID string) uint64 {
	r.mu.Lock()
	st, ok := r.states[userID]
	if !ok {
		st = &userState{}
		r.states[userID] = st
	}
	st.generation++
	gen := st.generation
	st.snapshot = Snapshot{State: StateLoading, UserID: userID}
	snapshot := st.snapshot
	r.mu.Unlock()

	r.publish(ctx, userID, snapshot)
	return gen
}

func (r *Resolver) resolve(ctx context.Context, event model.SessionEvent) Snapshot {
	userID := event.UserID

	profile, err := r.profiles.Resolve(ctx, userID, event.Type)
	if err != nil {
		return r.failure(ctx, userID, "profile resolution failed", err)
	}
	if profile == nil {
		// The provisioning retries ran out. A session with no profile
		// behind it cannot be used, so tear it down.
		if err := r.sessions.ForceSignOut(ctx, userID); err != nil {
			log.Error().Err(err).Str("userId", userID).Msg("forced sign-out failed")
		}
		audit.Log(ctx, audit.Event{
			Type:    audit.EventForcedSignOut,
			UserID:  userID,
			Details: map[string]interface{}{"reason": "profile_unavailable"},
		})
		return Snapshot{
			State:   StateUnauthenticated,
			UserID:  userID,
			Warning: "profile unavailable",
		}
	}

	warning := ""
	memberships, err := r.companies.ListMemberships(ctx, userID)
	if err != nil {
		// Degraded but survivable: the chain continues with no memberships.
		warning = "membership list unavailable"
	}

	currentCompanyID, _, err := r.companies.EnsureCurrentCompany(ctx, profile, memberships)
	if err != nil {
		return r.failure(ctx, userID, "company selection failed", err)
	}
	profile.CurrentCompanyID = currentCompanyID

	if currentCompanyID == nil && profile.Role.RequiresCompany() {
		return Snapshot{
			State:       StateCompanySelectionPending,
			UserID:      userID,
			Profile:     profile,
			Memberships: memberships,
			Warning:     warning,
		}
	}

	license, err := r.licenses.ResolveActive(ctx, userID, currentCompanyID, profile.Role)
	if err != nil {
		return r.failure(ctx, userID, "license resolution failed", err)
	}

	return Snapshot{
		State:            StateAuthenticated,
		UserID:           userID,
		Profile:          profile,
		Memberships:      memberships,
		CurrentCompanyID: currentCompanyID,
		License:          license,
		Warning:          warning,
	}
}

// failure maps a resolution error to a snapshot: connectivity loss becomes
// CONNECTION_ERROR, anything else falls back to UNAUTHENTICATED.
func (r *Resolver) failure(ctx context.Context, userID, reason string, cause error) Snapshot {
	log.Error().Err(cause).Str("userId", userID).Msg(reason)

	if r.pinger != nil && r.pinger.Ping(ctx) != nil {
		return Snapshot{
			State:   StateConnectionError,
			UserID:  userID,
			Warning: reason,
		}
	}
	return Snapshot{
		State:   StateUnauthenticated,
		UserID:  userID,
		Warning: reason,
	}
}

// commit stores the snapshot unless a newer dispatch has started for this
// user, in which case the stale result is dropped and the stored snapshot
// wins.
func (r *Resolver) commit(ctx context.Context, userID string, gen uint64, snapshot Snapshot) Snapshot {
	r.mu.Lock()
	st, ok := r.states[userID]
	if !ok || st.generation != gen {
		var current Snapshot
		if ok {
			current = st.snapshot
		} else {
			current = Snapshot{State: StateUnauthenticated, UserID: userID}
		}
		r.mu.Unlock()

		log.Debug().
			Str("userId", userID).
			Uint64("generation", gen).
			Msg("dropping stale resolution result")
		return current
	}
	st.snapshot = snapshot
	r.mu.Unlock()

	r.publish(ctx, userID, snapshot)
	return snapshot
}

// commitTerminal installs a snapshot unconditionally, bumping the
// generation so any in-flight resolution is invalidated.
func (r *Resolver) commitTerminal(ctx context.Context, userID string, snapshot Snapshot) Snapshot {
	if userID == "" {
		return snapshot
	}

	r.mu.Lock()
	st, ok := r.states[userID]
	if !ok {
		st = &userState{}
		r.states[userID] = st
	}
	st.generation++
	st.snapshot = snapshot
	r.mu.Unlock()

	r.publish(ctx, userID, snapshot)
	return snapshot
}

func (r *Resolver) publish(ctx context.Context, userID string, snapshot Snapshot) {
	if r.publisher == nil || userID == "" {
		return
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		log.Error().Err(err).Str("userId", userID).Msg("marshal auth snapshot")
		return
	}
	if err := r.publisher.Publish(ctx, userID, sse.Event{
		Type: sse.EventTypeAuthState,
		Data: data,
	}); err != nil {
		log.Warn().Err(err).Str("userId", userID).Msg("publish auth snapshot")
	}
}
