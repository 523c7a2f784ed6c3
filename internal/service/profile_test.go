package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gearbase/cmms-server-go/internal/model"
)

func TestProfileResolveFoundImmediately(t *testing.T) {
	profileRepo := new(mockProfileRepo)
	svc := NewProfileService(profileRepo, 4, time.Millisecond)

	profile := &model.Profile{ID: "user-1", FullName: "Kim"}
	profileRepo.On("FindByID", mock.Anything, "user-1").Return(profile, nil).Once()

	got, err := svc.Resolve(context.Background(), "user-1", model.EventSignedIn)

	require.NoError(t, err)
	assert.Equal(t, profile, got)
	profileRepo.AssertNumberOfCalls(t, "FindByID", 1)
}

func TestProfileResolveRetriesAfterSignIn(t *testing.T) {
	profileRepo := new(mockProfileRepo)
	svc := NewProfileService(profileRepo, 4, time.Millisecond)

	// Provisioning lands between the second and third read.
	profile := &model.Profile{ID: "user-1", FullName: "Kim"}
	profileRepo.On("FindByID", mock.Anything, "user-1").Return(nil, nil).Twice()
	profileRepo.On("FindByID", mock.Anything, "user-1").Return(profile, nil).Once()

	got, err := svc.Resolve(context.Background(), "user-1", model.EventSignedIn)

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Kim", got.FullName)
	profileRepo.AssertNumberOfCalls(t, "FindByID", 3)
}

func TestProfileResolveGivesUpAfterRetries(t *testing.T) {
	profileRepo := new(mockProfileRepo)
	svc := NewProfileService(profileRepo, 3, time.Millisecond)

	profileRepo.On("FindByID", mock.Anything, "user-1").Return(nil, nil)

	got, err := svc.Resolve(context.Background(), "user-1", model.EventSignedIn)

	require.NoError(t, err)
	assert.Nil(t, got)
	// Initial read plus three retries.
	profileRepo.AssertNumberOfCalls(t, "FindByID", 4)
}

func TestProfileResolveNoRetryForOtherEvents(t *testing.T) {
	profileRepo := new(mockProfileRepo)
	svc := NewProfileService(profileRepo, 4, time.Millisecond)

	profileRepo.On("FindByID", mock.Anything, "user-1").Return(nil, nil)

	got, err := svc.Resolve(context.Background(), "user-1", model.EventTokenRefreshed)

	require.NoError(t, err)
	assert.Nil(t, got)
	profileRepo.AssertNumberOfCalls(t, "FindByID", 1)
}

func TestProfileResolveHonorsContextCancellation(t *testing.T) {
	profileRepo := new(mockProfileRepo)
	svc := NewProfileService(profileRepo, 4, 10*time.Second)

	profileRepo.On("FindByID", mock.Anything, "user-1").Return(nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := svc.Resolve(ctx, "user-1", model.EventSignedIn)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestProfileResolveEmptyUserID(t *testing.T) {
	profileRepo := new(mockProfileRepo)
	svc := NewProfileService(profileRepo, 4, time.Millisecond)

	_, err := svc.Resolve(context.Background(), "", model.EventSignedIn)

	assert.Error(t, err)
	profileRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}
