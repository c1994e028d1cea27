package redis_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduhub/classroom/internal/config"
	"github.com/eduhub/classroom/internal/domain"
	"github.com/eduhub/classroom/internal/repository"
	"github.com/eduhub/classroom/internal/repository/redis"
)

func setupTestRedis(t *testing.T) (*redis.Repository, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	repo, err := redis.NewRepository(config.RedisConfig{
		Enabled:   true,
		Addr:      mr.Addr(),
		KeyPrefix: "test:",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	return repo, mr
}

func TestMeetingRoundTrip(t *testing.T) {
	repo, _ := setupTestRedis(t)
	ctx := context.Background()

	meeting := &domain.Meeting{
		ID:     "m1",
		Title:  "Algebra",
		HostID: "t1",
		Settings: domain.MeetingSettings{
			WaitingRoom: true,
			ChatEnabled: true,
		},
	}
	_, _, err := meeting.AddParticipant("s1", domain.RoleStudent, time.Now())
	require.NoError(t, err)
	require.NoError(t, repo.SaveMeeting(ctx, meeting))

	got, err := repo.GetMeeting(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "Algebra", got.Title)
	require.Len(t, got.Participants, 1)
	assert.Equal(t, domain.StatusJoined, got.Participant("s1").Status)

	_, err = repo.GetMeeting(ctx, "ghost")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestListMeetings(t *testing.T) {
	repo, _ := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveMeeting(ctx, &domain.Meeting{ID: "m1", HostID: "t1"}))
	require.NoError(t, repo.SaveMeeting(ctx, &domain.Meeting{ID: "m2", HostID: "t1"}))

	meetings, err := repo.ListMeetings(ctx)
	require.NoError(t, err)
	assert.Len(t, meetings, 2)
}

func TestNotifications(t *testing.T) {
	repo, _ := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateNotification(ctx, &domain.Notification{
		ID:        "n1",
		Recipient: "s1",
		Type:      domain.NotifyMeeting,
		Title:     "Class starts",
	}))
	require.NoError(t, repo.CreateNotification(ctx, &domain.Notification{
		ID:        "n2",
		Recipient: "s1",
		Type:      domain.NotifyGrade,
		Title:     "New grade",
	}))

	list, err := repo.ListNotifications(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, domain.NotificationID("n1"), list[0].ID)
}

func TestDirectoryAndTokens(t *testing.T) {
	repo, mr := setupTestRedis(t)
	ctx := context.Background()

	// The auth and user services own these keys; seed them directly.
	user, err := json.Marshal(&domain.Identity{ID: "s1", Name: "Sam", Role: domain.RoleStudent})
	require.NoError(t, err)
	require.NoError(t, mr.Set("test:users:s1", string(user)))
	require.NoError(t, mr.Set("test:tokens:tok-1", "s1"))

	uid, err := repo.ResolveToken(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, domain.UserID("s1"), uid)

	got, err := repo.GetUser(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, "Sam", got.Name)
	assert.Equal(t, domain.RoleStudent, got.Role)

	_, err = repo.ResolveToken(ctx, "bad")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repo.GetUser(ctx, "ghost")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
