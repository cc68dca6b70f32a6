package redisstore

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizzie/internal/models"
	"quizzie/internal/storage/storetest"
)

func newStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client), mr
}

func TestActivityRepository(t *testing.T) {
	store, _ := newStore(t)
	storetest.RunActivityRepository(t, store)
}

func TestUserRepository(t *testing.T) {
	store, _ := newStore(t)
	storetest.RunUserRepository(t, store)
}

func TestKeyLayout(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	a := storetest.NewActivity("creator-00000001", models.ActivityQuiz, 1)
	require.NoError(t, store.Create(ctx, a))

	assert.True(t, mr.Exists("activity:"+a.ID))
	ids, err := mr.List("creator:creator-00000001:activities")
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID}, ids)

	q := a.Questions[0]
	fields, err := mr.HKeys("activity:" + a.ID + ":counters")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"q:" + q.ID + ":impressions",
		"q:" + q.ID + ":correctAnswers",
		"q:" + q.ID + ":wrongAnswers",
		"o:" + q.ID + ":" + q.Options[0].ID,
		"o:" + q.ID + ":" + q.Options[1].ID,
		"o:" + q.ID + ":" + q.Options[2].ID,
	}, fields)

	_, err = store.IncrementOptionSelection(ctx, a.ID, q.ID, q.Options[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "1", mr.HGet("activity:"+a.ID+":counters", "o:"+q.ID+":"+q.Options[1].ID))
	raw, err := mr.Get("activity:" + a.ID)
	require.NoError(t, err)
	assert.NotContains(t, raw, `"selectionCount":1`)

	require.NoError(t, store.Delete(ctx, a.ID))
	assert.False(t, mr.Exists("activity:"+a.ID))
	assert.False(t, mr.Exists("activity:"+a.ID+":counters"))
	ids, _ = mr.List("creator:creator-00000001:activities")
	assert.Empty(t, ids)
}

func TestUserRecordKeepsPasswordHash(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	u := &models.User{ID: "u-1", Name: "Ada", Email: "ada@example.com", Password: "$2a$10$hash"}
	require.NoError(t, store.CreateUser(ctx, u))

	raw, err := mr.Get("user:u-1")
	require.NoError(t, err)
	assert.Contains(t, raw, `"password":"$2a$10$hash"`)

	id, err := mr.Get("user:email:ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u-1", id)
}

func TestListingSkipsVanishedActivities(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	a := storetest.NewActivity("creator-00000002", models.ActivityPoll, 1)
	b := storetest.NewActivity("creator-00000002", models.ActivityPoll, 1)
	require.NoError(t, store.Create(ctx, a))
	require.NoError(t, store.Create(ctx, b))
	mr.Del("activity:" + a.ID)

	got, err := store.FindByCreator(ctx, "creator-00000002", models.ProjectionQuestions)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, b.ID, got[0].ID)
}
