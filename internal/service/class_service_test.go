package service

import (
	"context"
	"path/filepath"
	"testing"

	"gym-agent-be/internal/dto"
	"gym-agent-be/internal/entity"
	"gym-agent-be/internal/pkg/logger"
	"gym-agent-be/internal/repository/contract"
	"gym-agent-be/internal/repository/implementation"
	"gym-agent-be/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingEvents struct {
	classes   []*entity.GymClass
	documents []string
	rebuilt   []string
}

func (r *recordingEvents) PublishDocumentIndexed(ctx context.Context, filename string, chunksAdded int) {
	r.documents = append(r.documents, filename)
}

func (r *recordingEvents) PublishClassCreated(ctx context.Context, class *entity.GymClass) {
	r.classes = append(r.classes, class)
}

func (r *recordingEvents) PublishIndexRebuilt(ctx context.Context, jobId string, chunks int) {
	r.rebuilt = append(r.rebuilt, jobId)
}

func newClassRepo(t *testing.T) contract.GymClassRepository {
	return newClassRepoAt(t, filepath.Join(t.TempDir(), "gym_classes.db"))
}

func newClassRepoAt(t *testing.T, path string) contract.GymClassRepository {
	db, err := database.NewGormSQLite(path)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	repo := implementation.NewGymClassRepository(db)
	require.NoError(t, repo.EnsureSchema(context.Background()))
	_, err = repo.SeedDefaults(context.Background())
	require.NoError(t, err)
	return repo
}

func intPtr(i int) *int { return &i }

func TestClassServiceCreateNormalizesAndPublishes(t *testing.T) {
	events := &recordingEvents{}
	svc := NewClassService(newClassRepo(t), events, logger.NewNopLogger())
	ctx := context.Background()

	res, err := svc.Create(ctx, &dto.CreateGymClassRequest{
		ClassId:        intPtr(5),
		InstructorName: "Ana Ruiz",
		ClassName:      "Boxing",
		StartTime:      "7:15",
		DurationMins:   30,
	})
	require.NoError(t, err)
	assert.Equal(t, "07:15", res.Class.StartTime)
	require.Len(t, events.classes, 1)
	assert.Equal(t, 5, events.classes[0].ClassId)

	all, err := svc.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all.Classes, 5)
	assert.Equal(t, "Boxing", all.Classes[0].ClassName)
	assert.Equal(t, "Pilates", all.Classes[4].ClassName)
}

func TestClassServiceDuplicateIsServerError(t *testing.T) {
	events := &recordingEvents{}
	svc := NewClassService(newClassRepo(t), events, logger.NewNopLogger())

	_, err := svc.Create(context.Background(), &dto.CreateGymClassRequest{
		ClassId:        intPtr(2),
		InstructorName: "Miguel Pérez",
		ClassName:      "HIIT",
		StartTime:      "10:30",
		DurationMins:   45,
	})
	require.Error(t, err)
	var ce *clientError
	assert.NotErrorAs(t, err, &ce)
	assert.Empty(t, events.classes)
}

func TestNormalizeStartTime(t *testing.T) {
	cases := map[string]string{
		"9:00":  "09:00",
		"09:00": "09:00",
		"23:59": "23:59",
		"0:05":  "00:05",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeStartTime(in), in)
	}
}
