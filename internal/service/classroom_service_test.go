package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/perpus-api/internal/models"
	appErrors "github.com/noah-isme/perpus-api/pkg/errors"
)

type fakeClassroomRepo struct {
	classrooms map[int64]*models.Classroom
	nextID     int64
}

func newFakeClassroomRepo() *fakeClassroomRepo {
	return &fakeClassroomRepo{classrooms: map[int64]*models.Classroom{}, nextID: 1}
}

func (r *fakeClassroomRepo) List(ctx context.Context, filter models.ListFilter) ([]models.Classroom, int, error) {
	out := make([]models.Classroom, 0, len(r.classrooms))
	for _, c := range r.classrooms {
		out = append(out, *c)
	}
	return out, len(r.classrooms), nil
}

func (r *fakeClassroomRepo) FindByID(ctx context.Context, id int64) (*models.Classroom, error) {
	classroom, ok := r.classrooms[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *classroom
	return &copied, nil
}

func (r *fakeClassroomRepo) Create(ctx context.Context, classroom *models.Classroom) error {
	classroom.ClassID = r.nextID
	r.nextID++
	stored := *classroom
	r.classrooms[classroom.ClassID] = &stored
	return nil
}

func (r *fakeClassroomRepo) Update(ctx context.Context, classroom *models.Classroom) error {
	stored := *classroom
	r.classrooms[classroom.ClassID] = &stored
	return nil
}

func (r *fakeClassroomRepo) Delete(ctx context.Context, id int64) error {
	delete(r.classrooms, id)
	return nil
}

func (r *fakeClassroomRepo) Count(ctx context.Context) (int, error) {
	return len(r.classrooms), nil
}

func TestClassroomServiceCreate(t *testing.T) {
	repo := newFakeClassroomRepo()
	svc := NewClassroomService(repo, nil, nil)

	classroom, err := svc.Create(context.Background(), ClassroomRequest{ClassName: "XII IPA 1"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), classroom.ClassID)
	assert.Equal(t, "XII IPA 1", classroom.ClassName)
}

func TestClassroomServiceCreateEmptyName(t *testing.T) {
	svc := NewClassroomService(newFakeClassroomRepo(), nil, nil)

	_, err := svc.Create(context.Background(), ClassroomRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Status, appErrors.FromError(err).Status)
}

func TestClassroomServiceUpdate(t *testing.T) {
	repo := newFakeClassroomRepo()
	svc := NewClassroomService(repo, nil, nil)

	classroom, err := svc.Create(context.Background(), ClassroomRequest{ClassName: "XII IPS 2"})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), classroom.ClassID, ClassroomRequest{ClassName: "XII IPS 3"})
	require.NoError(t, err)
	assert.Equal(t, "XII IPS 3", updated.ClassName)
	assert.Equal(t, "XII IPS 3", repo.classrooms[classroom.ClassID].ClassName)
}

func TestClassroomServiceUpdateNotFound(t *testing.T) {
	svc := NewClassroomService(newFakeClassroomRepo(), nil, nil)

	_, err := svc.Update(context.Background(), 7, ClassroomRequest{ClassName: "X MIPA 1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Status, appErrors.FromError(err).Status)
}

func TestClassroomServiceDelete(t *testing.T) {
	repo := newFakeClassroomRepo()
	svc := NewClassroomService(repo, nil, nil)

	classroom, err := svc.Create(context.Background(), ClassroomRequest{ClassName: "XI IPA 2"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), classroom.ClassID))
	assert.Empty(t, repo.classrooms)

	err = svc.Delete(context.Background(), classroom.ClassID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Status, appErrors.FromError(err).Status)
}
