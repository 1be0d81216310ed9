package job_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/engagement-backend/internal/domain/entity"
	"github.com/ignatzorin/engagement-backend/internal/domain/event"
	"github.com/ignatzorin/engagement-backend/internal/domain/repository"
	"github.com/ignatzorin/engagement-backend/internal/domain/valueobject"
	"github.com/ignatzorin/engagement-backend/internal/pkg/apperror"
	"github.com/ignatzorin/engagement-backend/internal/usecase/job"
	"github.com/ignatzorin/engagement-backend/internal/usecase/usecasetest"
)

func jobInput(title string) job.JobInput {
	return job.JobInput{Fields: entity.JobFields{
		Title:        title,
		Description:  "Поддержка сервиса",
		JobType:      "part_time",
		LocationType: "hybrid",
	}}
}

func TestCreateJob_PendingApproval(t *testing.T) {
	f := usecasetest.New(t)
	created, err := job.NewCreateJobUseCase(f.Store, f.Events).Execute(context.Background(), f.EmployerActor, jobInput("DevOps"))
	require.NoError(t, err)

	assert.Equal(t, valueobject.JobStatusPendingApproval, created.Status)
	assert.Equal(t, f.Employer.ID, created.EmployerID)
	assert.Equal(t, 1, f.Events.Count(event.JobCreated))

	_, err = job.NewCreateJobUseCase(f.Store, f.Events).Execute(context.Background(), f.TalentActor, jobInput("DevOps"))
	assert.True(t, apperror.IsForbidden(err))
}

func TestCreateJob_UnknownSkill(t *testing.T) {
	f := usecasetest.New(t)
	in := jobInput("DevOps")
	in.Skills = []job.SkillInput{{SkillID: uuid.New(), Required: true}}

	_, err := job.NewCreateJobUseCase(f.Store, f.Events).Execute(context.Background(), f.EmployerActor, in)
	assert.True(t, apperror.IsValidation(err))
}

func TestSetJobStatus_Authorization(t *testing.T) {
	f := usecasetest.New(t)
	ctx := context.Background()
	created, err := job.NewCreateJobUseCase(f.Store, f.Events).Execute(ctx, f.EmployerActor, jobInput("QA"))
	require.NoError(t, err)
	uc := job.NewSetJobStatusUseCase(f.Store, f.Events)

	// одобряет только staff
	_, err = uc.Execute(ctx, f.EmployerActor, created.ID, "active")
	assert.True(t, apperror.IsForbidden(err))

	approved, err := uc.Execute(ctx, f.Staff, created.ID, "active")
	require.NoError(t, err)
	assert.Equal(t, valueobject.JobStatusActive, approved.Status)

	_, err = uc.Execute(ctx, f.StrangerEmp, created.ID, "closed")
	assert.True(t, apperror.IsForbidden(err))

	closed, err := uc.Execute(ctx, f.EmployerActor, created.ID, "closed")
	require.NoError(t, err)
	assert.Equal(t, valueobject.JobStatusClosed, closed.Status)

	_, err = uc.Execute(ctx, f.Staff, created.ID, "filled")
	assert.True(t, apperror.IsInvalidTransition(err))
}

func TestUpdateJob_ReturnsToModeration(t *testing.T) {
	f := usecasetest.New(t)
	ctx := context.Background()
	uc := job.NewUpdateJobUseCase(f.Store, f.Events)

	updated, err := uc.Execute(ctx, f.EmployerActor, f.Job.ID, jobInput("Senior Go"))
	require.NoError(t, err)
	assert.Equal(t, valueobject.JobStatusPendingApproval, updated.Status)

	_, err = uc.Execute(ctx, f.StrangerEmp, f.Job.ID, jobInput("Hijack"))
	assert.True(t, apperror.IsForbidden(err))
}

func TestGetJob_Visibility(t *testing.T) {
	f := usecasetest.New(t)
	ctx := context.Background()
	pending, err := job.NewCreateJobUseCase(f.Store, f.Events).Execute(ctx, f.EmployerActor, jobInput("Аналитик"))
	require.NoError(t, err)
	get := job.NewGetJobUseCase(f.Store)

	_, err = get.Execute(ctx, nil, f.Job.ID)
	assert.NoError(t, err)

	_, err = get.Execute(ctx, nil, pending.ID)
	assert.True(t, apperror.IsNotFound(err))
	_, err = get.Execute(ctx, &f.StrangerEmp, pending.ID)
	assert.True(t, apperror.IsNotFound(err))
	_, err = get.Execute(ctx, &f.EmployerActor, pending.ID)
	assert.NoError(t, err)
	_, err = get.Execute(ctx, &f.Staff, pending.ID)
	assert.NoError(t, err)
}

func TestSearchJobs_OnlyActiveNotExpired(t *testing.T) {
	f := usecasetest.New(t)
	ctx := context.Background()

	_, err := job.NewCreateJobUseCase(f.Store, f.Events).Execute(ctx, f.EmployerActor, jobInput("На модерации"))
	require.NoError(t, err)

	expiring := f.NewActiveJob(t, f.Employer.ID)
	soon := time.Now().Add(-time.Minute)
	expiring.Deadline = &soon
	_, err = f.Store.Jobs().Update(ctx, expiring, valueobject.JobStatusActive)
	require.NoError(t, err)

	filter := repository.JobFilter{}
	filter.Normalize()
	jobs, total, err := job.NewSearchJobsUseCase(f.Store).Execute(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, jobs, 1)
	assert.Equal(t, f.Job.ID, jobs[0].ID)
}

func TestListEmployerJobs(t *testing.T) {
	f := usecasetest.New(t)
	ctx := context.Background()

	mine, err := job.NewListEmployerJobsUseCase(f.Store).Execute(ctx, f.EmployerActor)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	theirs, err := job.NewListEmployerJobsUseCase(f.Store).Execute(ctx, f.StrangerEmp)
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestOwnership(t *testing.T) {
	f := usecasetest.New(t)
	ctx := context.Background()
	own := job.NewOwnership(f.Store)

	owns, err := own.BelongsToEmployer(ctx, f.Job.ID, f.Employer.ID)
	require.NoError(t, err)
	assert.True(t, owns)

	owns, err = own.BelongsToEmployer(ctx, f.Job.ID, f.Stranger.ID)
	require.NoError(t, err)
	assert.False(t, owns)

	_, err = own.BelongsToEmployer(ctx, uuid.New(), f.Employer.ID)
	assert.True(t, apperror.IsNotFound(err))

	assert.NoError(t, own.CanManage(ctx, f.EmployerActor, f.Job.ID))
	assert.NoError(t, own.CanManage(ctx, f.Staff, f.Job.ID))
	assert.True(t, apperror.IsForbidden(own.CanManage(ctx, f.StrangerEmp, f.Job.ID)))
}

// failingJobs пишет вакансию и затем падает, как если бы не удалась вставка навыков.
type failingJobs struct {
	repository.JobRepository
}

func (r failingJobs) Create(ctx context.Context, j *entity.Job) error {
	if err := r.JobRepository.Create(ctx, j); err != nil {
		return err
	}
	return errors.New("insert skills: foreign key violation")
}

func (r failingJobs) Update(ctx context.Context, j *entity.Job, expected valueobject.JobStatus) (int64, error) {
	if _, err := r.JobRepository.Update(ctx, j, expected); err != nil {
		return 0, err
	}
	return 0, errors.New("insert skills: foreign key violation")
}

func TestCreateJob_SkillFailureLeavesNothing(t *testing.T) {
	f := usecasetest.New(t)
	ctx := context.Background()
	store := &usecasetest.FaultyStore{
		Store:    f.Store,
		WrapJobs: func(r repository.JobRepository) repository.JobRepository { return failingJobs{r} },
	}

	_, err := job.NewCreateJobUseCase(store, f.Events).Execute(ctx, f.EmployerActor, jobInput("DevOps"))
	assert.Equal(t, apperror.ErrCodeDatabaseError, apperror.CodeOf(err))

	jobs, err := f.Store.Jobs().FindByEmployerID(ctx, f.Employer.ID)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, f.Job.ID, jobs[0].ID)
	assert.Zero(t, f.Events.Count(event.JobCreated))
}

func TestUpdateJob_SkillFailureRollsBackEdit(t *testing.T) {
	f := usecasetest.New(t)
	ctx := context.Background()
	store := &usecasetest.FaultyStore{
		Store:    f.Store,
		WrapJobs: func(r repository.JobRepository) repository.JobRepository { return failingJobs{r} },
	}

	_, err := job.NewUpdateJobUseCase(store, f.Events).Execute(ctx, f.EmployerActor, f.Job.ID, jobInput("Senior Go"))
	assert.Equal(t, apperror.ErrCodeDatabaseError, apperror.CodeOf(err))

	stored, err := f.Store.Jobs().FindByID(ctx, f.Job.ID)
	require.NoError(t, err)
	assert.Equal(t, f.Job.Title, stored.Title)
	assert.Equal(t, valueobject.JobStatusActive, stored.Status)
	assert.Zero(t, f.Events.Count(event.JobUpdated))
}

func TestSetJobStatus_KeepsSkills(t *testing.T) {
	f := usecasetest.New(t)
	ctx := context.Background()

	skill := &entity.Skill{ID: uuid.New(), Name: "Go"}
	require.NoError(t, f.Store.Skills().Upsert(ctx, skill))

	in := jobInput("Go backend")
	in.Skills = []job.SkillInput{{SkillID: skill.ID, Required: true}}
	created, err := job.NewCreateJobUseCase(f.Store, f.Events).Execute(ctx, f.EmployerActor, in)
	require.NoError(t, err)

	_, err = job.NewSetJobStatusUseCase(f.Store, f.Events).Execute(ctx, f.Staff, created.ID, "active")
	require.NoError(t, err)

	stored, err := f.Store.Jobs().FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.JobStatusActive, stored.Status)
	require.Len(t, stored.Skills, 1)
	assert.Equal(t, skill.ID, stored.Skills[0].SkillID)
	assert.True(t, stored.Skills[0].Required)
}
