package job

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/engagement-backend/internal/domain/entity"
	"github.com/ignatzorin/engagement-backend/internal/domain/event"
	"github.com/ignatzorin/engagement-backend/internal/domain/repository"
	"github.com/ignatzorin/engagement-backend/internal/domain/valueobject"
	"github.com/ignatzorin/engagement-backend/internal/pkg/apperror"
	"github.com/ignatzorin/engagement-backend/internal/usecase/common"
)

type SkillInput struct {
	SkillID  uuid.UUID
	Required bool
}

type JobInput struct {
	Fields entity.JobFields
	Skills []SkillInput
}

type CreateJobUseCase struct {
	store  repository.Store
	events event.Publisher
}

func NewCreateJobUseCase(store repository.Store, events event.Publisher) *CreateJobUseCase {
	return &CreateJobUseCase{store: store, events: events}
}

// Execute создаёт вакансию от имени работодателя в статусе pending_approval.
func (uc *CreateJobUseCase) Execute(ctx context.Context, actor valueobject.Actor, input JobInput) (*entity.Job, error) {
	employer, err := common.RequireEmployer(ctx, uc.store, actor)
	if err != nil {
		return nil, err
	}

	fields := input.Fields
	fields.Skills, err = resolveSkills(ctx, uc.store, input.Skills)
	if err != nil {
		return nil, err
	}

	job, err := entity.NewJob(employer.ID, fields)
	if err != nil {
		return nil, err
	}

	// строка вакансии и её навыки пишутся одной транзакцией
	err = uc.store.Do(ctx, func(tx repository.Repositories) error {
		if err := tx.Jobs().Create(ctx, job); err != nil {
			return common.Translate(err, apperror.ErrEmployerNotFound, "job.create")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.events.Publish(ctx, event.New(event.JobCreated, event.EntityJob, job.ID, actor).
		Transition("", string(job.Status)).
		With("title", job.Title))

	return job, nil
}

// resolveSkills проверяет, что все навыки существуют, и подставляет их названия.
func resolveSkills(ctx context.Context, repos repository.Repositories, input []SkillInput) ([]entity.JobSkill, error) {
	if len(input) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, 0, len(input))
	seen := make(map[uuid.UUID]bool, len(input))
	for _, s := range input {
		if seen[s.SkillID] {
			return nil, apperror.Validation("навык указан дважды", map[string]string{"skills": s.SkillID.String()})
		}
		seen[s.SkillID] = true
		ids = append(ids, s.SkillID)
	}

	found, err := repos.Skills().FindByIDs(ctx, ids)
	if err != nil {
		return nil, common.Translate(err, nil, "skill.find_by_ids")
	}
	names := make(map[uuid.UUID]string, len(found))
	for _, s := range found {
		names[s.ID] = s.Name
	}

	skills := make([]entity.JobSkill, 0, len(input))
	for _, s := range input {
		name, ok := names[s.SkillID]
		if !ok {
			return nil, apperror.Validation("неизвестный навык", map[string]string{"skills": s.SkillID.String()})
		}
		skills = append(skills, entity.JobSkill{SkillID: s.SkillID, Name: name, Required: s.Required})
	}
	return skills, nil
}
