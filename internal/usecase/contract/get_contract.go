package contract

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/engagement-backend/internal/domain/entity"
	"github.com/ignatzorin/engagement-backend/internal/domain/repository"
	"github.com/ignatzorin/engagement-backend/internal/domain/valueobject"
	"github.com/ignatzorin/engagement-backend/internal/pkg/apperror"
	"github.com/ignatzorin/engagement-backend/internal/usecase/common"
)

type GetContractUseCase struct {
	store repository.Store
}

func NewGetContractUseCase(store repository.Store) *GetContractUseCase {
	return &GetContractUseCase{store: store}
}

func (uc *GetContractUseCase) Execute(ctx context.Context, actor valueobject.Actor, id uuid.UUID) (*entity.Contract, error) {
	contract, err := uc.store.Contracts().FindByID(ctx, id)
	if err != nil {
		return nil, common.Translate(err, apperror.ErrContractNotFound, "contract.find")
	}
	profile, err := common.LoadProfile(ctx, uc.store, actor)
	if err != nil {
		return nil, err
	}
	if !profile.CanAccessContract(contract) {
		return nil, apperror.ErrForbidden
	}
	return contract, nil
}

// scopeFor ограничивает выборку ролью актора.
func scopeFor(ctx context.Context, repos repository.Repositories, actor valueobject.Actor) (repository.ContractScope, error) {
	if actor.IsStaff() {
		return repository.ContractScope{Kind: repository.ScopeAll}, nil
	}
	switch {
	case actor.IsEmployer():
		employer, err := common.RequireEmployer(ctx, repos, actor)
		if err != nil {
			return repository.ContractScope{}, err
		}
		return repository.ContractScope{Kind: repository.ScopeEmployer, ID: employer.ID}, nil
	case actor.IsTalent():
		talent, err := common.RequireTalent(ctx, repos, actor)
		if err != nil {
			return repository.ContractScope{}, err
		}
		return repository.ContractScope{Kind: repository.ScopeTalent, ID: talent.ID}, nil
	}
	return repository.ContractScope{}, apperror.ErrForbidden
}

type ListContractsUseCase struct {
	store repository.Store
}

func NewListContractsUseCase(store repository.Store) *ListContractsUseCase {
	return &ListContractsUseCase{store: store}
}

func (uc *ListContractsUseCase) Execute(ctx context.Context, actor valueobject.Actor) ([]*entity.Contract, error) {
	scope, err := scopeFor(ctx, uc.store, actor)
	if err != nil {
		return nil, err
	}
	contracts, err := uc.store.Contracts().List(ctx, scope)
	if err != nil {
		return nil, common.Translate(err, nil, "contract.list")
	}
	return contracts, nil
}

type ContractStatsUseCase struct {
	store repository.Store
}

func NewContractStatsUseCase(store repository.Store) *ContractStatsUseCase {
	return &ContractStatsUseCase{store: store}
}

// Execute считает контракты по статусам, сумму и комиссию в пределах роли актора.
func (uc *ContractStatsUseCase) Execute(ctx context.Context, actor valueobject.Actor) (*repository.ContractStats, error) {
	scope, err := scopeFor(ctx, uc.store, actor)
	if err != nil {
		return nil, err
	}
	stats, err := uc.store.Contracts().Stats(ctx, scope)
	if err != nil {
		return nil, common.Translate(err, nil, "contract.stats")
	}
	return stats, nil
}
