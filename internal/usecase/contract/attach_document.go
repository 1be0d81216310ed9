package contract

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/engagement-backend/internal/domain/entity"
	"github.com/ignatzorin/engagement-backend/internal/domain/repository"
	"github.com/ignatzorin/engagement-backend/internal/domain/valueobject"
	"github.com/ignatzorin/engagement-backend/internal/logger"
	"github.com/ignatzorin/engagement-backend/internal/pkg/apperror"
	"github.com/ignatzorin/engagement-backend/internal/storage"
	"github.com/ignatzorin/engagement-backend/internal/usecase/common"
)

// DocumentStorage - файловое хранилище документов контракта.
type DocumentStorage interface {
	Save(ctx context.Context, contractID uuid.UUID, originalName string, r io.Reader) (*storage.StoredDocument, error)
	Delete(ctx context.Context, relativePath string) error
}

type AttachDocumentUseCase struct {
	store   repository.Store
	files   DocumentStorage
	updater *UpdateContractUseCase
}

func NewAttachDocumentUseCase(store repository.Store, files DocumentStorage, updater *UpdateContractUseCase) *AttachDocumentUseCase {
	return &AttachDocumentUseCase{store: store, files: files, updater: updater}
}

// Execute сохраняет файл и записывает ссылку на него в контракт.
func (uc *AttachDocumentUseCase) Execute(ctx context.Context, actor valueobject.Actor, id uuid.UUID, fileName string, r io.Reader) (*entity.Contract, error) {
	employer, err := common.RequireEmployer(ctx, uc.store, actor)
	if err != nil {
		return nil, err
	}
	contract, err := uc.store.Contracts().FindByID(ctx, id)
	if err != nil {
		return nil, common.Translate(err, apperror.ErrContractNotFound, "contract.find")
	}
	if contract.EmployerID != employer.ID {
		return nil, apperror.ErrForbidden
	}
	if contract.Status != valueobject.ContractStatusActive {
		return nil, apperror.New(apperror.ErrCodeConflict, "изменять можно только активный контракт")
	}

	doc, err := uc.files.Save(ctx, contract.ID, fileName, r)
	if err != nil {
		return nil, err
	}

	updated, err := uc.updater.Execute(ctx, actor, id, entity.ContractChanges{DocumentRef: &doc.Path})
	if err != nil {
		if delErr := uc.files.Delete(context.WithoutCancel(ctx), doc.Path); delErr != nil {
			logger.Log.WithFields(logrus.Fields{"path": doc.Path, "error": delErr.Error()}).Warn("contract: не удалось удалить документ")
		}
		return nil, err
	}
	return updated, nil
}
