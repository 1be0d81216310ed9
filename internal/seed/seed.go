package seed

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/ignatzorin/engagement-backend/internal/domain/entity"
	"github.com/ignatzorin/engagement-backend/internal/domain/repository"
)

// Fixtures - справочные данные для dev-окружения: профили и навыки.
type Fixtures struct {
	Employers []entity.Employer `yaml:"employers"`
	Talents   []entity.Talent   `yaml:"talents"`
	Skills    []entity.Skill    `yaml:"skills"`
}

// Summary - сколько записей загружено.
type Summary struct {
	Employers int
	Talents   int
	Skills    int
}

func LoadFile(path string) (*Fixtures, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("seed: не удалось открыть %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode разбирает YAML и проверяет обязательные поля.
func Decode(r io.Reader) (*Fixtures, error) {
	var fx Fixtures
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fx); err != nil && err != io.EOF {
		return nil, fmt.Errorf("seed: некорректный yaml: %w", err)
	}
	if err := fx.validate(); err != nil {
		return nil, err
	}
	return &fx, nil
}

func (fx *Fixtures) validate() error {
	users := make(map[uuid.UUID]string)
	checkUser := func(kind string, i int, id, userID uuid.UUID) error {
		if id == uuid.Nil || userID == uuid.Nil {
			return fmt.Errorf("seed: %s[%d]: id и user_id обязательны", kind, i)
		}
		if prev, ok := users[userID]; ok {
			return fmt.Errorf("seed: %s[%d]: user_id %s уже занят (%s)", kind, i, userID, prev)
		}
		users[userID] = kind
		return nil
	}
	for i, e := range fx.Employers {
		if err := checkUser("employers", i, e.ID, e.UserID); err != nil {
			return err
		}
		if e.CompanyName == "" {
			return fmt.Errorf("seed: employers[%d]: company_name обязателен", i)
		}
	}
	for i, t := range fx.Talents {
		if err := checkUser("talents", i, t.ID, t.UserID); err != nil {
			return err
		}
		if t.DisplayName == "" {
			return fmt.Errorf("seed: talents[%d]: display_name обязателен", i)
		}
	}
	names := make(map[string]struct{})
	for i, s := range fx.Skills {
		if s.ID == uuid.Nil || s.Name == "" {
			return fmt.Errorf("seed: skills[%d]: id и name обязательны", i)
		}
		if _, ok := names[s.Name]; ok {
			return fmt.Errorf("seed: skills[%d]: навык %q повторяется", i, s.Name)
		}
		names[s.Name] = struct{}{}
	}
	return nil
}

// Apply загружает фикстуры одной транзакцией. Повторный запуск обновляет записи по id.
func Apply(ctx context.Context, uow repository.UnitOfWork, fx *Fixtures) (Summary, error) {
	var sum Summary
	err := uow.Do(ctx, func(tx repository.Repositories) error {
		for i := range fx.Skills {
			if err := tx.Skills().Upsert(ctx, &fx.Skills[i]); err != nil {
				return fmt.Errorf("seed: навык %s: %w", fx.Skills[i].Name, err)
			}
		}
		for i := range fx.Employers {
			if err := tx.Employers().Upsert(ctx, &fx.Employers[i]); err != nil {
				return fmt.Errorf("seed: работодатель %s: %w", fx.Employers[i].CompanyName, err)
			}
		}
		for i := range fx.Talents {
			if err := tx.Talents().Upsert(ctx, &fx.Talents[i]); err != nil {
				return fmt.Errorf("seed: исполнитель %s: %w", fx.Talents[i].DisplayName, err)
			}
		}
		sum = Summary{Employers: len(fx.Employers), Talents: len(fx.Talents), Skills: len(fx.Skills)}
		return nil
	})
	return sum, err
}
