package dto

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ParseTime принимает RFC3339 или дату YYYY-MM-DD.
func ParseTime(v *string) (*time.Time, error) {
	if v == nil || *v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, *v); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, *v)
	if err != nil {
		return nil, fmt.Errorf("некорректная дата %q", *v)
	}
	return &t, nil
}

func ParseUUIDs(values []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, fmt.Errorf("некорректный идентификатор %q", v)
		}
		out = append(out, id)
	}
	return out, nil
}

func ParseOptionalUUID(v *string) (*uuid.UUID, error) {
	if v == nil || *v == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*v)
	if err != nil {
		return nil, fmt.Errorf("некорректный идентификатор %q", *v)
	}
	return &id, nil
}

type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}
