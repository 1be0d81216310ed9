package entity

import (
	"time"

	"github.com/google/uuid"
)

// Employer и Talent - справочные профили, владельцем которых движок не является.
type Employer struct {
	ID          uuid.UUID `yaml:"id"`
	UserID      uuid.UUID `yaml:"user_id"`
	CompanyName string    `yaml:"company_name"`
	CreatedAt   time.Time `yaml:"-"`
}

type Talent struct {
	ID                 uuid.UUID `yaml:"id"`
	UserID             uuid.UUID `yaml:"user_id"`
	DisplayName        string    `yaml:"display_name"`
	TotalJobsCompleted int       `yaml:"-"`
	CreatedAt          time.Time `yaml:"-"`
}

type Skill struct {
	ID   uuid.UUID `yaml:"id"`
	Name string    `yaml:"name"`
}
