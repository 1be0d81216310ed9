package seed

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/engagement-backend/internal/infrastructure/memory"
)

func TestLoadFile_DevFixtures(t *testing.T) {
	fx, err := LoadFile(filepath.Join("..", "..", "seed", "dev.yaml"))
	require.NoError(t, err)
	assert.Len(t, fx.Skills, 4)
	assert.Len(t, fx.Employers, 2)
	assert.Len(t, fx.Talents, 3)
}

func TestDecode_Validation(t *testing.T) {
	cases := map[string]string{
		"missing user": `
employers:
  - id: 0b9d7e52-3c1a-4f6e-8d2b-000000000001
    company_name: Acme
`,
		"shared user id": `
employers:
  - id: 0b9d7e52-3c1a-4f6e-8d2b-000000000001
    user_id: 0b9d7e52-3c1a-4f6e-8d2b-100000000001
    company_name: Acme
talents:
  - id: 4a8e6c13-9d2f-4b7a-a1c5-000000000001
    user_id: 0b9d7e52-3c1a-4f6e-8d2b-100000000001
    display_name: Someone
`,
		"duplicate skill": `
skills:
  - id: 6f1c2a4e-0b7d-4c58-9f3e-1a2b3c4d5e01
    name: Go
  - id: 6f1c2a4e-0b7d-4c58-9f3e-1a2b3c4d5e02
    name: Go
`,
		"unknown field": `
skills:
  - id: 6f1c2a4e-0b7d-4c58-9f3e-1a2b3c4d5e01
    title: Go
`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

func TestApply_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	fx, err := LoadFile(filepath.Join("..", "..", "seed", "dev.yaml"))
	require.NoError(t, err)

	sum, err := Apply(ctx, store, fx)
	require.NoError(t, err)
	assert.Equal(t, Summary{Employers: 2, Talents: 3, Skills: 4}, sum)

	_, err = Apply(ctx, store, fx)
	require.NoError(t, err)

	emp, err := store.Employers().FindByUserID(ctx, uuid.MustParse("0b9d7e52-3c1a-4f6e-8d2b-100000000001"))
	require.NoError(t, err)
	assert.Equal(t, "Silk Road Logistics", emp.CompanyName)
}
