package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/hr-onboarding-api/internal/domain/entity"
	"github.com/jhoicas/hr-onboarding-api/internal/domain/repository"
)

func TestStore_CreateReportaEmailAntesQueMovil(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	// varias personas para que el orden del map no influya
	for i, p := range []*entity.Person{
		{ID: "p-1", Email: "uno@example.com", PrimaryMobile: "+91 1"},
		{ID: "p-2", Email: "dos@example.com", PrimaryMobile: "+91 2"},
		{ID: "p-3", Email: "tres@example.com", PrimaryMobile: "+91 3"},
		{ID: "p-4", Email: "cuatro@example.com", PrimaryMobile: "+91 4"},
	} {
		require.NoError(t, s.Create(ctx, p), "persona %d", i)
	}

	for i := 0; i < 50; i++ {
		err := s.Create(ctx, &entity.Person{ID: "p-x", Email: "CUATRO@example.com", PrimaryMobile: "+91 1"})
		require.True(t, repository.IsDuplicate(err, repository.FieldEmail), "intento %d: %v", i, err)
	}

	err := s.Create(ctx, &entity.Person{ID: "p-x", Email: "nuevo@example.com", PrimaryMobile: "+91 2"})
	assert.True(t, repository.IsDuplicate(err, repository.FieldPrimaryMobile))
}

func TestStore_UpdateIgnoraLaPropiaFila(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	p := &entity.Person{ID: "p-1", Email: "uno@example.com", PrimaryMobile: "+91 1", CurrentStatus: entity.StatusOperationStageA}
	require.NoError(t, s.Create(ctx, p))

	p.FullName = "Uno"
	require.NoError(t, s.UpdateIfStatus(ctx, p, entity.StatusOperationStageA))
	got, err := s.GetByID(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, "Uno", got.FullName)
	assert.Equal(t, 2, got.Version)
}
