package app

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/hr-onboarding-api/internal/application/department"
	"github.com/jhoicas/hr-onboarding-api/internal/application/dto"
	"github.com/jhoicas/hr-onboarding-api/internal/application/ports"
	"github.com/jhoicas/hr-onboarding-api/internal/domain/entity"
	"github.com/jhoicas/hr-onboarding-api/pkg/config"
	"github.com/jhoicas/hr-onboarding-api/pkg/logger"
)

func TestNewServices_LogsPorComponente(t *testing.T) {
	ctx := context.Background()
	stores := MemoryStores()
	_, err := Seed(ctx, stores, logger.Nop(), "Secret123!", nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	cfg := &config.Config{Onboarding: config.OnboardingConfig{DocumentBasePath: "/uploads/hr", EmployeeCodeMaxAttempts: 10}}
	svc := NewServices(stores, cfg, logger.FromWriter(&buf), nil)

	op, err := stores.Departments.FindByCodeOrName(ctx, entity.DepartmentCodeOperation, department.DisplayName(entity.DepartmentCodeOperation))
	require.NoError(t, err)
	require.NotNil(t, op)

	_, err = svc.Engine.CreatePerson(ctx, ports.Actor{UserID: "u-op", DepartmentID: op.ID}, dto.CreatePersonRequest{
		FullName:                  "Ravi Kumar",
		Email:                     "ravi@example.com",
		PrimaryMobile:             "+91 98765 43210",
		EmploymentType:            string(entity.EmploymentFullTime),
		Category:                  string(entity.CategoryIT),
		CVFile:                    "cv.pdf",
		QualificationCertificates: []string{"degree.pdf"},
	})
	require.NoError(t, err)

	_, err = svc.Departments.SetActive(ctx, ports.Actor{UserID: "u-admin", Permissions: []string{entity.PermMasterAdmin}}, op.ID, true)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"component":"onboarding"`)
	assert.Contains(t, out, `"component":"audit"`)
	assert.Contains(t, out, `"component":"department"`)
}
