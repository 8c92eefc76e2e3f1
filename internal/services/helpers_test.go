package services

import (
	"errors"
	"io"
	"testing"

	"portfolio-backend-go/internal/store/storetest"

	"github.com/sirupsen/logrus"
)

func newMemory() *storetest.Memory {
	return storetest.New().
		Keyless(TableProjectTechStacks).
		Cascade(ProjectSchema.Table, TableProjectTechStacks, "project_id").
		Cascade(TechStackSchema.Table, TableProjectTechStacks, "tech_stack_id")
}

func quietLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func requireStatus(t *testing.T, err error, status int) ServiceError {
	t.Helper()
	var serr ServiceError
	if !errors.As(err, &serr) {
		t.Fatalf("expected ServiceError with status %d, got %v", status, err)
	}
	if serr.Status != status {
		t.Fatalf("status = %d, want %d (%s)", serr.Status, status, serr.Message)
	}
	return serr
}
