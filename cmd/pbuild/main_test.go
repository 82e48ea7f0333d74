package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"go.pbuild.dev/pbuild/internal/app"
	"go.pbuild.dev/pbuild/internal/core/domain"
	"go.pbuild.dev/pbuild/internal/engine/driver"
)

// fakeConfigLoader is a hand-rolled ports.ConfigLoader stand-in; the
// project carries no generated mocks since go:generate is never run here.
type fakeConfigLoader struct {
	resolveErr error
}

func (f *fakeConfigLoader) Parse(id domain.ProjectID, _ string) (*domain.ParsedProject, error) {
	return &domain.ParsedProject{ID: id}, nil
}

func (f *fakeConfigLoader) Resolve(_ string, name string) (domain.ProjectID, string, error) {
	if f.resolveErr != nil {
		return domain.ProjectID{}, "", f.resolveErr
	}
	return domain.NewProjectID(name), name, nil
}

type fakeLogger struct{ errors []error }

func (l *fakeLogger) Info(string)     {}
func (l *fakeLogger) Error(err error) { l.errors = append(l.errors, err) }

func TestRun_Version(t *testing.T) {
	logger := &fakeLogger{}
	application := app.New(&fakeConfigLoader{}, (*driver.Driver)(nil), nil, nil)

	provider := func(context.Context) (*app.Components, error) {
		return &app.Components{App: application, Logger: logger}, nil
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)
	if exitCode != 0 {
		t.Errorf("expected exit code 0, got %d (stderr: %s)", exitCode, stderr.String())
	}
}

func TestRun_InitializationError(t *testing.T) {
	provider := func(context.Context) (*app.Components, error) {
		return nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)
	if exitCode != 1 {
		t.Errorf("expected exit code 1, got %d", exitCode)
	}
	if !bytes.Contains(stderr.Bytes(), []byte("init failed")) {
		t.Errorf("expected stderr to mention the init error, got: %s", stderr.String())
	}
}

func TestRun_BuildResolveError(t *testing.T) {
	logger := &fakeLogger{}
	application := app.New(&fakeConfigLoader{resolveErr: errors.New("no such project")}, (*driver.Driver)(nil), nil, nil)

	provider := func(context.Context) (*app.Components, error) {
		return &app.Components{App: application, Logger: logger}, nil
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"build", "missing"}, stderr, provider)
	if exitCode != 1 {
		t.Errorf("expected exit code 1, got %d", exitCode)
	}
	if len(logger.errors) != 1 {
		t.Errorf("expected the resolve error to reach the logger, got %d logged errors", len(logger.errors))
	}
}
