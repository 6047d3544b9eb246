// Forkline CI
//
// Package main provides reproducible builds and tests locally and in CI.
package main

import (
	"context"

	"dagger/forkline/internal/dagger"
)

// Forkline is the CI module for the forkline client.
type Forkline struct {
	// Project source directory
	//
	// +private
	Source *dagger.Directory
}

func New(
	// Project source directory.
	//
	// +defaultPath="/"
	// +ignore=[".git", "build", "tmp", "_examples"]
	source *dagger.Directory,
) *Forkline {
	return &Forkline{
		Source: source,
	}
}

// goContainer returns a Go container with module caches and the project
// source mounted. forkline is pure Go, so CGO stays off.
func (f *Forkline) goContainer() *dagger.Container {
	return dag.Container().
		From("golang:1.25-alpine").
		WithEnvVariable("CGO_ENABLED", "0").
		WithMountedCache("/go/pkg/mod", dag.CacheVolume("go-mod")).
		WithMountedCache("/root/.cache/go-build", dag.CacheVolume("go-build")).
		WithWorkdir("/src").
		WithDirectory("/src", f.Source)
}

// Test runs the ginkgo suites through go test.
//
// +check
func (f *Forkline) Test(ctx context.Context) (string, error) {
	return f.goContainer().
		WithExec([]string{"go", "test", "-v", "./..."}).
		Stdout(ctx)
}

// Vet runs go vet over the module.
//
// +check
func (f *Forkline) Vet(ctx context.Context) (string, error) {
	return f.goContainer().
		WithExec([]string{"go", "vet", "./..."}).
		Stdout(ctx)
}
