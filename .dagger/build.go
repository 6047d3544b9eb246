package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dagger/forkline/internal/dagger"
)

// Build returns a directory with a forkline binary per OS and architecture.
func (f *Forkline) Build(
	ctx context.Context,

	// Linker flags for go build
	// +optional
	// +default="-s -w"
	ldflags string,
) *dagger.Directory {
	gooses := []string{"linux", "darwin", "windows"}
	goarches := []string{"amd64", "arm64"}

	outputs := dag.Directory()
	golang := f.goContainer()

	for _, goos := range gooses {
		for _, goarch := range goarches {
			path := fmt.Sprintf("%s/%s/", goos, goarch)

			build := golang.
				WithEnvVariable("GOOS", goos).
				WithEnvVariable("GOARCH", goarch).
				WithExec([]string{"go", "build", "-ldflags", ldflags, "-o", path, "./cli/forkline"})

			outputs = outputs.WithDirectory(path, build.Directory(path))
		}
	}

	return outputs
}

// BuildRelease compiles binaries stamped with version, commit and build time.
func (f *Forkline) BuildRelease(
	ctx context.Context,

	// Version string of build
	version string,

	// Git commit SHA of build
	commit string,
) *dagger.Directory {
	const pkg = "github.com/forkline/forkline/pkg/utils"

	ldflags := []string{
		"-s",
		"-w",
		fmt.Sprintf("-X '%s.Version=%s'", pkg, version),
		fmt.Sprintf("-X '%s.Sha=%s'", pkg, commit),
		fmt.Sprintf("-X '%s.Buildtime=%s'", pkg, time.Now().UTC().Format(time.RFC3339)),
	}

	return f.Build(ctx, strings.Join(ldflags, " "))
}
