package contracts

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/socket-network/socket-deployer/internal/infra/docker"
)

const containerWorkDir = "/work"

// HostRunner runs the forge binary found on PATH.
type HostRunner struct {
	projectDir string
}

func NewHostRunner(projectDir string) *HostRunner {
	return &HostRunner{projectDir: projectDir}
}

func (r *HostRunner) Forge(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "forge", args...)
	cmd.Dir = r.projectDir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("forge %v: %w: %s", args, err, stderr.String())
	}

	return out, nil
}

type containerRunner interface {
	Run(ctx context.Context, opts docker.RunOptions) (string, error)
}

// DockerRunner runs forge inside the foundry image with the project mounted.
type DockerRunner struct {
	docker     containerRunner
	image      string
	projectDir string
}

func NewDockerRunner(client containerRunner, image, projectDir string) (*DockerRunner, error) {
	absDir, err := filepath.Abs(projectDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", projectDir, err)
	}

	return &DockerRunner{docker: client, image: image, projectDir: absDir}, nil
}

func (r *DockerRunner) Forge(ctx context.Context, args ...string) ([]byte, error) {
	out, err := r.docker.Run(ctx, RunOptionsFor(r.image, r.projectDir, args...))
	if err != nil {
		return nil, fmt.Errorf("forge %v: %w", args, err)
	}
	return []byte(out), nil
}

// RunOptionsFor builds the container invocation of forge for projectDir.
func RunOptionsFor(image, projectDir string, args ...string) docker.RunOptions {
	return docker.RunOptions{
		Image:      image,
		Entrypoint: []string{"forge"},
		Cmd:        args,
		Volumes:    map[string]string{projectDir: containerWorkDir},
		WorkDir:    containerWorkDir,
	}
}
