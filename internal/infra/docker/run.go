package docker

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/docker/go-connections/nat"
)

type (
	RunOptions struct {
		Image      string
		Entrypoint []string
		Cmd        []string
		Env        []string
		Volumes    map[string]string // host:container
		WorkDir    string
		User       string
		StreamLogs bool
	}

	StartOptions struct {
		Name       string
		Image      string
		Entrypoint []string
		Cmd        []string
		// Ports maps container TCP ports to host ports.
		Ports map[int]int
	}
)

// Run runs a container to completion and returns its stdout.
func (c *Client) Run(ctx context.Context, opts RunOptions) (string, error) {
	config := &container.Config{
		Image:      opts.Image,
		Entrypoint: opts.Entrypoint,
		Cmd:        opts.Cmd,
		Env:        opts.Env,
		WorkingDir: opts.WorkDir,
		User:       opts.User,
	}

	hostConfig := &container.HostConfig{}
	if len(opts.Volumes) > 0 {
		binds := make([]string, 0, len(opts.Volumes))
		for host, containerPath := range opts.Volumes {
			binds = append(binds, fmt.Sprintf("%s:%s", host, containerPath))
		}
		hostConfig.Binds = binds
	}

	resp, err := c.cli.ContainerCreate(ctx, config, hostConfig, nil, nil, "")
	if err != nil {
		return "", fmt.Errorf("failed to create container: %w", err)
	}

	containerID := resp.ID
	defer func() {
		_ = c.cli.ContainerRemove(context.WithoutCancel(ctx), containerID, container.RemoveOptions{Force: true})
	}()

	attachResp, err := c.cli.ContainerAttach(ctx, containerID, container.AttachOptions{
		Stream: true,
		Stdout: true,
		Stderr: true,
	})
	if err != nil {
		return "", fmt.Errorf("failed to attach to container: %w", err)
	}
	defer attachResp.Close()

	var stdout, stderr bytes.Buffer
	copied := make(chan struct{})
	go func() {
		defer close(copied)
		if opts.StreamLogs {
			_, _ = stdcopy.StdCopy(&stdout, io.MultiWriter(os.Stderr, &stderr), attachResp.Reader)
			return
		}
		_, _ = stdcopy.StdCopy(&stdout, &stderr, attachResp.Reader)
	}()

	if err := c.cli.ContainerStart(ctx, containerID, container.StartOptions{}); err != nil {
		return "", fmt.Errorf("failed to start container: %w", err)
	}

	statusCh, errCh := c.cli.ContainerWait(ctx, containerID, container.WaitConditionNotRunning)
	select {
	case err := <-errCh:
		if err != nil {
			return "", fmt.Errorf("error waiting for container: %w", err)
		}
	case status := <-statusCh:
		<-copied
		if status.StatusCode != 0 {
			if errorOutput := stderr.String(); errorOutput != "" {
				return "", fmt.Errorf("container exited with code %d: %s", status.StatusCode, errorOutput)
			}
			return "", fmt.Errorf("container exited with code %d", status.StatusCode)
		}
	}

	return stdout.String(), nil
}

// Start creates and starts a long-running named container and returns its id.
func (c *Client) Start(ctx context.Context, opts StartOptions) (string, error) {
	exposed := make(nat.PortSet, len(opts.Ports))
	bindings := make(nat.PortMap, len(opts.Ports))
	for containerPort, hostPort := range opts.Ports {
		port, err := nat.NewPort("tcp", strconv.Itoa(containerPort))
		if err != nil {
			return "", fmt.Errorf("invalid container port %d: %w", containerPort, err)
		}
		exposed[port] = struct{}{}
		bindings[port] = []nat.PortBinding{{HostIP: "127.0.0.1", HostPort: strconv.Itoa(hostPort)}}
	}

	config := &container.Config{
		Image:        opts.Image,
		Entrypoint:   opts.Entrypoint,
		Cmd:          opts.Cmd,
		ExposedPorts: exposed,
	}
	hostConfig := &container.HostConfig{
		PortBindings: bindings,
	}

	resp, err := c.cli.ContainerCreate(ctx, config, hostConfig, nil, nil, opts.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create container %s: %w", opts.Name, err)
	}

	if err := c.cli.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		_ = c.cli.ContainerRemove(context.WithoutCancel(ctx), resp.ID, container.RemoveOptions{Force: true})
		return "", fmt.Errorf("failed to start container %s: %w", opts.Name, err)
	}

	c.logger.With("container", opts.Name, "id", resp.ID, "image", opts.Image).Info("container started")

	return resp.ID, nil
}
