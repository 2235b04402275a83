package remote

import (
	"context"
	"fmt"
)

// Client expresses the orchestrator's remote file and command verbs on top
// of a Runner. BatchMode keeps a missing key or host entry failing fast
// instead of prompting.
type Client struct {
	runner Runner
}

func NewClient(runner Runner) *Client {
	return &Client{runner: runner}
}

func sshArgs(host, command string) []string {
	return []string{"-o", "BatchMode=yes", host, command}
}

// Command runs a shell command on host, blocking until it exits.
func (c *Client) Command(ctx context.Context, host, command string) error {
	return c.runner.Run(ctx, "ssh", sshArgs(host, command)...)
}

// CommandOutput runs a shell command on host and returns its stdout.
func (c *Client) CommandOutput(ctx context.Context, host, command string) (string, error) {
	return c.runner.Output(ctx, "ssh", sshArgs(host, command)...)
}

// Push copies a single local file to host:remotePath.
func (c *Client) Push(ctx context.Context, localPath, host, remotePath string) error {
	return c.runner.Run(ctx, "scp", "-o", "BatchMode=yes", localPath, fmt.Sprintf("%s:%s", host, remotePath))
}

// CopyTree recursively copies the contents of host:remoteDir into localDir.
func (c *Client) CopyTree(ctx context.Context, host, remoteDir, localDir string) error {
	return c.runner.Run(ctx, "scp", "-o", "BatchMode=yes", "-r",
		fmt.Sprintf("%s:%s/.", host, remoteDir), localDir)
}

// Mirror makes host:remoteDir an exact copy of localDir, deleting remote
// files absent locally.
func (c *Client) Mirror(ctx context.Context, localDir, host, remoteDir string) error {
	return c.runner.Run(ctx, "rsync", "-az", "--delete",
		localDir+"/", fmt.Sprintf("%s:%s/", host, remoteDir))
}

// Pull syncs host:remoteDir down into localDir without deleting local
// files, so locally collected iteration directories survive the merge.
func (c *Client) Pull(ctx context.Context, host, remoteDir, localDir string) error {
	return c.runner.Run(ctx, "rsync", "-az",
		fmt.Sprintf("%s:%s/", host, remoteDir), localDir+"/")
}
