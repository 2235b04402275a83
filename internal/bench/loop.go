// Package bench runs the IO500 benchmark repeatedly against the deployed
// cluster and collects each run's raw output.
package bench

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"io500-bench/internal/logging"
	"io500-bench/internal/remote"
	"io500-bench/internal/session"

	"github.com/sirupsen/logrus"
)

// Iteration records one completed benchmark pass.
type Iteration struct {
	Index    int
	LocalDir string
}

// Loop owns the run/collect/cleanup cycle. Strictly sequential: iteration
// i+1 only starts after iteration i's remote cleanup and result sync are
// done.
type Loop struct {
	client           *remote.Client
	controller       string
	inventoryPath    string
	benchmarkScript  string
	clientResultsDir string
	sess             *session.Context
}

func NewLoop(client *remote.Client, controller, inventoryPath, benchmarkScript, clientResultsDir string, sess *session.Context) *Loop {
	return &Loop{
		client:           client,
		controller:       controller,
		inventoryPath:    inventoryPath,
		benchmarkScript:  benchmarkScript,
		clientResultsDir: clientResultsDir,
		sess:             sess,
	}
}

// rfc1918 matches private addresses; the generated inventory lists cluster
// nodes by their internal address.
var rfc1918 = regexp.MustCompile(`^(10\.|192\.168\.|172\.(1[6-9]|2[0-9]|3[01])\.)`)

// FirstClient returns the name of the first inventory entry whose address
// is private. Entry order in the generated file is the tie-break.
func FirstClient(inventory string) (string, error) {
	scanner := bufio.NewScanner(strings.NewReader(inventory))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		name, addr := fields[0], fields[1]
		if rfc1918.MatchString(addr) {
			return name, nil
		}
	}
	return "", fmt.Errorf("no client with a private address found in inventory")
}

// Run executes n benchmark iterations and returns one record per pass.
// Any failure aborts the loop immediately; partially collected results
// stay where they are.
func (l *Loop) Run(ctx context.Context, n int) ([]Iteration, error) {
	logger := logging.GetLogger()
	iterations := make([]Iteration, 0, n)

	for i := 0; i < n; i++ {
		logger.WithFields(logrus.Fields{
			"iteration": i,
			"total":     n,
		}).Info("Starting benchmark iteration")

		record, err := l.runIteration(ctx, i)
		if err != nil {
			return iterations, fmt.Errorf("iteration %d failed: %w", i, err)
		}
		iterations = append(iterations, record)
	}

	return iterations, nil
}

func (l *Loop) runIteration(ctx context.Context, index int) (Iteration, error) {
	logger := logging.GetLogger()

	client, err := l.resolveClient(ctx)
	if err != nil {
		return Iteration{}, err
	}

	logger.WithFields(logrus.Fields{
		"iteration": index,
		"client":    client,
	}).Info("Running IO500 on benchmark client")

	if err := l.client.Command(ctx, client, l.benchmarkScript); err != nil {
		return Iteration{}, fmt.Errorf("benchmark run failed on %s: %w", client, err)
	}

	localDir := l.sess.LocalIterationDir(index)
	if err := os.MkdirAll(l.sess.LocalRoot, 0o755); err != nil {
		return Iteration{}, fmt.Errorf("failed to create session root: %w", err)
	}
	// os.Mkdir, not MkdirAll: a pre-existing iteration directory means the
	// session namespace was reused and the results would be ambiguous.
	if err := os.Mkdir(localDir, 0o755); err != nil {
		return Iteration{}, fmt.Errorf("failed to create iteration directory: %w", err)
	}

	if err := l.client.CopyTree(ctx, client, l.clientResultsDir, localDir); err != nil {
		return Iteration{}, fmt.Errorf("failed to collect results from %s: %w", client, err)
	}

	if err := l.client.Command(ctx, client, "rm -rf "+l.clientResultsDir); err != nil {
		return Iteration{}, fmt.Errorf("failed to clean remote results on %s: %w", client, err)
	}

	if err := l.client.Pull(ctx, l.controller, l.sess.RemoteRoot, l.sess.LocalRoot); err != nil {
		return Iteration{}, fmt.Errorf("failed to sync session results from controller: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"iteration": index,
		"local_dir": localDir,
	}).Info("Iteration results collected")

	return Iteration{Index: index, LocalDir: localDir}, nil
}

// resolveClient reads the generated inventory off the controller and picks
// the first private-address entry. Re-read every iteration: the inventory
// is regenerated by the provisioning tooling and may change between runs.
func (l *Loop) resolveClient(ctx context.Context) (string, error) {
	inventory, err := l.client.CommandOutput(ctx, l.controller, "cat "+l.inventoryPath)
	if err != nil {
		return "", fmt.Errorf("failed to read host inventory: %w", err)
	}
	return FirstClient(inventory)
}
