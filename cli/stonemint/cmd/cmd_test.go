package cmd

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/cryptograss/stonemint/pkg/showminting"
	"github.com/cryptograss/stonemint/pkg/showminting/chain"
)

const (
	// first account of the well known "test test ... junk" development mnemonic
	testPrivateKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testAddress    = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	testMnemonic   = "test test test test test test test test test test test junk"
)

type testConsoleWriter struct {
	lines []string
}

func (w *testConsoleWriter) Println(a ...any) {
	s := fmt.Sprintln(a...)
	w.lines = append(w.lines, s[:len(s)-1]) // remove newline
}

func (w *testConsoleWriter) Print(a ...any) {
	w.Println(a...)
}

type mockSubmitter struct {
	mu     sync.Mutex
	cfg    chain.Config
	sender common.Address
	calls  [][]any
	err    error
	closed bool
}

func (m *mockSubmitter) Transact(ctx context.Context, args ...any) (*chain.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, args)
	if m.err != nil {
		return nil, m.err
	}
	return &chain.Submission{TxHash: common.HexToHash("0xabcdef"), From: m.sender}, nil
}

func (m *mockSubmitter) factory() submitterFactory {
	return func(ctx context.Context, cfg chain.Config, contractABI abi.ABI, key *ecdsa.PrivateKey) (showminting.Submitter, func(), error) {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.cfg = cfg
		m.sender = crypto.PubkeyToAddress(key.PublicKey)
		return m, func() { m.closed = true }, nil
	}
}

func (m *mockSubmitter) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *mockSubmitter) senderAddress() common.Address {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sender
}

func execCommand(ctx context.Context, homeDir string, newSubmitter submitterFactory, args ...string) (*testConsoleWriter, error) {
	outputWriter := &testConsoleWriter{}
	consoleWriter = outputWriter

	app := New()
	if newSubmitter != nil {
		app.newSubmitter = newSubmitter
	}
	app.baseCmd.SetArgs(append(args, "--home", homeDir, "--log-file", "discard"))
	return outputWriter, app.addAndExecuteCommand(ctx)
}

func verifyStdout(t *testing.T, consoleWriter *testConsoleWriter, expectedLines ...string) {
	t.Helper()
	joined := strings.Join(consoleWriter.lines, "\n")
	for _, expectedLine := range expectedLines {
		require.Contains(t, joined, expectedLine)
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	fileName := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(fileName, []byte(content), 0600))
	return fileName
}

// unsetEnv removes the variable for the duration of the test, godotenv does
// not override variables which are already set.
func unsetEnv(t *testing.T, key string) {
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}
