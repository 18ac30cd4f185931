package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jackpotThenNothing = `
draws:
  - [A, A, A, A]
  - [A, B, C, B]
`

func runCommand(test *testing.T, input string, args ...string) string {
	test.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	require.NoError(test, cmd.Execute())
	return out.String()
}

func TestPlayJournalsScriptedSession(test *testing.T) {
	dir := test.TempDir()
	scriptPath := filepath.Join(dir, "draws.yaml")
	require.NoError(test, os.WriteFile(scriptPath, []byte(jackpotThenNothing), 0o600))
	databasePath := filepath.Join(dir, "journal.db")

	played := runCommand(test, "10\ny\nn\n",
		"--script", scriptPath,
		"--database-url", databasePath,
		"--log-level", "error",
	)
	assert.Contains(test, played, "You won £20.00.")
	assert.Contains(test, played, "You leave with £29.60 after 2 rounds.")

	sessions := runCommand(test, "", "history", "--database-url", databasePath)
	lines := strings.Split(strings.TrimSpace(sessions), "\n")
	require.Len(test, lines, 2)
	fields := strings.Fields(lines[1])
	require.NotEmpty(test, fields)
	sessionID := fields[0]
	assert.Contains(test, lines[1], "£29.60")

	rounds := runCommand(test, "", "history", sessionID, "--database-url", databasePath)
	assert.Contains(test, rounds, "jackpot")
	assert.Contains(test, rounds, "nothing")
	assert.Contains(test, rounds, "[ A | A | A | A ]")
}

func TestPlayWithoutInputExitsCleanly(test *testing.T) {
	out := runCommand(test, "", "--log-level", "error")
	assert.Contains(test, out, "How much money would you like to start with?")
	assert.NotContains(test, out, "Thanks for playing")
}

func TestHistoryRequiresDatabase(test *testing.T) {
	cmd := newRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"history"})
	assert.Error(test, cmd.Execute())
}
