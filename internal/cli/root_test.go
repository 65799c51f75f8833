package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCmd_MenuPersistsAcrossRuns(t *testing.T) {
	dir := t.TempDir()
	usersDB := filepath.Join(dir, "users.db")
	listingsDB := filepath.Join(dir, "listings.db")
	flags := []string{"--users-db", usersDB, "--listings-db", listingsDB}

	out, err := execute(t, "1\nalice\npw\n1\nHarbour\nsoup\n2\na@x\n4\n", flags...)
	require.NoError(t, err)
	assert.Contains(t, out, "New listing added successfully!")

	for _, p := range []string{usersDB, listingsDB} {
		_, err := os.Stat(p)
		assert.NoError(t, err, "expected %s to be created", p)
	}

	// A second run sees the account and its listing.
	out, err = execute(t, "2\nalice\npw\n2\n\n4\n", flags...)
	require.NoError(t, err)
	assert.Contains(t, out, "Login successful.")
	assert.Contains(t, out, "ID: 1, Area: Harbour, Food: soup, Quantity: 2, Contact: a@x")

	out, err = execute(t, "", append([]string{"listings", "--area", "harb", "--format", "table"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "soup")
	assert.Contains(t, out, "(1 listings)")

	out, err = execute(t, "", append([]string{"listings", "--area", "nowhere"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "No listings found.")
}

func TestRootCmd_InvalidFormat(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "", "listings", "--format", "xml",
		"--users-db", filepath.Join(dir, "u.db"), "--listings-db", filepath.Join(dir, "l.db"))
	assert.Error(t, err)
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "foodshare "+Version+"\n", out)
}

func TestRootCmd_LogFile(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "foodshare.log")
	t.Cleanup(func() { setLogLevel("warn") })

	_, err := execute(t, "1\ncarol\npw\n4\n",
		"--log-level", "info", "--log-file", logPath,
		"--users-db", filepath.Join(dir, "u.db"), "--listings-db", filepath.Join(dir, "l.db"))
	require.NoError(t, err)
	assert.Nil(t, rootCmdPersistentFlags.logFile)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "user registered")
}

func TestRootCmd_LogFileClosedOnError(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "foodshare.log")
	t.Cleanup(func() { setLogLevel("warn") })

	_, err := execute(t, "",
		"--log-level", "info", "--log-file", logPath,
		"--users-db", filepath.Join(dir, "missing", "u.db"), "--listings-db", filepath.Join(dir, "l.db"))
	require.Error(t, err)
	assert.Nil(t, rootCmdPersistentFlags.logFile, "log file must be released when the command fails")

	_, err = os.Stat(logPath)
	assert.NoError(t, err)
}
