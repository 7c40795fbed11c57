package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/term"
)

func TestRootCommands(t *testing.T) {
	root := newRootCmd()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["useradd"])
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
}

func TestUserAddRequiresUsername(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"useradd"})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestReadPasswordFromPipe(t *testing.T) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		t.Skip("stdin is a terminal")
	}
	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader("correct horse battery\n"))
	pw, err := readPassword(cmd, "Password: ")
	require.NoError(t, err)
	assert.Equal(t, "correct horse battery", pw)
}

func TestReadPasswordKeepsSpaces(t *testing.T) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		t.Skip("stdin is a terminal")
	}
	for in, want := range map[string]string{
		"  padded pw  \n": "  padded pw  ",
		" crlf line \r\n": " crlf line ",
		"no newline ":     "no newline ",
	} {
		cmd := &cobra.Command{}
		cmd.SetIn(strings.NewReader(in))
		pw, err := readPassword(cmd, "Password: ")
		require.NoError(t, err)
		assert.Equal(t, want, pw, "%q", in)
	}
}

type fakeDisconnecter struct{ err error }

func (f fakeDisconnecter) Disconnect(context.Context) error { return f.err }

func TestDisconnectLogsFailure(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	log := zap.New(core)

	disconnect(fakeDisconnecter{}, log)
	assert.Equal(t, 0, logs.Len())

	disconnect(fakeDisconnecter{err: errors.New("server selection timeout")}, log)
	entries := logs.FilterMessage("mongodb disconnect").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "server selection timeout", entries[0].ContextMap()["error"])
}
