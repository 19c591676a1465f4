package commands

import (
	"testing"

	"github.com/josephlewis42/seashell/core/vos/vostest"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shortdirStorePath = "/home/tester/.seashell/shortdir.txt"

func runShortdir(t *testing.T, fsys afero.Fs, dir string, args ...string) (*vostest.Cmd, string) {
	t.Helper()

	cmd := vostest.Command(Shortdir, "shortdir", args...)
	cmd.Fs = fsys
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err)
	return cmd, string(out)
}

func TestShortdir_lifecycle(t *testing.T) {
	fsys := afero.NewMemMapFs()

	_, out := runShortdir(t, fsys, "/home/tester/projects", "set", "work")
	assert.Equal(t, "work is set as an alias for /home/tester/projects\n", out)

	runShortdir(t, fsys, "/tmp", "set", "tmp")

	// Re-setting a name replaces the old entry.
	runShortdir(t, fsys, "/srv/work", "set", "work")

	stored, err := afero.ReadFile(fsys, shortdirStorePath)
	require.NoError(t, err)
	assert.Equal(t, "tmp:/tmp\nwork:/srv/work\n", string(stored))

	_, out = runShortdir(t, fsys, "/", "list")
	assert.Equal(t, "tmp:/tmp\nwork:/srv/work\n", out)

	cmd, out := runShortdir(t, fsys, "/", "jump", "work")
	assert.Empty(t, out)
	assert.Equal(t, 0, cmd.ExitStatus)
	assert.Equal(t, "/srv/work", cmd.Handoff.String())

	runShortdir(t, fsys, "/", "del", "tmp")
	_, out = runShortdir(t, fsys, "/", "list")
	assert.Equal(t, "work:/srv/work\n", out)

	runShortdir(t, fsys, "/", "clear")
	_, out = runShortdir(t, fsys, "/", "list")
	assert.Empty(t, out)
}

func TestShortdir_messages(t *testing.T) {
	cases := map[string]struct {
		args       []string
		wantOut    string
		wantStatus int
	}{
		"no args":       {nil, "Missing parameters\n", 0},
		"invalid":       {[]string{"rename"}, "Invalid argument\n", 0},
		"set no name":   {[]string{"set"}, "Please enter an alias name\n", 0},
		"del no name":   {[]string{"del"}, "Please enter an alias name\n", 0},
		"jump no name":  {[]string{"jump"}, "Please enter an alias name\n", 0},
		"jump unknown":  {[]string{"jump", "nowhere"}, "shortdir: nowhere: no such alias\n", 1},
		"list no store": {[]string{"list"}, "", 0},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			cmd, out := runShortdir(t, afero.NewMemMapFs(), "/", tc.args...)
			assert.Equal(t, tc.wantOut, out)
			assert.Equal(t, tc.wantStatus, cmd.ExitStatus)
			assert.Empty(t, cmd.Handoff.String())
		})
	}
}
