package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"strings"
	"testing"

	"github.com/josephlewis42/seashell/core/logger"
	"github.com/josephlewis42/seashell/core/parser"
	"github.com/josephlewis42/seashell/core/vos"
	"github.com/josephlewis42/seashell/core/vos/vostest"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeProcess struct {
	pid    int
	code   int
	waited bool
	killed bool
}

func (p *fakeProcess) Pid() int { return p.pid }

func (p *fakeProcess) Wait() (int, error) {
	p.waited = true
	return p.code, nil
}

func (p *fakeProcess) Kill() error {
	p.killed = true
	return nil
}

// fakeSpawner runs each stage synchronously inside Spawn.
type fakeSpawner struct {
	requests []*SpawnRequest
	procs    []*fakeProcess
	// run simulates the stage and returns its exit status.
	run func(req *SpawnRequest) int
	// failOn makes spawning the named command fail.
	failOn string
}

func (f *fakeSpawner) Spawn(req *SpawnRequest) (Process, error) {
	if req.Argv[0] == f.failOn {
		return nil, errors.New("exec format error")
	}
	f.requests = append(f.requests, req)

	code := 0
	if f.run != nil {
		code = f.run(req)
	}
	proc := &fakeProcess{pid: 100 + len(f.procs), code: code}
	f.procs = append(f.procs, proc)
	return proc, nil
}

func (f *fakeSpawner) argvs() [][]string {
	var out [][]string
	for _, req := range f.requests {
		out = append(out, req.Argv)
	}
	return out
}

type testShell struct {
	*Shell
	proc    *vos.ProcOS
	spawner *fakeSpawner
	stdout  *bytes.Buffer
	stderr  *bytes.Buffer
}

func newTestShell(t *testing.T, input string) *testShell {
	t.Helper()

	proc := vostest.NewDeterministicOS(afero.NewMemMapFs())
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	proc.VIO = vos.NewStreams(strings.NewReader(input), stdout, stderr)

	spawner := &fakeSpawner{}
	sh := New(proc.Cfg, logger.Sessionless(zap.NewNop()), proc, NewSession(nil), spawner)

	return &testShell{Shell: sh, proc: proc, spawner: spawner, stdout: stdout, stderr: stderr}
}

func (ts *testShell) execute(line string) Status {
	return ts.Execute(context.Background(), parser.Parse(line))
}

func (ts *testShell) mkdir(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, ts.proc.MkdirAll(path, 0755))
}

func (ts *testShell) writeFile(t *testing.T, path, content string, mode fs.FileMode) {
	t.Helper()
	require.NoError(t, afero.WriteFile(ts.proc, path, []byte(content), mode))
}

func (ts *testShell) readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := afero.ReadFile(ts.proc, path)
	require.NoError(t, err)
	return string(data)
}

func TestStatus_Signal(t *testing.T) {
	assert.Equal(t, Continue, StatusSuccess.Signal())
	assert.Equal(t, Terminate, StatusExit.Signal())
	assert.Equal(t, Continue, StatusUnknown.Signal())

	assert.Equal(t, 0, int(StatusSuccess))
	assert.Equal(t, 1, int(StatusExit))
	assert.Equal(t, 2, int(StatusUnknown))
}

func TestExecute_blankLine(t *testing.T) {
	ts := newTestShell(t, "")

	assert.Equal(t, StatusSuccess, ts.execute(""))
	assert.Equal(t, StatusSuccess, ts.execute("  \t "))
	assert.Empty(t, ts.spawner.requests)
}

func TestExecute_exit(t *testing.T) {
	ts := newTestShell(t, "")

	assert.Equal(t, StatusExit, ts.execute("exit"))
	assert.Equal(t, StatusExit, ts.execute("exit now | wc"))
	assert.Empty(t, ts.spawner.requests)
}

func TestExecute_cd(t *testing.T) {
	ts := newTestShell(t, "")
	ts.mkdir(t, "/home/tester/src")
	ts.writeFile(t, "/home/tester/file.txt", "", 0644)

	assert.Equal(t, StatusSuccess, ts.execute("cd src"))
	assert.Equal(t, "/home/tester/src", ts.proc.Dir)

	assert.Equal(t, StatusSuccess, ts.execute("cd"))
	assert.Equal(t, vostest.Home, ts.proc.Dir, "no argument goes home")

	assert.Equal(t, StatusSuccess, ts.execute("cd missing"))
	assert.Equal(t, StatusSuccess, ts.execute("cd file.txt"))
	assert.Equal(t,
		"-seashell: cd: no such file or directory\n-seashell: cd: not a directory\n",
		ts.stderr.String())
	assert.Equal(t, vostest.Home, ts.proc.Dir)

	assert.Empty(t, ts.spawner.requests)
}

func TestExecute_cdWithoutHome(t *testing.T) {
	ts := newTestShell(t, "")
	require.NoError(t, ts.proc.Unsetenv(vos.EnvHome))

	assert.Equal(t, StatusSuccess, ts.execute("cd"))
	assert.Equal(t, "-seashell: cd: HOME not set\n", ts.stderr.String())
}

func TestExecute_foreground(t *testing.T) {
	ts := newTestShell(t, "")

	assert.Equal(t, StatusSuccess, ts.execute("ls -l /tmp"))

	require.Len(t, ts.spawner.requests, 1)
	req := ts.spawner.requests[0]
	assert.Equal(t, []string{"ls", "-l", "/tmp"}, req.Argv)
	assert.Nil(t, req.Stdin, "inherits stdin")
	assert.Nil(t, req.Stdout, "inherits stdout")
	assert.NotNil(t, req.Handoff)
	assert.True(t, ts.spawner.procs[0].waited)
}

func TestExecute_background(t *testing.T) {
	ts := newTestShell(t, "")

	assert.Equal(t, StatusSuccess, ts.execute("sleep 10 &"))

	assert.Equal(t, [][]string{{"sleep", "10"}}, ts.spawner.argvs())
	assert.False(t, ts.spawner.procs[0].waited)
}

func TestExecute_commandNotFound(t *testing.T) {
	ts := newTestShell(t, "")
	ts.spawner.run = func(req *SpawnRequest) int {
		return ExitCommandNotFound
	}

	assert.Equal(t, StatusUnknown, ts.execute("nope"))
}

func TestExecute_handoff(t *testing.T) {
	cases := map[string]struct {
		data       string
		wantDir    string
		wantStderr string
	}{
		"plain":       {"/srv/data", "/srv/data", ""},
		"nul":         {"/srv/data\x00", "/srv/data", ""},
		"newline":     {"/srv/data\n", "/srv/data", ""},
		"empty":       {"", vostest.Home, ""},
		"missing dir": {"/nowhere", vostest.Home, "-seashell: cd: no such file or directory\n"},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			ts := newTestShell(t, "")
			ts.mkdir(t, "/srv/data")
			ts.spawner.run = func(req *SpawnRequest) int {
				_, err := io.WriteString(req.Handoff, tc.data)
				require.NoError(t, err)
				return 0
			}

			assert.Equal(t, StatusSuccess, ts.execute("shortdir jump data"))
			assert.Equal(t, tc.wantDir, ts.proc.Dir)
			assert.Equal(t, tc.wantStderr, ts.stderr.String())
		})
	}
}

func TestExecute_handoffLimit(t *testing.T) {
	ts := newTestShell(t, "")
	ts.Config.HandoffBufferSize = 4
	ts.mkdir(t, "/srv")
	ts.spawner.run = func(req *SpawnRequest) int {
		io.WriteString(req.Handoff, "/srv/data")
		return 0
	}

	ts.execute("shortdir jump data")
	assert.Equal(t, "/srv", ts.proc.Dir)
}

func TestExecute_pipeline(t *testing.T) {
	ts := newTestShell(t, "")

	var received string
	ts.spawner.run = func(req *SpawnRequest) int {
		switch req.Argv[0] {
		case "ls":
			io.WriteString(req.Stdout, "hello")
		case "wc":
			buf := make([]byte, len("hello"))
			_, err := io.ReadFull(req.Stdin, buf)
			require.NoError(t, err)
			received = string(buf)
		}
		return 0
	}

	assert.Equal(t, StatusSuccess, ts.execute("ls -l | wc -l"))

	assert.Equal(t, [][]string{{"ls", "-l"}, {"wc", "-l"}}, ts.spawner.argvs())
	assert.Equal(t, "hello", received)
	assert.Nil(t, ts.spawner.requests[0].Stdin)
	assert.Nil(t, ts.spawner.requests[1].Stdout)
	for _, proc := range ts.spawner.procs {
		assert.True(t, proc.waited)
	}
}

func TestExecute_pipelineStatusFromLastStage(t *testing.T) {
	ts := newTestShell(t, "")
	ts.spawner.run = func(req *SpawnRequest) int {
		if req.Argv[0] == "nope" {
			return ExitCommandNotFound
		}
		return 0
	}

	assert.Equal(t, StatusSuccess, ts.execute("nope | wc"))
	assert.Equal(t, StatusUnknown, ts.execute("ls | nope"))
}

func TestExecute_trailingPipe(t *testing.T) {
	ts := newTestShell(t, "")

	assert.Equal(t, StatusSuccess, ts.execute("ls |"))
	assert.Equal(t, [][]string{{"ls"}}, ts.spawner.argvs())
}

func TestExecute_redirects(t *testing.T) {
	ts := newTestShell(t, "")
	ts.writeFile(t, "/home/tester/in.txt", "b\na\n", 0644)
	ts.writeFile(t, "/home/tester/out.txt", "old content that is long", 0644)
	ts.writeFile(t, "/home/tester/log", "x\n", 0644)

	var input string
	ts.spawner.run = func(req *SpawnRequest) int {
		switch req.Argv[0] {
		case "sort":
			data, err := io.ReadAll(req.Stdin)
			require.NoError(t, err)
			input = string(data)
			io.WriteString(req.Stdout, "a\nb\n")
		case "echo":
			io.WriteString(req.Stdout, strings.Join(req.Argv[1:], " ")+"\n")
		}
		return 0
	}

	assert.Equal(t, StatusSuccess, ts.execute("sort < in.txt > out.txt"))
	assert.Equal(t, "b\na\n", input)
	assert.Equal(t, "a\nb\n", ts.readFile(t, "/home/tester/out.txt"))

	assert.Equal(t, StatusSuccess, ts.execute("echo y >> log"))
	assert.Equal(t, "x\ny\n", ts.readFile(t, "/home/tester/log"))

	assert.Equal(t, StatusSuccess, ts.execute("echo new >/tmp/created.txt"))
	assert.Equal(t, "new\n", ts.readFile(t, "/tmp/created.txt"))

	assert.Empty(t, ts.stderr.String())
}

func TestExecute_redirectBeatsPipe(t *testing.T) {
	ts := newTestShell(t, "")

	ts.spawner.run = func(req *SpawnRequest) int {
		if req.Argv[0] == "echo" {
			io.WriteString(req.Stdout, "captured")
		}
		return 0
	}

	ts.execute("echo > out.txt | cat")
	assert.Equal(t, "captured", ts.readFile(t, "/home/tester/out.txt"))
}

func TestExecute_redirectFailure(t *testing.T) {
	ts := newTestShell(t, "")

	assert.Equal(t, StatusSuccess, ts.execute("sort < missing.txt"))
	assert.Equal(t, "-seashell: missing.txt: file does not exist\n", ts.stderr.String())
	assert.Empty(t, ts.spawner.requests)
}

func TestExecute_spawnFailure(t *testing.T) {
	ts := newTestShell(t, "")
	ts.spawner.failOn = "broken"

	assert.Equal(t, StatusSuccess, ts.execute("ls | broken | wc"))
	assert.Equal(t, "-seashell: broken: exec format error\n", ts.stderr.String())

	require.Len(t, ts.spawner.procs, 1)
	assert.True(t, ts.spawner.procs[0].killed)
	assert.True(t, ts.spawner.procs[0].waited)
}

func TestExecute_cancelled(t *testing.T) {
	ts := newTestShell(t, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, StatusSuccess, ts.Execute(ctx, parser.Parse("ls")))
	assert.Empty(t, ts.spawner.requests)
}

func TestPrompt(t *testing.T) {
	ts := newTestShell(t, "")
	assert.Equal(t, "tester@testhost:/home/tester seashell$ ", ts.Prompt())

	ts.Config.Prompt = `[\s] \w> `
	ts.proc.Dir = "/tmp"
	assert.Equal(t, "[seashell] /tmp> ", ts.Prompt())
}

func TestRun(t *testing.T) {
	ts := newTestShell(t, "cd /tmp\nls -a\nexit\nnever run\n")
	ts.mkdir(t, "/tmp")

	require.NoError(t, ts.Run(context.Background()))

	assert.Equal(t, "/tmp", ts.proc.Dir)
	assert.Equal(t, [][]string{{"ls", "-a"}}, ts.spawner.argvs())
	assert.Equal(t,
		"tester@testhost:/home/tester seashell$ cd /tmp\n"+
			"tester@testhost:/tmp seashell$ ls -a\n"+
			"tester@testhost:/tmp seashell$ exit\n",
		ts.stdout.String())
}

func TestRun_endOfInput(t *testing.T) {
	ts := newTestShell(t, "pwd\n\x04")

	require.NoError(t, ts.Run(context.Background()))
	assert.Equal(t, [][]string{{"pwd"}}, ts.spawner.argvs())
	assert.True(t, strings.HasSuffix(ts.stdout.String(), "$ \n"))
}

func TestRun_historyRecall(t *testing.T) {
	ts := newTestShell(t, "echo hi\n\x1b[A\nexit\n")

	require.NoError(t, ts.Run(context.Background()))
	assert.Equal(t, [][]string{{"echo", "hi"}, {"echo", "hi"}}, ts.spawner.argvs())
}

func TestRun_completionPrefill(t *testing.T) {
	ts := newTestShell(t, "gre\t-i x\n\x04")
	ts.writeFile(t, "/bin/grep", "", 0755)

	require.NoError(t, ts.Run(context.Background()))
	assert.Equal(t, [][]string{{"grep", "-i", "x"}}, ts.spawner.argvs())
}
