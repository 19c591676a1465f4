package commands

import (
	"testing"

	"github.com/josephlewis42/seashell/core/vos/vostest"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHighlight(t *testing.T) {
	files := map[string]string{
		"poem.txt": "The sea, the sea.\nNothing here\nSEA shells: by the shore\n",
	}

	cases := goldenTestSuite{
		"no-arg":        {Args: []string{"highlight"}},
		"missing-file":  {Args: []string{"highlight", "sea", "r"}},
		"invalid-color": {Args: []string{"highlight", "sea", "x", "poem.txt"}, Files: files},
		"no-color":      {Args: []string{"highlight", "--color=never", "sea", "g", "poem.txt"}, Files: files},
		"no-match":      {Args: []string{"highlight", "--color=never", "whale", "b", "poem.txt"}, Files: files},
		"not-found":     {Args: []string{"highlight", "sea", "r", "nope.txt"}},
	}

	cases.Run(t, Highlight)
}

func TestHighlight_colors(t *testing.T) {
	cases := map[string]struct {
		color string
		code  string
	}{
		"red":   {"r", "31"},
		"green": {"g", "32"},
		"blue":  {"b", "34"},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			cmd := vostest.Command(Highlight, "highlight", "--color=always", "fish", tc.color, "/tmp/f.txt")
			cmd.Fs = afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(cmd.Fs, "/tmp/f.txt", []byte("one fish, two Fish\nno match\n"), 0644))

			out, err := cmd.CombinedOutput()
			require.NoError(t, err)

			on, off := "\x1b["+tc.code+"m", "\x1b[0m"
			want := "one " + on + "fish" + off + " two " + on + "Fish" + off + " .\n"
			assert.Equal(t, want, string(out))
			assert.Equal(t, 0, cmd.ExitStatus)
		})
	}
}
