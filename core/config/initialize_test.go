package config

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
)

func TestInitialize(t *testing.T) {
	fsys := afero.NewMemMapFs()
	if _, err := Initialize(fsys, "/home/user/.seashell"); err != nil {
		t.Fatal(err)
	}

	// Check that the config is valid
	cfg, err := Load(fsys, "/home/user/.seashell")
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, "/home/user/.seashell", cfg.Dir())

	t.Run("load by file name", func(t *testing.T) {
		cfg, err := Load(fsys, "/home/user/.seashell/config.yaml")
		assert.Nil(t, err)
		assert.Equal(t, "/home/user/.seashell", cfg.Dir())
	})

	t.Run("keeps existing", func(t *testing.T) {
		custom := []byte("shell_name: clam\nprompt: '> '\nhandoff_buffer_size: 10\nlog_file: ''\nlog_level: debug\n" +
			"alarm: {file_name: a.txt, player: play, scheduler: crontab}\nzoom: {opener: open}\n")
		assert.Nil(t, afero.WriteFile(fsys, "/custom/config.yaml", custom, 0600))

		cfg, err := Initialize(fsys, "/custom")
		assert.Nil(t, err)
		assert.Equal(t, "clam", cfg.ShellName)
		assert.Equal(t, "", cfg.LogPath())
	})
}
