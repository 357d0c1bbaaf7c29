package statepaths

import (
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestStateFilesResolveUnderStateDir(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	viper.Set("file_state_dir", dir)

	if got, want := BotDataPath(), filepath.Join(dir, DefaultBotDataFilename); got != want {
		t.Fatalf("BotDataPath() = %q, want %q", got, want)
	}
	if got, want := VerifiedUsersPath(), filepath.Join(dir, DefaultVerifiedUsersFilename); got != want {
		t.Fatalf("VerifiedUsersPath() = %q, want %q", got, want)
	}
	if got, want := LastPromptPath(), filepath.Join(dir, DefaultLastPromptFilename); got != want {
		t.Fatalf("LastPromptPath() = %q, want %q", got, want)
	}
}

func TestAbsoluteStateFileWins(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	abs := filepath.Join(t.TempDir(), "ref.yaml")
	viper.Set("file_state_dir", "/unused")
	viper.Set("state.bot_data_file", abs)
	if got := BotDataPath(); got != abs {
		t.Fatalf("BotDataPath() = %q, want %q", got, abs)
	}
}

func TestFileStateDirDefaultsToWorkingDir(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	if got := FileStateDir(); got != "." {
		t.Fatalf("FileStateDir() = %q, want .", got)
	}
}
