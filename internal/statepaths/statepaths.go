package statepaths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	DefaultBotDataFilename       = "data.json"
	DefaultVerifiedUsersFilename = "verified_users.json"
	DefaultLastPromptFilename    = "last_verification_message.json"
)

func FileStateDir() string {
	dir := ExpandHomePath(viper.GetString("file_state_dir"))
	if dir == "" {
		return "."
	}
	return filepath.Clean(dir)
}

func BotDataPath() string {
	return resolveStateFile(viper.GetString("state.bot_data_file"), DefaultBotDataFilename)
}

func VerifiedUsersPath() string {
	return resolveStateFile(viper.GetString("state.verified_users_file"), DefaultVerifiedUsersFilename)
}

func LastPromptPath() string {
	return resolveStateFile(viper.GetString("state.last_prompt_file"), DefaultLastPromptFilename)
}

func LockDir() string {
	return filepath.Join(FileStateDir(), ".fslocks")
}

// ExpandHomePath replaces a leading "~" with the user's home directory.
func ExpandHomePath(path string) string {
	path = strings.TrimSpace(path)
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}

func resolveStateFile(configured, fallback string) string {
	name := ExpandHomePath(configured)
	if name == "" {
		name = fallback
	}
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	return filepath.Join(FileStateDir(), name)
}
