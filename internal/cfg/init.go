// Package cfg builds the ytdlnis command tree and loads its configuration.
package cfg

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"ytdlnis/internal/contracts"
	"ytdlnis/internal/database"
	"ytdlnis/internal/domain/keys"
	"ytdlnis/internal/domain/paths"
	"ytdlnis/internal/repo"
	"ytdlnis/internal/utils/logging"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "YTDLNIS"

// session holds what the commands share once flags and config are loaded.
type session struct {
	db    *database.DBControl
	store contracts.Store
}

var sess = &session{}

var rootCmd = &cobra.Command{
	Use:               "ytdlnis",
	Short:             "YTDLnis manages cookies, audio downloads and saved downloads for yt-dlp",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// InitCommands initializes all commands and their flags.
func InitCommands(ctx context.Context) error {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := initRootFlags(rootCmd); err != nil {
		return err
	}

	rootCmd.AddCommand(initCookieCmds(sess))
	rootCmd.AddCommand(initDownloadCmds(sess))
	rootCmd.AddCommand(initSavedCmds(sess))
	rootCmd.AddCommand(fetchCmd(sess))
	rootCmd.AddCommand(batchCmd(sess))

	rootCmd.SetContext(ctx)
	return nil
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// Close closes the database opened for the run.
func Close() error {
	if sess.db == nil {
		return nil
	}
	err := sess.db.Close()
	sess.db = nil
	sess.store = nil
	return err
}

// loadConfig reads the .env file and config file, then opens the database.
func loadConfig(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logging.W("Could not load .env file: %v", err)
	}

	if cfgFile := viper.GetString(keys.ConfigFile); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %q: %w", cfgFile, err)
		}
		logging.I("Loaded config file %q", viper.ConfigFileUsed())
	}

	logging.Level = viper.GetInt(keys.DebugLevel)
	if viper.GetBool(keys.LogJSON) {
		if err := logging.SetupLogging(paths.LogFilePath, os.Stdout, true); err != nil {
			logging.W("Could not switch to JSON logging: %v", err)
		}
	}

	if dir := viper.GetString(keys.CacheDir); dir != "" && dir != paths.CacheDir {
		if err := paths.SetCacheDir(dir); err != nil {
			return err
		}
	}

	if sess.store != nil {
		return nil
	}
	dbPath := viper.GetString(keys.DBPath)
	if dbPath == "" {
		dbPath = paths.DBFilePath
	}
	dbc, err := database.InitDB(dbPath)
	if err != nil {
		return err
	}
	sess.db = dbc
	sess.store = repo.InitStores(dbc.DB)
	logging.D(1, "Opened database %q", dbPath)
	return nil
}
