package main

import (
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/expenseflow/expenseflow/internal/config"
	"github.com/expenseflow/expenseflow/internal/localstore"
	"github.com/expenseflow/expenseflow/internal/syncer"
)

// databasePath resolves the SQLite file behind the API server.
func databasePath() string {
	if path := viper.GetString("database.path"); path != "" {
		return config.ExpandPath(path)
	}
	return filepath.Join(config.DefaultDataDir(), "expenses.db")
}

// localStorePath resolves the JSON file backing the local record cache.
func localStorePath() string {
	if path := viper.GetString("localstore.path"); path != "" {
		return config.ExpandPath(path)
	}
	return filepath.Join(config.DefaultDataDir(), "expenses.json")
}

func openLocalStore() *localstore.Store {
	return localstore.New(localStorePath(), nil)
}

func newRemoteClient() *syncer.Client {
	return syncer.NewClient(
		viper.GetString("remote.url"),
		viper.GetDuration("remote.timeout"),
	)
}

func newSyncer() *syncer.Syncer {
	return syncer.NewSyncer(openLocalStore(), newRemoteClient(), nil)
}
