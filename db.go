package main

import (
	"log"
	"os"

	"fitocr/pkg/config"
	"fitocr/pkg/store"
)

func mustOpenStore(env config.Env) *store.Store {
	if env.DSN == "" {
		log.Fatal("DB_DSN is not set. This project requires a Postgres DSN in DB_DSN.")
	}
	st, err := store.Open(env.DSN, env.AutoMigrate)
	if err != nil {
		log.Fatal("failed to connect postgres database: ", err)
	}
	return st
}

// ensureUploadBase creates the base uploads directory.
func ensureUploadBase(base string) {
	if err := os.MkdirAll(base, 0o755); err != nil {
		log.Printf("failed to create upload base dir %s: %v", base, err)
	}
}
