package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"fitocr/pkg/auth"
	"fitocr/pkg/config"
)

func main() {
	config.LoadDotEnv()
	env := config.FromEnv()
	settings, err := env.Resolve()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// `fitocr-server migrate` runs AutoMigrate and role seeding, then exits.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		st := mustOpenStore(env)
		defer st.Close()
		st.Migrate()
		fmt.Println("migration and seeding completed")
		return
	}

	st := mustOpenStore(env)
	defer st.Close()
	ensureUploadBase(env.UploadBase)

	a := &app{
		store:      st,
		tokens:     auth.NewIssuer(env.JWTSecret, auth.DefaultTTL),
		ocr:        settings.Transcriber(),
		extractor:  settings.Extractor(),
		uploadBase: env.UploadBase,
	}
	r := gin.Default()
	setupRoutes(r, a)

	addr := os.Getenv("FITOCR_ADDR")
	if addr == "" {
		addr = ":8081"
	}
	if err := r.Run(addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
