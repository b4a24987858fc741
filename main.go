package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/amestri/formbox/app"
	"github.com/amestri/formbox/config"
	"github.com/amestri/formbox/database"
	"github.com/amestri/formbox/form"
	"github.com/amestri/formbox/httpx"
	"github.com/amestri/formbox/log"
	"github.com/amestri/formbox/mail"
	"github.com/amestri/formbox/routes"
	"github.com/amestri/formbox/store"
)

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		log.Fatal("main.config:", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal("main.db.open:", err)
	}
	defer db.Close()

	fields := store.NewFields(db)
	forms := store.NewForms(db)
	submissions := store.NewSubmissions(db)

	err = fields.SeedDefaults(context.Background())
	if err != nil {
		log.Fatal("main.db.seed:", err)
	}

	app := app.App{
		BearerServer: httpx.NewBearerServer(db, cfg),
		Config:       cfg,
		Fields:       fields,
		Forms:        forms,
		Submissions:  submissions,
		Renderer:     form.NewRenderer(forms, fields),
		Notifier:     mail.NewSMTP(cfg),
	}

	handler := routes.Wire(app)

	err = runServer(cfg, handler)
	if !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("main.server:", err)
	}
}

func runServer(cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Info("Listening on " + cfg.Url())
	return srv.ListenAndServe()
}
