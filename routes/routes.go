package routes

import (
	"net/http"
	"strconv"

	"github.com/amestri/formbox/app"
	"github.com/amestri/formbox/httpx"
	"github.com/amestri/formbox/log"
	"github.com/amestri/formbox/routes/middlewares"
	"github.com/amestri/formbox/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.Logger, middleware.Recoverer)

	root.Mount("/api", apiRouter(app))

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()

	api.Get(`/forms/{id:^\d+$}`, PublicRenderForm(app))
	api.Post(`/forms/{id:^\d+$}/submissions`, PublicSubmitForm(app))

	api.Route("/admin", func(r chi.Router) {
		r.Use(middlewares.Admin(app.TokenSecret))

		// CRUD field definitions
		r.Post("/fields", CreateField(app))
		r.Get("/fields", ListFields(app))
		r.Get(`/fields/{id:^\d+$}`, GetFieldById(app))
		r.Put(`/fields/{id:^\d+$}`, UpdateField(app))
		r.Delete(`/fields/{id:^\d+$}`, DeleteField(app))

		// CRUD forms
		r.Post("/forms", CreateForm(app))
		r.Get("/forms", ListForms(app))
		r.Get(`/forms/{id:^\d+$}`, GetFormById(app))
		r.Put(`/forms/{id:^\d+$}`, UpdateForm(app))
		r.Delete(`/forms/{id:^\d+$}`, DeleteForm(app))

		r.Get("/submissions", ListSubmissions(app))
		r.Get("/submissions/export", ExportSubmissions(app))
		r.Post("/test-email", SendTestEmail(app))
	})

	api.Post("/login", Login(app))
	api.Post("/refresh", Refresh(app))

	return api
}

func urlID(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "id"))
}

// logStoreError maps store failures onto the response: validation mistakes
// report inline, missing rows report 404, anything else is an operator
// problem behind a generic 500.
func logStoreError(w http.ResponseWriter, code string, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		httpx.LogNotFound(w, code, nil)
	case errors.Is(err, store.ErrValidation), errors.Is(err, store.ErrInvalidFieldType):
		httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, code, "%s", err)
	default:
		httpx.LogInternalError(w, code, err)
	}
}
