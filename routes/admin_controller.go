package routes

import (
	"net/http"
	"time"

	"github.com/amestri/formbox/app"
	"github.com/amestri/formbox/export"
	"github.com/amestri/formbox/httpx"
	"github.com/amestri/formbox/log"
	"github.com/amestri/formbox/model"
	"github.com/go-chi/render"
)

func CreateField(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		field := model.Field{}
		err := render.DecodeJSON(r.Body, &field)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		id, err := app.Fields.Create(r.Context(), field)
		if err != nil {
			logStoreError(w, "db.insert_field", err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"id": id,
		})
	}
}

func ListFields(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fields, err := app.Fields.List(r.Context())
		if err != nil {
			httpx.LogInternalError(w, "db.get_fields", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"fields": fields,
		})
	}
}

func GetFieldById(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fieldId, err := urlID(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		field, err := app.Fields.Get(r.Context(), fieldId)
		if err != nil {
			logStoreError(w, "db.get_field", err)
			return
		}

		render.JSON(w, r, field)
	}
}

func UpdateField(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fieldId, err := urlID(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		field := model.Field{}
		err = render.DecodeJSON(r.Body, &field)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		field.ID = fieldId

		err = app.Fields.Update(r.Context(), field)
		if err != nil {
			logStoreError(w, "db.update_field", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func DeleteField(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fieldId, err := urlID(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		// no cascade: forms keep referencing the id, the renderer drops it
		err = app.Fields.Delete(r.Context(), fieldId)
		if err != nil {
			logStoreError(w, "db.delete_field", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// formResponse decorates a form with its derived embed reference.
type formResponse struct {
	model.Form
	PublicReference string `json:"public_reference"`
}

func CreateForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := model.Form{}
		err := render.DecodeJSON(r.Body, &f)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		id, err := app.Forms.Create(r.Context(), f)
		if err != nil {
			logStoreError(w, "db.insert_form", err)
			return
		}
		f.ID = id

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"id":               id,
			"public_reference": f.PublicReference(),
		})
	}
}

func ListForms(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		forms, err := app.Forms.List(r.Context())
		if err != nil {
			httpx.LogInternalError(w, "db.get_forms", err)
			return
		}

		resp := make([]formResponse, len(forms))
		for i, f := range forms {
			resp[i] = formResponse{f, f.PublicReference()}
		}

		render.JSON(w, r, map[string]any{
			"forms": resp,
		})
	}
}

func GetFormById(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formId, err := urlID(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		f, err := app.Forms.Get(r.Context(), formId)
		if err != nil {
			logStoreError(w, "db.get_form", err)
			return
		}

		render.JSON(w, r, formResponse{f, f.PublicReference()})
	}
}

func UpdateForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formId, err := urlID(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		f := model.Form{}
		err = render.DecodeJSON(r.Body, &f)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		f.ID = formId

		err = app.Forms.Update(r.Context(), f)
		if err != nil {
			logStoreError(w, "db.update_form", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func DeleteForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formId, err := urlID(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		// submissions against this form are kept as historical records
		err = app.Forms.Delete(r.Context(), formId)
		if err != nil {
			logStoreError(w, "db.delete_form", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func ListSubmissions(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		submissions, err := app.Submissions.ListForExport(r.Context())
		if err != nil {
			httpx.LogInternalError(w, "db.get_submissions", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"submissions": submissions,
		})
	}
}

func ExportSubmissions(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		submissions, err := app.Submissions.ListForExport(r.Context())
		if err != nil {
			httpx.LogInternalError(w, "db.get_submissions", err)
			return
		}

		w.Header().Set("content-type", "text/csv; charset=utf-8")
		w.Header().Set("content-disposition", `attachment; filename="`+export.Filename(time.Now())+`"`)

		err = export.WriteCSV(w, submissions)
		if err != nil {
			// headers are gone at this point, all we can do is log
			log.Errorf("export.write_csv: %s", err)
		}
	}
}

func SendTestEmail(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := app.Notifier.TestEmail()
		if err != nil {
			httpx.LogInternalError(w, "mail.test_email", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"success": true,
		})
	}
}
