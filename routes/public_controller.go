package routes

import (
	"net/http"
	"strings"

	urlform "github.com/ajg/form"
	"github.com/amestri/formbox/app"
	"github.com/amestri/formbox/form"
	"github.com/amestri/formbox/httpx"
	"github.com/amestri/formbox/log"
	"github.com/go-chi/render"
	"github.com/pkg/errors"
)

func PublicRenderForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formId, err := urlID(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		rendered, err := app.Renderer.Render(r.Context(), formId)
		if err != nil {
			logStoreError(w, "render_form", err)
			return
		}

		render.JSON(w, r, rendered)
	}
}

// submitRequest carries the control fields of a submission post. Everything
// else in the body is payload.
type submitRequest struct {
	FormID        string `form:"form_id"`
	CaptchaInput  string `form:"captcha_input"`
	CaptchaAnswer string `form:"captcha_answer"`
}

func PublicSubmitForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		urlFormId, err := urlID(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		err = r.ParseForm()
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		req := submitRequest{}
		err = urlform.NewDecoder(strings.NewReader(r.PostForm.Encode())).Decode(&req)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.decode_body")
			return
		}

		raw := map[string]string{}
		for key, values := range r.PostForm {
			if len(values) > 0 {
				raw[key] = values[0]
			}
		}

		formId, payload, err := form.Validate(req.FormID, raw, req.CaptchaInput, req.CaptchaAnswer)
		switch {
		case errors.Is(err, form.ErrInvalidForm):
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "submit.form_id", "invalid form id")
			return
		case errors.Is(err, form.ErrCaptchaMismatch):
			// never echo the expected token back
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "submit.captcha", "incorrect captcha, please try again")
			return
		case err != nil:
			httpx.LogInternalError(w, "submit.validate", err)
			return
		}
		if formId != urlFormId {
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "submit.form_id", "invalid form id")
			return
		}

		f, err := app.Forms.Get(r.Context(), formId)
		if err != nil {
			logStoreError(w, "db.get_form", err)
			return
		}

		// server-side required check over whatever fields still resolve
		resolved, err := app.Fields.Resolve(r.Context(), f.FieldIDs)
		if err != nil {
			httpx.LogInternalError(w, "db.resolve_fields", err)
			return
		}
		err = form.CheckRequired(f, resolved, payload)
		if err != nil {
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "submit.required", "%s", err)
			return
		}

		submissionId, err := app.Submissions.Insert(r.Context(), formId, payload)
		if err != nil {
			httpx.LogInternalError(w, "db.insert_submission", err)
			return
		}

		// the submission is durable at this point; notification failures are
		// reported alongside success, never rolled back
		receipt := app.Notifier.SubmissionCreated(f.Title, payload)

		message := "Form submitted successfully and all notifications sent!"
		switch {
		case !receipt.AdminSent && !receipt.UserSent:
			message = "Form submitted successfully but there were issues sending notifications."
		case !receipt.AdminSent:
			message = "Form submitted successfully but admin notification failed to send."
		case !receipt.UserSent:
			message = "Form submitted successfully but user confirmation failed to send."
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"id":         submissionId,
			"message":    message,
			"admin_sent": receipt.AdminSent,
			"user_sent":  receipt.UserSent,
		})
	}
}
