package routes_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/amestri/formbox/app"
	"github.com/amestri/formbox/config"
	"github.com/amestri/formbox/database"
	"github.com/amestri/formbox/form"
	"github.com/amestri/formbox/mail"
	"github.com/amestri/formbox/model"
	"github.com/amestri/formbox/routes"
	"github.com/amestri/formbox/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubNotifier struct {
	notified []string
}

func (n *stubNotifier) SubmissionCreated(formTitle string, payload map[string]string) mail.Receipt {
	n.notified = append(n.notified, formTitle)
	return mail.Receipt{AdminSent: true, UserSent: true}
}

func (n *stubNotifier) TestEmail() error { return nil }

type fixture struct {
	handler     http.Handler
	fields      *store.Fields
	forms       *store.Forms
	submissions *store.Submissions
	notifier    *stubNotifier
}

func setup(t *testing.T) fixture {
	t.Helper()

	cfg := config.Config{DBPath: filepath.Join(t.TempDir(), "formbox_test.sqlite")}
	db, err := database.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	fields := store.NewFields(db)
	forms := store.NewForms(db)
	submissions := store.NewSubmissions(db)
	notifier := &stubNotifier{}

	a := app.App{
		Config:      cfg,
		Fields:      fields,
		Forms:       forms,
		Submissions: submissions,
		Renderer:    form.NewRenderer(forms, fields),
		Notifier:    notifier,
	}
	return fixture{routes.Wire(a), fields, forms, submissions, notifier}
}

// contactForm seeds one form with a single email field and returns the form id.
func (fx fixture) contactForm(t *testing.T) int {
	t.Helper()

	fieldId, err := fx.fields.Create(context.Background(), model.Field{Name: "email", Type: model.FieldEmail})
	require.NoError(t, err)
	formId, err := fx.forms.Create(context.Background(), model.Form{Title: "Contact", FieldIDs: []int{fieldId}})
	require.NoError(t, err)
	return formId
}

func TestPublicRenderForm(t *testing.T) {
	t.Run("renders the form with a token", func(t *testing.T) {
		fx := setup(t)
		formId := fx.contactForm(t)

		resp := httptest.NewRecorder()
		fx.handler.ServeHTTP(resp, httptest.NewRequest("GET", "/api/forms/"+strconv.Itoa(formId), nil))
		require.Equal(t, http.StatusOK, resp.Code)

		var rendered model.RenderedForm
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &rendered))

		assert.Equal(t, formId, rendered.FormID)
		require.Len(t, rendered.Fields, 1)
		assert.Equal(t, "email", rendered.Fields[0].Name)
		assert.Equal(t, "email", rendered.Fields[0].InputType)
		assert.Len(t, rendered.Captcha, 4)
		assert.Equal(t, rendered.Captcha, rendered.CaptchaAnswer)
	})

	t.Run("renders empty after the field is deleted", func(t *testing.T) {
		fx := setup(t)
		formId := fx.contactForm(t)

		fields, err := fx.fields.List(context.Background())
		require.NoError(t, err)
		require.NoError(t, fx.fields.Delete(context.Background(), fields[0].ID))

		resp := httptest.NewRecorder()
		fx.handler.ServeHTTP(resp, httptest.NewRequest("GET", "/api/forms/"+strconv.Itoa(formId), nil))
		require.Equal(t, http.StatusOK, resp.Code)

		var rendered model.RenderedForm
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &rendered))
		assert.Empty(t, rendered.Fields)
	})

	t.Run("missing form is 404", func(t *testing.T) {
		fx := setup(t)

		resp := httptest.NewRecorder()
		fx.handler.ServeHTTP(resp, httptest.NewRequest("GET", "/api/forms/99", nil))
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}

func submit(handler http.Handler, formId int, body url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/api/forms/"+strconv.Itoa(formId)+"/submissions",
		strings.NewReader(body.Encode()))
	req.Header.Set("content-type", "application/x-www-form-urlencoded")

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	return resp
}

func TestPublicSubmitForm(t *testing.T) {
	t.Run("stores a valid submission and notifies", func(t *testing.T) {
		fx := setup(t)
		formId := fx.contactForm(t)

		resp := submit(fx.handler, formId, url.Values{
			"form_id":        {strconv.Itoa(formId)},
			"captcha_input":  {"Tq2x"},
			"captcha_answer": {"Tq2x"},
			"email":          {"a@b.com"},
		})
		require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

		var result struct {
			ID        int  `json:"id"`
			AdminSent bool `json:"admin_sent"`
			UserSent  bool `json:"user_sent"`
		}
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
		assert.True(t, result.AdminSent)
		assert.True(t, result.UserSent)

		stored, err := fx.submissions.Get(context.Background(), result.ID)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"email": "a@b.com"}, stored.Payload)

		assert.Equal(t, []string{"Contact"}, fx.notifier.notified)
	})

	t.Run("captcha mismatch stores nothing", func(t *testing.T) {
		fx := setup(t)
		formId := fx.contactForm(t)

		resp := submit(fx.handler, formId, url.Values{
			"form_id":        {strconv.Itoa(formId)},
			"captcha_input":  {"xxxx"},
			"captcha_answer": {"Tq2x"},
			"email":          {"a@b.com"},
		})
		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.NotContains(t, resp.Body.String(), "Tq2x")

		rows, err := fx.submissions.ListForExport(context.Background())
		require.NoError(t, err)
		assert.Empty(t, rows)
		assert.Empty(t, fx.notifier.notified)
	})

	t.Run("missing required field is rejected", func(t *testing.T) {
		fx := setup(t)

		fieldId, err := fx.fields.Create(context.Background(),
			model.Field{Name: "email", Type: model.FieldEmail, Required: true})
		require.NoError(t, err)
		formId, err := fx.forms.Create(context.Background(),
			model.Form{Title: "Contact", FieldIDs: []int{fieldId}})
		require.NoError(t, err)

		resp := submit(fx.handler, formId, url.Values{
			"form_id":        {strconv.Itoa(formId)},
			"captcha_input":  {"Tq2x"},
			"captcha_answer": {"Tq2x"},
		})
		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Contains(t, resp.Body.String(), "email")
	})

	t.Run("form id mismatch between URL and body is rejected", func(t *testing.T) {
		fx := setup(t)
		formId := fx.contactForm(t)

		resp := submit(fx.handler, formId, url.Values{
			"form_id":        {"999"},
			"captcha_input":  {"Tq2x"},
			"captcha_answer": {"Tq2x"},
			"email":          {"a@b.com"},
		})
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("submitting against a deleted form is 404", func(t *testing.T) {
		fx := setup(t)
		formId := fx.contactForm(t)
		require.NoError(t, fx.forms.Delete(context.Background(), formId))

		resp := submit(fx.handler, formId, url.Values{
			"form_id":        {strconv.Itoa(formId)},
			"captcha_input":  {"Tq2x"},
			"captcha_answer": {"Tq2x"},
			"email":          {"a@b.com"},
		})
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}
