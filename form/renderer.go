// Package form is the core pipeline between stored definitions and visitor
// submissions: rendering a form into its presentable shape and validating
// what comes back.
package form

import (
	"context"
	"unicode"

	"github.com/amestri/formbox/captcha"
	"github.com/amestri/formbox/model"
)

type FormGetter interface {
	Get(ctx context.Context, id int) (model.Form, error)
}

type FieldResolver interface {
	Resolve(ctx context.Context, ids []int) (map[int]model.Field, error)
}

// Renderer resolves a form's ordered field references into a RenderedForm.
// It has no side effects beyond reading the stores.
type Renderer struct {
	Forms  FormGetter
	Fields FieldResolver
}

func NewRenderer(forms FormGetter, fields FieldResolver) *Renderer {
	return &Renderer{Forms: forms, Fields: fields}
}

// Render produces the presentable shape of a form plus a fresh human-check
// token. Field ids that no longer resolve are skipped silently; the
// remaining fields keep the exact relative order of the form's field id
// list. A missing form is the only not-found condition.
func (r *Renderer) Render(ctx context.Context, formID int) (model.RenderedForm, error) {
	f, err := r.Forms.Get(ctx, formID)
	if err != nil {
		return model.RenderedForm{}, err
	}

	resolved, err := r.Fields.Resolve(ctx, f.FieldIDs)
	if err != nil {
		return model.RenderedForm{}, err
	}

	// re-walk the original id sequence so resolution order never leaks
	// into render order
	fields := []model.RenderedField{}
	for _, id := range f.FieldIDs {
		field, ok := resolved[id]
		if !ok {
			continue
		}
		fields = append(fields, renderField(field))
	}

	token, err := captcha.New()
	if err != nil {
		return model.RenderedForm{}, err
	}

	return model.RenderedForm{
		FormID:        f.ID,
		Title:         f.Title,
		Fields:        fields,
		Captcha:       token,
		CaptchaAnswer: token,
	}, nil
}

const (
	emailPattern = `[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}$`
	telPattern   = `[0-9-+\s()]+`
)

// renderField dispatches one field over the closed type enumeration into
// its widget representation.
func renderField(f model.Field) model.RenderedField {
	rf := model.RenderedField{
		Name:     f.Name,
		Label:    labelFor(f.Name),
		Required: f.Required,
	}

	switch f.Type {
	case model.FieldTextarea:
		rf.Control = model.ControlTextarea
	case model.FieldCheckbox:
		rf.Control = model.ControlCheckbox
	case model.FieldSelect:
		rf.Control = model.ControlSelect
		rf.Options = f.Options
	case model.FieldEmail:
		rf.Control = model.ControlInput
		rf.InputType = "email"
		rf.Pattern = emailPattern
	case model.FieldTel:
		rf.Control = model.ControlInput
		rf.InputType = "tel"
		rf.Pattern = telPattern
	case model.FieldText, model.FieldDate, model.FieldNumber:
		rf.Control = model.ControlInput
		rf.InputType = string(f.Type)
	default:
		// unreachable while the registry enforces the closed enumeration
		rf.Control = model.ControlInput
		rf.InputType = "text"
	}
	return rf
}

func labelFor(name string) string {
	runes := []rune(name)
	if len(runes) == 0 {
		return name
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
