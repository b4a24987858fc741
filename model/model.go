package model

import (
	"fmt"
	"time"
)

// FieldType is the closed set of input kinds a field can take.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldEmail    FieldType = "email"
	FieldTel      FieldType = "tel"
	FieldTextarea FieldType = "textarea"
	FieldDate     FieldType = "date"
	FieldNumber   FieldType = "number"
	FieldCheckbox FieldType = "checkbox"
	FieldSelect   FieldType = "select"
)

var fieldTypes = map[FieldType]bool{
	FieldText:     true,
	FieldEmail:    true,
	FieldTel:      true,
	FieldTextarea: true,
	FieldDate:     true,
	FieldNumber:   true,
	FieldCheckbox: true,
	FieldSelect:   true,
}

func (t FieldType) Valid() bool {
	return fieldTypes[t]
}

// Field is a reusable input descriptor, referenced by forms through its id.
type Field struct {
	ID        int       `json:"id,omitempty"`
	Name      string    `json:"name"`
	Type      FieldType `json:"type"`
	Required  bool      `json:"required"`
	Options   []string  `json:"options,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Form is an ordered composition of field ids. Order defines render order.
// Referenced fields may have been deleted since; the renderer tolerates that.
type Form struct {
	ID        int       `json:"id,omitempty"`
	Title     string    `json:"title"`
	FieldIDs  []int     `json:"field_ids"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// PublicReference is the embed code for the form. It is derived from the id
// on every read, never stored.
func (f Form) PublicReference() string {
	return fmt.Sprintf(`[contact_form id="%d"]`, f.ID)
}

// Submission is one visitor's answer set, immutable once written. FormID is
// a reference to the form as it was at submission time and is not revalidated
// against the current registry on read.
type Submission struct {
	ID        int               `json:"id"`
	FormID    int               `json:"form_id"`
	Payload   map[string]string `json:"payload"`
	CreatedAt time.Time         `json:"created_at"`
}

// ExportRow is a submission joined with its form title for listing and CSV
// export. FormTitle is empty when the form has since been deleted.
type ExportRow struct {
	FormTitle string            `json:"form_title"`
	Payload   map[string]string `json:"payload"`
	CreatedAt time.Time         `json:"created_at"`
}

// Control is the widget family a rendered field maps to.
type Control string

const (
	ControlInput    Control = "input"
	ControlTextarea Control = "textarea"
	ControlCheckbox Control = "checkbox"
	ControlSelect   Control = "select"
)

// RenderedField is the presentable form of one resolved field. For
// ControlInput the InputType carries the concrete HTML input type and
// Pattern an optional client-side pattern; Options is set for selects only.
type RenderedField struct {
	Name      string   `json:"name"`
	Label     string   `json:"label"`
	Required  bool     `json:"required"`
	Control   Control  `json:"control"`
	InputType string   `json:"input_type,omitempty"`
	Pattern   string   `json:"pattern,omitempty"`
	Options   []string `json:"options,omitempty"`
}

// RenderedForm is what the presentation layer turns into markup. Captcha is
// the visible challenge; CaptchaAnswer is the same token, round-tripped back
// by the client in a hidden field. The check is client-trusted and only
// filters trivial automated submissions.
type RenderedForm struct {
	FormID        int             `json:"form_id"`
	Title         string          `json:"title"`
	Fields        []RenderedField `json:"fields"`
	Captcha       string          `json:"captcha"`
	CaptchaAnswer string          `json:"captcha_answer"`
}
