// Package app carries the collaborators main assembles once and hands to
// every handler. Nothing registers itself anywhere: the wiring is explicit.
package app

import (
	"github.com/amestri/formbox/config"
	"github.com/amestri/formbox/form"
	"github.com/amestri/formbox/mail"
	"github.com/amestri/formbox/store"
	"github.com/go-chi/oauth"
)

type App struct {
	*oauth.BearerServer
	config.Config

	Fields      *store.Fields
	Forms       *store.Forms
	Submissions *store.Submissions
	Renderer    *form.Renderer
	Notifier    mail.Notifier
}
