package templates

import (
	"github.com/JonMunkholm/storemap/internal/core"
	"github.com/a-h/templ"
)

var alertClass = map[core.NotificationType]string{
	core.NotifySuccess: "alert alert-success",
	core.NotifyInfo:    "alert alert-info",
	core.NotifyError:   "alert alert-error",
}

// NotificationAlert renders a notification banner.
func NotificationAlert(n core.Notification) templ.Component {
	return component(func(h *htmlWriter) {
		class, ok := alertClass[n.Type]
		if !ok {
			class = alertClass[core.NotifyInfo]
		}
		h.rawf(`<div class="%s" role="alert" data-type="%s">`, class, templ.EscapeString(string(n.Type)))
		h.text(n.Message)
		if n.Code != "" {
			h.raw(` <span class="alert-code">(`)
			h.text(n.Code)
			h.raw(`)</span>`)
		}
		h.raw(`</div>`)
	})
}

// ErrorAlert renders an error fragment with a suggested action and code.
func ErrorAlert(message, action, code string) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<div class="alert alert-error" role="alert"><p class="alert-message">`)
		h.text(message)
		h.raw(`</p>`)
		if action != "" {
			h.raw(`<p class="alert-action">`)
			h.text(action)
			h.raw(`</p>`)
		}
		if code != "" {
			h.raw(`<p class="alert-code">Error code: `)
			h.text(code)
			h.raw(`</p>`)
		}
		h.raw(`</div>`)
	})
}
