package rest

import (
	"github.com/go-chi/chi/v5"
)

// HandlerFromMux registers the local API on r.
func HandlerFromMux(h *Handler, r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/spaces", h.GetSpaces)
		r.Get("/unread", h.GetUnread)

		r.Route("/spaces/{space_id}", func(r chi.Router) {
			r.Post("/open", h.OpenSpace)
			r.Get("/messages", h.GetMessages)
			r.Post("/messages", h.SendMessage)
			r.Patch("/messages/{message_id}", h.EditMessage)
			r.Delete("/messages/{message_id}", h.DeleteMessage)
			r.Post("/messages/{message_id}/reactions", h.AddReaction)
			r.Delete("/messages/{message_id}/reactions/{emoji}", h.RemoveReaction)
			r.Put("/compose", h.PutCompose)
			r.Post("/typing", h.StartTyping)
			r.Post("/scroll", h.Scroll)
		})
	})
}
