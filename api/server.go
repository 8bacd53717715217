// Package api exposes the REST endpoints: authentication, user management
// and post management. Every handler follows the same flow, authenticate ->
// authorize -> validate -> persist -> respond.
package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/iganosaigo/saigo.info-backend/config"
	"github.com/iganosaigo/saigo.info-backend/database"
	"github.com/iganosaigo/saigo.info-backend/security"
)

type Server struct {
	cfg    config.Config
	store  *database.Store
	tokens *security.TokenIssuer
}

func NewServer(cfg config.Config, store *database.Store, tokens *security.TokenIssuer) *Server {
	return &Server{cfg: cfg, store: store, tokens: tokens}
}

// Routes wires the endpoint table. Public reads stay open; writes require
// an enabled admin account, resolved from the bearer token on every
// request.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", s.handleLogin)
	})

	r.Route("/post", func(r chi.Router) {
		r.Get("/tags", s.handleListTags)
		r.Get("/", s.handleListPosts)
		r.Get("/{postID}", s.handleGetPost)

		r.Group(func(r chi.Router) {
			r.Use(s.withUser, s.guard(true, true))
			r.Post("/", s.handleCreatePost)
			r.Put("/{postID}", s.handleUpdatePost)
			r.Delete("/{postID}", s.handleDeletePost)
		})
	})

	r.Route("/user", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(s.withUser)
			r.Get("/me", s.handleMe)
		})
		r.Group(func(r chi.Router) {
			r.Use(s.withUser, s.guard(false, true))
			r.Post("/me/changepassword", s.handleChangeMyPassword)
		})
		r.Group(func(r chi.Router) {
			r.Use(s.withUser, s.guard(true, true))
			r.Get("/", s.handleListUsers)
			r.Post("/", s.handleCreateUser)
			r.Get("/{userRef}", s.handleGetUser)
			r.Put("/{userRef}", s.handleUpdateUser)
			r.Delete("/{userRef}", s.handleDeleteUser)
			r.Post("/{userRef}/disable", s.handleDisableUser)
			r.Post("/{userRef}/changepassword", s.handleChangeUserPassword)
		})
	})

	return r
}
