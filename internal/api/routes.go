package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/task-manager-api/internal/api/middleware"
)

// Routes bundles the handlers and middleware mounted under /api.
type Routes struct {
	Auth  *AuthHandler
	Users *UserHandler
	Tasks *TaskHandler
	Tags  *TagHandler

	AuthMiddleware *middleware.AuthMiddleware

	// RateLimiter guards the credential endpoints; nil disables it
	RateLimiter *middleware.RateLimiter
}

// Mount registers every /api route on r.
func (rt Routes) Mount(r chi.Router) {
	limit := func(name string) func(http.Handler) http.Handler {
		if rt.RateLimiter == nil {
			return func(next http.Handler) http.Handler { return next }
		}
		return rt.RateLimiter.Limit(name)
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.With(limit("register")).Post("/register", rt.Auth.Register)
			r.With(limit("login")).Post("/login", rt.Auth.Login)
			r.With(limit("forgot-password")).Post("/forgot-password", rt.Auth.ForgotPassword)
			r.With(limit("reset-password")).Post("/reset-password", rt.Auth.ResetPassword)
			r.With(middleware.RequireCSRF).Post("/refresh", rt.Auth.Refresh)
			r.With(middleware.RequireCSRF).Post("/logout", rt.Auth.Logout)

			r.Group(func(r chi.Router) {
				r.Use(rt.AuthMiddleware.Authenticate)
				r.Post("/verify", rt.Auth.Verify)
				r.Get("/", rt.Users.ListUsers)
				r.Get("/{id}", rt.Users.GetUser)
				r.With(middleware.RequireCSRF).Delete("/{id}", rt.Users.DeleteUser)
			})
		})

		r.Get("/tags", rt.Tags.ListTags)
		r.Get("/tags/{id}", rt.Tags.GetTag)

		r.Group(func(r chi.Router) {
			r.Use(rt.AuthMiddleware.Authenticate)
			r.Use(middleware.RequireCSRF)

			r.Post("/tags", rt.Tags.CreateTag)
			r.Patch("/tags/{id}", rt.Tags.UpdateTag)
			r.Delete("/tags/{id}", rt.Tags.DeleteTag)

			r.Get("/tasks", rt.Tasks.ListTasks)
			r.Get("/tasks/user", rt.Tasks.ListTasks)
			r.Post("/tasks", rt.Tasks.CreateTask)
			r.Get("/tasks/{id}", rt.Tasks.GetTask)
			r.Patch("/tasks/{id}", rt.Tasks.UpdateTask)
			r.Delete("/tasks/{id}", rt.Tasks.DeleteTask)
		})
	})
}
