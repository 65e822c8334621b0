package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/lexflow/lexflow-web/internal/auth"
	"github.com/lexflow/lexflow-web/internal/handler"
	mw "github.com/lexflow/lexflow-web/internal/middleware"
)

func New(
	logger *zap.Logger,
	sessions *auth.Sessions,
	secureCookies bool,
	pageH *handler.PageHandler,
	authH *handler.AuthHandler,
	intakeH *handler.IntakeHandler,
	sigH *handler.SignatureHandler,
	dashH *handler.DashboardHandler,
	formH *handler.FormHandler,
	clientH *handler.ClientHandler,
	subH *handler.SubmissionHandler,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.Logger(logger))
	r.Use(middleware.Recoverer)

	r.NotFound(pageH.NotFound)
	r.Get("/healthz", pageH.Health)

	r.Group(func(r chi.Router) {
		r.Use(auth.CSRF(secureCookies))

		// Public pages
		r.Get("/", pageH.Home)
		r.Get("/how-it-works", pageH.HowItWorks)
		r.Get("/login", authH.LoginPage)
		r.Post("/login", authH.Login)
		r.Get("/register", authH.RegisterPage)
		r.Post("/register", authH.Register)
		r.Post("/logout", authH.Logout)

		// Client intake
		r.Get("/intake/success", intakeH.Success)
		r.Get("/intake/{formId}", intakeH.Form)
		r.Post("/intake/{formId}", intakeH.Submit)
		r.Get("/signature/sign", sigH.SignPage)
		r.Post("/signature/sign", sigH.Sign)
		r.Post("/signature/pay", sigH.Pay)
		r.Get("/payment/success", sigH.PaymentSuccess)
		r.Get("/payment/cancelled", pageH.PaymentCancelled)

		// Attorney dashboard
		r.Group(func(r chi.Router) {
			r.Use(sessions.Require)
			r.Use(authH.CurrentUser)

			r.Get("/signed-agreement/{submissionId}", subH.Agreement)

			r.Route("/dashboard", func(r chi.Router) {
				r.Get("/", dashH.Index)

				r.Get("/forms", formH.List)
				r.Get("/forms/new", formH.New)
				r.Post("/forms/new", formH.Create)
				r.Get("/forms/{formId}", formH.Get)
				r.Get("/forms/{formId}/edit", formH.Edit)
				r.Post("/forms/{formId}/edit", formH.Update)
				r.Post("/forms/{formId}/toggle", formH.Toggle)
				r.Post("/forms/{formId}/delete", formH.Delete)

				r.Get("/clients", clientH.List)
				r.Get("/clients/{clientId}", clientH.Get)

				r.Get("/submissions", subH.List)
				r.Get("/submissions/export.xlsx", subH.Export)
				r.Get("/submissions/{submissionId}", subH.Get)
				r.Post("/submissions/{submissionId}/status", subH.UpdateStatus)

				r.Get("/settings", dashH.Settings)
				r.Post("/settings", dashH.SaveSettings)
			})
		})
	})

	return r
}
