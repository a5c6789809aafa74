// Package httpapi exposes the account and post operations as a JSON API on
// fiber. Every response uses the {success, message, data?, token?} envelope.
package httpapi

import (
	"context"
	"time"

	"github.com/dmitrijs2005/postgate/internal/logging"
	"github.com/dmitrijs2005/postgate/internal/server/models"
	"github.com/dmitrijs2005/postgate/internal/server/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const shutdownTimeout = 5 * time.Second

type AccountService interface {
	SignUp(ctx context.Context, email, password string) (*models.Account, error)
	SignIn(ctx context.Context, email, password string) (string, *models.Account, error)
	RequestVerification(ctx context.Context, email string) (*services.IssuedCode, error)
	AcceptVerification(ctx context.Context, email, providedCode string) error
	ChangePassword(ctx context.Context, claims *models.Claims, oldPassword, newPassword string) error
	RequestPasswordReset(ctx context.Context, email string) (*services.IssuedCode, error)
	ResetPassword(ctx context.Context, email, providedCode, newPassword string) error
}

type PostService interface {
	List(ctx context.Context, page int) ([]models.Post, error)
	Get(ctx context.Context, id string) (*models.Post, error)
	Create(ctx context.Context, claims *models.Claims, title, description string) (*models.Post, error)
	Update(ctx context.Context, claims *models.Claims, id, title, description string) (*models.Post, error)
	Delete(ctx context.Context, claims *models.Claims, id string) error
}

// SessionVerifier checks a "Bearer <token>" value.
type SessionVerifier interface {
	VerifyBearer(raw string) (*models.Claims, error)
}

// CookieOptions controls the session cookie set on sign-in.
type CookieOptions struct {
	TTL    time.Duration
	Secure bool
}

type Server struct {
	address  string
	app      *fiber.App
	accounts AccountService
	posts    PostService
	sessions SessionVerifier
	cookie   CookieOptions
	logger   logging.Logger
}

func NewServer(address string, l logging.Logger, accounts AccountService, posts PostService, sessions SessionVerifier, cookie CookieOptions) *Server {
	s := &Server{
		address:  address,
		accounts: accounts,
		posts:    posts,
		sessions: sessions,
		cookie:   cookie,
		logger:   l.With("module", "http_server"),
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "postgate",
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})
	s.routes()

	return s
}

func (s *Server) routes() {
	s.app.Use(recover.New())
	s.app.Use(s.accessLog)
	s.app.Use(helmet.New())
	s.app.Use(cors.New())

	s.app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Hello World")
	})

	a := s.app.Group("/api/auth")
	a.Post("/signup", s.signUp)
	a.Post("/signin", s.signIn)
	a.Get("/signout", s.requireSession, s.signOut)
	a.Patch("/verify-code", s.sendVerificationCode)
	a.Patch("/accept-code", s.acceptCode)
	a.Patch("/change-password", s.requireSession, s.changePassword)
	a.Patch("/forgot-password", s.sendForgotPasswordCode)
	a.Patch("/verify-forgot-password-code", s.verifyForgotPasswordCode)

	p := s.app.Group("/api/posts")
	p.Get("/all-posts", s.listPosts)
	p.Get("/single-post", s.singlePost)
	p.Post("/create-post", s.requireSession, s.createPost)
	p.Put("/update-post", s.requireSession, s.updatePost)
	p.Delete("/delete-post", s.requireSession, s.deletePost)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.app.ShutdownWithContext(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	return s.app.Listen(s.address)
}
