package httpapi

import (
	"net/url"
	"time"

	"github.com/dmitrijs2005/postgate/internal/common"
	"github.com/dmitrijs2005/postgate/internal/server/auth"
	"github.com/dmitrijs2005/postgate/internal/server/models"
	"github.com/gofiber/fiber/v2"
)

type accountView struct {
	ID        string    `json:"_id"`
	Email     string    `json:"email"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"createdAt"`
}

func newAccountView(a *models.Account) accountView {
	return accountView{ID: a.ID, Email: a.Email, Verified: a.Verified(), CreatedAt: a.CreatedAt}
}

type codeView struct {
	ExpiresAt time.Time `json:"expiresAt"`
}

var signInOverrides = []errorOverride{
	{target: common.ErrAccountNotFound, message: "invalid email or password"},
	{target: common.ErrInvalidCredential, message: "invalid email or password"},
}

func (s *Server) signUp(c *fiber.Ctx) error {
	var p signUpPayload
	if err := bind(c, &p); err != nil {
		return s.fail(c, err)
	}

	account, err := s.accounts.SignUp(c.UserContext(), p.Email, p.Password)
	if err != nil {
		return s.fail(c, err)
	}

	return ok(c, fiber.StatusCreated, "Your account has been created successfully", newAccountView(account))
}

func (s *Server) signIn(c *fiber.Ctx) error {
	var p signInPayload
	if err := bind(c, &p); err != nil {
		return s.fail(c, err, signInOverrides...)
	}

	token, _, err := s.accounts.SignIn(c.UserContext(), p.Email, p.Password)
	if err != nil {
		return s.fail(c, err, signInOverrides...)
	}

	c.Cookie(&fiber.Cookie{
		Name:     common.SessionCookieName,
		Value:    url.PathEscape(auth.BearerValue(token)),
		Path:     "/",
		Expires:  time.Now().Add(s.cookie.TTL),
		HTTPOnly: s.cookie.Secure,
		Secure:   s.cookie.Secure,
	})

	return c.Status(fiber.StatusOK).JSON(envelope{Success: true, Message: "logged in successfully", Token: token})
}

func (s *Server) signOut(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     common.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: s.cookie.Secure,
		Secure:   s.cookie.Secure,
	})
	return ok(c, fiber.StatusOK, "logged out successfully", nil)
}

func (s *Server) sendVerificationCode(c *fiber.Ctx) error {
	var p emailPayload
	if err := bind(c, &p); err != nil {
		return s.fail(c, err)
	}

	issued, err := s.accounts.RequestVerification(c.UserContext(), p.Email)
	if err != nil {
		return s.fail(c, err)
	}

	return ok(c, fiber.StatusOK, "Code sent!", codeView{ExpiresAt: issued.ExpiresAt})
}

func (s *Server) acceptCode(c *fiber.Ctx) error {
	var p acceptCodePayload
	if err := bind(c, &p); err != nil {
		return s.fail(c, err)
	}

	if err := s.accounts.AcceptVerification(c.UserContext(), p.Email, string(p.ProvidedCode)); err != nil {
		return s.fail(c, err)
	}

	return ok(c, fiber.StatusOK, "your account has been verified", nil)
}

func (s *Server) changePassword(c *fiber.Ctx) error {
	var p changePasswordPayload
	if err := bind(c, &p); err != nil {
		return s.fail(c, err)
	}

	if err := s.accounts.ChangePassword(c.UserContext(), claimsFrom(c), p.OldPassword, p.NewPassword); err != nil {
		return s.fail(c, err)
	}

	return ok(c, fiber.StatusOK, "Password updated!!", nil)
}

func (s *Server) sendForgotPasswordCode(c *fiber.Ctx) error {
	var p emailPayload
	if err := bind(c, &p); err != nil {
		return s.fail(c, err)
	}

	issued, err := s.accounts.RequestPasswordReset(c.UserContext(), p.Email)
	if err != nil {
		return s.fail(c, err)
	}

	return ok(c, fiber.StatusOK, "Code sent!", codeView{ExpiresAt: issued.ExpiresAt})
}

func (s *Server) verifyForgotPasswordCode(c *fiber.Ctx) error {
	var p resetPasswordPayload
	if err := bind(c, &p); err != nil {
		return s.fail(c, err)
	}

	err := s.accounts.ResetPassword(c.UserContext(), p.Email, string(p.ProvidedCode), p.NewPassword)
	if err != nil {
		return s.fail(c, err)
	}

	return ok(c, fiber.StatusOK, "Password updated!!", nil)
}
