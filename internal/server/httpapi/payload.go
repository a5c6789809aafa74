package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"github.com/dmitrijs2005/postgate/internal/common"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
)

var (
	lowerRe = regexp.MustCompile(`[a-z]`)
	upperRe = regexp.MustCompile(`[A-Z]`)
	digitRe = regexp.MustCompile(`\d`)
	codeRe  = regexp.MustCompile(`^\s*[+-]?\d+\s*$`)
)

func emailRules() []validation.Rule {
	return []validation.Rule{validation.Required, validation.Length(3, 255), is.Email}
}

func strongPasswordRules() []validation.Rule {
	return []validation.Rule{
		validation.Required,
		validation.Length(8, 0),
		validation.Match(lowerRe).Error("must contain a lowercase letter"),
		validation.Match(upperRe).Error("must contain an uppercase letter"),
		validation.Match(digitRe).Error("must contain a digit"),
	}
}

func codeRules() []validation.Rule {
	return []validation.Rule{validation.Required, validation.Match(codeRe).Error("must be a number")}
}

// code accepts a verification code sent either as a JSON number or a string.
type code string

func (c *code) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = code(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("providedCode: %w", err)
	}
	*c = code(n.String())
	return nil
}

type signUpPayload struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func (p signUpPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, emailRules()...),
		validation.Field(&p.Password, strongPasswordRules()...),
	)
}

type signInPayload struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func (p signInPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, emailRules()...),
		validation.Field(&p.Password, validation.Required),
	)
}

type emailPayload struct {
	Email string `json:"email" form:"email"`
}

func (p emailPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, emailRules()...),
	)
}

type acceptCodePayload struct {
	Email        string `json:"email" form:"email"`
	ProvidedCode code   `json:"providedCode" form:"providedCode"`
}

func (p acceptCodePayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, emailRules()...),
		validation.Field(&p.ProvidedCode, codeRules()...),
	)
}

type changePasswordPayload struct {
	OldPassword string `json:"oldPassword" form:"oldPassword"`
	NewPassword string `json:"newPassword" form:"newPassword"`
}

func (p changePasswordPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.OldPassword, strongPasswordRules()...),
		validation.Field(&p.NewPassword, strongPasswordRules()...),
	)
}

type resetPasswordPayload struct {
	Email        string `json:"email" form:"email"`
	ProvidedCode code   `json:"providedCode" form:"providedCode"`
	NewPassword  string `json:"newPassword" form:"newPassword"`
}

func (p resetPasswordPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, emailRules()...),
		validation.Field(&p.ProvidedCode, codeRules()...),
		validation.Field(&p.NewPassword, strongPasswordRules()...),
	)
}

type postPayload struct {
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
}

func (p postPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.Required, validation.Length(6, 255)),
		validation.Field(&p.Description, validation.Required, validation.Length(6, 600)),
	)
}

// validationError carries per-field problems. It matches common.ErrValidation.
type validationError struct {
	msg    string
	fields validation.Errors
}

func (e *validationError) Error() string { return e.msg }

func (e *validationError) Unwrap() error { return common.ErrValidation }

// bind decodes the JSON body into p and validates it.
func bind(c *fiber.Ctx, p validation.Validatable) error {
	if err := c.BodyParser(p); err != nil {
		return &validationError{msg: "invalid request body"}
	}

	if err := p.Validate(); err != nil {
		var fields validation.Errors
		if errors.As(err, &fields) {
			return &validationError{msg: fields.Error(), fields: fields}
		}
		return fmt.Errorf("validate payload: %w", err)
	}
	return nil
}
