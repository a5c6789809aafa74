// Package services contains server-side business logic: the account state
// machine, the one-time code lifecycle and ownership-scoped post operations.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/postgate/internal/common"
	"github.com/dmitrijs2005/postgate/internal/dbx"
	"github.com/dmitrijs2005/postgate/internal/logging"
	"github.com/dmitrijs2005/postgate/internal/server/auth"
	"github.com/dmitrijs2005/postgate/internal/server/hashing"
	"github.com/dmitrijs2005/postgate/internal/server/mailer"
	"github.com/dmitrijs2005/postgate/internal/server/models"
	"github.com/dmitrijs2005/postgate/internal/server/repositories/repomanager"
)

const (
	verificationSubject = "Postgate Verification Code"
	resetSubject        = "Postgate Forgot Password Code"
)

// AccountService drives the account lifecycle:
//
//	SignUp -> unverified
//	RequestVerification + AcceptVerification -> verified (one way)
//	SignIn (verified only), ChangePassword (verified session),
//	RequestPasswordReset + ResetPassword (anonymous, code gated)
type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      hashing.Hasher
	sessions    *auth.SessionManager
	codes       *CodeManager
	mailer      mailer.Sender
	mailFrom    string
	logger      logging.Logger
}

func NewAccountService(
	db *sql.DB,
	m repomanager.RepositoryManager,
	hasher hashing.Hasher,
	sessions *auth.SessionManager,
	codes *CodeManager,
	sender mailer.Sender,
	mailFrom string,
	logger logging.Logger,
) *AccountService {
	return &AccountService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		sessions:    sessions,
		codes:       codes,
		mailer:      sender,
		mailFrom:    mailFrom,
		logger:      logger.With("module", "accounts"),
	}
}

// NormalizeEmail is the identity key of an account.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp creates an unverified account. A second signup with the same
// normalised email fails with common.ErrConflict.
func (s *AccountService) SignUp(ctx context.Context, email, password string) (*models.Account, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account, err := s.repomanager.Accounts(s.db).Create(ctx, NormalizeEmail(email), hash)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "account created", "account_id", account.ID)
	return account, nil
}

// SignIn returns a session token. Unverified accounts are refused before the
// password is looked at.
func (s *AccountService) SignIn(ctx context.Context, email, password string) (string, *models.Account, error) {
	account, err := s.repomanager.Accounts(s.db).GetByEmail(ctx, NormalizeEmail(email), true)
	if err != nil {
		return "", nil, err
	}
	if !account.Verified() {
		return "", nil, common.ErrUnverified
	}

	if err := s.checkPassword(password, account.PasswordHash); err != nil {
		return "", nil, err
	}

	token, err := s.sessions.Issue(account)
	if err != nil {
		return "", nil, err
	}
	return token, account, nil
}

// RequestVerification mails a signup-verify code to an unverified account.
func (s *AccountService) RequestVerification(ctx context.Context, email string) (*IssuedCode, error) {
	account, err := s.repomanager.Accounts(s.db).GetByEmail(ctx, NormalizeEmail(email), false)
	if err != nil {
		return nil, err
	}

	issued, err := s.codes.Issue(ctx, s.db, account, models.PurposeSignupVerify, s.deliver(account.Email, verificationSubject))
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "verification code issued", "account_id", account.ID)
	return issued, nil
}

// AcceptVerification consumes the signup-verify code and marks the account
// verified in one transaction.
func (s *AccountService) AcceptVerification(ctx context.Context, email, providedCode string) error {
	now := s.codes.now()

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		account, err := s.repomanager.Accounts(tx).GetByEmail(ctx, NormalizeEmail(email), false)
		if err != nil {
			return err
		}
		if account.Verified() {
			return common.ErrAlreadyVerified
		}

		if err := s.codes.Accept(ctx, tx, account, models.PurposeSignupVerify, providedCode, now); err != nil {
			return err
		}
		return s.repomanager.Accounts(tx).MarkVerified(ctx, account.ID)
	})
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "account verified")
	return nil
}

// ChangePassword replaces the password of the session's account after
// checking the old one. The session must assert a verified account.
func (s *AccountService) ChangePassword(ctx context.Context, claims *models.Claims, oldPassword, newPassword string) error {
	if claims == nil {
		return common.ErrTokenMissing
	}
	if !claims.Verified {
		return common.ErrUnverified
	}

	repo := s.repomanager.Accounts(s.db)
	account, err := repo.GetByID(ctx, claims.AccountID, true)
	if err != nil {
		return err
	}
	if err := s.checkPassword(oldPassword, account.PasswordHash); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := repo.UpdatePassword(ctx, account.ID, hash); err != nil {
		return err
	}

	s.logger.Info(ctx, "password changed", "account_id", account.ID)
	return nil
}

// RequestPasswordReset mails a password-reset code. Verification state is
// not checked.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email string) (*IssuedCode, error) {
	account, err := s.repomanager.Accounts(s.db).GetByEmail(ctx, NormalizeEmail(email), false)
	if err != nil {
		return nil, err
	}

	issued, err := s.codes.Issue(ctx, s.db, account, models.PurposePasswordReset, s.deliver(account.Email, resetSubject))
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "password reset code issued", "account_id", account.ID)
	return issued, nil
}

// ResetPassword consumes the password-reset code and stores newPassword in
// one transaction.
func (s *AccountService) ResetPassword(ctx context.Context, email, providedCode, newPassword string) error {
	now := s.codes.now()

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Accounts(tx)
		account, err := repo.GetByEmail(ctx, NormalizeEmail(email), false)
		if err != nil {
			return err
		}

		if err := s.codes.Accept(ctx, tx, account, models.PurposePasswordReset, providedCode, now); err != nil {
			return err
		}
		return repo.UpdatePassword(ctx, account.ID, hash)
	})
}

func (s *AccountService) checkPassword(plaintext, hash string) error {
	ok, err := s.hasher.Verify(plaintext, hash)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrInternal, err)
	}
	if !ok {
		return common.ErrInvalidCredential
	}
	return nil
}

// deliver mails the code to addr and succeeds only when the transport
// accepted that exact address.
func (s *AccountService) deliver(addr, subject string) DeliverFunc {
	return func(ctx context.Context, code string) error {
		d, err := s.mailer.SendMail(ctx, mailer.CodeMessage(s.mailFrom, addr, subject, code))
		if err != nil {
			s.logger.Warn(ctx, "mail delivery failed", "error", err)
			return fmt.Errorf("%w: %v", common.ErrDeliveryFailed, err)
		}
		if !d.Accepts(addr) {
			s.logger.Warn(ctx, "mail not accepted for recipient", "accepted", len(d.Accepted))
			return common.ErrDeliveryFailed
		}
		return nil
	}
}
