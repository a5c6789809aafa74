package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/postgate/internal/common"
	"github.com/dmitrijs2005/postgate/internal/dbx"
	"github.com/dmitrijs2005/postgate/internal/server/hashing"
	"github.com/dmitrijs2005/postgate/internal/server/models"
	"github.com/dmitrijs2005/postgate/internal/server/repositories/repomanager"
)

const (
	codeMin = 1000
	codeMax = 9999
)

// IssuedCode is the result of CodeManager.Issue. Code is the plaintext for
// out-of-band delivery and is never stored.
type IssuedCode struct {
	Code      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// DeliverFunc hands a freshly generated code to the user. The digest is only
// stored when it returns nil.
type DeliverFunc func(ctx context.Context, code string) error

// CodeManager owns the lifecycle of one-time codes: at most one outstanding
// code per (account, purpose), stored as a keyed digest, valid for ttl.
type CodeManager struct {
	repomanager repomanager.RepositoryManager
	key         string
	ttl         time.Duration
	now         func() time.Time
	generate    func() (string, error)
}

func NewCodeManager(m repomanager.RepositoryManager, key string, ttl time.Duration) *CodeManager {
	return &CodeManager{
		repomanager: m,
		key:         key,
		ttl:         ttl,
		now:         time.Now,
		generate:    generateCode,
	}
}

func generateCode() (string, error) {
	n, err := common.RandomIntInRange(codeMin, codeMax)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return strconv.FormatInt(n, 10), nil
}

// Issue generates a code for purpose, delivers it and stores its digest,
// replacing any previous code for the same purpose. A signup-verify code can
// only be issued to an unverified account.
func (m *CodeManager) Issue(ctx context.Context, db dbx.DBTX, account *models.Account, purpose models.CodePurpose, deliver DeliverFunc) (*IssuedCode, error) {
	if purpose == models.PurposeSignupVerify && account.Verified() {
		return nil, common.ErrAlreadyVerified
	}

	code, err := m.generate()
	if err != nil {
		return nil, err
	}

	if deliver != nil {
		if err := deliver(ctx, code); err != nil {
			return nil, err
		}
	}

	issued := m.now()
	err = m.repomanager.Codes(db).Upsert(ctx, &models.PendingCode{
		AccountID: account.ID,
		Purpose:   purpose,
		Digest:    hashing.KeyedDigest(code, m.key),
		IssuedAt:  issued,
	})
	if err != nil {
		return nil, fmt.Errorf("store code: %w", err)
	}

	return &IssuedCode{Code: code, IssuedAt: issued, ExpiresAt: issued.Add(m.ttl)}, nil
}

// Accept consumes the outstanding code for purpose if provided matches it
// and now is within ttl of issuance. A mismatch leaves the code in place.
func (m *CodeManager) Accept(ctx context.Context, db dbx.DBTX, account *models.Account, purpose models.CodePurpose, provided string, now time.Time) error {
	repo := m.repomanager.Codes(db)

	pending, err := repo.Get(ctx, account.ID, purpose, true)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrCodeNotFound
		}
		return fmt.Errorf("load code: %w", err)
	}

	if now.Sub(pending.IssuedAt) > m.ttl {
		return common.ErrCodeExpired
	}

	canonical, ok := CanonicalCode(provided)
	if !ok || !hashing.DigestEqual(hashing.KeyedDigest(canonical, m.key), pending.Digest) {
		return common.ErrCodeMismatch
	}

	if err := repo.Delete(ctx, account.ID, purpose); err != nil {
		return fmt.Errorf("consume code: %w", err)
	}
	return nil
}

// CanonicalCode renders a numeric code the way it was issued, so "04821",
// " 4821" and 4821 all digest identically.
func CanonicalCode(provided string) (string, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(provided), 10, 64)
	if err != nil {
		return "", false
	}
	return strconv.FormatInt(n, 10), true
}
