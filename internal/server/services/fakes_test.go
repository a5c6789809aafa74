package services

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/postgate/internal/common"
	"github.com/dmitrijs2005/postgate/internal/dbx"
	"github.com/dmitrijs2005/postgate/internal/server/mailer"
	"github.com/dmitrijs2005/postgate/internal/server/models"
	"github.com/dmitrijs2005/postgate/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/postgate/internal/server/repositories/codes"
	"github.com/dmitrijs2005/postgate/internal/server/repositories/posts"
	"github.com/google/uuid"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// --- accounts ---

type fakeAccountsRepo struct {
	mu   sync.Mutex
	rows map[string]models.Account

	getErr    error
	updateErr error
}

func newFakeAccountsRepo() *fakeAccountsRepo {
	return &fakeAccountsRepo{rows: map[string]models.Account{}}
}

func (f *fakeAccountsRepo) Create(ctx context.Context, email, passwordHash string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, a := range f.rows {
		if strings.EqualFold(a.Email, email) {
			return nil, common.ErrConflict
		}
	}
	now := time.Now()
	a := models.Account{
		ID: uuid.NewString(), Email: email, PasswordHash: passwordHash,
		Status: models.StatusUnverified, CreatedAt: now, UpdatedAt: now,
	}
	f.rows[a.ID] = a
	a.PasswordHash = ""
	return &a, nil
}

func (f *fakeAccountsRepo) find(match func(models.Account) bool, withPassword bool) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, a := range f.rows {
		if match(a) {
			if !withPassword {
				a.PasswordHash = ""
			}
			return &a, nil
		}
	}
	return nil, common.ErrAccountNotFound
}

func (f *fakeAccountsRepo) GetByEmail(ctx context.Context, email string, withPassword bool) (*models.Account, error) {
	return f.find(func(a models.Account) bool { return strings.EqualFold(a.Email, email) }, withPassword)
}

func (f *fakeAccountsRepo) GetByID(ctx context.Context, id string, withPassword bool) (*models.Account, error) {
	return f.find(func(a models.Account) bool { return a.ID == id }, withPassword)
}

func (f *fakeAccountsRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.updateErr != nil {
		return f.updateErr
	}
	a, ok := f.rows[id]
	if !ok {
		return common.ErrAccountNotFound
	}
	a.PasswordHash = passwordHash
	f.rows[id] = a
	return nil
}

func (f *fakeAccountsRepo) MarkVerified(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.updateErr != nil {
		return f.updateErr
	}
	a, ok := f.rows[id]
	if !ok {
		return common.ErrAccountNotFound
	}
	a.Status = models.StatusVerified
	f.rows[id] = a
	return nil
}

// byEmail returns a copy of the stored row.
func (f *fakeAccountsRepo) byEmail(email string) *models.Account {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.rows {
		if a.Email == email {
			return &a
		}
	}
	return &models.Account{}
}

// --- codes ---

type codeKey struct {
	accountID string
	purpose   models.CodePurpose
}

type fakeCodesRepo struct {
	mu   sync.Mutex
	rows map[codeKey]models.PendingCode

	upsertErr error
	getErr    error
	deleteErr error
	lockedGet int
}

func newFakeCodesRepo() *fakeCodesRepo {
	return &fakeCodesRepo{rows: map[codeKey]models.PendingCode{}}
}

func (f *fakeCodesRepo) Upsert(ctx context.Context, code *models.PendingCode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.rows[codeKey{code.AccountID, code.Purpose}] = *code
	return nil
}

func (f *fakeCodesRepo) Get(ctx context.Context, accountID string, purpose models.CodePurpose, forUpdate bool) (*models.PendingCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	if forUpdate {
		f.lockedGet++
	}
	c, ok := f.rows[codeKey{accountID, purpose}]
	if !ok {
		return nil, common.ErrCodeNotFound
	}
	return &c, nil
}

func (f *fakeCodesRepo) Delete(ctx context.Context, accountID string, purpose models.CodePurpose) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.rows, codeKey{accountID, purpose})
	return nil
}

func (f *fakeCodesRepo) pending(accountID string, purpose models.CodePurpose) (models.PendingCode, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.rows[codeKey{accountID, purpose}]
	return c, ok
}

// --- posts ---

type fakePostsRepo struct {
	mu   sync.Mutex
	rows map[string]models.Post

	listErr    error
	lastOffset int
	lastLimit  int
}

func newFakePostsRepo() *fakePostsRepo {
	return &fakePostsRepo{rows: map[string]models.Post{}}
}

func (f *fakePostsRepo) List(ctx context.Context, offset, limit int) ([]models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.lastOffset, f.lastLimit = offset, limit

	all := make([]models.Post, 0, len(f.rows))
	for _, p := range f.rows {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	if offset >= len(all) {
		return []models.Post{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (f *fakePostsRepo) Get(ctx context.Context, id string) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.rows[id]
	if !ok {
		return nil, common.ErrPostNotFound
	}
	return &p, nil
}

func (f *fakePostsRepo) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	post.ID = uuid.NewString()
	post.CreatedAt = time.Now().Add(time.Duration(len(f.rows)) * time.Millisecond)
	post.UpdatedAt = post.CreatedAt
	f.rows[post.ID] = *post
	return post, nil
}

func (f *fakePostsRepo) Update(ctx context.Context, post *models.Post) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	old, ok := f.rows[post.ID]
	if !ok {
		return nil, common.ErrPostNotFound
	}
	old.Title, old.Description, old.UpdatedAt = post.Title, post.Description, time.Now()
	f.rows[post.ID] = old
	return &old, nil
}

func (f *fakePostsRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return common.ErrPostNotFound
	}
	delete(f.rows, id)
	return nil
}

// --- manager ---

type fakeRepoManager struct {
	a *fakeAccountsRepo
	c *fakeCodesRepo
	p *fakePostsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{a: newFakeAccountsRepo(), c: newFakeCodesRepo(), p: newFakePostsRepo()}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Accounts(db dbx.DBTX) accounts.Repository   { return m.a }
func (m *fakeRepoManager) Codes(db dbx.DBTX) codes.Repository         { return m.c }
func (m *fakeRepoManager) Posts(db dbx.DBTX) posts.Repository         { return m.p }

// --- mailer ---

type fakeMailer struct {
	mu       sync.Mutex
	sent     []mailer.Message
	err      error
	accepted func(to string) []string
}

func (f *fakeMailer) SendMail(ctx context.Context, msg mailer.Message) (*mailer.Delivery, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, msg)
	if f.accepted != nil {
		return &mailer.Delivery{Accepted: f.accepted(msg.To)}, nil
	}
	return &mailer.Delivery{Accepted: []string{msg.To}}, nil
}
