package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/blog-server/internal/api/apierrors"
	"github.com/dtroode/blog-server/internal/model"
	"github.com/dtroode/blog-server/internal/password"
	"github.com/dtroode/blog-server/internal/repository/memory"
	"github.com/dtroode/blog-server/internal/testutil"
	"github.com/dtroode/blog-server/internal/token"
)

type sessionFixture struct {
	auth     *Auth
	accounts *memory.AccountRepository
}

func newSessionFixture(t *testing.T) sessionFixture {
	t.Helper()
	log := testutil.MakeNoopLogger()
	accounts := memory.NewAccountRepository()
	issuer := token.NewJWT(
		token.Key{Secret: "access-secret", ExpiresIn: 15 * time.Minute},
		token.Key{Secret: "refresh-secret", ExpiresIn: time.Hour},
	)
	hasher := password.NewHasher(password.Params{N: 1024, R: 1, P: 1, KeyLen: 64})
	a := NewAuth(accounts, hasher, NewTokenService(issuer, accounts, log), nil, nil, log)

	_, err := a.Register(context.Background(), model.RegisterParams{
		FirstName: "Jane",
		LastName:  "Doe",
		Username:  "jane",
		Email:     "jane@example.com",
		Password:  "correct horse",
	})
	require.NoError(t, err)

	return sessionFixture{auth: a, accounts: accounts}
}

func (f sessionFixture) storedToken(t *testing.T) *string {
	t.Helper()
	account, err := f.accounts.FindByUsernameOrEmail(context.Background(), "jane", "")
	require.NoError(t, err)
	return account.RefreshToken
}

func TestSessionFlow_LoginPersistsRefreshToken(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	session, err := f.auth.Login(ctx, model.LoginParams{Email: "JANE@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.NotEqual(t, session.AccessToken, session.RefreshToken)
	require.NotNil(t, f.storedToken(t))
	assert.Equal(t, session.RefreshToken, *f.storedToken(t))
}

func TestSessionFlow_WrongPasswordKeepsStoredToken(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	session, err := f.auth.Login(ctx, model.LoginParams{Username: "jane", Password: "correct horse"})
	require.NoError(t, err)

	_, err = f.auth.Login(ctx, model.LoginParams{Username: "jane", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, apierrors.KindBadRequest, apierrors.KindOf(err))
	assert.Equal(t, session.RefreshToken, *f.storedToken(t))
}

func TestSessionFlow_RefreshRotates(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	first, err := f.auth.Login(ctx, model.LoginParams{Username: "jane", Password: "correct horse"})
	require.NoError(t, err)

	second, err := f.auth.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.Equal(t, second.RefreshToken, *f.storedToken(t))

	_, err = f.auth.Refresh(ctx, first.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, apierrors.KindForbidden, apierrors.KindOf(err))
	assert.Equal(t, second.RefreshToken, *f.storedToken(t))
}

func TestSessionFlow_LogoutRevokes(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	session, err := f.auth.Login(ctx, model.LoginParams{Username: "jane", Password: "correct horse"})
	require.NoError(t, err)

	require.NoError(t, f.auth.Logout(ctx, session.Account.ID))
	assert.Nil(t, f.storedToken(t))
	require.NoError(t, f.auth.Logout(ctx, session.Account.ID))

	_, err = f.auth.Refresh(ctx, session.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, apierrors.KindForbidden, apierrors.KindOf(err))
}

func TestSessionFlow_AccessTokenIsNotARefreshToken(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	session, err := f.auth.Login(ctx, model.LoginParams{Username: "jane", Password: "correct horse"})
	require.NoError(t, err)

	_, err = f.auth.Refresh(ctx, session.AccessToken)
	require.Error(t, err)
	assert.Equal(t, apierrors.KindUnauthorized, apierrors.KindOf(err))
}

func TestSessionFlow_ConcurrentRefreshHasOneWinner(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	session, err := f.auth.Login(ctx, model.LoginParams{Username: "jane", Password: "correct horse"})
	require.NoError(t, err)

	const attempts = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners []model.Session
		kinds   []apierrors.Kind
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := f.auth.Refresh(ctx, session.RefreshToken)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				kinds = append(kinds, apierrors.KindOf(err))
				return
			}
			winners = append(winners, s)
		}()
	}
	wg.Wait()

	require.Len(t, winners, 1)
	for _, kind := range kinds {
		assert.Equal(t, apierrors.KindForbidden, kind)
	}
	assert.Equal(t, winners[0].RefreshToken, *f.storedToken(t))
}

func TestSessionFlow_ChangePasswordRevokesRefresh(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	session, err := f.auth.Login(ctx, model.LoginParams{Username: "jane", Password: "correct horse"})
	require.NoError(t, err)

	require.NoError(t, f.auth.ChangePassword(ctx, session.Account.ID, "correct horse", "battery staple"))
	assert.Nil(t, f.storedToken(t))

	_, err = f.auth.Refresh(ctx, session.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, apierrors.KindForbidden, apierrors.KindOf(err))

	_, err = f.auth.Login(ctx, model.LoginParams{Username: "jane", Password: "correct horse"})
	assert.Equal(t, apierrors.KindBadRequest, apierrors.KindOf(err))

	_, err = f.auth.Login(ctx, model.LoginParams{Username: "jane", Password: "battery staple"})
	require.NoError(t, err)
}
