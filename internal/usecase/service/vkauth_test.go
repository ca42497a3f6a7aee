package service

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillspace-backend/internal/entity"
	"skillspace-backend/internal/repo"
	"skillspace-backend/internal/repo/memory"
	"skillspace-backend/internal/usecase"
)

type fakeVKProvider struct {
	exchangeCalls int
	profileCalls  int
	exchangeErr   error
	profileErr    error
	token         *entity.VKToken
	info          *entity.VKUserInfo
}

func (f *fakeVKProvider) AuthURL(state string) string {
	return "https://oauth.vk.com/authorize?state=" + state
}

func (f *fakeVKProvider) Exchange(_ context.Context, code string) (*entity.VKToken, error) {
	f.exchangeCalls++
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	return f.token, nil
}

func (f *fakeVKProvider) GetUserInfo(_ context.Context, _ string, _ int) (*entity.VKUserInfo, error) {
	f.profileCalls++
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	return f.info, nil
}

type fakeUserRepo struct {
	usersByID    map[int]*entity.User
	nextID       int
	addCalls     int
	updateVKInfo int
	linkVKCalls  int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{usersByID: map[int]*entity.User{}, nextID: 1}
}

func (f *fakeUserRepo) AddUser(user *entity.User) (int, error) {
	f.addCalls++
	id := f.nextID
	f.nextID++
	stored := *user
	stored.ID = id
	f.usersByID[id] = &stored
	return id, nil
}

func (f *fakeUserRepo) GetUser(userID int) (*entity.User, error) {
	user, ok := f.usersByID[userID]
	if !ok {
		return nil, repo.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetUserByEmail(email string) (*entity.User, error) {
	for _, user := range f.usersByID {
		if user.Email == email && email != "" {
			return user, nil
		}
	}
	return nil, repo.ErrUserNotFound
}

func (f *fakeUserRepo) GetUserByVkID(vkID int) (*entity.User, error) {
	for _, user := range f.usersByID {
		if user.VkID == vkID && vkID != 0 {
			return user, nil
		}
	}
	return nil, repo.ErrUserNotFound
}

func (f *fakeUserRepo) UpdateVKInfo(userID int, info *entity.VKUserInfo) error {
	f.updateVKInfo++
	user, ok := f.usersByID[userID]
	if !ok {
		return repo.ErrUserNotFound
	}
	user.VkAvatar = info.Photo200
	return nil
}

func (f *fakeUserRepo) LinkVK(userID, vkID int, avatar string) error {
	f.linkVKCalls++
	user, ok := f.usersByID[userID]
	if !ok {
		return repo.ErrUserNotFound
	}
	user.VkID = vkID
	user.VkAvatar = avatar
	return nil
}

func (f *fakeUserRepo) UnlinkVK(userID int) error {
	user, ok := f.usersByID[userID]
	if !ok {
		return repo.ErrUserNotFound
	}
	user.VkID = 0
	user.VkAvatar = ""
	return nil
}

func (f *fakeUserRepo) UpdateProfilePhoto(userID int, photoURL string) error {
	user, ok := f.usersByID[userID]
	if !ok {
		return repo.ErrUserNotFound
	}
	user.ProfilePhoto = photoURL
	return nil
}

func (f *fakeUserRepo) GetUsers(offset, limit int) ([]entity.User, error) {
	ids := make([]int, 0, len(f.usersByID))
	for id := range f.usersByID {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	users := []entity.User{}
	for i, id := range ids {
		if i < offset {
			continue
		}
		if len(users) >= limit {
			break
		}
		users = append(users, *f.usersByID[id])
	}
	return users, nil
}

func (f *fakeUserRepo) UpdateProfile(userID int, nickname, email string) error {
	user, ok := f.usersByID[userID]
	if !ok {
		return repo.ErrUserNotFound
	}
	if email != "" {
		for id, other := range f.usersByID {
			if id != userID && other.Email == email {
				return repo.ErrEmailExists
			}
		}
	}
	user.Nickname = nickname
	user.Email = email
	return nil
}

func (f *fakeUserRepo) UpdatePassword(userID int, passwordHash string) error {
	user, ok := f.usersByID[userID]
	if !ok {
		return repo.ErrUserNotFound
	}
	user.PasswordHash = passwordHash
	return nil
}

func (f *fakeUserRepo) DeleteUser(userID int) error {
	if _, ok := f.usersByID[userID]; !ok {
		return repo.ErrUserNotFound
	}
	delete(f.usersByID, userID)
	return nil
}

func defaultProvider() *fakeVKProvider {
	return &fakeVKProvider{
		token: &entity.VKToken{AccessToken: "vk-token", UserID: 42, Email: "ivan@example.com"},
		info:  &entity.VKUserInfo{ID: 42, FirstName: "Иван", LastName: "Петров", Photo200: "https://vk.com/photo.jpg"},
	}
}

func TestVKAuth_BeginLogin(t *testing.T) {
	stateRepo := memory.NewState()
	defer stateRepo.Close()
	vkAuth := NewVKAuth(stateRepo, newFakeUserRepo(), defaultProvider(), time.Minute)

	payload, err := vkAuth.BeginLogin(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, payload.State)
	assert.Contains(t, payload.URL, payload.State)

	// state действительно сохранён и его можно погасить ровно один раз
	require.NoError(t, stateRepo.Consume(context.Background(), payload.State))
	assert.ErrorIs(t, stateRepo.Consume(context.Background(), payload.State), repo.ErrStateNotFound)
}

func TestVKAuth_BeginLogin_UniqueStates(t *testing.T) {
	stateRepo := memory.NewState()
	defer stateRepo.Close()
	vkAuth := NewVKAuth(stateRepo, newFakeUserRepo(), defaultProvider(), time.Minute)

	seen := map[string]struct{}{}
	for i := 0; i < 100; i++ {
		payload, err := vkAuth.BeginLogin(context.Background())
		require.NoError(t, err)
		_, dup := seen[payload.State]
		require.False(t, dup, "state повторился")
		seen[payload.State] = struct{}{}
	}
}

func TestVKAuth_CompleteLogin_NewUser(t *testing.T) {
	stateRepo := memory.NewState()
	defer stateRepo.Close()
	userRepo := newFakeUserRepo()
	provider := defaultProvider()
	vkAuth := NewVKAuth(stateRepo, userRepo, provider, time.Minute)

	payload, err := vkAuth.BeginLogin(context.Background())
	require.NoError(t, err)

	user, isNewUser, err := vkAuth.CompleteLogin(context.Background(), "validcode", payload.State)
	require.NoError(t, err)
	assert.True(t, isNewUser)
	assert.Equal(t, "Иван Петров", user.Nickname)
	assert.Equal(t, 42, user.VkID)
	// email берётся из ответа на обмен кода
	assert.Equal(t, "ivan@example.com", user.Email)
	assert.Equal(t, 1, userRepo.addCalls)
}

func TestVKAuth_CompleteLogin_ReplayedState(t *testing.T) {
	stateRepo := memory.NewState()
	defer stateRepo.Close()
	provider := defaultProvider()
	vkAuth := NewVKAuth(stateRepo, newFakeUserRepo(), provider, time.Minute)

	payload, err := vkAuth.BeginLogin(context.Background())
	require.NoError(t, err)

	_, _, err = vkAuth.CompleteLogin(context.Background(), "validcode", payload.State)
	require.NoError(t, err)

	_, _, err = vkAuth.CompleteLogin(context.Background(), "validcode", payload.State)
	assert.ErrorIs(t, err, usecase.ErrInvalidState)
	assert.Equal(t, 1, provider.exchangeCalls)
}

func TestVKAuth_CompleteLogin_UnknownState(t *testing.T) {
	stateRepo := memory.NewState()
	defer stateRepo.Close()
	provider := defaultProvider()
	vkAuth := NewVKAuth(stateRepo, newFakeUserRepo(), provider, time.Minute)

	_, _, err := vkAuth.CompleteLogin(context.Background(), "validcode", "unknown")
	assert.ErrorIs(t, err, usecase.ErrInvalidState)
	// до внешнего провайдера запрос не дошёл
	assert.Zero(t, provider.exchangeCalls)
}

func TestVKAuth_CompleteLogin_EmptyState(t *testing.T) {
	stateRepo := memory.NewState()
	defer stateRepo.Close()
	provider := defaultProvider()
	vkAuth := NewVKAuth(stateRepo, newFakeUserRepo(), provider, time.Minute)

	_, _, err := vkAuth.CompleteLogin(context.Background(), "validcode", "")
	assert.ErrorIs(t, err, usecase.ErrInvalidState)
	assert.Zero(t, provider.exchangeCalls)
}

func TestVKAuth_CompleteLogin_ExpiredState(t *testing.T) {
	stateRepo := memory.NewState()
	defer stateRepo.Close()
	vkAuth := NewVKAuth(stateRepo, newFakeUserRepo(), defaultProvider(), 10*time.Millisecond)

	payload, err := vkAuth.BeginLogin(context.Background())
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)

	_, _, err = vkAuth.CompleteLogin(context.Background(), "validcode", payload.State)
	assert.ErrorIs(t, err, usecase.ErrInvalidState)
}

func TestVKAuth_CompleteLogin_ExchangeFailed(t *testing.T) {
	stateRepo := memory.NewState()
	defer stateRepo.Close()
	provider := defaultProvider()
	provider.exchangeErr = errors.New("invalid_grant")
	vkAuth := NewVKAuth(stateRepo, newFakeUserRepo(), provider, time.Minute)

	payload, err := vkAuth.BeginLogin(context.Background())
	require.NoError(t, err)

	_, _, err = vkAuth.CompleteLogin(context.Background(), "badcode", payload.State)
	assert.ErrorIs(t, err, usecase.ErrCodeExchange)

	// state уже потрачен: повторная попытка с ним отклоняется
	_, _, err = vkAuth.CompleteLogin(context.Background(), "badcode", payload.State)
	assert.ErrorIs(t, err, usecase.ErrInvalidState)
}

func TestVKAuth_CompleteLogin_Timeout(t *testing.T) {
	stateRepo := memory.NewState()
	defer stateRepo.Close()
	provider := defaultProvider()
	provider.exchangeErr = context.DeadlineExceeded
	vkAuth := NewVKAuth(stateRepo, newFakeUserRepo(), provider, time.Minute)

	payload, err := vkAuth.BeginLogin(context.Background())
	require.NoError(t, err)

	_, _, err = vkAuth.CompleteLogin(context.Background(), "validcode", payload.State)
	assert.ErrorIs(t, err, usecase.ErrUpstreamUnavailable)
}

func TestVKAuth_CompleteLogin_ProfileFailed(t *testing.T) {
	stateRepo := memory.NewState()
	defer stateRepo.Close()
	provider := defaultProvider()
	provider.profileErr = errors.New("access denied")
	vkAuth := NewVKAuth(stateRepo, newFakeUserRepo(), provider, time.Minute)

	payload, err := vkAuth.BeginLogin(context.Background())
	require.NoError(t, err)

	_, _, err = vkAuth.CompleteLogin(context.Background(), "validcode", payload.State)
	assert.ErrorIs(t, err, usecase.ErrProfileFetch)
}

func TestVKAuth_CompleteLogin_ExistingVKUser(t *testing.T) {
	stateRepo := memory.NewState()
	defer stateRepo.Close()
	userRepo := newFakeUserRepo()
	_, err := userRepo.AddUser(&entity.User{Nickname: "Иван Петров", Email: "ivan@example.com", VkID: 42})
	require.NoError(t, err)

	vkAuth := NewVKAuth(stateRepo, userRepo, defaultProvider(), time.Minute)
	payload, err := vkAuth.BeginLogin(context.Background())
	require.NoError(t, err)

	user, isNewUser, err := vkAuth.CompleteLogin(context.Background(), "validcode", payload.State)
	require.NoError(t, err)
	assert.False(t, isNewUser)
	assert.Equal(t, 1, userRepo.updateVKInfo)
	assert.Equal(t, 1, userRepo.addCalls)
	assert.Equal(t, 42, user.VkID)
}

func TestVKAuth_CompleteLogin_LinksByEmail(t *testing.T) {
	stateRepo := memory.NewState()
	defer stateRepo.Close()
	userRepo := newFakeUserRepo()
	existingID, err := userRepo.AddUser(&entity.User{Nickname: "Иван", Email: "ivan@example.com"})
	require.NoError(t, err)

	vkAuth := NewVKAuth(stateRepo, userRepo, defaultProvider(), time.Minute)
	payload, err := vkAuth.BeginLogin(context.Background())
	require.NoError(t, err)

	user, isNewUser, err := vkAuth.CompleteLogin(context.Background(), "validcode", payload.State)
	require.NoError(t, err)
	assert.False(t, isNewUser)
	assert.Equal(t, existingID, user.ID)
	assert.Equal(t, 1, userRepo.linkVKCalls)
	assert.Equal(t, 42, user.VkID)
}
