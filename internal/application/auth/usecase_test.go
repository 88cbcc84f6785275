package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Backoffice-api/internal/application/auth"
	"github.com/jhoicas/Backoffice-api/internal/application/dto"
	"github.com/jhoicas/Backoffice-api/internal/domain"
	"github.com/jhoicas/Backoffice-api/internal/domain/entity"
	"github.com/jhoicas/Backoffice-api/internal/domain/repository"
	"github.com/jhoicas/Backoffice-api/pkg/jwt"
)

// ─── Fake de UserRepository ─────────────────────────────────────────────────

type memUserRepo struct {
	users map[string]*entity.User // por ID
}

var _ repository.UserRepository = (*memUserRepo)(nil)

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*entity.User)}
}

func (r *memUserRepo) Create(user *entity.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(id string) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByEmail(email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) List(limit, offset int) ([]*entity.User, error) {
	out := make([]*entity.User, 0, len(r.users))
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memUserRepo) Update(user *entity.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) Deactivate(id string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Active = false
	return nil
}

func testJWTCfg() auth.JWTConfig {
	return auth.JWTConfig{Secret: "secret-de-test", ExpMinutes: 60, Issuer: "backoffice-pro-test"}
}

func registerRequest() dto.RegisterRequest {
	return dto.RegisterRequest{
		Name:     "Ana Gómez",
		Email:    "Ana.Gomez@Example.com",
		Password: "clave-muy-segura",
	}
}

// ─── Tests ──────────────────────────────────────────────────────────────────

func TestRegisterUser_CreaCuentaYDevuelveToken(t *testing.T) {
	repo := newMemUserRepo()
	uc := auth.NewAuthUseCase(repo, testJWTCfg())

	resp, err := uc.RegisterUser(context.Background(), registerRequest())
	require.NoError(t, err)

	// El email se normaliza a minúsculas y el rol por defecto es worker.
	assert.Equal(t, "ana.gomez@example.com", resp.User.Email)
	assert.Equal(t, entity.RoleWorker, resp.User.Role)
	assert.True(t, resp.User.Active)
	assert.NotEmpty(t, resp.User.ID)

	// El token es verificable con el mismo secret y trae identidad y rol.
	userID, role, err := jwt.Parse("secret-de-test", resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, userID)
	assert.Equal(t, entity.RoleWorker, role)

	// La contraseña se guarda hasheada, nunca en claro.
	stored, err := repo.GetByID(resp.User.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEqual(t, "clave-muy-segura", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("clave-muy-segura")))
}

func TestRegisterUser_EmailDuplicado(t *testing.T) {
	uc := auth.NewAuthUseCase(newMemUserRepo(), testJWTCfg())

	_, err := uc.RegisterUser(context.Background(), registerRequest())
	require.NoError(t, err)

	// Mismo email con otra capitalización sigue siendo duplicado.
	in := registerRequest()
	in.Email = "ANA.GOMEZ@example.com"
	_, err = uc.RegisterUser(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegisterUser_Validaciones(t *testing.T) {
	uc := auth.NewAuthUseCase(newMemUserRepo(), testJWTCfg())

	cases := []struct {
		name   string
		mutate func(*dto.RegisterRequest)
	}{
		{"email vacío", func(in *dto.RegisterRequest) { in.Email = "   " }},
		{"password corto", func(in *dto.RegisterRequest) { in.Password = "corta" }},
		{"rol desconocido", func(in *dto.RegisterRequest) { in.Role = "superadmin" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := registerRequest()
			tc.mutate(&in)
			_, err := uc.RegisterUser(context.Background(), in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestLogin_CredencialesCorrectas(t *testing.T) {
	uc := auth.NewAuthUseCase(newMemUserRepo(), testJWTCfg())
	_, err := uc.RegisterUser(context.Background(), registerRequest())
	require.NoError(t, err)

	resp, err := uc.Login(context.Background(), dto.LoginRequest{
		Email:    "ana.gomez@example.com",
		Password: "clave-muy-segura",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "ana.gomez@example.com", resp.User.Email)
}

// Email inexistente, password incorrecto y cuenta inactiva responden con el
// mismo error para no filtrar cuál de los tres falló.
func TestLogin_FallaUniformemente(t *testing.T) {
	repo := newMemUserRepo()
	uc := auth.NewAuthUseCase(repo, testJWTCfg())
	reg, err := uc.RegisterUser(context.Background(), registerRequest())
	require.NoError(t, err)

	_, err = uc.Login(context.Background(), dto.LoginRequest{
		Email: "nadie@example.com", Password: "clave-muy-segura",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = uc.Login(context.Background(), dto.LoginRequest{
		Email: "ana.gomez@example.com", Password: "clave-equivocada",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	require.NoError(t, repo.Deactivate(reg.User.ID))
	_, err = uc.Login(context.Background(), dto.LoginRequest{
		Email: "ana.gomez@example.com", Password: "clave-muy-segura",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestDeactivateUser(t *testing.T) {
	repo := newMemUserRepo()
	uc := auth.NewAuthUseCase(repo, testJWTCfg())
	reg, err := uc.RegisterUser(context.Background(), registerRequest())
	require.NoError(t, err)

	require.NoError(t, uc.DeactivateUser(context.Background(), reg.User.ID))

	// Segunda desactivación y un ID inexistente responden igual.
	assert.ErrorIs(t, uc.DeactivateUser(context.Background(), reg.User.ID), domain.ErrUserNotFound)
	assert.ErrorIs(t, uc.DeactivateUser(context.Background(), "no-existe"), domain.ErrUserNotFound)
}

func TestGetUser_NoExiste(t *testing.T) {
	uc := auth.NewAuthUseCase(newMemUserRepo(), testJWTCfg())
	_, err := uc.GetUser(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}