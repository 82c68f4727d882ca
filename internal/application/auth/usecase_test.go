package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/simstock-api/internal/application/auth"
	"github.com/jhoicas/simstock-api/internal/application/dto"
	"github.com/jhoicas/simstock-api/internal/domain"
	"github.com/jhoicas/simstock-api/internal/testutil"
	"github.com/jhoicas/simstock-api/pkg/jwt"
)

func TestRegisterAndLogin(t *testing.T) {
	store := testutil.NewStore()
	uc := auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: "secreto", ExpMinutes: 10, Issuer: "simstock"})
	ctx := context.Background()

	user, err := uc.RegisterUser(ctx, auth.RegisterInput{Email: "Ops@Example.com", Password: "contraseña1"})
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", user.Email)
	assert.Equal(t, "operator", user.Role)

	_, err = uc.RegisterUser(ctx, auth.RegisterInput{Email: "ops@example.com", Password: "contraseña1"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	_, err = uc.RegisterUser(ctx, auth.RegisterInput{Email: "x@example.com", Password: "corta"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.RegisterUser(ctx, auth.RegisterInput{Email: "x@example.com", Password: "contraseña1", Role: "root"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	res, err := uc.Login(ctx, dto.LoginRequest{Email: "ops@example.com", Password: "contraseña1"})
	require.NoError(t, err)
	userID, role, err := jwt.Parse("secreto", res.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
	assert.Equal(t, "operator", role)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ops@example.com", Password: "otra"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@example.com", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
