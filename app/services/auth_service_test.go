package services_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/workhive/workhive/app/models"
	"github.com/workhive/workhive/app/repositories"
	"github.com/workhive/workhive/app/services"
	"github.com/workhive/workhive/pkg/auth"
)

func TestRegisterAndLogin(t *testing.T) {
	db := testDB(t)
	svc := services.NewAuthService(repositories.NewUserRepository(db))

	user, pair, err := svc.Register("Asha", "asha@example.com", "hunter2hunter2")
	require.NoError(t, err)
	require.Equal(t, models.RoleUser, user.Role)
	require.NotEmpty(t, pair.Token)
	require.NotEmpty(t, pair.RefreshToken)
	require.NotEqual(t, "hunter2hunter2", user.Password)

	claims, err := auth.ValidateToken(pair.Token)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)
	require.Equal(t, models.RoleUser, claims.Role)

	_, _, err = svc.Register("Asha Again", "asha@example.com", "hunter2hunter2")
	require.ErrorIs(t, err, services.ErrEmailTaken)

	_, _, err = svc.Login("asha@example.com", "hunter2hunter2")
	require.NoError(t, err)
}

func TestLoginDoesNotLeakWhichFieldWasWrong(t *testing.T) {
	db := testDB(t)
	svc := services.NewAuthService(repositories.NewUserRepository(db))

	_, _, err := svc.Register("Asha", "asha@example.com", "hunter2hunter2")
	require.NoError(t, err)

	_, _, badPassword := svc.Login("asha@example.com", "wrong-password")
	_, _, badEmail := svc.Login("nobody@example.com", "hunter2hunter2")
	require.ErrorIs(t, badPassword, services.ErrInvalidCredentials)
	require.ErrorIs(t, badEmail, services.ErrInvalidCredentials)
}
