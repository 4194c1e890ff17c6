package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"farumasi-backend/config"
	"farumasi-backend/internal/delivery/dto"
	"farumasi-backend/pkg/jwt"
)

func float(v float64) *float64 { return &v }

func newAuthUsecase(f *fixture, tokens *fakeTokenStore) (AuthUsecase, *jwt.JWTService) {
	jwtService := jwt.NewJWTService(config.JWTConfig{
		Secret:        "test-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: time.Hour,
	})
	return NewAuthUsecase(f.log, f.tx, f.users, f.locations, f.audit, jwtService, tokens), jwtService
}

func registerRequest(email string) *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Name:               "Jean Bosco",
		Email:              email,
		Password:           "secret123",
		InsuranceProviders: []string{"rssb", " RSSB ", "mutuelle"},
		Latitude:           float(-1.9441),
		Longitude:          float(30.0619),
	}
}

func TestRegister_CreatesUserWithLocation(t *testing.T) {
	f := newFixture()
	uc, _ := newAuthUsecase(f, newFakeTokenStore())

	user, err := uc.Register(context.Background(), registerRequest("Jean@Example.RW"))
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Email != "jean@example.rw" {
		t.Fatalf("email = %s, want lower-cased", user.Email)
	}
	if len(user.InsuranceProviders) != 2 || user.InsuranceProviders[0] != "RSSB" || user.InsuranceProviders[1] != "MUTUELLE" {
		t.Fatalf("insurance providers = %v", user.InsuranceProviders)
	}
	if user.Location == nil || user.Location.Coordinate.Latitude != -1.9441 {
		t.Fatalf("location = %+v", user.Location)
	}

	stored, _ := f.locations.FindByUserID(context.Background(), user.ID)
	if stored == nil {
		t.Fatal("user location not persisted")
	}
}

func TestRegister_Errors(t *testing.T) {
	f := newFixture()
	uc, _ := newAuthUsecase(f, newFakeTokenStore())
	if _, err := uc.Register(context.Background(), registerRequest("taken@example.rw")); err != nil {
		t.Fatalf("Register: %v", err)
	}

	badCoords := registerRequest("new@example.rw")
	badCoords.Latitude = float(120)

	if _, err := uc.Register(context.Background(), registerRequest("TAKEN@example.rw")); !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("duplicate email error = %v", err)
	}
	if _, err := uc.Register(context.Background(), badCoords); !errors.Is(err, ErrInvalidCoordinates) {
		t.Fatalf("bad coordinates error = %v", err)
	}
}

func TestRegister_LocationFailureRollsBackUser(t *testing.T) {
	f := newFixture()
	uc, _ := newAuthUsecase(f, newFakeTokenStore())
	f.store.FailOn("locations.create", errStoreDown)

	if _, err := uc.Register(context.Background(), registerRequest("jean@example.rw")); !errors.Is(err, errStoreDown) {
		t.Fatalf("error = %v, want %v", err, errStoreDown)
	}
	if u, _ := f.users.FindByEmail(context.Background(), "jean@example.rw"); u != nil {
		t.Fatal("user persisted without location")
	}
}

func TestLogin(t *testing.T) {
	f := newFixture()
	tokens := newFakeTokenStore()
	uc, jwtService := newAuthUsecase(f, tokens)
	registered, err := uc.Register(context.Background(), registerRequest("jean@example.rw"))
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	t.Run("wrong password", func(t *testing.T) {
		_, err := uc.Login(context.Background(), &dto.LoginRequest{Email: "jean@example.rw", Password: "nope"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("error = %v", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := uc.Login(context.Background(), &dto.LoginRequest{Email: "ghost@example.rw", Password: "secret123"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("error = %v", err)
		}
	})

	t.Run("updates location", func(t *testing.T) {
		resp, err := uc.Login(context.Background(), &dto.LoginRequest{
			Email:     "JEAN@example.rw",
			Password:  "secret123",
			Latitude:  float(-2.5),
			Longitude: float(29.7),
		})
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		if resp.User == nil || resp.User.Location.Coordinate.Latitude != -2.5 {
			t.Fatalf("user in response = %+v", resp.User)
		}
		stored, _ := f.locations.FindByUserID(context.Background(), registered.ID)
		if stored.Latitude != -2.5 || stored.Longitude != 29.7 {
			t.Fatalf("stored location = %+v", stored)
		}

		claims, err := jwtService.ValidateToken(resp.AccessToken)
		if err != nil {
			t.Fatalf("ValidateToken: %v", err)
		}
		ok, _ := tokens.Exists(context.Background(), registered.ID, claims.TokenID, jwt.AccessToken)
		if !ok {
			t.Fatal("access token not whitelisted")
		}
		if claims.Role != "user" {
			t.Fatalf("role claim = %s", claims.Role)
		}
	})

	t.Run("ignores invalid coordinates", func(t *testing.T) {
		_, err := uc.Login(context.Background(), &dto.LoginRequest{
			Email:     "jean@example.rw",
			Password:  "secret123",
			Latitude:  float(95),
			Longitude: float(29.7),
		})
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		stored, _ := f.locations.FindByUserID(context.Background(), registered.ID)
		if stored.Latitude != -2.5 {
			t.Fatalf("invalid coordinates were stored: %+v", stored)
		}
	})

	t.Run("location failure does not block login", func(t *testing.T) {
		f.store.FailOn("locations.update", errStoreDown)
		defer f.store.FailOn("locations.update", nil)

		resp, err := uc.Login(context.Background(), &dto.LoginRequest{
			Email:     "jean@example.rw",
			Password:  "secret123",
			Latitude:  float(-1.5),
			Longitude: float(30.1),
		})
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		if resp.User.Location.Coordinate.Latitude != -2.5 {
			t.Fatalf("response should carry the stored location, got %+v", resp.User.Location)
		}
	})
}

func TestRefreshTokenAndLogout(t *testing.T) {
	f := newFixture()
	tokens := newFakeTokenStore()
	uc, jwtService := newAuthUsecase(f, tokens)
	if _, err := uc.Register(context.Background(), registerRequest("jean@example.rw")); err != nil {
		t.Fatalf("Register: %v", err)
	}
	login, err := uc.Login(context.Background(), &dto.LoginRequest{Email: "jean@example.rw", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	refreshed, err := uc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	if err != nil {
		t.Fatalf("RefreshToken: %v", err)
	}

	// the old refresh token is single use
	if _, err := uc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{RefreshToken: login.RefreshToken}); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("reused refresh token error = %v", err)
	}
	if _, err := uc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{RefreshToken: refreshed.AccessToken}); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("access token used as refresh error = %v", err)
	}

	access, _ := jwtService.ValidateToken(refreshed.AccessToken)
	refresh, _ := jwtService.ValidateToken(refreshed.RefreshToken)
	if err := uc.Logout(context.Background(), access.TokenID, refresh.TokenID); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if ok, _ := tokens.Exists(context.Background(), access.UserID, access.TokenID, jwt.AccessToken); ok {
		t.Fatal("access token still whitelisted after logout")
	}
	if ok, _ := tokens.Exists(context.Background(), refresh.UserID, refresh.TokenID, jwt.RefreshToken); ok {
		t.Fatal("refresh token still whitelisted after logout")
	}
}

func TestGetCurrentUser(t *testing.T) {
	f := newFixture()
	uc, _ := newAuthUsecase(f, newFakeTokenStore())
	registered, err := uc.Register(context.Background(), registerRequest("jean@example.rw"))
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	me, err := uc.GetCurrentUser(context.Background(), registered.ID)
	if err != nil || me.Email != "jean@example.rw" || me.Location == nil {
		t.Fatalf("GetCurrentUser = %+v, %v", me, err)
	}
	if _, err := uc.GetCurrentUser(context.Background(), 404); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("missing user error = %v", err)
	}
}
