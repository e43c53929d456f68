package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yukikurage/event-rsvp/internal/constants"
	apierrors "github.com/yukikurage/event-rsvp/internal/errors"
	"github.com/yukikurage/event-rsvp/internal/logging"
	"github.com/yukikurage/event-rsvp/internal/models"
	"github.com/yukikurage/event-rsvp/internal/repository"
	"github.com/yukikurage/event-rsvp/internal/token"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = apierrors.Auth(apierrors.ErrCodeInvalidCredentials, "Invalid username or password.")
	ErrAccountInactive    = apierrors.Auth(apierrors.ErrCodeAccountInactive, "Account inactive. Please activate your account via email.")
	ErrInvalidActivation  = apierrors.Activation("Activation link is invalid!")
	ErrUserNotFound       = apierrors.NotFoundError("User not found.")
)

var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)

// Notifier delivers user-facing mail in the background.
type Notifier interface {
	SendActivation(user *models.User, uid, token string)
	SendRSVPConfirmation(user *models.User, event *models.Event)
}

// AuthService handles signup, activation and login.
type AuthService struct {
	userRepo  repository.UserRepository
	activator token.Activator
	notifier  Notifier
	validate  *validator.Validate
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, activator token.Activator, notifier Notifier) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		activator: activator,
		notifier:  notifier,
		validate:  validator.New(),
	}
}

// SignupInput represents the required information to create a new user.
type SignupInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Password1 string
	Password2 string
}

// tooLong and tooShort count characters, not bytes.
func (s *AuthService) tooLong(value string, max int) bool {
	return s.validate.Var(value, "max="+strconv.Itoa(max)) != nil
}

func (s *AuthService) tooShort(value string, min int) bool {
	return s.validate.Var(value, "min="+strconv.Itoa(min)) != nil
}

func (s *AuthService) validateSignup(ctx context.Context, input *SignupInput) error {
	fe := apierrors.FieldErrors{}

	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)

	switch {
	case input.Username == "":
		fe.Add("username", "This field is required.")
	case s.tooLong(input.Username, constants.MaxUsernameLength):
		fe.Add("username", fmt.Sprintf("Ensure this value has at most %d characters.", constants.MaxUsernameLength))
	case !usernamePattern.MatchString(input.Username):
		fe.Add("username", "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")
	}

	if input.Email == "" {
		fe.Add("email", "This field is required.")
	} else if err := s.validate.Var(input.Email, "email"); err != nil {
		fe.Add("email", "Enter a valid email address.")
	}

	for field, value := range map[string]string{"first_name": input.FirstName, "last_name": input.LastName} {
		if value == "" {
			fe.Add(field, "This field is required.")
		} else if s.tooLong(value, constants.MaxNameLength) {
			fe.Add(field, fmt.Sprintf("Ensure this value has at most %d characters.", constants.MaxNameLength))
		}
	}

	switch {
	case input.Password1 == "":
		fe.Add("password1", "This field is required.")
	case s.tooShort(input.Password1, constants.MinPasswordLength):
		fe.Add("password1", fmt.Sprintf("This password is too short. It must contain at least %d characters.", constants.MinPasswordLength))
	}
	if input.Password2 == "" {
		fe.Add("password2", "This field is required.")
	} else if input.Password1 != input.Password2 {
		fe.Add("password2", "The two password fields didn't match.")
	}

	if _, ok := fe["username"]; !ok {
		if _, err := s.userRepo.FindByUsername(ctx, input.Username); err == nil {
			fe.Add("username", "A user with that username already exists.")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check username: %w", err)
		}
	}

	return fe.Err()
}

// Signup creates an inactive user in the Participant group and mails the activation link.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*models.User, error) {
	if err := s.validateSignup(ctx, &input); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password1), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     input.Username,
		Email:        input.Email,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: string(hashedPassword),
		IsActive:     false,
	}

	if err := s.userRepo.CreateWithGroup(ctx, user, models.GroupParticipant); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierrors.FieldErrors{"username": "A user with that username already exists."}
		}
		return nil, fmt.Errorf("failed to complete signup: %w", err)
	}

	log := logging.FromContext(ctx)
	tok, err := s.activator.Issue(user.ID)
	if err != nil {
		log.Error("Failed to issue activation token", zap.Uint64("user_id", user.ID), zap.Error(err))
		return user, nil
	}
	s.notifier.SendActivation(user, token.EncodeUID(user.ID), tok)

	log.Info("User signed up", zap.Uint64("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// Activate flips is_active for the user the link was issued to. Activating an
// already active account succeeds without changes.
func (s *AuthService) Activate(ctx context.Context, uidb64, tok string) (*models.User, error) {
	log := logging.FromContext(ctx)

	uid, err := token.DecodeUID(uidb64)
	if err != nil {
		log.Warn("Activation rejected", zap.String("reason", "malformed_uid"))
		return nil, ErrInvalidActivation
	}

	user, err := s.userRepo.FindByID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("Activation rejected", zap.String("reason", "unknown_user"), zap.Uint64("user_id", uid))
			return nil, ErrInvalidActivation
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	subject, err := s.activator.Verify(tok)
	if err != nil || subject != user.ID {
		log.Warn("Activation rejected", zap.String("reason", "invalid_token"), zap.Uint64("user_id", uid))
		return nil, ErrInvalidActivation
	}

	if user.IsActive {
		return user, nil
	}

	if err := s.userRepo.Activate(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to activate user: %w", err)
	}
	user.IsActive = true

	log.Info("User activated", zap.Uint64("user_id", user.ID))
	return user, nil
}

// Authenticate verifies credentials. The inactive error is only reported when the password matches.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	return user, nil
}

// GetUser retrieves a user by ID with groups.
func (s *AuthService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// CreateSuperuser creates an active superuser in the Admin group.
func (s *AuthService) CreateSuperuser(ctx context.Context, username, email, password string) (*models.User, error) {
	fe := apierrors.FieldErrors{}
	username = strings.TrimSpace(username)
	if username == "" || !usernamePattern.MatchString(username) || s.tooLong(username, constants.MaxUsernameLength) {
		fe.Add("username", "Enter a valid username.")
	}
	if email != "" {
		if err := s.validate.Var(email, "email"); err != nil {
			fe.Add("email", "Enter a valid email address.")
		}
	}
	if s.tooShort(password, constants.MinPasswordLength) {
		fe.Add("password", fmt.Sprintf("This password is too short. It must contain at least %d characters.", constants.MinPasswordLength))
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		IsActive:     true,
		IsSuperuser:  true,
	}
	if err := s.userRepo.CreateWithGroup(ctx, user, models.GroupAdmin); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierrors.FieldErrors{"username": "A user with that username already exists."}
		}
		return nil, fmt.Errorf("failed to create superuser: %w", err)
	}
	return user, nil
}
