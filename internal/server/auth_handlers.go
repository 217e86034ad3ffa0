package server

import (
	"strconv"
	"time"

	"chronicle/internal/forms"
	"chronicle/internal/middleware"
	"chronicle/internal/models"
	"chronicle/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// sessionTTL bounds both the signed token and its cookie.
const sessionTTL = 72 * time.Hour

type signupRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// SignupForm handles GET /auth/signup.
func (s *Server) SignupForm(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"form": &signupRequest{},
	})
}

// Signup handles POST /auth/signup. Field failures re-render the form;
// a successful registration redirects to the login page.
func (s *Server) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	errs := forms.Errors{}
	if req.Username == "" {
		errs.Add("username", "This field is required.")
	} else if err := validation.ValidateUsername(req.Username); err != nil {
		errs.Add("username", err.Error())
	}
	if req.Email == "" {
		errs.Add("email", "This field is required.")
	} else if err := validation.ValidateEmail(req.Email); err != nil {
		errs.Add("email", err.Error())
	}
	if req.Password == "" {
		errs.Add("password", "This field is required.")
	} else if err := validation.ValidatePassword(req.Password); err != nil {
		errs.Add("password", err.Error())
	}

	if !errs.Any() {
		existing, err := s.userRepo.GetByEmail(c.UserContext(), req.Email)
		if err != nil {
			return s.respondError(c, err)
		}
		if existing != nil {
			errs.Add("email", "A user with that email already exists.")
		}
		taken, err := s.userRepo.UsernameTaken(c.UserContext(), req.Username, 0)
		if err != nil {
			return s.respondError(c, err)
		}
		if taken {
			errs.Add("username", "A user with that username already exists.")
		}
	}

	if errs.Any() {
		req.Password = ""
		return renderInvalidForm(c, &req, errs)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return s.respondError(c, models.NewInternalError(err))
	}

	user := &models.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  string(hashedPassword),
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	if err := s.userRepo.Create(c.UserContext(), user); err != nil {
		return s.respondError(c, err)
	}

	return seeOther(c, s.config.LoginURL)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Next     string `json:"next"`
}

// LoginForm handles GET /auth/login. The next parameter survives the
// round trip so a successful login returns to the guarded page.
func (s *Server) LoginForm(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"form": &loginRequest{Next: c.Query("next")},
	})
}

// Login handles POST /auth/login. A bad username or password re-renders
// the form with a single non-field error that does not reveal which of
// the two was wrong.
func (s *Server) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	failed := func() error {
		errs := forms.Errors{}
		errs.Add("__all__", "Please enter a correct username and password.")
		req.Password = ""
		return renderInvalidForm(c, &req, errs)
	}

	user, err := s.userRepo.GetByUsername(c.UserContext(), req.Username)
	if err != nil {
		var notFound bool
		if appErr, ok := err.(*models.AppError); ok && appErr.Code == models.CodeNotFound {
			notFound = true
		}
		if !notFound {
			return s.respondError(c, err)
		}
		return failed()
	}

	if cmpErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); cmpErr != nil {
		return failed()
	}

	token, err := s.generateToken(user.ID, user.Username)
	if err != nil {
		return s.respondError(c, models.NewInternalError(err))
	}
	s.setSessionCookie(c, token, time.Now().Add(sessionTTL))

	next := req.Next
	if next == "" {
		next = c.Query("next")
	}
	if next != "" {
		return seeOther(c, safeNext(next))
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Logout handles POST /auth/logout by expiring the session cookie.
func (s *Server) Logout(c *fiber.Ctx) error {
	s.setSessionCookie(c, "", time.Now().Add(-time.Hour))
	return seeOther(c, "/")
}

func (s *Server) setSessionCookie(c *fiber.Ctx, token string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Expires:  expires,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   s.config.Env == "production",
	})
}

// generateToken creates a signed session token for the given user.
func (s *Server) generateToken(userID uint, username string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(userID), 10),
		"username": username,
		"iss":      "chronicle",
		"exp":      now.Add(sessionTTL).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}
