package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"library_catalog/internal/service"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation"
)

// Username: 3-24 chars, starts and ends alphanumeric, interior may add
// hyphen, underscore or period.
var usernameRx = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-_.]{1,22}[a-zA-Z0-9]$`)

const passwordSpecials = "!@#$%^&*()_+={}[]|:;\"'<>,.?/~`-"

type registerRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (r registerRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username,
			validation.Required,
			validation.Length(3, 24),
			validation.Match(usernameRx).Error("username must start and end with a letter or number, and may contain letters, numbers, hyphens, underscores or periods"),
		),
		validation.Field(&r.Password,
			validation.Required,
			validation.Length(8, 32),
			validation.By(validatePasswordPolicy),
		),
		validation.Field(&r.ConfirmPassword,
			validation.Required,
			validation.By(equals(r.Password, "password and confirmation do not match")),
		),
	)
}

// validatePasswordPolicy requires at least one lowercase, one uppercase, one
// digit and one special character, and nothing outside those classes.
func validatePasswordPolicy(value interface{}) error {
	s, _ := value.(string)
	var lower, upper, digit, special bool
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		default:
			return fmt.Errorf("password contains a character that is not allowed: %q", r)
		}
	}
	if !lower || !upper || !digit || !special {
		return errors.New("password must include at least one lowercase letter, one uppercase letter, one digit and one special character")
	}
	return nil
}

func equals(want, msg string) validation.RuleFunc {
	return func(value interface{}) error {
		if s, _ := value.(string); s != want {
			return errors.New(msg)
		}
		return nil
	}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// bindJSONOrBadRequest binds the body into dst and writes a 400 on failure.
// Returns false if the request was already answered.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if h.log != nil {
			h.log.Infow("bad_request_body", "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	return true
}

// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  registerRequest  true  "Credentials with confirmation"
// @Success      201  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/Auth/register [post]
func (h *Handler) register(c *gin.Context) {
	var input registerRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}
	if err := input.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.services.Register(c.Request.Context(), input.Username, input.Password); err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "username already exists"})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, genericErrorMsg,
			"auth_register_failed", err, "username", input.Username)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordRegistration()
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":  "Registration successful",
		"username": input.Username,
	})
}

// @Summary      Log in and obtain a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  loginRequest  true  "Credentials"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/Auth/login [post]
func (h *Handler) login(c *gin.Context) {
	var input loginRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	token, err := h.services.Login(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		if h.metrics != nil {
			h.metrics.RecordLogin(false)
		}
		if errors.Is(err, service.ErrInvalidCredentials) {
			// The wrapped error distinguishes unknown-user from bad password
			// for the log line only; the response never does.
			if h.log != nil {
				h.log.Infow("auth_login_rejected", "username", input.Username, "err", err)
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, genericErrorMsg,
			"auth_login_failed", err, "username", input.Username)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordLogin(true)
	}
	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"message": "Login successful",
	})
}

// @Summary      Current authenticated user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/Auth/me [get]
// @Security     BearerAuth
func (h *Handler) currentUser(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"username": identity.Username,
		"tokenId":  identity.TokenID,
		"message":  "Token is valid",
	})
}
