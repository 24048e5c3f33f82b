package handlers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jeyfredc/ApiInscripcionMaterias/internal/config"
	"github.com/jeyfredc/ApiInscripcionMaterias/internal/domain/account"
	"github.com/jeyfredc/ApiInscripcionMaterias/internal/observability"
	"github.com/jeyfredc/ApiInscripcionMaterias/internal/repo/postgres"
)

// The login failure message is identical for unknown email and wrong
// password: responses must not reveal whether an account exists.
const (
	msgAuthFailed        = "Authentication failed"
	errBadCredentials    = "Email or password is incorrect"
	msgIncompleteCreds   = "Incomplete credentials"
	msgServerError       = "An error occurred while processing the authentication"
	msgRegisterFailed    = "Could not register the account"
	msgRegisterSucceeded = "Account registered successfully"
)

type AccountReader interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
}

type AccountWriter interface {
	Create(ctx context.Context, name, email, passwordHash string, roleID int) (account.Summary, error)
}

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

type TokenIssuer interface {
	Issue(acct account.Account) (string, error)
}

type AuthHandler struct {
	accounts AccountReader
	writer   AccountWriter
	hasher   PasswordHasher
	jwt      TokenIssuer
	prom     *observability.Prom
}

func NewAuthHandler(accounts AccountReader, writer AccountWriter, hasher PasswordHasher, jwt TokenIssuer, prom *observability.Prom) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		writer:   writer,
		hasher:   hasher,
		jwt:      jwt,
		prom:     prom,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	RoleID   int    `json:"role_id" binding:"required"`
}

// AuthenticatedAccount is the login payload. The profile fields are
// present only when the role carries that profile.
type AuthenticatedAccount struct {
	ID               int    `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	Role             string `json:"role"`
	CreditsAvailable *int   `json:"credits_available,omitempty"`
	StudentID        *int   `json:"student_id,omitempty"`
	TeacherID        *int   `json:"teacher_id,omitempty"`
	Token            string `json:"token"`
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// Cheap check before touching the store; not a security measure.
	if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Password) == "" {
		RespondBadRequest(ctx, msgIncompleteCreds)
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	acct, err := h.accounts.GetByEmail(cctx, req.Email)

	if err != nil {
		if errors.Is(err, postgres.ErrAccountNotFound) {
			h.countLogin("failed")
			RespondUnauthorized(ctx, msgAuthFailed, errBadCredentials)
			return
		}

		h.countLogin("error")
		RespondInternal(ctx, msgServerError)
		return
	}

	if !h.hasher.Verify(req.Password, acct.PasswordHash) {
		h.countLogin("failed")
		RespondUnauthorized(ctx, msgAuthFailed, errBadCredentials)
		return
	}

	token, err := h.jwt.Issue(acct)

	if err != nil {
		// bad config or signing failure: never leak detail to the caller
		h.countLogin("error")
		RespondInternal(ctx, msgServerError)
		return
	}

	payload := AuthenticatedAccount{
		ID:    acct.ID,
		Name:  acct.Name,
		Email: acct.Email,
		Role:  acct.Role,
		Token: token,
	}

	if acct.Student != nil {
		payload.StudentID = &acct.Student.ID
		payload.CreditsAvailable = &acct.Student.CreditsAvailable
	}
	if acct.Teacher != nil {
		payload.TeacherID = &acct.Teacher.ID
	}

	h.countLogin("success")
	RespondOK(ctx, "Authentication successful", payload)
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	hash, err := h.hasher.Hash(req.Password)

	if err != nil {
		RespondBadRequest(ctx, msgRegisterFailed, "password must not be empty")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	summary, err := h.writer.Create(cctx, req.Name, req.Email, hash, req.RoleID)

	if err != nil {
		switch {
		case errors.Is(err, postgres.ErrEmailTaken):
			RespondBadRequest(ctx, msgRegisterFailed, "email is already in use")
		case errors.Is(err, postgres.ErrUnknownRole):
			RespondBadRequest(ctx, msgRegisterFailed, "role does not exist")
		default:
			RespondInternal(ctx, msgRegisterFailed)
		}
		return
	}

	RespondOK(ctx, msgRegisterSucceeded, summary)
}

func (h *AuthHandler) countLogin(outcome string) {
	if h.prom != nil {
		h.prom.LoginsTotal.WithLabelValues(outcome).Inc()
	}
}
