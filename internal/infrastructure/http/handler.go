package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"finstatements.com/internal/application/usecase"
	"finstatements.com/internal/domain/entity"
	"finstatements.com/internal/domain/port"
	"finstatements.com/internal/infrastructure/logger"
)

const maxBodyBytes = 1 << 20

// Handler holds HTTP handlers and their dependencies
type Handler struct {
	createStatement  *usecase.CreateStatementUseCase
	getBalance       *usecase.GetBalanceUseCase
	getStatement     *usecase.GetStatementOperationUseCase
	createUser       *usecase.CreateUserUseCase
	authenticateUser *usecase.AuthenticateUserUseCase
	showUserProfile  *usecase.ShowUserProfileUseCase
	tokens           port.TokenService
	logger           logger.Logger
}

// UseCases groups the application operations served over HTTP
type UseCases struct {
	CreateStatement  *usecase.CreateStatementUseCase
	GetBalance       *usecase.GetBalanceUseCase
	GetStatement     *usecase.GetStatementOperationUseCase
	CreateUser       *usecase.CreateUserUseCase
	AuthenticateUser *usecase.AuthenticateUserUseCase
	ShowUserProfile  *usecase.ShowUserProfileUseCase
}

// NewHandler creates a new HTTP handler
func NewHandler(useCases UseCases, tokens port.TokenService, logger logger.Logger) *Handler {
	return &Handler{
		createStatement:  useCases.CreateStatement,
		getBalance:       useCases.GetBalance,
		getStatement:     useCases.GetStatement,
		createUser:       useCases.CreateUser,
		authenticateUser: useCases.AuthenticateUser,
		showUserProfile:  useCases.ShowUserProfile,
		tokens:           tokens,
		logger:           logger,
	}
}

type operationRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// HandleHealth handles GET /health
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleCreateUser handles POST /api/v1/users
func (h *Handler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestLogger := loggerFrom(ctx, h.logger)

	var req entity.RegisterUserRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	user, err := h.createUser.Execute(ctx, req)
	if err != nil {
		h.respondError(w, r, "Failed to create user", err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
	requestLogger.LogInfo(ctx, "User created", "user_id", user.ID)
}

// HandleCreateSession handles POST /api/v1/sessions
func (h *Handler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req usecase.AuthenticateUserRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	session, err := h.authenticateUser.Execute(ctx, req)
	if err != nil {
		h.respondError(w, r, "Failed to authenticate user", err)
		return
	}

	writeJSON(w, http.StatusOK, session)
	loggerFrom(ctx, h.logger).LogInfo(ctx, "Session created", "user_id", session.User.ID)
}

// HandleProfile handles GET /api/v1/profile
func (h *Handler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.showUserProfile.Execute(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		h.respondError(w, r, "Failed to load profile", err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleDeposit handles POST /api/v1/statements/deposit
func (h *Handler) HandleDeposit(w http.ResponseWriter, r *http.Request) {
	h.handleOperation(w, r, entity.OperationDeposit)
}

// HandleWithdraw handles POST /api/v1/statements/withdraw
func (h *Handler) HandleWithdraw(w http.ResponseWriter, r *http.Request) {
	h.handleOperation(w, r, entity.OperationWithdraw)
}

func (h *Handler) handleOperation(w http.ResponseWriter, r *http.Request, opType entity.OperationType) {
	ctx := r.Context()

	var req operationRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	statement, err := h.createStatement.Execute(ctx, usecase.CreateStatementRequest{
		UserID:      userIDFrom(ctx),
		Type:        opType,
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		h.respondError(w, r, "Failed to create statement", err)
		return
	}

	writeJSON(w, http.StatusCreated, statement)
	loggerFrom(ctx, h.logger).LogInfo(ctx, "Statement created",
		"statement_id", statement.ID,
		"type", string(statement.Type),
		"amount", statement.Amount.String())
}

// HandleBalance handles GET /api/v1/statements/balance
func (h *Handler) HandleBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.getBalance.Execute(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		h.respondError(w, r, "Failed to get balance", err)
		return
	}

	writeJSON(w, http.StatusOK, balance)
}

// HandleStatement handles GET /api/v1/statements/{statement_id}
func (h *Handler) HandleStatement(w http.ResponseWriter, r *http.Request) {
	statement, err := h.getStatement.Execute(r.Context(), userIDFrom(r.Context()), r.PathValue("statement_id"))
	if err != nil {
		h.respondError(w, r, "Failed to get statement", err)
		return
	}

	writeJSON(w, http.StatusOK, statement)
}

// respondError maps domain errors to status codes. Infrastructure and
// unexpected errors are logged and answered with a generic message.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	ctx := r.Context()
	requestLogger := loggerFrom(ctx, h.logger)

	status := statusFor(err)
	switch status {
	case http.StatusServiceUnavailable:
		requestLogger.LogError(ctx, msg, err)
		writeError(w, status, "Service temporarily unavailable")
	case http.StatusInternalServerError:
		requestLogger.LogError(ctx, msg, err)
		writeError(w, status, "Internal server error")
	default:
		requestLogger.LogWarning(ctx, msg, "error", err.Error(), "status", status)
		writeError(w, status, publicMessage(err))
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrUserNotFound), errors.Is(err, entity.ErrStatementNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrInsufficientFunds),
		errors.Is(err, entity.ErrInvalidEntry),
		errors.Is(err, entity.ErrInvalidUser),
		errors.Is(err, entity.ErrUserAlreadyExists):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrIncorrectCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, entity.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage hides wrapping context for lookups and keeps the field
// details of validation errors
func publicMessage(err error) string {
	for _, known := range []error{
		entity.ErrUserNotFound,
		entity.ErrStatementNotFound,
		entity.ErrInsufficientFunds,
		entity.ErrUserAlreadyExists,
		entity.ErrIncorrectCredentials,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return err.Error()
}

func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		loggerFrom(r.Context(), h.logger).LogWarning(r.Context(), "Failed to parse JSON body", "error", err.Error())
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Status: "error", Message: message})
}

// SetupRoutes sets up all HTTP routes
func (h *Handler) SetupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	public := func(next http.HandlerFunc) http.HandlerFunc {
		return RequestIDMiddleware(LoggingMiddleware(next, h.logger), h.logger)
	}
	private := func(next http.HandlerFunc) http.HandlerFunc {
		return public(AuthMiddleware(next, h.tokens, h.logger))
	}

	mux.HandleFunc("GET /health", public(h.HandleHealth))

	mux.HandleFunc("POST /api/v1/users", public(h.HandleCreateUser))
	mux.HandleFunc("POST /api/v1/sessions", public(h.HandleCreateSession))
	mux.HandleFunc("GET /api/v1/profile", private(h.HandleProfile))

	mux.HandleFunc("POST /api/v1/statements/deposit", private(h.HandleDeposit))
	mux.HandleFunc("POST /api/v1/statements/withdraw", private(h.HandleWithdraw))
	mux.HandleFunc("GET /api/v1/statements/balance", private(h.HandleBalance))
	mux.HandleFunc("GET /api/v1/statements/{statement_id}", private(h.HandleStatement))

	return mux
}
