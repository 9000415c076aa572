package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ssarthaks/gym-webapp/internal/dto"
	obsmw "github.com/ssarthaks/gym-webapp/internal/observability/middleware"
	"github.com/ssarthaks/gym-webapp/internal/service"
)

type handler struct {
	auth  service.AuthService
	users service.UserService
}

func NewRouter(auth service.AuthService, users service.UserService, authn Authenticator) *chi.Mux {
	h := &handler{auth: auth, users: users}

	r := chi.NewRouter()
	r.Use(obsmw.WithRequestAndTrace)
	r.Use(obsmw.WithMetrics)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/login", h.login)
		r.Post("/verify-email", h.verifyEmail)
		r.Post("/verify-account", h.verifyAccount)
		r.Post("/send-password-reset", h.sendPasswordReset)
		r.Post("/send-password-reset-code", h.sendPasswordResetCode)
		r.Post("/verify-password-reset-token", h.verifyResetToken)
		r.Post("/reset-password", h.resetPassword)

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth(authn))
			r.Post("/change-password", h.changePassword)
			r.Put("/update-profile", h.updateProfile)
			r.Post("/send-verification", h.sendVerification)
			r.Delete("/delete-account", h.deleteAccount)
			r.Get("/profile", h.profile)
		})
	})

	r.Route("/api/users", func(r chi.Router) {
		r.Use(RequireAuth(authn))
		r.With(RequireAdmin).Get("/", h.listUsers)
		r.With(RequireAdmin).Get("/stats", h.userStats)
		r.Get("/{id}", h.getUser)
		r.Put("/{id}", h.updateUser)
		r.Delete("/{id}", h.deleteUser)
	})

	return r
}

func (h *handler) register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.auth.Register(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.auth.Login(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handler) verifyEmail(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyEmailRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.auth.VerifyEmailCode(r.Context(), req); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Email verified successfully!")
}

func (h *handler) verifyAccount(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyAccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.auth.VerifyAccount(r.Context(), req.Token); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Email verified successfully! Your account is now active.")
}

func (h *handler) sendPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req dto.SendPasswordResetRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.auth.SendPasswordReset(r.Context(), req.Email); err != nil {
		writeError(w, r, err)
		return
	}
	// Same response whether or not the account exists.
	writeMessage(w, http.StatusOK, "If an account with this email exists, a password reset link has been sent.")
}

func (h *handler) sendPasswordResetCode(w http.ResponseWriter, r *http.Request) {
	var req dto.SendPasswordResetRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.auth.SendPasswordResetCode(r.Context(), req.Email); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "If an account with this email exists, a password reset code has been sent.")
}

func (h *handler) verifyResetToken(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyResetTokenRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	email, err := h.auth.VerifyResetToken(r.Context(), req.Token)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.VerifyResetTokenResponse{
		Message: "Reset token is valid.",
		Email:   email,
	})
}

func (h *handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ResetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.auth.ResetPassword(r.Context(), req); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Password reset successfully.")
}

func (h *handler) changePassword(w http.ResponseWriter, r *http.Request) {
	ident, _ := IdentityFromContext(r.Context())
	var req dto.ChangePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.auth.ChangePassword(r.Context(), ident, req); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Password changed successfully.")
}

func (h *handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	ident, _ := IdentityFromContext(r.Context())
	var req dto.UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := h.auth.UpdateProfile(r.Context(), ident, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Profile updated successfully.",
		"user":    user,
	})
}

func (h *handler) sendVerification(w http.ResponseWriter, r *http.Request) {
	ident, _ := IdentityFromContext(r.Context())
	if err := h.auth.SendEmailVerification(r.Context(), ident); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Verification code sent. Please check your inbox.")
}

func (h *handler) deleteAccount(w http.ResponseWriter, r *http.Request) {
	ident, _ := IdentityFromContext(r.Context())
	if err := h.auth.DeleteAccount(r.Context(), ident); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Account deleted successfully.")
}

func (h *handler) profile(w http.ResponseWriter, r *http.Request) {
	ident, _ := IdentityFromContext(r.Context())
	user, err := h.auth.GetProfile(r.Context(), ident)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (h *handler) listUsers(w http.ResponseWriter, r *http.Request) {
	q := dto.ListUsersQuery{
		Search:      r.URL.Query().Get("search"),
		AccountType: r.URL.Query().Get("accountType"),
	}
	q.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	q.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))

	res, err := h.users.List(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handler) userStats(w http.ResponseWriter, r *http.Request) {
	res, err := h.users.Stats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func pathID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func (h *handler) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "invalid user id")
		return
	}
	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (h *handler) updateUser(w http.ResponseWriter, r *http.Request) {
	ident, _ := IdentityFromContext(r.Context())
	id, ok := pathID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "invalid user id")
		return
	}
	var req dto.AdminUpdateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := h.users.Update(r.Context(), ident, id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "User updated successfully",
		"user":    user,
	})
}

func (h *handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	ident, _ := IdentityFromContext(r.Context())
	id, ok := pathID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "invalid user id")
		return
	}
	if err := h.users.Delete(r.Context(), ident, id); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "User deleted successfully")
}
