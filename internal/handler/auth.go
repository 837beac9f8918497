package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/qs-lzh/concert-storefront/internal/api"
	"github.com/qs-lzh/concert-storefront/internal/model"
	"github.com/qs-lzh/concert-storefront/internal/service/domain"
)

type loginForm struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
}

type registerForm struct {
	Email       string `form:"email" binding:"required,email"`
	Password    string `form:"password" binding:"required,min=6"`
	FirstName   string `form:"first_name" binding:"required"`
	LastName    string `form:"last_name" binding:"required"`
	Role        string `form:"role" binding:"omitempty,oneof=USER ORGANIZER"`
	CompanyName string `form:"company_name"`
}

func (h *Handler) LoginForm(ctx *gin.Context) {
	if currentSession(ctx).Authenticated() {
		ctx.Redirect(http.StatusFound, "/")
		return
	}
	h.render(ctx, http.StatusOK, "login.tmpl", "Log in", gin.H{"Form": loginForm{}})
}

func (h *Handler) Login(ctx *gin.Context) {
	var form loginForm
	if err := ctx.ShouldBind(&form); err != nil {
		h.render(ctx, errorStatus(err), "login.tmpl", "Log in", gin.H{"Form": form, "Error": errorMessage(err, "")})
		return
	}

	// a fresh id so a cookie planted before login never becomes authenticated
	sid := uuid.NewString()
	identity, err := h.app.SessionWorkflow.Login(ctx.Request.Context(), sid, form.Email, form.Password)
	if err != nil {
		status := http.StatusUnauthorized
		msg := "Email or password is incorrect."
		if !errors.Is(err, domain.ErrAuthentication) {
			h.app.Logger.Warn("login failed", zap.Error(err))
			status = errorStatus(err)
			msg = errorMessage(err, "Login failed. Please try again.")
		} else if backendMsg, ok := api.BackendMessage(err); ok {
			msg = backendMsg
		}
		form.Password = ""
		h.render(ctx, status, "login.tmpl", "Log in", gin.H{"Form": form, "Error": msg})
		return
	}

	if err := h.app.SessionService.Logout(ctx.Request.Context(), currentSession(ctx).ID); err != nil {
		h.app.Logger.Warn("failed to clear previous session", zap.Error(err))
	}
	h.setSessionCookie(ctx, sid, int(h.app.Config.SessionTTL.Seconds()))
	h.app.Logger.Debug("session established", zap.Uint("user_id", identity.ID))
	redirectWithNotice(ctx, "/", "welcome")
}

func (h *Handler) RegisterForm(ctx *gin.Context) {
	h.render(ctx, http.StatusOK, "register.tmpl", "Register", gin.H{"Form": registerForm{Role: string(model.RoleUser)}})
}

func (h *Handler) Register(ctx *gin.Context) {
	var form registerForm
	if err := ctx.ShouldBind(&form); err != nil {
		form.Password = ""
		h.render(ctx, errorStatus(err), "register.tmpl", "Register", gin.H{"Form": form, "Error": errorMessage(err, "")})
		return
	}

	err := h.app.SessionWorkflow.Register(ctx.Request.Context(), api.RegisterRequest{
		Email:       form.Email,
		Password:    form.Password,
		FirstName:   form.FirstName,
		LastName:    form.LastName,
		Role:        model.Role(form.Role),
		CompanyName: form.CompanyName,
	})
	if err != nil {
		form.Password = ""
		h.render(ctx, errorStatus(err), "register.tmpl", "Register", gin.H{
			"Form":  form,
			"Error": errorMessage(err, "Registration failed. Please try again."),
		})
		return
	}
	redirectWithNotice(ctx, "/login", "registered")
}

// Logout clears the stored session, expires the cookie and sends the browser
// to the login page.
func (h *Handler) Logout(ctx *gin.Context) {
	if err := h.app.SessionWorkflow.Logout(ctx.Request.Context(), currentSession(ctx)); err != nil {
		h.app.Logger.Error("failed to clear session", zap.Error(err))
	}
	h.setSessionCookie(ctx, "", -1)
	redirectWithNotice(ctx, "/login", "logged_out")
}
