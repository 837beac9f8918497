package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qs-lzh/concert-storefront/internal/service/domain"
)

type profileForm struct {
	Name  string `form:"name" binding:"required"`
	Email string `form:"email" binding:"required,email"`
}

type passwordForm struct {
	CurrentPassword string `form:"current_password" binding:"required"`
	NewPassword     string `form:"new_password" binding:"required"`
	ConfirmPassword string `form:"confirm_password" binding:"required"`
}

func (h *Handler) Profile(ctx *gin.Context) {
	identity := currentSession(ctx).Identity
	h.renderProfile(ctx, http.StatusOK, profileForm{Name: identity.Name, Email: identity.Email}, "", "")
}

func (h *Handler) UpdateProfile(ctx *gin.Context) {
	var form profileForm
	if err := ctx.ShouldBind(&form); err != nil {
		h.renderProfile(ctx, errorStatus(err), form, errorMessage(err, ""), "")
		return
	}
	if _, err := h.app.SessionService.UpdateProfile(ctx.Request.Context(), currentSession(ctx), form.Name, form.Email); err != nil {
		h.renderProfile(ctx, errorStatus(err), form, errorMessage(err, "Could not update your profile."), "")
		return
	}
	redirectWithNotice(ctx, "/profile", "profile_updated")
}

func (h *Handler) ChangePassword(ctx *gin.Context) {
	identity := currentSession(ctx).Identity
	profile := profileForm{Name: identity.Name, Email: identity.Email}

	var form passwordForm
	if err := ctx.ShouldBind(&form); err != nil {
		h.renderProfile(ctx, errorStatus(err), profile, "", errorMessage(err, ""))
		return
	}
	err := h.app.SessionService.ChangePassword(ctx.Request.Context(), currentSession(ctx), domain.ChangePasswordInput{
		CurrentPassword: form.CurrentPassword,
		NewPassword:     form.NewPassword,
		ConfirmPassword: form.ConfirmPassword,
	})
	if err != nil {
		h.renderProfile(ctx, errorStatus(err), profile, "", errorMessage(err, "Could not change your password."))
		return
	}
	redirectWithNotice(ctx, "/profile", "password_changed")
}

func (h *Handler) renderProfile(ctx *gin.Context, status int, form profileForm, profileErr, passwordErr string) {
	h.render(ctx, status, "profile.tmpl", "Profile", gin.H{
		"Form":          form,
		"ProfileError":  profileErr,
		"PasswordError": passwordErr,
		"MinPassword":   domain.MinPasswordLength,
	})
}
