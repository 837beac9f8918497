package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qs-lzh/concert-storefront/internal/model"
	"github.com/qs-lzh/concert-storefront/internal/monitoring"
)

type Decision int

const (
	Admit Decision = iota
	RedirectLogin
	RedirectHome
)

func (d Decision) String() string {
	switch d {
	case Admit:
		return "admit"
	case RedirectLogin:
		return "redirect_login"
	case RedirectHome:
		return "redirect_home"
	}
	return "unknown"
}

// Decide gates one navigation. An empty required role only asks for an identity.
// The requested path is not remembered for after login.
func Decide(identity *model.Identity, required model.Role) Decision {
	if identity == nil {
		return RedirectLogin
	}
	if required != "" && !model.MeetsRole(identity.Role, required) {
		return RedirectHome
	}
	return Admit
}

// RequireRole re-evaluates the gate on every request.
func RequireRole(required model.Role) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		decision := Decide(currentSession(ctx).Identity, required)
		monitoring.TrackGateDecision(decision.String())
		switch decision {
		case RedirectLogin:
			ctx.Redirect(http.StatusFound, "/login")
			ctx.Abort()
		case RedirectHome:
			ctx.Redirect(http.StatusFound, "/")
			ctx.Abort()
		default:
			ctx.Next()
		}
	}
}

func RequireIdentity() gin.HandlerFunc {
	return RequireRole("")
}
