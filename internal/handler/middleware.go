package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/qs-lzh/concert-storefront/internal/service/domain"
)

const (
	SessionCookie     = "sid"
	sessionContextKey = "session"
)

// RequestLogger logs one line per request.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		fields := []zap.Field{
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.Request.URL.Path),
			zap.Int("status", ctx.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(ctx.Errors) > 0 {
			fields = append(fields, zap.String("errors", ctx.Errors.String()))
		}
		switch {
		case ctx.Writer.Status() >= http.StatusInternalServerError:
			logger.Error("request", fields...)
		default:
			logger.Info("request", fields...)
		}
	}
}

// Recovery turns a panic into a 500 and logs it.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(ctx *gin.Context, err any) {
		logger.Error("panic recovered", zap.Any("error", err), zap.String("path", ctx.Request.URL.Path))
		ctx.AbortWithStatus(http.StatusInternalServerError)
	})
}

// Sessions resolves the browser's session id, issuing one when absent, and
// restores the session from storage for the rest of the chain.
func (h *Handler) Sessions() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		sid, err := ctx.Cookie(SessionCookie)
		if err != nil || uuid.Validate(sid) != nil {
			sid = uuid.NewString()
			h.setSessionCookie(ctx, sid, int(h.app.Config.SessionTTL.Seconds()))
		}

		session, err := h.app.SessionService.Initialize(ctx.Request.Context(), sid)
		if err != nil {
			h.app.Logger.Warn("failed to restore session", zap.String("sid", sid), zap.Error(err))
			session = domain.Session{ID: sid}
		}
		ctx.Set(sessionContextKey, session)
		ctx.Next()
	}
}

func (h *Handler) setSessionCookie(ctx *gin.Context, sid string, maxAge int) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(SessionCookie, sid, maxAge, "/", "", h.app.Config.CookieSecure, true)
}

func currentSession(ctx *gin.Context) domain.Session {
	if v, ok := ctx.Get(sessionContextKey); ok {
		if s, ok := v.(domain.Session); ok {
			return s
		}
	}
	return domain.Session{}
}
