package handler

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/qs-lzh/concert-storefront/internal/api"
	"github.com/qs-lzh/concert-storefront/internal/model"
	"github.com/qs-lzh/concert-storefront/internal/service/domain"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

const (
	genericError = "Something went wrong. Please try again."
	dateLayout   = "02 Jan 2006 15:04"
)

var notices = map[string]string{
	"login_required":    "Please log in before buying tickets.",
	"logged_out":        "You have been logged out.",
	"registered":        "Registration complete. Please log in.",
	"welcome":           "Welcome back!",
	"event_not_found":   "The event you were looking for does not exist.",
	"order_not_found":   "Order not found.",
	"event_created":     "Event created.",
	"event_updated":     "Event updated.",
	"event_deleted":     "Event deleted.",
	"user_updated":      "User updated.",
	"user_deleted":      "User deleted.",
	"organizer_saved":   "Organizer saved.",
	"organizer_deleted": "Organizer deleted.",
	"ticket_saved":      "Ticket type saved.",
	"ticket_deleted":    "Ticket type deleted.",
	"profile_updated":   "Profile updated.",
	"password_changed":  "Password changed.",
	"slip_uploaded":     "Slip uploaded. Waiting for verification.",
	"payment_confirmed": "Payment confirmed.",
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"can": func(identity *model.Identity, required string) bool {
			return identity != nil && model.MeetsRole(identity.Role, model.Role(required))
		},
		"money": func(d decimal.Decimal) string {
			return d.StringFixed(2)
		},
		"date": func(ts model.Timestamp) string {
			if ts.IsZero() {
				return "-"
			}
			return ts.Local().Format(dateLayout)
		},
		"id": model.FormatID,
		"safeURL": func(s string) template.URL {
			return template.URL(s)
		},
		"pageLink": func(base string, page int, extra url.Values) string {
			v := url.Values{}
			for k, vs := range extra {
				v[k] = vs
			}
			v.Set("page", strconv.Itoa(page))
			return base + "?" + v.Encode()
		},
		"add": func(a, b int) int { return a + b },
	}
}

func loadTemplates() (*template.Template, error) {
	return template.New("").Funcs(templateFuncs()).ParseFS(templatesFS, "templates/*.tmpl")
}

// render fills the keys every page uses: the session, the notice and the title.
func (h *Handler) render(ctx *gin.Context, status int, name, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	session := currentSession(ctx)
	data["Title"] = title
	data["Session"] = session
	data["Identity"] = session.Identity
	if _, ok := data["Notice"]; !ok {
		data["Notice"] = notices[ctx.Query("notice")]
	}
	ctx.HTML(status, name, data)
}

func redirectWithNotice(ctx *gin.Context, path, notice string) {
	ctx.Redirect(http.StatusFound, path+"?notice="+url.QueryEscape(notice))
}

func (h *Handler) notFound(ctx *gin.Context) {
	h.render(ctx, http.StatusNotFound, "not_found.tmpl", "Page not found", nil)
}

// errorMessage picks what the user sees for err: the backend's own message
// when it sent one, then local validation text, then fallback.
func errorMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if msg, ok := api.BackendMessage(err); ok {
		return msg
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return validationMessage(verrs)
	}
	if isDomainError(err) {
		return err.Error()
	}
	if fallback == "" {
		return genericError
	}
	return fallback
}

var domainErrors = []error{
	domain.ErrAuthentication,
	domain.ErrCompanyNameRequired,
	domain.ErrPasswordMismatch,
	domain.ErrPasswordTooShort,
	domain.ErrTicketNotSelected,
	domain.ErrTicketUnavailable,
	domain.ErrInvalidQuantity,
	domain.ErrInsufficientRemaining,
	domain.ErrAlreadySubmitting,
	domain.ErrConfirmationRequired,
	domain.ErrTicketTypeHasSales,
	domain.ErrTotalBelowSold,
	domain.ErrSlipMissing,
	domain.ErrSlipNotImage,
	domain.ErrSlipTooLarge,
	domain.ErrOrderNotPending,
	domain.ErrAdminOnly,
	domain.ErrPanelUnsupported,
	errFormInvalid,
}

func isDomainError(err error) bool {
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// errorStatus maps err onto the status a re-rendered form is served with.
func errorStatus(err error) int {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs), isDomainError(err):
		return http.StatusUnprocessableEntity
	case api.IsTransport(err):
		return http.StatusBadGateway
	}
	if code := api.StatusCode(err); code >= 400 && code < 500 {
		return code
	}
	return http.StatusBadGateway
}

func validationMessage(verrs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return strings.Join(msgs, " ")
}

func fieldMessage(fe validator.FieldError) string {
	field := humanize(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required."
	case "email":
		return field + " must be a valid email address."
	case "min":
		return fmt.Sprintf("%s must be at least %s.", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s.", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be %s or more.", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be %s or less.", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s.", field, fe.Param())
	case "eqfield":
		return field + " does not match."
	}
	return field + " is invalid."
}

// humanize turns a Go field name like CompanyName into "Company name".
func humanize(name string) string {
	var b strings.Builder
	for i, r := range name {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte(' ')
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

var errFormInvalid = errors.New("form is incomplete")

func parseID(ctx *gin.Context) (uint, bool) {
	n, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

func queryInt(ctx *gin.Context, key string) int {
	n, _ := strconv.Atoi(ctx.Query(key))
	return n
}
