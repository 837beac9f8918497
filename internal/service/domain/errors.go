package domain

import "errors"

var (
	ErrAuthentication        = errors.New("email or password is incorrect")
	ErrCompanyNameRequired   = errors.New("organizers must provide a company name")
	ErrPasswordMismatch      = errors.New("new passwords do not match")
	ErrPasswordTooShort      = errors.New("password must be at least 6 characters")
	ErrNotAuthenticated      = errors.New("no active session")
	ErrTicketNotSelected     = errors.New("select a ticket type first")
	ErrTicketUnavailable     = errors.New("ticket type is sold out or does not exist")
	ErrInvalidQuantity       = errors.New("quantity must be between 1 and 10")
	ErrInsufficientRemaining = errors.New("not enough tickets remaining")
	ErrAlreadySubmitting     = errors.New("purchase is already being submitted")
	ErrConfirmationRequired  = errors.New("deletion must be confirmed")
	ErrTicketTypeHasSales    = errors.New("ticket type has sales and cannot be deleted")
	ErrTotalBelowSold        = errors.New("total quantity cannot be lower than tickets already sold")
	ErrPanelUnsupported      = errors.New("operation not supported by this panel")
)
