package oidc

import "strings"

const TicketInvalidMessage = "ticket is not valid"

// TicketValidation is the result of a CAS 1.0 ticket validation.
type TicketValidation struct {
	Valid    bool   `json:"valid"`
	Username string `json:"username,omitempty"`
	Message  string `json:"message,omitempty"`
}

// ParseTicketValidation reads the two line CAS 1.0 response:
// `yes` or `no`, optionally followed by the username.
func ParseTicketValidation(body string) *TicketValidation {
	lines := strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n")
	if strings.TrimSpace(lines[0]) != "yes" {
		return &TicketValidation{Message: TicketInvalidMessage}
	}
	v := &TicketValidation{Valid: true}
	if len(lines) > 1 {
		v.Username = strings.TrimSpace(lines[1])
	}
	return v
}

// ServiceValidation is the JSON response of a CAS 2.0 `serviceValidate` call.
// Authentication success and failure are mutually exclusive.
type ServiceValidation struct {
	ServiceResponse struct {
		AuthenticationSuccess *struct {
			User       string         `json:"user"`
			Attributes map[string]any `json:"attributes,omitempty"`
		} `json:"authenticationSuccess,omitempty"`
		AuthenticationFailure *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"authenticationFailure,omitempty"`
	} `json:"serviceResponse"`
}

// Valid reports whether the ticket was accepted.
func (s *ServiceValidation) Valid() bool {
	return s.ServiceResponse.AuthenticationSuccess != nil
}
