package directory

import (
	"strconv"

	"github.com/go-ldap/ldap/v3"
)

// accountDisabledBit is the userAccountControl flag marking a disabled account.
const accountDisabledBit = 0x2

// Member is one entry from the identity directory's membership list.
// The validate tags mirror the attributes the sync requires before it will
// create an application user from a member.
type Member struct {
	// ID is the directory object identifier.
	ID string `validate:"required"`
	// Enabled is the directory's account-enabled flag.
	Enabled bool
	// DisplayName is the member's display name.
	DisplayName string `validate:"required"`
	// Company is the member's company attribute.
	Company string `validate:"required"`
	// Department is the member's department attribute. Optional.
	Department string
	// PrincipalName is the member's user principal name.
	PrincipalName string `validate:"required"`
	// AccountName is the short account name the federated username is
	// derived from.
	AccountName string `validate:"required"`
}

// mapEntry maps an LDAP entry to a Member using the configured attribute
// names. An absent account-control attribute leaves the member enabled.
func mapEntry(entry *ldap.Entry, cfg *Config) Member {
	member := Member{
		ID:            entry.GetAttributeValue(cfg.IDAttr),
		Enabled:       true,
		DisplayName:   entry.GetAttributeValue(cfg.DisplayNameAttr),
		Company:       entry.GetAttributeValue(cfg.CompanyAttr),
		Department:    entry.GetAttributeValue(cfg.DepartmentAttr),
		PrincipalName: entry.GetAttributeValue(cfg.PrincipalNameAttr),
		AccountName:   entry.GetAttributeValue(cfg.AccountNameAttr),
	}

	if raw := entry.GetAttributeValue(cfg.AccountControlAttr); raw != "" {
		if control, err := strconv.ParseUint(raw, 10, 32); err == nil {
			member.Enabled = control&accountDisabledBit == 0
		}
	}

	return member
}
