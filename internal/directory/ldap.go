// Package directory implements the identity-directory client. It fetches the
// flat member list from an LDAP directory with a paged subtree search and
// maps entries to Members via configurable attribute names.
package directory

import (
	"crypto/tls"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/go-ldap/ldap/v3"
	"github.com/rs/zerolog/log"
)

const defaultPageSize = 500

// Config holds LDAP connection and attribute-mapping settings.
type Config struct {
	// Host is the LDAP server hostname or IP address.
	Host string `toml:"host"`
	// Port is the LDAP server port (typically 389 for LDAP, 636 for LDAPS).
	Port int `toml:"port"`
	// UseSSL enables LDAPS.
	UseSSL bool `toml:"useSsl"`
	// UseTLS enables StartTLS to upgrade the connection.
	UseTLS bool `toml:"useTls"`
	// SkipVerify skips TLS certificate verification (for testing only).
	SkipVerify bool `toml:"skipVerify"`
	// BindDN is the distinguished name to bind with for searches.
	BindDN string `toml:"bindDn"`
	// BindPassword is the password for the bind DN.
	BindPassword string `toml:"bindPassword"`
	// BaseDN is the base distinguished name for member searches.
	BaseDN string `toml:"baseDn"`
	// MemberFilter selects the entries that count as application members,
	// e.g. "(&(objectClass=user)(memberOf=cn=app-users,...))".
	MemberFilter string `toml:"memberFilter"`
	// IDAttr is the attribute holding the directory object identifier.
	IDAttr string `toml:"idAttr"`
	// DisplayNameAttr is the attribute holding the display name.
	DisplayNameAttr string `toml:"displayNameAttr"`
	// CompanyAttr is the attribute holding the company name.
	CompanyAttr string `toml:"companyAttr"`
	// DepartmentAttr is the attribute holding the department.
	DepartmentAttr string `toml:"departmentAttr"`
	// PrincipalNameAttr is the attribute holding the user principal name.
	PrincipalNameAttr string `toml:"principalNameAttr"`
	// AccountNameAttr is the attribute holding the short account name.
	AccountNameAttr string `toml:"accountNameAttr"`
	// AccountControlAttr is the attribute holding the account-control flags
	// used to derive the enabled state.
	AccountControlAttr string `toml:"accountControlAttr"`
	// PageSize is the paged-search page size.
	PageSize int `toml:"pageSize"`
	// Timeout is the connection timeout in seconds.
	Timeout int `toml:"timeout"`
}

// Client fetches directory members over LDAP.
type Client struct {
	config *Config
}

// New creates a directory client and fills in attribute defaults.
func New(config *Config) (*Client, error) {
	if config.Host == "" {
		return nil, ErrHostNotConfigured
	}

	if config.BaseDN == "" {
		return nil, ErrBaseDNNotConfigured
	}

	if config.MemberFilter == "" {
		config.MemberFilter = "(objectClass=user)"
	}

	if config.IDAttr == "" {
		config.IDAttr = "objectGUID"
	}

	if config.DisplayNameAttr == "" {
		config.DisplayNameAttr = "displayName"
	}

	if config.CompanyAttr == "" {
		config.CompanyAttr = "company"
	}

	if config.DepartmentAttr == "" {
		config.DepartmentAttr = "department"
	}

	if config.PrincipalNameAttr == "" {
		config.PrincipalNameAttr = "userPrincipalName"
	}

	if config.AccountNameAttr == "" {
		config.AccountNameAttr = "sAMAccountName"
	}

	if config.AccountControlAttr == "" {
		config.AccountControlAttr = "userAccountControl"
	}

	if config.PageSize == 0 {
		config.PageSize = defaultPageSize
	}

	if config.Timeout == 0 {
		config.Timeout = 10
	}

	return &Client{config: config}, nil
}

// Connect establishes a connection to the LDAP server.
func (c *Client) Connect() (*ldap.Conn, error) {
	hostPort := net.JoinHostPort(c.config.Host, strconv.Itoa(c.config.Port))

	var ldapURL string
	if c.config.UseSSL {
		ldapURL = "ldaps://" + hostPort
	} else {
		ldapURL = "ldap://" + hostPort
	}

	var tlsConfig *tls.Config
	if c.config.UseSSL || c.config.UseTLS {
		tlsConfig = &tls.Config{
			InsecureSkipVerify: c.config.SkipVerify, //nolint:gosec // skipping verifying tls is ok
			ServerName:         c.config.Host,
		}
	}

	conn, err := ldap.DialURL(ldapURL, ldap.DialWithTLSConfig(tlsConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to LDAP server: %w", err)
	}

	if !c.config.UseSSL && c.config.UseTLS {
		if errStartTLS := conn.StartTLS(tlsConfig); errStartTLS != nil {
			if errClose := conn.Close(); errClose != nil {
				log.Error().Err(errClose).Msg("failed to close LDAP connection")
			}

			return nil, fmt.Errorf("failed to start TLS: %w", errStartTLS)
		}
	}

	if c.config.Timeout > 0 {
		conn.SetTimeout(time.Duration(c.config.Timeout) * time.Second)
	}

	return conn, nil
}

// FetchMembers retrieves the full directory member list.
func (c *Client) FetchMembers() ([]Member, error) {
	conn, err := c.Connect()
	if err != nil {
		return nil, err
	}

	defer func() {
		if errClose := conn.Close(); errClose != nil {
			log.Warn().Err(errClose).Msg("failed to close LDAP connection")
		}
	}()

	if c.config.BindDN != "" {
		if errBind := conn.Bind(c.config.BindDN, c.config.BindPassword); errBind != nil {
			return nil, fmt.Errorf("failed to bind with service account: %w", errBind)
		}
	}

	searchRequest := ldap.NewSearchRequest(
		c.config.BaseDN,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		0, // Size limit
		c.config.Timeout,
		false,
		c.config.MemberFilter,
		[]string{
			c.config.IDAttr,
			c.config.DisplayNameAttr,
			c.config.CompanyAttr,
			c.config.DepartmentAttr,
			c.config.PrincipalNameAttr,
			c.config.AccountNameAttr,
			c.config.AccountControlAttr,
		},
		nil,
	)

	searchResult, err := conn.SearchWithPaging(searchRequest, uint32(c.config.PageSize)) //nolint:gosec // page size is a small positive config value
	if err != nil {
		return nil, fmt.Errorf("failed to search for members: %w", err)
	}

	members := make([]Member, 0, len(searchResult.Entries))
	for _, entry := range searchResult.Entries {
		members = append(members, mapEntry(entry, c.config))
	}

	log.Info().Int("member_count", len(members)).Msg("fetched members from directory")

	return members, nil
}
