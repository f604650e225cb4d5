// Package registry implements the client for the upstream education
// registry, a GraphQL API protected by OAuth2 client credentials. It fetches
// the school list and the full enrollment tree per school.
package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2/clientcredentials"
)

const defaultTimeout = 30 * time.Second

// Config holds the registry endpoint and OAuth2 client-credentials settings.
type Config struct {
	// BaseURL is the GraphQL endpoint of the registry.
	BaseURL string `toml:"baseUrl"`
	// TokenURL is the OAuth2 token endpoint.
	TokenURL string `toml:"tokenUrl"`
	// ClientID is the OAuth2 client id.
	ClientID string `toml:"clientId"`
	// ClientSecret is the OAuth2 client secret.
	ClientSecret string `toml:"clientSecret"`
	// Scopes are the OAuth2 scopes to request.
	Scopes []string `toml:"scopes"`
	// Timeout is the per-request timeout in seconds.
	Timeout int `toml:"timeout"`
}

// Client talks to the upstream registry.
type Client struct {
	baseURL string
	httpc   *http.Client
	timeout time.Duration
}

// New creates a registry client. The returned client owns an OAuth2 token
// source that refreshes itself as tokens expire.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, ErrBaseURLNotConfigured
	}

	if cfg.TokenURL == "" || cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, ErrCredentialsNotConfigured
	}

	timeout := defaultTimeout
	if cfg.Timeout > 0 {
		timeout = time.Duration(cfg.Timeout) * time.Second
	}

	creds := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		Scopes:       cfg.Scopes,
	}

	return &Client{
		baseURL: cfg.BaseURL,
		httpc:   creds.Client(context.Background()),
		timeout: timeout,
	}, nil
}

const schoolListQuery = `query Schools {
  schools {
    name
    schoolNumber { value }
  }
}`

const schoolWithStudentsQuery = `query SchoolWithStudents($schoolNumber: String!) {
  school(schoolNumber: $schoolNumber) {
    name
    schoolNumber { value }
    enrollments {
      systemId { value }
      mainSchool
      period { start end }
      student {
        systemId { value }
        feideName { value }
        studentNumber { value }
        person {
          ssn { value }
          name { first middle last }
        }
      }
      classMemberships {
        systemId { value }
        period { start end }
        class {
          systemId { value }
          name
          teachingAssignments {
            systemId { value }
            resource {
              systemId { value }
              feideName { value }
              person { name { first middle last } }
            }
          }
        }
      }
      teachingGroupMemberships {
        systemId { value }
        period { start end }
        teachingGroup {
          systemId { value }
          name
          teachingAssignments {
            systemId { value }
            resource {
              systemId { value }
              feideName { value }
              person { name { first middle last } }
            }
          }
        }
      }
      contactTeacherGroupMemberships {
        systemId { value }
        period { start end }
        contactTeacherGroup {
          systemId { value }
          name
          teachingAssignments {
            systemId { value }
            resource {
              systemId { value }
              feideName { value }
              person { name { first middle last } }
            }
          }
        }
      }
    }
  }
}`

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors"`
}

// query posts a GraphQL request and decodes the data payload into out.
func (c *Client) query(ctx context.Context, query string, variables map[string]any, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return errors.Wrap(err, "failed to encode registry query")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "failed to build registry request")
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return errors.Wrap(err, "registry request failed")
	}

	defer func() {
		if errClose := resp.Body.Close(); errClose != nil {
			log.Error().Err(errClose).Msg("failed to close registry response body")
		}
	}()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read registry response")
	}

	if resp.StatusCode != http.StatusOK {
		return errors.Wrapf(ErrUnexpectedStatus, "registry returned %d", resp.StatusCode)
	}

	var gr graphqlResponse
	if err = json.Unmarshal(payload, &gr); err != nil {
		return errors.Wrap(err, "failed to decode registry response")
	}

	if len(gr.Errors) > 0 {
		return errors.Wrapf(ErrQueryFailed, "registry query error: %s", gr.Errors[0].Message)
	}

	if err = json.Unmarshal(gr.Data, out); err != nil {
		return errors.Wrap(err, "failed to decode registry data")
	}

	return nil
}

// GetSchools fetches the short school list.
func (c *Client) GetSchools(ctx context.Context) ([]SchoolInfo, error) {
	var data struct {
		Schools []SchoolInfo `json:"schools"`
	}

	if err := c.query(ctx, schoolListQuery, nil, &data); err != nil {
		return nil, err
	}

	log.Info().Int("school_count", len(data.Schools)).Msg("fetched school list from registry")

	return data.Schools, nil
}

// GetSchoolWithStudents fetches one school's full enrollment tree.
func (c *Client) GetSchoolWithStudents(ctx context.Context, schoolNumber string) (SchoolWithStudents, error) {
	var data SchoolWithStudents

	variables := map[string]any{"schoolNumber": schoolNumber}
	if err := c.query(ctx, schoolWithStudentsQuery, variables, &data); err != nil {
		return SchoolWithStudents{}, fmt.Errorf("failed to fetch school %s: %w", schoolNumber, err)
	}

	return data, nil
}
