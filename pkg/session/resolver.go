// Package session resolves the organization, user, department, employee and
// auth token that scope every API request from persisted session state.
package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
)

// Identifier names a session value that can be missing
type Identifier string

const (
	IdentOrganization Identifier = "organization"
	IdentUser         Identifier = "user"
	IdentDepartment   Identifier = "department"
	IdentEmployee     Identifier = "employee"
	IdentAuthToken    Identifier = "auth token"
)

// MissingIdentityError is returned when a required session value is absent.
// Cause is set when the value was present but unreadable (e.g. corrupt userData).
type MissingIdentityError struct {
	Identifier Identifier
	Cause      error
}

func (e *MissingIdentityError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("missing %s in session: %v", e.Identifier, e.Cause)
	}
	return fmt.Sprintf("missing %s in session", e.Identifier)
}

func (e *MissingIdentityError) Unwrap() error {
	return e.Cause
}

// lookup is where an identifier may live: its own key first, then paths inside userData
type lookup struct {
	ident     Identifier
	key       string
	userPaths [][]string
}

var (
	organizationLookup = lookup{IdentOrganization, KeyOrganizationID, [][]string{
		{"organization", "id"}, {"organizationId"}, {"employee", "organization", "id"},
	}}
	userLookup = lookup{IdentUser, KeyUserID, [][]string{
		{"id"}, {"userId"},
	}}
	departmentLookup = lookup{IdentDepartment, KeyDepartmentID, [][]string{
		{"department", "id"}, {"departmentId"}, {"employee", "department", "id"},
	}}
	employeeLookup = lookup{IdentEmployee, "", [][]string{
		{"employee", "id"}, {"employeeId"},
	}}
	authTokenLookup = lookup{IdentAuthToken, KeyAuthToken, [][]string{
		{"token"},
	}}
)

// Resolver reads identifiers from a Store. It never performs network I/O.
type Resolver struct {
	store Store
}

// NewResolver creates a resolver over store
func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

func (r *Resolver) OrganizationID() (string, error) { return r.resolve(organizationLookup) }
func (r *Resolver) UserID() (string, error)         { return r.resolve(userLookup) }
func (r *Resolver) DepartmentID() (string, error)   { return r.resolve(departmentLookup) }
func (r *Resolver) EmployeeID() (string, error)     { return r.resolve(employeeLookup) }
func (r *Resolver) AuthToken() (string, error)      { return r.resolve(authTokenLookup) }

// Snapshot is every identifier that could be resolved, for display
type Snapshot struct {
	OrganizationID string
	UserID         string
	DepartmentID   string
	EmployeeID     string
	HasAuthToken   bool
}

// Snapshot resolves all identifiers, leaving missing ones empty
func (r *Resolver) Snapshot() Snapshot {
	var s Snapshot
	s.OrganizationID, _ = r.OrganizationID()
	s.UserID, _ = r.UserID()
	s.DepartmentID, _ = r.DepartmentID()
	s.EmployeeID, _ = r.EmployeeID()
	token, _ := r.AuthToken()
	s.HasAuthToken = token != ""
	return s
}

// TokenSource exposes the session auth token to an oauth2.Transport.
// The token is re-read from the store on every request.
func (r *Resolver) TokenSource() oauth2.TokenSource {
	return resolverTokenSource{r: r}
}

type resolverTokenSource struct {
	r *Resolver
}

func (s resolverTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.r.AuthToken()
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{AccessToken: token, TokenType: "Bearer"}, nil
}

func (r *Resolver) resolve(l lookup) (string, error) {
	if l.key != "" {
		v, ok, err := r.store.Get(l.key)
		if err != nil {
			return "", fmt.Errorf("failed to read %s from session: %w", l.key, err)
		}
		if ok && isPresent(v) {
			return strings.TrimSpace(v), nil
		}
	}

	raw, ok, err := r.store.Get(KeyUserData)
	if err != nil {
		return "", fmt.Errorf("failed to read %s from session: %w", KeyUserData, err)
	}
	if !ok || !isPresent(raw) {
		return "", &MissingIdentityError{Identifier: l.ident}
	}

	userData, err := decodeUserData(raw)
	if err != nil {
		return "", &MissingIdentityError{Identifier: l.ident, Cause: err}
	}

	for _, path := range l.userPaths {
		if v, ok := lookupPath(userData, path); ok {
			return v, nil
		}
	}
	return "", &MissingIdentityError{Identifier: l.ident}
}

// isPresent treats blanks and the strings browsers store for unset values as absent
func isPresent(v string) bool {
	switch strings.TrimSpace(v) {
	case "", "null", "undefined":
		return false
	}
	return true
}

func decodeUserData(raw string) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()

	var userData map[string]any
	if err := dec.Decode(&userData); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", KeyUserData, err)
	}
	return userData, nil
}

// lookupPath walks nested objects and returns a string or numeric leaf as a string
func lookupPath(data map[string]any, path []string) (string, bool) {
	var current any = data
	for _, key := range path {
		obj, ok := current.(map[string]any)
		if !ok {
			return "", false
		}
		current, ok = obj[key]
		if !ok {
			return "", false
		}
	}

	switch v := current.(type) {
	case string:
		if isPresent(v) {
			return strings.TrimSpace(v), true
		}
	case json.Number:
		return v.String(), true
	}
	return "", false
}
