package management

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	httphelper "github.com/authing/authing-go-sdk/v3/pkg/http"
	"github.com/authing/authing-go-sdk/v3/pkg/oidc"
)

const DefaultNamespace = "default"

type Role struct {
	ID          string `json:"id,omitempty"`
	Code        string `json:"code"`
	Namespace   string `json:"namespace"`
	Description string `json:"description,omitempty"`
}

type RoleList struct {
	TotalCount int     `json:"totalCount"`
	List       []*Role `json:"list"`
}

type ListRolesRequest struct {
	Namespace string
	// Page starts at 1, Limit defaults to the platform page size.
	Page  int
	Limit int
}

// ListRoles returns one page of the roles of a namespace.
func (c *Client) ListRoles(ctx context.Context, req ListRolesRequest) (*RoleList, error) {
	query := url.Values{"namespace": {namespaceOrDefault(req.Namespace)}}
	if req.Page > 0 {
		query.Set("page", strconv.Itoa(req.Page))
	}
	if req.Limit > 0 {
		query.Set("limit", strconv.Itoa(req.Limit))
	}
	list := new(RoleList)
	if err := c.call(ctx, "ListRoles", http.MethodGet, httphelper.JoinURL(c.config.Host, "/api/v3/list-roles", query), nil, list); err != nil {
		return nil, err
	}
	return list, nil
}

// CreateRole creates a role, the namespace defaults to DefaultNamespace.
func (c *Client) CreateRole(ctx context.Context, role Role) (*Role, error) {
	if role.Code == "" {
		return nil, oidc.ErrInvalidArgument().WithDescription("role code must not be empty")
	}
	role.Namespace = namespaceOrDefault(role.Namespace)
	role.ID = ""
	created := new(Role)
	if err := c.call(ctx, "CreateRole", http.MethodPost, c.endpoint("/api/v3/create-role"), &role, created); err != nil {
		return nil, err
	}
	return created, nil
}

type TargetType string

const (
	TargetTypeUser       TargetType = "USER"
	TargetTypeDepartment TargetType = "DEPARTMENT"
)

type Target struct {
	TargetType       TargetType `json:"targetType"`
	TargetIdentifier string     `json:"targetIdentifier"`
}

type AssignRoleRequest struct {
	Code      string    `json:"code"`
	Namespace string    `json:"namespace"`
	Targets   []*Target `json:"targets"`
}

// AssignRole grants the role to every target.
func (c *Client) AssignRole(ctx context.Context, req AssignRoleRequest) error {
	if req.Code == "" || len(req.Targets) == 0 {
		return oidc.ErrInvalidArgument().WithDescription("role code and targets are required")
	}
	req.Namespace = namespaceOrDefault(req.Namespace)
	return c.call(ctx, "AssignRole", http.MethodPost, c.endpoint("/api/v3/assign-role"), &req, nil)
}

func namespaceOrDefault(namespace string) string {
	if namespace == "" {
		return DefaultNamespace
	}
	return namespace
}
