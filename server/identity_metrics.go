package server

import (
	"context"
	"time"

	"github.com/Sajjadhussain197/umsfront/identity"
	"github.com/Sajjadhussain197/umsfront/internal/metrics"
	"github.com/Sajjadhussain197/umsfront/users"
)

// timedIdentity records the duration of every identity service call
type timedIdentity struct {
	next    identity.Service
	metrics *metrics.Metrics
}

var _ identity.Service = (*timedIdentity)(nil)

func instrumentIdentity(next identity.Service, m *metrics.Metrics) identity.Service {
	if !m.Enabled() {
		return next
	}
	return &timedIdentity{next: next, metrics: m}
}

func (t *timedIdentity) observe(operation string, start time.Time) {
	t.metrics.ObserveBackendCall(operation, time.Since(start).Seconds())
}

func (t *timedIdentity) Login(ctx context.Context, email, password string) (*identity.LoginResult, error) {
	defer t.observe("login", time.Now())
	return t.next.Login(ctx, email, password)
}

func (t *timedIdentity) Register(ctx context.Context, accessToken string, req users.CreateRequest) (*users.User, error) {
	defer t.observe("register", time.Now())
	return t.next.Register(ctx, accessToken, req)
}

func (t *timedIdentity) ListUsers(ctx context.Context, accessToken string) ([]users.User, error) {
	defer t.observe("list_users", time.Now())
	return t.next.ListUsers(ctx, accessToken)
}

func (t *timedIdentity) GetUser(ctx context.Context, accessToken, id string) (*users.User, error) {
	defer t.observe("get_user", time.Now())
	return t.next.GetUser(ctx, accessToken, id)
}

func (t *timedIdentity) UpdateAccount(ctx context.Context, accessToken string, req users.UpdateRequest) (*users.User, error) {
	defer t.observe("update_account", time.Now())
	return t.next.UpdateAccount(ctx, accessToken, req)
}

func (t *timedIdentity) UpdateUser(ctx context.Context, accessToken, id string, req users.UpdateRequest) (*users.User, error) {
	defer t.observe("update_user", time.Now())
	return t.next.UpdateUser(ctx, accessToken, id, req)
}

func (t *timedIdentity) ChangePassword(ctx context.Context, accessToken string, req users.ChangePasswordRequest) error {
	defer t.observe("change_password", time.Now())
	return t.next.ChangePassword(ctx, accessToken, req)
}

func (t *timedIdentity) DeleteUser(ctx context.Context, accessToken, id string) error {
	defer t.observe("delete_user", time.Now())
	return t.next.DeleteUser(ctx, accessToken, id)
}
