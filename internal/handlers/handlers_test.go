package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/apperror"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/auth"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/export"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/models"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/page"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/permissions"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/scope"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/services"
)

type stubAuth struct {
	principals map[string]scope.Principal
	loginFn    func(ctx context.Context, in services.LoginInput) (services.Session, error)
}

func (s stubAuth) Login(ctx context.Context, in services.LoginInput) (services.Session, error) {
	if s.loginFn == nil {
		return services.Session{}, apperror.New(apperror.CodeUnauthorized, "these credentials do not match our records")
	}
	return s.loginFn(ctx, in)
}

func (s stubAuth) Logout(context.Context, auth.Claims) error { return nil }

func (s stubAuth) Authenticate(_ context.Context, raw string) (scope.Principal, auth.Claims, error) {
	p, ok := s.principals[raw]
	if !ok {
		return scope.Principal{}, auth.Claims{}, apperror.New(apperror.CodeUnauthorized, "unauthenticated")
	}
	return p, auth.Claims{}, nil
}

type stubBranches struct {
	createFn func(ctx context.Context, in services.BranchInput) (models.Branch, error)
}

func (s stubBranches) List(context.Context, services.ListParams) (services.Page[models.Branch], error) {
	return services.Page[models.Branch]{}, nil
}
func (s stubBranches) Get(context.Context, uint) (models.Branch, error) {
	return models.Branch{}, apperror.NotFound("branch not found")
}
func (s stubBranches) Create(ctx context.Context, in services.BranchInput) (models.Branch, error) {
	if s.createFn == nil {
		return models.Branch{}, nil
	}
	return s.createFn(ctx, in)
}
func (s stubBranches) Update(context.Context, uint, services.BranchInput) (models.Branch, error) {
	return models.Branch{}, nil
}
func (s stubBranches) Delete(context.Context, uint) error               { return nil }
func (s stubBranches) Options(context.Context) ([]models.Branch, error) { return nil, nil }

type stubDepartments struct {
	deleteFn func(ctx context.Context, id uint) error
}

func (s stubDepartments) List(context.Context, services.ListParams) (services.Page[models.Department], error) {
	return services.Page[models.Department]{}, nil
}
func (s stubDepartments) Get(context.Context, uint) (models.Department, error) {
	return models.Department{}, nil
}
func (s stubDepartments) Create(context.Context, services.DepartmentInput) (models.Department, error) {
	return models.Department{}, nil
}
func (s stubDepartments) Update(context.Context, uint, services.DepartmentInput) (models.Department, error) {
	return models.Department{}, nil
}
func (s stubDepartments) Delete(ctx context.Context, id uint) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, id)
}
func (s stubDepartments) Options(context.Context, uint) ([]models.Department, error) {
	return nil, nil
}

type stubLeaves struct {
	approveFn func(ctx context.Context, sc scope.Scope, id, reviewerID uint) error
}

func (s stubLeaves) List(context.Context, scope.Scope, services.ListParams) (services.Page[models.LeaveApplication], error) {
	return services.Page[models.LeaveApplication]{}, nil
}
func (s stubLeaves) Get(context.Context, scope.Scope, uint) (models.LeaveApplication, error) {
	return models.LeaveApplication{}, nil
}
func (s stubLeaves) Apply(context.Context, scope.Scope, services.LeaveInput) (models.LeaveApplication, error) {
	return models.LeaveApplication{}, nil
}
func (s stubLeaves) Approve(ctx context.Context, sc scope.Scope, id, reviewerID uint) error {
	if s.approveFn == nil {
		return nil
	}
	return s.approveFn(ctx, sc, id, reviewerID)
}
func (s stubLeaves) Reject(context.Context, scope.Scope, uint, uint, string) error { return nil }
func (s stubLeaves) Delete(context.Context, scope.Scope, uint) error               { return nil }

type stubTransfers struct {
	completeFn func(ctx context.Context, sc scope.Scope, id uint) error
}

func (s stubTransfers) List(context.Context, scope.Scope, services.ListParams) (services.Page[models.Transfer], error) {
	return services.Page[models.Transfer]{}, nil
}
func (s stubTransfers) Get(context.Context, scope.Scope, uint) (models.Transfer, error) {
	return models.Transfer{}, nil
}
func (s stubTransfers) Create(context.Context, scope.Scope, services.TransferInput) (models.Transfer, error) {
	return models.Transfer{}, nil
}
func (s stubTransfers) Approve(context.Context, scope.Scope, uint, uint, string) error { return nil }
func (s stubTransfers) Reject(context.Context, scope.Scope, uint, uint, string) error  { return nil }
func (s stubTransfers) Complete(ctx context.Context, sc scope.Scope, id uint) error {
	if s.completeFn == nil {
		return nil
	}
	return s.completeFn(ctx, sc, id)
}
func (s stubTransfers) Delete(context.Context, scope.Scope, uint) error { return nil }

type stubEmployees struct {
	exportFn func(ctx context.Context, sc scope.Scope, params services.ListParams) ([]models.Employee, error)
}

func (s stubEmployees) List(context.Context, scope.Scope, services.ListParams) (services.Page[models.Employee], error) {
	return services.Page[models.Employee]{}, nil
}
func (s stubEmployees) Export(ctx context.Context, sc scope.Scope, params services.ListParams) ([]models.Employee, error) {
	if s.exportFn == nil {
		return nil, nil
	}
	return s.exportFn(ctx, sc, params)
}
func (s stubEmployees) Options(context.Context, scope.Scope) ([]models.Employee, error) {
	return nil, nil
}
func (s stubEmployees) Get(context.Context, scope.Scope, uint) (models.Employee, error) {
	return models.Employee{}, nil
}
func (s stubEmployees) Create(context.Context, scope.Scope, services.EmployeeInput) (models.Employee, error) {
	return models.Employee{}, nil
}
func (s stubEmployees) Update(context.Context, scope.Scope, uint, services.EmployeeInput) (models.Employee, error) {
	return models.Employee{}, nil
}
func (s stubEmployees) Delete(context.Context, scope.Scope, uint) error { return nil }

func grant(keys ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}

func testPrincipals() map[string]scope.Principal {
	branch := uint(3)
	return map[string]scope.Principal{
		"admin": {UserID: 1, Name: "Admin", Permissions: grant(permissions.Default().Keys()...)},
		"manager": {
			UserID:      7,
			Name:        "Branch Manager",
			BranchID:    &branch,
			Permissions: grant(permissions.BranchManager, permissions.ViewLeave, permissions.ApproveLeave),
		},
		"clerk": {UserID: 9, Name: "Clerk", Permissions: grant(permissions.ViewLeave)},
	}
}

func newTestRouter(t *testing.T, svc Services) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	if svc.Auth == nil {
		svc.Auth = stubAuth{principals: testPrincipals()}
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	renderer, err := page.NewRenderer("test", false, SharedProps)
	require.NoError(t, err)
	router, err := NewRouter(RouterConfig{
		Services: svc,
		Catalog:  permissions.Default(),
		Renderer: renderer,
		Logger:   logger,
		Cookie:   SessionCookie{Name: "hrm_session", TTL: time.Hour},
	})
	require.NoError(t, err)
	return router
}

func apiRequest(method, target, token, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Authorization", "Bearer "+token)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func pageRequest(method, target, token string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set(page.HeaderPage, "true")
	req.AddCookie(&http.Cookie{Name: "hrm_session", Value: token})
	return req
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var payload map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&payload))
	return payload
}

func hasCookie(rec *httptest.ResponseRecorder, name string) bool {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == name && cookie.Value != "" {
			return true
		}
	}
	return false
}

func TestGuestIsRedirectedToLogin(t *testing.T) {
	router := newTestRouter(t, Services{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/employees", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestLoginSetsSessionCookie(t *testing.T) {
	router := newTestRouter(t, Services{Auth: stubAuth{
		principals: testPrincipals(),
		loginFn: func(_ context.Context, in services.LoginInput) (services.Session, error) {
			assert.Equal(t, "admin@example.com", in.Email)
			return services.Session{Token: "admin", User: models.User{Name: "Admin"}}, nil
		},
	}})

	req := httptest.NewRequest(http.MethodPost, "/login",
		bytes.NewBufferString(`{"email":"admin@example.com","password":"password"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
	assert.True(t, hasCookie(rec, "hrm_session"))
}

func TestLoginValidation(t *testing.T) {
	router := newTestRouter(t, Services{})

	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(`{"email":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	errs := decode(t, rec)["errors"].(map[string]interface{})
	assert.Equal(t, "the email must be a valid email address", errs["email"])
	assert.Equal(t, "the password field is required", errs["password"])
}

func TestStoreBranchReportsFieldErrors(t *testing.T) {
	router := newTestRouter(t, Services{Branches: stubBranches{}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, apiRequest(http.MethodPost, "/branches", "admin", `{"address":"Dhaka"}`))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	errs := decode(t, rec)["errors"].(map[string]interface{})
	assert.Equal(t, "the name field is required", errs["name"])
	assert.Equal(t, "the code field is required", errs["code"])
}

func TestStoreBranchRedirectsWithFlash(t *testing.T) {
	var got services.BranchInput
	router := newTestRouter(t, Services{Branches: stubBranches{
		createFn: func(_ context.Context, in services.BranchInput) (models.Branch, error) {
			got = in
			return models.Branch{ID: 1, Name: in.Name, Code: in.Code}, nil
		},
	}})

	req := pageRequest(http.MethodPost, "/branches", "admin")
	req.Body = io.NopCloser(bytes.NewBufferString(`{"name":"Head Office","code":"ho"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/branches", rec.Header().Get("Location"))
	assert.True(t, hasCookie(rec, "hrm_flash"))
	assert.Equal(t, "Head Office", got.Name)
}

func TestStoreRoleRejectsUnknownPermission(t *testing.T) {
	router := newTestRouter(t, Services{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, apiRequest(http.MethodPost, "/roles", "admin", `{"name":"HR","permissions":["view_leave","fly"]}`))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	errs := decode(t, rec)["errors"].(map[string]interface{})
	assert.Equal(t, "the selected permissions is invalid", errs["permissions[1]"])
}

func TestDeleteDepartmentConflictGoesBack(t *testing.T) {
	router := newTestRouter(t, Services{Departments: stubDepartments{
		deleteFn: func(_ context.Context, id uint) error {
			assert.Equal(t, uint(5), id)
			return apperror.Conflict("cannot delete a department that still has employees")
		},
	}})

	req := pageRequest(http.MethodDelete, "/departments/5", "admin")
	req.Header.Set("Referer", "/departments")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/departments", rec.Header().Get("Location"))
	assert.True(t, hasCookie(rec, "hrm_flash"))
}

func TestBadIDIsNotFound(t *testing.T) {
	router := newTestRouter(t, Services{Branches: stubBranches{}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, apiRequest(http.MethodGet, "/branches/abc", "admin", ""))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestApproveLeaveUsesPrincipalScope(t *testing.T) {
	called := false
	router := newTestRouter(t, Services{Leaves: stubLeaves{
		approveFn: func(_ context.Context, sc scope.Scope, id, reviewerID uint) error {
			called = true
			assert.Equal(t, scope.Branch(3), sc)
			assert.Equal(t, uint(12), id)
			assert.Equal(t, uint(7), reviewerID)
			return nil
		},
	}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, apiRequest(http.MethodPost, "/leave/12/approve", "manager", ""))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
	assert.Equal(t, "Leave application approved.", decode(t, rec)["message"])
}

func TestApproveLeaveRequiresPermission(t *testing.T) {
	router := newTestRouter(t, Services{Leaves: stubLeaves{
		approveFn: func(context.Context, scope.Scope, uint, uint) error {
			t.Fatal("approve must not be reached")
			return nil
		},
	}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, apiRequest(http.MethodPost, "/leave/12/approve", "clerk", ""))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCompleteTransferConflict(t *testing.T) {
	router := newTestRouter(t, Services{Transfers: stubTransfers{
		completeFn: func(context.Context, scope.Scope, uint) error {
			return apperror.Conflict("only approved transfers can be completed")
		},
	}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, apiRequest(http.MethodPost, "/transfers/4/complete", "admin", ""))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "only approved transfers can be completed", decode(t, rec)["message"])
}

func TestInternalErrorIsHidden(t *testing.T) {
	router := newTestRouter(t, Services{Transfers: stubTransfers{
		completeFn: func(context.Context, scope.Scope, uint) error {
			return assert.AnError
		},
	}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, apiRequest(http.MethodPost, "/transfers/4/complete", "admin", ""))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", decode(t, rec)["message"])
}

func TestExportEmployees(t *testing.T) {
	router := newTestRouter(t, Services{Employees: stubEmployees{
		exportFn: func(_ context.Context, _ scope.Scope, params services.ListParams) ([]models.Employee, error) {
			assert.Equal(t, "rahim", params.Search)
			return []models.Employee{{EmployeeCode: "EMP-001", FirstName: "Rahim", Status: models.EmployeeActive}}, nil
		},
	}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, apiRequest(http.MethodGet, "/employees/export?search=rahim", "admin", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, export.ContentType, rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Disposition"), "attachment;"))
	assert.NotZero(t, rec.Body.Len())
}

func TestExportEmployeesFromPageClientForcesVisit(t *testing.T) {
	router := newTestRouter(t, Services{Employees: stubEmployees{}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, pageRequest(http.MethodGet, "/employees/export", "admin"))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "/employees/export", rec.Header().Get(page.HeaderLocation))
}

func TestDashboardCountsRejectsUnknownType(t *testing.T) {
	router := newTestRouter(t, Services{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, apiRequest(http.MethodGet, "/dashboard/counts?type=payroll", "admin", ""))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestFieldKey(t *testing.T) {
	cases := map[string]string{
		"BranchInput.name":                       "name",
		"AttendanceInput.AttendanceEntry.status": "status",
		"BulkAttendanceInput.entries[1].status":  "entries[1].status",
		"RoleInput.permissions[0]":               "permissions[0]",
	}
	for namespace, want := range cases {
		assert.Equal(t, want, fieldKey(namespace), namespace)
	}
}
