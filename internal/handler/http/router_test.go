package http

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/user"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/cache"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/storage"
	"github.com/cmlabs-hris/payroll-engine/internal/repository/memory"
	attendancesvc "github.com/cmlabs-hris/payroll-engine/internal/service/attendance"
	filesvc "github.com/cmlabs-hris/payroll-engine/internal/service/file"
	leavesvc "github.com/cmlabs-hris/payroll-engine/internal/service/leave"
	paymentsvc "github.com/cmlabs-hris/payroll-engine/internal/service/payment"
	payrollsvc "github.com/cmlabs-hris/payroll-engine/internal/service/payroll"
	reconciliationsvc "github.com/cmlabs-hris/payroll-engine/internal/service/reconciliation"
	sessionsvc "github.com/cmlabs-hris/payroll-engine/internal/service/session"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	employeeID = "0195a1b2-0000-7000-8000-000000000010"
	otherID    = "0195a1b2-0000-7000-8000-000000000011"
)

type testServer struct {
	router *chi.Mux
	jwt    jwt.Service
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.NewStore()
	store.AddEmployee(employee.Employee{
		ID:           employeeID,
		EmployeeCode: "EMP-010",
		FullName:     "Citra Dewi",
		SalaryType:   employee.SalaryTypeFixed,
		BaseSalary:   decimal.NewFromInt(4200000),
		Status:       employee.StatusActive,
	})
	store.AddEmployee(employee.Employee{
		ID:           otherID,
		EmployeeCode: "EMP-011",
		FullName:     "Dimas Pratama",
		SalaryType:   employee.SalaryTypeFixed,
		BaseSalary:   decimal.NewFromInt(3900000),
		Status:       employee.StatusActive,
	})
	store.AssignSite(employeeID, attendance.Site{
		ID:              "site-hq",
		Name:            "Head Office",
		Latitude:        -6.2,
		Longitude:       106.8,
		RadiusMinMeters: 0,
		RadiusMaxMeters: 100,
		Timezone:        "Asia/Jakarta",
	})

	employees := memory.NewEmployeeRepository(store)
	attendanceRepo := memory.NewAttendanceRepository(store)
	leaveRepo := memory.NewLeaveRequestRepository(store)
	sessionRepo := memory.NewSessionRepository(store)
	aggregateRepo := memory.NewAggregateRepository(store)
	payrollRepo := memory.NewPayrollRepository(store)
	paymentRepo := memory.NewPaymentRepository(store)

	local, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)
	payrolls := cache.NewMemory[payroll.PayrollResponse](time.Minute)

	ledgers := reconciliationsvc.Ledgers{
		Attendance: attendancesvc.NewLedger(attendanceRepo),
		Leave:      leavesvc.NewLedger(leaveRepo),
		Session:    sessionsvc.NewLedger(sessionRepo),
	}

	reconciliationService := reconciliationsvc.NewReconciliationService(store, employees, aggregateRepo, ledgers, nil, 2, nil)
	payrollService := payrollsvc.NewPayrollService(store, payrollRepo, employees, aggregateRepo, paymentRepo, payroll.DefaultPolicy(), payrolls)
	paymentService := paymentsvc.NewPaymentService(store, paymentRepo, payrollRepo, filesvc.NewFileService(local, 1<<20), payrolls)

	handlers := Handlers{
		Attendance:     NewAttendanceHandler(attendancesvc.NewAttendanceService(store, attendanceRepo, employees)),
		Leave:          NewLeaveHandler(leavesvc.NewLeaveService(store, leaveRepo, attendanceRepo, employees)),
		Session:        NewSessionHandler(sessionsvc.NewSessionService(store, sessionRepo, employees)),
		Reconciliation: NewReconciliationHandler(reconciliationService),
		Payroll:        NewPayrollHandler(payrollService),
		Payment:        NewPaymentHandler(paymentService, 1<<20),
	}

	jwtService := jwt.NewJWTService("test-secret", "15m")
	return &testServer{
		router: NewRouter(jwtService, handlers, RouterOptions{AllowedOrigins: []string{"*"}}),
		jwt:    jwtService,
	}
}

func (s *testServer) token(t *testing.T, role user.Role, employeeID *string) string {
	t.Helper()
	token, _, err := s.jwt.GenerateAccessToken("user-"+string(role), employeeID, role)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	if data != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func TestRouter_RequiresToken(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/payrolls?period=2025-03", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/payrolls?period=2025-03", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_EmployeeCannotReconcile(t *testing.T) {
	s := newTestServer(t)
	id := employeeID
	token := s.token(t, user.RoleEmployee, &id)

	rec := s.do(t, http.MethodPost, "/api/v1/reconciliations", token, map[string]interface{}{"period": "2025-03"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	env := decode(t, rec, nil)
	require.NotNil(t, env.Error)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)
}

func TestRouter_ReconcileRejectsBadPeriod(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, user.RoleOwner, nil)

	rec := s.do(t, http.MethodPost, "/api/v1/reconciliations", token, map[string]interface{}{"period": "2025-13"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/reconciliations/2025-3/aggregates", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_PayrollLifecycle(t *testing.T) {
	s := newTestServer(t)
	owner := s.token(t, user.RoleOwner, nil)
	manager := s.token(t, user.RoleManager, nil)

	// Reconcile every active employee.
	rec := s.do(t, http.MethodPost, "/api/v1/reconciliations", manager, map[string]interface{}{"period": "2025-03"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var batch struct {
		SucceededCount int `json:"succeeded_count"`
		FailedCount    int `json:"failed_count"`
	}
	decode(t, rec, &batch)
	assert.Equal(t, 2, batch.SucceededCount)
	assert.Equal(t, 0, batch.FailedCount)

	rec = s.do(t, http.MethodGet, "/api/v1/reconciliations/2025-03/aggregates/"+employeeID, manager, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Compose a draft.
	rec = s.do(t, http.MethodPost, "/api/v1/payrolls", manager, map[string]interface{}{
		"employee_id": employeeID,
		"period":      "2025-03",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var draft struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Total  string `json:"total"`
	}
	decode(t, rec, &draft)
	require.NotEmpty(t, draft.ID)
	assert.Equal(t, string(payroll.StatusDraft), draft.Status)

	rec = s.do(t, http.MethodGet, "/api/v1/payrolls/"+draft.ID, manager, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// A draft cannot be paid.
	rec = s.do(t, http.MethodPost, "/api/v1/payrolls/"+draft.ID+"/payment", owner, map[string]interface{}{"status": "pending"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// Managers may not finalize.
	rec = s.do(t, http.MethodPost, "/api/v1/payrolls/"+draft.ID+"/finalize", manager, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/payrolls/"+draft.ID+"/finalize", owner, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/v1/payrolls/"+draft.ID+"/finalize", owner, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// A manager records the payment but cannot approve it.
	rec = s.do(t, http.MethodPost, "/api/v1/payrolls/"+draft.ID+"/payment", manager, map[string]interface{}{"status": "pending"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/v1/payrolls/"+draft.ID+"/payment", manager, map[string]interface{}{"status": "succeeded"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/payrolls/"+draft.ID+"/payment", owner, map[string]interface{}{
		"status":        "succeeded",
		"transfer_date": "2025-04-01",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var paid struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decode(t, rec, &paid)
	assert.Equal(t, "succeeded", paid.Status)

	rec = s.do(t, http.MethodGet, "/api/v1/payrolls/"+draft.ID, manager, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var locked struct {
		Status string `json:"status"`
	}
	decode(t, rec, &locked)
	assert.Equal(t, string(payroll.StatusLocked), locked.Status)

	// Recomposing a locked payroll conflicts.
	rec = s.do(t, http.MethodPost, "/api/v1/payrolls", manager, map[string]interface{}{
		"employee_id": employeeID,
		"period":      "2025-03",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Attach a transfer receipt.
	var form bytes.Buffer
	mw := multipart.NewWriter(&form)
	part, err := mw.CreateFormFile("file", "receipt.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4 receipt"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/"+paid.ID+"/proof", &form)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+owner)
	proofRec := httptest.NewRecorder()
	s.router.ServeHTTP(proofRec, req)
	require.Equal(t, http.StatusOK, proofRec.Code, proofRec.Body.String())
	var proof struct {
		ProofReference *string `json:"proof_reference"`
	}
	decode(t, proofRec, &proof)
	require.NotNil(t, proof.ProofReference)
}

func TestRouter_ComposeWithoutAggregate(t *testing.T) {
	s := newTestServer(t)
	manager := s.token(t, user.RoleManager, nil)

	rec := s.do(t, http.MethodPost, "/api/v1/payrolls", manager, map[string]interface{}{
		"employee_id": employeeID,
		"period":      "2025-04",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRouter_ExportRegister(t *testing.T) {
	s := newTestServer(t)
	manager := s.token(t, user.RoleManager, nil)

	rec := s.do(t, http.MethodPost, "/api/v1/reconciliations", manager, map[string]interface{}{"period": "2025-03"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodPost, "/api/v1/payrolls", manager, map[string]interface{}{
		"employee_id": otherID,
		"period":      "2025-03",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/payrolls/export?period=2025-03", manager, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "payroll-register-2025-03.xlsx")
	assert.NotZero(t, rec.Body.Len())
}

func TestRouter_CheckInOutsideRadius(t *testing.T) {
	s := newTestServer(t)
	id := employeeID
	token := s.token(t, user.RoleEmployee, &id)

	rec := s.do(t, http.MethodPost, "/api/v1/attendance/check-in", token, map[string]interface{}{
		"latitude":        -6.3,
		"longitude":       106.8,
		"accuracy_meters": 5,
		"source":          "mobile",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())

	var result struct {
		Event struct {
			Valid          bool    `json:"valid"`
			DistanceMeters float64 `json:"distance_meters"`
		} `json:"event"`
		Day *struct{} `json:"day"`
	}
	env := decode(t, rec, &result)
	assert.False(t, env.Success)
	assert.False(t, result.Event.Valid)
	assert.Greater(t, result.Event.DistanceMeters, 100.0)
	assert.Nil(t, result.Day)
}

func TestRouter_CheckInRequiresEmployee(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, user.RoleManager, nil)

	rec := s.do(t, http.MethodPost, "/api/v1/attendance/check-in", token, map[string]interface{}{
		"latitude":  -6.2,
		"longitude": 106.8,
		"source":    "mobile",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_LeaveForOtherEmployeeForbidden(t *testing.T) {
	s := newTestServer(t)
	id := employeeID
	token := s.token(t, user.RoleEmployee, &id)

	rec := s.do(t, http.MethodPost, "/api/v1/leave-requests", token, map[string]interface{}{
		"employee_id": otherID,
		"date":        "2025-03-10",
		"kind":        "leave",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
