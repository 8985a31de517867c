package registryhandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"govpay/internal/domain/audit"
	"govpay/internal/domain/registry"
	"govpay/internal/transport/http/api"
	"govpay/internal/transport/http/middleware"
	"govpay/internal/transport/http/shared"
)

type Handler struct {
	Service *registry.Service
	Audit   *audit.Recorder
}

func NewHandler(service *registry.Service, auditor *audit.Recorder) *Handler {
	return &Handler{Service: service, Audit: auditor}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/ministries", func(r chi.Router) {
		r.With(middleware.RequireAuth).Get("/", h.handleListMinistries)
		r.With(middleware.RequireAdmin).Post("/", h.handleCreateMinistry)
		r.With(middleware.RequireAuth).Get("/{ministryID}", h.handleGetMinistry)
		r.With(middleware.RequireAuth).Get("/{ministryID}/departments", h.handleListDepartments)
		r.With(middleware.RequireAdmin).Post("/{ministryID}/departments", h.handleCreateDepartment)
	})
	r.Route("/employees", func(r chi.Router) {
		r.With(middleware.RequireAuth).Get("/", h.handleListEmployees)
		r.With(middleware.RequireAdmin).Post("/", h.handleCreateEmployee)
		r.With(middleware.RequireAuth).Get("/{employeeID}", h.handleGetEmployee)
		r.With(middleware.RequireAdmin).Put("/{employeeID}", h.handleUpdateEmployee)
		r.With(middleware.RequireAuth).Get("/{employeeID}/verifications", h.handleListVerifications)
		r.With(middleware.RequireAuth).Get("/{employeeID}/sanctions", h.handleListSanctions)
		r.With(middleware.RequireAdmin).Post("/{employeeID}/sanctions", h.handleCreateSanction)
	})
	r.Route("/verifications", func(r chi.Router) {
		r.With(middleware.RequireAdmin).Post("/{verificationID}/complete", h.handleCompleteVerification)
	})
}

func (h *Handler) handleListMinistries(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	ministries, err := h.Service.ListMinistries(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "ministry_list_failed", "failed to list ministries", requestID)
		return
	}
	if ministries == nil {
		ministries = []registry.Ministry{}
	}
	api.Success(w, ministries, requestID)
}

func (h *Handler) handleCreateMinistry(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload registry.CreateMinistryInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "required")
	v.Required("code", payload.Code, "required")
	if v.Reject(w, requestID) {
		return
	}

	ministry, err := h.Service.CreateMinistry(r.Context(), payload)
	switch {
	case errors.Is(err, registry.ErrInvalidPaymentDay):
		api.Fail(w, http.StatusBadRequest, "invalid_payment_day", "payment day must be between 1 and 28", requestID)
		return
	case errors.Is(err, registry.ErrDuplicateMinistry):
		api.Fail(w, http.StatusConflict, "conflict", "ministry code already registered", requestID)
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "ministry_create_failed", "failed to create ministry", requestID)
		return
	}

	if err := h.Audit.Record(r.Context(), &user.UserID, "registry.ministry.create", "ministry", strconv.FormatInt(ministry.ID, 10), nil, ministry); err != nil {
		slog.Warn("audit registry.ministry.create failed", "err", err)
	}
	api.Created(w, ministry, requestID)
}

func (h *Handler) handleGetMinistry(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	ministryID := shared.ParseID(chi.URLParam(r, "ministryID"))
	if ministryID == 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid ministry id", requestID)
		return
	}

	ministry, err := h.Service.GetMinistry(r.Context(), ministryID)
	if errors.Is(err, registry.ErrMinistryNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "ministry not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "ministry_failed", "failed to load ministry", requestID)
		return
	}
	api.Success(w, ministry, requestID)
}

func (h *Handler) handleListDepartments(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	ministryID := shared.ParseID(chi.URLParam(r, "ministryID"))
	if ministryID == 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid ministry id", requestID)
		return
	}

	departments, err := h.Service.ListDepartments(r.Context(), ministryID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "department_list_failed", "failed to list departments", requestID)
		return
	}
	if departments == nil {
		departments = []registry.Department{}
	}
	api.Success(w, departments, requestID)
}

func (h *Handler) handleCreateDepartment(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	ministryID := shared.ParseID(chi.URLParam(r, "ministryID"))
	if ministryID == 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid ministry id", requestID)
		return
	}

	var payload registry.CreateDepartmentInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	payload.MinistryID = ministryID

	v := shared.NewValidator()
	v.Required("name", payload.Name, "required")
	v.Required("code", payload.Code, "required")
	if v.Reject(w, requestID) {
		return
	}

	department, err := h.Service.CreateDepartment(r.Context(), payload)
	if errors.Is(err, registry.ErrMinistryNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "ministry not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "department_create_failed", "failed to create department", requestID)
		return
	}

	if err := h.Audit.Record(r.Context(), &user.UserID, "registry.department.create", "department", strconv.FormatInt(department.ID, 10), nil, department); err != nil {
		slog.Warn("audit registry.department.create failed", "err", err)
	}
	api.Created(w, department, requestID)
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var filter registry.EmployeeFilter
	if id := shared.ParseID(r.URL.Query().Get("ministryId")); id != 0 {
		filter.MinistryID = &id
	}
	if id := shared.ParseID(r.URL.Query().Get("departmentId")); id != 0 {
		filter.DepartmentID = &id
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = &status
	}
	filter.Search = r.URL.Query().Get("q")
	page := shared.ParsePagination(r, 20, 100)
	filter.Limit = page.Limit
	filter.Offset = page.Offset

	employees, total, err := h.Service.ListEmployees(r.Context(), filter)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_list_failed", "failed to list employees", requestID)
		return
	}
	if employees == nil {
		employees = []registry.Employee{}
	}
	api.Success(w, map[string]any{"employees": employees, "total": total}, requestID)
}

func (h *Handler) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload registry.CreateEmployeeInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("employeeNumber", payload.EmployeeNumber, "required")
	v.Required("name", payload.Name, "required")
	v.Required("surname", payload.Surname, "required")
	if v.Reject(w, requestID) {
		return
	}

	employee, err := h.Service.CreateEmployee(r.Context(), payload)
	switch {
	case errors.Is(err, registry.ErrInvalidSalary):
		api.Fail(w, http.StatusBadRequest, "invalid_salary", "salary must not be negative", requestID)
		return
	case errors.Is(err, registry.ErrMinistryNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "ministry not found", requestID)
		return
	case errors.Is(err, registry.ErrDuplicateEmployee):
		api.Fail(w, http.StatusConflict, "conflict", "employee number already registered", requestID)
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "employee_create_failed", "failed to create employee", requestID)
		return
	}

	if err := h.Audit.Record(r.Context(), &user.UserID, "registry.employee.create", "employee", strconv.FormatInt(employee.ID, 10), nil, employee); err != nil {
		slog.Warn("audit registry.employee.create failed", "err", err)
	}
	api.Created(w, employee, requestID)
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	employeeID := shared.ParseID(chi.URLParam(r, "employeeID"))
	if employeeID == 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid employee id", requestID)
		return
	}

	employee, err := h.Service.GetEmployee(r.Context(), employeeID)
	if errors.Is(err, registry.ErrEmployeeNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_failed", "failed to load employee", requestID)
		return
	}
	api.Success(w, employee, requestID)
}

func (h *Handler) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	employeeID := shared.ParseID(chi.URLParam(r, "employeeID"))
	if employeeID == 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid employee id", requestID)
		return
	}

	var payload registry.UpdateEmployeeInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	if payload.Status != nil {
		v := shared.NewValidator()
		v.Enum("status", *payload.Status,
			[]string{registry.EmployeeActive, registry.EmployeeSuspended, "deceased", registry.EmployeeRetired},
			"unknown employee status")
		if v.Reject(w, requestID) {
			return
		}
	}

	employee, err := h.Service.UpdateEmployee(r.Context(), employeeID, payload)
	switch {
	case errors.Is(err, registry.ErrInvalidSalary):
		api.Fail(w, http.StatusBadRequest, "invalid_salary", "salary must not be negative", requestID)
		return
	case errors.Is(err, registry.ErrEmployeeNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "employee_update_failed", "failed to update employee", requestID)
		return
	}

	if err := h.Audit.Record(r.Context(), &user.UserID, "registry.employee.update", "employee", strconv.FormatInt(employeeID, 10), nil, employee); err != nil {
		slog.Warn("audit registry.employee.update failed", "err", err)
	}
	api.Success(w, employee, requestID)
}

func (h *Handler) handleListVerifications(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	employeeID := shared.ParseID(chi.URLParam(r, "employeeID"))
	if employeeID == 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid employee id", requestID)
		return
	}

	verifications, err := h.Service.ListVerifications(r.Context(), employeeID)
	if errors.Is(err, registry.ErrEmployeeNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "verification_list_failed", "failed to list verifications", requestID)
		return
	}
	if verifications == nil {
		verifications = []registry.Verification{}
	}
	api.Success(w, verifications, requestID)
}

type completeVerificationPayload struct {
	Status          string  `json:"status"`
	FingerprintUsed bool    `json:"fingerprintUsed"`
	Notes           *string `json:"notes"`
}

func (h *Handler) handleCompleteVerification(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	verificationID := shared.ParseID(chi.URLParam(r, "verificationID"))
	if verificationID == 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid verification id", requestID)
		return
	}

	var payload completeVerificationPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	if payload.Status != registry.VerificationApproved && payload.Status != registry.VerificationRejected {
		api.Fail(w, http.StatusBadRequest, "invalid_status", "status must be approved or rejected", requestID)
		return
	}

	verification, err := h.Service.CompleteVerification(r.Context(), verificationID, payload.Status, user.UserID, payload.FingerprintUsed, payload.Notes)
	if errors.Is(err, registry.ErrVerificationNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "verification not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "verification_failed", "failed to complete verification", requestID)
		return
	}

	if err := h.Audit.Record(r.Context(), &user.UserID, "registry.verification."+payload.Status, "employee_verification", strconv.FormatInt(verificationID, 10), nil, verification); err != nil {
		slog.Warn("audit registry.verification failed", "err", err)
	}
	api.Success(w, verification, requestID)
}

func (h *Handler) handleListSanctions(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	employeeID := shared.ParseID(chi.URLParam(r, "employeeID"))
	if employeeID == 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid employee id", requestID)
		return
	}

	sanctions, err := h.Service.ListSanctions(r.Context(), employeeID)
	if errors.Is(err, registry.ErrEmployeeNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "sanction_list_failed", "failed to list sanctions", requestID)
		return
	}
	if sanctions == nil {
		sanctions = []registry.Sanction{}
	}
	api.Success(w, sanctions, requestID)
}

func (h *Handler) handleCreateSanction(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	employeeID := shared.ParseID(chi.URLParam(r, "employeeID"))
	if employeeID == 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid employee id", requestID)
		return
	}

	var payload registry.CreateSanctionInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("type", payload.Type, "required")
	v.Required("reason", payload.Reason, "required")
	if v.Reject(w, requestID) {
		return
	}

	sanction, err := h.Service.CreateSanction(r.Context(), employeeID, user.UserID, payload)
	switch {
	case errors.Is(err, registry.ErrInvalidDeduction):
		api.Fail(w, http.StatusBadRequest, "invalid_deduction", "deduction must not be negative", requestID)
		return
	case errors.Is(err, registry.ErrEmployeeNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "sanction_create_failed", "failed to create sanction", requestID)
		return
	}

	if err := h.Audit.Record(r.Context(), &user.UserID, "registry.sanction.create", "sanction", strconv.FormatInt(sanction.ID, 10), nil, sanction); err != nil {
		slog.Warn("audit registry.sanction.create failed", "err", err)
	}
	api.Created(w, sanction, requestID)
}
