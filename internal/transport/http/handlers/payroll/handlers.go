package payrollhandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"govpay/internal/domain/audit"
	"govpay/internal/domain/payroll"
	"govpay/internal/transport/http/api"
	"govpay/internal/transport/http/middleware"
	"govpay/internal/transport/http/shared"
)

type Handler struct {
	Service *payroll.Service
	PDF     *payroll.PDFGenerator
	Audit   *audit.Recorder
}

func NewHandler(service *payroll.Service, pdf *payroll.PDFGenerator, auditor *audit.Recorder) *Handler {
	return &Handler{Service: service, PDF: pdf, Audit: auditor}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.With(middleware.RequireAuth).Get("/runs", h.handleListRuns)
		r.With(middleware.RequireAdmin).Post("/runs", h.handleCreateRun)
		r.With(middleware.RequireAuth).Get("/runs/{runID}", h.handleGetRun)
		r.With(middleware.RequireAuth).Put("/runs/{runID}/step", h.handleAdvanceStep)
		r.With(middleware.RequireAdmin).Post("/runs/{runID}/generate-payslips", h.handleGeneratePayslips)
		r.With(middleware.RequireAuth).Get("/payslips", h.handleListPayslips)
		r.With(middleware.RequireAuth).Get("/payslips/{payslipID}", h.handleGetPayslip)
		r.With(middleware.RequireAdmin).Post("/payslips/{payslipID}/paid", h.handleMarkPaid)
		r.With(middleware.RequireAuth).Get("/payslips/{payslipID}/download", h.handleDownloadPayslip)
	})
}

type createRunPayload struct {
	PeriodMonth int              `json:"periodMonth"`
	PeriodYear  int              `json:"periodYear"`
	BudgetTotal *decimal.Decimal `json:"budgetTotal"`
}

type advanceStepPayload struct {
	Step    string          `json:"step"`
	Payload json.RawMessage `json:"payload"`
}

func (h *Handler) handleListRuns(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var filter payroll.RunFilter
	if raw := r.URL.Query().Get("month"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			filter.Month = v
		}
	}
	if raw := r.URL.Query().Get("year"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			filter.Year = v
		}
	}
	filter.Status = r.URL.Query().Get("status")
	page := shared.ParsePagination(r, 20, 100)

	runs, total, err := h.Service.ListRuns(r.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_runs_failed", "failed to list payroll runs", requestID)
		return
	}
	if runs == nil {
		runs = []payroll.Run{}
	}
	api.Success(w, map[string]any{"runs": runs, "total": total}, requestID)
}

func (h *Handler) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload createRunPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Period("periodMonth", payload.PeriodMonth, "periodYear", payload.PeriodYear)
	if v.Reject(w, requestID) {
		return
	}

	run, err := h.Service.CreateRun(r.Context(), payload.PeriodMonth, payload.PeriodYear, payload.BudgetTotal)
	switch {
	case errors.Is(err, payroll.ErrInvalidPeriod):
		api.Fail(w, http.StatusBadRequest, "invalid_period", "invalid payroll period", requestID)
		return
	case errors.Is(err, payroll.ErrDuplicatePeriod):
		api.Fail(w, http.StatusConflict, "conflict", "a payroll run already exists for this period", requestID)
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "payroll_run_create_failed", "failed to create payroll run", requestID)
		return
	}

	if err := h.Audit.Record(r.Context(), &user.UserID, "payroll.run.create", "payroll_run", strconv.FormatInt(run.ID, 10), nil, run); err != nil {
		slog.Warn("audit payroll.run.create failed", "err", err)
	}
	api.Created(w, run, requestID)
}

func (h *Handler) handleGetRun(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	runID := shared.ParseID(chi.URLParam(r, "runID"))
	if runID == 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid run id", requestID)
		return
	}

	run, steps, err := h.Service.GetRun(r.Context(), runID)
	if errors.Is(err, payroll.ErrRunNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "payroll run not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_run_failed", "failed to load payroll run", requestID)
		return
	}
	if steps == nil {
		steps = []payroll.Step{}
	}
	api.Success(w, map[string]any{"run": run, "steps": steps}, requestID)
}

func (h *Handler) handleAdvanceStep(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	runID := shared.ParseID(chi.URLParam(r, "runID"))
	if runID == 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid run id", requestID)
		return
	}

	var payload advanceStepPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	run, stepName, err := h.Service.AdvanceStep(r.Context(), runID, payload.Step, user.UserID, payload.Payload)
	switch {
	case errors.Is(err, payroll.ErrRunNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "payroll run not found", requestID)
		return
	case errors.Is(err, payroll.ErrInvalidStep):
		api.Fail(w, http.StatusBadRequest, "invalid_step", "unknown workflow step", requestID)
		return
	case errors.Is(err, payroll.ErrStepCompleted):
		api.Fail(w, http.StatusConflict, "conflict", "step already completed for this run", requestID)
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "payroll_step_failed", "failed to advance workflow step", requestID)
		return
	}

	if err := h.Audit.Record(r.Context(), &user.UserID, "payroll.step."+stepName, "payroll_run", strconv.FormatInt(runID, 10), nil, run); err != nil {
		slog.Warn("audit payroll.step failed", "step", stepName, "err", err)
	}
	api.Success(w, map[string]any{"run": run, "stepCompleted": stepName}, requestID)
}

func (h *Handler) handleGeneratePayslips(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	runID := shared.ParseID(chi.URLParam(r, "runID"))
	if runID == 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid run id", requestID)
		return
	}

	result, err := h.Service.GeneratePayslips(r.Context(), runID)
	if errors.Is(err, payroll.ErrRunNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "payroll run not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payslip_generate_failed", "failed to generate payslips", requestID)
		return
	}

	if err := h.Audit.Record(r.Context(), &user.UserID, "payroll.payslips.generate", "payroll_run", strconv.FormatInt(runID, 10), nil, map[string]int{"count": result.Total, "created": result.Created}); err != nil {
		slog.Warn("audit payroll.payslips.generate failed", "err", err)
	}
	api.Success(w, result, requestID)
}

func (h *Handler) handleListPayslips(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	runID := shared.ParseID(r.URL.Query().Get("runId"))
	employeeID := shared.ParseID(r.URL.Query().Get("employeeId"))
	if runID == 0 && employeeID == 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_filter", "runId or employeeId is required", requestID)
		return
	}
	page := shared.ParsePagination(r, 50, 200)

	payslips, err := h.Service.ListPayslips(r.Context(), runID, employeeID, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payslip_list_failed", "failed to list payslips", requestID)
		return
	}
	if payslips == nil {
		payslips = []payroll.PayslipDetail{}
	}
	api.Success(w, payslips, requestID)
}

func (h *Handler) handleGetPayslip(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	payslipID := shared.ParseID(chi.URLParam(r, "payslipID"))
	if payslipID == 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid payslip id", requestID)
		return
	}

	detail, err := h.Service.GetPayslip(r.Context(), payslipID)
	if errors.Is(err, payroll.ErrPayslipNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "payslip not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payslip_failed", "failed to load payslip", requestID)
		return
	}
	api.Success(w, detail, requestID)
}

func (h *Handler) handleMarkPaid(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	payslipID := shared.ParseID(chi.URLParam(r, "payslipID"))
	if payslipID == 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid payslip id", requestID)
		return
	}

	payslip, err := h.Service.MarkPaid(r.Context(), payslipID)
	if errors.Is(err, payroll.ErrPayslipNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "payslip not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payslip_paid_failed", "failed to mark payslip paid", requestID)
		return
	}

	if err := h.Audit.Record(r.Context(), &user.UserID, "payroll.payslip.paid", "payslip", strconv.FormatInt(payslipID, 10), nil, payslip); err != nil {
		slog.Warn("audit payroll.payslip.paid failed", "err", err)
	}
	api.Success(w, payslip, requestID)
}

func (h *Handler) handleDownloadPayslip(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	payslipID := shared.ParseID(chi.URLParam(r, "payslipID"))
	if payslipID == 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid payslip id", requestID)
		return
	}

	path, err := h.PDF.Generate(r.Context(), payslipID)
	if errors.Is(err, payroll.ErrPayslipNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "payslip not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payslip_pdf_failed", "failed to generate payslip document", requestID)
		return
	}

	data, err := h.PDF.Load(path)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payslip_pdf_failed", "failed to read payslip document", requestID)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename="+strings.TrimSuffix(filepath.Base(path), ".enc"))
	if _, err := w.Write(data); err != nil {
		slog.Warn("payslip download write failed", "err", err)
	}
}
