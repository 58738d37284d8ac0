package patient

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/ledger-api/internal/handler"
	"github.com/jwalitptl/ledger-api/internal/model"
	"github.com/jwalitptl/ledger-api/internal/service/ledger"
	"github.com/jwalitptl/ledger-api/internal/service/report"
	"github.com/jwalitptl/ledger-api/pkg/dateutil"
	"github.com/jwalitptl/ledger-api/pkg/money"
)

type Handler struct {
	service *ledger.Service
}

func NewHandler(service *ledger.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients")
	{
		patients.GET("", h.ListPatients)
		patients.POST("", h.CreatePatient)
		patients.GET("/:id", h.GetPatient)
		patients.GET("/:id/summary", h.PatientSummary)
		patients.PUT("/:id", h.UpdatePatient)
		patients.DELETE("/:id", h.DeletePatient)
		patients.PATCH("/:id/active", h.SetActive)

		patients.POST("/:id/visits", h.AddVisit)
		patients.DELETE("/:id/visits/:index", h.RemoveVisit)

		patients.POST("/:id/payments", h.AddPayment)
		patients.DELETE("/:id/payments/:index", h.RemovePayment)
	}
}

// ListPatients returns the working set, optionally filtered by the ?q=
// search query (name or phone substring).
func (h *Handler) ListPatients(c *gin.Context) {
	patients := h.service.Search(c.Request.Context(), c.Query("q"))
	c.JSON(http.StatusOK, handler.NewSuccessResponse(patients))
}

func (h *Handler) CreatePatient(c *gin.Context) {
	var req model.PatientProfile
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	patient, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		handler.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(patient))
}

func (h *Handler) GetPatient(c *gin.Context) {
	id, ok := h.patientID(c)
	if !ok {
		return
	}

	patient, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(patient))
}

// PatientSummary returns the profile-header view: charge/payment sums
// and the balance over an optional window, with display strings, plus
// whether the patient already has a visit logged today.
func (h *Handler) PatientSummary(c *gin.Context) {
	id, ok := h.patientID(c)
	if !ok {
		return
	}
	from := c.Query("from")
	to := c.Query("to")
	if (from != "" && !dateutil.Valid(from)) || (to != "" && !dateutil.Valid(to)) {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid date bound, want YYYY-MM-DD"))
		return
	}

	patient, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.AbortWithError(c, err)
		return
	}

	charges := report.TotalCharges(patient, from, to)
	payments := report.TotalPayments(patient, from, to)
	balance := charges - payments

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"patient_id":     patient.ID,
		"name":           patient.Name,
		"total_charges":  charges,
		"total_payments": payments,
		"balance":        balance,
		"visited_today":  report.VisitedOn(patient, dateutil.Today()),
		"display": gin.H{
			"charge":         money.Format(patient.Charge),
			"total_charges":  money.Format(charges),
			"total_payments": money.Format(payments),
			"balance":        money.Format(balance),
		},
	}))
}

func (h *Handler) UpdatePatient(c *gin.Context) {
	id, ok := h.patientID(c)
	if !ok {
		return
	}

	var req model.PatientProfile
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	patient, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		handler.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(patient))
}

func (h *Handler) DeletePatient(c *gin.Context) {
	id, ok := h.patientID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		handler.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) SetActive(c *gin.Context) {
	id, ok := h.patientID(c)
	if !ok {
		return
	}

	var req model.SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	patient, err := h.service.SetActive(c.Request.Context(), id, req.Active)
	if err != nil {
		handler.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(patient))
}

func (h *Handler) AddVisit(c *gin.Context) {
	id, ok := h.patientID(c)
	if !ok {
		return
	}

	var req model.AddVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	patient, err := h.service.AddVisit(c.Request.Context(), id, &req)
	if err != nil {
		handler.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(patient))
}

func (h *Handler) RemoveVisit(c *gin.Context) {
	id, ok := h.patientID(c)
	if !ok {
		return
	}
	index, ok := h.entryIndex(c)
	if !ok {
		return
	}

	patient, err := h.service.RemoveVisit(c.Request.Context(), id, index)
	if err != nil {
		handler.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(patient))
}

func (h *Handler) AddPayment(c *gin.Context) {
	id, ok := h.patientID(c)
	if !ok {
		return
	}

	var req model.AddPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	patient, err := h.service.AddPayment(c.Request.Context(), id, &req)
	if err != nil {
		handler.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(patient))
}

func (h *Handler) RemovePayment(c *gin.Context) {
	id, ok := h.patientID(c)
	if !ok {
		return
	}
	index, ok := h.entryIndex(c)
	if !ok {
		return
	}

	patient, err := h.service.RemovePayment(c.Request.Context(), id, index)
	if err != nil {
		handler.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(patient))
}

func (h *Handler) patientID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return 0, false
	}
	return id, true
}

func (h *Handler) entryIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid entry index"))
		return 0, false
	}
	return index, true
}
