package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/finkit/bulk_payout_app/internal/adapters/tabular"
	"github.com/finkit/bulk_payout_app/internal/apperrors"
	portssvc "github.com/finkit/bulk_payout_app/internal/core/ports/services"
	"github.com/finkit/bulk_payout_app/internal/dto"
	"github.com/finkit/bulk_payout_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// bulkPaymentHandler handles HTTP requests for the bulk payment pipeline.
type bulkPaymentHandler struct {
	bulkPaymentService portssvc.BulkPaymentSvcFacade
	bulkTaskService    portssvc.BulkTaskSvcFacade
}

// newBulkPaymentHandler creates a new bulkPaymentHandler.
func newBulkPaymentHandler(bps portssvc.BulkPaymentSvcFacade, bts portssvc.BulkTaskSvcFacade) *bulkPaymentHandler {
	return &bulkPaymentHandler{
		bulkPaymentService: bps,
		bulkTaskService:    bts,
	}
}

// RegisterBulkPaymentRoutes registers routes related to bulk payments.
func RegisterBulkPaymentRoutes(rg *gin.RouterGroup, bps portssvc.BulkPaymentSvcFacade, bts portssvc.BulkTaskSvcFacade) {
	h := newBulkPaymentHandler(bps, bts)

	bulk := rg.Group("/bulk-payments")
	{
		bulk.POST("", h.submitBulkPayment)
		bulk.GET("", h.listBulkTasks)
		bulk.GET("/:id", h.getBulkTask)
	}
}

// submitBulkPayment godoc
// @Summary Submit a bulk payment file
// @Description Uploads a tabular payout file and starts background processing
// @Tags bulk-payments
// @Accept  multipart/form-data
// @Produce  json
// @Param   file formData file true "Tabular payout file (.csv or .xlsx)"
// @Param   payment_mode formData string true "Payment mode (IMPS, NEFT or RTGS)"
// @Param   bearer_token formData string true "Gateway credential"
// @Success 202 {object} dto.SubmitBulkPaymentResponse
// @Failure 400 {object} map[string]string "Preflight validation failed"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to accept bulk payment"
// @Security BearerAuth
// @Router /bulk-payments [post]
func (h *bulkPaymentHandler) submitBulkPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	accountID, ok := middleware.GetAccountIDFromContext(c)
	if !ok {
		logger.Error("Account ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		logger.Warn("Missing upload file", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "A tabular file upload is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error("Failed to open upload", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer file.Close()

	rows, err := tabular.ReaderForFile(fileHeader.Filename).ReadRows(file)
	if err != nil {
		logger.Warn("Failed to parse upload", slog.String("error", err.Error()), slog.String("file_name", fileHeader.Filename))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not parse uploaded file: " + err.Error()})
		return
	}

	sub := dto.BulkPaymentSubmission{
		FileName:         fileHeader.Filename,
		Rows:             rows,
		PaymentMode:      c.PostForm("payment_mode"),
		GatewayAuthToken: c.PostForm("bearer_token"),
	}

	logger = logger.With(slog.String("file_name", sub.FileName))
	logger.Info("Received bulk payment submission", slog.Int("rows", len(rows)))

	task, err := h.bulkPaymentService.SubmitBulkPayment(c.Request.Context(), accountID, sub)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) || errors.Is(err, apperrors.ErrInsufficientBalance) {
			logger.Warn("Bulk payment rejected at preflight", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Account not found for bulk payment")
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		} else {
			logger.Error("Failed to accept bulk payment", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept bulk payment"})
		}
		return
	}

	c.JSON(http.StatusAccepted, dto.ToSubmitBulkPaymentResponse(task))
}

// getBulkTask godoc
// @Summary Get a bulk task by ID
// @Description Retrieves progress, counts and collected errors for one bulk task
// @Tags bulk-payments
// @Produce  json
// @Param   id path string true "Bulk task ID"
// @Success 200 {object} dto.BulkTaskResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Bulk task not found"
// @Failure 500 {object} map[string]string "Failed to retrieve bulk task"
// @Security BearerAuth
// @Router /bulk-payments/{id} [get]
func (h *bulkPaymentHandler) getBulkTask(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	taskID := c.Param("id")

	accountID, ok := middleware.GetAccountIDFromContext(c)
	if !ok {
		logger.Error("Account ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	task, err := h.bulkTaskService.GetTask(c.Request.Context(), accountID, taskID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Bulk task not found", slog.String("bulk_task_id", taskID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Bulk task not found"})
		} else {
			logger.Error("Failed to get bulk task", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve bulk task"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToBulkTaskResponse(task, false))
}

// listBulkTasks godoc
// @Summary List bulk tasks
// @Description Lists the caller's bulk tasks, newest first
// @Tags bulk-payments
// @Produce  json
// @Param   minimal query bool false "Omit bulky fields" default(true)
// @Success 200 {object} dto.ListBulkTasksResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list bulk tasks"
// @Security BearerAuth
// @Router /bulk-payments [get]
func (h *bulkPaymentHandler) listBulkTasks(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	accountID, ok := middleware.GetAccountIDFromContext(c)
	if !ok {
		logger.Error("Account ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var params dto.ListBulkTasksParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Invalid query parameters", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	minimal := params.Minimal == nil || *params.Minimal

	tasks, err := h.bulkTaskService.ListTasks(c.Request.Context(), accountID)
	if err != nil {
		logger.Error("Failed to list bulk tasks", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list bulk tasks"})
		return
	}

	responses := make([]dto.BulkTaskResponse, len(tasks))
	for i := range tasks {
		responses[i] = dto.ToBulkTaskResponse(&tasks[i], minimal)
	}
	c.JSON(http.StatusOK, dto.ListBulkTasksResponse{Tasks: responses})
}
