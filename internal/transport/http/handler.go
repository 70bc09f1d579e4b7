// Package http exposes the assessment REST surface over gin, plus a
// websocket progress stream for live status.
package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"navigator-profiler/internal/app"
	"navigator-profiler/internal/domain"
)

// Handler wires the assessment service into HTTP routes.
type Handler struct {
	service *app.AssessmentService
	health  HealthInfo
}

// HealthInfo describes the deployed configuration for the health endpoint.
type HealthInfo struct {
	Version          string
	StoreKind        string
	NarrativeEnabled bool
	Environment      string
}

func NewHandler(service *app.AssessmentService, health HealthInfo) *Handler {
	return &Handler{service: service, health: health}
}

// Router builds the gin engine with CORS and all routes registered.
func (h *Handler) Router(allowedOrigins []string) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(allowedOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = allowedOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Requested-With"}
	corsConfig.AllowWebSockets = true
	engine.Use(cors.New(corsConfig))

	api := engine.Group("/api")
	{
		api.GET("/health", h.healthCheck)
		api.POST("/assessment", h.startAssessment)
		api.GET("/assessment/:sessionId/question", h.getQuestion)
		api.POST("/assessment/:sessionId/answer", h.submitAnswer)
		api.GET("/assessment/:sessionId/report", h.generateReport)
		api.GET("/assessment/:sessionId/report/download", h.downloadReport)
		api.GET("/assessment/:sessionId/status", h.sessionStatus)
		api.GET("/assessment/:sessionId/status/ws", h.statusStream)
		api.POST("/assessment/:sessionId/contact", h.submitContact)

		admin := api.Group("/admin")
		{
			admin.GET("/assessments", h.listSessions)
			admin.POST("/sessions/:sessionId/reset", h.resetSession)
			admin.DELETE("/sessions/cleanup", h.cleanupSessions)
		}
	}
	return engine
}

func (h *Handler) startAssessment(c *gin.Context) {
	session, err := h.service.Start(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"sessionId": session.ID,
		"nickname":  session.Nickname,
	})
}

func (h *Handler) getQuestion(c *gin.Context) {
	prompt, err := h.service.NextQuestion(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, prompt)
}

type answerRequest struct {
	QuestionNumber    *int `json:"questionNumber"`
	ChosenStatementID *int `json:"chosenStatementId"`
}

func (h *Handler) submitAnswer(c *gin.Context) {
	var body answerRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON in request body"})
		return
	}
	if body.QuestionNumber == nil || body.ChosenStatementID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "questionNumber and chosenStatementId are required"})
		return
	}
	if *body.QuestionNumber < 1 || *body.QuestionNumber > domain.TotalQuestions {
		c.JSON(http.StatusBadRequest, gin.H{"error": "questionNumber must be between 1 and 40"})
		return
	}

	err := h.service.SubmitAnswer(c.Request.Context(), c.Param("sessionId"), *body.QuestionNumber, *body.ChosenStatementID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) generateReport(c *gin.Context) {
	generated, err := h.service.GenerateReport(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, generated)
}

func (h *Handler) downloadReport(c *gin.Context) {
	filename, content, err := h.service.DownloadReport(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(content))
}

func (h *Handler) sessionStatus(c *gin.Context) {
	session, err := h.service.GetSession(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		h.fail(c, err)
		return
	}

	completed := len(session.Answers)
	payload := gin.H{
		"sessionId": session.ID,
		"nickname":  session.Nickname,
		"status":    session.Status,
		"progress": gin.H{
			"completedQuestions": completed,
			"totalQuestions":     domain.TotalQuestions,
			"percentage":         roundOne(float64(completed) / float64(domain.TotalQuestions) * 100),
		},
		"timestamps": gin.H{
			"createdAt":      session.CreatedAt,
			"completedAt":    session.CompletedAt,
			"reportViewedAt": session.ReportFirstViewedAt,
		},
	}
	if session.Status == domain.StatusCompleted && session.Result != nil {
		payload["result"] = gin.H{
			"primaryArchetype":   session.Result.PrimaryArchetype,
			"secondaryArchetype": session.Result.SecondaryArchetype,
			"reportGenerated":    session.Result.ReportContent != "",
			"reportViewed":       session.ReportFirstViewedAt != nil,
		}
	}
	c.JSON(http.StatusOK, payload)
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (h *Handler) submitContact(c *gin.Context) {
	var body contactRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	if body.Name == "" || body.Email == "" || body.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, email, and message are required"})
		return
	}
	if !strings.Contains(body.Email, "@") || !strings.Contains(body.Email, ".") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email format"})
		return
	}

	err := h.service.SubmitContact(c.Request.Context(), c.Param("sessionId"), body.Name, body.Email, body.Message)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Contact submission received successfully"})
}

func (h *Handler) listSessions(c *gin.Context) {
	limit, err := intQuery(c, "limit", 100)
	if err != nil || limit > 1000 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit cannot exceed 1000"})
		return
	}
	offset, err := intQuery(c, "offset", 0)
	if err != nil || offset < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "offset cannot be negative"})
		return
	}

	filter := app.ListFilter{Limit: limit, Offset: offset}
	if status := c.Query("status"); status != "" {
		filter.Status = domain.Status(status)
	}

	sessions, stats, err := h.service.ListSessions(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"sessions": sessions,
		"summary":  stats,
		"pagination": gin.H{
			"limit":  limit,
			"offset": offset,
			"total":  len(sessions),
		},
	})
}

func (h *Handler) resetSession(c *gin.Context) {
	session, err := h.service.ResetSession(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"sessionId": session.ID,
		"nickname":  session.Nickname,
		"status":    session.Status,
		"resetAt":   time.Now().UTC(),
		"message":   "Session reset successfully",
	})
}

func (h *Handler) cleanupSessions(c *gin.Context) {
	days, err := intQuery(c, "days", 30)
	if err != nil || days < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days must be at least 1"})
		return
	}
	status := c.Query("status")
	if status != "" && status != string(domain.StatusInProgress) && status != string(domain.StatusCompleted) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be 'InProgress' or 'Completed'"})
		return
	}
	dryRun := strings.EqualFold(c.Query("dry_run"), "true")

	result, err := h.service.CleanupSessions(c.Request.Context(), time.Duration(days)*24*time.Hour, domain.Status(status), dryRun)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) healthCheck(c *gin.Context) {
	status := "healthy"
	message := "All systems operational"
	code := http.StatusOK
	if !h.health.NarrativeEnabled {
		status = "degraded"
		message = "Narrative generator not configured; reports use the local fallback"
	}
	c.JSON(code, gin.H{
		"status":      status,
		"message":     message,
		"timestamp":   time.Now().UTC(),
		"version":     h.health.Version,
		"service":     "AI Navigator Profiler API",
		"store":       h.health.StoreKind,
		"environment": h.health.Environment,
	})
}

// fail maps domain errors onto the HTTP error taxonomy.
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrQuestionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case domain.IsSequenceError(err),
		errors.Is(err, domain.ErrAssessmentComplete),
		errors.Is(err, domain.ErrAllQuestionsAnswered),
		errors.Is(err, domain.ErrNotCompleted),
		errors.Is(err, domain.ErrReportNotGenerated):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrReportAlreadyViewed):
		c.JSON(http.StatusGone, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrVersionConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrUnknownStatement):
		log.Printf("data integrity failure: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	default:
		log.Printf("request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func intQuery(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

func roundOne(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
