package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kuesioner-tools/survey_backend/internal/auth"
	"github.com/kuesioner-tools/survey_backend/internal/middleware"
	"github.com/kuesioner-tools/survey_backend/internal/models"
	"github.com/kuesioner-tools/survey_backend/internal/repository"
	"github.com/kuesioner-tools/survey_backend/internal/services"
)

// FlowHandler handles the public respondent flow
// #INTEGRATION_POINT: All step gating happens in the session guard; handlers assume
// the response in context already sits on the right step
type FlowHandler struct {
	flowService  services.FlowService
	jwtService   auth.JWTService
	responseRepo repository.ResponseRepository
	surveyRepo   repository.SurveyRepository
}

// NewFlowHandler creates a new flow handler
func NewFlowHandler(
	flowService services.FlowService,
	jwtService auth.JWTService,
	responseRepo repository.ResponseRepository,
	surveyRepo repository.SurveyRepository,
) *FlowHandler {
	return &FlowHandler{
		flowService:  flowService,
		jwtService:   jwtService,
		responseRepo: responseRepo,
		surveyRepo:   surveyRepo,
	}
}

// EnterRequest carries the survey code submitted on the entry step
type EnterRequest struct {
	Code string `json:"code" binding:"required"`
}

// SaveAnswersRequest carries a batch of answers
type SaveAnswersRequest struct {
	Answers []services.AnswerInput `json:"answers" binding:"required"`
}

// SurveyPreviewResponse is the entry page payload
type SurveyPreviewResponse struct {
	ID           string `json:"id"`
	Code         string `json:"code"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	SectionCount int    `json:"section_count"`
}

// FlowStepResponse reports a step transition to the client
type FlowStepResponse struct {
	Success    bool   `json:"success"`
	ResponseID string `json:"response_id"`
	Session    string `json:"session,omitempty"`
	Redirect   string `json:"redirect,omitempty"`
}

// issueSession signs a fresh session bag for the response and sets the transport cookie.
// Reissued after every step change so the bag's current_step stays honest.
func (h *FlowHandler) issueSession(c *gin.Context, response *models.Response, surveyCode string) (string, error) {
	token, err := h.jwtService.GenerateSessionToken(auth.SessionClaims{
		RespondentToken: response.RespondentToken,
		SurveyID:        response.SurveyID.Hex(),
		SurveyCode:      surveyCode,
		ResponseID:      response.ID.Hex(),
		CurrentStep:     int(response.CurrentStep),
	})
	if err != nil {
		return "", err
	}
	c.Header(middleware.SessionHeader, token)
	c.SetCookie(middleware.SessionCookie, token, 6*60*60, "/", "", false, true)
	return token, nil
}

// stepPath builds the canonical flow path for a response's current step
func stepPath(response *models.Response) string {
	return middleware.FlowBasePath + "/" + response.CurrentStep.PathSegment()
}

// Entry handles GET /api/v1/flow/entry
// @Summary Preview a survey before entering
// @Description Returns basic survey info for an active survey code
// @Tags Flow
// @Produce json
// @Param code query string true "Survey code"
// @Success 200 {object} SurveyPreviewResponse
// @Failure 404 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /flow/entry [get]
func (h *FlowHandler) Entry(c *gin.Context) {
	code := strings.ToUpper(strings.TrimSpace(c.Query("code")))
	if code == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: "code query parameter is required"})
		return
	}

	survey, err := h.flowService.GetSurveyByCode(c.Request.Context(), code)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SurveyPreviewResponse{
		ID:           survey.ID.Hex(),
		Code:         survey.Code,
		Title:        survey.Title,
		Description:  survey.Description,
		SectionCount: survey.SectionCount(),
	})
}

// Enter handles POST /api/v1/flow/enter
// @Summary Enter a survey
// @Description Starts a new response and issues the survey session
// @Tags Flow
// @Accept json
// @Produce json
// @Param request body EnterRequest true "Survey code"
// @Success 201 {object} FlowStepResponse
// @Failure 404 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /flow/enter [post]
func (h *FlowHandler) Enter(c *gin.Context) {
	var req EnterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	meta := models.ResponseMeta{
		IP:        c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
		Referer:   c.GetHeader("Referer"),
	}

	result, err := h.flowService.EnterSurvey(c.Request.Context(), strings.ToUpper(strings.TrimSpace(req.Code)), meta)
	if err != nil {
		respondError(c, err)
		return
	}

	session, err := h.issueSession(c, result.Response, result.Survey.Code)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, FlowStepResponse{
		Success:    true,
		ResponseID: result.Response.ID.Hex(),
		Session:    session,
		Redirect:   stepPath(result.Response),
	})
}

// GetRespondentData handles GET /api/v1/flow/respondent-data
// @Summary Get the respondent-data step context
// @Tags Flow
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} ErrorResponse
// @Router /flow/respondent-data [get]
func (h *FlowHandler) GetRespondentData(c *gin.Context) {
	survey, _ := middleware.GetFlowSurvey(c)
	response, _ := middleware.GetFlowResponse(c)
	if survey == nil || response == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "session_invalid", Message: models.ErrSessionInvalid.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"survey": SurveyPreviewResponse{
			ID:           survey.ID.Hex(),
			Code:         survey.Code,
			Title:        survey.Title,
			Description:  survey.Description,
			SectionCount: survey.SectionCount(),
		},
		"response_id": response.ID.Hex(),
	})
}

// SubmitRespondentData handles POST /api/v1/flow/respondent-data
// @Summary Submit the respondent profile
// @Description Stores the profile and advances the response to the questions step
// @Tags Flow
// @Accept json
// @Produce json
// @Param request body services.RespondentDataRequest true "Respondent profile"
// @Success 200 {object} FlowStepResponse
// @Failure 401 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /flow/respondent-data [post]
func (h *FlowHandler) SubmitRespondentData(c *gin.Context) {
	response, ok := middleware.GetFlowResponse(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "session_invalid", Message: models.ErrSessionInvalid.Error()})
		return
	}

	var req services.RespondentDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	if err := h.flowService.SubmitRespondentData(c.Request.Context(), response, req); err != nil {
		respondError(c, err)
		return
	}

	survey, _ := middleware.GetFlowSurvey(c)
	code := ""
	if survey != nil {
		code = survey.Code
	}
	session, err := h.issueSession(c, response, code)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, FlowStepResponse{
		Success:    true,
		ResponseID: response.ID.Hex(),
		Session:    session,
		Redirect:   stepPath(response),
	})
}

// GetQuestions handles GET /api/v1/flow/questions
// @Summary Get the questionnaire
// @Description Returns sections, questions, and any previously saved answers
// @Tags Flow
// @Produce json
// @Success 200 {object} services.QuestionnaireView
// @Failure 401 {object} ErrorResponse
// @Router /flow/questions [get]
func (h *FlowHandler) GetQuestions(c *gin.Context) {
	response, ok := middleware.GetFlowResponse(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "session_invalid", Message: models.ErrSessionInvalid.Error()})
		return
	}

	view, err := h.flowService.GetQuestionnaire(c.Request.Context(), response)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// SaveAnswers handles POST /api/v1/flow/answers
// @Summary Save a partial batch of answers
// @Description Upserts answers without completing the response
// @Tags Flow
// @Accept json
// @Produce json
// @Param request body SaveAnswersRequest true "Answers"
// @Success 200 {object} FlowStepResponse
// @Failure 401 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /flow/answers [post]
func (h *FlowHandler) SaveAnswers(c *gin.Context) {
	response, ok := middleware.GetFlowResponse(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "session_invalid", Message: models.ErrSessionInvalid.Error()})
		return
	}

	var req SaveAnswersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	if err := h.flowService.SaveAnswers(c.Request.Context(), response, req.Answers); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, FlowStepResponse{
		Success:    true,
		ResponseID: response.ID.Hex(),
	})
}

// Submit handles POST /api/v1/flow/submit
// @Summary Final submission
// @Description Saves the final answers, completes the response, and computes the score
// @Tags Flow
// @Accept json
// @Produce json
// @Param request body SaveAnswersRequest true "Final answers"
// @Success 200 {object} FlowStepResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /flow/submit [post]
func (h *FlowHandler) Submit(c *gin.Context) {
	response, ok := middleware.GetFlowResponse(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "session_invalid", Message: models.ErrSessionInvalid.Error()})
		return
	}

	var req SaveAnswersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	if err := h.flowService.SubmitFinal(c.Request.Context(), response, req.Answers); err != nil {
		respondError(c, err)
		return
	}

	survey, _ := middleware.GetFlowSurvey(c)
	code := ""
	if survey != nil {
		code = survey.Code
	}
	session, err := h.issueSession(c, response, code)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, FlowStepResponse{
		Success:    true,
		ResponseID: response.ID.Hex(),
		Session:    session,
		Redirect:   stepPath(response),
	})
}

// GetResult handles GET /api/v1/flow/result
// @Summary Get the survey result
// @Description Returns the score breakdown and matched result category
// @Tags Flow
// @Produce json
// @Success 200 {object} services.ResultView
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /flow/result [get]
func (h *FlowHandler) GetResult(c *gin.Context) {
	response, ok := middleware.GetFlowResponse(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "session_invalid", Message: models.ErrSessionInvalid.Error()})
		return
	}

	view, err := h.flowService.GetResult(c.Request.Context(), response)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// RegisterRoutes registers public flow routes with their step guards.
// rateLimit is applied only to the entry endpoints, where the survey code
// can be probed without a session.
func (h *FlowHandler) RegisterRoutes(rg *gin.RouterGroup, rateLimit gin.HandlerFunc) {
	guard := func(step models.ResponseStep) gin.HandlerFunc {
		return middleware.SessionGuard(h.jwtService, h.responseRepo, h.surveyRepo, step)
	}
	guest := middleware.GuestGuard(h.jwtService, h.responseRepo, h.surveyRepo)

	flow := rg.Group("/flow")
	{
		flow.GET("/entry", rateLimit, guest, h.Entry)
		flow.POST("/enter", rateLimit, guest, h.Enter)

		flow.GET("/respondent-data", guard(models.StepRespondentData), h.GetRespondentData)
		flow.POST("/respondent-data", guard(models.StepRespondentData), h.SubmitRespondentData)

		flow.GET("/questions", guard(models.StepQuestions), h.GetQuestions)
		flow.POST("/answers", guard(models.StepQuestions), h.SaveAnswers)
		flow.POST("/submit", guard(models.StepQuestions), h.Submit)

		flow.GET("/result", guard(models.StepResult), h.GetResult)
	}
}
