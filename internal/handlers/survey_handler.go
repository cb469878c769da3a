package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kuesioner-tools/survey_backend/internal/models"
	"github.com/kuesioner-tools/survey_backend/internal/repository"
	"github.com/kuesioner-tools/survey_backend/internal/services"
)

// SurveyHandler handles administrative survey management endpoints
type SurveyHandler struct {
	surveyService services.SurveyService
}

// NewSurveyHandler creates a new survey handler
func NewSurveyHandler(surveyService services.SurveyService) *SurveyHandler {
	return &SurveyHandler{surveyService: surveyService}
}

// ReorderSectionsRequest carries the new section ID sequence
type ReorderSectionsRequest struct {
	SectionIDs []string `json:"section_ids" binding:"required"`
}

// parseObjectID reads a path parameter as an ObjectID, writing a 400 on failure
func parseObjectID(c *gin.Context, param string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: "invalid " + param})
		return primitive.NilObjectID, false
	}
	return id, true
}

// parsePagination reads page/limit query parameters
func parsePagination(c *gin.Context) repository.PaginationOptions {
	opts := repository.DefaultPaginationOptions()
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		opts.Page = page
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 {
		opts.Limit = limit
	}
	return opts
}

// CreateSurvey handles POST /api/v1/surveys
// @Summary Create a survey
// @Tags Surveys
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.CreateSurveyRequest true "Survey"
// @Success 201 {object} models.Survey
// @Failure 409 {object} ErrorResponse
// @Router /surveys [post]
func (h *SurveyHandler) CreateSurvey(c *gin.Context) {
	var req services.CreateSurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	survey, err := h.surveyService.CreateSurvey(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, survey)
}

// ListSurveys handles GET /api/v1/surveys
// @Summary List surveys
// @Tags Surveys
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} repository.PaginatedResult[models.Survey]
// @Router /surveys [get]
func (h *SurveyHandler) ListSurveys(c *gin.Context) {
	var status *models.SurveyStatus
	if raw := c.Query("status"); raw != "" {
		s := models.SurveyStatus(strings.ToUpper(raw))
		if !s.IsValid() {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: "invalid status filter"})
			return
		}
		status = &s
	}

	result, err := h.surveyService.ListSurveys(c.Request.Context(), status, parsePagination(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetSurvey handles GET /api/v1/surveys/:id
// @Summary Get a survey
// @Tags Surveys
// @Produce json
// @Security BearerAuth
// @Param id path string true "Survey ID"
// @Success 200 {object} models.Survey
// @Failure 404 {object} ErrorResponse
// @Router /surveys/{id} [get]
func (h *SurveyHandler) GetSurvey(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	survey, err := h.surveyService.GetSurvey(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, survey)
}

// UpdateSurvey handles PUT /api/v1/surveys/:id
// @Summary Update a draft survey
// @Tags Surveys
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Survey ID"
// @Param request body services.UpdateSurveyRequest true "Changes"
// @Success 200 {object} models.Survey
// @Failure 409 {object} ErrorResponse
// @Router /surveys/{id} [put]
func (h *SurveyHandler) UpdateSurvey(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	var req services.UpdateSurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	survey, err := h.surveyService.UpdateSurvey(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, survey)
}

// DeleteSurvey handles DELETE /api/v1/surveys/:id
// @Summary Delete a draft survey
// @Tags Surveys
// @Security BearerAuth
// @Param id path string true "Survey ID"
// @Success 204 "No Content"
// @Failure 409 {object} ErrorResponse
// @Router /surveys/{id} [delete]
func (h *SurveyHandler) DeleteSurvey(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.surveyService.DeleteSurvey(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PublishSurvey handles POST /api/v1/surveys/:id/publish
// @Summary Publish a draft survey
// @Tags Surveys
// @Produce json
// @Security BearerAuth
// @Param id path string true "Survey ID"
// @Success 200 {object} models.Survey
// @Failure 422 {object} ErrorResponse
// @Router /surveys/{id}/publish [post]
func (h *SurveyHandler) PublishSurvey(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	survey, err := h.surveyService.PublishSurvey(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, survey)
}

// CloseSurvey handles POST /api/v1/surveys/:id/close
// @Summary Close an active survey
// @Tags Surveys
// @Produce json
// @Security BearerAuth
// @Param id path string true "Survey ID"
// @Success 200 {object} models.Survey
// @Failure 422 {object} ErrorResponse
// @Router /surveys/{id}/close [post]
func (h *SurveyHandler) CloseSurvey(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	survey, err := h.surveyService.CloseSurvey(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, survey)
}

// AddSection handles POST /api/v1/surveys/:id/sections
// @Summary Add a section
// @Tags Sections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Survey ID"
// @Param request body services.SectionRequest true "Section"
// @Success 201 {object} models.Survey
// @Failure 409 {object} ErrorResponse
// @Router /surveys/{id}/sections [post]
func (h *SurveyHandler) AddSection(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	var req services.SectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	survey, err := h.surveyService.AddSection(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, survey)
}

// UpdateSection handles PUT /api/v1/surveys/:id/sections/:sectionId
// @Summary Update a section
// @Tags Sections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Survey ID"
// @Param sectionId path string true "Section ID"
// @Param request body services.SectionRequest true "Section"
// @Success 200 {object} models.Survey
// @Failure 404 {object} ErrorResponse
// @Router /surveys/{id}/sections/{sectionId} [put]
func (h *SurveyHandler) UpdateSection(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	var req services.SectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	survey, err := h.surveyService.UpdateSection(c.Request.Context(), id, c.Param("sectionId"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, survey)
}

// RemoveSection handles DELETE /api/v1/surveys/:id/sections/:sectionId
// @Summary Remove an empty section
// @Tags Sections
// @Produce json
// @Security BearerAuth
// @Param id path string true "Survey ID"
// @Param sectionId path string true "Section ID"
// @Success 200 {object} models.Survey
// @Failure 409 {object} ErrorResponse
// @Router /surveys/{id}/sections/{sectionId} [delete]
func (h *SurveyHandler) RemoveSection(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	survey, err := h.surveyService.RemoveSection(c.Request.Context(), id, c.Param("sectionId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, survey)
}

// ReorderSections handles PUT /api/v1/surveys/:id/sections/reorder
// @Summary Reorder sections
// @Tags Sections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Survey ID"
// @Param request body ReorderSectionsRequest true "New order"
// @Success 200 {object} models.Survey
// @Failure 422 {object} ErrorResponse
// @Router /surveys/{id}/sections/reorder [put]
func (h *SurveyHandler) ReorderSections(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	var req ReorderSectionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	survey, err := h.surveyService.ReorderSections(c.Request.Context(), id, req.SectionIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, survey)
}

// CreateQuestion handles POST /api/v1/surveys/:id/questions
// @Summary Add a question
// @Tags Questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Survey ID"
// @Param request body services.QuestionRequest true "Question"
// @Success 201 {object} models.Question
// @Failure 422 {object} ErrorResponse
// @Router /surveys/{id}/questions [post]
func (h *SurveyHandler) CreateQuestion(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	var req services.QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	question, err := h.surveyService.CreateQuestion(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, question)
}

// ListQuestions handles GET /api/v1/surveys/:id/questions
// @Summary List a survey's questions
// @Tags Questions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Survey ID"
// @Success 200 {array} models.Question
// @Router /surveys/{id}/questions [get]
func (h *SurveyHandler) ListQuestions(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	questions, err := h.surveyService.ListQuestions(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, questions)
}

// UpdateQuestion handles PUT /api/v1/surveys/:id/questions/:questionId
// @Summary Update a question
// @Tags Questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Survey ID"
// @Param questionId path string true "Question ID"
// @Param request body services.QuestionRequest true "Question"
// @Success 200 {object} models.Question
// @Failure 404 {object} ErrorResponse
// @Router /surveys/{id}/questions/{questionId} [put]
func (h *SurveyHandler) UpdateQuestion(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}
	questionID, ok := parseObjectID(c, "questionId")
	if !ok {
		return
	}

	var req services.QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	question, err := h.surveyService.UpdateQuestion(c.Request.Context(), id, questionID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

// DeleteQuestion handles DELETE /api/v1/surveys/:id/questions/:questionId
// @Summary Delete a question
// @Tags Questions
// @Security BearerAuth
// @Param id path string true "Survey ID"
// @Param questionId path string true "Question ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Router /surveys/{id}/questions/{questionId} [delete]
func (h *SurveyHandler) DeleteQuestion(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}
	questionID, ok := parseObjectID(c, "questionId")
	if !ok {
		return
	}

	if err := h.surveyService.DeleteQuestion(c.Request.Context(), id, questionID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateCategory handles POST /api/v1/surveys/:id/categories
// @Summary Create a result category
// @Tags Result Categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Survey ID"
// @Param request body services.CategoryRequest true "Category"
// @Success 201 {object} models.ResultCategory
// @Failure 422 {object} ErrorResponse
// @Router /surveys/{id}/categories [post]
func (h *SurveyHandler) CreateCategory(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	var req services.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	category, err := h.surveyService.CreateCategory(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

// ListCategories handles GET /api/v1/surveys/:id/categories
// @Summary List result categories
// @Description Lists survey-level categories, or section-level with the section_id query
// @Tags Result Categories
// @Produce json
// @Security BearerAuth
// @Param id path string true "Survey ID"
// @Param section_id query string false "Section ID"
// @Success 200 {array} models.ResultCategory
// @Router /surveys/{id}/categories [get]
func (h *SurveyHandler) ListCategories(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	categories, err := h.surveyService.ListCategories(c.Request.Context(), id, c.Query("section_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// UpdateCategory handles PUT /api/v1/surveys/:id/categories/:categoryId
// @Summary Update a result category
// @Tags Result Categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Survey ID"
// @Param categoryId path string true "Category ID"
// @Param request body services.CategoryRequest true "Category"
// @Success 200 {object} models.ResultCategory
// @Failure 404 {object} ErrorResponse
// @Router /surveys/{id}/categories/{categoryId} [put]
func (h *SurveyHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}
	categoryID, ok := parseObjectID(c, "categoryId")
	if !ok {
		return
	}

	var req services.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	category, err := h.surveyService.UpdateCategory(c.Request.Context(), id, categoryID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// DeleteCategory handles DELETE /api/v1/surveys/:id/categories/:categoryId
// @Summary Delete a result category
// @Tags Result Categories
// @Security BearerAuth
// @Param id path string true "Survey ID"
// @Param categoryId path string true "Category ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Router /surveys/{id}/categories/{categoryId} [delete]
func (h *SurveyHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}
	categoryID, ok := parseObjectID(c, "categoryId")
	if !ok {
		return
	}

	if err := h.surveyService.DeleteCategory(c.Request.Context(), id, categoryID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListResponses handles GET /api/v1/surveys/:id/responses
// @Summary List a survey's responses
// @Tags Responses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Survey ID"
// @Param status query string false "Filter by status"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} repository.PaginatedResult[models.Response]
// @Router /surveys/{id}/responses [get]
func (h *SurveyHandler) ListResponses(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	var status *models.ResponseStatus
	if raw := c.Query("status"); raw != "" {
		s := models.ResponseStatus(strings.ToUpper(raw))
		if !s.IsValid() {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: "invalid status filter"})
			return
		}
		status = &s
	}

	result, err := h.surveyService.ListResponses(c.Request.Context(), id, status, parsePagination(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetResponse handles GET /api/v1/surveys/:id/responses/:responseId
// @Summary Get one response with its answers and score
// @Tags Responses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Survey ID"
// @Param responseId path string true "Response ID"
// @Success 200 {object} services.ResponseDetail
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /surveys/{id}/responses/{responseId} [get]
func (h *SurveyHandler) GetResponse(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}
	responseID, ok := parseObjectID(c, "responseId")
	if !ok {
		return
	}

	detail, err := h.surveyService.GetResponse(c.Request.Context(), id, responseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// AbandonResponse handles POST /api/v1/surveys/:id/responses/:responseId/abandon
// @Summary Abandon a response
// @Tags Responses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Survey ID"
// @Param responseId path string true "Response ID"
// @Success 200 {object} models.Response
// @Failure 409 {object} ErrorResponse
// @Router /surveys/{id}/responses/{responseId}/abandon [post]
func (h *SurveyHandler) AbandonResponse(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}
	responseID, ok := parseObjectID(c, "responseId")
	if !ok {
		return
	}

	response, err := h.surveyService.AbandonResponse(c.Request.Context(), id, responseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// RescoreResponse handles POST /api/v1/surveys/:id/responses/:responseId/rescore
// @Summary Recompute the score of a completed response
// @Tags Responses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Survey ID"
// @Param responseId path string true "Response ID"
// @Success 200 {object} models.ResponseScore
// @Failure 409 {object} ErrorResponse
// @Router /surveys/{id}/responses/{responseId}/rescore [post]
func (h *SurveyHandler) RescoreResponse(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}
	responseID, ok := parseObjectID(c, "responseId")
	if !ok {
		return
	}

	score, err := h.surveyService.RescoreResponse(c.Request.Context(), id, responseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, score)
}

// RegisterRoutes registers admin survey routes
func (h *SurveyHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	surveys := rg.Group("/surveys", authMiddleware)
	{
		surveys.POST("", h.CreateSurvey)
		surveys.GET("", h.ListSurveys)
		surveys.GET("/:id", h.GetSurvey)
		surveys.PUT("/:id", h.UpdateSurvey)
		surveys.DELETE("/:id", h.DeleteSurvey)
		surveys.POST("/:id/publish", h.PublishSurvey)
		surveys.POST("/:id/close", h.CloseSurvey)

		surveys.POST("/:id/sections", h.AddSection)
		surveys.PUT("/:id/sections/reorder", h.ReorderSections)
		surveys.PUT("/:id/sections/:sectionId", h.UpdateSection)
		surveys.DELETE("/:id/sections/:sectionId", h.RemoveSection)

		surveys.POST("/:id/questions", h.CreateQuestion)
		surveys.GET("/:id/questions", h.ListQuestions)
		surveys.PUT("/:id/questions/:questionId", h.UpdateQuestion)
		surveys.DELETE("/:id/questions/:questionId", h.DeleteQuestion)

		surveys.POST("/:id/categories", h.CreateCategory)
		surveys.GET("/:id/categories", h.ListCategories)
		surveys.PUT("/:id/categories/:categoryId", h.UpdateCategory)
		surveys.DELETE("/:id/categories/:categoryId", h.DeleteCategory)

		surveys.GET("/:id/responses", h.ListResponses)
		surveys.GET("/:id/responses/:responseId", h.GetResponse)
		surveys.POST("/:id/responses/:responseId/abandon", h.AbandonResponse)
		surveys.POST("/:id/responses/:responseId/rescore", h.RescoreResponse)
	}
}
