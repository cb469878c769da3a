package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kuesioner-tools/survey_backend/internal/auth"
	"github.com/kuesioner-tools/survey_backend/internal/models"
	"github.com/kuesioner-tools/survey_backend/internal/repository"
)

// Session transport names
const (
	SessionHeader = "X-Survey-Session"
	SessionCookie = "survey_session"
)

// Context keys for the respondent session
const (
	ContextKeySession      = "survey_session_claims"
	ContextKeyFlowResponse = "flow_response"
	ContextKeyFlowSurvey   = "flow_survey"
)

// FlowBasePath is the public flow route prefix used for canonical step redirects
const FlowBasePath = "/api/v1/flow"

// sessionToken extracts the session JWT from the header or cookie
func sessionToken(c *gin.Context) string {
	if token := c.GetHeader(SessionHeader); token != "" {
		return token
	}
	if token, err := c.Cookie(SessionCookie); err == nil {
		return token
	}
	return ""
}

// rejectSession clears the transport cookie and sends the respondent back to entry
func rejectSession(c *gin.Context, message string) {
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusUnauthorized, gin.H{
		"error":    "session_invalid",
		"message":  message,
		"redirect": FlowBasePath + "/entry",
	})
	c.Abort()
}

// loadSession validates the bag and re-validates it against the stored response.
// Returns the response and its survey, or nil after writing the rejection.
func loadSession(c *gin.Context, jwtService auth.JWTService, responseRepo repository.ResponseRepository, surveyRepo repository.SurveyRepository) (*models.Response, *models.Survey) {
	token := sessionToken(c)
	if token == "" {
		rejectSession(c, "survey session is required")
		return nil, nil
	}

	claims, err := jwtService.ValidateSessionToken(token)
	if err != nil || !claims.IsComplete() {
		rejectSession(c, models.ErrSessionInvalid.Error())
		return nil, nil
	}

	surveyID, err := primitive.ObjectIDFromHex(claims.SurveyID)
	if err != nil {
		rejectSession(c, models.ErrSessionInvalid.Error())
		return nil, nil
	}
	responseID, err := primitive.ObjectIDFromHex(claims.ResponseID)
	if err != nil {
		rejectSession(c, models.ErrSessionInvalid.Error())
		return nil, nil
	}

	// #SECURITY_CONCERN: The signed bag alone is never trusted; the response row
	// must still exist and carry the same token
	response, err := responseRepo.GetBySession(c.Request.Context(), claims.RespondentToken, surveyID, responseID)
	if err != nil {
		rejectSession(c, models.ErrSessionStale.Error())
		return nil, nil
	}
	if response.IsAbandoned() {
		rejectSession(c, models.ErrResponseAbandoned.Error())
		return nil, nil
	}

	survey, err := surveyRepo.GetByID(c.Request.Context(), response.SurveyID)
	if err != nil {
		rejectSession(c, models.ErrSessionStale.Error())
		return nil, nil
	}
	if err := survey.CanAcceptResponses(time.Now().UTC()); err != nil {
		rejectSession(c, err.Error())
		return nil, nil
	}

	c.Set(ContextKeySession, claims)
	c.Set(ContextKeyFlowResponse, response)
	c.Set(ContextKeyFlowSurvey, survey)
	return response, survey
}

// SessionGuard gates a flow step behind a valid respondent session.
// #BUSINESS_RULE: A request for the wrong step is redirected to the response's
// canonical step path instead of being processed
func SessionGuard(jwtService auth.JWTService, responseRepo repository.ResponseRepository, surveyRepo repository.SurveyRepository, step models.ResponseStep) gin.HandlerFunc {
	return func(c *gin.Context) {
		response, _ := loadSession(c, jwtService, responseRepo, surveyRepo)
		if response == nil {
			return
		}

		if response.CurrentStep != step {
			c.Redirect(http.StatusSeeOther, FlowBasePath+"/"+response.CurrentStep.PathSegment())
			c.Abort()
			return
		}

		c.Next()
	}
}

// GuestGuard protects the entry step: a respondent who already carries a live
// session is bounced to wherever they left off instead of starting over.
func GuestGuard(jwtService auth.JWTService, responseRepo repository.ResponseRepository, surveyRepo repository.SurveyRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" {
			c.Next()
			return
		}

		claims, err := jwtService.ValidateSessionToken(token)
		if err != nil || !claims.IsComplete() {
			// Broken session on entry is not an error; let them start fresh
			c.Next()
			return
		}

		surveyID, err1 := primitive.ObjectIDFromHex(claims.SurveyID)
		responseID, err2 := primitive.ObjectIDFromHex(claims.ResponseID)
		if err1 != nil || err2 != nil {
			c.Next()
			return
		}

		response, err := responseRepo.GetBySession(c.Request.Context(), claims.RespondentToken, surveyID, responseID)
		if err != nil || response.IsAbandoned() {
			c.Next()
			return
		}

		survey, err := surveyRepo.GetByID(c.Request.Context(), response.SurveyID)
		if err != nil || survey.CanAcceptResponses(time.Now().UTC()) != nil {
			c.Next()
			return
		}

		c.Redirect(http.StatusSeeOther, FlowBasePath+"/"+response.CurrentStep.PathSegment())
		c.Abort()
	}
}

// GetFlowResponse extracts the session's response from context
func GetFlowResponse(c *gin.Context) (*models.Response, bool) {
	val, exists := c.Get(ContextKeyFlowResponse)
	if !exists {
		return nil, false
	}
	response, ok := val.(*models.Response)
	return response, ok
}

// GetFlowSurvey extracts the session's survey from context
func GetFlowSurvey(c *gin.Context) (*models.Survey, bool) {
	val, exists := c.Get(ContextKeyFlowSurvey)
	if !exists {
		return nil, false
	}
	survey, ok := val.(*models.Survey)
	return survey, ok
}

// GetSessionClaims extracts the session claims from context
func GetSessionClaims(c *gin.Context) (*auth.SessionClaims, bool) {
	val, exists := c.Get(ContextKeySession)
	if !exists {
		return nil, false
	}
	claims, ok := val.(*auth.SessionClaims)
	return claims, ok
}
