package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/avolkov/surveyhub/config"
	"github.com/avolkov/surveyhub/middleware"
	"github.com/avolkov/surveyhub/models"
	"github.com/avolkov/surveyhub/utils"
)

type CreateSurveyReq struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Questions   []string `json:"questions"`
}

// POST /api/surveys/create
func CreateSurvey(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.User)

	var req CreateSurveyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid payload", "error": err.Error()})
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Survey name must not be blank"})
		return
	}

	// The token may outlive the account; resolve the owner again.
	var owner models.User
	if err := config.DB.First(&owner, u.ID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Owner not found"})
		return
	}

	survey := models.Survey{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     &owner.ID,
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&survey).Error; err != nil {
			return err
		}
		for _, text := range req.Questions {
			if strings.TrimSpace(text) == "" {
				continue
			}
			q := models.Question{SurveyID: survey.ID, Text: text}
			if err := tx.Create(&q).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create survey"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"survey_id": survey.ID})
}

// GET /api/surveys/created
func GetCreatedSurveys(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.User)

	var surveys []models.Survey
	if err := config.DB.
		Where("owner_id = ?", u.ID).
		Find(&surveys).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not list surveys"})
		return
	}

	resp := []gin.H{}
	for _, s := range surveys {
		resp = append(resp, gin.H{
			"id":          s.ID,
			"name":        s.Name,
			"description": s.Description,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// GET /api/surveys/completed
//
// Surveys the caller has participated in, matched by email. A user with no
// email on file simply gets an empty list.
func GetCompletedSurveys(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.User)

	if u.Email == "" {
		c.JSON(http.StatusOK, []gin.H{})
		return
	}

	var participants []models.Participant
	if err := config.DB.
		Where("email = ?", u.Email).
		Preload("Survey.Owner").
		Preload("Answers.Question").
		Find(&participants).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not list completed surveys"})
		return
	}

	resp := []gin.H{}
	for _, p := range participants {
		ownerName := "Unknown"
		if p.Survey.Owner != nil {
			ownerName = p.Survey.Owner.Username
		}
		resp = append(resp, gin.H{
			"survey_id":    p.SurveyID,
			"name":         p.Survey.Name,
			"owner_name":   ownerName,
			"completed_at": p.CompletedAt,
			"answers":      answerList(p.Answers),
		})
	}
	c.JSON(http.StatusOK, resp)
}

// GET /api/surveys/:id/details
//
// Ownership is folded into the lookup: a survey that exists but belongs to
// someone else is reported as not found, so non-owners learn nothing.
func GetSurveyDetails(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.User)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid ID"})
		return
	}

	var survey models.Survey
	err = config.DB.
		Where("id = ? AND owner_id = ?", id, u.ID).
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Participants").
		Preload("Participants.Answers.Question").
		First(&survey).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Survey not found or not owned by you"})
		return
	}

	questions := []gin.H{}
	for _, q := range survey.Questions {
		questions = append(questions, gin.H{"id": q.ID, "text": q.Text})
	}
	participants := []gin.H{}
	for _, p := range survey.Participants {
		participants = append(participants, gin.H{
			"participant_name": p.Name,
			"email":            p.Email,
			"completed_at":     p.CompletedAt,
			"answers":          answerList(p.Answers),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"name":         survey.Name,
		"description":  survey.Description,
		"questions":    questions,
		"participants": participants,
	})
}

// DELETE /api/surveys/:id
func DeleteSurvey(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.User)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid ID"})
		return
	}

	var survey models.Survey
	if err := config.DB.
		Where("id = ? AND owner_id = ?", id, u.ID).
		First(&survey).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Survey not found or not owned by you"})
		return
	}

	// Dependent rows first: answers, participants, questions, survey.
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		participantIDs := tx.Model(&models.Participant{}).
			Select("id").
			Where("survey_id = ?", survey.ID)
		if err := tx.Where("participant_id IN (?)", participantIDs).
			Delete(&models.Answer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("survey_id = ?", survey.ID).
			Delete(&models.Participant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("survey_id = ?", survey.ID).
			Delete(&models.Question{}).Error; err != nil {
			return err
		}
		return tx.Delete(&survey).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not delete survey"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Survey deleted"})
}

// GET /api/surveys/:id/share
func ShareSurvey(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid ID"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"link": utils.SurveyLink(uint(id))})
}

type InviteReq struct {
	RecipientEmail string `json:"recipient_email" binding:"required,email"`
}

// POST /api/surveys/:id/invite
//
// One blocking send attempt; a transport failure comes back to the caller
// unmodified.
func SendInvitation(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid ID"})
		return
	}

	var req InviteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid payload", "error": err.Error()})
		return
	}

	link := utils.SurveyLink(uint(id))
	if err := utils.SendSurveyInvitation(req.RecipientEmail, link); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Invitation sent"})
}

// GET /api/surveys/:id/take
//
// Takeable by anyone holding the link; no ownership check on purpose.
func TakeSurveyGet(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid ID"})
		return
	}

	var survey models.Survey
	err = config.DB.
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&survey, id).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Survey not found"})
		return
	}

	questions := []gin.H{}
	for _, q := range survey.Questions {
		questions = append(questions, gin.H{"id": q.ID, "text": q.Text})
	}

	c.JSON(http.StatusOK, gin.H{
		"survey_id":   survey.ID,
		"name":        survey.Name,
		"description": survey.Description,
		"questions":   questions,
	})
}

type TakeSurveyReq struct {
	ParticipantName  string   `json:"participant_name"`
	ParticipantEmail string   `json:"participant_email"`
	Answers          []string `json:"answers"`
}

// POST /api/surveys/:id/take
//
// Answers are paired positionally with the survey's questions in creation
// order; extra answers are dropped, unanswered questions get no row.
func TakeSurveyPost(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid ID"})
		return
	}

	var survey models.Survey
	if err := config.DB.First(&survey, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Survey not found"})
		return
	}

	var req TakeSurveyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid payload", "error": err.Error()})
		return
	}
	if len(req.Answers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No answers submitted"})
		return
	}

	// An authenticated caller's stored email overrides whatever was typed
	// into the form.
	callerEmail := ""
	if v, ok := c.Get(middleware.CtxUser); ok {
		if user, ok := v.(models.User); ok {
			callerEmail = user.Email
		}
	}

	var questions []models.Question
	if err := config.DB.
		Where("survey_id = ?", survey.ID).
		Order("id ASC").
		Find(&questions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not load questions"})
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		participant, err := findOrCreateParticipant(tx, survey.ID, req.ParticipantName, callerEmail, req.ParticipantEmail)
		if err != nil {
			return err
		}

		for i := 0; i < len(questions) && i < len(req.Answers); i++ {
			answer := models.Answer{
				QuestionID:    &questions[i].ID,
				ParticipantID: &participant.ID,
				ResponseText:  req.Answers[i],
			}
			if err := tx.Create(&answer).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not save answers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Thank you for taking the survey!"})
}

// findOrCreateParticipant matches an existing participant on either the
// caller's stored email or the submitted one, so an authenticated user can
// claim an earlier anonymous submission made with the same address. Fully
// anonymous submissions (no email at all) always get a fresh row.
func findOrCreateParticipant(tx *gorm.DB, surveyID uint, name, callerEmail, submittedEmail string) (*models.Participant, error) {
	emails := []string{}
	if callerEmail != "" {
		emails = append(emails, callerEmail)
	}
	if submittedEmail != "" && submittedEmail != callerEmail {
		emails = append(emails, submittedEmail)
	}

	if len(emails) > 0 {
		var existing models.Participant
		if err := tx.Where("survey_id = ? AND email IN ?", surveyID, emails).
			First(&existing).Error; err == nil {
			return &existing, nil
		}
	}

	if name == "" {
		name = "Anonymous"
	}
	email := callerEmail
	if email == "" {
		email = submittedEmail
	}

	participant := models.Participant{
		SurveyID:    surveyID,
		Name:        name,
		Email:       email,
		CompletedAt: time.Now().UTC(),
	}
	if err := tx.Create(&participant).Error; err != nil {
		// A concurrent submission may have won the unique index on
		// (survey_id, email); reuse its row.
		if email != "" {
			var existing models.Participant
			if err2 := tx.Where("survey_id = ? AND email = ?", surveyID, email).
				First(&existing).Error; err2 == nil {
				return &existing, nil
			}
		}
		return nil, err
	}
	return &participant, nil
}

// GET /api/surveys/thankyou?participantName=...
func ThankYou(c *gin.Context) {
	name := c.Query("participantName")
	c.String(http.StatusOK, fmt.Sprintf("Thank you, %s, for taking the survey!", name))
}

func answerList(answers []models.Answer) []gin.H {
	out := []gin.H{}
	for _, a := range answers {
		questionText := ""
		if a.Question != nil {
			questionText = a.Question.Text
		}
		out = append(out, gin.H{
			"question_text": questionText,
			"response_text": a.ResponseText,
		})
	}
	return out
}
