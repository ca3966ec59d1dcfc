package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/avolkov/surveyhub/config"
	"github.com/avolkov/surveyhub/models"
)

type UpdateEmailReq struct {
	ParticipantID uint   `json:"participant_id" binding:"required"`
	NewEmail      string `json:"new_email" binding:"required,email"`
}

// POST /api/surveys/participants/update-email
//
// Overwrites the email; when the new address already identifies another
// participant of the same survey the unique index would reject the write,
// so the collision is reported as a conflict instead.
func UpdateParticipantEmail(c *gin.Context) {
	var req UpdateEmailReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid payload", "error": err.Error()})
		return
	}

	var participant models.Participant
	if err := config.DB.First(&participant, req.ParticipantID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Participant not found"})
		return
	}

	var count int64
	if err := config.DB.Model(&models.Participant{}).
		Where("survey_id = ? AND email = ? AND id <> ?", participant.SurveyID, req.NewEmail, participant.ID).
		Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not update email"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"message": "Email already belongs to another participant of this survey"})
		return
	}

	if err := config.DB.Model(&participant).
		Update("email", req.NewEmail).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not update email"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Email updated"})
}

// GET /api/surveys/participants/:id/info
func GetParticipantInfo(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid ID"})
		return
	}

	var participant models.Participant
	if err := config.DB.
		Preload("Answers.Question").
		First(&participant, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Participant not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"participant_id":   participant.ID,
		"participant_name": participant.Name,
		"email":            participant.Email,
		"answers":          answerList(participant.Answers),
	})
}

// GET /api/surveys/participants/:id/infosurvey
func GetParticipantSurveyInfo(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid ID"})
		return
	}

	var participant models.Participant
	if err := config.DB.
		Preload("Survey").
		Preload("Answers.Question").
		First(&participant, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Participant not found"})
		return
	}

	surveyName := participant.Survey.Name
	if surveyName == "" {
		surveyName = "Unknown survey"
	}

	c.JSON(http.StatusOK, gin.H{
		"participant_id":   participant.ID,
		"participant_name": participant.Name,
		"email":            participant.Email,
		"survey_name":      surveyName,
		"answers":          answerList(participant.Answers),
	})
}

// DELETE /api/surveys/participants/:id
func DeleteParticipant(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid ID"})
		return
	}

	var participant models.Participant
	if err := config.DB.First(&participant, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Participant not found"})
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("participant_id = ?", participant.ID).
			Delete(&models.Answer{}).Error; err != nil {
			return err
		}
		return tx.Delete(&participant).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not delete participant"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Participant deleted"})
}
