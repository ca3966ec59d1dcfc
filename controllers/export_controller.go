package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/avolkov/surveyhub/config"
	"github.com/avolkov/surveyhub/middleware"
	"github.com/avolkov/surveyhub/models"
)

// GET /api/surveys/:id/export
//
// Owner-only XLSX download of all participants and their answers, one row
// per participant, one column per question in creation order.
func ExportSurvey(c *gin.Context) {
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
		Preload("Participants.Answers").
		First(&survey).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Survey not found or not owned by you"})
		return
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	headers := []string{"Participant", "Email", "Completed At"}
	for _, q := range survey.Questions {
		headers = append(headers, q.Text)
	}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, p := range survey.Participants {
		// Latest answer per question wins when a participant submitted twice.
		byQuestion := map[uint]string{}
		for _, a := range p.Answers {
			if a.QuestionID != nil {
				byQuestion[*a.QuestionID] = a.ResponseText
			}
		}

		values := []interface{}{p.Name, p.Email, p.CompletedAt.Format("2006-01-02 15:04:05")}
		for _, q := range survey.Questions {
			values = append(values, byQuestion[q.ID])
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	filename := fmt.Sprintf("survey_%d_%s.xlsx", survey.ID, uuid.NewString()[:8])
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not write export"})
		return
	}
}
