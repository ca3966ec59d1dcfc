package models

import "time"

// A participant is one respondent of one survey, identified within the
// survey by email. The partial unique index closes the find-or-create
// race for identified participants; fully anonymous rows (empty email)
// are never merged.
type Participant struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SurveyID    uint      `gorm:"not null;uniqueIndex:idx_participants_survey_email" json:"survey_id"`
	Survey      Survey    `gorm:"foreignKey:SurveyID;constraint:OnDelete:CASCADE" json:"-"`
	Name        string    `gorm:"size:100;not null;default:'Anonymous'" json:"name"`
	Email       string    `gorm:"size:100;uniqueIndex:idx_participants_survey_email,where:email <> ''" json:"email"`
	CompletedAt time.Time `json:"completed_at"`

	Answers []Answer `gorm:"foreignKey:ParticipantID" json:"-"`
}

func (Participant) TableName() string {
	return "participants"
}
