package models

// Both references are nullable in storage but always set on creation.
type Answer struct {
	ID            uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	QuestionID    *uint        `gorm:"index" json:"question_id"`
	Question      *Question    `gorm:"foreignKey:QuestionID" json:"-"`
	ParticipantID *uint        `gorm:"index" json:"participant_id"`
	Participant   *Participant `gorm:"foreignKey:ParticipantID" json:"-"`
	ResponseText  string       `gorm:"type:text" json:"response_text"`
}

func (Answer) TableName() string {
	return "answers"
}
