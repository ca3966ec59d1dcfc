package models

// Questions are created together with their survey and never edited
// afterwards. Creation order (ascending id) is the presentation order.
type Question struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	SurveyID uint   `gorm:"not null;index" json:"survey_id"`
	Survey   Survey `gorm:"foreignKey:SurveyID;constraint:OnDelete:CASCADE" json:"-"`
	Text     string `gorm:"type:text;not null" json:"text"`

	Answers []Answer `gorm:"foreignKey:QuestionID" json:"-"`
}

func (Question) TableName() string {
	return "questions"
}
