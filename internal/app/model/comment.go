package model

import (
	"encoding/json"
	"time"
)

// Comment 향수 리뷰
type Comment struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	FragranceID  uint   `gorm:"not null;index" json:"fragrance_id"` // 향수 ID
	UserID       uint   `gorm:"not null;index" json:"user_id"`      // 작성자 ID
	User         User   `gorm:"foreignKey:UserID" json:"-"`         // 작성자 정보 (응답에는 Author 사용)
	Content      string `gorm:"type:text;not null" json:"content"`  // 리뷰 내용
	Rating       *int   `json:"rating"`                             // 평점 (1-5)
	HelpfulCount int    `gorm:"not null;default:0" json:"helpful_count"`

	Votes []CommentHelpful `gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Comment) TableName() string {
	return "comments"
}

// CommentAuthor 리뷰 작성자 공개 정보 (이메일 제외)
type CommentAuthor struct {
	ID        uint    `json:"id"`
	Name      string  `json:"name"`
	AvatarURL *string `json:"avatar_url"`
}

// Author 작성자 공개 정보, 작성자가 로드되지 않았으면 nil
func (c Comment) Author() *CommentAuthor {
	if c.User.ID == 0 {
		return nil
	}
	return &CommentAuthor{
		ID:        c.User.ID,
		Name:      c.User.Name,
		AvatarURL: c.User.AvatarURL,
	}
}

// MarshalJSON 작성자는 공개 필드만 "user"로 직렬화
func (c Comment) MarshalJSON() ([]byte, error) {
	type comment Comment
	return json.Marshal(struct {
		comment
		User *CommentAuthor `json:"user"`
	}{
		comment: comment(c),
		User:    c.Author(),
	})
}

// CommentHelpful 리뷰 "도움이 됨" 투표 (리뷰/사용자 쌍마다 하나)
type CommentHelpful struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	CommentID uint `gorm:"not null;uniqueIndex:idx_comment_user_helpful" json:"comment_id"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_comment_user_helpful;index" json:"user_id"`
}

func (CommentHelpful) TableName() string {
	return "comment_helpful"
}
