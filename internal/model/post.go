package model

import (
	"time"
)

// Post 已发布帖子，创建后不再修改
type Post struct {
	ID         string      `gorm:"type:varchar(36);primaryKey" json:"id"`
	Caption    string      `gorm:"type:text;not null" json:"caption"`
	Location   *string     `gorm:"type:varchar(255)" json:"location"`
	AudioID    *string     `gorm:"type:varchar(64)" json:"audio_id"`
	AudioURI   *string     `gorm:"type:varchar(512)" json:"audio_uri"`
	AudioTitle *string     `gorm:"type:varchar(255)" json:"audio_title"`
	IsDeleted  bool        `gorm:"not null;default:false" json:"is_deleted"`
	CreatedAt  time.Time   `gorm:"index:idx_created_at" json:"created_at"`
	MediaRefs  []PostMedia `gorm:"foreignKey:PostID;references:ID" json:"media_refs"`
	Tags       []PostTag   `gorm:"foreignKey:PostID;references:ID" json:"tags"`
}

func (Post) TableName() string {
	return "posts"
}

// TagNames 按顺序返回标签
func (p *Post) TagNames() []string {
	out := make([]string, len(p.Tags))
	for i, t := range p.Tags {
		out[i] = t.Name
	}
	return out
}

// Audio 还原背景音乐引用
func (p *Post) Audio() *AudioRef {
	if p.AudioID == nil && p.AudioURI == nil {
		return nil
	}
	ref := &AudioRef{}
	if p.AudioID != nil {
		ref.ID = *p.AudioID
	}
	if p.AudioURI != nil {
		ref.URI = *p.AudioURI
	}
	if p.AudioTitle != nil {
		ref.Title = *p.AudioTitle
	}
	return ref
}
