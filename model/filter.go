package model

// Filter is a keyword auto-reply rule. The trigger is the unique key;
// adding an existing trigger overwrites its reply.
type Filter struct {
	Trigger string `json:"trigger" gorm:"primaryKey;size:255;not null"`
	Reply   string `json:"reply" gorm:"type:text;not null"`
}
