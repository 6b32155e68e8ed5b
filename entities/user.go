package entities

type User struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username  string `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	Email     string `gorm:"type:varchar(254);uniqueIndex;not null" json:"email"`
	FirstName string `gorm:"type:varchar(150);not null" json:"first_name"`
	LastName  string `gorm:"type:varchar(150);not null" json:"last_name"`
	Password  string `gorm:"not null" json:"-"`
	AvatarURL string `json:"avatar,omitempty"`

	Recipes []*Recipe `gorm:"foreignKey:AuthorID" json:"-"`
	Timestamp
}

type Subscription struct {
	ID             uint `gorm:"primaryKey;autoIncrement" json:"id"`
	SubscriberID   uint `gorm:"uniqueIndex:idx_subscriber_target;not null" json:"subscriber_id"`
	SubscribedToID uint `gorm:"uniqueIndex:idx_subscriber_target;not null" json:"subscribed_to_id"`

	Subscriber   *User `gorm:"foreignKey:SubscriberID;constraint:OnDelete:CASCADE" json:"-"`
	SubscribedTo *User `gorm:"foreignKey:SubscribedToID;constraint:OnDelete:CASCADE" json:"-"`
	Timestamp
}
