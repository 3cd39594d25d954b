package auth

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// User is a registered account. The password column holds a bcrypt hash and
// is never serialized.
type User struct {
	ID        uint      `gorm:"primaryKey"                             json:"id"`
	Name      string    `gorm:"type:varchar(255);not null"             json:"name"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password  string    `                                              json:"-"`
	CreatedAt time.Time `                                              json:"-"`
	UpdatedAt time.Time `                                              json:"-"`
}

// Identity is the public view of a user returned alongside a credential.
type Identity struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u User) Identity() Identity {
	return Identity{ID: u.ID, Name: u.Name, Email: u.Email}
}

func getUserByEmail(tx *gorm.DB, email string) (*User, error) {
	var user User
	err := tx.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}
