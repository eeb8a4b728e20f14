package models

import (
	"context"
	"errors"
	"os"
	"strconv"
	"time"

	"bitbucket.org/northguard/safety_backend/config"
	"bitbucket.org/northguard/safety_backend/utils"
	"gorm.io/gorm"
)

// User is the identity record behind the API boundary. The workflow engine
// itself never reads this table; it only sees actor id/name via context.
type User struct {
	ID        int       `gorm:"primary_key" json:"id"`
	OrgId     string    `gorm:"index" json:"org_id"`
	Username  string    `gorm:"size:100;not null;unique" json:"username" binding:"required"`
	Name      string    `gorm:"size:100;not null" json:"name" binding:"required"`
	Email     *string   `gorm:"size:100;unique" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"password"`
	IsActive  *bool     `gorm:"not null" json:"is_active"`
	Role      UserRole  `gorm:"type:enum('A', 'O', 'C');default:C" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUser struct {
	OrgId    string   `json:"org_id"`
	Username string   `json:"username" binding:"required"`
	Name     string   `json:"name" binding:"required"`
	Email    string   `json:"email"`
	Password string   `json:"password" binding:"required"`
	Role     UserRole `json:"role" binding:"required"`
}

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginInfo struct {
	Token string `json:"token"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	OrgId string `json:"org_id"`
}

/*
caches:
	Token:$token
*/

func (result *User) PrepareGive() {
	result.Password = ""
}

func tokenLifespan() time.Duration {
	lifespan, err := strconv.Atoi(os.Getenv("TOKEN_HOUR_LIFESPAN"))
	if err != nil {
		lifespan = 24
	}
	return time.Duration(lifespan) * time.Hour
}

func Login(ctx context.Context, input *LoginInput) (*LoginInfo, error) {
	db := config.GetDB()

	var user User
	if err := db.WithContext(ctx).Model(&User{}).Where("username = ?", input.Username).Take(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewValidationError("invalid username or password")
		}
		return nil, err
	}
	if user.IsActive == nil || !*user.IsActive {
		return nil, utils.NewValidationError("account is deactivated")
	}
	if err := utils.ComparePassword(user.Password, input.Password); err != nil {
		return nil, utils.NewValidationError("invalid username or password")
	}

	token, err := utils.JwtGenerate(user.ID, user.OrgId, string(user.Role))
	if err != nil {
		return nil, err
	}

	// session lives alongside the JWT so logout can revoke it server-side
	if err := config.SetRedisValue("Token:"+token, user.Username, tokenLifespan()); err != nil {
		return nil, err
	}

	return &LoginInfo{
		Token: token,
		Name:  user.Name,
		Role:  user.Role.Name(),
		OrgId: user.OrgId,
	}, nil
}

// destroy current session
func Logout(ctx context.Context) (bool, error) {
	token, ok := utils.GetTokenFromContext(ctx)
	if !ok || token == "" {
		return false, utils.NewValidationError("token is required")
	}
	if err := config.RemoveRedisKey("Token:" + token); err != nil {
		return false, err
	}
	return true, nil
}

func GetUserById(ctx context.Context, id int) (*User, error) {
	db := config.GetDB()
	var user User
	if err := db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFound("user", strconv.Itoa(id))
		}
		return nil, err
	}
	return &user, nil
}

func CreateUser(ctx context.Context, input *NewUser) (*User, error) {
	if input.Email != "" && !utils.IsValidEmail(input.Email) {
		return nil, utils.NewValidationError("invalid email")
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := User{
		OrgId:    input.OrgId,
		Username: input.Username,
		Name:     input.Name,
		Email:    utils.NilIfEmpty(input.Email),
		Password: string(hashed),
		IsActive: utils.NewTrue(),
		Role:     input.Role,
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
