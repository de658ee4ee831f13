package user

import (
	"time"

	"contactbook/internal/domain"
)

// View token 只在登录响应里出现
type View struct {
	Username string  `json:"username"`
	Name     string  `json:"name"`
	Token    *string `json:"token,omitempty"`
}

func toView(u *domain.User) View {
	return View{Username: u.Username, Name: u.Name}
}

type AdminView struct {
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	LoggedIn  bool      `json:"loggedIn"`
	CreatedAt time.Time `json:"createdAt"`
}

type ListResult struct {
	Total int64       `json:"total"`
	Items []AdminView `json:"items"`
}
