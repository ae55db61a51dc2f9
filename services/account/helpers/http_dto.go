package helpers

import "auction-marketplace/internal/models"

// Form DTOs

type LoginRequest struct {
	Username string `form:"username"`
	Password string `form:"password"`
	Next     string `form:"next"`
}

type RegisterRequest struct {
	Username     string `form:"username"`
	Email        string `form:"email"`
	Password     string `form:"password"`
	Confirmation string `form:"confirmation"`
}

// ToNewAccount converts the form into the service input
func (r RegisterRequest) ToNewAccount() models.NewAccount {
	return models.NewAccount{
		Username:     r.Username,
		Email:        r.Email,
		Password:     r.Password,
		Confirmation: r.Confirmation,
	}
}
