package user

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academia/core"
)

type (
	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
		TokenType    string `json:"tokenType"`
		ExpiresIn    int64  `json:"expiresIn"` // seconds
		User         User   `json:"usuario"`
	}

	RefreshRequest struct {
		RefreshToken string `json:"refreshToken" validate:"required"`
	}

	ForgotPasswordRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	ResetPasswordRequest struct {
		Token           string `json:"token" validate:"required"`
		Password        string `json:"password" validate:"required"`
		PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
	}

	ChangePasswordRequest struct {
		CurrentPassword string `json:"currentPassword" validate:"required"`
		Password        string `json:"password" validate:"required,nefield=CurrentPassword"`
		PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`

		username string
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Username = core.CleanString(lr.Username, true /* lower */)
	return core.ValidateStruct(validate, lr)
}

func (rr *RefreshRequest) Validate(validate *validator.Validate) error {
	rr.RefreshToken = core.CleanString(rr.RefreshToken)
	return core.ValidateStruct(validate, rr)
}

func (fr *ForgotPasswordRequest) Validate(validate *validator.Validate) error {
	fr.Email = core.CleanString(fr.Email, true /* lower */)
	return core.ValidateStruct(validate, fr)
}

func (rp *ResetPasswordRequest) Validate(validate *validator.Validate) error {
	rp.Token = core.CleanString(rp.Token)
	return core.ValidateStruct(validate, rp)
}

func (cp *ChangePasswordRequest) Validate(usr User, validate *validator.Validate) error {
	cp.username = usr.Username
	return core.ValidateStruct(validate, cp)
}
